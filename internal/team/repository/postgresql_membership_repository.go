package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/cosecrets/cosecrets/internal/database"
	apperrors "github.com/cosecrets/cosecrets/internal/errors"
	"github.com/cosecrets/cosecrets/internal/team/domain"
)

// PostgreSQLMembershipRepository handles team membership persistence for PostgreSQL
type PostgreSQLMembershipRepository struct {
	db *sql.DB
}

// NewPostgreSQLMembershipRepository creates a new PostgreSQLMembershipRepository
func NewPostgreSQLMembershipRepository(db *sql.DB) *PostgreSQLMembershipRepository {
	return &PostgreSQLMembershipRepository{
		db: db,
	}
}

// Create inserts a new team member
func (r *PostgreSQLMembershipRepository) Create(ctx context.Context, member *domain.TeamMember) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO team_members (id, team_id, user_id, role, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(ctx, query,
		member.ID, member.TeamID, member.UserID, member.Role, member.CreatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrMemberExists
		}
		return apperrors.Wrap(err, "failed to create team member")
	}
	return nil
}

// Get retrieves a membership by team and user
func (r *PostgreSQLMembershipRepository) Get(ctx context.Context, teamID, userID uuid.UUID) (*domain.TeamMember, error) {
	var member domain.TeamMember
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, team_id, user_id, role, created_at
			  FROM team_members WHERE team_id = $1 AND user_id = $2`

	err := querier.QueryRowContext(ctx, query, teamID, userID).Scan(
		&member.ID, &member.TeamID, &member.UserID, &member.Role, &member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get team member")
	}

	return &member, nil
}

// List retrieves the members of a team, oldest membership first
func (r *PostgreSQLMembershipRepository) List(ctx context.Context, teamID uuid.UUID) ([]*domain.TeamMember, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, team_id, user_id, role, created_at
			  FROM team_members WHERE team_id = $1
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list team members")
	}
	defer rows.Close()

	var members []*domain.TeamMember
	for rows.Next() {
		var member domain.TeamMember
		err := rows.Scan(
			&member.ID, &member.TeamID, &member.UserID, &member.Role, &member.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan team member")
		}
		members = append(members, &member)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate team members")
	}

	return members, nil
}

// ListTeamIDs retrieves the IDs of the teams a user belongs to
func (r *PostgreSQLMembershipRepository) ListTeamIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT team_id FROM team_members WHERE user_id = $1`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list team ids")
	}
	defer rows.Close()

	var teamIDs []uuid.UUID
	for rows.Next() {
		var teamID uuid.UUID
		if err := rows.Scan(&teamID); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan team id")
		}
		teamIDs = append(teamIDs, teamID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate team ids")
	}

	return teamIDs, nil
}

// UpdateRole changes a member's role
func (r *PostgreSQLMembershipRepository) UpdateRole(ctx context.Context, teamID, userID uuid.UUID, role domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE team_members SET role = $1 WHERE team_id = $2 AND user_id = $3`

	result, err := querier.ExecContext(ctx, query, role, teamID, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update team member role")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

// Delete removes a team member
func (r *PostgreSQLMembershipRepository) Delete(ctx context.Context, teamID, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`

	result, err := querier.ExecContext(ctx, query, teamID, userID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete team member")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
