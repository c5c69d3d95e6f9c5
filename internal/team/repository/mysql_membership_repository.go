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

// MySQLMembershipRepository handles team membership persistence for MySQL
type MySQLMembershipRepository struct {
	db *sql.DB
}

// NewMySQLMembershipRepository creates a new MySQLMembershipRepository
func NewMySQLMembershipRepository(db *sql.DB) *MySQLMembershipRepository {
	return &MySQLMembershipRepository{
		db: db,
	}
}

// Create inserts a new team member
func (r *MySQLMembershipRepository) Create(ctx context.Context, member *domain.TeamMember) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := member.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	teamIDBytes, err := member.TeamID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := member.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO team_members (id, team_id, user_id, role, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		idBytes, teamIDBytes, userIDBytes, member.Role, member.CreatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrMemberExists
		}
		return apperrors.Wrap(err, "failed to create team member")
	}
	return nil
}

// Get retrieves a membership by team and user
func (r *MySQLMembershipRepository) Get(ctx context.Context, teamID, userID uuid.UUID) (*domain.TeamMember, error) {
	var member domain.TeamMember
	querier := database.GetTx(ctx, r.db)

	teamIDBytes, err := teamID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, team_id, user_id, role, created_at
			  FROM team_members WHERE team_id = ? AND user_id = ?`

	var idBytes, memberTeamIDBytes, memberUserIDBytes []byte
	err = querier.QueryRowContext(ctx, query, teamIDBytes, userIDBytes).Scan(
		&idBytes, &memberTeamIDBytes, &memberUserIDBytes, &member.Role, &member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get team member")
	}

	if err := unmarshalMemberIDs(&member, idBytes, memberTeamIDBytes, memberUserIDBytes); err != nil {
		return nil, err
	}

	return &member, nil
}

// List retrieves the members of a team, oldest membership first
func (r *MySQLMembershipRepository) List(ctx context.Context, teamID uuid.UUID) ([]*domain.TeamMember, error) {
	querier := database.GetTx(ctx, r.db)

	teamIDBytes, err := teamID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, team_id, user_id, role, created_at
			  FROM team_members WHERE team_id = ?
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, teamIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list team members")
	}
	defer rows.Close()

	var members []*domain.TeamMember
	for rows.Next() {
		var member domain.TeamMember
		var idBytes, memberTeamIDBytes, memberUserIDBytes []byte
		err := rows.Scan(
			&idBytes, &memberTeamIDBytes, &memberUserIDBytes, &member.Role, &member.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan team member")
		}
		if err := unmarshalMemberIDs(&member, idBytes, memberTeamIDBytes, memberUserIDBytes); err != nil {
			return nil, err
		}
		members = append(members, &member)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate team members")
	}

	return members, nil
}

// ListTeamIDs retrieves the IDs of the teams a user belongs to
func (r *MySQLMembershipRepository) ListTeamIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	querier := database.GetTx(ctx, r.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT team_id FROM team_members WHERE user_id = ?`

	rows, err := querier.QueryContext(ctx, query, userIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list team ids")
	}
	defer rows.Close()

	var teamIDs []uuid.UUID
	for rows.Next() {
		var teamIDBytes []byte
		if err := rows.Scan(&teamIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan team id")
		}
		var teamID uuid.UUID
		if err := teamID.UnmarshalBinary(teamIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		teamIDs = append(teamIDs, teamID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate team ids")
	}

	return teamIDs, nil
}

// UpdateRole changes a member's role
func (r *MySQLMembershipRepository) UpdateRole(ctx context.Context, teamID, userID uuid.UUID, role domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	teamIDBytes, err := teamID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE team_members SET role = ? WHERE team_id = ? AND user_id = ?`

	result, err := querier.ExecContext(ctx, query, role, teamIDBytes, userIDBytes)
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
func (r *MySQLMembershipRepository) Delete(ctx context.Context, teamID, userID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	teamIDBytes, err := teamID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `DELETE FROM team_members WHERE team_id = ? AND user_id = ?`

	result, err := querier.ExecContext(ctx, query, teamIDBytes, userIDBytes)
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

// unmarshalMemberIDs fills the UUID fields of a member from BINARY(16) columns.
func unmarshalMemberIDs(member *domain.TeamMember, id, teamID, userID []byte) error {
	if err := member.ID.UnmarshalBinary(id); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := member.TeamID.UnmarshalBinary(teamID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := member.UserID.UnmarshalBinary(userID); err != nil {
		return apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return nil
}
