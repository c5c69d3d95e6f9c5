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

// MySQLTeamRepository handles team persistence for MySQL
type MySQLTeamRepository struct {
	db *sql.DB
}

// NewMySQLTeamRepository creates a new MySQLTeamRepository
func NewMySQLTeamRepository(db *sql.DB) *MySQLTeamRepository {
	return &MySQLTeamRepository{
		db: db,
	}
}

// Create inserts a new team
func (r *MySQLTeamRepository) Create(ctx context.Context, team *domain.Team) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := team.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	ownerIDBytes, err := team.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO teams (id, name, slug, description, owner_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		idBytes, team.Name, team.Slug, team.Description,
		ownerIDBytes, team.CreatedAt, team.UpdatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "team slug already exists")
		}
		return apperrors.Wrap(err, "failed to create team")
	}
	return nil
}

// Get retrieves a team by ID
func (r *MySQLTeamRepository) Get(ctx context.Context, teamID uuid.UUID) (*domain.Team, error) {
	var team domain.Team
	querier := database.GetTx(ctx, r.db)

	idBytes, err := teamID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, name, slug, description, owner_id, created_at, updated_at
			  FROM teams WHERE id = ?`

	var teamIDBytes, ownerIDBytes []byte
	err = querier.QueryRowContext(ctx, query, idBytes).Scan(
		&teamIDBytes, &team.Name, &team.Slug, &team.Description,
		&ownerIDBytes, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get team")
	}

	if err := team.ID.UnmarshalBinary(teamIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := team.OwnerID.UnmarshalBinary(ownerIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &team, nil
}

// ListByUser retrieves the teams a user belongs to, most recently updated first
func (r *MySQLTeamRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Team, error) {
	querier := database.GetTx(ctx, r.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT t.id, t.name, t.slug, t.description, t.owner_id, t.created_at, t.updated_at
			  FROM teams t
			  INNER JOIN team_members tm ON tm.team_id = t.id
			  WHERE tm.user_id = ?
			  ORDER BY t.updated_at DESC`

	rows, err := querier.QueryContext(ctx, query, userIDBytes)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list teams")
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		var team domain.Team
		var teamIDBytes, ownerIDBytes []byte
		err := rows.Scan(
			&teamIDBytes, &team.Name, &team.Slug, &team.Description,
			&ownerIDBytes, &team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan team")
		}
		if err := team.ID.UnmarshalBinary(teamIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if err := team.OwnerID.UnmarshalBinary(ownerIDBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		teams = append(teams, &team)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate teams")
	}

	return teams, nil
}

// SlugExists reports whether a team slug is taken
func (r *MySQLTeamRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	querier := database.GetTx(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM teams WHERE slug = ?)`

	if err := querier.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check team slug")
	}
	return exists, nil
}
