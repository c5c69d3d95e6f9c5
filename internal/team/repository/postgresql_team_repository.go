// Package repository provides data persistence implementations for teams and
// team memberships.
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

// PostgreSQLTeamRepository handles team persistence for PostgreSQL
type PostgreSQLTeamRepository struct {
	db *sql.DB
}

// NewPostgreSQLTeamRepository creates a new PostgreSQLTeamRepository
func NewPostgreSQLTeamRepository(db *sql.DB) *PostgreSQLTeamRepository {
	return &PostgreSQLTeamRepository{
		db: db,
	}
}

// Create inserts a new team
func (r *PostgreSQLTeamRepository) Create(ctx context.Context, team *domain.Team) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO teams (id, name, slug, description, owner_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(ctx, query,
		team.ID, team.Name, team.Slug, team.Description,
		team.OwnerID, team.CreatedAt, team.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ErrConflict, "team slug already exists")
		}
		return apperrors.Wrap(err, "failed to create team")
	}
	return nil
}

// Get retrieves a team by ID
func (r *PostgreSQLTeamRepository) Get(ctx context.Context, teamID uuid.UUID) (*domain.Team, error) {
	var team domain.Team
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, slug, description, owner_id, created_at, updated_at
			  FROM teams WHERE id = $1`

	err := querier.QueryRowContext(ctx, query, teamID).Scan(
		&team.ID, &team.Name, &team.Slug, &team.Description,
		&team.OwnerID, &team.CreatedAt, &team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get team")
	}

	return &team, nil
}

// ListByUser retrieves the teams a user belongs to, most recently updated first
func (r *PostgreSQLTeamRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Team, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT t.id, t.name, t.slug, t.description, t.owner_id, t.created_at, t.updated_at
			  FROM teams t
			  INNER JOIN team_members tm ON tm.team_id = t.id
			  WHERE tm.user_id = $1
			  ORDER BY t.updated_at DESC`

	rows, err := querier.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list teams")
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		var team domain.Team
		err := rows.Scan(
			&team.ID, &team.Name, &team.Slug, &team.Description,
			&team.OwnerID, &team.CreatedAt, &team.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan team")
		}
		teams = append(teams, &team)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate teams")
	}

	return teams, nil
}

// SlugExists reports whether a team slug is taken
func (r *PostgreSQLTeamRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	querier := database.GetTx(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM teams WHERE slug = $1)`

	if err := querier.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check team slug")
	}
	return exists, nil
}
