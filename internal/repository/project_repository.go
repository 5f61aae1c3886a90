package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"project-tracker/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// ProjectRepository defines the interface for project data operations.
type ProjectRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error)
	GetByID(ctx context.Context, projectID string) (*models.Project, error)
}

type sqlxProjectRepository struct {
	db *sqlx.DB
}

// NewSQLXProjectRepository creates a new instance of sqlxProjectRepository.
func NewSQLXProjectRepository(db *sqlx.DB) ProjectRepository {
	return &sqlxProjectRepository{db: db}
}

// ListByOwner returns the owner's projects, newest first.
func (r *sqlxProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error) {
	var projects []models.Project
	query := `SELECT id, acronym, title, workstream, owner_id, created_at
	          FROM projects WHERE owner_id = :owner_id ORDER BY created_at DESC`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for ListByOwner: %w", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{"owner_id": ownerID}
	if err := stmt.SelectContext(ctx, &projects, args); err != nil {
		return nil, fmt.Errorf("failed to list projects by owner: %w", err)
	}
	return projects, nil
}

// GetByID retrieves a single project. Returns (nil, nil) when absent;
// services decide whether that is an error.
func (r *sqlxProjectRepository) GetByID(ctx context.Context, projectID string) (*models.Project, error) {
	var project models.Project
	query := `SELECT id, acronym, title, workstream, owner_id, created_at
	          FROM projects WHERE id = :id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare query for GetByID: %w", err)
	}
	defer stmt.Close()

	args := map[string]interface{}{"id": projectID}
	if err := stmt.GetContext(ctx, &project, args); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project by id: %w", err)
	}
	return &project, nil
}
