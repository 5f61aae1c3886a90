package repository

import (
	"context"
	"fmt"

	"project-tracker/internal/domain"
	"project-tracker/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// MaxWorkstream is the highest workstream number with a tracking table.
const MaxWorkstream = 5

// SubmissionRepository defines the interface for tracking entry storage.
// Each workstream has its own table (tracking_ws1..tracking_ws5), matching
// the externally-fixed storage contract.
type SubmissionRepository interface {
	Insert(ctx context.Context, workstream int, sub *models.Submission) error
	ListByWorkstream(ctx context.Context, workstream int) ([]models.Submission, error)
	CountByWorkstream(ctx context.Context, workstream int) (int64, error)
}

type sqlxSubmissionRepository struct {
	db *sqlx.DB
}

// NewSQLXSubmissionRepository creates a new instance of sqlxSubmissionRepository.
func NewSQLXSubmissionRepository(db *sqlx.DB) SubmissionRepository {
	return &sqlxSubmissionRepository{db: db}
}

// trackingTable maps a workstream number to its table name. The number is
// validated here so it can never reach the SQL string unchecked.
func trackingTable(workstream int) (string, error) {
	if workstream < 1 || workstream > MaxWorkstream {
		return "", domain.NewInvalidInputError(fmt.Sprintf("invalid workstream: %d", workstream))
	}
	return fmt.Sprintf("tracking_ws%d", workstream), nil
}

// Insert stores one tracking entry. The core invokes this at most once per
// successful submit; there is no retry here.
func (r *sqlxSubmissionRepository) Insert(ctx context.Context, workstream int, sub *models.Submission) error {
	table, err := trackingTable(workstream)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, project_id, workstream, form_title, answers, user_id, submitted_at)
	          VALUES (:id, :project_id, :workstream, :form_title, :answers, :user_id, :submitted_at)`, table)

	if _, err := r.db.NamedExecContext(ctx, query, sub); err != nil {
		return fmt.Errorf("failed to insert submission into %s: %w", table, err)
	}
	return nil
}

// ListByWorkstream returns all tracking entries for a workstream, newest
// first.
func (r *sqlxSubmissionRepository) ListByWorkstream(ctx context.Context, workstream int) ([]models.Submission, error) {
	table, err := trackingTable(workstream)
	if err != nil {
		return nil, err
	}

	var subs []models.Submission
	query := fmt.Sprintf(`SELECT id, project_id, workstream, form_title, answers, user_id, submitted_at
	          FROM %s ORDER BY submitted_at DESC`, table)

	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, fmt.Errorf("failed to list submissions from %s: %w", table, err)
	}
	return subs, nil
}

// CountByWorkstream returns the number of tracking entries for a workstream.
func (r *sqlxSubmissionRepository) CountByWorkstream(ctx context.Context, workstream int) (int64, error) {
	table, err := trackingTable(workstream)
	if err != nil {
		return 0, err
	}

	var count int64
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count submissions in %s: %w", table, err)
	}
	return count, nil
}
