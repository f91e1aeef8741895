package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hagateway/twilio-dispatch/internal/domain"
)

// DispatchRepository persists dispatches and their per-recipient outcomes.
type DispatchRepository struct {
	db *sqlx.DB
}

func NewDispatchRepository(db *sqlx.DB) *DispatchRepository {
	return &DispatchRepository{db: db}
}

func (r *DispatchRepository) Create(ctx context.Context, d *domain.Dispatch) error {
	query := `
		INSERT INTO dispatches (id, from_number, body, targets, media_urls, status, error_detail, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, query,
		d.ID, d.FromNumber, d.Body, d.Targets, d.MediaURLs, d.Status, d.ErrorDetail, d.CompletedAt,
	); err != nil {
		return fmt.Errorf("failed to create dispatch: %w", err)
	}

	if err := insertOutcomes(ctx, tx, d.ID, d.Outcomes); err != nil {
		return err
	}

	return tx.Commit()
}

// GetPending returns the oldest queued dispatches, without their outcomes
// (pending dispatches have none).
func (r *DispatchRepository) GetPending(ctx context.Context, limit int) ([]domain.Dispatch, error) {
	query := `
		SELECT id, from_number, body, targets, media_urls, status, error_detail, completed_at, created_at, updated_at
		FROM dispatches
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT ?
	`

	var dispatches []domain.Dispatch
	if err := r.db.SelectContext(ctx, &dispatches, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get pending dispatches: %w", err)
	}

	return dispatches, nil
}

// MarkCompleted records the terminal status of a processed dispatch and
// replaces any previous outcomes with the new per-recipient results.
func (r *DispatchRepository) MarkCompleted(
	ctx context.Context,
	id string,
	status domain.DispatchStatus,
	outcomes []domain.DispatchOutcome,
) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE dispatches
		SET status = ?, error_detail = NULL, completed_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := tx.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark dispatch as completed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no dispatch found with id %s", id)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM dispatch_outcomes WHERE dispatch_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear previous outcomes: %w", err)
	}

	if err := insertOutcomes(ctx, tx, id, outcomes); err != nil {
		return err
	}

	return tx.Commit()
}

// MarkFailed records a pre-flight failure: nothing was sent, so the error
// detail is stored on the dispatch itself and no outcomes exist.
func (r *DispatchRepository) MarkFailed(ctx context.Context, id string, detail string) error {
	query := `
		UPDATE dispatches
		SET status = 'failed', error_detail = ?, completed_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	if _, err := r.db.ExecContext(ctx, query, detail, time.Now(), id); err != nil {
		return fmt.Errorf("failed to mark dispatch as failed: %w", err)
	}

	return nil
}

func (r *DispatchRepository) GetByID(ctx context.Context, id string) (*domain.Dispatch, error) {
	query := `
		SELECT id, from_number, body, targets, media_urls, status, error_detail, completed_at, created_at, updated_at
		FROM dispatches
		WHERE id = ?
	`

	var dispatch domain.Dispatch
	if err := r.db.GetContext(ctx, &dispatch, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get dispatch: %w", err)
	}

	outcomes, err := r.getOutcomes(ctx, id)
	if err != nil {
		return nil, err
	}
	dispatch.Outcomes = outcomes

	return &dispatch, nil
}

func (r *DispatchRepository) List(
	ctx context.Context,
	status *domain.DispatchStatus,
	page, pageSize int,
) ([]domain.Dispatch, int64, error) {
	offset := (page - 1) * pageSize
	var totalCount int64
	var dispatches []domain.Dispatch

	if status != nil {
		countQuery := "SELECT COUNT(*) FROM dispatches WHERE status = ?"
		if err := r.db.GetContext(ctx, &totalCount, countQuery, *status); err != nil {
			return nil, 0, fmt.Errorf("failed to count dispatches: %w", err)
		}

		query := `
			SELECT id, from_number, body, targets, media_urls, status, error_detail, completed_at, created_at, updated_at
			FROM dispatches
			WHERE status = ?
			ORDER BY created_at DESC
			LIMIT ? OFFSET ?
		`
		if err := r.db.SelectContext(ctx, &dispatches, query, *status, pageSize, offset); err != nil {
			return nil, 0, fmt.Errorf("failed to get dispatches: %w", err)
		}
	} else {
		countQuery := "SELECT COUNT(*) FROM dispatches"
		if err := r.db.GetContext(ctx, &totalCount, countQuery); err != nil {
			return nil, 0, fmt.Errorf("failed to count dispatches: %w", err)
		}

		query := `
			SELECT id, from_number, body, targets, media_urls, status, error_detail, completed_at, created_at, updated_at
			FROM dispatches
			ORDER BY created_at DESC
			LIMIT ? OFFSET ?
		`
		if err := r.db.SelectContext(ctx, &dispatches, query, pageSize, offset); err != nil {
			return nil, 0, fmt.Errorf("failed to get dispatches: %w", err)
		}
	}

	return dispatches, totalCount, nil
}

// GetStats returns dispatch counts by status.
func (r *DispatchRepository) GetStats(ctx context.Context) (pending, sent, partial, failed int64, err error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'sent' THEN 1 ELSE 0 END), 0)    AS sent,
			COALESCE(SUM(CASE WHEN status = 'partial' THEN 1 ELSE 0 END), 0) AS partial,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)  AS failed
		FROM dispatches
	`

	var stats struct {
		Pending int64 `db:"pending"`
		Sent    int64 `db:"sent"`
		Partial int64 `db:"partial"`
		Failed  int64 `db:"failed"`
	}

	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats.Pending, stats.Sent, stats.Partial, stats.Failed, nil
}

// ReplayFailedByID re-queues one failed dispatch, clearing its prior
// outcomes so the next run starts clean.
func (r *DispatchRepository) ReplayFailedByID(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		UPDATE dispatches
		SET status = 'pending',
		    error_detail = NULL,
		    completed_at = NULL,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status IN ('failed', 'partial')
	`

	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to replay failed dispatch: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no failed dispatch found with id %s", id)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM dispatch_outcomes WHERE dispatch_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear previous outcomes: %w", err)
	}

	return tx.Commit()
}

func (r *DispatchRepository) ReplayAllFailed(ctx context.Context) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cleanup := `
		DELETE o FROM dispatch_outcomes o
		JOIN dispatches d ON d.id = o.dispatch_id
		WHERE d.status IN ('failed', 'partial')
	`
	if _, err := tx.ExecContext(ctx, cleanup); err != nil {
		return 0, fmt.Errorf("failed to clear previous outcomes: %w", err)
	}

	query := `
		UPDATE dispatches
		SET status = 'pending',
		    error_detail = NULL,
		    completed_at = NULL,
		    updated_at = CURRENT_TIMESTAMP
		WHERE status IN ('failed', 'partial')
	`

	result, err := tx.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to replay failed dispatches: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, tx.Commit()
}

func (r *DispatchRepository) getOutcomes(ctx context.Context, dispatchID string) ([]domain.DispatchOutcome, error) {
	query := `
		SELECT id, dispatch_id, position, recipient, success, message_sid, error_code, error_message, sent_at
		FROM dispatch_outcomes
		WHERE dispatch_id = ?
		ORDER BY position ASC
	`

	var outcomes []domain.DispatchOutcome
	if err := r.db.SelectContext(ctx, &outcomes, query, dispatchID); err != nil {
		return nil, fmt.Errorf("failed to get dispatch outcomes: %w", err)
	}

	return outcomes, nil
}

func insertOutcomes(ctx context.Context, tx *sqlx.Tx, dispatchID string, outcomes []domain.DispatchOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	query := `
		INSERT INTO dispatch_outcomes (dispatch_id, position, recipient, success, message_sid, error_code, error_message, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, o := range outcomes {
		if _, err := tx.ExecContext(ctx, query,
			dispatchID, o.Position, o.Recipient, o.Success, o.MessageSID, o.ErrorCode, o.ErrorMessage, o.SentAt,
		); err != nil {
			return fmt.Errorf("failed to insert dispatch outcome: %w", err)
		}
	}

	return nil
}
