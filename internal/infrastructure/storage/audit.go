package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
)

// Append writes one audit-log record. The log is append-only: there is no
// update path.
func (r *Repository) Append(ctx context.Context, entry domain.AuditEntry) error {
	query, args, err := sq.Insert("audit_log").
		Columns("cycle_id", "task_type", "params", "result", "status",
			"error_message", "duration_seconds", "started_at", "completed_at").
		Values(entry.CycleID, entry.TaskType, entry.Params, entry.Result,
			string(entry.Status), entry.Error, entry.Duration.Seconds(),
			entry.StartedAt.UTC(), entry.CompletedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// Recent returns the latest audit entries, newest first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	query, args, err := sq.Select("id", "cycle_id", "task_type", "params", "result",
		"status", "error_message", "duration_seconds", "started_at", "completed_at").
		From("audit_log").
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var params, result, errMsg sql.NullString
		var seconds float64
		if err := rows.Scan(&entry.ID, &entry.CycleID, &entry.TaskType, &params,
			&result, (*string)(&entry.Status), &errMsg, &seconds,
			&entry.StartedAt, &entry.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.Params = params.String
		entry.Result = result.String
		entry.Error = errMsg.String
		entry.Duration = time.Duration(seconds * float64(time.Second))
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return entries, nil
}

// RecordSiteError stores one externally-reported site failure.
func (r *Repository) RecordSiteError(ctx context.Context, e domain.SiteError) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	query, args, err := sq.Insert("site_errors").
		Columns("error_type", "status_code", "message", "created_at").
		Values(e.ErrorType, e.StatusCode, e.Message, createdAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record site error: %w", err)
	}
	return nil
}

// CountSiteErrorsSince counts failures in the trailing window feeding the
// circuit breaker's error signal.
func (r *Repository) CountSiteErrorsSince(ctx context.Context, since time.Time) (int, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("site_errors").
		Where(sq.Gt{"created_at": since.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count site errors: %w", err)
	}
	return count, nil
}
