package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
)

// ActiveState returns the most recent active kill-switch row, if any.
// Expiry is the caller's concern: this is a plain read.
func (r *Repository) ActiveState(ctx context.Context) (domain.KillSwitchState, bool, error) {
	query, args, err := sq.Select("reason", "triggered_count", "activated_at", "deactivate_at").
		From("kill_switch").
		Where(sq.Eq{"is_active": 1}).
		OrderBy("id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return domain.KillSwitchState{}, false, fmt.Errorf("build query: %w", err)
	}

	var state domain.KillSwitchState
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&state.Reason, &state.TriggeredCount, &state.ActivatedAt, &state.DeactivateAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.KillSwitchState{}, false, nil
	}
	if err != nil {
		return domain.KillSwitchState{}, false, fmt.Errorf("read kill switch: %w", err)
	}

	state.Active = true
	return state, true, nil
}

// Supersede deactivates any prior active state and inserts the new one in
// a single transaction; last write wins.
func (r *Repository) Supersede(ctx context.Context, state domain.KillSwitchState) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE kill_switch SET is_active = 0 WHERE is_active = 1`); err != nil {
		return fmt.Errorf("supersede prior state: %w", err)
	}

	query, args, err := sq.Insert("kill_switch").
		Columns("is_active", "reason", "triggered_count", "activated_at", "deactivate_at", "created_at").
		Values(1, state.Reason, state.TriggeredCount,
			state.ActivatedAt.UTC(), state.DeactivateAt.UTC(), time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert kill switch: %w", err)
	}

	return tx.Commit()
}

// DeactivateAll clears every active kill-switch row.
func (r *Repository) DeactivateAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE kill_switch SET is_active = 0 WHERE is_active = 1`); err != nil {
		return fmt.Errorf("deactivate kill switch: %w", err)
	}
	return nil
}
