package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/ports"
)

// Repository persists content items, the kill-switch singleton, the audit
// log and site errors in SQLite.
type Repository struct {
	db *sql.DB
}

var _ ports.ContentRepository = (*Repository)(nil)
var _ ports.KillSwitchRepository = (*Repository)(nil)
var _ ports.AuditLog = (*Repository)(nil)
var _ ports.SiteErrorLog = (*Repository)(nil)

// NewRepository wires a sql.DB implementation.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetContent loads a single item by ID.
func (r *Repository) GetContent(ctx context.Context, id int64) (domain.ContentItem, error) {
	query, args, err := sq.Select(contentColumns...).
		From("contents").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.ContentItem{}, fmt.Errorf("build query: %w", err)
	}

	item, err := scanContent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ContentItem{}, domain.ErrContentNotFound
	}
	if err != nil {
		return domain.ContentItem{}, fmt.Errorf("get content %d: %w", id, err)
	}
	return item, nil
}

// SaveContent inserts a new item and returns its ID.
func (r *Repository) SaveContent(ctx context.Context, item domain.ContentItem) (int64, error) {
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query, args, err := sq.Insert("contents").
		Columns("title", "slug", "content_html", "content_md", "meta_description",
			"keywords", "status", "similarity_score", "content_hash", "word_count",
			"created_at", "published_at", "url").
		Values(item.Title, item.Slug, item.BodyHTML, item.BodyMarkdown, item.Summary,
			strings.Join(item.Keywords, ","), string(item.Status), item.Score,
			item.ContentHash, item.WordCount, createdAt.UTC(), item.PublishedAt, item.URL).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert content: %w", err)
	}
	return res.LastInsertId()
}

// UpdateStatus moves an item to a new lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.ContentStatus) error {
	return r.execContentUpdate(ctx, id, sq.Update("contents").
		Set("status", string(status)).
		Where(sq.Eq{"id": id}))
}

// SetScore attaches a duplication score after screening.
func (r *Repository) SetScore(ctx context.Context, id int64, score float64) error {
	return r.execContentUpdate(ctx, id, sq.Update("contents").
		Set("similarity_score", score).
		Where(sq.Eq{"id": id}))
}

// MarkPublished records the publish side effect: status, slug, URL and
// timestamp in one statement, so the published-slug uniqueness index sees
// the slug the artifact was actually written under.
func (r *Repository) MarkPublished(ctx context.Context, id int64, slug, url string, publishedAt time.Time) error {
	return r.execContentUpdate(ctx, id, sq.Update("contents").
		Set("status", string(domain.StatusPublished)).
		Set("slug", slug).
		Set("url", url).
		Set("published_at", publishedAt.UTC()).
		Where(sq.Eq{"id": id}))
}

// MarkUnpublished soft-reverts a published item: the record is retained,
// the public URL is dropped.
func (r *Repository) MarkUnpublished(ctx context.Context, id int64) error {
	return r.execContentUpdate(ctx, id, sq.Update("contents").
		Set("status", string(domain.StatusUnpublished)).
		Set("url", "").
		Where(sq.Eq{"id": id}))
}

func (r *Repository) execContentUpdate(ctx context.Context, id int64, builder sq.UpdateBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update content %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrContentNotFound
	}
	return nil
}

// ListCorpus returns every published or draft item with a body, the set
// the similarity engine compares against.
func (r *Repository) ListCorpus(ctx context.Context) ([]domain.ContentItem, error) {
	query, args, err := sq.Select(contentColumns...).
		From("contents").
		Where(sq.Eq{"status": []string{string(domain.StatusPublished), string(domain.StatusDraft)}}).
		Where(sq.Or{
			sq.NotEq{"content_md": ""},
			sq.NotEq{"content_html": ""},
		}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.queryContents(ctx, query, args)
}

// ListByStatus returns up to limit items in the given status, oldest first.
func (r *Repository) ListByStatus(ctx context.Context, status domain.ContentStatus, limit int) ([]domain.ContentItem, error) {
	builder := sq.Select(contentColumns...).
		From("contents").
		Where(sq.Eq{"status": string(status)}).
		OrderBy("created_at", "id")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return r.queryContents(ctx, query, args)
}

// CountByStatus counts items across one or more statuses.
func (r *Repository) CountByStatus(ctx context.Context, statuses ...domain.ContentStatus) (int, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	query, args, err := sq.Select("COUNT(*)").
		From("contents").
		Where(sq.Eq{"status": values}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count by status: %w", err)
	}
	return count, nil
}

// CountPublishedOn counts items published during the given calendar day
// (in the day's location).
func (r *Repository) CountPublishedOn(ctx context.Context, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	query, args, err := sq.Select("COUNT(*)").
		From("contents").
		Where(sq.Eq{"status": string(domain.StatusPublished)}).
		Where(sq.GtOrEq{"published_at": start.UTC()}).
		Where(sq.Lt{"published_at": end.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count published: %w", err)
	}
	return count, nil
}

// Stats assembles the operator-facing snapshot.
func (r *Repository) Stats(ctx context.Context) (domain.Stats, error) {
	var stats domain.Stats
	var err error

	if stats.TotalPublished, err = r.CountByStatus(ctx, domain.StatusPublished); err != nil {
		return stats, err
	}
	if stats.PendingDrafts, err = r.CountByStatus(ctx, domain.StatusDraft, domain.StatusPendingReview); err != nil {
		return stats, err
	}
	if stats.BlockedItems, err = r.CountByStatus(ctx, domain.StatusBlocked); err != nil {
		return stats, err
	}

	now := time.Now().UTC()
	if stats.PublishedToday, err = r.CountPublishedOn(ctx, now); err != nil {
		return stats, err
	}

	since := now.Add(-24 * time.Hour)
	query, args, qErr := sq.Select("COUNT(*)").
		From("contents").
		Where(sq.Eq{"status": string(domain.StatusPublished)}).
		Where(sq.GtOrEq{"published_at": since}).
		ToSql()
	if qErr != nil {
		return stats, fmt.Errorf("build query: %w", qErr)
	}
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&stats.Published24h); err != nil {
		return stats, fmt.Errorf("count published 24h: %w", err)
	}

	if stats.SiteErrors24h, err = r.CountSiteErrorsSince(ctx, since); err != nil {
		return stats, err
	}

	if _, active, err := r.ActiveState(ctx); err == nil {
		stats.KillSwitchActive = active
	}

	return stats, nil
}

var contentColumns = []string{
	"id", "title", "slug", "content_html", "content_md", "meta_description",
	"keywords", "status", "similarity_score", "content_hash", "word_count",
	"created_at", "published_at", "url",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (domain.ContentItem, error) {
	var item domain.ContentItem
	var keywords string
	var score sql.NullFloat64
	var publishedAt sql.NullTime
	var slug, url, hash sql.NullString

	err := row.Scan(&item.ID, &item.Title, &slug, &item.BodyHTML, &item.BodyMarkdown,
		&item.Summary, &keywords, (*string)(&item.Status), &score, &hash,
		&item.WordCount, &item.CreatedAt, &publishedAt, &url)
	if err != nil {
		return domain.ContentItem{}, err
	}

	item.Slug = slug.String
	item.URL = url.String
	item.ContentHash = hash.String
	if keywords != "" {
		item.Keywords = strings.Split(keywords, ",")
	}
	if score.Valid {
		item.Score = &score.Float64
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		item.PublishedAt = &t
	}
	return item, nil
}

func (r *Repository) queryContents(ctx context.Context, query string, args []any) ([]domain.ContentItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contents: %w", err)
	}
	defer rows.Close()

	var items []domain.ContentItem
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return items, nil
}
