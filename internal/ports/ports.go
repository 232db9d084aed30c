package ports

import (
	"context"
	"time"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
)

// ContentRepository persists content items and the counters the governor
// reads when deciding the next action.
type ContentRepository interface {
	GetContent(ctx context.Context, id int64) (domain.ContentItem, error)
	SaveContent(ctx context.Context, item domain.ContentItem) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ContentStatus) error
	SetScore(ctx context.Context, id int64, score float64) error
	MarkPublished(ctx context.Context, id int64, slug, url string, publishedAt time.Time) error
	MarkUnpublished(ctx context.Context, id int64) error
	ListCorpus(ctx context.Context) ([]domain.ContentItem, error)
	ListByStatus(ctx context.Context, status domain.ContentStatus, limit int) ([]domain.ContentItem, error)
	CountByStatus(ctx context.Context, statuses ...domain.ContentStatus) (int, error)
	CountPublishedOn(ctx context.Context, day time.Time) (int, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// KillSwitchRepository owns the pause singleton. Supersede replaces any
// active state atomically (last write wins).
type KillSwitchRepository interface {
	ActiveState(ctx context.Context) (domain.KillSwitchState, bool, error)
	Supersede(ctx context.Context, state domain.KillSwitchState) error
	DeactivateAll(ctx context.Context) error
}

// AuditLog is the append-only record of every decision made.
type AuditLog interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// SiteErrorLog records externally-reported site failures and counts them
// over a trailing window for the circuit breaker.
type SiteErrorLog interface {
	RecordSiteError(ctx context.Context, e domain.SiteError) error
	CountSiteErrorsSince(ctx context.Context, since time.Time) (int, error)
}

// Generator turns a brief into candidate prose. May fail or time out;
// the caller logs the cycle as failed and waits for the next invocation.
type Generator interface {
	Generate(ctx context.Context, brief string, keywords []string) (domain.GeneratedContent, error)
}

// Notifier delivers human-readable alerts. Fire-and-forget: delivery
// failure is logged but never blocks pause activation or publishing.
type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// SiteStore exposes the durable site root: rendered artifacts by slug and
// the URL index document.
type SiteStore interface {
	ArtifactExists(slug string) (bool, error)
	WriteArtifact(slug string, html []byte) (string, error)
	RemoveArtifact(slug string) error
	ReadSitemap() ([]byte, error)
	WriteSitemap(data []byte) error
}

// Scheduler controls when governor cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
