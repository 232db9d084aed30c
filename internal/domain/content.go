package domain

import "time"

// ContentStatus enumerates the lifecycle of a content item.
type ContentStatus string

const (
	StatusDraft         ContentStatus = "draft"
	StatusScreened      ContentStatus = "screened"
	StatusBlocked       ContentStatus = "blocked"
	StatusPendingReview ContentStatus = "pending_review"
	StatusApproved      ContentStatus = "approved"
	StatusPublished     ContentStatus = "published"
	StatusUnpublished   ContentStatus = "unpublished"
	StatusRejected      ContentStatus = "rejected"
	StatusArchived      ContentStatus = "archived"
)

// ContentItem is the unit of work moving from generation to publication.
type ContentItem struct {
	ID           int64
	Title        string
	Slug         string
	BodyHTML     string
	BodyMarkdown string
	Summary      string
	Keywords     []string
	Status       ContentStatus
	Score        *float64
	ContentHash  string
	WordCount    int
	CreatedAt    time.Time
	PublishedAt  *time.Time
	URL          string
}

// Body returns the text used for similarity screening: the markdown
// rendering when present, otherwise the raw HTML.
func (c ContentItem) Body() string {
	if c.BodyMarkdown != "" {
		return c.BodyMarkdown
	}
	return c.BodyHTML
}

// GeneratedContent is what the external generator returns for a brief.
type GeneratedContent struct {
	Title    string
	Slug     string
	HTML     string
	Markdown string
	Summary  string
	Keywords []string
}

// SiteError is one externally-reported site failure (404, 500, timeout).
// The trailing 24h count of these feeds the circuit breaker.
type SiteError struct {
	ErrorType  string
	StatusCode int
	Message    string
	CreatedAt  time.Time
}

// Stats is the operator-facing snapshot backing the status command.
type Stats struct {
	TotalPublished   int
	Published24h     int
	PublishedToday   int
	PendingDrafts    int
	BlockedItems     int
	SiteErrors24h    int
	KillSwitchActive bool
}
