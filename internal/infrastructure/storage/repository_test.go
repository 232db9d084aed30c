package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db)
}

func testItem(title string) domain.ContentItem {
	score := 0.1234
	return domain.ContentItem{
		Title:        title,
		Slug:         "un-slug",
		BodyHTML:     "<p>Corps HTML.</p>",
		BodyMarkdown: "Corps markdown.",
		Summary:      "Une description.",
		Keywords:     []string{"seo", "blog"},
		Status:       domain.StatusDraft,
		Score:        &score,
		ContentHash:  "abc123",
		WordCount:    2,
		CreatedAt:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestSaveAndGetContent(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	id, err := repo.SaveContent(ctx, testItem("Premier article"))
	if err != nil {
		t.Fatalf("SaveContent: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a generated ID")
	}

	got, err := repo.GetContent(ctx, id)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if got.Title != "Premier article" || got.Slug != "un-slug" {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if len(got.Keywords) != 2 || got.Keywords[0] != "seo" {
		t.Errorf("keywords lost: %v", got.Keywords)
	}
	if got.Score == nil || *got.Score != 0.1234 {
		t.Errorf("score lost: %v", got.Score)
	}
	if got.ContentHash != "abc123" || got.WordCount != 2 {
		t.Errorf("hash/word count lost: %+v", got)
	}
	if got.Status != domain.StatusDraft {
		t.Errorf("unexpected status %q", got.Status)
	}
	if got.PublishedAt != nil {
		t.Error("unpublished item must have nil PublishedAt")
	}
}

func TestGetContentNotFound(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)

	if _, err := repo.GetContent(context.Background(), 99); !errors.Is(err, domain.ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
}

func TestUpdateStatusMissingRow(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)

	err := repo.UpdateStatus(context.Background(), 99, domain.StatusApproved)
	if !errors.Is(err, domain.ErrContentNotFound) {
		t.Fatalf("expected ErrContentNotFound, got %v", err)
	}
}

func TestMarkPublishedAndCountPerDay(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()
	today := time.Date(2026, 3, 16, 11, 30, 0, 0, time.UTC)

	for i, when := range []time.Time{
		today,
		today.Add(2 * time.Hour),
		today.AddDate(0, 0, -1), // yesterday, outside the day window
	} {
		item := testItem("Article")
		id, err := repo.SaveContent(ctx, item)
		if err != nil {
			t.Fatalf("SaveContent: %v", err)
		}
		slug := "slug-" + string(rune('a'+i))
		if err := repo.MarkPublished(ctx, id, slug, "https://example.fr/blog/"+slug+"/", when); err != nil {
			t.Fatalf("MarkPublished: %v", err)
		}
	}

	count, err := repo.CountPublishedOn(ctx, today)
	if err != nil {
		t.Fatalf("CountPublishedOn: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 published today, got %d", count)
	}
}

func TestMarkUnpublishedKeepsRecord(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	id, err := repo.SaveContent(ctx, testItem("À retirer"))
	if err != nil {
		t.Fatalf("SaveContent: %v", err)
	}
	if err := repo.MarkPublished(ctx, id, "a-retirer", "https://example.fr/blog/a-retirer/", time.Now()); err != nil {
		t.Fatalf("MarkPublished: %v", err)
	}
	if err := repo.MarkUnpublished(ctx, id); err != nil {
		t.Fatalf("MarkUnpublished: %v", err)
	}

	got, err := repo.GetContent(ctx, id)
	if err != nil {
		t.Fatalf("record must survive unpublish: %v", err)
	}
	if got.Status != domain.StatusUnpublished {
		t.Errorf("unexpected status %q", got.Status)
	}
	if got.URL != "" {
		t.Errorf("public URL must be dropped, got %q", got.URL)
	}
}

func TestPublishedSlugUniqueness(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	first, err := repo.SaveContent(ctx, testItem("Original"))
	if err != nil {
		t.Fatalf("SaveContent: %v", err)
	}
	second, err := repo.SaveContent(ctx, testItem("Doublon"))
	if err != nil {
		t.Fatalf("SaveContent: %v", err)
	}

	if err := repo.MarkPublished(ctx, first, "un-slug", "https://example.fr/blog/un-slug/", time.Now()); err != nil {
		t.Fatalf("MarkPublished: %v", err)
	}

	got, err := repo.GetContent(ctx, first)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if got.Slug != "un-slug" {
		t.Fatalf("MarkPublished must persist the slug, got %q", got.Slug)
	}

	if err := repo.MarkPublished(ctx, second, "un-slug", "https://example.fr/blog/un-slug/", time.Now()); err == nil {
		t.Fatal("publishing a second item with the same slug must fail")
	}
	if err := repo.MarkPublished(ctx, second, "un-slug-2", "https://example.fr/blog/un-slug-2/", time.Now()); err != nil {
		t.Fatalf("a distinct slug must publish cleanly: %v", err)
	}
}

func TestListCorpusFilters(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	published := testItem("Publié")
	published.Status = domain.StatusPublished
	draft := testItem("Brouillon")
	blocked := testItem("Bloqué")
	blocked.Status = domain.StatusBlocked
	empty := testItem("Vide")
	empty.BodyHTML = ""
	empty.BodyMarkdown = ""

	for _, item := range []domain.ContentItem{published, draft, blocked, empty} {
		if _, err := repo.SaveContent(ctx, item); err != nil {
			t.Fatalf("SaveContent: %v", err)
		}
	}

	corpus, err := repo.ListCorpus(ctx)
	if err != nil {
		t.Fatalf("ListCorpus: %v", err)
	}
	if len(corpus) != 2 {
		t.Fatalf("expected published+draft with bodies, got %d items", len(corpus))
	}
	for _, item := range corpus {
		if item.Status != domain.StatusPublished && item.Status != domain.StatusDraft {
			t.Errorf("unexpected corpus status %q", item.Status)
		}
	}
}

func TestListByStatusLimitAndOrder(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		item := testItem("Brouillon")
		item.Status = domain.StatusPendingReview
		item.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if _, err := repo.SaveContent(ctx, item); err != nil {
			t.Fatalf("SaveContent: %v", err)
		}
	}

	items, err := repo.ListByStatus(ctx, domain.StatusPendingReview, 3)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected limit 3, got %d", len(items))
	}
	if !items[0].CreatedAt.Before(items[1].CreatedAt) {
		t.Error("expected oldest first")
	}
}

func TestCountByStatusMultiple(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	for _, status := range []domain.ContentStatus{
		domain.StatusDraft, domain.StatusDraft, domain.StatusPendingReview, domain.StatusBlocked,
	} {
		item := testItem("Item")
		item.Status = status
		if _, err := repo.SaveContent(ctx, item); err != nil {
			t.Fatalf("SaveContent: %v", err)
		}
	}

	count, err := repo.CountByStatus(ctx, domain.StatusDraft, domain.StatusPendingReview)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
}

func TestKillSwitchSupersede(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()

	if _, active, err := repo.ActiveState(ctx); err != nil || active {
		t.Fatalf("fresh store must be inactive (active=%v, err=%v)", active, err)
	}

	now := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)
	first := domain.KillSwitchState{Active: true, Reason: "première", ActivatedAt: now, DeactivateAt: now.Add(time.Hour), TriggeredCount: 1}
	second := domain.KillSwitchState{Active: true, Reason: "seconde", ActivatedAt: now, DeactivateAt: now.Add(2 * time.Hour), TriggeredCount: 2}

	if err := repo.Supersede(ctx, first); err != nil {
		t.Fatalf("Supersede: %v", err)
	}
	if err := repo.Supersede(ctx, second); err != nil {
		t.Fatalf("Supersede: %v", err)
	}

	state, active, err := repo.ActiveState(ctx)
	if err != nil {
		t.Fatalf("ActiveState: %v", err)
	}
	if !active {
		t.Fatal("expected active state")
	}
	if state.Reason != "seconde" {
		t.Errorf("last write must win, got %q", state.Reason)
	}
	if state.TriggeredCount != 2 {
		t.Errorf("unexpected triggered count %d", state.TriggeredCount)
	}

	if err := repo.DeactivateAll(ctx); err != nil {
		t.Fatalf("DeactivateAll: %v", err)
	}
	if _, active, _ := repo.ActiveState(ctx); active {
		t.Fatal("expected inactive after DeactivateAll")
	}
}

func TestAuditAppendAndRecent(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

	for i, taskType := range []string{"generateContent", "sleep"} {
		entry := domain.AuditEntry{
			CycleID:     "cycle-" + string(rune('a'+i)),
			TaskType:    taskType,
			Params:      `{"action":"x"}`,
			Result:      `{"detail":"ok"}`,
			Status:      domain.TaskCompleted,
			Duration:    1500 * time.Millisecond,
			StartedAt:   started,
			CompletedAt: started.Add(1500 * time.Millisecond),
		}
		if err := repo.Append(ctx, entry); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	entries, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].TaskType != "sleep" {
		t.Errorf("expected newest first, got %q", entries[0].TaskType)
	}
	if entries[0].Duration != 1500*time.Millisecond {
		t.Errorf("duration round trip lost precision: %s", entries[0].Duration)
	}
}

func TestSiteErrorWindow(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	recent := domain.SiteError{ErrorType: "http_500", StatusCode: 500, Message: "boom", CreatedAt: now.Add(-time.Hour)}
	old := domain.SiteError{ErrorType: "http_404", StatusCode: 404, Message: "gone", CreatedAt: now.Add(-48 * time.Hour)}

	if err := repo.RecordSiteError(ctx, recent); err != nil {
		t.Fatalf("RecordSiteError: %v", err)
	}
	if err := repo.RecordSiteError(ctx, old); err != nil {
		t.Fatalf("RecordSiteError: %v", err)
	}

	count, err := repo.CountSiteErrorsSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("CountSiteErrorsSince: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 error inside the window, got %d", count)
	}
}
