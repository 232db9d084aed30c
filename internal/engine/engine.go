package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/config"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/killswitch"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/ports"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/publisher"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/similarity"
)

// ActionType enumerates what the governor may do on one cycle. The set is
// closed: DecideDailyAction returns exactly one of these.
type ActionType string

const (
	ActionPause        ActionType = "pause"
	ActionSleep        ActionType = "sleep"
	ActionQuotaReached ActionType = "quotaReached"
	ActionReviewDrafts ActionType = "reviewDrafts"
	ActionGenerate     ActionType = "generateContent"
)

// Decision is the outcome of one read-only evaluation pass.
type Decision struct {
	Action         ActionType
	Reason         string
	ResumeAt       time.Time            // pause, sleep and quota actions
	Pending        []domain.ContentItem // review action
	RemainingQuota int                  // generate action
}

// Breaker is the circuit-breaker surface the engine consumes.
type Breaker interface {
	Status(ctx context.Context) (domain.KillSwitchState, error)
	RunAllChecks(ctx context.Context) killswitch.Report
	Activate(ctx context.Context, reason string, duration time.Duration, triggeredCount int) (domain.KillSwitchState, error)
}

// Screener gates candidate content on its similarity to the corpus.
type Screener interface {
	Check(ctx context.Context, candidate string, opts ...similarity.CheckOption) (similarity.Report, error)
}

// ContentPublisher pushes an approved item onto the public site.
type ContentPublisher interface {
	Publish(ctx context.Context, id int64) (publisher.Result, error)
}

// Engine is the decision core: it evaluates the safety signals, picks
// exactly one action per cycle and dispatches it, recording every outcome
// in the audit log.
type Engine struct {
	contents  ports.ContentRepository
	audit     ports.AuditLog
	breaker   Breaker
	screener  Screener
	publisher ContentPublisher
	generator ports.Generator
	notifier  ports.Notifier
	schedule  config.ScheduleConfig
	pub       config.PublishingConfig
	logger    *slog.Logger
	now       func() time.Time
}

// New wires the engine's collaborators.
func New(
	contents ports.ContentRepository,
	audit ports.AuditLog,
	breaker Breaker,
	screener Screener,
	pub ContentPublisher,
	generator ports.Generator,
	notifier ports.Notifier,
	schedule config.ScheduleConfig,
	publishing config.PublishingConfig,
	logger *slog.Logger,
) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		contents:  contents,
		audit:     audit,
		breaker:   breaker,
		screener:  screener,
		publisher: pub,
		generator: generator,
		notifier:  notifier,
		schedule:  schedule,
		pub:       publishing,
		logger:    logger.With("component", "engine"),
		now:       time.Now,
	}
}

// DecideDailyAction evaluates the priority chain and returns exactly one
// action. It is read-only: deciding never mutates state, so it can be
// called any number of times (the status command uses it too).
//
// The chain is strict: an active pause wins over everything, the
// working-hours window over quota, quota over backlog, and only a fully
// clear board yields a generate action.
func (e *Engine) DecideDailyAction(ctx context.Context) (Decision, error) {
	state, err := e.breaker.Status(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("read pause state: %w", err)
	}
	if state.Active {
		return Decision{
			Action:   ActionPause,
			Reason:   state.Reason,
			ResumeAt: state.DeactivateAt,
		}, nil
	}

	local := e.now().In(e.schedule.Location())
	hour := local.Hour()
	if hour < e.schedule.WorkingHourStart || hour >= e.schedule.WorkingHourEnd {
		return Decision{
			Action:   ActionSleep,
			Reason:   fmt.Sprintf("outside working hours (%dh-%dh)", e.schedule.WorkingHourStart, e.schedule.WorkingHourEnd),
			ResumeAt: e.nextWindowStart(local),
		}, nil
	}

	published, err := e.contents.CountPublishedOn(ctx, e.now())
	if err != nil {
		return Decision{}, fmt.Errorf("count today's publications: %w", err)
	}
	if published >= e.pub.DailyQuota {
		return Decision{
			Action:   ActionQuotaReached,
			Reason:   fmt.Sprintf("daily quota reached (%d/%d)", published, e.pub.DailyQuota),
			ResumeAt: e.nextDayWindowStart(local),
		}, nil
	}

	pending, err := e.pendingItems(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("list pending drafts: %w", err)
	}
	if len(pending) > 0 {
		return Decision{
			Action:  ActionReviewDrafts,
			Reason:  fmt.Sprintf("%d draft(s) awaiting review", len(pending)),
			Pending: pending,
		}, nil
	}

	return Decision{
		Action:         ActionGenerate,
		Reason:         fmt.Sprintf("quota available (%d/%d published today)", published, e.pub.DailyQuota),
		RemainingQuota: e.pub.DailyQuota - published,
	}, nil
}

// Rescreen runs the similarity gate over a stored item, typically a raw
// draft or a blocked one being resubmitted. The score is attached to the
// record and its status moves to screened, or blocked when the score
// exceeds the threshold.
func (e *Engine) Rescreen(ctx context.Context, id int64) (similarity.Report, error) {
	item, err := e.contents.GetContent(ctx, id)
	if err != nil {
		return similarity.Report{}, fmt.Errorf("load content %d: %w", id, err)
	}
	if strings.TrimSpace(item.Body()) == "" {
		return similarity.Report{}, fmt.Errorf("content %d: %w", id, domain.ErrMissingBody)
	}

	report, err := e.screener.Check(ctx, item.Body())
	if err != nil {
		return similarity.Report{}, fmt.Errorf("screen content %d: %w", id, err)
	}
	if err := e.contents.SetScore(ctx, id, report.Score); err != nil {
		return similarity.Report{}, fmt.Errorf("store score for content %d: %w", id, err)
	}

	status := domain.StatusScreened
	if report.Blocked {
		status = domain.StatusBlocked
	}
	if err := e.contents.UpdateStatus(ctx, id, status); err != nil {
		return similarity.Report{}, fmt.Errorf("update status for content %d: %w", id, err)
	}

	e.logger.Info("content rescreened", "id", id, "score", report.Score, "status", status)
	return report, nil
}

// pendingItems returns up to five items awaiting a human decision,
// review-queue first, then raw drafts.
func (e *Engine) pendingItems(ctx context.Context) ([]domain.ContentItem, error) {
	const top = 5

	pending, err := e.contents.ListByStatus(ctx, domain.StatusPendingReview, top)
	if err != nil {
		return nil, err
	}
	if len(pending) < top {
		drafts, err := e.contents.ListByStatus(ctx, domain.StatusDraft, top-len(pending))
		if err != nil {
			return nil, err
		}
		pending = append(pending, drafts...)
	}
	return pending, nil
}

func (e *Engine) nextWindowStart(local time.Time) time.Time {
	start := time.Date(local.Year(), local.Month(), local.Day(),
		e.schedule.WorkingHourStart, 0, 0, 0, local.Location())
	if !local.Before(start) {
		start = start.AddDate(0, 0, 1)
	}
	return start
}

func (e *Engine) nextDayWindowStart(local time.Time) time.Time {
	return time.Date(local.Year(), local.Month(), local.Day(),
		e.schedule.WorkingHourStart, 0, 0, 0, local.Location()).AddDate(0, 0, 1)
}
