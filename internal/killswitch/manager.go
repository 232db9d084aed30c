package killswitch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/config"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/ports"
)

// Signal names, stable identifiers for operators and tests.
const (
	CheckPublicationRate = "publication_rate"
	CheckSimilarityAvg   = "similarity_average"
	CheckPendingBacklog  = "pending_backlog"
	CheckSiteErrors      = "site_errors"
)

// CorpusAverager exposes the similarity engine's corpus-wide mean.
type CorpusAverager interface {
	CorpusAverage(ctx context.Context) (float64, error)
}

// CheckResult is one signal's evaluation. A signal whose evaluation fails
// reports Triggered=false with Err set so one unavailable signal never
// masks the others.
type CheckResult struct {
	Name      string
	Triggered bool
	Message   string
	Err       error
}

// Report aggregates every signal for one evaluation run.
type Report struct {
	Checks         map[string]CheckResult
	Triggered      []string
	ShouldActivate bool
	Reason         string
	Timestamp      time.Time
}

// Manager is the multi-signal circuit breaker: it evaluates independent
// operational signals and owns the pause lifecycle.
type Manager struct {
	states   ports.KillSwitchRepository
	contents ports.ContentRepository
	errors   ports.SiteErrorLog
	averager CorpusAverager
	notifier ports.Notifier
	cfg      config.KillSwitchConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewManager wires the breaker's signal sources and state store.
func NewManager(
	states ports.KillSwitchRepository,
	contents ports.ContentRepository,
	errors ports.SiteErrorLog,
	averager CorpusAverager,
	notifier ports.Notifier,
	cfg config.KillSwitchConfig,
	logger *slog.Logger,
) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		states:   states,
		contents: contents,
		errors:   errors,
		averager: averager,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// RunAllChecks evaluates every signal without side effects. Signals are
// independent booleans aggregated with OR; evaluation order does not
// affect the result.
func (m *Manager) RunAllChecks(ctx context.Context) Report {
	checks := map[string]CheckResult{
		CheckPublicationRate: m.checkPublicationRate(ctx),
		CheckSimilarityAvg:   m.checkSimilarityAverage(ctx),
		CheckPendingBacklog:  m.checkPendingBacklog(ctx),
		CheckSiteErrors:      m.checkSiteErrors(ctx),
	}

	report := Report{
		Checks:    checks,
		Timestamp: m.now(),
	}

	// Iterate in a fixed order so the concatenated reason is stable.
	for _, name := range []string{CheckPublicationRate, CheckSimilarityAvg, CheckPendingBacklog, CheckSiteErrors} {
		if checks[name].Triggered {
			report.Triggered = append(report.Triggered, name)
		}
	}
	report.ShouldActivate = len(report.Triggered) > 0

	if report.ShouldActivate {
		reasons := make([]string, len(report.Triggered))
		for i, name := range report.Triggered {
			reasons[i] = checks[name].Message
		}
		// Every contributing cause is surfaced, not just the first.
		report.Reason = strings.Join(reasons, "; ")
		m.logger.Warn("kill switch should activate", "reason", report.Reason)
	} else {
		m.logger.Info("all safety checks passed")
	}

	return report
}

func (m *Manager) checkPublicationRate(ctx context.Context) CheckResult {
	count, err := m.contents.CountPublishedOn(ctx, m.now())
	if err != nil {
		return failedCheck(CheckPublicationRate, err)
	}
	return CheckResult{
		Name:      CheckPublicationRate,
		Triggered: count >= m.cfg.MaxPublicationsPerDay,
		Message:   fmt.Sprintf("publications today: %d/%d", count, m.cfg.MaxPublicationsPerDay),
	}
}

func (m *Manager) checkSimilarityAverage(ctx context.Context) CheckResult {
	average, err := m.averager.CorpusAverage(ctx)
	if err != nil {
		return failedCheck(CheckSimilarityAvg, err)
	}
	return CheckResult{
		Name:      CheckSimilarityAvg,
		Triggered: average > m.cfg.MaxAverageSimilarity,
		Message:   fmt.Sprintf("average similarity: %.1f%% (max: %.1f%%)", average*100, m.cfg.MaxAverageSimilarity*100),
	}
}

func (m *Manager) checkPendingBacklog(ctx context.Context) CheckResult {
	count, err := m.contents.CountByStatus(ctx, domain.StatusDraft, domain.StatusPendingReview)
	if err != nil {
		return failedCheck(CheckPendingBacklog, err)
	}
	return CheckResult{
		Name:      CheckPendingBacklog,
		Triggered: count >= m.cfg.MaxPendingDrafts,
		Message:   fmt.Sprintf("pending drafts: %d/%d", count, m.cfg.MaxPendingDrafts),
	}
}

func (m *Manager) checkSiteErrors(ctx context.Context) CheckResult {
	count, err := m.errors.CountSiteErrorsSince(ctx, m.now().Add(-24*time.Hour))
	if err != nil {
		return failedCheck(CheckSiteErrors, err)
	}
	return CheckResult{
		Name:      CheckSiteErrors,
		Triggered: count >= m.cfg.MaxSiteErrors,
		Message:   fmt.Sprintf("site errors (24h): %d/%d", count, m.cfg.MaxSiteErrors),
	}
}

func failedCheck(name string, err error) CheckResult {
	return CheckResult{
		Name:    name,
		Message: fmt.Sprintf("check %s unavailable", name),
		Err:     err,
	}
}

// Activate persists a new active pause, superseding any prior one (last
// write wins). A negative duration selects the configured default; zero
// is honored as-is and expires on the next status read. The notification
// is fire-and-forget.
func (m *Manager) Activate(ctx context.Context, reason string, duration time.Duration, triggeredCount int) (domain.KillSwitchState, error) {
	if duration < 0 {
		duration = time.Duration(m.cfg.DefaultPauseHours) * time.Hour
	}

	now := m.now()
	state := domain.KillSwitchState{
		Active:         true,
		Reason:         reason,
		ActivatedAt:    now,
		DeactivateAt:   now.Add(duration),
		TriggeredCount: triggeredCount,
	}

	if err := m.states.Supersede(ctx, state); err != nil {
		return domain.KillSwitchState{}, fmt.Errorf("activate pause: %w", err)
	}

	m.logger.Warn("kill switch activated", "reason", reason, "until", state.DeactivateAt)

	if m.notifier != nil {
		body := fmt.Sprintf("Raison: %s\nDurée: %s\nReprise: %s",
			reason, duration, state.DeactivateAt.Format("02/01/2006 15:04"))
		if err := m.notifier.Send(ctx, "KILL SWITCH ACTIVE", body); err != nil {
			m.logger.Warn("kill switch notification not sent", "error", err)
		}
	}

	return state, nil
}

// Deactivate is the explicit manual override. Deactivating an idle
// breaker succeeds with a distinct message.
func (m *Manager) Deactivate(ctx context.Context) (domain.KillSwitchState, error) {
	_, active, err := m.states.ActiveState(ctx)
	if err != nil {
		return domain.KillSwitchState{}, fmt.Errorf("read pause state: %w", err)
	}

	if !active {
		return domain.KillSwitchState{Message: "no active pause to deactivate"}, nil
	}

	if err := m.states.DeactivateAll(ctx); err != nil {
		return domain.KillSwitchState{}, fmt.Errorf("deactivate pause: %w", err)
	}

	m.logger.Info("kill switch deactivated manually")
	return domain.KillSwitchState{Message: "pause deactivated"}, nil
}

// Status reads the current state with lazy expiry: an active state whose
// DeactivateAt has passed is transitioned to inactive as a side effect of
// this read and reported inactive. No background timer ends a pause.
func (m *Manager) Status(ctx context.Context) (domain.KillSwitchState, error) {
	state, active, err := m.states.ActiveState(ctx)
	if err != nil {
		return domain.KillSwitchState{}, fmt.Errorf("read pause state: %w", err)
	}

	if !active {
		return domain.KillSwitchState{Message: "governor operational"}, nil
	}

	if state.Remaining(m.now()) <= 0 {
		if err := m.states.DeactivateAll(ctx); err != nil {
			return domain.KillSwitchState{}, fmt.Errorf("expire pause: %w", err)
		}
		m.logger.Info("kill switch pause expired", "reason", state.Reason)
		return domain.KillSwitchState{Message: "pause expired and deactivated"}, nil
	}

	return state, nil
}
