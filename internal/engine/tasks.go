package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
)

// TaskResult is the structured outcome of one executed cycle. Failures
// are carried here rather than returned: the outermost loop logs and
// keeps running, it never crashes on a bad cycle.
type TaskResult struct {
	CycleID   string
	Action    ActionType
	Status    domain.TaskStatus
	Detail    string
	ContentID int64
	URL       string
	Err       error
}

// RunCycle is one full governor beat: evaluate the breaker signals
// (activating the pause when any fire), decide the action, dispatch it
// and audit the outcome.
func (e *Engine) RunCycle(ctx context.Context) TaskResult {
	report := e.breaker.RunAllChecks(ctx)
	if report.ShouldActivate {
		if _, err := e.breaker.Activate(ctx, report.Reason, -1, len(report.Triggered)); err != nil {
			e.logger.Error("automatic pause activation failed", "error", err)
		}
	}

	decision, err := e.DecideDailyAction(ctx)
	if err != nil {
		result := TaskResult{
			CycleID: uuid.NewString(),
			Status:  domain.TaskError,
			Detail:  "decision failed",
			Err:     err,
		}
		e.appendAudit(ctx, result, Decision{}, e.now())
		return result
	}

	return e.RunTask(ctx, decision)
}

// RunTask dispatches one decision to the matching subsystem. Every
// execution is audited under a fresh cycle ID, success or failure.
func (e *Engine) RunTask(ctx context.Context, decision Decision) TaskResult {
	started := e.now()
	result := TaskResult{
		CycleID: uuid.NewString(),
		Action:  decision.Action,
		Status:  domain.TaskCompleted,
	}

	e.logger.Info("executing action", "cycle", result.CycleID, "action", decision.Action, "reason", decision.Reason)

	switch decision.Action {
	case ActionPause:
		result.Detail = fmt.Sprintf("paused: %s (resume %s)", decision.Reason, decision.ResumeAt.Format(time.RFC3339))

	case ActionSleep:
		result.Detail = fmt.Sprintf("sleeping until %s", decision.ResumeAt.Format(time.RFC3339))

	case ActionQuotaReached:
		result.Detail = fmt.Sprintf("%s, next slot %s", decision.Reason, decision.ResumeAt.Format(time.RFC3339))

	case ActionReviewDrafts:
		result.Detail = e.notifyReviewQueue(ctx, decision.Pending)

	case ActionGenerate:
		e.generateAndScreen(ctx, decision, &result)

	default:
		result.Status = domain.TaskError
		result.Err = fmt.Errorf("unknown action %q", decision.Action)
		result.Detail = "nothing executed"
	}

	e.appendAudit(ctx, result, decision, started)
	return result
}

// notifyReviewQueue pushes a digest of the waiting items to the operator.
func (e *Engine) notifyReviewQueue(ctx context.Context, pending []domain.ContentItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d contenu(s) en attente de validation:\n", len(pending))
	for _, item := range pending {
		fmt.Fprintf(&b, "- #%d %s\n", item.ID, item.Title)
	}

	if e.notifier != nil {
		if err := e.notifier.Send(ctx, "Brouillons à valider", b.String()); err != nil {
			e.logger.Warn("review digest not sent", "error", err)
		}
	}
	return fmt.Sprintf("%d item(s) surfaced for review", len(pending))
}

// generateAndScreen produces one candidate, screens it against the corpus
// and either saves it blocked or publishes it. One item per cycle: the
// remaining quota caps the day, not a single run.
func (e *Engine) generateAndScreen(ctx context.Context, decision Decision, result *TaskResult) {
	if e.generator == nil {
		result.Status = domain.TaskError
		result.Err = fmt.Errorf("no generator configured")
		result.Detail = "generation skipped"
		return
	}

	gen, err := e.generator.Generate(ctx, e.pub.DefaultBrief, nil)
	if err != nil {
		result.Status = domain.TaskError
		result.Err = fmt.Errorf("generate content: %w", err)
		result.Detail = "generation failed"
		return
	}

	body := gen.Markdown
	if body == "" {
		body = gen.HTML
	}

	report, err := e.screener.Check(ctx, body)
	if err != nil {
		result.Status = domain.TaskError
		result.Err = fmt.Errorf("screen content: %w", err)
		result.Detail = "similarity check failed"
		return
	}

	score := report.Score
	item := domain.ContentItem{
		Title:        gen.Title,
		Slug:         gen.Slug,
		BodyHTML:     gen.HTML,
		BodyMarkdown: gen.Markdown,
		Summary:      gen.Summary,
		Keywords:     gen.Keywords,
		Score:        &score,
		ContentHash:  contentHash(body),
		WordCount:    len(strings.Fields(body)),
		CreatedAt:    e.now(),
	}

	if report.Blocked {
		item.Status = domain.StatusBlocked
		id, err := e.contents.SaveContent(ctx, item)
		if err != nil {
			result.Status = domain.TaskError
			result.Err = fmt.Errorf("save blocked content: %w", err)
			result.Detail = "blocked content not saved"
			return
		}
		result.ContentID = id
		result.Detail = fmt.Sprintf("candidate blocked: %s", report.Message)
		e.logger.Warn("generated content blocked", "id", id, "score", report.Score)
		return
	}

	item.Status = domain.StatusApproved
	id, err := e.contents.SaveContent(ctx, item)
	if err != nil {
		result.Status = domain.TaskError
		result.Err = fmt.Errorf("save content: %w", err)
		result.Detail = "content not saved"
		return
	}
	result.ContentID = id

	pub, err := e.publisher.Publish(ctx, id)
	if err != nil {
		result.Status = domain.TaskError
		result.Err = fmt.Errorf("publish content %d: %w", id, err)
		result.Detail = "screened but not published"
		return
	}

	result.URL = pub.URL
	result.Detail = fmt.Sprintf("published %q at %s (similarity %.1f%%)", pub.Title, pub.URL, report.Score*100)
}

// appendAudit writes the cycle record. Audit failures are logged, never
// propagated: losing one trail entry must not fail the cycle itself.
func (e *Engine) appendAudit(ctx context.Context, result TaskResult, decision Decision, started time.Time) {
	params, _ := json.Marshal(map[string]any{
		"action":         decision.Action,
		"reason":         decision.Reason,
		"remainingQuota": decision.RemainingQuota,
	})
	outcome, _ := json.Marshal(map[string]any{
		"detail":    result.Detail,
		"contentId": result.ContentID,
		"url":       result.URL,
	})

	entry := domain.AuditEntry{
		CycleID:     result.CycleID,
		TaskType:    string(decision.Action),
		Params:      string(params),
		Result:      string(outcome),
		Status:      result.Status,
		Duration:    e.now().Sub(started),
		StartedAt:   started,
		CompletedAt: e.now(),
	}
	if entry.TaskType == "" {
		entry.TaskType = "decide"
	}
	if result.Err != nil {
		entry.Error = result.Err.Error()
	}

	if err := e.audit.Append(ctx, entry); err != nil {
		e.logger.Error("audit append failed", "cycle", result.CycleID, "error", err)
	}
}

// contentHash fingerprints the normalized body: lowercased, whitespace
// collapsed. Reformatting a text must not change its identity.
func contentHash(body string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(body)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
