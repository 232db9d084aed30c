package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/config"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/engine"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/infrastructure/llm"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/infrastructure/scheduler"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/infrastructure/site"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/infrastructure/storage"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/infrastructure/telegram"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/killswitch"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/logging"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/ports"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/publisher"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/similarity"
)

// Application wires configuration to the governor's subsystems and owns
// their lifecycle.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sql.DB

	Repo       *storage.Repository
	Checker    *similarity.Checker
	KillSwitch *killswitch.Manager
	Publisher  *publisher.Publisher
	Engine     *engine.Engine
}

// New opens the store and assembles every subsystem. Callers must Close.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repo := storage.NewRepository(db)
	checker := similarity.NewChecker(repo, cfg.Similarity.Threshold, baseLogger.With("component", "similarity"))

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	breaker := killswitch.NewManager(repo, repo, repo, checker, notifier,
		cfg.KillSwitch, baseLogger.With("component", "killswitch"))

	siteStore := site.NewStore(cfg.Site.RootDir)
	pub := publisher.New(repo, siteStore, cfg.Site, cfg.Publishing, baseLogger)

	var generator ports.Generator
	if cfg.Generator.APIKey != "" {
		generator = llm.NewGenerator(cfg.Generator)
	}

	eng := engine.New(repo, repo, breaker, checker, pub, generator, notifier,
		cfg.Schedule, cfg.Publishing, baseLogger)

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		db:         db,
		Repo:       repo,
		Checker:    checker,
		KillSwitch: breaker,
		Publisher:  pub,
		Engine:     eng,
	}, nil
}

// Close releases the database handle.
func (a *Application) Close() error {
	return a.db.Close()
}

// RunOnce executes a single governor cycle.
func (a *Application) RunOnce(ctx context.Context) engine.TaskResult {
	return a.Engine.RunCycle(ctx)
}

// RunLoop executes cycles on the configured interval until the context is
// canceled. A failed cycle is logged and the loop keeps going.
func (a *Application) RunLoop(ctx context.Context) error {
	ticker := scheduler.NewTickerScheduler(time.Duration(a.cfg.Schedule.IntervalHours) * time.Hour)

	err := ticker.Start(ctx, func(now time.Time) {
		result := a.Engine.RunCycle(ctx)
		if result.Status == domain.TaskError {
			a.logger.Error("cycle failed", "cycle", result.CycleID, "action", result.Action, "error", result.Err)
			return
		}
		a.logger.Info("cycle done", "cycle", result.CycleID, "action", result.Action, "detail", result.Detail)
	})
	if err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return ticker.Stop(context.Background())
}
