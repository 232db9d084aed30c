package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/app"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/config"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/logging"
)

// NewRootCommand assembles the governor CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "seogovernor",
		Short:         "Publishing safety governor for an SEO content site",
		Long:          "seogovernor decides at most one publishing action per cycle, screens every candidate against the existing corpus and pauses itself when its operational signals degrade.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newRunCommand(),
		newStatusCommand(),
		newCheckCommand(),
		newKillCommand(),
		newResumeCommand(),
		newPublishCommand(),
		newUnpublishCommand(),
		newScreenCommand(),
		newApproveCommand(),
		newRejectCommand(),
		newArchiveCommand(),
		newReportErrorCommand(),
	)

	return cmd
}

// withApp loads configuration, opens the store and hands a wired
// application to the command body.
func withApp(fn func(ctx context.Context, a *app.Application) error) error {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(context.Background(), a)
}
