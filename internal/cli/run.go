package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/app"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
)

func newRunCommand() *cobra.Command {
	var loop bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one governor cycle (or loop with --loop)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.Application) error {
				if loop {
					ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
					defer stop()
					return a.RunLoop(ctx)
				}

				result := a.RunOnce(ctx)
				fmt.Printf("cycle:  %s\n", result.CycleID)
				fmt.Printf("action: %s\n", result.Action)
				fmt.Printf("status: %s\n", result.Status)
				if result.Detail != "" {
					fmt.Printf("detail: %s\n", result.Detail)
				}
				if result.URL != "" {
					fmt.Printf("url:    %s\n", result.URL)
				}
				if result.Status == domain.TaskError {
					return result.Err
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&loop, "loop", false, "keep running on the configured interval")

	return cmd
}
