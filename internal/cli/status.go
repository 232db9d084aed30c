package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/app"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the governor's current state and what it would do next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.Application) error {
				stats, err := a.Repo.Stats(ctx)
				if err != nil {
					return fmt.Errorf("load stats: %w", err)
				}

				pause, err := a.KillSwitch.Status(ctx)
				if err != nil {
					return fmt.Errorf("load pause state: %w", err)
				}

				fmt.Println("=== SEO Governor ===")
				if pause.Active {
					fmt.Printf("state:            PAUSED (%s)\n", pause.Reason)
					fmt.Printf("resume:           %s (in %s)\n",
						pause.DeactivateAt.Format(time.RFC3339), pause.Remaining(time.Now()).Round(time.Minute))
				} else {
					fmt.Println("state:            operational")
				}
				fmt.Printf("published total:  %d\n", stats.TotalPublished)
				fmt.Printf("published today:  %d\n", stats.PublishedToday)
				fmt.Printf("published 24h:    %d\n", stats.Published24h)
				fmt.Printf("pending drafts:   %d\n", stats.PendingDrafts)
				fmt.Printf("blocked items:    %d\n", stats.BlockedItems)
				fmt.Printf("site errors 24h:  %d\n", stats.SiteErrors24h)

				decision, err := a.Engine.DecideDailyAction(ctx)
				if err != nil {
					return fmt.Errorf("evaluate next action: %w", err)
				}
				fmt.Printf("next action:      %s (%s)\n", decision.Action, decision.Reason)
				if !decision.ResumeAt.IsZero() {
					fmt.Printf("resume estimate:  %s\n", decision.ResumeAt.Format(time.RFC3339))
				}
				for _, item := range decision.Pending {
					fmt.Printf("  awaiting review: #%d %s\n", item.ID, item.Title)
				}

				return nil
			})
		},
	}
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Evaluate the circuit-breaker signals without acting on them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.Application) error {
				report := a.KillSwitch.RunAllChecks(ctx)

				for name, check := range report.Checks {
					mark := "ok"
					if check.Triggered {
						mark = "TRIGGERED"
					}
					if check.Err != nil {
						mark = "unavailable"
					}
					fmt.Printf("%-20s %-12s %s\n", name, mark, check.Message)
				}

				if report.ShouldActivate {
					fmt.Printf("\nwould activate pause: %s\n", report.Reason)
				} else {
					fmt.Println("\nall signals healthy")
				}
				return nil
			})
		},
	}
}
