package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/app"
)

func newKillCommand() *cobra.Command {
	var hours int

	cmd := &cobra.Command{
		Use:   "kill [reason...]",
		Short: "Pause all publishing activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			reason := strings.Join(args, " ")
			if reason == "" {
				reason = "manual pause"
			}

			return withApp(func(ctx context.Context, a *app.Application) error {
				duration := time.Duration(hours) * time.Hour
				if hours <= 0 {
					duration = -1 // configured default
				}

				state, err := a.KillSwitch.Activate(ctx, reason, duration, 0)
				if err != nil {
					return err
				}

				fmt.Printf("paused: %s\n", state.Reason)
				fmt.Printf("resume: %s\n", state.DeactivateAt.Format(time.RFC3339))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 0, "pause duration in hours (0 uses the configured default)")

	return cmd
}

func newResumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Lift an active pause",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.Application) error {
				state, err := a.KillSwitch.Deactivate(ctx)
				if err != nil {
					return err
				}
				fmt.Println(state.Message)
				return nil
			})
		},
	}
}
