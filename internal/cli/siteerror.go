package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/app"
	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/domain"
)

// newReportErrorCommand records an externally-observed site failure (a
// monitoring probe seeing a 500, a timeout). The trailing 24h count feeds
// the circuit breaker's error signal.
func newReportErrorCommand() *cobra.Command {
	var (
		errorType  string
		statusCode int
	)

	cmd := &cobra.Command{
		Use:   "report-error [message...]",
		Short: "Record a site failure for the circuit breaker's error signal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.Application) error {
				e := domain.SiteError{
					ErrorType:  errorType,
					StatusCode: statusCode,
					Message:    strings.Join(args, " "),
				}
				if err := a.Repo.RecordSiteError(ctx, e); err != nil {
					return err
				}
				fmt.Printf("recorded %s error\n", errorType)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&errorType, "type", "http_error", "error category (http_error, timeout, dns)")
	cmd.Flags().IntVar(&statusCode, "code", 0, "HTTP status code, if any")

	return cmd
}
