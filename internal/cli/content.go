package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/michaelperron12-maker/seo-ai-command-center-sub000/internal/app"
)

func parseContentID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid content id %q", arg)
	}
	return id, nil
}

func newPublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Render one content item onto the site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContentID(args[0])
			if err != nil {
				return err
			}

			return withApp(func(ctx context.Context, a *app.Application) error {
				res, err := a.Publisher.Publish(ctx, id)
				if err != nil {
					return err
				}
				if res.AlreadyPublished {
					fmt.Printf("#%d already published (%s)\n", id, res.Slug)
					return nil
				}
				fmt.Printf("published #%d %q\n", res.ContentID, res.Title)
				fmt.Printf("url:     %s\n", res.URL)
				fmt.Printf("sitemap: %t\n", res.SitemapUpdated)
				return nil
			})
		},
	}
}

func newUnpublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unpublish <id>",
		Short: "Take a published item off the site, keeping its record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContentID(args[0])
			if err != nil {
				return err
			}

			return withApp(func(ctx context.Context, a *app.Application) error {
				res, err := a.Publisher.Unpublish(ctx, id)
				if err != nil {
					return err
				}
				fmt.Printf("unpublished #%d (%s)\n", res.ContentID, res.Slug)
				return nil
			})
		},
	}
}

func newScreenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "screen <id>",
		Short: "Re-run the similarity gate over a draft or blocked item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContentID(args[0])
			if err != nil {
				return err
			}

			return withApp(func(ctx context.Context, a *app.Application) error {
				report, err := a.Engine.Rescreen(ctx, id)
				if err != nil {
					return err
				}
				fmt.Printf("screened #%d: %s\n", id, report.Message)
				if report.Blocked {
					fmt.Println("status:  blocked")
				} else {
					fmt.Println("status:  screened")
				}
				return nil
			})
		},
	}
}

func newArchiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Retire an item, keeping its record and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContentID(args[0])
			if err != nil {
				return err
			}

			return withApp(func(ctx context.Context, a *app.Application) error {
				if err := a.Publisher.Archive(ctx, id); err != nil {
					return err
				}
				fmt.Printf("archived #%d\n", id)
				return nil
			})
		},
	}
}

func newApproveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending draft for publication",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContentID(args[0])
			if err != nil {
				return err
			}

			return withApp(func(ctx context.Context, a *app.Application) error {
				if err := a.Publisher.Approve(ctx, id); err != nil {
					return err
				}
				fmt.Printf("approved #%d\n", id)
				return nil
			})
		},
	}
}

func newRejectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <id> [reason...]",
		Short: "Reject a pending draft",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseContentID(args[0])
			if err != nil {
				return err
			}
			reason := strings.Join(args[1:], " ")

			return withApp(func(ctx context.Context, a *app.Application) error {
				if err := a.Publisher.Reject(ctx, id, reason); err != nil {
					return err
				}
				fmt.Printf("rejected #%d\n", id)
				return nil
			})
		},
	}
}
