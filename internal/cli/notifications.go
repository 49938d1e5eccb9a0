package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/roundbuy/backend-sub000/internal/app/setup"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/logger"
	"github.com/spf13/cobra"
)

func NotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications [user-id]",
		Short: "List notifications recorded for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withApp(cmd, func(ctx context.Context, deps *setup.Dependencies, _ *setup.UseCases) error {
				if deps.DB == nil {
					return fmt.Errorf("notification log needs the postgres driver")
				}
				entries, err := logger.NewPGNotificationLogger(deps.DB).ListForUser(ctx, args[0], limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Println("No notifications found.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "AT\tKIND\tPAYLOAD")
				for _, e := range entries {
					fmt.Fprintf(w, "%s\t%s\t%v\n", e.OccurredAt.Format(time.RFC3339), e.EventKind, e.Payload)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().Int("limit", 50, "maximum number of entries")
	return cmd
}
