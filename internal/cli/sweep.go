package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/roundbuy/backend-sub000/internal/app/setup"
	"github.com/roundbuy/backend-sub000/internal/usecase/sweeper"
	"github.com/spf13/cobra"
)

func SweepCmd() *cobra.Command {
	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one deadline sweep and print what it changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			at, _ := cmd.Flags().GetString("at")
			now := time.Now().UTC()
			if at != "" {
				parsed, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC3339: %w", err)
				}
				now = parsed.UTC()
			}

			return withApp(cmd, func(ctx context.Context, _ *setup.Dependencies, uc *setup.UseCases) error {
				report, err := uc.Sweeper.Sweep(ctx, now)
				printReport(report)
				return err
			})
		},
	}
	sweepCmd.Flags().String("at", "", "sweep as of this RFC3339 instant instead of now")
	return sweepCmd
}

func printReport(r sweeper.Report) {
	count := func(n int, c color.Attribute) string {
		if n == 0 {
			return fmt.Sprint(n)
		}
		return color.New(c).Sprint(n)
	}
	fmt.Printf("sweep at %s took %s\n", r.StartedAt.Format(time.RFC3339), r.Duration.Round(time.Millisecond))
	fmt.Printf("  issues expired:        %s\n", count(r.IssuesExpired, color.FgYellow))
	fmt.Printf("  disputes escalated:    %s\n", count(r.DisputesEscalated, color.FgYellow))
	fmt.Printf("  disputes flagged:      %s\n", count(r.DisputesFlagged, color.FgYellow))
	fmt.Printf("  claims expired:        %s\n", count(r.ClaimsExpired, color.FgYellow))
	fmt.Printf("  claims marked urgent:  %s\n", count(r.ClaimsMarkedUrgent, color.FgYellow))
	fmt.Printf("  skipped:               %d\n", r.Skipped)
	fmt.Printf("  failed:                %s\n", count(r.Failed, color.FgRed))
}
