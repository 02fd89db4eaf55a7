package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parabrain/para-flow/internal/cli"
	"github.com/parabrain/para-flow/internal/feedback"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Report classification quality and provider health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer app.Close()

			recent, err := app.store.GetRecentClassifications(ctx, 100)
			if err != nil {
				return err
			}
			corrections, err := app.store.GetCorrections(ctx, 1000)
			if err != nil {
				return err
			}

			health := feedback.HealthFromRecords(recent, corrections)

			fmt.Println(cli.FormatTitle("System health"))
			fmt.Printf("  Health score:     %s\n", renderScore(health.HealthScore))
			fmt.Printf("  Correction rate:  %.1f%%\n", health.CorrectionRate*100)
			fmt.Printf("  Avg confidence:   %.1f%%\n", health.AvgConfidence)
			fmt.Printf("  Sample size:      %d\n", health.SampleSize)

			statuses, err := app.store.GetProviderStatuses(ctx)
			if err != nil {
				return err
			}
			if len(statuses) > 0 {
				fmt.Println()
				fmt.Println(cli.FormatTitle("Providers"))
				for _, s := range statuses {
					icon := cli.FormatSuccess("healthy")
					if !s.Healthy {
						icon = cli.FormatError("unhealthy")
					}
					fmt.Printf("  %-12s %s  ok=%d fail=%d avg=%.0fms last=%s\n",
						s.Provider, icon, s.SuccessCount, s.FailureCount,
						s.AvgLatencyMs, s.LastSeen.Format("2006-01-02 15:04"))
				}
			}
			return nil
		},
	}
}

func renderScore(score int) string {
	text := fmt.Sprintf("%d/100", score)
	switch {
	case score >= 80:
		return cli.SuccessStyle.Render(text)
	case score >= 60:
		return cli.WarningStyle.Render(text)
	default:
		return cli.ErrorStyle.Render(text)
	}
}
