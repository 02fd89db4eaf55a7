package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parabrain/para-flow/internal/cli"
)

func statsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show recent routing decisions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer app.Close()

			recent, err := app.store.GetRecentClassifications(ctx, limit)
			if err != nil {
				return err
			}

			if len(recent) == 0 {
				fmt.Println(cli.FormatInfo("No decisions recorded yet."))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("%s Recent decisions", cli.ChartIcon)))
			for _, r := range recent {
				fmt.Printf("  %s  %-16s %3d%%  %-12s %s\n",
					r.ClassifiedAt.Format("2006-01-02 15:04"),
					r.Category,
					r.Confidence,
					r.Source,
					cli.SubtleStyle.Render(r.ID))
			}

			rules, err := app.store.GetRuleStats(ctx)
			if err != nil {
				return err
			}
			if len(rules) > 0 {
				fmt.Println()
				fmt.Println(cli.FormatTitle("Routes"))
				for _, st := range rules {
					fmt.Printf("  %-16s attempts=%-4d successes=%-4d rate=%.0f%%\n",
						st.RuleID, st.Attempts, st.Successes, st.SuccessRate*100)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum decisions to show")

	return cmd
}
