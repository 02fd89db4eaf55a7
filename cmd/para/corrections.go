package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parabrain/para-flow/internal/cli"
	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/taxonomy"
)

func correctionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corrections",
		Short: "Inspect and record category corrections",
	}

	cmd.AddCommand(correctionsListCmd())
	cmd.AddCommand(correctionsRecordCmd())

	return cmd
}

func correctionsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent corrections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer app.Close()

			corrections, err := app.store.GetCorrections(ctx, limit)
			if err != nil {
				return err
			}

			if len(corrections) == 0 {
				fmt.Println(cli.FormatInfo("No corrections recorded yet."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Corrections"))
			for _, c := range corrections {
				fmt.Printf("  %s  %s → %s\n",
					c.CorrectedAt.Format("2006-01-02 15:04"),
					cli.WarningStyle.Render(string(c.Original)),
					cli.SuccessStyle.Render(string(c.Corrected)))
				if c.InputExcerpt != "" {
					fmt.Printf("      %s\n", cli.SubtleStyle.Render(c.InputExcerpt))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum corrections to show")

	return cmd
}

func correctionsRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record RESULT_ID CATEGORY",
		Short: "Correct a past decision",
		Long: `Record marks a past decision as wrong and names the right category.
The original category's learned weight is penalized and the corrected
category's weight rewarded, steering future keyword scoring.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resultID := args[0]
			corrected := model.CategoryName(args[1])

			if !taxonomy.Contains(corrected) {
				return &common.TaxonomyError{Name: args[1]}
			}

			ctx := cmd.Context()
			app, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer app.Close()

			original, excerpt, err := findOriginal(cmd, app, resultID)
			if err != nil {
				return err
			}
			if original == corrected {
				fmt.Println(cli.FormatWarning("Decision already names that category; nothing to correct."))
				return nil
			}

			entry := app.tracker.RecordCorrection(resultID, excerpt, original, corrected)
			if err := app.store.SaveCorrection(ctx, &entry); err != nil {
				return fmt.Errorf("failed to save correction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Corrected %s → %s", original, corrected)))
			return nil
		},
	}
}

// findOriginal locates the decision being corrected in recent history.
func findOriginal(cmd *cobra.Command, app *app, resultID string) (model.CategoryName, string, error) {
	recent, err := app.store.GetRecentClassifications(cmd.Context(), 500)
	if err != nil {
		return "", "", err
	}

	for _, r := range recent {
		if r.ID == resultID {
			return r.Category, r.Reasoning, nil
		}
	}
	return "", "", fmt.Errorf("decision %s: %w", resultID, common.ErrNotFound)
}
