package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parabrain/para-flow/internal/cli"
	"github.com/parabrain/para-flow/internal/common"
	"github.com/parabrain/para-flow/internal/model"
)

func classifyCmd() *cobra.Command {
	var (
		headline    string
		history     []string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify content into a P.A.R.A category",
		Long: `Classify runs the heuristic pipeline directly, without routing.

Text is read from the arguments or, when absent, from stdin. A headline
override like [project-work] bypasses the heuristics entirely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}

			recent, err := parseHistory(history)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := newApp(ctx, false)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.classifier.Classify(input, headline, recent)
			if errors.Is(err, common.ErrSkipClassification) {
				fmt.Println(cli.FormatInfo("Marked [temp]: parked in the holding area, not classified."))
				return nil
			}
			if err != nil {
				return err
			}

			printResult(result)
			app.tracker.RecordOutcome(result)

			if interactive {
				return reviewResult(cmd, app, input, result)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&headline, "headline", "", "headline override tag, e.g. [project-work]")
	cmd.Flags().StringSliceVar(&history, "history", nil, "recent category names for the context classifier, e.g. learning-tech,work-core")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "review the decision and record a correction")

	return cmd
}

// reviewResult runs the interactive accept/correct/skip loop and records a
// correction when the user picks another category.
func reviewResult(cmd *cobra.Command, app *app, input string, result *model.ClassificationResult) error {
	prompter := cli.NewPrompter(os.Stdin, os.Stdout)

	decision, err := prompter.ReviewClassification(cmd.Context(), input, result)
	if err != nil {
		return err
	}

	switch {
	case decision.Accepted:
		fmt.Println(cli.FormatSuccess("Accepted."))
	case decision.Skipped:
		fmt.Println(cli.FormatInfo("Skipped."))
	default:
		entry := app.tracker.RecordCorrection(result.ID, input, result.Category, decision.Corrected)
		if err := app.store.SaveCorrection(cmd.Context(), &entry); err != nil {
			return fmt.Errorf("failed to save correction: %w", err)
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Corrected to %s.", decision.Corrected)))
	}
	return nil
}

func printResult(result *model.ClassificationResult) {
	fmt.Println(cli.FormatTitle("Classification"))
	fmt.Printf("  Category:    %s\n", cli.BoldStyle.Render(string(result.Category)))
	fmt.Printf("  P.A.R.A:     %s\n", result.ParaCategory)
	fmt.Printf("  Priority:    %s\n", result.Priority)
	fmt.Printf("  Confidence:  %d%%\n", result.Confidence)
	fmt.Printf("  Source:      %s\n", result.Source)
	fmt.Printf("  Reasoning:   %s\n", cli.SubtleStyle.Render(result.Reasoning))

	fmt.Println("  Destinations:")
	for _, platform := range result.Destinations {
		fmt.Printf("    %s %s: %s\n", cli.FolderIcon, platform, result.FolderPaths[platform])
	}
}
