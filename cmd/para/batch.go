package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/parabrain/para-flow/internal/cli"
	"github.com/parabrain/para-flow/internal/model"
)

func batchCmd() *cobra.Command {
	var enableAI bool

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Route every line of a file",
		Long: `Batch routes each non-empty line of FILE as one capture. Lines may
carry an inline headline prefix, e.g. "[archive] old meeting notes".
Already-seen content is served from the history cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer func() { _ = file.Close() }()

			var items []string
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line != "" {
					items = append(items, line)
				}
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			if len(items) == 0 {
				fmt.Println(cli.FormatWarning("Nothing to route: file is empty."))
				return nil
			}

			handler := cli.NewInterruptHandler(os.Stdout)
			ctx := handler.HandleInterrupts(cmd.Context(), true)

			app, err := newApp(ctx, enableAI)
			if err != nil {
				return err
			}
			defer app.Close()

			bar := progressbar.NewOptions(len(items),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowCount(),
				progressbar.OptionShowElapsedTimeOnFinish(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("[cyan][bold]Routing captures...[reset]"),
			)

			counts := make(map[model.CategoryName]int)
			var held, failed int

			for _, item := range items {
				if ctx.Err() != nil {
					break
				}

				headline, input := splitInlineHeadline(item)
				res := app.engine.Route(ctx, model.RouteEnvelope{
					Input:        input,
					UserHeadline: headline,
					EnableAI:     enableAI,
				})

				switch {
				case !res.Success:
					failed++
				case res.Result == nil:
					held++
				default:
					counts[res.Result.Category]++
					app.tracker.RecordOutcome(res.Result)
				}

				_ = bar.Add(1)
			}
			_ = bar.Finish()
			fmt.Println()

			printBatchSummary(counts, held, failed)

			if handler.WasInterrupted() {
				return nil
			}
			if failed > 0 {
				return fmt.Errorf("%d items failed to route", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&enableAI, "ai", false, "allow the external model assist route")

	return cmd
}

// splitInlineHeadline peels a leading [tag] off a batch line.
func splitInlineHeadline(line string) (headline, input string) {
	if !strings.HasPrefix(line, "[") {
		return "", line
	}
	end := strings.Index(line, "]")
	if end < 0 {
		return "", line
	}
	return line[:end+1], strings.TrimSpace(line[end+1:])
}

func printBatchSummary(counts map[model.CategoryName]int, held, failed int) {
	fmt.Println(cli.FormatTitle("Batch summary"))
	for _, cat := range categoryOrder() {
		if n := counts[cat]; n > 0 {
			fmt.Printf("  %-16s %d\n", cat, n)
		}
	}
	if held > 0 {
		fmt.Printf("  %-16s %d\n", "holding", held)
	}
	if failed > 0 {
		fmt.Println(cli.FormatError(fmt.Sprintf("  %-16s %d", "failed", failed)))
	}
}
