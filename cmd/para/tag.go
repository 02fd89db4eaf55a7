package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/parabrain/para-flow/internal/cli"
	"github.com/parabrain/para-flow/internal/llm"
	"github.com/parabrain/para-flow/internal/model"
)

func tagCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "tag [text]",
		Short: "Generate smart tags for content",
		Long: `Tag asks the configured model chain for smart tags, semantic groups,
and related topics. Without a reachable provider it degrades to plain
keyword extraction from the content itself.

The category hint comes from the heuristic classifier unless --category
is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			hint := model.CategoryName(category)
			if hint == "" {
				if result, clsErr := app.classifier.Classify(input, "", nil); clsErr == nil {
					hint = result.Category
				}
			}

			var (
				tags     llm.TagSuggestion
				provider string
			)
			if app.ai != nil {
				tags, provider, err = app.ai.SuggestTags(ctx, input, hint)
				if err != nil {
					return err
				}
			} else {
				tags, provider = llm.FallbackTags(input), "fallback"
			}

			printTags(tags, provider)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "category hint for the tagging prompt, e.g. learning-tech")

	return cmd
}

func printTags(tags llm.TagSuggestion, provider string) {
	fmt.Println(cli.FormatTitle("Smart tags"))
	for _, tag := range tags.SmartTags {
		fmt.Printf("  #%s\n", cli.BoldStyle.Render(tag))
	}
	fmt.Printf("  Confidence:  %d%%\n", tags.Confidence)
	fmt.Printf("  Via:         %s\n", provider)

	if len(tags.SemanticGroups) > 0 {
		fmt.Println("  Groups:")
		groups := make([]string, 0, len(tags.SemanticGroups))
		for group := range tags.SemanticGroups {
			groups = append(groups, group)
		}
		sort.Strings(groups)
		for _, group := range groups {
			fmt.Printf("    %-12s %v\n", group, tags.SemanticGroups[group])
		}
	}

	if len(tags.RelatedTopics) > 0 {
		fmt.Println("  Related:")
		for _, topic := range tags.RelatedTopics {
			fmt.Printf("    %s\n", cli.SubtleStyle.Render(topic))
		}
	}
}
