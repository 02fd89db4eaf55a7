package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/parabrain/para-flow/internal/cli"
	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/taxonomy"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the P.A.R.A taxonomy",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(cli.FormatTitle("Taxonomy"))

			for _, cat := range taxonomy.All() {
				destinations := make([]string, len(cat.Destinations))
				for i, d := range cat.Destinations {
					destinations[i] = string(d)
				}

				fmt.Printf("%s (%s)\n", cli.BoldStyle.Render(string(cat.Name)), cat.DisplayName)
				fmt.Printf("  P.A.R.A:      %s\n", cat.ParaMapping)
				fmt.Printf("  Priority:     %s\n", cat.PriorityDefault)
				fmt.Printf("  Destinations: %s\n", strings.Join(destinations, ", "))
				fmt.Printf("  Folder:       %s\n", taxonomy.SubPath(&cat))
				fmt.Println()
			}

			fmt.Println(cli.SubtleStyle.Render("Headline tags: " + strings.Join(taxonomy.HeadlineTags(), ", ")))
		},
	}
}

// categoryOrder returns taxonomy names in enumeration order, shared by the
// summary printers.
func categoryOrder() []model.CategoryName {
	cats := taxonomy.All()
	names := make([]model.CategoryName, len(cats))
	for i, cat := range cats {
		names[i] = cat.Name
	}
	return names
}
