package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parabrain/para-flow/internal/cli"
	"github.com/parabrain/para-flow/internal/model"
	"github.com/parabrain/para-flow/internal/routing"
)

func routeCmd() *cobra.Command {
	var (
		headline string
		userID   string
		provider string
		enableAI bool
	)

	cmd := &cobra.Command{
		Use:   "route [text]",
		Short: "Route content through the rule engine",
		Long: `Route sends content through the full routing engine: history cache,
headline override, optional external model assist, and the heuristic
catch-all. The decision is persisted for reuse.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}

			if provider != "" && !enableAI {
				return fmt.Errorf("--provider requires --ai")
			}

			ctx := cmd.Context()
			app, err := newApp(ctx, enableAI)
			if err != nil {
				return err
			}
			defer app.Close()

			res := app.engine.Route(ctx, model.RouteEnvelope{
				Input:        input,
				UserHeadline: headline,
				UserID:       userID,
				Provider:     provider,
				EnableAI:     enableAI,
			})

			printRouteResult(res)
			if !res.Success {
				return fmt.Errorf("routing failed: %s", res.Error)
			}
			if res.Result != nil {
				app.tracker.RecordOutcome(res.Result)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&headline, "headline", "", "headline override tag, e.g. [project-work]")
	cmd.Flags().StringVar(&userID, "user", "", "user ID for preference-aware routing")
	cmd.Flags().StringVar(&provider, "provider", "", "pin the model assist to one configured provider, e.g. perplexity")
	cmd.Flags().BoolVar(&enableAI, "ai", false, "allow the external model assist route")

	return cmd
}

func printRouteResult(res model.RouteResult) {
	if !res.Success {
		fmt.Println(cli.FormatError(fmt.Sprintf("Routing failed: %s", res.Error)))
		return
	}

	if res.Route == routing.RouteHolding {
		fmt.Println(cli.FormatInfo("Parked in the holding area ([temp])."))
		fmt.Printf("  Took: %dms\n", res.ExecutionTimeMs)
		return
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Routed via %s in %dms", res.Route, res.ExecutionTimeMs)))
	if res.Result != nil {
		printResult(res.Result)
	}
}
