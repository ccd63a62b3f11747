package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/app"
	"github.com/jonathan/career-guide/internal/navigation"
)

var recommendationsCmd = &cobra.Command{
	Use:   "recommendations",
	Short: "Print your career recommendations",
	Long: `Logs in and prints the ranked career recommendations. When none are stored they are
generated from the latest quiz response. Use --generate to regenerate them first and --rank to
show the details of one career.`,
	RunE: runRecommendations,
}

var (
	recsGenerate bool
	recsRank     int
)

func init() {
	recommendationsCmd.Flags().BoolVar(&recsGenerate, "generate", false, "Regenerate recommendations from the latest quiz response")
	recommendationsCmd.Flags().IntVar(&recsRank, "rank", 1, "Show the details of the career at this rank (0 hides details)")
	rootCmd.AddCommand(recommendationsCmd)
}

func runRecommendations(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, rt *runtime, a *app.App) error {
		if recsGenerate {
			if _, err := rt.client.GenerateRecommendations(ctx); err != nil {
				return fmt.Errorf("failed to generate recommendations: %w", err)
			}
		}

		a.Navigate(navigation.ViewRecommendations)
		waitView(a)
		m := a.Recommendations
		if alert := m.Alert(); alert != "" {
			return errors.New(alert)
		}

		recs := m.List()
		rt.printer.PrintRecommendations(recs)
		if recsRank < 1 {
			return nil
		}
		if recsRank > len(recs) {
			return fmt.Errorf("rank %d out of range (1-%d)", recsRank, len(recs))
		}
		if err := m.Select(recs[recsRank-1].ID); err != nil {
			return err
		}
		rec, rank, _ := m.Selected()
		rt.printer.PrintRecommendation(rec, rank)
		return nil
	})
}
