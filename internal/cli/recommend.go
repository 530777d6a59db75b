package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripweaver/backend/internal/domain"
)

var (
	recommendKind   string
	recommendBudget float64
	recommendLimit  int
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <destination>",
	Short: "List scored venue recommendations for a destination",
	Long: `Aggregate, deduplicate and score venues for a destination and print the
ranked list.

Examples:
  tripweaver recommend Shanghai
  tripweaver recommend Chengdu --kind attraction
  tripweaver recommend Xiamen --daily-budget 400 -n 10`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendKind, "kind", "k", "dining", "what to recommend: dining or attraction")
	recommendCmd.Flags().Float64Var(&recommendBudget, "daily-budget", 300, "daily budget used for cost fit")
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", 20, "max results")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	var agg interface {
		Aggregate(ctx context.Context, query domain.Query) []domain.Recommendation
	}
	switch recommendKind {
	case "dining":
		agg = application.Dining
	case "attraction", "attractions":
		agg = application.Attractions
	default:
		return fmt.Errorf("unknown kind %q (use dining or attraction)", recommendKind)
	}

	results := agg.Aggregate(context.Background(), domain.Query{
		Destination: args[0],
		DailyBudget: recommendBudget,
		MaxResults:  recommendLimit,
	})

	fmt.Printf("%d recommendations for %s:\n\n", len(results), args[0])
	for i, r := range results {
		marker := " "
		if r.BudgetFriendly {
			marker = "$"
		}
		fmt.Printf("%2d. [%5.1f] %s %s (%s, %s, %.1f stars, %d sources)\n",
			i+1, r.CompositeScore, marker, r.Name, r.Category, r.PriceRange, r.Rating, len(r.ContributingSources))
		if r.Description != "" {
			fmt.Printf("      %s\n", r.Description)
		}
	}

	return nil
}
