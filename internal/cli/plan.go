package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripweaver/backend/internal/domain"
)

var (
	planDays      int
	planBudget    float64
	planStart     string
	planDeparture string
	planNoReport  bool
)

var planCmd = &cobra.Command{
	Use:   "plan <destination>",
	Short: "Build budget-tiered travel plans for a destination",
	Long: `Build three travel plans (economic, comfort, premium) for a destination,
including dining and attraction recommendations, accommodation and transport
suggestions and a day-by-day itinerary.

Examples:
  tripweaver plan Shanghai --days 3 --budget 3000
  tripweaver plan Chengdu --days 5 --budget 6000 --start 2026-09-10
  tripweaver plan Xiamen --days 4 --budget 4000 --start "next week"`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().IntVarP(&planDays, "days", "d", 3, "trip length in days")
	planCmd.Flags().Float64VarP(&planBudget, "budget", "b", 3000, "total budget")
	planCmd.Flags().StringVarP(&planStart, "start", "s", "", "start date (ISO date or phrases like 'tomorrow', 'next week')")
	planCmd.Flags().StringVar(&planDeparture, "from", "", "departure city")
	planCmd.Flags().BoolVar(&planNoReport, "no-report", false, "skip writing the HTML report")
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, err := application.Trips.Plan(ctx, domain.TripRequest{
		Destination: args[0],
		Departure:   planDeparture,
		StartDate:   planStart,
		Days:        planDays,
		Budget:      planBudget,
	})
	if err != nil {
		return fmt.Errorf("plan trip: %w", err)
	}

	fmt.Printf("Trip to %s, %d days from %s, budget %.0f\n\n",
		result.Request.Destination, result.Request.Days, result.StartDate, result.Request.Budget)

	for _, plan := range result.Plans {
		fmt.Printf("== %s (est. total %.0f) ==\n", plan.Title, plan.EstimatedTotal)
		if plan.Accommodation != nil {
			fmt.Printf("  Stay: %s (%s), %.0f/night\n",
				plan.Accommodation.Name, plan.Accommodation.Type, plan.Accommodation.NightlyRate)
		}
		for _, day := range plan.Itinerary {
			fmt.Printf("  Day %d (%s): %s\n", day.Day, day.Date, day.Summary)
		}
		fmt.Println()
	}

	if !planNoReport {
		path, err := application.Reports.Write(result)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report written to %s\n", path)
	}

	return nil
}
