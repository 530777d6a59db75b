// Package cli provides the command-line interface for tripweaver.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tripweaver/backend/config"
	"github.com/tripweaver/backend/internal/app"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	cfg         *config.Config
	application *app.App
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tripweaver",
	Short: "AI-assisted travel planner",
	Long: `TripWeaver aggregates restaurant and attraction data from map APIs,
listing sites and LLM fallbacks, deduplicates and scores it, and turns it
into budget-tiered travel plans with HTML reports.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// .env is optional
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		application, err = app.Build(context.Background(), cfg)
		if err != nil {
			return fmt.Errorf("build services: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if application != nil {
			application.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(serveCmd)
}
