package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	httpDelivery "github.com/tripweaver/backend/internal/delivery/http"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	handler := httpDelivery.NewHandler(
		application.Dining,
		application.Attractions,
		application.Trips,
		application.Reports,
	)
	router := httpDelivery.SetupRouter(cfg, handler)

	port := cfg.Server.Port
	if servePort != "" {
		port = servePort
	}

	fmt.Printf("Listening on :%s\n", port)
	return router.Run(fmt.Sprintf(":%s", port))
}
