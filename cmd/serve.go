package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"newsclassifier/internal/clix"
	"newsclassifier/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the classifier as an HTTP API server",
	Long: `Starts an HTTP server exposing GET / and POST /predict (plus /metrics).
The server runs until SIGINT or SIGTERM and then drains in-flight requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		cfg := appInstance.Config
		cfg.Server.Addr = clix.String(cmd.Flags(), "addr", cfg.Server.Addr)
		cfg.Server.Port = clix.String(cmd.Flags(), "port", cfg.Server.Port)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := server.New(appInstance).Run(ctx); err != nil {
			return fmt.Errorf("failed to run API server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Address to listen on (overrides server.addr)")
	serveCmd.Flags().String("port", "", "Port to listen on (overrides server.port)")
}
