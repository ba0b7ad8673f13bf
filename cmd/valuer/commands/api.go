package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/api"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/api/handlers"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/loader"
	"github.com/neil-k-zero/intrinsic-value-calc/internal/valuation"
)

var apiPort string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the valuation REST API server",
	Long: `Starts the HTTP API server.

Endpoints:
  GET  /health                  - Health check
  GET  /api/companies           - List available tickers
  GET  /api/valuation/{ticker}  - Value a stored company
  POST /api/valuation           - Value a company record in the body

Example:
  valuer api
  valuer api --port 8080`,
	RunE: runAPIServer,
}

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default $PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	cfg, log, model, err := setup()
	if err != nil {
		return err
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	store := loader.NewStore(cfg.DataDir)
	engine := valuation.NewEngine(model, log)
	handler := handlers.NewValuationHandler(store, engine, log)
	router := api.NewRouter(handler, cfg, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
