package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chocodash/internal/api"
	"github.com/vovakirdan/chocodash/internal/storage"
)

var flagHTTPAddr string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP readings API",
	Long: `Serve glucose readings and scores over HTTP.

Endpoints:
  GET  /health
  POST /api/v1/readings
  GET  /api/v1/readings?username=<name>&limit=<n>
  GET  /api/v1/scores/{game}?limit=<n>
  GET  /api/v1/highscore/{game}
  GET  /api/v1/stats/{game}

Examples:
  chocodash api
  chocodash api --http 127.0.0.1:9000`,
	Run: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "HTTP listen address (env CHOCODASH_HTTP_ADDR)")
}

func runAPI(_ *cobra.Command, _ []string) {
	logger := newLogger("chocodash-api")

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting HTTP API", "addr", flagHTTPAddr, "db", flagDBPath)
	if err := api.NewServer(store, logger).ListenAndServe(ctx, flagHTTPAddr); err != nil {
		logger.Error("server stopped", "err", err)
		store.Close()
		os.Exit(1)
	}
	logger.Info("server stopped")
}
