package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/queryscope/internal/api"
	"github.com/kalambet/queryscope/internal/config"
	"github.com/kalambet/queryscope/internal/pipeline"
	"github.com/kalambet/queryscope/internal/recommend"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the similarity space over HTTP and MCP (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "queryscope version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	initLogging(cfg)

	// The server is read-only over precomputed artifacts: load them once.
	parsed, err := pipeline.LoadParsedArtifact(cfg.Storage.OutputDir)
	if err != nil {
		return fmt.Errorf("loading parsed features (run `queryscope run` first): %w", err)
	}
	dist, err := pipeline.LoadDistanceArtifact(cfg.Storage.OutputDir)
	if err != nil {
		return fmt.Errorf("loading distance matrices (run `queryscope run` first): %w", err)
	}

	rec, err := recommend.New(dist.DistanceMatrices, parsed.ParsedQueries)
	if err != nil {
		return fmt.Errorf("building recommender: %w", err)
	}

	deps := api.Deps{
		Parsed:        parsed,
		Recommender:   rec,
		DefaultK:      cfg.Pipeline.TopK,
		DefaultMetric: cfg.Pipeline.DefaultMetric,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewHandler(deps),
	}

	// MCP server on stdio transport.
	stdioSrv := server.NewStdioServer(api.NewMCPServer(deps))
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
	}()
	slog.Info("MCP server started (stdio transport)")

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "queryscope listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// probeServer reports whether a local server answers the health endpoint.
func probeServer(cfg config.Config) string {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port))
	if err != nil {
		return "stopped"
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return fmt.Sprintf("running on port %d", cfg.Server.Port)
	}
	return fmt.Sprintf("error (HTTP %d)", resp.StatusCode)
}
