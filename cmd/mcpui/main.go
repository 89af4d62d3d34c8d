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

	"github.com/spf13/cobra"

	"github.com/sebamar88/mcp-ui-poc/internal/config"
	"github.com/sebamar88/mcp-ui-poc/internal/httpapi"
	"github.com/sebamar88/mcp-ui-poc/internal/mcp"
	"github.com/sebamar88/mcp-ui-poc/internal/placeholder"
	"github.com/sebamar88/mcp-ui-poc/internal/stream"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:          "mcpui",
		Short:        "Demo MCP UI-resource server over REST, JSON-RPC and SSE",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("MCPUI_CONFIG"), "path to yaml config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	root.AddCommand(serve)

	return root
}

func runServe(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)

	fetcher := placeholder.NewClient(cfg.Upstream.BaseURL,
		placeholder.WithHTTPClient(&http.Client{Timeout: cfg.Upstream.Timeout}),
		placeholder.WithMaxRetries(uint64(cfg.Upstream.RetryAttempts)),
		placeholder.WithLogger(logger),
	)

	dispatcher, err := mcp.NewDispatcher(fetcher,
		mcp.Info{Name: cfg.Server.Name, Version: cfg.Server.Version},
		mcp.WithListLimit(cfg.Resources.ListLimit),
		mcp.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to build dispatcher: %w", err)
	}

	sequencer := stream.NewSequencer(fetcher,
		stream.WithCloseDelays(cfg.SSE.SuccessCloseDelay, cfg.SSE.ErrorCloseDelay),
		stream.WithLogger(logger),
	)

	api := httpapi.NewServer(fetcher, dispatcher, sequencer,
		httpapi.WithListLimit(cfg.Resources.ListLimit),
		httpapi.WithLogger(logger),
	)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", cfg.HTTP.Addr))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
