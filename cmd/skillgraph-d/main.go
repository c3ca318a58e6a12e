package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rmax-ai/skillgraph/pkg/api"
	"github.com/rmax-ai/skillgraph/pkg/metrics"
	"github.com/rmax-ai/skillgraph/pkg/store"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		slog.Error("Invalid configuration", "error", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("System started", "component", "skillgraph-d")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Daemon failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}

func run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	var st api.DatasetStore
	if cfg.DBPath != "" {
		s, err := store.NewStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := s.Close(); err != nil {
				logger.Error("Failed to close store", "error", err)
			}
		}()
		st = s
		logger.Info("Store initialized", "path", cfg.DBPath)
	}

	ds, err := store.ResolveDataset(ctx, cfg.DatasetPath, cfg.DBPath, cfg.DatasetName)
	if err != nil {
		return err
	}
	base := ds.Filter(nil)
	metrics.VisibleNodes.Set(float64(len(base.Nodes)))
	metrics.VisibleLinks.Set(float64(len(base.Links)))
	logger.Info("Dataset loaded", "nodes", len(ds.Nodes()), "edges", len(ds.Edges()), "problems", len(ds.Problems()))

	srv := api.NewServer(ds, st, cfg.Addr)
	srv.SetLogger(logger)
	if cfg.TLSCertFile != "" {
		srv.SetTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown initiated")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
