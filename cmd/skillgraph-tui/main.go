package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmax-ai/skillgraph/pkg/controller"
	"github.com/rmax-ai/skillgraph/pkg/force"
	"github.com/rmax-ai/skillgraph/pkg/store"
	"github.com/rmax-ai/skillgraph/pkg/tui"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func run(cfg Config) error {
	// The terminal belongs to the view; logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	ds, err := store.ResolveDataset(context.Background(), cfg.DatasetPath, cfg.DBPath, cfg.DatasetName)
	if err != nil {
		return err
	}
	for _, p := range ds.Problems() {
		logger.Warn("Dataset problem", "error", p)
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
		defer srv.Close()
	}

	ctrl := controller.New(ds, controller.Options{Logger: logger, Seed: cfg.Seed})
	w, h := ctrl.Size()
	sim := force.New(ctrl.Arena(), force.DefaultParams(), w, h)
	sim.OnEngineStop(ctrl.EngineStopped)
	ctrl.Attach(sim)

	m := tui.New(ctrl, sim, nil, tui.Options{FPS: cfg.FPS})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal view failed: %w", err)
	}
	logger.Info("Shutdown complete")
	return nil
}
