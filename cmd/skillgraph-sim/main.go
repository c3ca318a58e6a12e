package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/rmax-ai/skillgraph/pkg/simulation"
	"github.com/rmax-ai/skillgraph/pkg/store"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var handler slog.Handler = slog.NewTextHandler(io.Discard, nil)
	if cfg.Verbose {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scenario := defaultScenario()
	if cfg.ScenarioPath != "" {
		scenario, err = simulation.LoadFile(cfg.ScenarioPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	} else {
		fmt.Fprintln(os.Stderr, "No scenario file provided, running default demo scenario...")
	}

	ds, err := store.ResolveDataset(ctx, cfg.datasetPath(scenario.Dataset), cfg.DBPath, cfg.DatasetName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	result, err := simulation.Run(ctx, ds, scenario, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation failed: %v\n", err)
		os.Exit(1)
	}

	if err := writeReport(os.Stdout, result, cfg.JSON, cfg.Out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !result.Success {
		os.Exit(1)
	}
}

func defaultScenario() simulation.Scenario {
	return simulation.Scenario{
		Name:        "Default Demo",
		Description: "Disclose a domain, spin the view, then reset",
		Seed:        1,
		Steps: []simulation.Step{
			{Action: simulation.ActionFrames, Duration: simulation.DefaultFrameInterval * 30},
			{Action: simulation.ActionClick, Target: "central"},
			{Action: simulation.ActionFrames, Frames: 30},
			{Action: simulation.ActionRotate, Clockwise: true, Frames: 15},
			{Action: simulation.ActionExplode},
			{Action: simulation.ActionFrames, Frames: 60},
			{Action: simulation.ActionReset},
			{Action: simulation.ActionFrames, Frames: 30},
		},
		Invariants: []simulation.Invariant{
			{Metric: "disclosed", Condition: "==", Value: 0},
			{Metric: "rotating", Condition: "==", Value: 0},
		},
	}
}

func writeReport(stdout io.Writer, res simulation.Result, jsonFmt bool, filePath string) error {
	var output []byte

	if jsonFmt {
		var err error
		output, err = json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
	} else {
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "\n--- Simulation Report: %s ---\n", res.ScenarioName)
		fmt.Fprintf(&buf, "Seed: %d | Steps: %d | Frames: %d | Simulated: %s\n", res.Seed, res.Steps, res.Frames, res.Elapsed)
		fmt.Fprintf(&buf, "Visible: %d nodes, %d edges | Zoom: %.2f | Stable: %t\n",
			res.Final.VisibleNodes, res.Final.VisibleEdges, res.Final.Zoom, res.Final.Stable)
		if len(res.Final.Disclosed) > 0 {
			fmt.Fprintf(&buf, "Disclosed: %s\n", strings.Join(res.Final.Disclosed, ", "))
		}

		if len(res.Invariants) > 0 {
			buf.WriteString("\nInvariants:\n")
			for _, inv := range res.Invariants {
				status := "FAIL"
				if inv.Passed {
					status = "PASS"
				}
				fmt.Fprintf(&buf, "[%s] %s: Expected %s, Got %s\n", status, inv.Metric, inv.Expected, inv.Actual)
			}
		}
		output = buf.Bytes()
	}

	if filePath != "" {
		if err := os.WriteFile(filePath, output, 0o644); err != nil {
			return fmt.Errorf("failed to write report to %s: %w", filePath, err)
		}
		fmt.Fprintf(stdout, "Report written to %s\n", filePath)
		return nil
	}
	_, err := fmt.Fprintln(stdout, string(output))
	return err
}
