package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rmax-ai/skillgraph/pkg/store"
)

const defaultFPS = 30

type Config struct {
	DatasetPath string
	DBPath      string
	DatasetName string
	FPS         int
	Seed        int64
	MetricsAddr string
	LogFile     string
}

func LoadConfig(args []string) (Config, error) {
	fps := defaultFPS
	if env := os.Getenv("SKILLGRAPH_FPS"); env != "" {
		parsed, err := strconv.Atoi(env)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SKILLGRAPH_FPS: %w", err)
		}
		fps = parsed
	}

	flagSet := flag.NewFlagSet("skillgraph-tui", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	dataset := flagSet.String("dataset", os.Getenv("SKILLGRAPH_DATASET"), "dataset YAML/JSON file (default: embedded)")
	db := flagSet.String("db", os.Getenv("SKILLGRAPH_DB_PATH"), "SQLite database with imported datasets")
	name := flagSet.String("name", envOrDefault("SKILLGRAPH_DATASET_NAME", store.DefaultName), "dataset name inside -db")
	flagFPS := flagSet.Int("fps", fps, "frames per second")
	seed := flagSet.Int64("seed", 0, "explode jitter seed (0: random)")
	metricsAddr := flagSet.String("metrics-addr", os.Getenv("SKILLGRAPH_METRICS_ADDR"), "serve /metrics on this address")
	logFile := flagSet.String("log-file", os.Getenv("SKILLGRAPH_LOG_FILE"), "append debug logs to this file")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
		}
		return Config{}, err
	}

	cfg := Config{
		DatasetPath: strings.TrimSpace(*dataset),
		DBPath:      strings.TrimSpace(*db),
		DatasetName: strings.TrimSpace(*name),
		FPS:         *flagFPS,
		Seed:        *seed,
		MetricsAddr: strings.TrimSpace(*metricsAddr),
		LogFile:     strings.TrimSpace(*logFile),
	}
	if cfg.FPS < 1 || cfg.FPS > 120 {
		return Config{}, errors.New("fps must be between 1 and 120")
	}
	if cfg.DatasetName == "" {
		cfg.DatasetName = store.DefaultName
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
