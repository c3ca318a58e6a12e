package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rmax-ai/skillgraph/pkg/store"
)

const (
	defaultAddr            = "127.0.0.1:8090"
	defaultShutdownTimeout = 5 * time.Second
)

type Config struct {
	DatasetPath     string
	DBPath          string
	DatasetName     string
	Addr            string
	LogLevel        slog.Level
	TLSCertFile     string
	TLSKeyFile      string
	ShutdownTimeout time.Duration
}

func LoadConfig(args []string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get cwd: %w", err)
	}

	shutdownTimeout := defaultShutdownTimeout
	if env := os.Getenv("SKILLGRAPH_SHUTDOWN_TIMEOUT"); env != "" {
		parsed, err := time.ParseDuration(env)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SKILLGRAPH_SHUTDOWN_TIMEOUT: %w", err)
		}
		if parsed <= 0 {
			return Config{}, errors.New("SKILLGRAPH_SHUTDOWN_TIMEOUT must be positive")
		}
		shutdownTimeout = parsed
	}

	flagSet := flag.NewFlagSet("skillgraph-d", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagDataset := flagSet.String("dataset", os.Getenv("SKILLGRAPH_DATASET"), "dataset YAML/JSON file (default: embedded)")
	flagDB := flagSet.String("db", os.Getenv("SKILLGRAPH_DB_PATH"), "SQLite database with imported datasets")
	flagName := flagSet.String("name", envOrDefault("SKILLGRAPH_DATASET_NAME", store.DefaultName), "dataset name inside -db")
	flagAddr := flagSet.String("addr", addrFromEnv(defaultAddr), "HTTP listen address")
	flagLogLevel := flagSet.String("log-level", envOrDefault("SKILLGRAPH_LOG_LEVEL", "info"), "debug|info|warn|error")
	flagCert := flagSet.String("tls-cert", os.Getenv("SKILLGRAPH_TLS_CERT"), "TLS certificate file")
	flagKey := flagSet.String("tls-key", os.Getenv("SKILLGRAPH_TLS_KEY"), "TLS key file")
	flagShutdown := flagSet.String("shutdown-timeout", shutdownTimeout.String(), "graceful shutdown timeout")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
		}
		return Config{}, err
	}

	shutdownParsed, err := time.ParseDuration(*flagShutdown)
	if err != nil {
		return Config{}, fmt.Errorf("invalid shutdown timeout: %w", err)
	}
	if shutdownParsed <= 0 {
		return Config{}, errors.New("shutdown timeout must be positive")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*flagLogLevel)); err != nil {
		return Config{}, fmt.Errorf("invalid log level: %w", err)
	}

	config := Config{
		DatasetPath:     resolvePath(*flagDataset, cwd),
		DBPath:          resolvePath(*flagDB, cwd),
		DatasetName:     strings.TrimSpace(*flagName),
		Addr:            strings.TrimSpace(*flagAddr),
		LogLevel:        level,
		TLSCertFile:     resolvePath(*flagCert, cwd),
		TLSKeyFile:      resolvePath(*flagKey, cwd),
		ShutdownTimeout: shutdownParsed,
	}

	if config.Addr == "" {
		return Config{}, errors.New("addr cannot be empty")
	}
	if (config.TLSCertFile == "") != (config.TLSKeyFile == "") {
		return Config{}, errors.New("tls-cert and tls-key must be set together")
	}
	if config.DatasetName == "" {
		config.DatasetName = store.DefaultName
	}

	return config, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func addrFromEnv(fallback string) string {
	if value := os.Getenv("SKILLGRAPH_ADDR"); value != "" {
		return value
	}
	if port := os.Getenv("SKILLGRAPH_PORT"); port != "" {
		return fmt.Sprintf("127.0.0.1:%s", port)
	}
	return fallback
}

func resolvePath(path string, cwd string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return trimmed
	}
	if filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Join(cwd, trimmed)
}
