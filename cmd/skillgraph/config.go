package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rmax-ai/skillgraph/pkg/store"
)

type usageError string

func (e usageError) Error() string { return string(e) }

// Config carries the flags shared by the subcommands.
type Config struct {
	Name    string
	Out     string
	Lenient bool
	API     string
	Dataset string
	DBPath  string
	Args    []string
}

// LoadConfig parses the flags of subcommand cmd and checks its positional
// argument count.
func LoadConfig(cmd string, args []string, minArgs, maxArgs int) (Config, error) {
	flagSet := flag.NewFlagSet(cmd, flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	name := flagSet.String("name", envOrDefault("SKILLGRAPH_DATASET_NAME", store.DefaultName), "dataset name")
	out := flagSet.String("o", "", "output file (default: stdout)")
	lenient := flagSet.Bool("lenient", false, "report problems instead of failing")
	api := flagSet.String("api", os.Getenv("SKILLGRAPH_API"), "daemon URL to answer from")
	dataset := flagSet.String("dataset", os.Getenv("SKILLGRAPH_DATASET"), "dataset file")
	db := flagSet.String("db", os.Getenv("SKILLGRAPH_DB_PATH"), "SQLite database")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return Config{}, usageError(fmt.Sprintf("see 'skillgraph help' for %s flags", cmd))
		}
		return Config{}, usageError(err.Error())
	}

	cfg := Config{
		Name:    strings.TrimSpace(*name),
		Out:     strings.TrimSpace(*out),
		Lenient: *lenient,
		API:     strings.TrimSpace(*api),
		Dataset: strings.TrimSpace(*dataset),
		DBPath:  strings.TrimSpace(*db),
		Args:    flagSet.Args(),
	}
	if n := len(cfg.Args); n < minArgs || n > maxArgs {
		return Config{}, usageError(fmt.Sprintf("%s: wrong number of arguments", cmd))
	}
	if cfg.Name == "" {
		cfg.Name = store.DefaultName
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
