package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rmax-ai/skillgraph/pkg/store"
)

type Config struct {
	ScenarioPath string
	DatasetPath  string
	DBPath       string
	DatasetName  string
	JSON         bool
	Out          string
	Verbose      bool
}

func LoadConfig(args []string) (Config, error) {
	flagSet := flag.NewFlagSet("skillgraph-sim", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	scenario := flagSet.String("scenario", "", "scenario YAML/JSON file (default: built-in demo)")
	dataset := flagSet.String("dataset", os.Getenv("SKILLGRAPH_DATASET"), "dataset file, overrides the scenario's dataset")
	db := flagSet.String("db", os.Getenv("SKILLGRAPH_DB_PATH"), "SQLite database with imported datasets")
	name := flagSet.String("name", envOrDefault("SKILLGRAPH_DATASET_NAME", store.DefaultName), "dataset name inside -db")
	jsonOut := flagSet.Bool("json", false, "output results as JSON")
	out := flagSet.String("out", "", "write output to file instead of stdout")
	verbose := flagSet.Bool("v", false, "log controller activity to stderr")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
		}
		return Config{}, err
	}
	if flagSet.NArg() > 0 {
		return Config{}, errors.New("unexpected arguments: " + strings.Join(flagSet.Args(), " "))
	}

	cfg := Config{
		ScenarioPath: strings.TrimSpace(*scenario),
		DatasetPath:  strings.TrimSpace(*dataset),
		DBPath:       strings.TrimSpace(*db),
		DatasetName:  strings.TrimSpace(*name),
		JSON:         *jsonOut,
		Out:          strings.TrimSpace(*out),
		Verbose:      *verbose,
	}
	if cfg.DatasetName == "" {
		cfg.DatasetName = store.DefaultName
	}
	return cfg, nil
}

// datasetPath picks the dataset file: the flag, else the scenario's own
// entry resolved against the scenario's directory.
func (c Config) datasetPath(fromScenario string) string {
	if c.DatasetPath != "" || fromScenario == "" {
		return c.DatasetPath
	}
	if filepath.IsAbs(fromScenario) || c.ScenarioPath == "" {
		return fromScenario
	}
	return filepath.Join(filepath.Dir(c.ScenarioPath), fromScenario)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
