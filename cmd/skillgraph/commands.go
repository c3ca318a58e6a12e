package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rmax-ai/skillgraph/pkg/client"
	"github.com/rmax-ai/skillgraph/pkg/graph"
	"github.com/rmax-ai/skillgraph/pkg/mcp"
	"github.com/rmax-ai/skillgraph/pkg/store"
)

func runValidate(args []string, stdout io.Writer) error {
	cfg, err := LoadConfig("validate", args, 1, 1)
	if err != nil {
		return err
	}
	var opts []graph.Option
	if cfg.Lenient {
		opts = append(opts, graph.Lenient())
	}
	ds, err := graph.LoadFile(cfg.Args[0], opts...)
	if err != nil {
		return err
	}
	for _, p := range ds.Problems() {
		fmt.Fprintf(stdout, "problem: %v\n", p)
	}
	fmt.Fprintf(stdout, "%s: %d nodes, %d edges, %d tools\n", cfg.Args[0], len(ds.Nodes()), len(ds.Edges()), len(ds.Tools()))
	return nil
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		return nil, usageError("database path is required")
	}
	return store.NewStore(path)
}

func runImport(args []string, stdout io.Writer) error {
	cfg, err := LoadConfig("import", args, 2, 2)
	if err != nil {
		return err
	}
	ds, err := graph.LoadFile(cfg.Args[0])
	if err != nil {
		return err
	}
	st, err := openStore(cfg.Args[1])
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveDataset(context.Background(), cfg.Name, ds); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Imported %q: %d nodes, %d edges\n", cfg.Name, len(ds.Nodes()), len(ds.Edges()))
	return nil
}

func runExport(args []string, stdout io.Writer) error {
	cfg, err := LoadConfig("export", args, 1, 1)
	if err != nil {
		return err
	}
	st, err := openStore(cfg.Args[0])
	if err != nil {
		return err
	}
	defer st.Close()

	ds, err := st.LoadDataset(context.Background(), cfg.Name)
	if err != nil {
		return fmt.Errorf("dataset %q: %w", cfg.Name, err)
	}
	raw, err := ds.Encode()
	if err != nil {
		return err
	}
	if cfg.Out != "" {
		return os.WriteFile(cfg.Out, raw, 0o644)
	}
	_, err = stdout.Write(raw)
	return err
}

func runList(args []string, stdout io.Writer) error {
	cfg, err := LoadConfig("list", args, 1, 1)
	if err != nil {
		return err
	}
	st, err := openStore(cfg.Args[0])
	if err != nil {
		return err
	}
	defer st.Close()

	infos, err := st.ListDatasets(context.Background())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tNODES\tEDGES\tIMPORTED")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", info.Name, info.Nodes, info.Edges, info.ImportedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func runDelete(args []string, stdout io.Writer) error {
	cfg, err := LoadConfig("delete", args, 1, 1)
	if err != nil {
		return err
	}
	st, err := openStore(cfg.Args[0])
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteDataset(context.Background(), cfg.Name); err != nil {
		return fmt.Errorf("dataset %q: %w", cfg.Name, err)
	}
	fmt.Fprintf(stdout, "Deleted %q\n", cfg.Name)
	return nil
}

// runMCP serves over stdio, answering from a daemon when -api is set and
// from a local dataset otherwise.
func runMCP(args []string) error {
	cfg, err := LoadConfig("mcp", args, 0, 0)
	if err != nil {
		return err
	}
	var src mcp.Source
	if cfg.API != "" {
		src = client.NewClient(cfg.API)
	} else {
		ds, err := store.ResolveDataset(context.Background(), cfg.Dataset, cfg.DBPath, cfg.Name)
		if err != nil {
			return err
		}
		src = mcp.Local{DS: ds}
	}
	return mcp.NewServer(src, Version).Serve()
}
