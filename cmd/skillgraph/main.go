package main

import (
	"fmt"
	"io"
	"os"
)

var (
	Version   = "v1.0.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const usage = `Usage: skillgraph <command> [flags] [args]

Commands:
  validate [-lenient] <file>          check a dataset file
  import [-name N] <file> <db>        store a dataset file in a database
  export [-name N] [-o FILE] <db>     write a stored dataset as YAML
  list <db>                           list stored datasets
  delete [-name N] <db>               remove a stored dataset
  mcp [-api URL] [-dataset FILE]      serve the graph over MCP on stdio
  version                             print build information
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "validate":
		err = runValidate(rest, stdout)
	case "import":
		err = runImport(rest, stdout)
	case "export":
		err = runExport(rest, stdout)
	case "list":
		err = runList(rest, stdout)
	case "delete":
		err = runDelete(rest, stdout)
	case "mcp":
		err = runMCP(rest)
	case "version":
		fmt.Fprintf(stdout, "skillgraph %s (commit %s, built %s)\n", Version, Commit, BuildTime)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if _, ok := err.(usageError); ok {
			return 2
		}
		return 1
	}
	return 0
}
