package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runRun(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "watch":
		os.Exit(runWatch(os.Args[2:]))
	case "key":
		os.Exit(runKey(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nextgallery <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run --workspace PATH [--view NAME]   Become primary or activate the existing instance")
	fmt.Fprintln(w, "  list --workspace PATH                Print the current job list once, no routing")
	fmt.Fprintln(w, "  watch --workspace PATH                Open the read-only watch TUI")
	fmt.Fprintln(w, "  key --path PATH                      Print the derived workspace key")
	fmt.Fprintln(w, "  mcp serve                            Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'nextgallery <command> --help' for command-specific options.")
}
