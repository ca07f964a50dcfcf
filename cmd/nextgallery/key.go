package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/codecomfy/nextgallery/internal/workspacekey"
)

func runKey(args []string) int {
	fs := flag.NewFlagSet("key", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: nextgallery key --path PATH")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the deterministic workspace key derived from PATH.")
	}
	path := fs.String("path", "", "Filesystem path to derive the key from")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *path == "" {
		fmt.Fprintln(os.Stderr, "key requires --path")
		fs.Usage()
		return 2
	}

	key, err := workspacekey.Compute(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(key.String())
	return 0
}
