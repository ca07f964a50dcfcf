package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/codecomfy/nextgallery/internal/filereader"
	"github.com/codecomfy/nextgallery/internal/galleryconfig"
	"github.com/codecomfy/nextgallery/internal/viewmodel"
	"github.com/codecomfy/nextgallery/internal/watchtui"
)

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: nextgallery watch --workspace PATH")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the read-only watch TUI for PATH.")
	}
	workspace := fs.String("workspace", "", "Workspace directory")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *workspace == "" {
		fmt.Fprintln(os.Stderr, "watch requires --workspace")
		fs.Usage()
		return 2
	}

	cfg := galleryconfig.Default()
	if path, pathErr := galleryconfig.DefaultPath(); pathErr == nil {
		if loaded, loadErr := galleryconfig.Load(path); loadErr == nil {
			cfg = loaded
		}
	}

	vm := viewmodel.New(*workspace, filereader.OS{}, cfg.BackoffThreshold)
	vm.Refresh()

	p := tea.NewProgram(watchtui.New(vm))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
