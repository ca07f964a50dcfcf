package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/codecomfy/nextgallery/internal/filereader"
	"github.com/codecomfy/nextgallery/internal/galleryindex"
)

var (
	listHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	listRowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	listBannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	listFatalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: nextgallery list --workspace PATH")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the index loader once and print the result. Does not participate in routing.")
	}
	workspace := fs.String("workspace", "", "Workspace directory")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if *workspace == "" {
		fmt.Fprintln(os.Stderr, "list requires --workspace")
		fs.Usage()
		return 2
	}

	result := galleryindex.Load(*workspace, filereader.OS{}, nil)

	switch result.State.Tag {
	case galleryindex.StateFatal:
		fmt.Println(listFatalStyle.Render(result.State.FatalMessage))
		return 1
	case galleryindex.StateEmpty:
		fmt.Println(listHeaderStyle.Render("no jobs yet"))
	case galleryindex.StateList:
		fmt.Println(listHeaderStyle.Render(fmt.Sprintf("%-36s  %-5s  %-5s  %-12s", "job id", "kind", "files", "seed")))
		for _, row := range result.State.Items {
			fmt.Println(listRowStyle.Render(fmt.Sprintf("%-36s  %-5s  %-5d  %-12d", row.JobID, row.Kind, len(row.Files), row.Seed)))
		}
	}

	if result.Banner.Severity != galleryindex.SeverityNone {
		fmt.Println(listBannerStyle.Render(result.Banner.Message))
	}

	return 0
}
