// Package watchtui is a read-only bubbletea front end over a
// viewmodel.ViewModel: it renders whatever presentation state the
// projection has already computed, and never decodes a thumbnail, opens
// an image, or scans a directory itself.
package watchtui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/codecomfy/nextgallery/internal/galleryindex"
	"github.com/codecomfy/nextgallery/internal/viewmodel"
)

const pollEvery = 2 * time.Second

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	rowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type tickMsg struct{}

// Model is the bubbletea model driving the watch view.
type Model struct {
	vm     *viewmodel.ViewModel
	snap   viewmodel.Snapshot
	width  int
	height int
}

// New builds a watch Model over vm, taking an initial snapshot.
func New(vm *viewmodel.ViewModel) Model {
	return Model{vm: vm, snap: vm.Snapshot()}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), refreshCmd(m.vm))
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollEvery, func(time.Time) tea.Msg { return tickMsg{} })
}

type refreshedMsg struct{ snap viewmodel.Snapshot }

func refreshCmd(vm *viewmodel.ViewModel) tea.Cmd {
	return func() tea.Msg {
		snap, _ := vm.PollTick(true)
		return refreshedMsg{snap: snap}
	}
}

func forceRefreshCmd(vm *viewmodel.ViewModel) tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{snap: vm.Refresh()}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, forceRefreshCmd(m.vm)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		return m, tea.Batch(tickCmd(), refreshCmd(m.vm))

	case refreshedMsg:
		m.snap = msg.snap
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("nextgallery watch"))
	b.WriteString("\n\n")

	switch m.snap.State.Tag {
	case galleryindex.StateLoading:
		b.WriteString(headerStyle.Render("loading…"))
		b.WriteString("\n")
	case galleryindex.StateEmpty:
		b.WriteString(headerStyle.Render("no jobs yet"))
		b.WriteString("\n")
	case galleryindex.StateFatal:
		b.WriteString(warnStyle.Render(m.snap.State.FatalMessage))
		b.WriteString("\n")
	case galleryindex.StateList:
		b.WriteString(headerStyle.Render(fmt.Sprintf("%-36s  %-5s  %-5s  %-12s  %s", "job id", "kind", "files", "seed", "created")))
		b.WriteString("\n")
		for _, row := range m.snap.State.Items {
			b.WriteString(rowStyle.Render(fmt.Sprintf("%-36s  %-5s  %-5d  %-12d  %s",
				truncate(row.JobID, 36), row.Kind, len(row.Files), row.Seed, relativeTime(row.CreatedAt))))
			b.WriteString("\n")
		}
	}

	if m.snap.Banner.Severity != galleryindex.SeverityNone {
		b.WriteString("\n")
		style := infoStyle
		if m.snap.Banner.Severity == galleryindex.SeverityWarning {
			style = warnStyle
		}
		b.WriteString(style.Render(m.snap.Banner.Message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("r:refresh  q/esc/^C:quit"))
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
