// Package ui provides progress display for repository analysis.
package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// IsTTY returns true if stderr is a terminal.
func IsTTY() bool {
	return term.IsTerminal(os.Stderr.Fd())
}

// --- Plain text fallback ---

// PlainProgress prints progress messages to a callback function.
// Used when stderr is not a TTY (e.g., piped output).
type PlainProgress struct {
	print func(string)
}

// NewPlainProgress creates a new PlainProgress with the given print callback.
func NewPlainProgress(print func(string)) *PlainProgress {
	return &PlainProgress{print: print}
}

// Update prints a progress message for a completed repository.
func (p *PlainProgress) Update(completed, total int, repoName string) {
	p.print(fmt.Sprintf("[%d/%d] Analyzed %s", completed, total, repoName))
}

// Wait prints a rate-limit wait notice.
func (p *PlainProgress) Wait(d time.Duration) {
	p.print(fmt.Sprintf("Rate limit low, waiting %s for reset...", d.Round(time.Second)))
}

// Done prints a completion message.
func (p *PlainProgress) Done(total int) {
	p.print(fmt.Sprintf("Done! Analyzed %d repositories.", total))
}

// --- TUI progress ---

// ProgressMsg is sent to the bubbletea program when a repository is analyzed.
type ProgressMsg struct {
	Completed int
	Total     int
	RepoName  string
}

// WaitMsg is sent when the run blocks on the API rate limit. Wait holds
// the countdown shown to the user, capped upstream at one hour.
type WaitMsg struct {
	Wait time.Duration
}

// DoneMsg is sent to the bubbletea program when all repositories are analyzed.
type DoneMsg struct{}

type model struct {
	progress  progress.Model
	completed int
	total     int
	repoName  string
	waiting   time.Duration
	done      bool
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// NewTUIModel creates a new bubbletea model for the progress TUI.
func NewTUIModel(total int) model {
	return model{
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(50),
			progress.WithoutPercentage(),
		),
		total: total,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 10
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
	case ProgressMsg:
		m.completed = msg.Completed
		m.total = msg.Total
		m.repoName = msg.RepoName
		m.waiting = 0
		pct := float64(m.completed) / float64(m.total)
		return m, m.progress.SetPercent(pct)
	case WaitMsg:
		m.waiting = msg.Wait
		return m, nil
	case DoneMsg:
		m.done = true
		return m, tea.Quit
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		return fmt.Sprintf("\n  %s\n\n",
			titleStyle.Render(fmt.Sprintf("Done! Analyzed %d repositories.", m.total)))
	}

	pad := strings.Repeat(" ", 2)
	counter := infoStyle.Render(fmt.Sprintf("%d/%d", m.completed, m.total))
	desc := m.repoName
	if desc == "" {
		desc = "Starting..."
	}

	status := infoStyle.Render(desc)
	if m.waiting > 0 {
		status = warnStyle.Render(fmt.Sprintf("Rate limit low, waiting %s for reset...",
			m.waiting.Round(time.Second)))
	}

	return "\n" +
		pad + titleStyle.Render("Analyzing repositories") + "\n" +
		pad + m.progress.View() + "  " + counter + "\n" +
		pad + status + "\n\n"
}

// RunTUI creates and returns a bubbletea program for the progress TUI.
// The program outputs to stderr so JSON output on stdout stays clean.
func RunTUI(total int) *tea.Program {
	m := NewTUIModel(total)
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	return p
}
