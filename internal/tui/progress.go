// internal/tui/progress.go
// Package tui renders a live progress view while a benchmark runs.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/faceoff/internal/benchmark"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	serviceStyle = lipgloss.NewStyle().Width(22)
	phaseStyle   = lipgloss.NewStyle().Faint(true).Width(9)
)

// progressMsg wraps a benchmark progress event for the bubbletea loop.
type progressMsg benchmark.Progress

// doneMsg signals that the benchmark finished.
type doneMsg struct{}

type serviceState struct {
	phase     string
	completed int
	total     int
	bar       progress.Model
}

type model struct {
	title    string
	spinner  spinner.Model
	events   <-chan benchmark.Progress
	services map[string]*serviceState
	order    []string
	done     bool
}

func newModel(title string, events <-chan benchmark.Progress) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &model{
		title:    title,
		spinner:  s,
		events:   events,
		services: make(map[string]*serviceState),
	}
}

func waitForEvent(events <-chan benchmark.Progress) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return progressMsg(event)
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case progressMsg:
		state, ok := m.services[msg.ServiceID]
		if !ok {
			bar := progress.New(progress.WithDefaultGradient())
			bar.Width = 30
			state = &serviceState{bar: bar}
			m.services[msg.ServiceID] = state
			m.order = append(m.order, msg.ServiceID)
			sort.Strings(m.order)
		}
		state.phase = msg.Phase
		state.completed = msg.Completed
		state.total = msg.Total
		return m, waitForEvent(m.events)

	case doneMsg:
		m.done = true
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n  %s %s\n\n", m.spinner.View(), titleStyle.Render(m.title)))
	for _, name := range m.order {
		state := m.services[name]
		ratio := 0.0
		if state.total > 0 {
			ratio = float64(state.completed) / float64(state.total)
		}
		b.WriteString(fmt.Sprintf("  %s%s%s %d/%d\n",
			serviceStyle.Render(name),
			phaseStyle.Render(state.phase),
			state.bar.ViewAs(ratio),
			state.completed, state.total))
	}
	if m.done {
		b.WriteString("\n  done\n")
	}
	return b.String()
}

// Run displays the progress view until the event channel closes. The caller
// feeds benchmark progress into events from its own goroutine and closes the
// channel when the run is over.
func Run(title string, events <-chan benchmark.Progress) error {
	_, err := tea.NewProgram(newModel(title, events)).Run()
	return err
}
