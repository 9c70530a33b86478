package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ErrCancelled is returned by RunSpinner when the user presses ctrl+c.
var ErrCancelled = errors.New("cancelled")

type spinnerTickMsg struct{}

type workDoneMsg struct {
	result string
	err    error
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

type spinnerModel struct {
	label  string
	work   func(ctx context.Context) (string, error)
	frame  int
	result string
	err    error
	done   bool
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.run(), tick())
}

func (m spinnerModel) run() tea.Cmd {
	work := m.work
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()
		result, err := work(ctx)
		return workDoneMsg{result: result, err: err}
	}
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = ErrCancelled
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s %s...\n", spinner, m.label)
}

// RunSpinner shows a spinner labelled label while work runs. It renders
// inline (no alt screen).
func RunSpinner(label string, work func(ctx context.Context) (string, error)) (string, error) {
	p := tea.NewProgram(spinnerModel{label: label, work: work})
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	final := result.(spinnerModel)
	return final.result, final.err
}
