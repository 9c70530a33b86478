package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// DefaultSuggestions are the canned messages offered by the chat picker.
var DefaultSuggestions = []string{
	"Find jobs suitable for me",
	"Based on my resume, how can I improve it?",
	"Based on my resume, what interview questions should I expect?",
	"Help me write a STAR story",
	"python developer jobs",
	"Give me interview questions for a backend role",
}

// pickerModel is a list selector embedded in the chat window.
type pickerModel struct {
	items     []string
	cursor    int
	cancelled bool
}

func newPickerModel(items []string) pickerModel {
	return pickerModel{items: items}
}

// update handles a key and reports whether the current item was chosen.
func (m pickerModel) update(msg tea.KeyMsg) (pickerModel, bool) {
	switch msg.String() {
	case "esc", "q", "tab":
		m.cancelled = true
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		return m, len(m.items) > 0
	}
	return m, false
}

func (m pickerModel) view() string {
	var b strings.Builder
	b.WriteString(pickerTitleStyle.Render("Suggestions"))
	b.WriteByte('\n')

	for i, item := range m.items {
		if i == m.cursor {
			b.WriteString(pickerSelectedStyle.Render("> " + item))
		} else {
			b.WriteString(pickerItemStyle.Render(item))
		}
		b.WriteByte('\n')
	}

	b.WriteString(pickerHintStyle.Render("↑/↓/j/k navigate  enter use  esc back"))
	return b.String()
}
