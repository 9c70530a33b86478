// Package tui provides the terminal chat window and inline spinners.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// replyTimeout bounds one model round trip from the chat window.
const replyTimeout = 2 * time.Minute

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")) // bright blue

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	userLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	botLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Handler answers one chat message.
type Handler func(ctx context.Context, text string) (string, error)

type speaker int

const (
	speakerUser speaker = iota
	speakerBot
	speakerError
)

type line struct {
	who  speaker
	text string
}

// replyMsg is sent when an async reply completes.
type replyMsg struct {
	reply string
	err   error
}

type viewState int

const (
	viewChat viewState = iota
	viewPicker
)

type chatModel struct {
	handler Handler
	user    string

	transcript []line
	viewport   viewport.Model
	input      textinput.Model
	picker     pickerModel
	view       viewState

	waiting bool
	frame   int
	width   int
	height  int
	ready   bool
}

func newChatModel(handler Handler, user string, suggestions []string) chatModel {
	in := textinput.New()
	in.Placeholder = "Ask about jobs, your resume or interviews..."
	in.Prompt = "› "
	in.CharLimit = 2000
	in.Focus()

	return chatModel{
		handler: handler,
		user:    user,
		input:   in,
		picker:  newPickerModel(suggestions),
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.transcript = append(m.transcript, line{who: speakerError, text: msg.err.Error()})
		}
		if msg.reply != "" {
			m.transcript = append(m.transcript, line{who: speakerBot, text: msg.reply})
		}
		m.refresh()
		return m, nil

	case spinnerTickMsg:
		if !m.waiting {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()

	case tea.KeyMsg:
		if m.view == viewPicker {
			return m.updatePicker(msg)
		}
		return m.updateChat(msg)
	}

	return m, nil
}

func (m chatModel) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		if len(m.picker.items) > 0 && !m.waiting {
			m.view = viewPicker
		}
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case "enter":
		return m.send()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var chosen bool
	m.picker, chosen = m.picker.update(msg)
	switch {
	case chosen:
		m.input.SetValue(m.picker.items[m.picker.cursor])
		m.input.CursorEnd()
		m.view = viewChat
	case m.picker.cancelled:
		m.picker.cancelled = false
		m.view = viewChat
	}
	return m, nil
}

func (m chatModel) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.waiting {
		return m, nil
	}
	m.input.Reset()
	m.transcript = append(m.transcript, line{who: speakerUser, text: text})
	m.waiting = true
	m.refresh()
	return m, tea.Batch(m.replyCmd(text), tick())
}

func (m chatModel) replyCmd(text string) tea.Cmd {
	handler := m.handler
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), replyTimeout)
		defer cancel()
		reply, err := handler(ctx, text)
		return replyMsg{reply: reply, err: err}
	}
}

func (m *chatModel) recalcLayout() {
	// Title (1) + border (2) + input (1) + status bar (1).
	width := max(m.width-2, 20)
	height := max(m.height-5, 3)

	if !m.ready {
		m.viewport = viewport.New(width, height)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = height
	}
	m.input.Width = max(m.width-4, 10)
	m.refresh()
}

func (m *chatModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(renderTranscript(m.transcript, m.viewport.Width-2))
	m.viewport.GotoBottom()
}

func (m chatModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewPicker {
		return m.picker.view()
	}

	title := titleStyle.Render("Career Assistant · " + m.user)
	if m.waiting {
		title += " " + lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame]) + " thinking..."
	}
	content := borderStyle.Width(m.viewport.Width).Render(m.viewport.View())
	status := statusBarStyle.Width(m.width).Render(" enter send  tab suggestions  pgup/pgdn scroll  esc quit")

	return title + "\n" + content + "\n" + m.input.View() + "\n" + status
}

func renderTranscript(lines []line, width int) string {
	if len(lines) == 0 {
		return bodyStyle.Render("  Say hi, ask for jobs, or type \"star\" to build an interview story.")
	}

	wrap := bodyStyle.Width(max(width, 10))
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch l.who {
		case speakerUser:
			b.WriteString(userLabelStyle.Render("You") + "\n")
			b.WriteString(wrap.Render(l.text))
		case speakerBot:
			b.WriteString(botLabelStyle.Render("Assistant") + "\n")
			b.WriteString(wrap.Render(l.text))
		case speakerError:
			b.WriteString(errorStyle.Render(fmt.Sprintf("⚠ %s", l.text)))
		}
	}
	return b.String()
}

// RunChat opens the full-screen chat window and blocks until the user quits.
// suggestions are offered in a picker on tab.
func RunChat(handler Handler, user string, suggestions []string) error {
	p := tea.NewProgram(newChatModel(handler, user, suggestions), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
