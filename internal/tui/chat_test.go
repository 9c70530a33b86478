package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func echoHandler(_ context.Context, text string) (string, error) {
	return "echo: " + text, nil
}

func sized(m chatModel) chatModel {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(chatModel)
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func TestChat_SendRunsHandler(t *testing.T) {
	m := sized(newChatModel(echoHandler, "default", nil))
	m.input.SetValue("hello")

	next, cmd := m.Update(key(tea.KeyEnter))
	m = next.(chatModel)
	if !m.waiting {
		t.Fatal("model should wait for the reply")
	}
	if m.input.Value() != "" {
		t.Errorf("input = %q, want cleared", m.input.Value())
	}
	if cmd == nil {
		t.Fatal("expected a reply command")
	}

	reply := m.replyCmd("hello")()
	next, _ = m.Update(reply)
	m = next.(chatModel)
	if m.waiting {
		t.Error("model still waiting after reply")
	}
	if len(m.transcript) != 2 || m.transcript[1].text != "echo: hello" {
		t.Errorf("transcript = %+v", m.transcript)
	}
}

func TestChat_BlankInputIgnored(t *testing.T) {
	m := sized(newChatModel(echoHandler, "default", nil))
	m.input.SetValue("   ")

	next, cmd := m.Update(key(tea.KeyEnter))
	m = next.(chatModel)
	if m.waiting || cmd != nil || len(m.transcript) != 0 {
		t.Errorf("blank input should be ignored: waiting=%v transcript=%d", m.waiting, len(m.transcript))
	}
}

func TestChat_ErrorKeepsReply(t *testing.T) {
	m := sized(newChatModel(echoHandler, "default", nil))
	next, _ := m.Update(replyMsg{reply: "answer", err: errors.New("save failed")})
	m = next.(chatModel)

	if len(m.transcript) != 2 {
		t.Fatalf("transcript = %+v", m.transcript)
	}
	if m.transcript[0].who != speakerError || m.transcript[1].who != speakerBot {
		t.Errorf("transcript order = %+v", m.transcript)
	}
}

func TestChat_PickerFillsInput(t *testing.T) {
	m := sized(newChatModel(echoHandler, "default", []string{"first", "second"}))

	next, _ := m.Update(key(tea.KeyTab))
	m = next.(chatModel)
	if m.view != viewPicker {
		t.Fatal("tab should open the picker")
	}

	next, _ = m.Update(key(tea.KeyDown))
	m = next.(chatModel)
	next, _ = m.Update(key(tea.KeyEnter))
	m = next.(chatModel)

	if m.view != viewChat {
		t.Error("enter should return to chat")
	}
	if m.input.Value() != "second" {
		t.Errorf("input = %q, want second", m.input.Value())
	}
}

func TestChat_PickerCancel(t *testing.T) {
	m := sized(newChatModel(echoHandler, "default", []string{"first"}))
	next, _ := m.Update(key(tea.KeyTab))
	m = next.(chatModel)
	next, _ = m.Update(key(tea.KeyEsc))
	m = next.(chatModel)

	if m.view != viewChat || m.input.Value() != "" {
		t.Errorf("view = %v input = %q", m.view, m.input.Value())
	}
}

func TestRenderTranscript(t *testing.T) {
	out := renderTranscript([]line{
		{who: speakerUser, text: "hi"},
		{who: speakerBot, text: "hello there"},
	}, 60)
	for _, want := range []string{"You", "hi", "Assistant", "hello there"} {
		if !strings.Contains(out, want) {
			t.Errorf("transcript missing %q:\n%s", want, out)
		}
	}
}
