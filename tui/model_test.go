package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-drum/sequencer"
	"go-drum/theme"
)

type nopSound struct{}

func (nopSound) Play() error { return nil }

func newTestModel(t *testing.T) Model {
	t.Helper()
	return newModelWith(t, sequencer.DefaultInstruments)
}

func newModelWith(t *testing.T, instruments []sequencer.Instrument) Model {
	t.Helper()
	pattern := sequencer.NewPattern(instruments, sequencer.DefaultSteps)
	bank := sequencer.NewSoundBank(instruments, sequencer.LoaderFunc(func(inst sequencer.Instrument) (sequencer.Sound, error) {
		if inst == "clap" {
			return nil, nil
		}
		return nopSound{}, nil
	}))
	tempo := sequencer.NewTempo(60, 200, 120)
	clock := sequencer.NewClock(pattern, tempo, bank, sequencer.NewStepFeed(), clockwork.NewFakeClock())
	transport := sequencer.NewTransport(clock)
	t.Cleanup(transport.Close)
	return NewModel(transport, pattern, bank, theme.Default())
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestCursorAndToggle(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("l"), key("l"), key("j"), key(" "))

	row, col := m.Cursor()
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)
	assert.True(t, m.Pattern.IsSet("snare", 2))

	m = send(m, key(" "))
	assert.False(t, m.Pattern.IsSet("snare", 2))
}

func TestCursorStaysInGrid(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("h"), key("k"), key("left"))
	row, col := m.Cursor()
	assert.Equal(t, 0, row)
	assert.Equal(t, 0, col)

	for i := 0; i < 40; i++ {
		m = send(m, key("l"), key("j"))
	}
	row, col = m.Cursor()
	assert.Equal(t, 3, row)
	assert.Equal(t, 15, col)
}

func TestPlayStop(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("p"))
	assert.True(t, m.Transport.Running())
	m = send(m, key("p"))
	assert.False(t, m.Transport.Running())
}

func TestTempoKeys(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("+"), key("+"), key("-"))
	assert.Equal(t, 121, m.Transport.Tempo())

	for i := 0; i < 20; i++ {
		m = send(m, key("]"))
	}
	assert.Equal(t, 200, m.Transport.Tempo())
}

func TestClearAll(t *testing.T) {
	m := newTestModel(t)
	m.Pattern.Set("kick", 0, true)
	m.Pattern.Set("clap", 15, true)
	m = send(m, key("c"))
	assert.False(t, m.Pattern.HasContent())
}

func TestMouseToggle(t *testing.T) {
	m := newTestModel(t)
	click := tea.MouseMsg{
		X:      labelWidth + 3*cellWidth + 1,
		Y:      headerLines + 1,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	}
	m = send(m, click)
	assert.True(t, m.Pattern.IsSet("snare", 3))

	outside := click
	outside.Y = 0
	m = send(m, outside)
	assert.True(t, m.Pattern.IsSet("snare", 3))
}

func TestStepMsg(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(StepMsg{3, 4, 5})
	m = next.(Model)
	assert.Equal(t, 5, m.Step())
	assert.NotNil(t, cmd, "keeps listening")

	m = send(m, StepMsg{})
	assert.Equal(t, 5, m.Step())
	m = send(m, StepMsg{sequencer.NoStep})
	assert.Equal(t, sequencer.NoStep, m.Step())
}

func TestListenForSteps(t *testing.T) {
	feed := sequencer.NewStepFeed()
	feed.Publish(0)
	feed.Publish(1)
	msg := ListenForSteps(feed)()
	assert.Equal(t, StepMsg{0, 1}, msg)
}

func TestView(t *testing.T) {
	m := newTestModel(t)
	v := m.View()
	assert.Contains(t, v, "STOP")
	assert.Contains(t, v, "Tempo: 120 BPM")
	assert.Contains(t, v, "step:--")
	for _, name := range []string{"KICK", "SNARE", "HIHAT", "CLAP"} {
		assert.Contains(t, v, name)
	}

	m = send(m, StepMsg{6})
	assert.Contains(t, m.View(), "step:07")

	next, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Empty(t, next.View())
}

func TestLongNamesKeepOneLinePerRow(t *testing.T) {
	m := newModelWith(t, []sequencer.Instrument{"tambourine", "snare"})
	lines := strings.Split(m.View(), "\n")
	require.Greater(t, len(lines), headerLines+1)
	assert.Contains(t, lines[headerLines], "TAMBOUR")
	assert.NotContains(t, lines[headerLines], "TAMBOURI")
	assert.Contains(t, lines[headerLines+1], "SNARE")

	click := tea.MouseMsg{
		X:      labelWidth + 1,
		Y:      headerLines,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	}
	m = send(m, click)
	assert.True(t, m.Pattern.IsSet("tambourine", 0))
	assert.False(t, m.Pattern.IsSet("snare", 0))
}

func TestClearHintOnlyWithContent(t *testing.T) {
	m := newTestModel(t)
	assert.NotContains(t, m.View(), "c:clear all")

	m = send(m, key(" "))
	assert.Contains(t, m.View(), "c:clear all")

	m = send(m, key("c"))
	assert.NotContains(t, m.View(), "c:clear all")
}
