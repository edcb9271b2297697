package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"go-drum/sequencer"
	"go-drum/theme"
)

// Grid layout, in terminal cells
const (
	headerLines = 5 // blank, header, blank, slider, blank
	labelWidth  = 8
	cellWidth   = 3
)

// tempo keys step by these amounts
const (
	tempoStep     = 1
	tempoStepBig  = 10
	sliderColumns = 28
)

type Model struct {
	Transport *sequencer.Transport
	Pattern   *sequencer.Pattern
	Sounds    *sequencer.SoundBank
	Theme     *theme.Theme

	row, col int // edit cursor
	step     int // playhead as last drained from the step feed
	quitting bool
}

// StepMsg carries the steps drained from the feed, oldest first
type StepMsg []int

func NewModel(transport *sequencer.Transport, pattern *sequencer.Pattern, sounds *sequencer.SoundBank, th *theme.Theme) Model {
	return Model{
		Transport: transport,
		Pattern:   pattern,
		Sounds:    sounds,
		Theme:     th,
		step:      sequencer.NoStep,
	}
}

// ListenForSteps waits for the clock to publish and hands the steps to the
// bubbletea loop, so the view is only touched on the UI goroutine.
func ListenForSteps(feed *sequencer.StepFeed) tea.Cmd {
	return func() tea.Msg {
		<-feed.Ready()
		return StepMsg(feed.Drain())
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForSteps(m.Transport.Feed())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	instruments := m.Pattern.Instruments()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Transport.Close()
			return m, tea.Quit

		case "p":
			m.Transport.Toggle()

		case "c":
			m.Pattern.ClearAll()

		case "+", "=":
			m.Transport.SetTempo(m.Transport.Tempo() + tempoStep)

		case "-", "_":
			m.Transport.SetTempo(m.Transport.Tempo() - tempoStep)

		case "]":
			m.Transport.SetTempo(m.Transport.Tempo() + tempoStepBig)

		case "[":
			m.Transport.SetTempo(m.Transport.Tempo() - tempoStepBig)

		case "h", "left":
			if m.col > 0 {
				m.col--
			}

		case "l", "right":
			if m.col < m.Pattern.Steps()-1 {
				m.col++
			}

		case "k", "up":
			if m.row > 0 {
				m.row--
			}

		case "j", "down":
			if m.row < len(instruments)-1 {
				m.row++
			}

		case " ", "enter":
			m.Pattern.Toggle(instruments[m.row], m.col)
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if row, col, ok := m.hitTest(msg.X, msg.Y); ok {
				m.row, m.col = row, col
				m.Pattern.Toggle(instruments[row], col)
			}
		}

	case StepMsg:
		if len(msg) > 0 {
			m.step = msg[len(msg)-1]
		}
		return m, ListenForSteps(m.Transport.Feed())
	}

	return m, nil
}

// hitTest maps a mouse position to a grid cell
func (m Model) hitTest(x, y int) (row, col int, ok bool) {
	row = y - headerLines
	if row < 0 || row >= len(m.Pattern.Instruments()) {
		return 0, 0, false
	}
	if x < labelWidth {
		return 0, 0, false
	}
	col = (x - labelWidth) / cellWidth
	if col >= m.Pattern.Steps() {
		return 0, 0, false
	}
	return row, col, true
}

// Step returns the playhead the view is showing
func (m Model) Step() int {
	return m.step
}

// Cursor returns the edit cursor position
func (m Model) Cursor() (row, col int) {
	return m.row, m.col
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	th := m.Theme
	headerStyle := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(th.Muted())
	// rows must stay one line tall for hitTest
	labelStyle := lipgloss.NewStyle().Foreground(th.FG()).Width(labelWidth).Inline(true)
	silentStyle := labelStyle.Foreground(th.Muted()).Strikethrough(true)

	state := m.Transport.State()
	bpm := m.Transport.Tempo()

	stepLabel := "--"
	if m.step != sequencer.NoStep {
		stepLabel = fmt.Sprintf("%02d", m.step+1)
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(fmt.Sprintf("go-drum  %s  Tempo: %d BPM  step:%s", state, bpm, stepLabel)))
	out.WriteString("\n\n")
	out.WriteString(m.slider(bpm))
	out.WriteString("\n\n")

	grid := m.Pattern.Snapshot()
	for r, inst := range grid.Instruments {
		label := labelStyle
		if m.Sounds != nil && !m.Sounds.Has(inst) {
			label = silentStyle
		}
		out.WriteString(label.Render(rowLabel(inst)))
		for c, on := range grid.Rows[r] {
			out.WriteString(m.cell(on, c == m.step, r == m.row && c == m.col))
		}
		out.WriteString("\n")
	}

	out.WriteString("\n")
	help := "hjkl:move  space:toggle  p:play/stop  +/-:tempo  [/]:tempo x10  q:quit"
	if m.Pattern.HasContent() {
		help = "hjkl:move  space:toggle  p:play/stop  c:clear all  +/-:tempo  [/]:tempo x10  q:quit"
	}
	out.WriteString(dimStyle.Render(help))
	return out.String()
}

// rowLabel is the instrument name cut to fit the label column with a gap
func rowLabel(inst sequencer.Instrument) string {
	return ansi.Truncate(strings.ToUpper(string(inst)), labelWidth-1, "")
}

// cell renders one step: set or not, under the playhead or not, with the
// cursor drawn as brackets.
func (m Model) cell(on, playhead, cursor bool) string {
	th := m.Theme
	var sym rune
	var color lipgloss.Color
	switch {
	case playhead && on:
		sym, color = th.Symbols.StepHit, th.Playhead()
	case playhead:
		sym, color = th.Symbols.StepPlayhead, th.IdlePlayhead()
	case on:
		sym, color = th.Symbols.StepActive, th.Active()
	default:
		sym, color = th.Symbols.StepEmpty, th.Idle()
	}

	s := lipgloss.NewStyle().Foreground(color).Render(string(sym))
	if cursor {
		return "[" + s + "]"
	}
	return " " + s + " "
}

// slider draws the tempo within its bounds
func (m Model) slider(bpm int) string {
	min, max := m.Transport.Bounds()
	pos := 0
	if max > min {
		pos = (bpm - min) * (sliderColumns - 1) / (max - min)
	}

	var bar strings.Builder
	for i := 0; i < sliderColumns; i++ {
		switch {
		case i == pos:
			bar.WriteRune(m.Theme.Symbols.SliderKnob)
		case i < pos:
			bar.WriteRune(m.Theme.Symbols.SliderFill)
		default:
			bar.WriteRune(m.Theme.Symbols.SliderEmpty)
		}
	}

	dim := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fill := lipgloss.NewStyle().Foreground(m.Theme.Active())
	return fmt.Sprintf("%s %s %s", dim.Render(fmt.Sprint(min)), fill.Render(bar.String()), dim.Render(fmt.Sprint(max)))
}
