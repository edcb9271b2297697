package theme

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	StepEmpty    rune // · inactive step
	StepActive   rune // ● has hit
	StepPlayhead rune // ▶ playhead over an empty step
	StepHit      rune // ◆ playhead over a hit

	SliderFill  rune
	SliderEmpty rune
	SliderKnob  rune
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			StepEmpty:    '·',
			StepActive:   '●',
			StepPlayhead: '▶',
			StepHit:      '◆',

			SliderFill:  '━',
			SliderEmpty: '─',
			SliderKnob:  '◉',
		},
	}
}

// Default returns the theme with the built-in palette
func Default() *Theme {
	return New(Plasma())
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG       = 0.0  // deep purple
	RoleMuted    = 0.2  // purple
	RoleFG       = 0.45 // pink
	RoleAccent   = 0.4  // magenta
	RoleActive   = 0.55 // rose, a set step
	RolePlayhead = 0.75 // orange, a set step under the playhead
	RoleSuccess  = 1.0  // yellow
)

// Empty step colors are neutral greys, as on the hardware the grid mimics
const (
	greyIdle     = "#808080"
	greyPlayhead = "#d3d3d3"
)

func (t *Theme) BG() lipgloss.Color {
	return t.role(RoleBG)
}

func (t *Theme) FG() lipgloss.Color {
	return t.role(RoleFG)
}

func (t *Theme) Accent() lipgloss.Color {
	return t.role(RoleAccent)
}

func (t *Theme) Muted() lipgloss.Color {
	return t.role(RoleMuted)
}

func (t *Theme) Active() lipgloss.Color {
	return t.role(RoleActive)
}

func (t *Theme) Playhead() lipgloss.Color {
	return t.role(RolePlayhead)
}

func (t *Theme) Success() lipgloss.Color {
	return t.role(RoleSuccess)
}

func (t *Theme) Idle() lipgloss.Color {
	return lipgloss.Color(greyIdle)
}

func (t *Theme) IdlePlayhead() lipgloss.Color {
	return lipgloss.Color(greyPlayhead)
}

func (t *Theme) role(pos float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.At(pos).Hex())
}
