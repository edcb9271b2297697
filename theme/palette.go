package theme

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

//go:embed palettes/plasma.gpl
var plasmaGPL []byte

// Palette is an ordered color ramp; roles pick a position along it
type Palette struct {
	Name   string
	Colors []colorful.Color
}

// Plasma returns the built-in palette
func Plasma() *Palette {
	p, err := ParseGPL(bytes.NewReader(plasmaGPL))
	if err != nil {
		panic(fmt.Sprintf("built-in palette: %v", err))
	}
	return p
}

// ParseGPL reads a GIMP palette. Each color line starts with R G B;
// anything after the third value is the color's name and is ignored.
func ParseGPL(r io.Reader) (*Palette, error) {
	p := &Palette{}
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case n == 1:
			if line != "GIMP Palette" {
				return nil, fmt.Errorf("not a GIMP palette")
			}
		case strings.HasPrefix(line, "Name:"):
			p.Name = strings.TrimSpace(line[len("Name:"):])
		case line == "", strings.HasPrefix(line, "#"), strings.HasPrefix(line, "Columns:"):
		default:
			var red, green, blue uint8
			if _, err := fmt.Sscan(line, &red, &green, &blue); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			p.Colors = append(p.Colors, colorful.Color{
				R: float64(red) / 255,
				G: float64(green) / 255,
				B: float64(blue) / 255,
			})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("palette %q has no colors", p.Name)
	}
	return p, nil
}

// At returns the color at pos along the ramp, 0 being the first color and
// 1 the last. Positions between two entries are blended.
func (p *Palette) At(pos float64) colorful.Color {
	last := len(p.Colors) - 1
	x := min(max(pos, 0), 1) * float64(last)
	i := int(x)
	if i >= last {
		return p.Colors[last]
	}
	return p.Colors[i].BlendRgb(p.Colors[i+1], x-float64(i))
}
