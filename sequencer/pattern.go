package sequencer

import (
	"fmt"
	"sync"
)

// DefaultSteps is the number of steps in a pattern unless configured otherwise
const DefaultSteps = 16

// Instrument names a row in the pattern grid
type Instrument string

// Grid is a copy of the pattern, one row per instrument in configured order
type Grid struct {
	Instruments []Instrument
	Rows        [][]bool
}

// Row returns the row for an instrument, or nil if it is not in the grid
func (g Grid) Row(inst Instrument) []bool {
	for i, name := range g.Instruments {
		if name == inst {
			return g.Rows[i]
		}
	}
	return nil
}

// Pattern is the step grid shared by the editor and the clock.
//
// The instrument set and step count are fixed at construction. Unknown
// instruments and out-of-range columns are caller bugs and panic.
type Pattern struct {
	mu          sync.RWMutex
	instruments []Instrument
	index       map[Instrument]int
	steps       int
	cells       [][]bool
}

// NewPattern creates an empty pattern for the given instruments
func NewPattern(instruments []Instrument, steps int) *Pattern {
	if steps <= 0 {
		panic(fmt.Sprintf("sequencer: invalid step count %d", steps))
	}
	p := &Pattern{
		instruments: append([]Instrument(nil), instruments...),
		index:       make(map[Instrument]int, len(instruments)),
		steps:       steps,
		cells:       make([][]bool, len(instruments)),
	}
	for i, inst := range p.instruments {
		if _, dup := p.index[inst]; dup {
			panic(fmt.Sprintf("sequencer: duplicate instrument %q", inst))
		}
		p.index[inst] = i
		p.cells[i] = make([]bool, steps)
	}
	return p
}

// Instruments returns the instrument set in row order
func (p *Pattern) Instruments() []Instrument {
	return append([]Instrument(nil), p.instruments...)
}

// Steps returns the number of columns
func (p *Pattern) Steps() int {
	return p.steps
}

// row resolves an instrument and column, panicking on contract violations.
func (p *Pattern) row(inst Instrument, col int) int {
	r, ok := p.index[inst]
	if !ok {
		panic(fmt.Sprintf("sequencer: unknown instrument %q", inst))
	}
	if col < 0 || col >= p.steps {
		panic(fmt.Sprintf("sequencer: column %d out of range [0,%d)", col, p.steps))
	}
	return r
}

// Toggle flips a cell and returns its new value
func (p *Pattern) Toggle(inst Instrument, col int) bool {
	r := p.row(inst, col)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cells[r][col] = !p.cells[r][col]
	return p.cells[r][col]
}

// Set writes a cell
func (p *Pattern) Set(inst Instrument, col int, on bool) {
	r := p.row(inst, col)
	p.mu.Lock()
	p.cells[r][col] = on
	p.mu.Unlock()
}

// IsSet reads a cell
func (p *Pattern) IsSet(inst Instrument, col int) bool {
	r := p.row(inst, col)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cells[r][col]
}

// ClearAll zeroes every cell
func (p *Pattern) ClearAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, row := range p.cells {
		for c := range row {
			row[c] = false
		}
	}
}

// Hits returns the instruments whose cell at col is set, in row order.
// Called by the clock once per tick.
func (p *Pattern) Hits(col int) []Instrument {
	if col < 0 || col >= p.steps {
		panic(fmt.Sprintf("sequencer: column %d out of range [0,%d)", col, p.steps))
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	var hits []Instrument
	for r, row := range p.cells {
		if row[col] {
			hits = append(hits, p.instruments[r])
		}
	}
	return hits
}

// Snapshot copies the whole grid
func (p *Pattern) Snapshot() Grid {
	p.mu.RLock()
	defer p.mu.RUnlock()
	g := Grid{
		Instruments: append([]Instrument(nil), p.instruments...),
		Rows:        make([][]bool, len(p.cells)),
	}
	for r, row := range p.cells {
		g.Rows[r] = append([]bool(nil), row...)
	}
	return g
}

// HasContent returns true if any cell is set
func (p *Pattern) HasContent() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, row := range p.cells {
		for _, on := range row {
			if on {
				return true
			}
		}
	}
	return false
}
