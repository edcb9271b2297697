package sequencer

import (
	"sync/atomic"
	"time"
)

// Default tempo range and value in BPM
const (
	DefaultMinBPM = 60
	DefaultMaxBPM = 200
	DefaultBPM    = 120
)

// StepsPerBeat is the sixteenth-note subdivision of a quarter-note beat
const StepsPerBeat = 4

// StepInterval returns the duration of one step at the given tempo
func StepInterval(bpm int) time.Duration {
	return time.Duration(float64(time.Minute) / float64(bpm*StepsPerBeat))
}

// Tempo holds the current BPM and its derived step interval.
// Both are published together so a reader never sees a mismatched pair.
type Tempo struct {
	min, max int
	state    atomic.Pointer[tempoState]
}

type tempoState struct {
	bpm      int
	interval time.Duration
}

// NewTempo creates a tempo bounded to [min, max], starting at bpm (clamped)
func NewTempo(min, max, bpm int) *Tempo {
	if min <= 0 || max < min {
		min, max = DefaultMinBPM, DefaultMaxBPM
	}
	t := &Tempo{min: min, max: max}
	t.Set(bpm)
	return t
}

// Set clamps bpm to the bounds, stores it and returns the stored value
func (t *Tempo) Set(bpm int) int {
	if bpm < t.min {
		bpm = t.min
	}
	if bpm > t.max {
		bpm = t.max
	}
	t.state.Store(&tempoState{bpm: bpm, interval: StepInterval(bpm)})
	return bpm
}

// BPM returns the current tempo
func (t *Tempo) BPM() int {
	return t.state.Load().bpm
}

// Interval returns the current step interval
func (t *Tempo) Interval() time.Duration {
	return t.state.Load().interval
}

// Bounds returns the allowed tempo range
func (t *Tempo) Bounds() (min, max int) {
	return t.min, t.max
}
