package sequencer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTempoClamps(t *testing.T) {
	tp := NewTempo(60, 200, 250)
	assert.Equal(t, 200, tp.BPM())
	assert.Equal(t, StepInterval(200), tp.Interval())

	assert.Equal(t, 60, tp.Set(1))
	assert.Equal(t, 140, tp.Set(140))
	min, max := tp.Bounds()
	assert.Equal(t, 60, min)
	assert.Equal(t, 200, max)
}

func TestTempoInvalidBoundsUseDefaults(t *testing.T) {
	tp := NewTempo(300, 100, 120)
	min, max := tp.Bounds()
	assert.Equal(t, DefaultMinBPM, min)
	assert.Equal(t, DefaultMaxBPM, max)
	assert.Equal(t, 120, tp.BPM())
}

func TestTempoIntervalMatchesBPM(t *testing.T) {
	tp := NewTempo(60, 200, 120)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tp.Set(60 + i%141)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s := tp.state.Load()
			assert.Equal(t, StepInterval(s.bpm), s.interval)
		}
	}()
	wg.Wait()
}
