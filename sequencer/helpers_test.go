package sequencer

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type hit struct {
	inst Instrument
	at   time.Time
}

// recordingBank records every trigger with the time it happened
type recordingBank struct {
	clock clockwork.Clock
	hits  chan hit
}

func newRecordingBank(c clockwork.Clock) *recordingBank {
	return &recordingBank{clock: c, hits: make(chan hit, 8192)}
}

func (b *recordingBank) Trigger(inst Instrument) {
	b.hits <- hit{inst: inst, at: b.clock.Now()}
}

// next waits for the next trigger
func (b *recordingBank) next(t *testing.T) hit {
	t.Helper()
	select {
	case h := <-b.hits:
		return h
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a trigger")
		return hit{}
	}
}

// drain returns all triggers recorded so far
func (b *recordingBank) drain() []hit {
	var out []hit
	for {
		select {
		case h := <-b.hits:
			out = append(out, h)
		default:
			return out
		}
	}
}

type rig struct {
	fc        clockwork.FakeClock
	pattern   *Pattern
	tempo     *Tempo
	bank      *recordingBank
	feed      *StepFeed
	clock     *Clock
	transport *Transport
}

// newRig builds a transport on a fake clock with instruments kick and hihat
func newRig(bpm int) *rig {
	fc := clockwork.NewFakeClock()
	r := &rig{
		fc:      fc,
		pattern: NewPattern([]Instrument{"kick", "hihat"}, DefaultSteps),
		tempo:   NewTempo(DefaultMinBPM, DefaultMaxBPM, bpm),
		bank:    newRecordingBank(fc),
		feed:    NewStepFeed(),
	}
	r.clock = NewClock(r.pattern, r.tempo, r.bank, r.feed, fc)
	r.transport = NewTransport(r.clock)
	return r
}

// start starts the transport and waits until tick 0 is done
func (r *rig) start() time.Time {
	t0 := r.fc.Now()
	r.transport.Start()
	r.fc.BlockUntil(1)
	return t0
}

// advance moves fake time forward and waits until the clock is waiting again
func (r *rig) advance(d time.Duration) {
	r.fc.Advance(d)
	r.fc.BlockUntil(1)
}

func (r *rig) everyStep(inst Instrument) {
	for c := 0; c < r.pattern.Steps(); c++ {
		r.pattern.Set(inst, c, true)
	}
}
