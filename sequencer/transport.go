package sequencer

import (
	"sync"

	"go-drum/debug"
)

// State is the transport's play state
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "PLAY"
	}
	return "STOP"
}

// Transport starts and stops the clock. It owns the single clock goroutine;
// Start while running and Stop while stopped are no-ops.
type Transport struct {
	clock *Clock
	tempo *Tempo
	feed  *StepFeed

	mu       sync.Mutex
	state    State
	closed   bool
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewTransport wraps a clock
func NewTransport(clock *Clock) *Transport {
	return &Transport{
		clock: clock,
		tempo: clock.tempo,
		feed:  clock.feed,
	}
}

// Start begins playback from step 0
func (t *Transport) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.start()
}

func (t *Transport) start() {
	if t.state == Running || t.closed {
		return
	}
	t.state = Running
	t.stopChan = make(chan struct{})
	t.doneChan = make(chan struct{})

	debug.Log("transport", "start at %d bpm", t.tempo.BPM())
	go func(stop, done chan struct{}) {
		defer close(done)
		t.clock.Run(stop)
	}(t.stopChan, t.doneChan)
}

// Stop halts playback. When Stop returns the clock goroutine has exited,
// the step is NoStep and NoStep has been published to the feed.
func (t *Transport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop()
}

func (t *Transport) stop() {
	if t.state == Stopped {
		return
	}
	t.state = Stopped
	close(t.stopChan)
	<-t.doneChan
	t.stopChan, t.doneChan = nil, nil

	t.clock.reset()
	t.feed.Publish(NoStep)
	debug.Log("transport", "stop")
}

// Close stops playback for good. Later Start and Toggle calls do nothing.
func (t *Transport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop()
	t.closed = true
}

// Toggle starts if stopped and stops if running. It returns the new state.
func (t *Transport) Toggle() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Running {
		t.stop()
	} else {
		t.start()
	}
	return t.state
}

// State returns the current play state
func (t *Transport) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Running reports whether the clock is ticking
func (t *Transport) Running() bool {
	return t.State() == Running
}

// Step returns the step currently sounding, or NoStep when stopped
func (t *Transport) Step() int {
	return t.clock.Step()
}

// Tempo returns the current BPM
func (t *Transport) Tempo() int {
	return t.tempo.BPM()
}

// SetTempo clamps and sets the BPM. It takes effect from the next scheduled tick.
func (t *Transport) SetTempo(bpm int) int {
	return t.tempo.Set(bpm)
}

// Bounds returns the allowed tempo range
func (t *Transport) Bounds() (min, max int) {
	return t.tempo.Bounds()
}

// Feed returns the step notification feed
func (t *Transport) Feed() *StepFeed {
	return t.feed
}
