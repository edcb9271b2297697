package sequencer

import "sync"

// NoStep is the step index published when nothing is playing
const NoStep = -1

// feedLimit bounds the queue if the reader falls behind; the oldest
// notifications are dropped first.
const feedLimit = 64

// StepFeed carries step-change notifications from the clock goroutine to the
// foreground. Publish never blocks. The reader waits on Ready and then Drains
// all pending steps in publish order.
type StepFeed struct {
	mu      sync.Mutex
	pending []int
	ready   chan struct{}
}

// NewStepFeed creates an empty feed
func NewStepFeed() *StepFeed {
	return &StepFeed{ready: make(chan struct{}, 1)}
}

// Publish queues a step and wakes the reader
func (f *StepFeed) Publish(step int) {
	f.mu.Lock()
	if len(f.pending) >= feedLimit {
		f.pending = append(f.pending[:0], f.pending[len(f.pending)-feedLimit+1:]...)
	}
	f.pending = append(f.pending, step)
	f.mu.Unlock()

	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled when steps are waiting to be drained
func (f *StepFeed) Ready() <-chan struct{} {
	return f.ready
}

// Drain returns and clears all pending steps, oldest first
func (f *StepFeed) Drain() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	steps := f.pending
	f.pending = nil
	return steps
}
