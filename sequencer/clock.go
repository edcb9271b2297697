package sequencer

import (
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"go-drum/debug"
)

// Clock is the timing core. Run drives one tick per step interval, reading the
// pattern, triggering sounds and publishing the step to the feed.
//
// Fire times are anchored: each target is the previous target plus the step
// interval, so a late tick does not push the rest of the sequence back. If the
// next target is already in the past the anchor resets to now and the next
// tick fires at once; missed ticks are never replayed.
type Clock struct {
	pattern *Pattern
	tempo   *Tempo
	sounds  Trigger
	feed    *StepFeed
	time    clockwork.Clock

	step atomic.Int32
}

// NewClock creates a clock. A nil time source means the wall clock.
func NewClock(pattern *Pattern, tempo *Tempo, sounds Trigger, feed *StepFeed, tc clockwork.Clock) *Clock {
	if tc == nil {
		tc = clockwork.NewRealClock()
	}
	c := &Clock{
		pattern: pattern,
		tempo:   tempo,
		sounds:  sounds,
		feed:    feed,
		time:    tc,
	}
	c.step.Store(NoStep)
	return c
}

// Step returns the step currently sounding, or NoStep
func (c *Clock) Step() int {
	return int(c.step.Load())
}

// Run ticks from step 0 until stop is closed. The first tick fires
// immediately. Run returns within one step interval of stop closing and
// never ticks after it has seen stop closed.
func (c *Clock) Run(stop <-chan struct{}) {
	steps := c.pattern.Steps()
	step := 0
	target := c.time.Now()

	for {
		select {
		case <-stop:
			return
		default:
		}

		c.tick(step)
		step = (step + 1) % steps

		now := c.time.Now()
		target = nextTarget(target, c.tempo.Interval(), now)
		wait := target.Sub(now)
		if wait <= 0 {
			continue
		}

		timer := c.time.NewTimer(wait)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.Chan():
		}
	}
}

// tick plays one step and announces it
func (c *Clock) tick(step int) {
	c.step.Store(int32(step))
	for _, inst := range c.pattern.Hits(step) {
		c.sounds.Trigger(inst)
	}
	c.feed.Publish(step)
}

// nextTarget advances the anchor by one interval, re-anchoring to now when
// the schedule has fallen more than an interval behind.
func nextTarget(prev time.Time, interval time.Duration, now time.Time) time.Time {
	next := prev.Add(interval)
	if next.Before(now) {
		debug.LogEvery(16, "clock", "behind by %v, re-anchoring", now.Sub(next))
		return now
	}
	return next
}

// reset marks the clock idle
func (c *Clock) reset() {
	c.step.Store(NoStep)
}
