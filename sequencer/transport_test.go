package sequencer

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportInitialState(t *testing.T) {
	r := newRig(120)
	assert.Equal(t, Stopped, r.transport.State())
	assert.False(t, r.transport.Running())
	assert.Equal(t, NoStep, r.transport.Step())
	assert.Equal(t, 120, r.transport.Tempo())
}

func TestTransportDoubleStartIsNoop(t *testing.T) {
	r := newRig(120)
	r.everyStep("kick")
	r.transport.Start()
	r.transport.Start()
	r.fc.BlockUntil(1)

	assert.Len(t, r.bank.drain(), 1, "one tick 0, not two")
	for i := 0; i < 7; i++ {
		r.advance(r.tempo.Interval())
	}
	assert.Len(t, r.bank.drain(), 7)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, r.feed.Drain())
	r.transport.Stop()
}

func TestTransportStopResetsStep(t *testing.T) {
	r := newRig(120)
	r.start()
	r.advance(r.tempo.Interval())
	require.Equal(t, 1, r.transport.Step())

	r.transport.Stop()
	assert.Equal(t, Stopped, r.transport.State())
	assert.Equal(t, NoStep, r.transport.Step())
	assert.Equal(t, []int{0, 1, NoStep}, r.feed.Drain())

	// stop while stopped publishes nothing
	r.transport.Stop()
	assert.Empty(t, r.feed.Drain())
}

func TestTransportRestartFromStepZero(t *testing.T) {
	r := newRig(120)
	r.start()
	r.advance(r.tempo.Interval())
	r.advance(r.tempo.Interval())
	r.transport.Stop()
	r.feed.Drain()

	r.start()
	defer r.transport.Stop()
	assert.Equal(t, 0, r.transport.Step())
	assert.Equal(t, []int{0}, r.feed.Drain())
}

func TestTransportCloseStopsAndPreventsRestart(t *testing.T) {
	r := newRig(120)
	r.start()
	r.advance(r.tempo.Interval())

	r.transport.Close()
	assert.Equal(t, Stopped, r.transport.State())
	assert.Equal(t, NoStep, r.transport.Step())
	assert.Equal(t, []int{0, 1, NoStep}, r.feed.Drain())

	r.transport.Start()
	assert.Equal(t, Stopped, r.transport.Toggle())
	assert.False(t, r.transport.Running())
	r.transport.Close()
	r.transport.Stop()
	assert.Empty(t, r.feed.Drain())
}

func TestTransportToggle(t *testing.T) {
	r := newRig(120)
	assert.Equal(t, Running, r.transport.Toggle())
	r.fc.BlockUntil(1)
	assert.Equal(t, Stopped, r.transport.Toggle())
	assert.Equal(t, Running, r.transport.Toggle())
	r.fc.BlockUntil(1)
	assert.Equal(t, Stopped, r.transport.Toggle())
	assert.Equal(t, []int{0, NoStep, 0, NoStep}, r.feed.Drain())
}

func TestTransportSetTempoClamps(t *testing.T) {
	r := newRig(120)
	assert.Equal(t, 200, r.transport.SetTempo(500))
	assert.Equal(t, 60, r.transport.SetTempo(10))
	assert.Equal(t, 60, r.transport.Tempo())
}

func TestTransportNoTicksAfterStop(t *testing.T) {
	rc := clockwork.NewRealClock()
	pattern := NewPattern([]Instrument{"kick"}, DefaultSteps)
	for c := 0; c < DefaultSteps; c++ {
		pattern.Set("kick", c, true)
	}
	bank := newRecordingBank(rc)
	feed := NewStepFeed()
	tempo := NewTempo(60, 6000, 6000) // 2.5ms steps
	tr := NewTransport(NewClock(pattern, tempo, bank, feed, rc))

	for cycle := 0; cycle < 25; cycle++ {
		tr.Start()
		time.Sleep(time.Duration(cycle%5) * time.Millisecond)
		tr.Stop()

		stoppedAt := rc.Now()
		steps := feed.Drain()
		require.NotEmpty(t, steps)
		assert.Equal(t, NoStep, steps[len(steps)-1], "cycle %d", cycle)
		for _, h := range bank.drain() {
			assert.False(t, h.at.After(stoppedAt), "cycle %d: trigger after stop", cycle)
		}

		time.Sleep(3 * tempo.Interval())
		assert.Empty(t, bank.drain(), "cycle %d: trigger after stop", cycle)
		assert.Empty(t, feed.Drain(), "cycle %d: step after stop", cycle)
		assert.Equal(t, NoStep, tr.Step())
	}
}

func TestTransportConcurrentEdits(t *testing.T) {
	rc := clockwork.NewRealClock()
	instruments := []Instrument{"kick", "snare", "hihat", "clap"}
	pattern := NewPattern(instruments, DefaultSteps)
	bank := newRecordingBank(rc)
	feed := NewStepFeed()
	tempo := NewTempo(60, 6000, 6000)
	tr := NewTransport(NewClock(pattern, tempo, bank, feed, rc))

	tr.Start()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				inst := instruments[(w+i)%len(instruments)]
				pattern.Toggle(inst, i%DefaultSteps)
				if i%100 == 0 {
					pattern.Snapshot()
					tr.SetTempo(3000 + i)
				}
			}
		}(w)
	}
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-feed.Ready():
				feed.Drain()
				bank.drain()
			}
		}
	}()
	wg.Wait()
	tr.Stop()
	close(done)
	assert.False(t, tr.Running())
}
