package midi

import (
	"fmt"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-drum/debug"
	"go-drum/sequencer"
)

// GateLength is how long a drum note is held before its NoteOff
const GateLength = 50 * time.Millisecond

// portTimeout bounds port enumeration (CoreMIDI can hang)
const portTimeout = 3 * time.Second

// Output sends drum notes on one channel of a MIDI port
type Output struct {
	send    func(gomidi.Message) error
	channel uint8
	gate    time.Duration

	mu     sync.Mutex
	closed bool
	timers map[*time.Timer]struct{}
}

// NewOutput wraps a send function. channel is 1-16.
func NewOutput(send func(gomidi.Message) error, channel uint8) *Output {
	return &Output{
		send:    send,
		channel: channel,
		gate:    GateLength,
		timers:  make(map[*time.Timer]struct{}),
	}
}

// OpenOutput opens the named output port, or the first port if name is ""
func OpenOutput(name string, channel uint8) (*Output, error) {
	outs, err := outPorts()
	if err != nil {
		return nil, err
	}
	if len(outs) == 0 {
		return nil, fmt.Errorf("no MIDI output ports")
	}

	port := outs[0]
	if name != "" {
		port = nil
		for _, out := range outs {
			if out.String() == name {
				port = out
				break
			}
		}
		if port == nil {
			return nil, fmt.Errorf("MIDI output port %q not found", name)
		}
	}

	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("failed to open port: %w", err)
	}
	debug.Log("midi", "opened %s channel %d", port.String(), channel)
	return NewOutput(send, channel), nil
}

// outPorts lists output ports with a timeout
func outPorts() ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()
	select {
	case outs := <-ch:
		return outs, nil
	case <-time.After(portTimeout):
		return nil, fmt.Errorf("timed out listing MIDI ports")
	}
}

// ListOutPorts returns the names of all MIDI output ports
func ListOutPorts() ([]string, error) {
	outs, err := outPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(outs))
	for i, out := range outs {
		names[i] = out.String()
	}
	return names, nil
}

// Hit sends a NoteOn now and the matching NoteOff after the gate length
func (o *Output) Hit(note uint8) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return fmt.Errorf("MIDI output closed")
	}
	o.mu.Unlock()

	on := Event{Type: NoteOn, Channel: o.channel, Note: note, Velocity: DefaultVelocity}
	if err := o.send(on.Message()); err != nil {
		return fmt.Errorf("send note on: %w", err)
	}

	off := Event{Type: NoteOff, Channel: o.channel, Note: note}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		// Close already silenced the channel
		return nil
	}
	var t *time.Timer
	t = time.AfterFunc(o.gate, func() {
		o.mu.Lock()
		delete(o.timers, t)
		o.mu.Unlock()
		o.send(off.Message())
	})
	o.timers[t] = struct{}{}
	return nil
}

// Close cancels pending gates and sends NoteOff for every note on the
// channel. The port itself is released by CloseDriver.
func (o *Output) Close() error {
	o.mu.Lock()
	o.closed = true
	pending := o.timers
	o.timers = make(map[*time.Timer]struct{})
	o.mu.Unlock()

	for t := range pending {
		t.Stop()
	}
	for n := 0; n < 128; n++ {
		o.send(Event{Type: NoteOff, Channel: o.channel, Note: uint8(n)}.Message())
	}
	return nil
}

// CloseDriver releases all MIDI ports
func CloseDriver() {
	gomidi.CloseDriver()
}

// Note is a drum voice on an Output. It implements sequencer.Sound.
type Note struct {
	out  *Output
	note uint8
}

// Play sends the note
func (n Note) Play() error {
	return n.out.Hit(n.note)
}

// Loader returns a sequencer.Loader that maps each instrument to a note:
// the override when there is one, otherwise the kit's note. Instruments with
// neither are silent.
func Loader(out *Output, kit sequencer.DrumKit, override func(sequencer.Instrument) (uint8, bool)) sequencer.Loader {
	return sequencer.LoaderFunc(func(inst sequencer.Instrument) (sequencer.Sound, error) {
		if n, ok := override(inst); ok {
			return Note{out: out, note: n}, nil
		}
		if n, ok := kit.Note(inst); ok {
			return Note{out: out, note: n}, nil
		}
		return nil, fmt.Errorf("no %s note for %s", kit.Name, inst)
	})
}
