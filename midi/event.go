package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// DefaultVelocity is used for every drum hit
const DefaultVelocity uint8 = 100

// Event represents a MIDI note event sent by a drum voice
type Event struct {
	Type     uint8 // NoteOn, NoteOff
	Channel  uint8 // 1-16
	Note     uint8
	Velocity uint8
}

// Message converts the event to a wire message
func (e Event) Message() gomidi.Message {
	ch := e.Channel - 1
	if e.Type == NoteOff {
		return gomidi.NoteOff(ch, e.Note)
	}
	return gomidi.NoteOn(ch, e.Note, e.Velocity)
}
