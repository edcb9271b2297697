package sequencer

import (
	"go-drum/debug"
)

// Sound is a playable resource. Play must not block for the length of the sound.
type Sound interface {
	Play() error
}

// Loader resolves an instrument to its sound. A nil Sound with a nil error
// means the instrument has no source and stays silent.
type Loader interface {
	Load(inst Instrument) (Sound, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(inst Instrument) (Sound, error)

// Load calls f(inst)
func (f LoaderFunc) Load(inst Instrument) (Sound, error) {
	return f(inst)
}

// Trigger plays the sound for an instrument
type Trigger interface {
	Trigger(inst Instrument)
}

// SoundBank maps instruments to sounds. It is filled once by NewSoundBank and
// only read afterwards, so it needs no locking.
type SoundBank struct {
	sounds map[Instrument]Sound
}

// NewSoundBank loads a sound for every instrument. Load failures are logged
// and leave that instrument silent for the session.
func NewSoundBank(instruments []Instrument, loader Loader) *SoundBank {
	b := &SoundBank{sounds: make(map[Instrument]Sound, len(instruments))}
	for _, inst := range instruments {
		snd, err := loader.Load(inst)
		if err != nil {
			debug.Log("sound", "%s will be silent: %v", inst, err)
			continue
		}
		if snd == nil {
			debug.Log("sound", "%s has no sound, will be silent", inst)
			continue
		}
		b.sounds[inst] = snd
	}
	return b
}

// Has reports whether an instrument has a loaded sound
func (b *SoundBank) Has(inst Instrument) bool {
	_, ok := b.sounds[inst]
	return ok
}

// Trigger plays an instrument's sound. Missing sounds are a no-op; playback
// errors and panics are logged and swallowed.
func (b *SoundBank) Trigger(inst Instrument) {
	snd, ok := b.sounds[inst]
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			debug.Log("sound", "trigger %s panicked: %v", inst, r)
		}
	}()
	if err := snd.Play(); err != nil {
		debug.LogEvery(16, "sound", "trigger %s failed: %v", inst, err)
	}
}
