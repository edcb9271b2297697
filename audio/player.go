package audio

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"go-drum/sequencer"
)

// Output defaults
const (
	SampleRate   = 44100
	ChannelCount = 2
	bufferSize   = 20 * time.Millisecond
	maxVoices    = 32
)

// Context wraps an oto context and keeps triggered players alive until
// they finish.
type Context struct {
	ctx        *oto.Context
	sampleRate int

	mu     sync.Mutex
	voices []*oto.Player
}

// NewContext opens the audio device and waits until it is ready
func NewContext(sampleRate int) (*Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx, sampleRate: sampleRate}, nil
}

// SampleRate returns the output sample rate
func (c *Context) SampleRate() int {
	return c.sampleRate
}

// play starts a new voice over pcm
func (c *Context) play(pcm []byte) error {
	if err := c.ctx.Err(); err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	p := c.ctx.NewPlayer(bytes.NewReader(pcm))
	p.Play()

	c.mu.Lock()
	defer c.mu.Unlock()
	live := c.voices[:0]
	for _, v := range c.voices {
		if v.IsPlaying() {
			live = append(live, v)
		} else {
			v.Close()
		}
	}
	if len(live) >= maxVoices {
		live[0].Close()
		live = live[1:]
	}
	c.voices = append(live, p)
	return nil
}

// Close stops all voices and suspends the device
func (c *Context) Close() error {
	c.mu.Lock()
	for _, v := range c.voices {
		v.Close()
	}
	c.voices = nil
	c.mu.Unlock()

	if err := c.ctx.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

// Sample is a decoded sound that implements sequencer.Sound
type Sample struct {
	ctx *Context
	pcm []byte
}

// NewSample loads a WAV file for playback on ctx
func NewSample(ctx *Context, path string) (*Sample, error) {
	pcm, err := DecodeFile(path, ctx.sampleRate)
	if err != nil {
		return nil, err
	}
	return &Sample{ctx: ctx, pcm: pcm}, nil
}

// Play starts the sample without waiting for it to finish
func (s *Sample) Play() error {
	return s.ctx.play(s.pcm)
}

// Duration returns the sample length
func (s *Sample) Duration() time.Duration {
	frames := len(s.pcm) / FrameSize
	return time.Duration(frames) * time.Second / time.Duration(s.ctx.sampleRate)
}

// Loader returns a sequencer.Loader that decodes each instrument's sample.
// path maps an instrument to its file, "" meaning no sample.
func Loader(ctx *Context, path func(sequencer.Instrument) string) sequencer.Loader {
	return sequencer.LoaderFunc(func(inst sequencer.Instrument) (sequencer.Sound, error) {
		p := path(inst)
		if p == "" {
			return nil, nil
		}
		s, err := NewSample(ctx, p)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
