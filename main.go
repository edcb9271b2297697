package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Southclaws/fault/fmsg"
	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-drum/audio"
	"go-drum/config"
	"go-drum/debug"
	"go-drum/midi"
	"go-drum/sequencer"
	"go-drum/theme"
	"go-drum/tui"
)

// Command line flags
var (
	configPath = flag.String("config", "", "config file (.json, .yaml); default ~/.config/go-drum/config.json")
	debugLog   = flag.Bool("debug", false, "write a debug log to ~/.config/go-drum/debug.log")
	initialBPM = flag.Int("bpm", 0, "starting tempo, overrides the config")
)

func main() {
	flag.Parse()

	if *debugLog {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, issue(err))
		os.Exit(1)
	}

	instruments := cfg.InstrumentNames()
	loader, closeOutput := openOutput(cfg)
	defer closeOutput()

	// Create sequencer state
	sounds := sequencer.NewSoundBank(instruments, loader)
	pattern := sequencer.NewPattern(instruments, cfg.Steps)
	bpm := cfg.Tempo.Default
	if *initialBPM != 0 {
		bpm = *initialBPM
	}
	tempo := sequencer.NewTempo(cfg.Tempo.Min, cfg.Tempo.Max, bpm)
	clock := sequencer.NewClock(pattern, tempo, sounds, sequencer.NewStepFeed(), nil)
	transport := sequencer.NewTransport(clock)
	defer transport.Close()

	for _, inst := range instruments {
		if !sounds.Has(inst) {
			fmt.Printf("Warning: %s will be silent.\n", inst)
		}
	}

	// Create and run TUI
	m := tui.NewModel(transport, pattern, sounds, theme.Default())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if *configPath != "" {
		return config.LoadFile(*configPath)
	}
	return config.Load()
}

// issue returns the user-facing part of an error when it has one
func issue(err error) string {
	if msg := fmsg.GetIssue(err); msg != "" {
		return msg
	}
	return err.Error()
}

// openOutput opens the configured backend. If the device cannot be opened
// every instrument is silent and the sequencer still runs.
func openOutput(cfg *config.Config) (sequencer.Loader, func()) {
	silent := sequencer.LoaderFunc(func(sequencer.Instrument) (sequencer.Sound, error) {
		return nil, nil
	})

	switch cfg.Output.Backend {
	case config.OutputMIDI:
		out, err := midi.OpenOutput(cfg.Output.PortName, cfg.Output.Channel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "MIDI output: %v\n", err)
			debug.Warn("midi", "open output: %v", err)
			return silent, func() {}
		}
		return midi.Loader(out, sequencer.GetKit(cfg.Output.Kit), cfg.NoteFor), func() {
			out.Close()
			midi.CloseDriver()
		}

	default:
		ctx, err := audio.NewContext(audio.SampleRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "audio output: %v\n", err)
			debug.Warn("audio", "open context: %v", err)
			return silent, func() {}
		}
		return audio.Loader(ctx, cfg.SamplePath), func() {
			if err := ctx.Close(); err != nil {
				debug.Warn("audio", "close: %v", err)
			}
		}
	}
}
