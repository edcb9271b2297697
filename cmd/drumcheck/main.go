package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-drum/audio"
	"go-drum/config"
	"go-drum/midi"
	"go-drum/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "ports":
		listPorts()
	case "samples":
		checkSamples(configArg())
	case "kits":
		listKits()
	case "play":
		playKit(configArg())
	case "poll":
		pollPorts()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("go-drum device checks")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  ports            - List MIDI output ports")
	fmt.Println("  samples [config] - Decode every configured sample")
	fmt.Println("  kits             - List drum kit note maps")
	fmt.Println("  play [config]    - Hit each instrument once on the configured MIDI output")
	fmt.Println("  poll             - Watch for MIDI port changes")
}

func configArg() *config.Config {
	var cfg *config.Config
	var err error
	if len(os.Args) > 2 {
		cfg, err = config.LoadFile(os.Args[2])
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	names, err := midi.ListOutPorts()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

func checkSamples(cfg *config.Config) {
	fmt.Printf("Decoding samples at %d Hz...\n", audio.SampleRate)
	for _, inst := range cfg.InstrumentNames() {
		path := cfg.SamplePath(inst)
		if path == "" {
			fmt.Printf("  %-8s no sample\n", inst)
			continue
		}
		pcm, err := audio.DecodeFile(path, audio.SampleRate)
		if err != nil {
			fmt.Printf("  %-8s SILENT: %v\n", inst, err)
			continue
		}
		frames := len(pcm) / audio.FrameSize
		fmt.Printf("  %-8s %s (%v)\n", inst, path, time.Duration(frames)*time.Second/audio.SampleRate)
	}
}

func listKits() {
	for _, name := range sequencer.KitNames() {
		kit := sequencer.GetKit(name)
		fmt.Printf("%s (%s)\n", name, kit.Name)
		for _, inst := range sequencer.DefaultInstruments {
			if n, ok := kit.Note(inst); ok {
				fmt.Printf("  %-8s %d\n", inst, n)
			}
		}
	}
}

func playKit(cfg *config.Config) {
	out, err := midi.OpenOutput(cfg.Output.PortName, cfg.Output.Channel)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer midi.CloseDriver()
	defer out.Close()

	kit := sequencer.GetKit(cfg.Output.Kit)
	for _, inst := range cfg.InstrumentNames() {
		note, ok := kit.Note(inst)
		if n, set := cfg.NoteFor(inst); set {
			note, ok = n, true
		}
		if !ok {
			fmt.Printf("  %-8s no note in kit %s\n", inst, kit.Name)
			continue
		}
		fmt.Printf("  %-8s note %d\n", inst, note)
		if err := out.Hit(note); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		time.Sleep(300 * time.Millisecond)
	}
	fmt.Println("Done!")
}

func pollPorts() {
	fmt.Println("Polling for MIDI port changes every 2 seconds... Ctrl+C to exit.")

	last := ""
	for {
		names, err := midi.ListOutPorts()
		if err != nil {
			fmt.Printf("\n[%s] %v\n", time.Now().Format("15:04:05"), err)
		} else if current := strings.Join(names, ","); current != last {
			fmt.Printf("\n[%s] Port change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Outputs: %v\n", names)
			last = current
		}
		time.Sleep(2 * time.Second)
	}
}
