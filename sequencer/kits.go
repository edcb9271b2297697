package sequencer

// DrumKit maps instrument names to MIDI notes for a drum machine
type DrumKit struct {
	Name  string
	Notes map[Instrument]uint8
}

// Default instrument set, in row order
var DefaultInstruments = []Instrument{"kick", "snare", "hihat", "clap"}

// Kits contains all available drum kit mappings
var Kits = map[string]DrumKit{
	"gm": {
		Name: "General MIDI",
		Notes: map[Instrument]uint8{
			"kick":    36,
			"snare":   38,
			"hihat":   42,
			"openhat": 46,
			"lowtom":  41,
			"midtom":  43,
			"hightom": 45,
			"crash":   49,
			"ride":    51,
			"clap":    39,
			"rimshot": 37,
			"cowbell": 56,
			"clave":   75,
			"maracas": 70,
		},
	},
	"rd8": {
		Name: "Behringer RD-8",
		Notes: map[Instrument]uint8{
			"kick":    36,
			"snare":   40, // RD-8 uses 40, not 38
			"hihat":   42,
			"openhat": 46,
			"lowtom":  45,
			"midtom":  48,
			"hightom": 50,
			"crash":   49,
			"ride":    51,
			"clap":    39,
			"rimshot": 37,
			"cowbell": 56,
			"clave":   75,
			"maracas": 70,
		},
	},
	"tr8s": {
		Name: "Roland TR-8S",
		Notes: map[Instrument]uint8{
			"kick":    36,
			"snare":   38,
			"hihat":   42,
			"openhat": 46,
			"lowtom":  41,
			"midtom":  43,
			"hightom": 45,
			"crash":   49,
			"ride":    51,
			"clap":    39,
			"rimshot": 37,
			"cowbell": 56,
		},
	},
}

// KitNames returns the list of available kit names
func KitNames() []string {
	return []string{"gm", "rd8", "tr8s"}
}

// GetKit returns a kit by name, defaulting to GM if not found
func GetKit(name string) DrumKit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits[DefaultKit]
}

// Note returns the kit's note for an instrument
func (k DrumKit) Note(inst Instrument) (uint8, bool) {
	n, ok := k.Notes[inst]
	return n, ok
}

// DefaultKit is the default kit name
const DefaultKit = "gm"
