package shared

type Event int

const (
	Quit Event = iota
	Clock
	Reset
	ConfigChange
	Cycle
	StateSave
	StateLoad
	StatusNotify
	Error
)

type Message struct {
	Type   Event
	String string
	Config *Config
	Status *Status
}

// Config is the parameter snapshot the host hands to the engine.
type Config struct {
	Root       int    `yaml:"root" json:"root"`
	Scale      string `yaml:"scale" json:"scale"`
	Matrix     string `yaml:"matrix" json:"matrix"`
	Division   int    `yaml:"division" json:"division"`
	Transition string `yaml:"transition" json:"transition"`
	Inversion  string `yaml:"inversion" json:"inversion"`
}

func DefaultConfig() Config {
	return Config{
		Root:       0,
		Scale:      "Major",
		Matrix:     "Classical",
		Division:   1,
		Transition: "V7",
		Inversion:  "Root",
	}
}

// Status is what a display shows. Nothing here is read back by the engine.
type Status struct {
	Instance     string     `json:"instance,omitempty"`
	Key          string     `json:"key"`
	Scale        string     `json:"scale"`
	PendingKey   string     `json:"pending_key,omitempty"`
	PendingScale string     `json:"pending_scale,omitempty"`
	Chord        string     `json:"chord"`
	Degree       int        `json:"degree"`
	Transition   bool       `json:"transition"`
	Notes        []string   `json:"notes"`
	Volts        [4]float64 `json:"volts"`
	Division     int        `json:"division"`
}

var VoiceNames = [4]string{"basse", "ténor", "alto", "soprane"}
