package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	. "github.com/JeanRibes/progression/shared"
	"github.com/JeanRibes/progression/theory"

	"gopkg.in/yaml.v3"
)

const (
	EDGE_CLOCK = "clock"
	EDGE_RESET = "reset"
)

type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
	// byte value sent by the board -> "clock" or "reset"
	Bytes map[int]string `yaml:"bytes"`
}

type HostConfig struct {
	Config    `yaml:",inline"`
	StateFile string       `yaml:"state_file"`
	Library   string       `yaml:"library"`
	Listen    string       `yaml:"listen"`
	BPM       float64      `yaml:"bpm"`
	PPQN      int          `yaml:"ppqn"`
	ControlHz int          `yaml:"control_hz"`
	Serial    SerialConfig `yaml:"serial"`
}

func DefaultHostConfig() HostConfig {
	return HostConfig{
		Config:    DefaultConfig(),
		StateFile: "progression-state.json",
		Listen:    ":8080",
		BPM:       120,
		PPQN:      1,
		ControlHz: 100,
		Serial: SerialConfig{
			Baud:  115200,
			Bytes: map[int]string{0x01: EDGE_CLOCK, 0x02: EDGE_RESET},
		},
	}
}

func (c HostConfig) Validate() error {
	var errs error
	if c.BPM <= 0 {
		errs = errors.Join(errs, fmt.Errorf("bpm must be positive, got %v", c.BPM))
	}
	if c.PPQN < 1 {
		errs = errors.Join(errs, fmt.Errorf("ppqn must be at least 1, got %d", c.PPQN))
	}
	if c.ControlHz < 1 {
		errs = errors.Join(errs, fmt.Errorf("control_hz must be at least 1, got %d", c.ControlHz))
	}
	for b, ev := range c.Serial.Bytes {
		if b < 0 || b > 255 {
			errs = errors.Join(errs, fmt.Errorf("serial byte %d is not a byte", b))
		}
		if ev != EDGE_CLOCK && ev != EDGE_RESET {
			errs = errors.Join(errs, fmt.Errorf("serial byte %d: unknown edge %q", b, ev))
		}
	}
	return errs
}

// ParseConfig reads yaml over the defaults, so a file only needs the keys it
// changes.
func ParseConfig(r io.Reader) (HostConfig, error) {
	c := DefaultHostConfig()
	data, err := io.ReadAll(r)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return DefaultHostConfig(), err
	}
	return c, c.Validate()
}

// LoadConfig is ParseConfig on a file. A missing file gives the defaults
// and fs.ErrNotExist.
func LoadConfig(filename string) (HostConfig, error) {
	file, err := os.Open(filename)
	if err != nil {
		return DefaultHostConfig(), err
	}
	defer file.Close()
	return ParseConfig(file)
}

func loadLibrary(path string) (*theory.Library, error) {
	if path == "" {
		return theory.Default(), nil
	}
	return theory.LoadLua(theory.Default(), path)
}

func missing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
