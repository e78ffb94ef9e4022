package theory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MIN_SCALE_LEN = 5
	MAX_SCALE_LEN = 8
)

var ErrScale = errors.New("invalid scale")

// Scale is a set of semitone offsets above a root.
type Scale struct {
	Name      string
	Intervals []int
}

func (s Scale) Len() int {
	return len(s.Intervals)
}

// Validate checks that intervals start at 0, strictly increase and stay
// inside one octave.
func (s Scale) Validate() error {
	n := len(s.Intervals)
	if n < MIN_SCALE_LEN || n > MAX_SCALE_LEN {
		return fmt.Errorf("%w %q: %d degrees, want %d to %d", ErrScale, s.Name, n, MIN_SCALE_LEN, MAX_SCALE_LEN)
	}
	if s.Intervals[0] != 0 {
		return fmt.Errorf("%w %q: first interval is %d, want 0", ErrScale, s.Name, s.Intervals[0])
	}
	for i := 1; i < n; i++ {
		if s.Intervals[i] <= s.Intervals[i-1] {
			return fmt.Errorf("%w %q: intervals not strictly increasing at degree %d", ErrScale, s.Name, i+1)
		}
	}
	if s.Intervals[n-1] > 11 {
		return fmt.Errorf("%w %q: interval %d leaves the octave", ErrScale, s.Name, s.Intervals[n-1])
	}
	return nil
}

var builtinScales = []Scale{
	{"Major", []int{0, 2, 4, 5, 7, 9, 11}},
	{"Natural Minor", []int{0, 2, 3, 5, 7, 8, 10}},
	{"Harmonic Minor", []int{0, 2, 3, 5, 7, 8, 11}},
	{"Melodic Minor", []int{0, 2, 3, 5, 7, 9, 11}},
	{"Dorian", []int{0, 2, 3, 5, 7, 9, 10}},
	{"Phrygian", []int{0, 1, 3, 5, 7, 8, 10}},
	{"Lydian", []int{0, 2, 4, 6, 7, 9, 11}},
	{"Mixolydian", []int{0, 2, 4, 5, 7, 9, 10}},
	{"Locrian", []int{0, 1, 3, 5, 6, 8, 10}},
	{"Major Pentatonic", []int{0, 2, 4, 7, 9}},
	{"Minor Pentatonic", []int{0, 3, 5, 7, 10}},
	{"Whole Tone", []int{0, 2, 4, 6, 8, 10}},
	{"Blues", []int{0, 3, 5, 6, 7, 10}},
	{"Bebop Dominant", []int{0, 2, 4, 5, 7, 9, 10, 11}},
	{"Diminished", []int{0, 2, 3, 5, 6, 8, 9, 11}},
}

var noteNames = [12]string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// NoteName names a pitch class, sharps or flats as a keyboard player would
// read them.
func NoteName(pc int) string {
	return noteNames[Mod(pc, 12)]
}

var enharmonics = map[string]int{"Db": 1, "D#": 3, "Gb": 6, "G#": 8, "A#": 10, "Cb": 11, "E#": 5, "Fb": 4, "B#": 0}

// ParseNote reads a pitch class written as a name ("F#", "gb") or a number
// from 0 to 11.
func ParseNote(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0 && n <= 11
	}
	if s == "" {
		return 0, false
	}
	s = strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	for pc, name := range noteNames {
		if name == s {
			return pc, true
		}
	}
	pc, ok := enharmonics[s]
	return pc, ok
}
