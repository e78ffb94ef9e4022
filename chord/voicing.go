package chord

import (
	"errors"
	"fmt"
	"slices"

	"gitlab.com/gomidi/midi/v2"
)

const (
	BASS_LOW  = 48
	BASS_HIGH = 59
)

var (
	ErrChordLength = errors.New("chord needs four tones")
	ErrInversion   = errors.New("inversion out of range")
)

// Inversion picks the chord tone in the bass: 1 root, 2 third, 3 fifth,
// 4 seventh.
type Inversion int

const (
	RootPosition Inversion = iota + 1
	FirstInversion
	SecondInversion
	ThirdInversion
)

var inversionNames = [...]string{"Root", "1st", "2nd", "3rd"}

func (i Inversion) Valid() bool {
	return i >= RootPosition && i <= ThirdInversion
}

func (i Inversion) String() string {
	if !i.Valid() {
		return fmt.Sprintf("Inversion(%d)", int(i))
	}
	return inversionNames[i-1]
}

func ParseInversion(name string) (Inversion, bool) {
	for i, n := range inversionNames {
		if n == name {
			return Inversion(i + 1), true
		}
	}
	return RootPosition, false
}

// Voicing is bass, tenor, alto, soprano, lowest first.
type Voicing [NUM_VOICES]midi.Note

var unison = Voicing{MIDDLE_C, MIDDLE_C, MIDDLE_C, MIDDLE_C}

// Voice places tones in SATB order with the inversion's tone in the bass
// octave. On bad input it returns a middle C unison and the reason.
func Voice(tones []midi.Note, inv Inversion) (Voicing, error) {
	if len(tones) != NUM_VOICES {
		return unison, fmt.Errorf("%w: got %d", ErrChordLength, len(tones))
	}
	if !inv.Valid() {
		return unison, fmt.Errorf("%w: %d", ErrInversion, int(inv))
	}

	bassIdx := int(inv) - 1
	bass := int(tones[bassIdx])
	for bass < BASS_LOW {
		bass += 12
	}
	for bass > BASS_HIGH {
		bass -= 12
	}

	upper := make([]int, 0, NUM_VOICES-1)
	for i, t := range tones {
		if i != bassIdx {
			upper = append(upper, int(t))
		}
	}
	slices.Sort(upper)
	prev := bass
	for i := range upper {
		for upper[i] < prev {
			upper[i] += 12
		}
		prev = upper[i]
	}
	slices.Sort(upper)

	v := Voicing{note(bass)}
	for i, t := range upper {
		v[i+1] = note(t)
	}
	return v, nil
}

// Volts follows 1V/oct with 0V at middle C.
func (v Voicing) Volts() [NUM_VOICES]float64 {
	var out [NUM_VOICES]float64
	for i, n := range v {
		out[i] = (float64(n) - MIDDLE_C) / 12
	}
	return out
}

func (v Voicing) Names() []string {
	names := make([]string, NUM_VOICES)
	for i, n := range v {
		names[i] = n.String()
	}
	return names
}
