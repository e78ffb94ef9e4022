package chord

import (
	"github.com/JeanRibes/progression/theory"
	"gitlab.com/gomidi/midi/v2"
)

const (
	NUM_VOICES = 4
	MIDDLE_C   = 60
)

// Chord is an unvoiced seventh chord: root, third, fifth, seventh.
type Chord [NUM_VOICES]midi.Note

var fallbackChord = Chord{60, 64, 67, 71}

func note(n int) midi.Note {
	return midi.Note(theory.Clamp(n, 0, 127))
}

// Diatonic stacks thirds on degree of scale, rooted on pitch class root
// above middle C. Each tone sits at or above the one before it.
func Diatonic(root int, s theory.Scale, degree int) Chord {
	n := s.Len()
	if n == 0 {
		return fallbackChord
	}
	idx := theory.Clamp(degree, 1, n) - 1
	base := MIDDLE_C + theory.Mod(root, 12)

	var c Chord
	prev := 0
	for k := 0; k < NUM_VOICES; k++ {
		pos := idx + 2*k
		tone := base + s.Intervals[theory.Mod(pos, n)] + 12*theory.FloorDiv(pos, n)
		for k > 0 && tone < prev {
			tone += 12
		}
		prev = tone
		c[k] = note(tone)
	}
	return c
}

// Transition builds the chord of quality q on an absolute MIDI root.
func Transition(root int, q theory.Quality) Chord {
	var c Chord
	for k, iv := range q.Template() {
		c[k] = note(root + iv)
	}
	return c
}

// TransitionRoot is the absolute root of the chord leading into the key of
// pitch class target.
func TransitionRoot(target int, q theory.Quality) int {
	return MIDDLE_C + theory.Mod(target, 12) + q.Interval()
}
