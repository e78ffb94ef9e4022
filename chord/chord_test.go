package chord

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/JeanRibes/progression/theory"
	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
)

func scale(t *testing.T, name string) theory.Scale {
	i, ok := theory.Default().ScaleIndex(name)
	if !ok {
		t.Fatalf("no scale %q", name)
	}
	return theory.Default().Scale(i)
}

func TestDiatonicSevenths(t *testing.T) {
	major := scale(t, "Major")
	cases := []struct {
		root, degree int
		want         Chord
	}{
		{0, 1, Chord{60, 64, 67, 71}},
		{5, 1, Chord{65, 69, 72, 76}},
		{0, 7, Chord{71, 74, 77, 81}},
		{0, 2, Chord{62, 65, 69, 72}},
		// out of range degrees clamp
		{0, 9, Chord{71, 74, 77, 81}},
		{0, 0, Chord{60, 64, 67, 71}},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("root %d degree %d", c.root, c.degree), func(t *testing.T) {
			assert.Equal(t, c.want, Diatonic(c.root, major, c.degree))
		})
	}
}

func TestDiatonicWrapsShortScales(t *testing.T) {
	pent := scale(t, "Major Pentatonic")
	assert.Equal(t, Chord{69, 74, 79, 84}, Diatonic(0, pent, 5))
}

func TestDiatonicEmptyScale(t *testing.T) {
	assert.Equal(t, Chord{60, 64, 67, 71}, Diatonic(3, theory.Scale{}, 4))
}

func TestDiatonicAscendsForEveryScale(t *testing.T) {
	for _, s := range theory.Default().Scales {
		for root := 0; root < 12; root++ {
			for d := 1; d <= s.Len(); d++ {
				c := Diatonic(root, s, d)
				for k := 1; k < NUM_VOICES; k++ {
					assert.GreaterOrEqual(t, int(c[k]), int(c[k-1]), "%s root %d degree %d", s.Name, root, d)
				}
			}
		}
	}
}

func TestTransitionChords(t *testing.T) {
	assert := assert.New(t)
	root := TransitionRoot(5, theory.V7)
	assert.Equal(72, root)
	assert.Equal(Chord{72, 76, 79, 82}, Transition(root, theory.V7))
	assert.Equal(Chord{65, 68, 72, 75}, Transition(65, theory.Iv))
	assert.Equal(Chord{70, 74, 77, 80}, Transition(70, theory.BVII))
	assert.Equal(Chord{71, 74, 77, 80}, Transition(71, theory.Dim7))
	assert.Equal(Chord{60, 64, 67, 70}, Transition(60, theory.Quality(99)))
}

func TestVoiceInversions(t *testing.T) {
	cmaj7 := Chord{60, 64, 67, 71}
	cases := []struct {
		inv  Inversion
		want Voicing
	}{
		{RootPosition, Voicing{48, 64, 67, 71}},
		{FirstInversion, Voicing{52, 60, 67, 71}},
		{SecondInversion, Voicing{55, 60, 64, 71}},
		{ThirdInversion, Voicing{59, 60, 64, 67}},
	}
	for _, c := range cases {
		t.Run(c.inv.String(), func(t *testing.T) {
			v, err := Voice(cmaj7[:], c.inv)
			assert.NoError(t, err)
			assert.Equal(t, c.want, v)
		})
	}
}

func TestVoiceRaisesLowUpperTones(t *testing.T) {
	v, err := Voice([]midi.Note{70, 20, 35, 50}, RootPosition)
	assert.NoError(t, err)
	assert.Equal(t, Voicing{58, 68, 71, 74}, v)
}

func TestVoiceFallback(t *testing.T) {
	assert := assert.New(t)
	v, err := Voice([]midi.Note{60, 64, 67}, RootPosition)
	assert.ErrorIs(err, ErrChordLength)
	assert.Equal(Voicing{60, 60, 60, 60}, v)

	v, err = Voice([]midi.Note{60, 64, 67, 71}, Inversion(5))
	assert.ErrorIs(err, ErrInversion)
	assert.Equal(Voicing{60, 60, 60, 60}, v)

	_, err = Voice(nil, Inversion(0))
	assert.ErrorIs(err, ErrChordLength)
}

func TestVoiceIsMonotonicWithBassInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 5000; i++ {
		tones := make([]midi.Note, NUM_VOICES)
		for k := range tones {
			tones[k] = midi.Note(24 + rng.Intn(72))
		}
		inv := Inversion(1 + rng.Intn(4))
		v, err := Voice(tones, inv)
		if !assert.NoError(t, err) {
			return
		}
		assert.GreaterOrEqual(t, int(v[0]), BASS_LOW, "%v %v", tones, inv)
		assert.LessOrEqual(t, int(v[0]), BASS_HIGH, "%v %v", tones, inv)
		for k := 1; k < NUM_VOICES; k++ {
			if !assert.LessOrEqual(t, int(v[k-1]), int(v[k]), "%v %v -> %v", tones, inv, v) {
				return
			}
		}
	}
}

func TestVolts(t *testing.T) {
	v := Voicing{48, 60, 66, 72}
	assert.Equal(t, [NUM_VOICES]float64{-1, 0, 0.5, 1}, v.Volts())
}

func TestParseInversion(t *testing.T) {
	inv, ok := ParseInversion("2nd")
	assert.True(t, ok)
	assert.Equal(t, SecondInversion, inv)
	inv, ok = ParseInversion("4th")
	assert.False(t, ok)
	assert.Equal(t, RootPosition, inv)
}
