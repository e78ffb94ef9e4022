package music

import (
	"testing"

	"github.com/JeanRibes/progression/chord"
	. "github.com/JeanRibes/progression/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestRecordKeepsEveryBeat(t *testing.T) {
	e := NewEngine(config(func(c *Config) { c.Division = 2 }), &scripted{}, quiet())
	take := Record(e, 8, func(edge int) {
		if edge == 3 {
			e.Poll(config(func(c *Config) {
				c.Division = 2
				c.Root = 5
			}))
		}
	})
	require.Len(t, take, 5)
	assert.Equal(t, "I", take[0].Label)
	// Classical, always the first edge out of I
	assert.Equal(t, "IV", take[1].Label)
	assert.Equal(t, "V7/F", take[2].Label)
	assert.Equal(t, "I", take[3].Label)
	assert.Equal(t, chord.Voicing{53, 69, 72, 76}, take[3].Voicing)
}

func noteOns(tr smf.Track) []uint8 {
	var keys []uint8
	for _, ev := range tr {
		var ch, key, vel uint8
		if ev.Message.GetNoteOn(&ch, &key, &vel) {
			keys = append(keys, key)
		}
	}
	return keys
}

func TestConvertTiesRepeatedNotes(t *testing.T) {
	take := Take{
		{Voicing: chord.Voicing{48, 64, 67, 71}, Label: "I"},
		{Voicing: chord.Voicing{48, 65, 69, 72}, Label: "IV"},
		{Voicing: chord.Voicing{55, 65, 71, 74}, Label: "V"},
	}
	f := take.Convert(120)
	require.Len(t, f.Tracks, chord.NUM_VOICES+1)
	assert.Equal(t, TICKS, f.TimeFormat)

	assert.Equal(t, []uint8{48, 55}, noteOns(f.Tracks[1]))
	assert.Equal(t, []uint8{64, 65}, noteOns(f.Tracks[2]))
	assert.Equal(t, []uint8{67, 69, 71}, noteOns(f.Tracks[3]))
	assert.Empty(t, noteOns(f.Tracks[0]))

	var labels []string
	for _, ev := range f.Tracks[0] {
		var text string
		if ev.Message.GetMetaText(&text) {
			labels = append(labels, text)
		}
	}
	assert.Equal(t, []string{"I", "IV", "V"}, labels)
}

func TestQuantizeKeepsBeatAlignedNotes(t *testing.T) {
	e := NewEngine(config(nil), &scripted{}, quiet())
	take := Record(e, 12, func(edge int) {
		if edge == 5 {
			e.Poll(config(func(c *Config) { c.Root = 5 }))
		}
	})
	f := take.Convert(120)
	q, err := Quantize(f)
	require.NoError(t, err)
	require.Len(t, q.Tracks, chord.NUM_VOICES+1)
	for i := range f.Tracks {
		assert.Equal(t, noteOns(f.Tracks[i]), noteOns(q.Tracks[i]), "track %d", i)
	}
	assert.NotEmpty(t, noteOns(q.Tracks[1]))
}
