package music

import (
	"bytes"
	"fmt"

	"github.com/JeanRibes/progression/chord"
	. "github.com/JeanRibes/progression/shared"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"gitlab.com/gomidi/quantizer/lib/quantizer"
)

const TICKS = smf.MetricTicks(960)

const VELOCITY = 80

// Step is what sounded for one beat.
type Step struct {
	Voicing chord.Voicing
	Label   string
}

// Take is a sequence of beats, one quarter note each once written out.
type Take []Step

// Record drives e through edges clock edges and keeps every beat, starting
// with the chord sounding before the first edge. before runs ahead of each
// edge; it is where a caller polls configuration changes.
func Record(e *Engine, edges int, before func(edge int)) Take {
	frame, _ := e.Output()
	take := Take{{Voicing: frame.Voicing, Label: e.Status().Chord}}
	for i := 0; i < edges; i++ {
		if before != nil {
			before(i)
		}
		if e.Clock() {
			frame, _ = e.Output()
			take = append(take, Step{Voicing: frame.Voicing, Label: e.Status().Chord})
		}
	}
	return take
}

// Convert writes the take as a format 1 file: a conductor track with the
// chord labels, then one track per voice on its own channel. Repeated notes
// are tied.
func (t Take) Convert(bpm float64) *smf.SMF {
	f := smf.New()
	f.TimeFormat = TICKS
	beat := TICKS.Ticks4th()

	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName("progression"))
	conductor.Add(0, smf.MetaTempo(bpm))
	conductor.Add(0, smf.MetaMeter(4, 4))
	var delta uint32
	for i, st := range t {
		if i > 0 {
			delta = beat
		}
		conductor.Add(delta, smf.MetaText(st.Label))
	}
	conductor.Close(beat)
	f.Add(conductor)

	for v := 0; v < chord.NUM_VOICES; v++ {
		f.Add(t.voiceTrack(v, beat))
	}
	return f
}

func (t Take) voiceTrack(v int, beat uint32) smf.Track {
	ch := uint8(v)
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(VoiceNames[v]))
	var delta uint32
	sounding := -1
	for _, st := range t {
		n := int(st.Voicing[v])
		if n != sounding {
			if sounding >= 0 {
				tr.Add(delta, midi.NoteOff(ch, uint8(sounding)))
				delta = 0
			}
			tr.Add(delta, midi.NoteOn(ch, uint8(n), VELOCITY))
			delta = 0
			sounding = n
		}
		delta += beat
	}
	if sounding >= 0 {
		tr.Add(delta, midi.NoteOff(ch, uint8(sounding)))
		delta = 0
	}
	tr.Close(delta)
	return tr
}

// Quantize snaps a file to the grid, as the recorder did for live takes.
func Quantize(f *smf.SMF) (*smf.SMF, error) {
	var in, out bytes.Buffer
	if _, err := f.WriteTo(&in); err != nil {
		return nil, err
	}
	if err := quantizer.Quantize(&in, &out); err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}
	return smf.ReadFrom(&out)
}
