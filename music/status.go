package music

import (
	"fmt"

	. "github.com/JeanRibes/progression/shared"
	"github.com/JeanRibes/progression/theory"
)

func keyName(root int, s theory.Scale) string {
	return theory.NoteName(root) + " " + s.Name
}

// Status describes what is sounding for a display. It does not change the
// engine.
func (e *Engine) Status() Status {
	frame := e.cache.Last()
	st := Status{
		Key:        keyName(e.key.currentRoot, e.scale()),
		Scale:      e.scale().Name,
		Degree:     e.key.degree,
		Transition: e.flags.playingTransition,
		Notes:      frame.Voicing.Names(),
		Volts:      frame.Volts,
		Division:   e.divider.Division(),
	}
	if e.flags.playingTransition {
		st.Chord = fmt.Sprintf("%s/%s", e.playing, theory.NoteName(e.flags.rootAfter))
	} else {
		st.Chord = theory.Numeral(e.scale(), e.key.degree)
	}
	if e.flags.keyChangePending {
		st.PendingKey = theory.NoteName(e.key.targetRoot)
	}
	if e.flags.scaleChangePending {
		st.PendingScale = e.lib.Scale(e.key.targetScaleIndex).Name
	}
	return st
}
