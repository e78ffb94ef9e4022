package music

import (
	"errors"
	"fmt"
	"math"

	"github.com/JeanRibes/progression/chord"
	. "github.com/JeanRibes/progression/shared"
	"github.com/JeanRibes/progression/theory"
	"gitlab.com/gomidi/midi/v2"
)

const STATE_VERSION = 1

var (
	ErrStateVersion = errors.New("unknown state version")
	ErrStateField   = errors.New("bad state field")
)

// State is the persisted blob. Values are plain ints, bools and slices so a
// JSON round trip (which turns numbers into float64) restores the same
// engine.
type State map[string]any

const (
	keyVersion          = "version"
	keyCurrentRoot      = "current_root"
	keyTargetRoot       = "target_root"
	keyScaleIndex       = "scale_index"
	keyTargetScaleIndex = "target_scale_index"
	keyMatrixIndex      = "matrix_index"
	keyDegree           = "degree"
	keyKeyPending       = "key_change_pending"
	keyScalePending     = "scale_change_pending"
	keyPlaying          = "playing_transition"
	keyRootAfter        = "root_after_transition"
	keyPlayingQuality   = "playing_quality"
	keyDivisionIndex    = "division_index"
	keyClockCount       = "clock_count"
	keyQualityIndex     = "quality_index"
	keyInversionIndex   = "inversion_index"
	keyVolts            = "volts"
	keyVoicing          = "voicing"
)

func (e *Engine) State() State {
	rootAfter := -1
	if e.flags.hasRootAfter {
		rootAfter = e.flags.rootAfter
	}
	frame := e.cache.Last()
	voicing := make([]int, chord.NUM_VOICES)
	for i, n := range frame.Voicing {
		voicing[i] = int(n)
	}
	return State{
		keyVersion:          STATE_VERSION,
		keyCurrentRoot:      e.key.currentRoot,
		keyTargetRoot:       e.key.targetRoot,
		keyScaleIndex:       e.key.scaleIndex,
		keyTargetScaleIndex: e.key.targetScaleIndex,
		keyMatrixIndex:      e.matrix,
		keyDegree:           e.key.degree,
		keyKeyPending:       e.flags.keyChangePending,
		keyScalePending:     e.flags.scaleChangePending,
		keyPlaying:          e.flags.playingTransition,
		keyRootAfter:        rootAfter,
		keyPlayingQuality:   int(e.playing),
		keyDivisionIndex:    e.divider.index,
		keyClockCount:       e.divider.count,
		keyQualityIndex:     int(e.quality),
		keyInversionIndex:   int(e.inv) - 1,
		keyVolts:            frame.Volts[:],
		keyVoicing:          voicing,
	}
}

type stateReader struct {
	s    State
	errs error
}

func (r *stateReader) fail(key string, format string, args ...any) {
	r.errs = errors.Join(r.errs, fmt.Errorf("%w %s: %s", ErrStateField, key, fmt.Sprintf(format, args...)))
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func (r *stateReader) readInt(key string, lo, hi int) int {
	v, ok := r.s[key]
	if !ok {
		r.fail(key, "missing")
		return lo
	}
	n, ok := toInt(v)
	if !ok {
		r.fail(key, "not an integer: %v", v)
		return lo
	}
	if n < lo || n > hi {
		r.fail(key, "%d outside [%d, %d]", n, lo, hi)
		return lo
	}
	return n
}

func (r *stateReader) readBool(key string) bool {
	v, ok := r.s[key]
	if !ok {
		r.fail(key, "missing")
		return false
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(key, "not a bool: %v", v)
	}
	return b
}

func (r *stateReader) readFloats(key string) []float64 {
	switch l := r.s[key].(type) {
	case []float64:
		return l
	case []any:
		out := make([]float64, len(l))
		for i, v := range l {
			f, ok := v.(float64)
			if !ok {
				n, ok := toInt(v)
				if !ok {
					r.fail(key, "item %d is not a number", i)
					return nil
				}
				f = float64(n)
			}
			out[i] = f
		}
		return out
	case nil:
		r.fail(key, "missing")
	default:
		r.fail(key, "not a list")
	}
	return nil
}

func (r *stateReader) readNotes(key string) []int {
	switch l := r.s[key].(type) {
	case []int:
		return l
	case []any:
		out := make([]int, len(l))
		for i, v := range l {
			n, ok := toInt(v)
			if !ok || n < 0 || n > 127 {
				r.fail(key, "item %d is not a note", i)
				return nil
			}
			out[i] = n
		}
		return out
	case nil:
		r.fail(key, "missing")
	default:
		r.fail(key, "not a list")
	}
	return nil
}

// Restore loads a blob made by State. A blob with another version or any
// bad field is refused as a whole and the engine falls back to the default
// configuration.
func (e *Engine) Restore(s State) error {
	if err := e.restore(s); err != nil {
		e.logger.Warn("refusing saved state, using defaults", "err", err)
		p, _ := Resolve(DefaultConfig(), e.lib)
		e.params = p
		e.transition(resetTrigger, 0)
		return err
	}
	return nil
}

func (e *Engine) restore(s State) error {
	if s == nil {
		return fmt.Errorf("%w: empty state", ErrStateVersion)
	}
	if v, ok := toInt(s[keyVersion]); !ok || v != STATE_VERSION {
		return fmt.Errorf("%w: %v", ErrStateVersion, s[keyVersion])
	}
	r := &stateReader{s: s}
	nScales := len(e.lib.Scales) - 1
	key := keyState{
		currentRoot:      r.readInt(keyCurrentRoot, 0, 11),
		targetRoot:       r.readInt(keyTargetRoot, 0, 11),
		scaleIndex:       r.readInt(keyScaleIndex, 0, nScales),
		targetScaleIndex: r.readInt(keyTargetScaleIndex, 0, nScales),
	}
	key.degree = r.readInt(keyDegree, 1, e.lib.Scale(key.scaleIndex).Len())
	flags := transitionFlags{
		keyChangePending:   r.readBool(keyKeyPending),
		scaleChangePending: r.readBool(keyScalePending),
		playingTransition:  r.readBool(keyPlaying),
	}
	if after := r.readInt(keyRootAfter, -1, 11); after >= 0 {
		flags.hasRootAfter = true
		flags.rootAfter = after
	}
	if flags.playingTransition != flags.hasRootAfter {
		r.fail(keyRootAfter, "playing transition without a root to resolve to")
	}
	matrix := r.readInt(keyMatrixIndex, 0, len(e.lib.Matrices)-1)
	playing := theory.Quality(r.readInt(keyPlayingQuality, 0, int(theory.Dim7)))
	division := r.readInt(keyDivisionIndex, 0, len(Divisions)-1)
	count := r.readInt(keyClockCount, 0, Divisions[division]-1)
	quality := theory.Quality(r.readInt(keyQualityIndex, 0, int(theory.Random)))
	inv := chord.Inversion(r.readInt(keyInversionIndex, 0, int(chord.ThirdInversion)-1) + 1)

	volts := r.readFloats(keyVolts)
	notes := r.readNotes(keyVoicing)
	if r.errs == nil && (len(volts) != chord.NUM_VOICES || len(notes) != chord.NUM_VOICES) {
		r.fail(keyVoicing, "want %d voices", chord.NUM_VOICES)
	}
	if r.errs != nil {
		return r.errs
	}

	e.key = key
	e.flags = flags
	e.matrix = matrix
	e.playing = playing
	e.quality = quality
	e.inv = inv
	e.divider = Divider{index: division, count: count}
	var frame Frame
	for i := range frame.Voicing {
		frame.Voicing[i] = midi.Note(notes[i])
		frame.Volts[i] = volts[i]
	}
	e.cache = Cache{frame: frame, dirty: true}
	e.params = Params{
		Root:          key.targetRoot,
		ScaleIndex:    key.targetScaleIndex,
		MatrixIndex:   matrix,
		DivisionIndex: division,
		Quality:       quality,
		Inversion:     inv,
	}
	return nil
}
