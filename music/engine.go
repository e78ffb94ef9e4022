package music

import (
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/JeanRibes/progression/chord"
	. "github.com/JeanRibes/progression/shared"
	"github.com/JeanRibes/progression/theory"

	charmlog "github.com/charmbracelet/log"
)

// Rand is the randomness the engine draws from; *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

const (
	NORMALIZE_TOLERANCE = 0.001
	TONIC               = 1
)

/*
Engine is the progression state machine. It is not safe for concurrent use:
Clock, Reset and Poll must be called from one goroutine, Poll before the
clock edge it should affect.
*/
type Engine struct {
	lib    *theory.Library
	rng    Rand
	logger *charmlog.Logger

	params  Params // last resolved configuration, what Reset snaps to
	key     keyState
	flags   transitionFlags
	matrix  int
	quality theory.Quality
	playing theory.Quality // resolved quality of the sounding transition chord
	inv     chord.Inversion
	divider Divider
	cache   Cache
}

type Option func(*Engine)

func WithLibrary(lib *theory.Library) Option {
	return func(e *Engine) { e.lib = lib }
}

func WithLogger(l *charmlog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine starts the engine as if reset with cfg.
func NewEngine(cfg Config, rng Rand, opts ...Option) *Engine {
	e := &Engine{
		lib: theory.Default(),
		rng: rng,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.logger == nil {
		e.logger = charmlog.NewWithOptions(os.Stdout, charmlog.Options{
			Level:           charmlog.InfoLevel,
			ReportTimestamp: false,
			Prefix:          "engine",
		})
	}
	p, err := Resolve(cfg, e.lib)
	if err != nil {
		e.logger.Warn("config", "err", err)
	}
	e.params = p
	e.transition(resetTrigger, 0)
	return e
}

func (e *Engine) Library() *theory.Library {
	return e.lib
}

// Clock handles one rising clock edge. It reports whether a beat fired.
func (e *Engine) Clock() bool {
	if !e.divider.Edge() {
		return false
	}
	e.transition(beatTrigger, 0)
	return true
}

// Reset snaps the engine to the configuration last given to Poll.
func (e *Engine) Reset() {
	e.transition(resetTrigger, 0)
}

// Poll applies a configuration snapshot. Matrix, division, quality and
// inversion apply at once; key and scale changes are queued for the next
// beat.
func (e *Engine) Poll(cfg Config) {
	p, err := Resolve(cfg, e.lib)
	if err != nil {
		e.logger.Warn("config", "err", err)
	}
	e.params = p
	e.matrix = p.MatrixIndex
	e.quality = p.Quality
	e.inv = p.Inversion
	if p.DivisionIndex != e.divider.Index() {
		e.logger.Debug("division", "from", e.divider.Division(), "to", Divisions[p.DivisionIndex])
		e.divider.SetIndex(p.DivisionIndex)
	}
	if p.Root != e.key.targetRoot {
		e.transition(keyRequest, p.Root)
	}
	if p.ScaleIndex != e.key.targetScaleIndex {
		e.transition(scaleRequest, p.ScaleIndex)
	}
}

// Output hands the host the current frame and whether it is new.
func (e *Engine) Output() (Frame, bool) {
	return e.cache.Take()
}

// transition is the only place the key state and the transition flags
// change.
func (e *Engine) transition(t trigger, arg int) {
	switch t {
	case keyRequest:
		e.key.targetRoot = arg
		dest := e.key.currentRoot
		if e.flags.playingTransition && e.flags.hasRootAfter {
			dest = e.flags.rootAfter
		}
		e.flags.keyChangePending = arg != dest
		e.logger.Debug("key request", "target", theory.NoteName(arg), "pending", e.flags.keyChangePending)
	case scaleRequest:
		e.key.targetScaleIndex = arg
		e.flags.scaleChangePending = arg != e.key.scaleIndex
		e.logger.Debug("scale request", "target", e.lib.Scale(arg).Name, "pending", e.flags.scaleChangePending)
	case resetTrigger:
		p := e.params
		e.key = keyState{
			currentRoot:      p.Root,
			targetRoot:       p.Root,
			scaleIndex:       p.ScaleIndex,
			targetScaleIndex: p.ScaleIndex,
			degree:           TONIC,
		}
		e.flags = transitionFlags{}
		e.matrix = p.MatrixIndex
		e.quality = p.Quality
		e.inv = p.Inversion
		e.divider.SetIndex(p.DivisionIndex)
		e.divider.Reset()
		e.logger.Debug("reset", "key", theory.NoteName(p.Root), "scale", e.scale().Name)
		e.emitDiatonic()
	case beatTrigger:
		switch {
		case e.flags.playingTransition:
			e.resolve()
			if e.flags.keyChangePending {
				e.startTransition()
				return
			}
			e.emitDiatonic()
		case e.flags.keyChangePending || e.flags.scaleChangePending:
			e.startTransition()
		default:
			e.key.degree = e.nextDegree()
			e.emitDiatonic()
		}
	}
}

func (e *Engine) startTransition() {
	q := e.quality.Resolve(e.rng.Intn)
	root := chord.TransitionRoot(e.key.targetRoot, q)
	e.playing = q
	e.flags.playingTransition = true
	e.flags.hasRootAfter = true
	e.flags.rootAfter = e.key.targetRoot
	e.flags.keyChangePending = false
	e.logger.Debug("transition", "quality", q, "root", root, "to", theory.NoteName(e.key.targetRoot))
	e.emit(chord.Transition(root, q))
}

func (e *Engine) resolve() {
	e.key.currentRoot = e.flags.rootAfter
	e.flags.playingTransition = false
	e.flags.hasRootAfter = false
	e.flags.rootAfter = 0
	e.key.degree = TONIC
	if e.flags.scaleChangePending {
		e.key.scaleIndex = e.key.targetScaleIndex
		e.flags.scaleChangePending = false
	}
	e.logger.Debug("resolve", "key", theory.NoteName(e.key.currentRoot), "scale", e.scale().Name)
}

// nextDegree draws the next degree from the current matrix row. Edges are
// walked in declaration order.
func (e *Engine) nextDegree() int {
	n := e.scale().Len()
	edges := e.lib.Matrix(e.matrix).Edges(e.key.degree)
	valid := make([]theory.Edge, 0, len(edges))
	total := 0.0
	for _, ed := range edges {
		if ed.Degree < 1 || ed.Degree > n || ed.Weight <= 0 {
			continue
		}
		valid = append(valid, ed)
		total += ed.Weight
	}
	if len(valid) == 0 {
		e.logger.Warn("no edge out of degree, back to tonic", "degree", e.key.degree, "matrix", e.lib.Matrix(e.matrix).Name)
		return TONIC
	}
	if math.Abs(total-1) > NORMALIZE_TOLERANCE {
		for i := range valid {
			valid[i].Weight /= total
		}
	}

	r := e.rng.Float64()
	cum := 0.0
	last := TONIC
	for _, ed := range valid {
		cum += ed.Weight
		last = ed.Degree
		if cum > r {
			return ed.Degree
		}
	}
	return last
}

func (e *Engine) scale() theory.Scale {
	return e.lib.Scale(e.key.scaleIndex)
}

func (e *Engine) emitDiatonic() {
	e.emit(chord.Diatonic(e.key.currentRoot, e.scale(), e.key.degree))
}

func (e *Engine) emit(c chord.Chord) {
	v, err := chord.Voice(c[:], e.inv)
	if err != nil {
		e.logger.Warn("voicing", "chord", c, "err", err)
	}
	e.cache.Store(v)
}
