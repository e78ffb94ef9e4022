package music

import (
	"errors"
	"fmt"
	"slices"

	"github.com/JeanRibes/progression/chord"
	. "github.com/JeanRibes/progression/shared"
	"github.com/JeanRibes/progression/theory"
)

var ErrConfig = errors.New("config value out of range")

var Divisions = [...]int{1, 2, 3, 4, 6, 8, 12, 16, 24, 32}

const DEFAULT_DIVISION_INDEX = 0

// Params is a Config resolved against a library: every field is a valid
// index.
type Params struct {
	Root          int
	ScaleIndex    int
	MatrixIndex   int
	DivisionIndex int
	Quality       theory.Quality
	Inversion     chord.Inversion
}

func DivisionIndex(div int) (int, bool) {
	i := slices.Index(Divisions[:], div)
	return i, i >= 0
}

// Resolve maps names to indexes. Unknown or out of range fields take their
// default and are reported together in the error.
func Resolve(c Config, lib *theory.Library) (Params, error) {
	var errs error
	p := Params{Quality: theory.V7, Inversion: chord.RootPosition}

	if c.Root >= 0 && c.Root <= 11 {
		p.Root = c.Root
	} else {
		errs = errors.Join(errs, fmt.Errorf("%w: root %d", ErrConfig, c.Root))
	}
	if i, ok := lib.ScaleIndex(c.Scale); ok {
		p.ScaleIndex = i
	} else {
		errs = errors.Join(errs, fmt.Errorf("%w: scale %q", ErrConfig, c.Scale))
	}
	if i, ok := lib.MatrixIndex(c.Matrix); ok {
		p.MatrixIndex = i
	} else {
		errs = errors.Join(errs, fmt.Errorf("%w: matrix %q", ErrConfig, c.Matrix))
	}
	if i, ok := DivisionIndex(c.Division); ok {
		p.DivisionIndex = i
	} else {
		p.DivisionIndex = DEFAULT_DIVISION_INDEX
		errs = errors.Join(errs, fmt.Errorf("%w: division %d", ErrConfig, c.Division))
	}
	if q, ok := theory.ParseQuality(c.Transition); ok {
		p.Quality = q
	} else {
		errs = errors.Join(errs, fmt.Errorf("%w: transition %q", ErrConfig, c.Transition))
	}
	if inv, ok := chord.ParseInversion(c.Inversion); ok {
		p.Inversion = inv
	} else {
		errs = errors.Join(errs, fmt.Errorf("%w: inversion %q", ErrConfig, c.Inversion))
	}
	return p, errs
}
