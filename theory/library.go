package theory

import (
	"slices"
	"sync"
)

// Library holds the named scales and matrices the engine can select. A
// Library is never mutated once built; With returns a copy.
type Library struct {
	Scales   []Scale
	Matrices []Matrix
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default is the compiled-in library, shared by every engine.
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLib = &Library{
			Scales:   slices.Clone(builtinScales),
			Matrices: slices.Clone(builtinMatrices),
		}
	})
	return defaultLib
}

// With returns a library extended by scales and matrices. An entry whose
// name already exists replaces the old one at the same index, so stored
// indexes keep pointing at the same name.
func (l *Library) With(scales []Scale, matrices []Matrix) *Library {
	out := &Library{
		Scales:   slices.Clone(l.Scales),
		Matrices: slices.Clone(l.Matrices),
	}
	for _, s := range scales {
		if i, ok := out.ScaleIndex(s.Name); ok {
			out.Scales[i] = s
		} else {
			out.Scales = append(out.Scales, s)
		}
	}
	for _, m := range matrices {
		if i, ok := out.MatrixIndex(m.Name); ok {
			out.Matrices[i] = m
		} else {
			out.Matrices = append(out.Matrices, m)
		}
	}
	return out
}

func (l *Library) ScaleIndex(name string) (int, bool) {
	i := slices.IndexFunc(l.Scales, func(s Scale) bool { return s.Name == name })
	return i, i >= 0
}

func (l *Library) MatrixIndex(name string) (int, bool) {
	i := slices.IndexFunc(l.Matrices, func(m Matrix) bool { return m.Name == name })
	return i, i >= 0
}

// Scale returns scale i, or scale 0 when i is out of range.
func (l *Library) Scale(i int) Scale {
	if i < 0 || i >= len(l.Scales) {
		if len(l.Scales) == 0 {
			return Scale{}
		}
		return l.Scales[0]
	}
	return l.Scales[i]
}

// Matrix returns matrix i, or matrix 0 when i is out of range.
func (l *Library) Matrix(i int) Matrix {
	if i < 0 || i >= len(l.Matrices) {
		if len(l.Matrices) == 0 {
			return Matrix{}
		}
		return l.Matrices[0]
	}
	return l.Matrices[i]
}

func (l *Library) ScaleNames() []string {
	names := make([]string, len(l.Scales))
	for i, s := range l.Scales {
		names[i] = s.Name
	}
	return names
}

func (l *Library) MatrixNames() []string {
	names := make([]string, len(l.Matrices))
	for i, m := range l.Matrices {
		names[i] = m.Name
	}
	return names
}
