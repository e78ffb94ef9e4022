package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinScalesAreValid(t *testing.T) {
	for _, s := range Default().Scales {
		t.Run(s.Name, func(t *testing.T) {
			assert.NoError(t, s.Validate())
		})
	}
}

func TestScaleValidateRejects(t *testing.T) {
	cases := []Scale{
		{"short", []int{0, 2, 4, 7}},
		{"offset", []int{1, 2, 4, 5, 7}},
		{"flat", []int{0, 2, 2, 5, 7}},
		{"wide", []int{0, 2, 4, 7, 12}},
	}
	for _, s := range cases {
		assert.ErrorIs(t, s.Validate(), ErrScale, s.Name)
	}
}

func TestMinimalCycleDeclarationOrder(t *testing.T) {
	lib := Default()
	i, ok := lib.MatrixIndex("Minimal Cycle")
	require.True(t, ok)
	edges := lib.Matrix(i).Edges(1)
	assert.Equal(t, []Edge{{7, 0.4}, {4, 0.4}, {6, 0.2}}, edges)
}

func TestQualityTable(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(7, V7.Interval())
	assert.Equal(5, Iv.Interval())
	assert.Equal(10, BVII.Interval())
	assert.Equal(11, Dim7.Interval())
	assert.Equal([4]int{0, 3, 6, 9}, Dim7.Template())
	assert.Equal([4]int{0, 3, 7, 10}, Iv.Template())
	// unknown falls back to V7
	assert.Equal([4]int{0, 4, 7, 10}, Quality(42).Template())
	assert.Equal("V7", Quality(-1).String())
}

func TestParseQuality(t *testing.T) {
	q, ok := ParseQuality("bVII")
	assert.True(t, ok)
	assert.Equal(t, BVII, q)
	q, ok = ParseQuality("Neapolitan")
	assert.False(t, ok)
	assert.Equal(t, V7, q)
}

func TestRandomResolvesToConcreteQuality(t *testing.T) {
	seen := map[Quality]bool{}
	for i := 0; i < int(Random); i++ {
		i := i
		q := Random.Resolve(func(n int) int {
			assert.Equal(t, 4, n)
			return i
		})
		seen[q] = true
	}
	assert.Len(t, seen, 4)
	assert.False(t, seen[Random])
	assert.Equal(t, Iv, Iv.Resolve(nil))
}

func TestNumeral(t *testing.T) {
	lib := Default()
	major := lib.Scale(0)
	want := []string{"I", "ii", "iii", "IV", "V", "vi", "vii°"}
	for d, w := range want {
		assert.Equal(t, w, Numeral(major, d+1))
	}
	i, _ := lib.ScaleIndex("Harmonic Minor")
	assert.Equal(t, "III+", Numeral(lib.Scale(i), 3))
	assert.Equal(t, "?", Numeral(major, 9))
}

func TestWithReplacesByName(t *testing.T) {
	base := Default()
	ext := base.With(
		[]Scale{{"Major", []int{0, 2, 4, 5, 7}}, {"Hirajoshi", []int{0, 2, 3, 7, 8}}},
		nil,
	)
	assert := assert.New(t)
	assert.Equal(len(base.Scales)+1, len(ext.Scales))
	assert.Equal(5, ext.Scale(0).Len())
	assert.Equal(7, base.Scale(0).Len(), "base library must not change")
	i, ok := ext.ScaleIndex("Hirajoshi")
	assert.True(ok)
	assert.Equal(len(ext.Scales)-1, i)
}

func TestLoadLuaString(t *testing.T) {
	src := `
scales = {
	["Hirajoshi"] = {0, 2, 3, 7, 8},
	["Broken"] = {0, 1},
}
matrices = {
	["Two Step"] = {
		[1] = { {5, 0.7}, {4, 0.3} },
		[5] = { {1, 1.0} },
	},
}
`
	lib, err := LoadLuaString(Default(), src)
	assert.ErrorIs(t, err, ErrScale)

	_, ok := lib.ScaleIndex("Broken")
	assert.False(t, ok)
	_, ok = lib.ScaleIndex("Hirajoshi")
	assert.True(t, ok)

	i, ok := lib.MatrixIndex("Two Step")
	require.True(t, ok)
	assert.Equal(t, []Edge{{5, 0.7}, {4, 0.3}}, lib.Matrix(i).Edges(1))
}

func TestLoadLuaSyntaxErrorKeepsBase(t *testing.T) {
	lib, err := LoadLuaString(Default(), "scales = {")
	assert.Error(t, err)
	assert.Same(t, Default(), lib)
}

func TestHelpers(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(11, Mod(-1, 12))
	assert.Equal(-1, FloorDiv(-1, 7))
	assert.Equal(1, FloorDiv(7, 7))
	assert.Equal(0, FloorDiv(6, 7))
	assert.Equal(3, Clamp(9, 1, 3))
	assert.Equal("Bb", NoteName(-2))
}

func TestParseNote(t *testing.T) {
	assert := assert.New(t)
	for in, want := range map[string]int{"C": 0, "f#": 6, "Gb": 6, "bb": 10, "EB": 3, "7": 7, " A ": 9} {
		pc, ok := ParseNote(in)
		assert.True(ok, in)
		assert.Equal(want, pc, in)
	}
	for _, in := range []string{"", "H", "12", "-1", "C##"} {
		_, ok := ParseNote(in)
		assert.False(ok, in)
	}
}
