package theory

// Quality is the kind of chord inserted between two keys.
type Quality int

const (
	V7 Quality = iota
	Iv
	BVII
	Dim7
	Random
)

const NUM_QUALITIES = 5

var qualityNames = [NUM_QUALITIES]string{"V7", "iv", "bVII", "dim7", "Random"}

// semitones above the target tonic
var qualityIntervals = [...]int{
	V7:   7,
	Iv:   5,
	BVII: 10,
	Dim7: 11,
}

var qualityTemplates = [...][4]int{
	V7:   {0, 4, 7, 10},
	Iv:   {0, 3, 7, 10},
	BVII: {0, 4, 7, 10},
	Dim7: {0, 3, 6, 9},
}

func (q Quality) String() string {
	if q < 0 || int(q) >= NUM_QUALITIES {
		return qualityNames[V7]
	}
	return qualityNames[q]
}

func ParseQuality(name string) (Quality, bool) {
	for i, n := range qualityNames {
		if n == name {
			return Quality(i), true
		}
	}
	return V7, false
}

// Resolve picks a concrete quality for Random. intn follows math/rand's Intn.
func (q Quality) Resolve(intn func(int) int) Quality {
	if q == Random {
		return Quality(intn(int(Random)))
	}
	if q < 0 || q > Random {
		return V7
	}
	return q
}

// Interval is the distance of the transition root above the target tonic.
func (q Quality) Interval() int {
	if q < 0 || int(q) >= len(qualityIntervals) {
		return qualityIntervals[V7]
	}
	return qualityIntervals[q]
}

func (q Quality) Template() [4]int {
	if q < 0 || int(q) >= len(qualityTemplates) {
		return qualityTemplates[V7]
	}
	return qualityTemplates[q]
}
