package theory

import "strings"

var numerals = [MAX_SCALE_LEN]string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII"}

// Numeral labels a degree of scale the way a harmony textbook would:
// upper case for a major triad, lower case for minor, ° for diminished and
// + for augmented.
func Numeral(s Scale, degree int) string {
	n := s.Len()
	if n == 0 || degree < 1 || degree > n || degree > len(numerals) {
		return "?"
	}
	idx := degree - 1
	step := func(k int) int {
		pos := idx + k
		return s.Intervals[pos%n] + 12*(pos/n)
	}
	third := step(2) - step(0)
	fifth := step(4) - step(0)
	label := numerals[idx]
	switch {
	case third == 4 && fifth == 8:
		return label + "+"
	case third == 3 && fifth == 6:
		return strings.ToLower(label) + "°"
	case third <= 3:
		return strings.ToLower(label)
	default:
		return label
	}
}
