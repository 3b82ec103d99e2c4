// Package hexcolor normalizes and compares 24-bit RGB colors encoded as hex
// strings. All comparisons work on canonical values: "#" followed by exactly
// six uppercase hex digits.
package hexcolor

import "strings"

// Distance maxima for the two schemes. Nibble distance weights sum to
// (8+1)*3 = 27, times a max per-digit difference of 15.
const (
	MaxNibbleDistance    = 405
	MaxManhattanDistance = 765
)

// nibbleWeights weight the high nibble of each channel 8x the low nibble,
// so coarse channel mismatches dominate fine ones.
var nibbleWeights = [6]int{8, 1, 8, 1, 8, 1}

// Normalize canonicalizes a hex color string. It accepts an optional leading
// "#" and either 3 or 6 hex digits; 3-digit shorthand is expanded by doubling
// each digit ("abc" -> "#AABBCC"). Returns "" if the input is not a valid
// 3- or 6-digit hex color.
func Normalize(input string) string {
	s := strings.TrimPrefix(strings.TrimSpace(input), "#")

	switch len(s) {
	case 3:
		var b strings.Builder
		b.Grow(7)
		b.WriteByte('#')
		for i := 0; i < 3; i++ {
			v, ok := hexDigit(s[i])
			if !ok {
				return ""
			}
			c := upperHex(v)
			b.WriteByte(c)
			b.WriteByte(c)
		}
		return b.String()
	case 6:
		var b strings.Builder
		b.Grow(7)
		b.WriteByte('#')
		for i := 0; i < 6; i++ {
			v, ok := hexDigit(s[i])
			if !ok {
				return ""
			}
			b.WriteByte(upperHex(v))
		}
		return b.String()
	default:
		return ""
	}
}

// NibbleDistance computes the weighted per-digit distance between two
// canonical colors. Each of the six digit positions contributes the absolute
// difference of the digit values times its weight. Range [0, 405].
// Both arguments must be canonical; non-canonical input yields -1.
func NibbleDistance(a, b string) int {
	da, ok := digits(a)
	if !ok {
		return -1
	}
	db, ok := digits(b)
	if !ok {
		return -1
	}

	dist := 0
	for i := 0; i < 6; i++ {
		d := da[i] - db[i]
		if d < 0 {
			d = -d
		}
		dist += d * nibbleWeights[i]
	}
	return dist
}

// ManhattanDistance computes the sum of absolute per-channel differences
// between two canonical colors. Range [0, 765]. This is the legacy scheme;
// it is not interchangeable with NibbleDistance because callers commit to
// the scheme's tolerance range. Non-canonical input yields -1.
func ManhattanDistance(a, b string) int {
	ra, ga, ba, ok := Components(a)
	if !ok {
		return -1
	}
	rb, gb, bb, ok := Components(b)
	if !ok {
		return -1
	}
	return absDiff(ra, rb) + absDiff(ga, gb) + absDiff(ba, bb)
}

// Components splits a canonical color into its 8-bit channel values.
func Components(c string) (r, g, b int, ok bool) {
	d, ok := digits(c)
	if !ok {
		return 0, 0, 0, false
	}
	return d[0]<<4 | d[1], d[2]<<4 | d[3], d[4]<<4 | d[5], true
}

// digits extracts the six digit values from a canonical color.
func digits(c string) ([6]int, bool) {
	var d [6]int
	if len(c) != 7 || c[0] != '#' {
		return d, false
	}
	for i := 0; i < 6; i++ {
		v, ok := hexDigit(c[i+1])
		if !ok {
			return d, false
		}
		d[i] = v
	}
	return d, true
}

func hexDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

func upperHex(v int) byte {
	if v < 10 {
		return byte('0' + v)
	}
	return byte('A' + v - 10)
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
