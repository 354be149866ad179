// Money helpers. Amounts travel as float64 and are rounded to two decimals
// at every boundary; comparisons use a half-cent tolerance so that binary
// float noise never flips a business rule.
package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Tolerance is the allowance under which two amounts are considered equal.
// Half a cent: large enough to absorb float error, small enough to never
// hide a real cent.
const Tolerance = 0.005

const roundEpsilon = 1e-9

var numberPattern = regexp.MustCompile(`-?\d+(\.\d+)?`)

// ParseAmount coerces a loosely formatted amount string to a decimal.
//
// It tolerates surrounding whitespace, currency symbols, thousands
// separators and either comma or dot decimal marks. A dot followed by
// exactly three digits and a non-digit (or end of input) is treated as a
// thousands separator, not a decimal point.
//
//	ParseAmount("1.234,56") -> 1234.56
//	ParseAmount("R$ 12,50") -> 12.5
//	ParseAmount("1.5")      -> 1.5
func ParseAmount(raw string) (float64, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = stripThousandsDots(s)
	s = strings.ReplaceAll(s, ",", ".")

	m := numberPattern.FindString(s)
	if m == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// stripThousandsDots removes dots that act as thousands separators: a dot
// directly followed by exactly three digits and then a non-digit or the
// end of the string.
func stripThousandsDots(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '.' {
			b.WriteByte(s[i])
			continue
		}
		digits := 0
		for j := i + 1; j < len(s) && s[j] >= '0' && s[j] <= '9'; j++ {
			digits++
		}
		if digits == 3 {
			continue
		}
		b.WriteByte('.')
	}
	return b.String()
}

// Round rounds to two decimal places, half away from zero. The value is
// nudged by a tiny epsilon first so that amounts sitting just under a
// half-cent boundary due to binary representation round the way a human
// would expect (1.005 -> 1.01).
func Round(v float64) float64 {
	return math.Round((v+math.Copysign(roundEpsilon, v))*100) / 100
}

// Add returns round(base + delta).
func Add(base, delta float64) float64 {
	return Round(base + delta)
}

// AmountsEqual reports whether two amounts differ by at most Tolerance.
// The comparison grants the same epsilon Round uses: a difference that is
// exactly half a cent on paper can land a hair above 0.005 in binary
// (10.005 - 10 is ~0.005000000000000078) and must still compare equal.
func AmountsEqual(a, b float64) bool {
	return math.Abs(a-b) <= Tolerance+roundEpsilon
}
