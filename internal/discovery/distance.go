package discovery

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDistance reads the number at the start of a distance label such as
// "1.2 km", ignoring leading whitespace and whatever follows the number.
// ok is false when no number can be read. Only digit forms count, so
// "Infinity" and "NaN" are unparsable.
func ParseDistance(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	n := numberPrefix(s)
	if n == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// numberPrefix returns the length of the longest prefix of s shaped like
// [+-]digits[.digits][e[+-]digits], or 0 if there is none.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := digits(s[i:])
	i += intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = digits(s[i+1:])
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if d := digits(s[j:]); d > 0 {
			i = j + d
		}
	}
	return i
}

func digits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
