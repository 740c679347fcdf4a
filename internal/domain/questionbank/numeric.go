package questionbank

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var ErrInvalidNumericKey = errors.New("invalid numeric answer key")

// NumericKey is a parsed NumericAnswer correct answer: a single literal, or
// a range whose endpoints are kept in storage order.
type NumericKey struct {
	Lo, Hi float64
	Range  bool
}

// rangeSep matches the separators accepted between range endpoints in source
// data. The canonical separator is a comma.
var rangeSep = regexp.MustCompile(`(?i)\s*(?:,|\bto\b|:)\s*`)

// ParseNumericKey parses "x", "a,b", "a to b" or "a:b".
func ParseNumericKey(s string) (NumericKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NumericKey{}, fmt.Errorf("%w: empty", ErrInvalidNumericKey)
	}

	parts := rangeSep.Split(s, -1)
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return NumericKey{}, fmt.Errorf("%w: %q", ErrInvalidNumericKey, s)
		}
		return NumericKey{Lo: v, Hi: v}, nil
	case 2:
		lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLo != nil || errHi != nil {
			return NumericKey{}, fmt.Errorf("%w: %q", ErrInvalidNumericKey, s)
		}
		return NumericKey{Lo: lo, Hi: hi, Range: true}, nil
	default:
		return NumericKey{}, fmt.Errorf("%w: %q", ErrInvalidNumericKey, s)
	}
}

// canonicalNumericKey rewrites an accepted key into "x" or "a,b", keeping the
// source literals.
func canonicalNumericKey(s string) (string, error) {
	if _, err := ParseNumericKey(s); err != nil {
		return "", err
	}
	parts := rangeSep.Split(strings.TrimSpace(s), -1)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ","), nil
}
