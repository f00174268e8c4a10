// Package period parses the engine's period-string grammar ("15m", "1h",
// "1d", "1w", "1mo"/"1M", "1y") into minute counts, floors datetimes to
// bucket boundaries, and sanitizes period strings into table-safe
// identifiers.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chidi150c/bartest/internal/bars"
)

// ToMinutes maps a period string to a minute count. Case-insensitive suffix
// dispatch, except that a literal uppercase "M" (not part of "mo"/"MO")
// means months while lowercase "m" means minutes — the one case-sensitive
// distinction in the grammar.
func ToMinutes(p string) (int64, error) {
	n, ok := toMinutes(p)
	if !ok {
		return 0, fmt.Errorf("%w: unsupported period %q", bars.ErrInvalidInput, p)
	}
	return n, nil
}

func toMinutes(p string) (int64, bool) {
	if p == "" {
		return 0, false
	}
	lower := strings.ToLower(p)
	// Two-letter "mo" suffix (either case) always means months.
	if strings.HasSuffix(lower, "mo") {
		return parseUnit(p[:len(p)-2], 43200)
	}
	// Bare single-letter suffix: case distinguishes minute from month.
	if strings.HasSuffix(p, "M") {
		return parseUnit(p[:len(p)-1], 43200)
	}
	switch {
	case strings.HasSuffix(lower, "m"):
		return parseUnit(p[:len(p)-1], 1)
	case strings.HasSuffix(lower, "h"):
		return parseUnit(p[:len(p)-1], 60)
	case strings.HasSuffix(lower, "d"):
		return parseUnit(p[:len(p)-1], 1440)
	case strings.HasSuffix(lower, "w"):
		return parseUnit(p[:len(p)-1], 10080)
	case strings.HasSuffix(lower, "y"):
		return parseUnit(p[:len(p)-1], 525600)
	default:
		return 0, false
	}
}

func parseUnit(numStr string, perUnit int64) (int64, bool) {
	n, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n * perUnit, true
}

// FloorToBucket floors t to the start of its period-minutes bucket. For
// periods >= 1440 minutes it floors to midnight of t's date. Otherwise it
// floors within the day to the largest multiple of minutes.
func FloorToBucket(t time.Time, minutes int64) time.Time {
	y, m, d := t.Date()
	if minutes >= 1440 {
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
	totalMinutes := int64(t.Hour())*60 + int64(t.Minute())
	rounded := (totalMinutes / minutes) * minutes
	return time.Date(y, m, d, int(rounded/60), int(rounded%60), 0, 0, t.Location())
}

// SanitizeIdentifier lowercases a period string, replaces each
// non-alphanumeric character with '_', and trims leading/trailing
// underscores, for use as a table
// name suffix: "klines_<sanitized>".
func SanitizeIdentifier(p string) (string, error) {
	var b strings.Builder
	b.Grow(len(p))
	for _, r := range p {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			b.WriteRune(toLowerASCII(r))
		} else {
			b.WriteByte('_')
		}
	}
	sanitized := strings.Trim(b.String(), "_")
	if sanitized == "" {
		return "", fmt.Errorf("%w: period %q has no alphanumeric characters", bars.ErrInvalidInput, p)
	}
	return sanitized, nil
}

func toLowerASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// TableName returns the BarStore table name for a period string.
func TableName(p string) (string, error) {
	s, err := SanitizeIdentifier(p)
	if err != nil {
		return "", err
	}
	return "klines_" + s, nil
}
