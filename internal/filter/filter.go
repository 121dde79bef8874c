// Package filter normalizes raw filter input typed into list views.
//
// Every function returns the normalized value and whether the filter is
// present. Absent filters place no constraint on the query. Normalizing an
// already-normalized value yields the same result.
package filter

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is the API's wall-clock timestamp layout.
const DateTimeLayout = "2006-01-02 15:04:05"

// DateLayout is the day-granularity layout accepted by date filters.
const DateLayout = "2006-01-02"

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	DateTimeLayout,
	"2006-01-02 15:04",
	DateLayout,
}

// Text trims raw; an empty result is absent.
func Text(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// PositiveInt parses raw as a base-10 integer ID. Zero, negative and
// unparseable values are absent.
func PositiveInt(raw string) (int64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Number parses raw as a finite float within [min, max].
func Number(raw string, min, max float64) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < min || f > max {
		return 0, false
	}
	return f, true
}

// Time parses raw using the layouts the API and operators use, in loc.
// Unparseable input is absent.
func Time(raw string, loc *time.Location) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Enum matches raw case-insensitively against allowed and returns the
// canonical spelling.
func Enum(raw string, allowed ...string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	for _, candidate := range allowed {
		if strings.EqualFold(trimmed, candidate) {
			return candidate, true
		}
	}
	return "", false
}
