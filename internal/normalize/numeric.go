package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reFootnote = regexp.MustCompile(`[*†‡]+$`)
	// reTrailingUnit detects a unit glued onto the value cell ("95 mg/dL").
	reTrailingUnit = regexp.MustCompile(`^([<>]?\s*-?[\d,]+(?:\.\d+)?)\s+([A-Za-z%µ][A-Za-z0-9%µ/^.²-]*)$`)
)

func trimSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func strconvFormat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// SplitValueUnit separates a co-located unit from a value cell. Returns the
// value text and the unit ("" when none was glued on).
func SplitValueUnit(value string) (string, string) {
	value = trimSpace(value)
	if m := reTrailingUnit.FindStringSubmatch(value); m != nil {
		return strings.TrimSpace(m[1]), m[2]
	}
	return value, ""
}

// ParseNumeric parses a printed result value: thousands separators and
// footnote markers are stripped, leading < and > are dropped so "<0.5"
// parses as 0.5. Returns nil when the text is not a single number.
func ParseNumeric(value string) *float64 {
	v := trimSpace(value)
	if v == "" {
		return nil
	}
	v = reFootnote.ReplaceAllString(v, "")
	v = strings.TrimLeft(v, "<>≤≥")
	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimSpace(v)
	if strings.Count(v, ".") > 1 {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
