package normalize

import (
	"strconv"
	"strings"

	"github.com/mylabvault/labvault/internal/entity"
)

// ParseRange parses a printed reference range. Supported shapes: "low-high",
// "<high", ">low", "≤high", "≥low", and qualitative ranges ("Negative",
// "Non-Reactive") which keep only their text. Unparseable text is preserved
// as a text-only range rather than dropped.
func ParseRange(text string) *entity.RefRange {
	text = trimSpace(text)
	if text == "" {
		return nil
	}

	if IsQualitative(text) {
		return &entity.RefRange{Text: StandardizeQualitative(text)}
	}

	if strings.Contains(text, "-") && !strings.HasPrefix(text, "<") && !strings.HasPrefix(text, ">") {
		parts := strings.SplitN(text, "-", 2)
		low, errLow := parseRangeBound(parts[0])
		high, errHigh := parseRangeBound(parts[1])
		if errLow == nil && errHigh == nil {
			return &entity.RefRange{Low: &low, High: &high, Text: text}
		}
	}

	switch {
	case strings.HasPrefix(text, "<") || strings.HasPrefix(text, "≤"):
		if v, err := parseRangeBound(strings.TrimLeft(text, "<≤")); err == nil {
			return &entity.RefRange{High: &v, Text: text}
		}
	case strings.HasPrefix(text, ">") || strings.HasPrefix(text, "≥"):
		if v, err := parseRangeBound(strings.TrimLeft(text, ">≥")); err == nil {
			return &entity.RefRange{Low: &v, Text: text}
		}
	}

	return &entity.RefRange{Text: text}
}

func parseRangeBound(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return strconv.ParseFloat(s, 64)
}
