package normalize

import "strings"

var qualitativePatterns = []string{
	"NEGATIVE", "POSITIVE", "NON REACTIVE", "NON-REACTIVE", "REACTIVE",
	"INDETERMINATE", "NOT DETECTED", "DETECTED", "BORDERLINE", "ABNORMAL",
	"NORMAL", "SATISFACTORY", "UNSATISFACTORY", "PRESENT", "ABSENT",
	"INCONCLUSIVE",
}

// IsQualitative reports whether a printed result is text-based rather than
// numeric.
func IsQualitative(value string) bool {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	for _, p := range qualitativePatterns {
		if strings.Contains(v, p) {
			return true
		}
	}
	return false
}

// StandardizeQualitative collapses qualitative variants to canonical
// spellings: Negative, Positive, Indeterminate. Unrecognized values pass
// through trimmed.
func StandardizeQualitative(value string) string {
	v := strings.ToUpper(strings.TrimSpace(value))
	for _, neg := range []string{"NEGATIVE", "NON REACTIVE", "NON-REACTIVE", "NOT DETECTED", "ABSENT"} {
		if strings.Contains(v, neg) {
			return "Negative"
		}
	}
	for _, pos := range []string{"POSITIVE", "REACTIVE", "DETECTED", "PRESENT"} {
		if strings.Contains(v, pos) {
			return "Positive"
		}
	}
	for _, ind := range []string{"INDETERMINATE", "BORDERLINE", "INCONCLUSIVE"} {
		if strings.Contains(v, ind) {
			return "Indeterminate"
		}
	}
	return strings.TrimSpace(value)
}
