package normalize

import "regexp"

// instructionalSkipPatterns match report text that must never become a test
// name or panel name: comment blocks, disclaimers, standalone flag words,
// risk labels, and stray column headers.
var instructionalSkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Comments?:`),
	regexp.MustCompile(`(?i)Interpretation:`),
	regexp.MustCompile(`(?i)Please note`),
	regexp.MustCompile(`(?i)Note:`),
	regexp.MustCompile(`(?i)Important:`),
	regexp.MustCompile(`(?i)Instructions?:`),
	regexp.MustCompile(`(?i)Disclaimer:`),
	regexp.MustCompile(`(?i)Warning:`),
	regexp.MustCompile(`(?i)Request Problem`),
	regexp.MustCompile(`(?i)^\s*Borderline\s+High\s*$`),
	regexp.MustCompile(`(?i)^\s*Very\s+High\s*$`),
	regexp.MustCompile(`(?i)^\s*High\s*$`),
	regexp.MustCompile(`(?i)^\s*Low\s*$`),
	regexp.MustCompile(`(?i)^\s*Normal\s*$`),
	regexp.MustCompile(`(?i)^\s*Abnormal\s*$`),
	regexp.MustCompile(`(?i)^\s*High\s+Risk\s*$`),
	regexp.MustCompile(`(?i)^\s*Moderate\s+Risk\s*$`),
	regexp.MustCompile(`(?i)^\s*Low\s+Risk\s*$`),
	regexp.MustCompile(`(?i)insufficiency\s+as\s+a\s+level`),
	regexp.MustCompile(`(?i)guideline\.\s*JCEM`),
	regexp.MustCompile(`(?i)between\s*$`),
	regexp.MustCompile(`(?i)^\s*Reference\s+(Range|Interval)\s*$`),
	regexp.MustCompile(`(?i)^\s*Flag\s*$`),
	regexp.MustCompile(`(?i)^\s*Units?\s*$`),
	regexp.MustCompile(`(?i)^\s*Result\s*$`),
	regexp.MustCompile(`(?i)^\s*Test\s*$`),
	regexp.MustCompile(`(?i)^\s*Component\s*$`),
	regexp.MustCompile(`(?i)^\s*Status\s*$`),
}

// paginationPatterns match page-number artifacts that bleed into unit and
// name cells when a report wraps across pages.
var paginationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*page\s+\d+\s+of\s+\d+`),
	regexp.MustCompile(`(?i)\s*\d+\s+of\s+\d+`),
	regexp.MustCompile(`(?i)\s*p\.\s*\d+\s*/\s*\d+`),
	regexp.MustCompile(`(?i)\s*\(\s*\d+\s*/\s*\d+\s*\)`),
}

var reDigitsOnly = regexp.MustCompile(`^[\d.,\s<>-]+$`)

// IsInstructionalText reports whether text matches any skip pattern.
func IsInstructionalText(text string) bool {
	if text == "" {
		return false
	}
	for _, p := range instructionalSkipPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// CleanPaginationText strips page-number artifacts from a cell.
func CleanPaginationText(text string) string {
	for _, p := range paginationPatterns {
		text = p.ReplaceAllString(text, "")
	}
	return trimSpace(text)
}

// IsValidTestName rejects names that are empty, purely numeric, or
// instructional artifacts.
func IsValidTestName(name string) bool {
	name = trimSpace(name)
	if len(name) < 2 {
		return false
	}
	if reDigitsOnly.MatchString(name) {
		return false
	}
	return !IsInstructionalText(name)
}
