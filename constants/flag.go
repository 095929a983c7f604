package constants

import "strings"

// ResultFlag is the canonical abnormality classification for a lab result.
type ResultFlag string

// Stable values (store these exact strings in DB).
const (
	FlagNormal   ResultFlag = "NORMAL"
	FlagHigh     ResultFlag = "HIGH"
	FlagLow      ResultFlag = "LOW"
	FlagAbnormal ResultFlag = "ABNORMAL"
	FlagCritical ResultFlag = "CRITICAL"
	FlagUnknown  ResultFlag = "UNKNOWN"
)

// flagTokens maps printed flag tokens seen on lab reports to canonical flags.
// Keys are uppercase.
var flagTokens = map[string]ResultFlag{
	"H":          FlagHigh,
	"HI":         FlagHigh,
	"HIGH":       FlagHigh,
	"L":          FlagLow,
	"LO":         FlagLow,
	"LOW":        FlagLow,
	"N":          FlagNormal,
	"NORMAL":     FlagNormal,
	"WNL":        FlagNormal,
	"A":          FlagAbnormal,
	"ABN":        FlagAbnormal,
	"ABNORMAL":   FlagAbnormal,
	"C":          FlagCritical,
	"CRIT":       FlagCritical,
	"CRITICAL":   FlagCritical,
	"PANIC":      FlagCritical,
	"CRITICALLY": FlagCritical,
}

// ParseFlagToken maps a printed flag token to a canonical ResultFlag.
// Trailing footnote markers are tolerated. Returns FlagUnknown and false
// when the token is not a recognized flag.
func ParseFlagToken(tok string) (ResultFlag, bool) {
	tok = strings.ToUpper(strings.TrimRight(strings.TrimSpace(tok), "*†‡"))
	if tok == "" {
		return FlagUnknown, false
	}
	f, ok := flagTokens[tok]
	return f, ok
}

// IsCriticalToken reports whether a printed token marks a critical/panic value.
// A critical marker always overrides a computed classification.
func IsCriticalToken(tok string) bool {
	f, ok := ParseFlagToken(tok)
	return ok && f == FlagCritical
}
