// Package strategy converts positioned fragments into candidate raw rows.
//
// Each strategy is a stateless function over fragments, selected once by the
// vendor detector. All of them tolerate page breaks inside a logical row,
// footnote markers stuck to values, qualitative values, and multiple
// collection dates per page; none of them raises.
package strategy

import (
	"regexp"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/entity"
)

// RowExtractor is the single capability all strategies implement.
type RowExtractor interface {
	ID() constants.StrategyID
	ExtractRows(frags []entity.RawFragment) []entity.RawRow
}

// ForID returns the extractor for a strategy id, defaulting to the generic
// fallback so detection can never block extraction.
func ForID(id constants.StrategyID) RowExtractor {
	switch id {
	case constants.StrategyColumn:
		return ColumnStrategy{}
	case constants.StrategyLabelValue:
		return LabelValueStrategy{}
	default:
		return GenericStrategy{}
	}
}

// reNumericToken matches a result value token: optional </> qualifier, then
// digits with optional thousands separators and decimal part, optionally with
// footnote markers attached ("95*", "1,250", ">1000").
var reNumericToken = regexp.MustCompile(`^[<>]?\d[\d,]*(\.\d+)?[*†‡]?$`)

// reRangeToken matches a printed reference interval token.
var reRangeToken = regexp.MustCompile(`^([<>]?\d[\d,]*(\.\d+)?(-[<>]?\d[\d,]*(\.\d+)?)?|≥\d[\d,]*(\.\d+)?)$`)

// reUnitToken matches a unit token (letters, slashes, percent, powers).
var reUnitToken = regexp.MustCompile(`^[A-Za-zµ%][A-Za-z0-9µ/%^.()-]*$`)

// Qualitative result words recognized as values in place of a numeric token.
var qualitativeWords = map[string]bool{
	"positive": true, "negative": true, "reactive": true, "nonreactive": true,
	"non-reactive": true, "detected": true, "indeterminate": true,
	"borderline": true, "present": true, "absent": true,
	"satisfactory": true, "unsatisfactory": true, "inconclusive": true,
}

func isNumericToken(s string) bool { return reNumericToken.MatchString(s) }

func isQualitativeToken(s string) bool {
	return qualitativeWords[normToken(s)]
}

func isValueToken(s string) bool {
	return isNumericToken(s) || isQualitativeToken(s)
}
