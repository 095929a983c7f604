package normalize

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/entity"
	"github.com/mylabvault/labvault/internal/lexicon"
)

// Normalizer converts raw rows into typed candidates. It never fails a row
// outright for a bad field: individual fields degrade to absence and leave a
// warning, and only rows whose name is instructional junk are dropped.
type Normalizer struct {
	lex    lexicon.Lexicon
	logger *slog.Logger
}

func NewNormalizer(lex lexicon.Lexicon, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{lex: lex, logger: logger}
}

// Normalize builds a CandidateResult from a raw row. Returns nil when the
// row is not a result at all (instructional text, artifact names).
func (n *Normalizer) Normalize(row entity.RawRow, docCtx DocContext) *entity.CandidateResult {
	name := CleanPaginationText(row.Cells.Name)
	if !IsValidTestName(name) {
		n.logger.Debug("normalize.row.rejected", "name", row.Cells.Name, "page", row.Page)
		return nil
	}

	c := &entity.CandidateResult{
		ID:          uuid.New(),
		TestNameRaw: name,
		ValueRaw:    trimSpace(row.Cells.Value),
		StrategyID:  row.StrategyID,
		Status:      constants.CandidatePending,
	}

	entry, kind := n.lex.Match(name)
	if kind != lexicon.MatchNone {
		canon := entry.CanonicalName
		c.TestNameCanonical = &canon
	}

	valueText, glueUnit := SplitValueUnit(c.ValueRaw)
	c.ValueNumeric = ParseNumeric(valueText)
	if c.ValueNumeric == nil && IsQualitative(valueText) {
		q := StandardizeQualitative(valueText)
		c.ValueQualitative = &q
	}
	if c.ValueNumeric == nil && c.ValueQualitative == nil {
		c.Warnings = append(c.Warnings, "value not parseable")
	}

	if unit := resolveUnit(row.Cells.Unit, glueUnit, entry, kind); unit != "" {
		c.Unit = &unit
	}

	c.ReferenceRange = ParseRange(row.Cells.Range)
	if c.ReferenceRange == nil && kind != lexicon.MatchNone && (entry.RangeLow != nil || entry.RangeHigh != nil) {
		c.ReferenceRange = defaultRange(entry)
	}

	c.Flag = resolveFlag(row.Cells.Flag, c)
	c.CollectionDate = docCtx.ResolveDate(row.Page, row.Y)
	c.ProviderHint = docCtx.Provider
	if row.Panel != "" {
		p := row.Panel
		c.PanelHint = &p
	}
	return c
}

// resolveUnit prefers the printed unit cell, then a unit glued onto the
// value, then the lexicon default for recognized tests.
func resolveUnit(printed, glued string, entry lexicon.Entry, kind lexicon.MatchKind) string {
	if u := CleanPaginationText(printed); u != "" {
		return u
	}
	if glued != "" {
		return glued
	}
	if kind != lexicon.MatchNone {
		return entry.DefaultUnit
	}
	return ""
}

func defaultRange(entry lexicon.Entry) *entity.RefRange {
	r := &entity.RefRange{Low: entry.RangeLow, High: entry.RangeHigh}
	switch {
	case r.Low != nil && r.High != nil:
		r.Text = trimSpace(formatBound(*r.Low) + "-" + formatBound(*r.High))
	case r.Low != nil:
		r.Text = ">" + formatBound(*r.Low)
	case r.High != nil:
		r.Text = "<" + formatBound(*r.High)
	}
	return r
}

func formatBound(f float64) string {
	return trimSpace(strconvFormat(f))
}

// resolveFlag applies the priority order: printed flag token, then
// classification of the numeric value against the parsed range, then
// unknown. A printed critical marker always wins. Qualitative values are
// judged against a qualitative range when both exist.
func resolveFlag(printed string, c *entity.CandidateResult) constants.ResultFlag {
	if constants.IsCriticalToken(printed) {
		return constants.FlagCritical
	}
	if f, ok := constants.ParseFlagToken(printed); ok {
		return f
	}
	r := c.ReferenceRange
	if c.ValueNumeric != nil && r != nil && (r.Low != nil || r.High != nil) {
		v := *c.ValueNumeric
		switch {
		case r.Low != nil && v < *r.Low:
			return constants.FlagLow
		case r.High != nil && v > *r.High:
			return constants.FlagHigh
		default:
			return constants.FlagNormal
		}
	}
	if c.ValueQualitative != nil && r.Qualitative() {
		if *c.ValueQualitative == r.Text {
			return constants.FlagNormal
		}
		return constants.FlagAbnormal
	}
	return constants.FlagUnknown
}
