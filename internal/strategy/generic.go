package strategy

import (
	"strings"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/entity"
)

// GenericStrategy is the fallback when no vendor fingerprint matched. It
// scans each visual row for a value-looking token preceded by word
// fragments and treats those words as the test name. Everything after the
// value is classified by shape: range tokens, unit tokens, flag tokens.
// Rows it produces score lower downstream than rows from a matched layout.
type GenericStrategy struct{}

func (GenericStrategy) ID() constants.StrategyID { return constants.StrategyGeneric }

func (s GenericStrategy) ExtractRows(frags []entity.RawFragment) []entity.RawRow {
	rows := groupRows(frags)

	var out []entity.RawRow
	for _, vr := range rows {
		cells, ok := scanRow(vr)
		if !ok {
			continue
		}
		out = append(out, entity.RawRow{
			Fragments:  vr.frags,
			Cells:      cells,
			StrategyID: s.ID(),
			Page:       vr.page,
			Y:          vr.y,
		})
	}
	return out
}

func scanRow(vr visualRow) (entity.RowCells, bool) {
	valueIdx := -1
	for i, f := range vr.frags {
		if isValueToken(f.Text) {
			valueIdx = i
			break
		}
	}
	if valueIdx < 1 {
		return entity.RowCells{}, false
	}

	var nameParts []string
	for _, f := range vr.frags[:valueIdx] {
		nameParts = append(nameParts, f.Text)
	}
	name := strings.TrimSpace(strings.Join(nameParts, " "))
	if name == "" || isNumericToken(name) {
		return entity.RowCells{}, false
	}

	cells := entity.RowCells{
		Name:  name,
		Value: vr.frags[valueIdx].Text,
	}
	// Flag and qualitative tokens are claimed before the unit case: the
	// unit shape is loose enough to swallow "H" or "Negative".
	for _, f := range vr.frags[valueIdx+1:] {
		t := f.Text
		_, isFlag := constants.ParseFlagToken(t)
		switch {
		case cells.Range == "" && reRangeToken.MatchString(t):
			cells.Range = t
		case cells.Flag == "" && isFlag:
			cells.Flag = t
		case cells.Range == "" && isQualitativeToken(t):
			cells.Range = t
		case cells.Unit == "" && reUnitToken.MatchString(t) && !isNumericToken(t) && !isQualitativeToken(t):
			cells.Unit = t
		}
	}
	return cells, true
}
