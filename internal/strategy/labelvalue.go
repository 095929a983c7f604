package strategy

import (
	"regexp"
	"strings"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/entity"
)

// LabelValueStrategy handles reports without a column grid, where each
// result prints as a single line: name, value, optional unit, optional
// reference range, optional flag. Quest summary pages use this shape.
type LabelValueStrategy struct{}

func (LabelValueStrategy) ID() constants.StrategyID { return constants.StrategyLabelValue }

// reLabelValue captures "NAME  VALUE [UNIT] [RANGE] [FLAG]" from a joined
// row line. The name stops at the first value-looking token.
var reLabelValue = regexp.MustCompile(
	`^(?P<name>[A-Za-z][A-Za-z0-9 ,./()%'-]*?)\s+` +
		`(?P<value>[<>]?\d[\d,]*(\.\d+)?[*†‡]?|[Nn]egative|[Pp]ositive|[Rr]eactive|[Nn]on-?[Rr]eactive|[Dd]etected|[Nn]ot [Dd]etected)` +
		`(?:\s+(?P<unit>[A-Za-z%µ][A-Za-z0-9%µ/^.*-]*(?:/[A-Za-z0-9.^]+)*))?` +
		`(?:\s+(?P<range>[<>≤≥]?\s?\d[\d,]*(\.\d+)?(?:\s?-\s?\d[\d,]*(\.\d+)?)?|[Nn]egative|[Nn]on-?[Rr]eactive))?` +
		`(?:\s+(?P<flag>[A-Z]{1,4}|\*+))?\s*$`)

func (s LabelValueStrategy) ExtractRows(frags []entity.RawFragment) []entity.RawRow {
	rows := groupRows(frags)

	var out []entity.RawRow
	for _, vr := range rows {
		line := strings.Join(strings.Fields(vr.text()), " ")
		m := reLabelValue.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		cells := entity.RowCells{}
		for i, name := range reLabelValue.SubexpNames() {
			switch name {
			case "name":
				cells.Name = strings.TrimSpace(m[i])
			case "value":
				cells.Value = m[i]
			case "unit":
				cells.Unit = m[i]
			case "range":
				cells.Range = strings.TrimSpace(m[i])
			case "flag":
				cells.Flag = m[i]
			}
		}
		if cells.Name == "" || cells.Value == "" {
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
