package strategy

import (
	"math"
	"regexp"
	"strings"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/entity"
)

// ColumnStrategy reconstructs rows from reports with a printed header row
// (test / result / unit / reference / flag). Column bands come from the
// header fragments' X positions; each subsequent row is rebuilt by
// intersecting its fragments with those bands. A repeated header (page
// break) re-anchors the bands.
type ColumnStrategy struct{}

func (ColumnStrategy) ID() constants.StrategyID { return constants.StrategyColumn }

type columnKind int

const (
	colNone columnKind = iota
	colName
	colValue
	colUnit
	colRange
	colFlag
)

var headerWords = map[string]columnKind{
	"test":      colName,
	"tests":     colName,
	"component": colName,
	"analyte":   colName,
	"result":    colValue,
	"results":   colValue,
	"value":     colValue,
	"current":   colValue, // "Current Result"
	"unit":      colUnit,
	"units":     colUnit,
	"reference": colRange,
	"interval":  colRange,
	"range":     colRange,
	"flag":      colFlag,
	"status":    colFlag,
}

type columnBand struct {
	kind columnKind
	from float64
	to   float64
}

// rePanelHeader: standalone panel lines like "Lipid Panel" or
// "Comp. Metabolic Panel (14) (322000)".
var rePanelHeader = regexp.MustCompile(`(?i)(panel|cbc|blood count|metabolic|lipid|hepatitis|thyroid)\b.*$|\(\d+\)\s*$`)

func (s ColumnStrategy) ExtractRows(frags []entity.RawFragment) []entity.RawRow {
	rows := groupRows(frags)

	var out []entity.RawRow
	var bands []columnBand
	panel := ""
	for _, vr := range rows {
		if hb := headerBands(vr); hb != nil {
			bands = hb
			continue
		}
		if bands == nil {
			continue
		}

		cells := mapToBands(vr, bands)
		name := strings.TrimSpace(cells.Name)
		switch {
		case name != "" && cells.Value != "":
			out = append(out, entity.RawRow{
				Fragments:  vr.frags,
				Cells:      cells,
				StrategyID: s.ID(),
				Page:       vr.page,
				Y:          vr.y,
				Panel:      panel,
			})
		case name != "" && rowIsPanelHeader(vr):
			panel = strings.Join(strings.Fields(vr.text()), " ")
		case name != "" && len(out) > 0 && cells.Unit == "" && cells.Range == "":
			// Wrapped test name: merge the continuation line into the row
			// above before the next header repetition.
			prev := &out[len(out)-1]
			prev.Cells.Name = prev.Cells.Name + " " + name
			prev.Fragments = append(prev.Fragments, vr.frags...)
		}
	}
	return out
}

// headerBands recognizes a header row and derives column bands from it.
// Adjacent header fragments of the same kind ("Reference Interval") merge
// into one band. Returns nil when the row is not a header.
func headerBands(vr visualRow) []columnBand {
	var bands []columnBand
	kinds := map[columnKind]bool{}
	for _, f := range vr.frags {
		kind, ok := headerWords[normToken(f.Text)]
		if !ok {
			kind = colNone
		}
		if n := len(bands); n > 0 && bands[n-1].kind == kind {
			continue
		}
		bands = append(bands, columnBand{kind: kind, from: f.Box.X})
		kinds[kind] = true
	}
	if !kinds[colName] || !kinds[colValue] {
		return nil
	}
	// An unrecognized leading fragment would swallow the name band; a
	// patient/specimen info table must not be mistaken for results.
	for _, f := range vr.frags {
		up := strings.ToUpper(f.Text)
		if strings.Contains(up, "SPECIMEN") || strings.Contains(up, "PATIENT") || strings.Contains(up, "ACCOUNT") {
			return nil
		}
	}
	for i := range bands {
		if i+1 < len(bands) {
			bands[i].to = bands[i+1].from
		} else {
			bands[i].to = math.MaxFloat64
		}
	}
	// The name band owns everything left of the header's first column.
	if bands[0].kind == colName {
		bands[0].from = 0
	}
	return bands
}

func mapToBands(vr visualRow, bands []columnBand) entity.RowCells {
	parts := map[columnKind][]string{}
	for _, f := range vr.frags {
		kind := colNone
		for _, b := range bands {
			if f.Box.X >= b.from-1 && f.Box.X < b.to-1 {
				kind = b.kind
				break
			}
		}
		if kind == colNone {
			continue
		}
		parts[kind] = append(parts[kind], f.Text)
	}
	join := func(k columnKind) string { return strings.Join(parts[k], " ") }
	return entity.RowCells{
		Name:  join(colName),
		Value: join(colValue),
		Unit:  join(colUnit),
		Range: join(colRange),
		Flag:  join(colFlag),
	}
}

func rowIsPanelHeader(vr visualRow) bool {
	for _, f := range vr.frags {
		if isNumericToken(f.Text) {
			return false
		}
	}
	return rePanelHeader.MatchString(vr.text())
}
