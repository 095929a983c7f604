package strategy

import (
	"sort"
	"strings"

	"github.com/mylabvault/labvault/internal/entity"
)

// rowBandTolerance is the Y tolerance (points) for putting fragments into
// the same visual row band.
const rowBandTolerance = 4.0

// visualRow is one horizontal band of fragments on a page, left to right.
type visualRow struct {
	page  int
	y     float64
	frags []entity.RawFragment
}

func (r visualRow) text() string {
	parts := make([]string, len(r.frags))
	for i, f := range r.frags {
		parts[i] = f.Text
	}
	return strings.Join(parts, " ")
}

// groupRows buckets fragments into visual rows per page, ordered
// top-to-bottom in document order, left-to-right within a row. It never
// re-derives the document: the loader's positions are all it needs.
func groupRows(frags []entity.RawFragment) []visualRow {
	byPage := map[int][]entity.RawFragment{}
	var pages []int
	for _, f := range frags {
		if _, ok := byPage[f.Page]; !ok {
			pages = append(pages, f.Page)
		}
		byPage[f.Page] = append(byPage[f.Page], f)
	}
	sort.Ints(pages)

	var rows []visualRow
	for _, page := range pages {
		pf := byPage[page]
		sort.SliceStable(pf, func(i, j int) bool {
			if d := pf[i].Box.Y - pf[j].Box.Y; d > rowBandTolerance || d < -rowBandTolerance {
				return pf[i].Box.Y > pf[j].Box.Y
			}
			return pf[i].Box.X < pf[j].Box.X
		})
		var cur *visualRow
		for _, f := range pf {
			if cur == nil || cur.y-f.Box.Y > rowBandTolerance || f.Box.Y-cur.y > rowBandTolerance {
				rows = append(rows, visualRow{page: page, y: f.Box.Y})
				cur = &rows[len(rows)-1]
			}
			cur.frags = append(cur.frags, f)
		}
	}
	return rows
}

// normToken lowercases a token and strips punctuation that commonly sticks
// to header or value tokens.
func normToken(s string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(s)), ":;,.")
}
