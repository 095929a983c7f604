package entity

import "github.com/mylabvault/labvault/constants"

// BoundingBox is a fragment's position on its page, in PDF points with the
// origin at the lower-left corner (Y grows upward).
type BoundingBox struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RawFragment is one positioned unit of extracted text. Immutable; produced
// once per document by the loader and consumed only within the same run.
type RawFragment struct {
	Text     string      `json:"text"`
	Page     int         `json:"page"` // zero-based
	Box      BoundingBox `json:"box"`
	FontSize float64     `json:"font_size"`
}

// RowCells is the column-mapped view of a putative result line. Empty string
// means the cell was not present; the normalizer degrades gracefully.
type RowCells struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
	Range string `json:"range"`
	Flag  string `json:"flag"`
}

// RawRow is one putative test-result line, owned by the strategy that
// produced it. Fragments keep document provenance (page, vertical position)
// so per-row collection dates can be resolved independently.
type RawRow struct {
	Fragments  []RawFragment        `json:"fragments"`
	Cells      RowCells             `json:"cells"`
	StrategyID constants.StrategyID `json:"strategy_id"`
	Page       int                  `json:"page"`
	Y          float64              `json:"y"` // row band position on the page
	// Panel is the panel header the row appeared under, when one was seen.
	Panel string `json:"panel,omitempty"`
}
