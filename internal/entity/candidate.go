package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mylabvault/labvault/constants"
)

// RefRange is a parsed reference range. Low/High are nil for open-ended
// ranges; Text always keeps the printed form (including qualitative ranges
// like "Negative" that have no numeric bounds).
type RefRange struct {
	Low  *float64 `json:"low,omitempty"`
	High *float64 `json:"high,omitempty"`
	Text string   `json:"text"`
}

// Qualitative reports whether the range carries no numeric bound at all.
func (r *RefRange) Qualitative() bool {
	return r != nil && r.Low == nil && r.High == nil && r.Text != ""
}

// DuplicateRef annotates a candidate as a likely duplicate. Targets are
// opaque keys, never direct references: the stored record belongs to another
// subsystem and batch peers may not be committed yet.
type DuplicateRef struct {
	Kind        constants.DuplicateKind `json:"kind"`
	CandidateID uuid.UUID               `json:"candidate_id,omitempty"` // when Kind == DuplicateOfCandidate
	StoredID    int64                   `json:"stored_id,omitempty"`    // when Kind == DuplicateOfStored
}

// CandidateResult is the unit that survives to staging: one extracted,
// normalized, scored, not-yet-committed lab result.
type CandidateResult struct {
	ID                uuid.UUID                 `json:"id"`
	TestNameRaw       string                    `json:"test_name_raw"`
	TestNameCanonical *string                   `json:"test_name_canonical,omitempty"`
	ValueRaw          string                    `json:"value_raw"`
	ValueNumeric      *float64                  `json:"value_numeric,omitempty"`
	ValueQualitative  *string                   `json:"value_qualitative,omitempty"`
	Unit              *string                   `json:"unit,omitempty"`
	ReferenceRange    *RefRange                 `json:"reference_range,omitempty"`
	Flag              constants.ResultFlag      `json:"flag"`
	CollectionDate    *time.Time                `json:"collection_date,omitempty"`
	ProviderHint      *string                   `json:"provider_hint,omitempty"`
	PanelHint         *string                   `json:"panel_hint,omitempty"`
	StrategyID        constants.StrategyID      `json:"strategy_id"`
	Confidence        float64                   `json:"confidence"`
	DuplicateOf       *DuplicateRef             `json:"duplicate_of,omitempty"`
	Status            constants.CandidateStatus `json:"status"`
	Warnings          []string                  `json:"warnings,omitempty"`
}

// NameKey is the dedup/persistence name: the canonical name when resolved,
// otherwise the raw name, lowercased with collapsed whitespace.
func (c *CandidateResult) NameKey() string {
	n := c.TestNameRaw
	if c.TestNameCanonical != nil {
		n = *c.TestNameCanonical
	}
	return strings.Join(strings.Fields(strings.ToLower(n)), " ")
}

// ValueKey is the value part of the idempotency key: the parsed numeric
// value when present, otherwise the raw text.
func (c *CandidateResult) ValueKey() string {
	if c.ValueNumeric != nil {
		return fmt.Sprintf("%g", *c.ValueNumeric)
	}
	return strings.ToLower(strings.TrimSpace(c.ValueRaw))
}

// ImportKey is the stable per-candidate idempotency key the commit
// collaborator relies on: (patient, name, collection date, value). Committing
// the same key twice persists the logical result exactly once.
func (c *CandidateResult) ImportKey(patientID int64) string {
	date := "-"
	if c.CollectionDate != nil {
		date = c.CollectionDate.Format("2006-01-02")
	}
	return fmt.Sprintf("%d|%s|%s|%s", patientID, c.NameKey(), date, c.ValueKey())
}
