package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/mylabvault/labvault/constants"
)

// PriorImport records that the same document bytes were imported before.
// The session is still fully parsed; the human decides what to do with it.
type PriorImport struct {
	ImportID      int64     `json:"import_id"`
	ImportedAt    time.Time `json:"imported_at"`
	TestsImported int       `json:"tests_imported"`
}

// ImportSession holds one document's candidates from extraction until commit
// or discard. It owns its candidates exclusively until commit.
type ImportSession struct {
	ID             uuid.UUID               `json:"id"`
	SourceRef      string                  `json:"source_ref"`
	ContentHash    string                  `json:"content_hash"` // sha256 hex of the document bytes
	PatientID      int64                   `json:"patient_id"`
	CreatedAt      time.Time               `json:"created_at"`
	VendorDetected *string                 `json:"vendor_detected,omitempty"`
	DetectionScore float64                 `json:"detection_score"`
	Candidates     []CandidateResult       `json:"candidates"`
	Status         constants.SessionStatus `json:"status"`
	// DedupDegraded is set when the storage query failed and deduplication
	// fell back to intra-batch checks only.
	DedupDegraded bool         `json:"dedup_degraded"`
	PriorImport   *PriorImport `json:"prior_import,omitempty"`
	// ImportLogID is the import_log row recorded for this session, 0 when
	// the import log was unavailable.
	ImportLogID int64 `json:"import_log_id,omitempty"`
	// CommittedKeys maps import keys already persisted to their stored IDs,
	// so a retried commit after partial failure never double-writes.
	CommittedKeys map[string]int64 `json:"committed_keys,omitempty"`
}

// Candidate returns the candidate with the given ID, or nil.
func (s *ImportSession) Candidate(id uuid.UUID) *CandidateResult {
	for i := range s.Candidates {
		if s.Candidates[i].ID == id {
			return &s.Candidates[i]
		}
	}
	return nil
}

// Selected returns the candidates currently marked for commit, in document
// order.
func (s *ImportSession) Selected() []CandidateResult {
	var out []CandidateResult
	for _, c := range s.Candidates {
		if c.Status == constants.CandidateSelected {
			out = append(out, c)
		}
	}
	return out
}

// StoredResult is a read model of an existing result in durable storage,
// used by the deduplicator.
type StoredResult struct {
	ID             int64      `json:"id"`
	PatientID      int64      `json:"patient_id"`
	TestName       string     `json:"test_name"`
	ValueNumeric   *float64   `json:"value_numeric,omitempty"`
	ValueText      *string    `json:"value_text,omitempty"`
	Unit           *string    `json:"unit,omitempty"`
	CollectionDate *time.Time `json:"collection_date,omitempty"`
	ImportKey      string     `json:"import_key"`
}

// StoredRef points at a persisted result by ID plus the import key it was
// persisted under.
type StoredRef struct {
	ID        int64  `json:"id"`
	ImportKey string `json:"import_key"`
}
