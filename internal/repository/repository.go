package repository

import (
	"context"
	"time"

	"github.com/mylabvault/labvault/internal/entity"
)

// ResultRepository is the storage collaborator: the deduplicator queries it
// and commit hands selected candidates to it. PersistResults must be
// idempotent per import key.
type ResultRepository interface {
	// FindExisting returns stored results for the patient and test name
	// whose collection date falls inside [date-window, date+window]. A nil
	// date matches stored results with no date.
	FindExisting(ctx context.Context, patientID int64, nameKey string, date *time.Time, window time.Duration) ([]entity.StoredResult, error)
	// PersistResults writes candidates and returns one StoredRef per input,
	// in order. A candidate whose import key already exists is not written
	// again; its existing ref is returned. Refs are all-or-nothing: on error
	// no refs are returned and no write is durable, except a lost commit
	// ack, which a full retry absorbs via the import-key upsert.
	PersistResults(ctx context.Context, patientID int64, candidates []entity.CandidateResult) ([]entity.StoredRef, error)
}

// ImportLogRepository records document imports so identical bytes can be
// recognized on re-upload and batch history can be queried.
type ImportLogRepository interface {
	FindByHash(ctx context.Context, contentHash string) (*entity.PriorImport, error)
	Record(ctx context.Context, session *entity.ImportSession) (int64, error)
	MarkCommitted(ctx context.Context, importID int64, testsImported int) error
}
