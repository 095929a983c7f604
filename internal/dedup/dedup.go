package dedup

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/entity"
	"github.com/mylabvault/labvault/internal/repository"
)

// Deduplicator annotates candidates that look like duplicates, either of an
// earlier candidate in the same session or of a result already in storage.
// Annotation never blocks staging; the human decides what a duplicate means.
type Deduplicator struct {
	results repository.ResultRepository
	relTol  float64
	window  time.Duration
	logger  *slog.Logger
}

func NewDeduplicator(results repository.ResultRepository, relTol float64, windowDays int, logger *slog.Logger) *Deduplicator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deduplicator{
		results: results,
		relTol:  relTol,
		window:  time.Duration(windowDays) * 24 * time.Hour,
		logger:  logger,
	}
}

// Annotate sets DuplicateOf on session candidates. Storage query failures
// degrade deduplication to intra-batch only and set DedupDegraded on the
// session; they never fail the import.
func (d *Deduplicator) Annotate(ctx context.Context, session *entity.ImportSession) {
	d.annotateIntraBatch(session)
	d.annotateAgainstStorage(ctx, session)
}

// annotateIntraBatch marks the later of two matching candidates as a
// duplicate of the earlier, in document order. A candidate already marked
// is skipped so chains collapse to the earliest original.
func (d *Deduplicator) annotateIntraBatch(session *entity.ImportSession) {
	cands := session.Candidates
	for i := range cands {
		if cands[i].DuplicateOf != nil {
			continue
		}
		for j := 0; j < i; j++ {
			if cands[j].DuplicateOf != nil {
				continue
			}
			if d.sameLogicalResult(&cands[j], &cands[i]) {
				cands[i].DuplicateOf = &entity.DuplicateRef{
					Kind:        constants.DuplicateOfCandidate,
					CandidateID: cands[j].ID,
				}
				break
			}
		}
	}
}

func (d *Deduplicator) sameLogicalResult(a, b *entity.CandidateResult) bool {
	if a.NameKey() != b.NameKey() {
		return false
	}
	if !sameDate(a.CollectionDate, b.CollectionDate) {
		return false
	}
	if a.ValueNumeric != nil && b.ValueNumeric != nil {
		return withinRelTolerance(*a.ValueNumeric, *b.ValueNumeric, d.relTol)
	}
	return a.ValueKey() == b.ValueKey()
}

func (d *Deduplicator) annotateAgainstStorage(ctx context.Context, session *entity.ImportSession) {
	if d.results == nil {
		return
	}
	cands := session.Candidates
	for i := range cands {
		c := &cands[i]
		if c.DuplicateOf != nil {
			continue
		}
		existing, err := retry.DoWithData(
			func() ([]entity.StoredResult, error) {
				return d.results.FindExisting(ctx, session.PatientID, c.NameKey(), c.CollectionDate, d.window)
			},
			retry.Context(ctx),
			retry.Attempts(3),
			retry.Delay(100*time.Millisecond),
			retry.LastErrorOnly(true),
		)
		if err != nil {
			d.logger.Warn("dedup.storage.degraded", "session_id", session.ID, "error", err)
			session.DedupDegraded = true
			return
		}
		// Any stored result on the same (name, date window) key is a likely
		// duplicate even when the value differs; a differing value is a
		// judgment call for the reviewer, not a silent second import.
		if len(existing) > 0 {
			c.DuplicateOf = &entity.DuplicateRef{
				Kind:     constants.DuplicateOfStored,
				StoredID: existing[0].ID,
			}
		}
	}
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func withinRelTolerance(a, b, tol float64) bool {
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return true
	}
	return math.Abs(a-b)/scale <= tol
}
