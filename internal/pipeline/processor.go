package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/common"
	"github.com/mylabvault/labvault/internal/dedup"
	"github.com/mylabvault/labvault/internal/detect"
	"github.com/mylabvault/labvault/internal/entity"
	"github.com/mylabvault/labvault/internal/normalize"
	"github.com/mylabvault/labvault/internal/repository"
	"github.com/mylabvault/labvault/internal/score"
	"github.com/mylabvault/labvault/internal/staging"
	"github.com/mylabvault/labvault/internal/strategy"
)

// FragmentSource extracts positioned text fragments from document bytes.
// *document.Loader is the production implementation.
type FragmentSource interface {
	Extract(content []byte, sourceID string) ([]entity.RawFragment, int, error)
}

// Processor runs the extraction pipeline for one document: fragments,
// vendor detection, row extraction, normalization, scoring, dedup, and
// staging. Documents are independent; run one Processor and call it from
// as many goroutines as you like.
type Processor struct {
	logger     *slog.Logger
	source     FragmentSource
	detector   *detect.Detector
	normalizer *normalize.Normalizer
	scorer     *score.Scorer
	dedup      *dedup.Deduplicator
	store      *staging.Store
	imports    repository.ImportLogRepository
}

func NewProcessor(
	logger *slog.Logger,
	source FragmentSource,
	detector *detect.Detector,
	normalizer *normalize.Normalizer,
	scorer *score.Scorer,
	deduplicator *dedup.Deduplicator,
	store *staging.Store,
	imports repository.ImportLogRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:     logger,
		source:     source,
		detector:   detector,
		normalizer: normalizer,
		scorer:     scorer,
		dedup:      deduplicator,
		store:      store,
		imports:    imports,
	}
}

// ParseDocument runs the full pipeline and stages the resulting session.
// An unsupported layout yields a session with zero candidates, not an
// error; only unreadable or oversized documents fail.
func (p *Processor) ParseDocument(ctx context.Context, content []byte, sourceRef string, patientID int64) (*entity.ImportSession, error) {
	start := time.Now()

	sum := sha256.Sum256(content)
	contentHash := hex.EncodeToString(sum[:])

	frags, pages, err := p.source.Extract(content, sourceRef)
	if err != nil {
		p.logger.Error("pipeline.extract.failed", "source", sourceRef, "err", err)
		return nil, err
	}

	det := p.detector.Detect(frags)
	rows := strategy.ForID(det.Strategy).ExtractRows(frags)
	if len(rows) == 0 && det.Strategy != constants.StrategyGeneric {
		p.logger.Warn("pipeline.strategy.empty", "source", sourceRef, "strategy", string(det.Strategy))
		rows = strategy.ForID(constants.StrategyGeneric).ExtractRows(frags)
	}

	docCtx := normalize.BuildDocContext(frags)
	session := &entity.ImportSession{
		ID:             uuid.New(),
		SourceRef:      sourceRef,
		ContentHash:    contentHash,
		PatientID:      patientID,
		CreatedAt:      time.Now().UTC(),
		DetectionScore: det.Score,
		Status:         constants.SessionOpen,
	}
	if det.Vendor != constants.VendorGeneric {
		v := det.Vendor
		session.VendorDetected = &v
	}

	for _, row := range rows {
		c := p.normalizer.Normalize(row, docCtx)
		if c == nil {
			continue
		}
		p.scorer.Score(c, det.Score)
		session.Candidates = append(session.Candidates, *c)
	}

	p.dedup.Annotate(ctx, session)
	p.applyDefaultSelection(session)

	if p.imports != nil {
		if prior, err := p.imports.FindByHash(ctx, contentHash); err != nil {
			p.logger.Warn("pipeline.importlog.lookup_failed", "source", sourceRef, "err", err)
		} else {
			session.PriorImport = prior
		}
		if id, err := p.imports.Record(ctx, session); err != nil {
			p.logger.Warn("pipeline.importlog.record_failed", "source", sourceRef, "err", err)
		} else {
			session.ImportLogID = id
		}
	}

	p.store.Put(session)
	p.logger.Info("pipeline.parse.done",
		"source", sourceRef,
		"session_id", session.ID,
		"vendor", det.Vendor,
		"strategy", string(det.Strategy),
		"pages", pages,
		"candidates", len(session.Candidates),
		"dedup_degraded", session.DedupDegraded,
		"duration", time.Since(start),
	)
	return session, nil
}

// applyDefaultSelection marks candidates selected unless they sit at or
// below the low-confidence floor or duplicate a stored result. Both stay
// pending for the reviewer.
func (p *Processor) applyDefaultSelection(session *entity.ImportSession) {
	floor := p.scorer.Floor()
	for i := range session.Candidates {
		c := &session.Candidates[i]
		dupStored := c.DuplicateOf != nil && c.DuplicateOf.Kind == constants.DuplicateOfStored
		if c.Confidence > floor && !dupStored {
			c.Status = constants.CandidateSelected
		}
	}
}

// CommitSelected persists the session's selected candidates. A storage
// failure leaves the session open and retryable.
func (p *Processor) CommitSelected(ctx context.Context, sessionID uuid.UUID) ([]entity.StoredRef, error) {
	session, err := p.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	refs, err := p.store.Commit(ctx, sessionID, session.ImportLogID)
	if err != nil {
		return refs, common.WrapError(err, "commit session "+sessionID.String())
	}
	return refs, nil
}
