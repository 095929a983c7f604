package staging

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/common"
	"github.com/mylabvault/labvault/internal/entity"
	"github.com/mylabvault/labvault/internal/repository"
)

// Store holds import sessions between extraction and commit. Sessions live
// in memory; the external layer governs their time-to-live. All methods are
// safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.ImportSession

	results repository.ResultRepository
	imports repository.ImportLogRepository
	logger  *slog.Logger
}

func NewStore(results repository.ResultRepository, imports repository.ImportLogRepository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[uuid.UUID]*entity.ImportSession),
		results:  results,
		imports:  imports,
		logger:   logger,
	}
}

// Put stages a session. The store owns the session from here on; callers
// interact with it through the session ID.
func (s *Store) Put(session *entity.ImportSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.Status = constants.SessionOpen
	s.sessions[session.ID] = session
}

// Get returns the staged session, or ErrNotFound.
func (s *Store) Get(id uuid.UUID) (*entity.ImportSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, common.WrapError(common.ErrNotFound, "session "+id.String())
	}
	return session, nil
}

// Select marks a candidate for commit. Returns ErrSessionClosed when the
// session is no longer open; the session state is unchanged in that case.
func (s *Store) Select(sessionID, candidateID uuid.UUID) error {
	return s.setCandidateStatus(sessionID, candidateID, constants.CandidateSelected)
}

// Reject excludes a candidate from commit. Same closed-session contract as
// Select.
func (s *Store) Reject(sessionID, candidateID uuid.UUID) error {
	return s.setCandidateStatus(sessionID, candidateID, constants.CandidateRejected)
}

func (s *Store) setCandidateStatus(sessionID, candidateID uuid.UUID, status constants.CandidateStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return common.WrapError(common.ErrNotFound, "session "+sessionID.String())
	}
	if session.Status != constants.SessionOpen {
		return common.WrapError(common.ErrSessionClosed, string(session.Status))
	}
	c := session.Candidate(candidateID)
	if c == nil {
		return common.WrapError(common.ErrNotFound, "candidate "+candidateID.String())
	}
	c.Status = status
	return nil
}

// Discard transitions the session to discarded; its candidates become
// unreachable for commit. Discarding a closed session is an error; the
// uploaded document bytes are not touched.
func (s *Store) Discard(sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return common.WrapError(common.ErrNotFound, "session "+sessionID.String())
	}
	if session.Status != constants.SessionOpen {
		return common.WrapError(common.ErrSessionClosed, string(session.Status))
	}
	session.Status = constants.SessionDiscarded
	return nil
}

// Commit persists the selected candidates and closes the session. On a
// storage failure the session stays open and any refs the repository did
// acknowledge are recorded in CommittedKeys, so a retry writes only the
// remainder; the repository's import-key upsert makes the retry idempotent
// even when the failure struck after a write landed (a lost commit ack).
func (s *Store) Commit(ctx context.Context, sessionID uuid.UUID, importID int64) ([]entity.StoredRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, common.WrapError(common.ErrNotFound, "session "+sessionID.String())
	}
	if session.Status != constants.SessionOpen {
		return nil, common.WrapError(common.ErrSessionClosed, string(session.Status))
	}
	if session.CommittedKeys == nil {
		session.CommittedKeys = make(map[string]int64)
	}

	selected := session.Selected()
	var pending []entity.CandidateResult
	var refs []entity.StoredRef
	for _, c := range selected {
		key := c.ImportKey(session.PatientID)
		if id, done := session.CommittedKeys[key]; done {
			refs = append(refs, entity.StoredRef{ID: id, ImportKey: key})
			continue
		}
		pending = append(pending, c)
	}

	persisted, err := s.results.PersistResults(ctx, session.PatientID, pending)
	for _, ref := range persisted {
		session.CommittedKeys[ref.ImportKey] = ref.ID
		refs = append(refs, ref)
	}
	if err != nil {
		s.logger.Error("staging.commit.failed", "session_id", sessionID,
			"persisted", len(persisted), "pending", len(pending)-len(persisted), "error", err)
		return refs, err
	}

	session.Status = constants.SessionCommitted
	if s.imports != nil && importID != 0 {
		if err := s.imports.MarkCommitted(ctx, importID, len(selected)); err != nil {
			s.logger.Warn("staging.commit.log_failed", "session_id", sessionID, "error", err)
		}
	}
	s.logger.Info("staging.commit.done", "session_id", sessionID, "persisted", len(refs))
	return refs, nil
}
