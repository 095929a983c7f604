package staging

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/common"
	"github.com/mylabvault/labvault/internal/entity"
	"github.com/mylabvault/labvault/internal/repository"
)

// fakeResultRepo persists into a map with the real repository's failure
// contract: refs are all-or-nothing. failAck simulates the worst allowed
// case, a write that lands but whose acknowledgment is lost.
type fakeResultRepo struct {
	stored   map[string]int64
	nextID   int64
	failAck  bool
	persists int
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{stored: map[string]int64{}, nextID: 100}
}

func (f *fakeResultRepo) FindExisting(ctx context.Context, patientID int64, nameKey string, date *time.Time, window time.Duration) ([]entity.StoredResult, error) {
	return nil, nil
}

func (f *fakeResultRepo) PersistResults(ctx context.Context, patientID int64, candidates []entity.CandidateResult) ([]entity.StoredRef, error) {
	var refs []entity.StoredRef
	for _, c := range candidates {
		key := c.ImportKey(patientID)
		id, ok := f.stored[key]
		if !ok {
			f.nextID++
			id = f.nextID
			f.stored[key] = id
			f.persists++
		}
		refs = append(refs, entity.StoredRef{ID: id, ImportKey: key})
	}
	if f.failAck {
		return nil, common.ErrStorageUnavailable
	}
	return refs, nil
}

func numericCandidate(name string, value float64) entity.CandidateResult {
	v := value
	d := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	return entity.CandidateResult{
		ID:             uuid.New(),
		TestNameRaw:    name,
		ValueNumeric:   &v,
		CollectionDate: &d,
		Status:         constants.CandidateSelected,
		Confidence:     0.9,
	}
}

func stagedSession(t *testing.T, store *Store, cands ...entity.CandidateResult) *entity.ImportSession {
	t.Helper()
	s := &entity.ImportSession{ID: uuid.New(), PatientID: 7, Candidates: cands}
	store.Put(s)
	return s
}

func TestSelectRejectTransitions(t *testing.T) {
	store := NewStore(newFakeResultRepo(), nil, nil)
	s := stagedSession(t, store, numericCandidate("Glucose", 95))
	id := s.Candidates[0].ID

	require.NoError(t, store.Reject(s.ID, id))
	assert.Equal(t, constants.CandidateRejected, s.Candidates[0].Status)

	require.NoError(t, store.Select(s.ID, id))
	assert.Equal(t, constants.CandidateSelected, s.Candidates[0].Status)
}

func TestSelectUnknownSessionOrCandidate(t *testing.T) {
	store := NewStore(newFakeResultRepo(), nil, nil)
	s := stagedSession(t, store, numericCandidate("Glucose", 95))

	err := store.Select(uuid.New(), s.Candidates[0].ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.Select(s.ID, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSelectOnClosedSessionLeavesStateUnchanged(t *testing.T) {
	repo := newFakeResultRepo()
	store := NewStore(repo, nil, nil)
	s := stagedSession(t, store, numericCandidate("Glucose", 95))
	id := s.Candidates[0].ID

	_, err := store.Commit(context.Background(), s.ID, 0)
	require.NoError(t, err)
	require.Equal(t, constants.SessionCommitted, s.Status)

	err = store.Reject(s.ID, id)
	assert.ErrorIs(t, err, common.ErrSessionClosed)
	assert.Equal(t, constants.CandidateSelected, s.Candidates[0].Status, "no state change on a closed session")
}

func TestCommitPersistsOnlySelected(t *testing.T) {
	repo := newFakeResultRepo()
	store := NewStore(repo, nil, nil)
	rejected := numericCandidate("TSH", 2.31)
	rejected.Status = constants.CandidateRejected
	pending := numericCandidate("WBC", 6.4)
	pending.Status = constants.CandidatePending
	s := stagedSession(t, store, numericCandidate("Glucose", 95), rejected, pending)

	refs, err := store.Commit(context.Background(), s.ID, 0)
	require.NoError(t, err)
	assert.Len(t, refs, 1)
	assert.Equal(t, 1, repo.persists)
	assert.Equal(t, constants.SessionCommitted, s.Status)
}

func TestCommitTwiceIsRejectedAndNothingDoubleWrites(t *testing.T) {
	repo := newFakeResultRepo()
	store := NewStore(repo, nil, nil)
	s := stagedSession(t, store, numericCandidate("Glucose", 95))

	_, err := store.Commit(context.Background(), s.ID, 0)
	require.NoError(t, err)

	_, err = store.Commit(context.Background(), s.ID, 0)
	assert.ErrorIs(t, err, common.ErrSessionClosed)
	assert.Equal(t, 1, repo.persists)
}

func TestCommitLostAckIsRetryable(t *testing.T) {
	repo := newFakeResultRepo()
	repo.failAck = true // writes land but storage never acknowledges them
	store := NewStore(repo, nil, nil)
	s := stagedSession(t, store,
		numericCandidate("Glucose", 95),
		numericCandidate("TSH", 2.31),
	)

	refs, err := store.Commit(context.Background(), s.ID, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrStorageUnavailable))
	assert.Empty(t, refs, "unacknowledged writes are never reported as durable")
	assert.Equal(t, constants.SessionOpen, s.Status, "session stays open for retry")
	assert.Empty(t, s.CommittedKeys)

	// Storage recovers; the retry replays every selected candidate and the
	// import-key identity absorbs the writes that already landed.
	repo.failAck = false
	refs, err = store.Commit(context.Background(), s.ID, 0)
	require.NoError(t, err)
	assert.Len(t, refs, 2, "all selected results accounted for")
	assert.Equal(t, 2, repo.persists, "each logical result persisted exactly once")
	assert.Equal(t, constants.SessionCommitted, s.Status)
}

func TestDiscard(t *testing.T) {
	repo := newFakeResultRepo()
	store := NewStore(repo, nil, nil)
	s := stagedSession(t, store, numericCandidate("Glucose", 95))

	require.NoError(t, store.Discard(s.ID))
	assert.Equal(t, constants.SessionDiscarded, s.Status)

	_, err := store.Commit(context.Background(), s.ID, 0)
	assert.ErrorIs(t, err, common.ErrSessionClosed)
	assert.Equal(t, 0, repo.persists)
}

// TestCommitMidBatchFailureRetryLosesNothing drives the real sqlite
// repository through a mid-batch insert failure. The rollback must leave
// nothing behind, Commit must not record anything as durable, and the
// retry must land every selected candidate.
func TestCommitMidBatchFailureRetryLosesNothing(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repository.Migrate(ctx, db, repository.DialectSQLite))

	// Abort the second candidate's insert mid-transaction.
	_, err = db.ExecContext(ctx, `CREATE TRIGGER storage_outage BEFORE INSERT ON lab_results
		WHEN NEW.test_name = 'TSH' BEGIN SELECT RAISE(ABORT, 'storage outage'); END`)
	require.NoError(t, err)

	repo := repository.NewResultRepository(db, repository.DialectSQLite, nil)
	store := NewStore(repo, nil, nil)
	s := stagedSession(t, store,
		numericCandidate("Glucose", 95),
		numericCandidate("TSH", 2.31),
	)

	refs, err := store.Commit(ctx, s.ID, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrStorageUnavailable))
	assert.Empty(t, refs)
	assert.Equal(t, constants.SessionOpen, s.Status)
	assert.Empty(t, s.CommittedKeys, "rolled-back rows are never bookkept as committed")

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lab_results").Scan(&count))
	assert.Zero(t, count, "the failed transaction left no rows behind")

	_, err = db.ExecContext(ctx, "DROP TRIGGER storage_outage")
	require.NoError(t, err)

	refs, err = store.Commit(ctx, s.ID, 0)
	require.NoError(t, err)
	assert.Len(t, refs, 2)
	assert.Equal(t, constants.SessionCommitted, s.Status)

	rows, err := db.QueryContext(ctx, "SELECT test_name FROM lab_results ORDER BY test_name")
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"Glucose", "TSH"}, names, "the retry recovers every selected result")
}

func TestGet(t *testing.T) {
	store := NewStore(newFakeResultRepo(), nil, nil)
	s := stagedSession(t, store, numericCandidate("Glucose", 95))

	got, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)

	_, err = store.Get(uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}
