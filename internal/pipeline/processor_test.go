package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/common"
	"github.com/mylabvault/labvault/internal/dedup"
	"github.com/mylabvault/labvault/internal/detect"
	"github.com/mylabvault/labvault/internal/entity"
	"github.com/mylabvault/labvault/internal/lexicon"
	"github.com/mylabvault/labvault/internal/normalize"
	"github.com/mylabvault/labvault/internal/repository"
	"github.com/mylabvault/labvault/internal/score"
	"github.com/mylabvault/labvault/internal/staging"
)

type fakeSource struct {
	frags []entity.RawFragment
	pages int
	err   error
}

func (f *fakeSource) Extract(content []byte, sourceID string) ([]entity.RawFragment, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.frags, f.pages, nil
}

type fakeResultRepo struct {
	stored []entity.StoredResult
	nextID int64
}

func (f *fakeResultRepo) FindExisting(ctx context.Context, patientID int64, nameKey string, date *time.Time, window time.Duration) ([]entity.StoredResult, error) {
	var out []entity.StoredResult
	for _, s := range f.stored {
		if s.PatientID == patientID && s.TestName == nameKey {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) PersistResults(ctx context.Context, patientID int64, candidates []entity.CandidateResult) ([]entity.StoredRef, error) {
	var refs []entity.StoredRef
	for _, c := range candidates {
		f.nextID++
		refs = append(refs, entity.StoredRef{ID: f.nextID, ImportKey: c.ImportKey(patientID)})
	}
	return refs, nil
}

type fakeImportLog struct {
	prior         *entity.PriorImport
	recorded      []*entity.ImportSession
	committedID   int64
	committedLen  int
	markCommitted int
}

func (f *fakeImportLog) FindByHash(ctx context.Context, contentHash string) (*entity.PriorImport, error) {
	return f.prior, nil
}

func (f *fakeImportLog) Record(ctx context.Context, session *entity.ImportSession) (int64, error) {
	f.recorded = append(f.recorded, session)
	return int64(len(f.recorded)), nil
}

func (f *fakeImportLog) MarkCommitted(ctx context.Context, importID int64, testsImported int) error {
	f.markCommitted++
	f.committedID = importID
	f.committedLen = testsImported
	return nil
}

func frag(text string, page int, x, y float64) entity.RawFragment {
	return entity.RawFragment{Text: text, Page: page, Box: entity.BoundingBox{X: x, Y: y}}
}

// labReportFragments mimics a LabCorp-style column report: fingerprint
// markers, a collection date, a column header, and two result rows.
func labReportFragments() []entity.RawFragment {
	return []entity.RawFragment{
		frag("Patient Report", 0, 40, 780),
		frag("Date Collected: 01/15/2025", 0, 40, 760),
		frag("Tests Ordered", 0, 40, 740),

		frag("Test", 0, 40, 700),
		frag("Result", 0, 180, 700),
		frag("Flag", 0, 260, 700),
		frag("Units", 0, 320, 700),
		frag("Reference", 0, 400, 700),
		frag("Interval", 0, 460, 700),

		frag("Glucose", 0, 40, 680),
		frag("95", 0, 185, 680),
		frag("mg/dL", 0, 325, 680),
		frag("70-99", 0, 405, 680),

		frag("Potassium", 0, 40, 660),
		frag("5.8", 0, 185, 660),
		frag("H", 0, 262, 660),
		frag("mmol/L", 0, 325, 660),
		frag("3.5-5.2", 0, 405, 660),
	}
}

func newTestProcessor(t *testing.T, source FragmentSource, results repository.ResultRepository, imports repository.ImportLogRepository) (*Processor, *staging.Store) {
	t.Helper()
	lex := lexicon.NewStatic(lexicon.DefaultEntries(), 2)
	store := staging.NewStore(results, imports, nil)
	p := NewProcessor(
		nil,
		source,
		detect.NewDetector(detect.DefaultFingerprints(), 0.40, nil),
		normalize.NewNormalizer(lex, nil),
		score.NewScorer(score.DefaultWeights(), 0.40, lex),
		dedup.NewDeduplicator(results, 0.01, 1, nil),
		store,
		imports,
	)
	return p, store
}

func TestParseDocumentStagesSession(t *testing.T) {
	ctx := context.Background()
	results := &fakeResultRepo{}
	imports := &fakeImportLog{}
	p, store := newTestProcessor(t, &fakeSource{frags: labReportFragments(), pages: 1}, results, imports)

	session, err := p.ParseDocument(ctx, []byte("pdf bytes"), "report.pdf", 7)
	require.NoError(t, err)
	require.NotNil(t, session)

	require.NotNil(t, session.VendorDetected)
	assert.Equal(t, constants.VendorLabCorp, *session.VendorDetected)
	assert.Greater(t, session.DetectionScore, 0.40)
	assert.Equal(t, constants.SessionOpen, session.Status)

	require.Len(t, session.Candidates, 2)
	glucose, potassium := session.Candidates[0], session.Candidates[1]

	require.NotNil(t, glucose.TestNameCanonical)
	assert.Equal(t, "Glucose", *glucose.TestNameCanonical)
	require.NotNil(t, glucose.ValueNumeric)
	assert.Equal(t, 95.0, *glucose.ValueNumeric)
	assert.Equal(t, constants.FlagNormal, glucose.Flag)
	require.NotNil(t, glucose.CollectionDate)
	assert.Equal(t, "2025-01-15", glucose.CollectionDate.Format("2006-01-02"))

	assert.Equal(t, constants.FlagHigh, potassium.Flag)

	// Both clear the floor and duplicate nothing, so both are selected.
	assert.Equal(t, constants.CandidateSelected, glucose.Status)
	assert.Equal(t, constants.CandidateSelected, potassium.Status)

	assert.NotZero(t, session.ImportLogID)
	require.Len(t, imports.recorded, 1)

	staged, err := store.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, staged.ID)
}

func TestParseDocumentStoredDuplicateStaysPending(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	value := 94.5
	results := &fakeResultRepo{stored: []entity.StoredResult{
		{ID: 42, PatientID: 7, TestName: "glucose", ValueNumeric: &value, CollectionDate: &date},
	}}
	imports := &fakeImportLog{}
	p, _ := newTestProcessor(t, &fakeSource{frags: labReportFragments(), pages: 1}, results, imports)

	session, err := p.ParseDocument(ctx, []byte("pdf bytes"), "report.pdf", 7)
	require.NoError(t, err)

	glucose, potassium := session.Candidates[0], session.Candidates[1]
	require.NotNil(t, glucose.DuplicateOf)
	assert.Equal(t, constants.DuplicateOfStored, glucose.DuplicateOf.Kind)
	assert.Equal(t, int64(42), glucose.DuplicateOf.StoredID)
	assert.Equal(t, constants.CandidatePending, glucose.Status)
	assert.Equal(t, constants.CandidateSelected, potassium.Status)
}

func TestParseDocumentUnknownLayout(t *testing.T) {
	ctx := context.Background()
	frags := []entity.RawFragment{
		frag("Thank you for choosing our clinic.", 0, 40, 700),
		frag("Please contact your provider with questions.", 0, 40, 680),
	}
	p, _ := newTestProcessor(t, &fakeSource{frags: frags, pages: 1}, &fakeResultRepo{}, &fakeImportLog{})

	session, err := p.ParseDocument(ctx, []byte("pdf bytes"), "letter.pdf", 7)
	require.NoError(t, err, "an unsupported layout is a zero-candidate session, not an error")
	assert.Nil(t, session.VendorDetected)
	assert.Empty(t, session.Candidates)
	assert.Equal(t, constants.SessionOpen, session.Status)
}

func TestParseDocumentExtractError(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestProcessor(t, &fakeSource{err: common.ErrCorruptDocument}, &fakeResultRepo{}, &fakeImportLog{})

	session, err := p.ParseDocument(ctx, []byte("not a pdf"), "broken.pdf", 7)
	require.ErrorIs(t, err, common.ErrCorruptDocument)
	assert.Nil(t, session)
}

func TestParseDocumentSurfacesPriorImport(t *testing.T) {
	ctx := context.Background()
	prior := &entity.PriorImport{ImportID: 9, ImportedAt: time.Now().UTC(), TestsImported: 2}
	p, _ := newTestProcessor(t, &fakeSource{frags: labReportFragments(), pages: 1}, &fakeResultRepo{}, &fakeImportLog{prior: prior})

	session, err := p.ParseDocument(ctx, []byte("pdf bytes"), "report.pdf", 7)
	require.NoError(t, err)
	require.NotNil(t, session.PriorImport)
	assert.Equal(t, int64(9), session.PriorImport.ImportID)
}

func TestCommitSelected(t *testing.T) {
	ctx := context.Background()
	results := &fakeResultRepo{}
	imports := &fakeImportLog{}
	p, store := newTestProcessor(t, &fakeSource{frags: labReportFragments(), pages: 1}, results, imports)

	session, err := p.ParseDocument(ctx, []byte("pdf bytes"), "report.pdf", 7)
	require.NoError(t, err)

	refs, err := p.CommitSelected(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, refs, 2)

	committed, err := store.Get(session.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.SessionCommitted, committed.Status)
	assert.Equal(t, 1, imports.markCommitted)
	assert.Equal(t, session.ImportLogID, imports.committedID)
	assert.Equal(t, 2, imports.committedLen)

	_, err = p.CommitSelected(ctx, session.ID)
	require.ErrorIs(t, err, common.ErrSessionClosed)
}
