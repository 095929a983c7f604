package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/entity"
)

func frag(text string) entity.RawFragment {
	return entity.RawFragment{Text: text}
}

func TestDetectLabCorp(t *testing.T) {
	d := NewDetector(DefaultFingerprints(), 0.40, nil)
	det := d.Detect([]entity.RawFragment{
		frag("Patient Report"),
		frag("Date Collected: 01/15/2025"),
		frag("Tests Ordered"),
		frag("Comp. Metabolic Panel (14)"),
		frag("Reference Interval"),
	})

	assert.Equal(t, constants.VendorLabCorp, det.Vendor)
	assert.Equal(t, constants.StrategyColumn, det.Strategy)
	assert.Equal(t, 2, det.RequiredHits)
	assert.GreaterOrEqual(t, det.Score, 0.40)
}

func TestDetectQuest(t *testing.T) {
	d := NewDetector(DefaultFingerprints(), 0.40, nil)
	det := d.Detect([]entity.RawFragment{
		frag("Quest Diagnostics"),
		frag("Collected: 01/15/2025"),
		frag("Analyte"),
		frag("Reference Range"),
	})

	assert.Equal(t, constants.VendorQuest, det.Vendor)
	assert.Equal(t, constants.StrategyLabelValue, det.Strategy)
}

func TestDetectBelowThresholdFallsBackToGeneric(t *testing.T) {
	d := NewDetector(DefaultFingerprints(), 0.40, nil)
	det := d.Detect([]entity.RawFragment{
		frag("Community Hospital Laboratory"),
		frag("Glucose 95 mg/dL"),
	})

	assert.Equal(t, constants.VendorGeneric, det.Vendor)
	assert.Equal(t, constants.StrategyGeneric, det.Strategy)
	assert.Equal(t, 0.0, det.Score)
}

func TestDetectMarkerSpansFragments(t *testing.T) {
	// PDF extraction often splits a marker across fragments; matching runs
	// over the joined text.
	d := NewDetector(DefaultFingerprints(), 0.30, nil)
	det := d.Detect([]entity.RawFragment{
		frag("Tests"),
		frag("Ordered"),
		frag("Reference"),
		frag("Interval"),
	})
	assert.Equal(t, constants.VendorLabCorp, det.Vendor)
}

func TestDetectTieBreakRequiredHits(t *testing.T) {
	prints := []Fingerprint{
		{Vendor: "opt-only", Strategy: constants.StrategyLabelValue, Optional: []string{"alpha"}},
		{Vendor: "req-match", Strategy: constants.StrategyColumn, Required: []string{"beta"}},
	}
	d := NewDetector(prints, 0.40, nil)

	// Both score 1.0; the fingerprint with more required markers wins.
	det := d.Detect([]entity.RawFragment{frag("alpha"), frag("beta")})
	assert.Equal(t, "req-match", det.Vendor)
}

func TestDetectTieBreakEarliestMarker(t *testing.T) {
	prints := []Fingerprint{
		{Vendor: "late", Strategy: constants.StrategyColumn, Required: []string{"gamma"}},
		{Vendor: "early", Strategy: constants.StrategyLabelValue, Required: []string{"delta"}},
	}
	d := NewDetector(prints, 0.40, nil)

	det := d.Detect([]entity.RawFragment{frag("header"), frag("delta"), frag("trailer"), frag("gamma")})
	assert.Equal(t, "early", det.Vendor)
}
