// Package detect selects the extraction strategy for a document by scoring
// vendor fingerprints against the extracted text.
package detect

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/entity"
)

// Detection is the detector's verdict. Selection never blocks extraction:
// below-threshold documents fall back to the generic strategy.
type Detection struct {
	Vendor       string
	Strategy     constants.StrategyID
	Score        float64
	RequiredHits int
	// firstHit is the position (page, row order) of the earliest matched
	// marker, used only for tie-breaking.
	firstHit int
}

// Detector scores fingerprints against fragments.
type Detector struct {
	prints    []Fingerprint
	threshold float64
	logger    *slog.Logger
}

func NewDetector(prints []Fingerprint, threshold float64, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	if len(prints) == 0 {
		prints = DefaultFingerprints()
	}
	return &Detector{prints: prints, threshold: threshold, logger: logger}
}

// Detect scores each fingerprint and returns the best match above the
// threshold, or the generic fallback. Ties go to the fingerprint with more
// required markers matched, then to the one whose first marker appears
// earliest in the document.
func (d *Detector) Detect(frags []entity.RawFragment) Detection {
	text, offsets := joinedText(frags)
	lower := strings.ToLower(text)

	best := Detection{Vendor: constants.VendorGeneric, Strategy: constants.StrategyGeneric, firstHit: math.MaxInt}
	for _, fp := range d.prints {
		det := scoreFingerprint(fp, lower, offsets)
		if det.Score < d.threshold {
			continue
		}
		if det.Score > best.Score ||
			(det.Score == best.Score && det.RequiredHits > best.RequiredHits) ||
			(det.Score == best.Score && det.RequiredHits == best.RequiredHits && det.firstHit < best.firstHit) {
			best = det
		}
	}

	d.logger.Debug("detect.vendor",
		"vendor", best.Vendor, "strategy", string(best.Strategy),
		"score", best.Score, "required_hits", best.RequiredHits)
	return best
}

func scoreFingerprint(fp Fingerprint, lower string, offsets []int) Detection {
	const requiredWeight = 2.0

	det := Detection{Vendor: fp.Vendor, Strategy: fp.Strategy, firstHit: math.MaxInt}
	var got, total float64
	for _, m := range fp.Required {
		total += requiredWeight
		if at := strings.Index(lower, strings.ToLower(m)); at >= 0 {
			got += requiredWeight
			det.RequiredHits++
			det.firstHit = min(det.firstHit, fragmentAt(offsets, at))
		}
	}
	for _, m := range fp.Optional {
		total++
		if at := strings.Index(lower, strings.ToLower(m)); at >= 0 {
			got++
			det.firstHit = min(det.firstHit, fragmentAt(offsets, at))
		}
	}
	if total > 0 {
		det.Score = got / total
	}
	return det
}

// joinedText concatenates fragments in reading order. Markers like
// "Date Collected:" can span fragments, so matching runs over the joined
// text; offsets map byte positions back to fragment order for tie-breaking.
func joinedText(frags []entity.RawFragment) (string, []int) {
	var b strings.Builder
	offsets := make([]int, 0, len(frags))
	for _, f := range frags {
		offsets = append(offsets, b.Len())
		b.WriteString(f.Text)
		b.WriteByte(' ')
	}
	return b.String(), offsets
}

func fragmentAt(offsets []int, byteOff int) int {
	i := sort.SearchInts(offsets, byteOff+1)
	if i == 0 {
		return 0
	}
	return i - 1
}
