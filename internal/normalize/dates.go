package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/mylabvault/labvault/internal/entity"
)

// DateMarker is a "Date Collected:" or "Date Reported:" occurrence with its
// page position, used to resolve each row's own collection date.
type DateMarker struct {
	Page int
	Y    float64
	Date time.Time
}

// DocContext carries document-level facts the normalizer needs per row:
// date markers in position order, the header-region fallback date, and the
// ordering-provider name when one was printed.
type DocContext struct {
	Markers  []DateMarker
	DocDate  *time.Time
	Provider *string
}

var (
	reCollectedDate = regexp.MustCompile(`(?i)Date\s+(?:Collected|Reported)\s*:?\s*(\d{1,2}/\d{1,2}/\d{4}|\d{4}-\d{2}-\d{2})`)
	reAnyDate       = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}|\d{4}-\d{2}-\d{2}|\d{1,2}-[A-Za-z]{3}-\d{4}`)
	reProvider      = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Ordering\s+Physician\s*:?\s*([A-Z][A-Za-z.'-]+(?:\s+[A-Z][A-Za-z.'-]+)*)`),
		regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+),?\s*(?:MD|M\.D\.)`),
		regexp.MustCompile(`(?i)Dr\.?\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]*)*)`),
	}
)

var dateLayouts = []string{"1/2/2006", "2006-01-02", "2-Jan-2006", "January 2, 2006"}

// ParseDate parses the date formats vendors print. Returns nil when none
// match.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// BuildDocContext scans fragments for date markers and a provider name.
// Markers pair a "Date Collected"/"Date Reported" label with the date that
// follows it, either inside the same fragment or in the next few fragments
// on the same visual row. The first marker doubles as the document-level
// fallback date.
func BuildDocContext(frags []entity.RawFragment) DocContext {
	var ctx DocContext
	for i, f := range frags {
		if m := reCollectedDate.FindStringSubmatch(f.Text); m != nil {
			if d := ParseDate(m[1]); d != nil {
				ctx.Markers = append(ctx.Markers, DateMarker{Page: f.Page, Y: f.Box.Y, Date: *d})
			}
			continue
		}
		// Label and date split across fragments.
		low := strings.ToLower(f.Text)
		if strings.Contains(low, "collected") || strings.Contains(low, "reported") {
			for j := i + 1; j < len(frags) && j <= i+3 && frags[j].Page == f.Page; j++ {
				if m := reAnyDate.FindString(frags[j].Text); m != "" {
					if d := ParseDate(m); d != nil {
						ctx.Markers = append(ctx.Markers, DateMarker{Page: f.Page, Y: f.Box.Y, Date: *d})
					}
					break
				}
			}
		}
	}
	if len(ctx.Markers) > 0 {
		d := ctx.Markers[0].Date
		ctx.DocDate = &d
	}

	for _, f := range frags {
		for _, re := range reProvider {
			if m := re.FindStringSubmatch(f.Text); m != nil {
				name := strings.TrimSpace(m[1])
				if len(name) > 1 {
					ctx.Provider = &name
				}
				break
			}
		}
		if ctx.Provider != nil {
			break
		}
	}
	return ctx
}

// ResolveDate returns the row's collection date: the nearest marker at or
// above the row on the same page, else the document-level date, else nil.
// Rows never inherit a marker from a later page.
func (c DocContext) ResolveDate(page int, y float64) *time.Time {
	var best *DateMarker
	for i := range c.Markers {
		m := &c.Markers[i]
		if m.Page != page || m.Y < y {
			continue
		}
		if best == nil || m.Y < best.Y {
			best = m
		}
	}
	if best != nil {
		d := best.Date
		return &d
	}
	return c.DocDate
}
