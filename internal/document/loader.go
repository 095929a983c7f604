// Package document turns raw PDF bytes into positioned text fragments.
//
// Only the text layer is read. Scanned image-only documents are reported as
// unreadable, never rasterized: OCR is out of scope.
package document

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mylabvault/labvault/internal/common"
	"github.com/mylabvault/labvault/internal/entity"
)

const (
	// rowTolerance is the Y tolerance (points) for grouping characters into
	// the same visual row.
	rowTolerance = 3.0
	// wordSpaceMultiplier: a horizontal gap wider than this fraction of the
	// font size starts a new word fragment.
	wordSpaceMultiplier = 0.30
)

// Loader extracts positioned text fragments from PDF bytes.
type Loader struct {
	maxBytes int64
	logger   *slog.Logger
}

func NewLoader(maxBytes int64, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBytes <= 0 {
		maxBytes = 20 << 20
	}
	return &Loader{maxBytes: maxBytes, logger: logger}
}

// Extract returns the document's fragments in page order, with reading order
// preserved within a page, plus the page count. The transformation is pure:
// no side effects beyond logging.
//
// Failure modes are distinct: oversized input fails before the document is
// opened, corrupt bytes fail as ErrCorruptDocument, and a well-formed
// document without a text layer fails as ErrUnreadableDocument.
func (l *Loader) Extract(content []byte, sourceID string) (frags []entity.RawFragment, pages int, err error) {
	if len(content) == 0 {
		return nil, 0, common.NewAppError("EMPTY_DOCUMENT", sourceID, common.ErrUnreadableDocument)
	}
	if int64(len(content)) > l.maxBytes {
		return nil, 0, common.NewAppError("SIZE_LIMIT",
			fmt.Sprintf("%s: %d bytes exceeds limit %d", sourceID, len(content), l.maxBytes),
			common.ErrDocumentTooLarge)
	}

	// The pdf package panics on some malformed streams; treat that the same
	// as a reader error.
	defer func() {
		if r := recover(); r != nil {
			l.logger.Warn("document.extract.panic", "source", sourceID, "cause", r)
			frags, pages = nil, 0
			err = common.NewAppError("CORRUPT_DOCUMENT", fmt.Sprintf("%s: %v", sourceID, r), common.ErrCorruptDocument)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, 0, common.NewAppError("CORRUPT_DOCUMENT", sourceID, common.ErrCorruptDocument)
	}

	pages = reader.NumPage()
	for pageNum := 1; pageNum <= pages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		texts := page.Content().Text
		frags = append(frags, mergeWords(texts, pageNum-1)...)
	}

	if !hasTextContent(frags) {
		return nil, pages, common.NewAppError("NO_TEXT_LAYER", sourceID, common.ErrUnreadableDocument)
	}

	l.logger.Debug("document.extract.ok", "source", sourceID, "pages", pages, "fragments", len(frags))
	return frags, pages, nil
}

func hasTextContent(frags []entity.RawFragment) bool {
	for _, f := range frags {
		if strings.TrimSpace(f.Text) != "" {
			return true
		}
	}
	return false
}

// mergeWords groups character-level texts into word fragments: same visual
// row within rowTolerance, adjacent when the horizontal gap stays under
// wordSpaceMultiplier of the font size.
func mergeWords(texts []pdf.Text, pageIndex int) []entity.RawFragment {
	var chars []pdf.Text
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" && t.S != " " {
			continue
		}
		chars = append(chars, t)
	}
	if len(chars) == 0 {
		return nil
	}

	// Reading order: top-to-bottom (PDF Y grows upward), then left-to-right.
	sort.SliceStable(chars, func(i, j int) bool {
		if diff := chars[i].Y - chars[j].Y; diff > rowTolerance || diff < -rowTolerance {
			return chars[i].Y > chars[j].Y
		}
		return chars[i].X < chars[j].X
	})

	var frags []entity.RawFragment
	var word strings.Builder
	var start, prev pdf.Text
	flush := func() {
		text := strings.TrimSpace(word.String())
		if text != "" {
			frags = append(frags, entity.RawFragment{
				Text: text,
				Page: pageIndex,
				Box: entity.BoundingBox{
					X: start.X,
					Y: start.Y,
					W: prev.X + prev.W - start.X,
					H: start.FontSize,
				},
				FontSize: start.FontSize,
			})
		}
		word.Reset()
	}

	for i, c := range chars {
		if i == 0 {
			start, prev = c, c
			word.WriteString(c.S)
			continue
		}
		sameRow := c.Y-prev.Y <= rowTolerance && prev.Y-c.Y <= rowTolerance
		gap := c.X - (prev.X + prev.W)
		spaceAt := wordSpaceMultiplier * c.FontSize
		if spaceAt <= 0 {
			spaceAt = 1.5
		}
		if !sameRow || gap > spaceAt || gap < -spaceAt {
			flush()
			start = c
		}
		word.WriteString(c.S)
		prev = c
	}
	flush()
	return frags
}
