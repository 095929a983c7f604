package document

import (
	"bytes"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mylabvault/labvault/internal/common"
)

func TestExtractEmptyDocument(t *testing.T) {
	l := NewLoader(1<<20, nil)
	_, _, err := l.Extract(nil, "empty.pdf")
	assert.ErrorIs(t, err, common.ErrUnreadableDocument)
}

func TestExtractOversizedFailsFast(t *testing.T) {
	l := NewLoader(16, nil)
	content := bytes.Repeat([]byte{'x'}, 64)
	_, _, err := l.Extract(content, "big.pdf")
	assert.ErrorIs(t, err, common.ErrDocumentTooLarge)
}

func TestExtractCorruptBytes(t *testing.T) {
	l := NewLoader(1<<20, nil)
	_, _, err := l.Extract([]byte("this is not a pdf at all, just text bytes"), "junk.pdf")
	assert.ErrorIs(t, err, common.ErrCorruptDocument)
}

func char(s string, x, y, w, size float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: size}
}

func TestMergeWordsGroupsCharacters(t *testing.T) {
	// "95" then a wide gap then "mg/dL" on one row, "Glucose" above it.
	texts := []pdf.Text{
		char("G", 40, 700, 7, 10), char("l", 47, 700, 3, 10), char("u", 50, 700, 6, 10),
		char("c", 56, 700, 5, 10), char("o", 61, 700, 6, 10), char("s", 67, 700, 5, 10),
		char("e", 72, 700, 6, 10),

		char("9", 40, 680, 6, 10), char("5", 46, 680, 6, 10),
		char("m", 120, 680, 8, 10), char("g", 128, 680, 6, 10), char("/", 134, 680, 3, 10),
		char("d", 137, 680, 6, 10), char("L", 143, 680, 6, 10),
	}

	frags := mergeWords(texts, 0)
	require.Len(t, frags, 3)

	assert.Equal(t, "Glucose", frags[0].Text)
	assert.Equal(t, 0, frags[0].Page)
	assert.InDelta(t, 40.0, frags[0].Box.X, 1e-9)
	assert.InDelta(t, 700.0, frags[0].Box.Y, 1e-9)

	assert.Equal(t, "95", frags[1].Text)
	assert.Equal(t, "mg/dL", frags[2].Text)
	assert.InDelta(t, 120.0, frags[2].Box.X, 1e-9)
}

func TestMergeWordsSeparatesRows(t *testing.T) {
	texts := []pdf.Text{
		char("A", 40, 700, 6, 10),
		char("B", 40, 650, 6, 10),
	}
	frags := mergeWords(texts, 2)
	require.Len(t, frags, 2)
	assert.Equal(t, "A", frags[0].Text)
	assert.Equal(t, "B", frags[1].Text)
	assert.Equal(t, 2, frags[0].Page)
}

func TestMergeWordsEmptyInput(t *testing.T) {
	assert.Nil(t, mergeWords(nil, 0))
	assert.Nil(t, mergeWords([]pdf.Text{char("  ", 0, 0, 0, 10)}, 0))
}
