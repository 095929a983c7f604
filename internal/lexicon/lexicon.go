package lexicon

import (
	"strings"

	"github.com/agext/levenshtein"
)

// MatchKind reports how a test name matched a lexicon entry.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchExact
	MatchPrefix
	MatchFuzzy
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "EXACT"
	case MatchPrefix:
		return "PREFIX"
	case MatchFuzzy:
		return "FUZZY"
	default:
		return "NONE"
	}
}

// Entry defines a known lab test: canonical name, accepted aliases, and
// defaults applied when the report omits a unit or reference range.
type Entry struct {
	CanonicalName string   `json:"canonical_name"`
	Aliases       []string `json:"aliases,omitempty"`
	DefaultUnit   string   `json:"default_unit,omitempty"`
	RangeLow      *float64 `json:"range_low,omitempty"`
	RangeHigh     *float64 `json:"range_high,omitempty"`
	Qualitative   bool     `json:"qualitative,omitempty"`
}

// Lexicon resolves extracted test names against the known-test catalog.
type Lexicon interface {
	Match(name string) (Entry, MatchKind)
}

// Static is an in-memory Lexicon built from a fixed entry set.
type Static struct {
	entries []Entry
	// byName indexes the lowercased canonical name and every alias.
	byName map[string]int
	// names holds the index keys in registration order, so prefix and
	// fuzzy scans resolve ties the same way on every run.
	names       []string
	maxDistance int
}

// NewStatic builds a Static lexicon. maxDistance bounds the edit distance
// accepted for fuzzy matches; 0 disables fuzzy matching.
func NewStatic(entries []Entry, maxDistance int) *Static {
	s := &Static{
		entries:     entries,
		byName:      make(map[string]int, len(entries)),
		maxDistance: maxDistance,
	}
	add := func(key string, i int) {
		if _, ok := s.byName[key]; !ok {
			s.names = append(s.names, key)
		}
		s.byName[key] = i
	}
	for i, e := range entries {
		add(normName(e.CanonicalName), i)
		for _, a := range e.Aliases {
			add(normName(a), i)
		}
	}
	return s
}

func (s *Static) Match(name string) (Entry, MatchKind) {
	q := normName(name)
	if q == "" {
		return Entry{}, MatchNone
	}
	if i, ok := s.byName[q]; ok {
		return s.entries[i], MatchExact
	}
	// Prefix matching is deliberately narrow: the extracted name must
	// extend a known name at a qualifier boundary. "TSH (3rd Gen)" maps
	// to TSH, but "Hemoglobin A1c" never maps to Hemoglobin.
	for _, key := range s.names {
		if prefixAtBoundary(q, key) {
			return s.entries[s.byName[key]], MatchPrefix
		}
	}
	if s.maxDistance > 0 {
		best, bestDist := -1, s.maxDistance+1
		for _, key := range s.names {
			d := levenshtein.Distance(q, key, nil)
			if d < bestDist {
				best, bestDist = s.byName[key], d
			}
		}
		if best >= 0 {
			return s.entries[best], MatchFuzzy
		}
	}
	return Entry{}, MatchNone
}

// prefixAtBoundary reports whether extracted extends known and the first
// character after the shared prefix opens a qualifier: '(', ',' or '-'.
// A plain word continuation does not count.
func prefixAtBoundary(extracted, known string) bool {
	if len(extracted) <= len(known) || !strings.HasPrefix(extracted, known) {
		return false
	}
	rest := strings.TrimLeft(extracted[len(known):], " ")
	if rest == "" {
		return false
	}
	switch rest[0] {
	case '(', ',', '-':
		return true
	}
	return false
}

func normName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
