package score

import (
	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/entity"
	"github.com/mylabvault/labvault/internal/lexicon"
)

// Weights are the fixed contributions of each extraction-quality signal.
// They sum to 1.0 so a perfect candidate scores 1.0.
type Weights struct {
	Strategy     float64
	Completeness float64
	Name         float64
	Value        float64
}

func DefaultWeights() Weights {
	return Weights{Strategy: 0.25, Completeness: 0.30, Name: 0.25, Value: 0.20}
}

// Scorer assigns each candidate a confidence in [0,1]. Candidates with no
// usable value are clamped to the low-confidence floor, which downstream
// uses to default them to unselected.
type Scorer struct {
	weights Weights
	floor   float64
	lex     lexicon.Lexicon
}

func NewScorer(weights Weights, floor float64, lex lexicon.Lexicon) *Scorer {
	return &Scorer{weights: weights, floor: floor, lex: lex}
}

// Floor is the low-confidence floor the scorer clamps to.
func (s *Scorer) Floor() float64 { return s.floor }

// Score computes and sets Confidence on the candidate. detectionScore is
// the vendor-detection confidence for the strategy that produced the row;
// rows from the generic fallback cap that signal at 0.5 no matter how the
// detector scored.
func (s *Scorer) Score(c *entity.CandidateResult, detectionScore float64) {
	strength := clamp01(detectionScore)
	if c.StrategyID == constants.StrategyGeneric && strength > 0.5 {
		strength = 0.5
	}

	conf := s.weights.Strategy*strength +
		s.weights.Completeness*completeness(c) +
		s.weights.Name*s.nameComponent(c) +
		s.weights.Value*valueComponent(c)

	if c.ValueNumeric == nil && c.ValueQualitative == nil && conf > s.floor {
		conf = s.floor
	}
	if c.TestNameCanonical == nil && c.ValueNumeric == nil && conf > s.floor {
		conf = s.floor
	}
	c.Confidence = clamp01(conf)
}

// completeness is the fraction of expected fields populated: name, value,
// unit, range, date.
func completeness(c *entity.CandidateResult) float64 {
	total, got := 5, 0
	if c.TestNameRaw != "" {
		got++
	}
	if c.ValueNumeric != nil || c.ValueQualitative != nil {
		got++
	}
	if c.Unit != nil {
		got++
	}
	if c.ReferenceRange != nil {
		got++
	}
	if c.CollectionDate != nil {
		got++
	}
	return float64(got) / float64(total)
}

func (s *Scorer) nameComponent(c *entity.CandidateResult) float64 {
	if c.TestNameCanonical == nil {
		return 0
	}
	_, kind := s.lex.Match(c.TestNameRaw)
	switch kind {
	case lexicon.MatchExact:
		return 1.0
	case lexicon.MatchPrefix:
		return 0.8
	case lexicon.MatchFuzzy:
		return 0.6
	default:
		return 0
	}
}

func valueComponent(c *entity.CandidateResult) float64 {
	switch {
	case c.ValueNumeric != nil:
		return 1.0
	case c.ValueQualitative != nil:
		return 0.9
	default:
		return 0
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
