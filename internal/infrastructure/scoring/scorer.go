package scoring

import (
	"strings"
	"time"
)

// businessVocabulary is the fixed keyword set used for the base score. The
// base score is the matched fraction of this vocabulary.
var businessVocabulary = []string{
	"revenue", "customer", "saas", "roi", "churn", "mrr", "arr", "pricing",
	"growth", "retention", "conversion", "pipeline", "margin", "acquisition",
	"strategy", "market",
}

var highValueTypes = map[string]struct{}{
	"strategy":        {},
	"business_plan":   {},
	"market_analysis": {},
}

var technicalTypes = map[string]struct{}{
	"technical": {},
	"api_docs":  {},
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// Scorer computes a 0-1 business relevance score from keyword density,
// document-type weighting and recency.
type Scorer struct {
	now func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// NewScorerAt pins the clock, for deterministic recency boosts in tests.
func NewScorerAt(now func() time.Time) *Scorer {
	return &Scorer{now: now}
}

func (s *Scorer) Score(chunkText string, metadata map[string]any) float64 {
	lower := strings.ToLower(chunkText)

	matches := 0
	for _, keyword := range businessVocabulary {
		if strings.Contains(lower, keyword) {
			matches++
		}
	}
	score := float64(matches) / float64(len(businessVocabulary))

	score += typeBoost(metadata)
	score += s.recencyBoost(metadata)

	return clamp01(score)
}

func typeBoost(metadata map[string]any) float64 {
	docType, _ := metadata["document_type"].(string)
	if _, ok := highValueTypes[docType]; ok {
		return 0.3
	}
	if _, ok := technicalTypes[docType]; ok {
		return 0.1
	}
	return 0
}

// recencyBoost favors fresh documents: +0.2 within 30 days, +0.1 within 90.
// Malformed or missing dates contribute nothing; parsing never fails the
// scorer.
func (s *Scorer) recencyBoost(metadata map[string]any) float64 {
	raw, _ := metadata["created_date"].(string)
	if raw == "" {
		return 0
	}

	var created time.Time
	parsed := false
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			created = t
			parsed = true
			break
		}
	}
	if !parsed {
		return 0
	}

	age := s.now().Sub(created)
	switch {
	case age < 0:
		return 0
	case age <= 30*24*time.Hour:
		return 0.2
	case age <= 90*24*time.Hour:
		return 0.1
	default:
		return 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
