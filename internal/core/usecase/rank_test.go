package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
)

func TestRankCandidatesHybridScoreOrder(t *testing.T) {
	// Close vector match with low business value versus a slightly worse
	// match with high business value: the hybrid weighting must favor the
	// latter only when 0.3 * relevance delta outweighs 0.7 * similarity
	// delta.
	candidates := []domain.ScoredChunk{
		{ID: "low-value", Distance: 0.10, BusinessRelevance: 0.1},
		{ID: "high-value", Distance: 0.15, BusinessRelevance: 0.9},
	}

	kept := rankCandidates(candidates, 0, nil, 10)
	if len(kept) != 2 {
		t.Fatalf("expected 2 kept, got %d", len(kept))
	}
	// high-value: 0.7*0.85 + 0.3*0.9 = 0.865; low-value: 0.7*0.9 + 0.3*0.1 = 0.66
	if kept[0].ID != "high-value" {
		t.Fatalf("expected high-value first, got %s", kept[0].ID)
	}
}

func TestRankCandidatesFiltersBySimilarityThreshold(t *testing.T) {
	candidates := []domain.ScoredChunk{
		{ID: "close", Distance: 0.2},
		{ID: "far", Distance: 0.8},
	}

	kept := rankCandidates(candidates, 0.5, nil, 10)
	if len(kept) != 1 || kept[0].ID != "close" {
		t.Fatalf("expected only close chunk, got %#v", kept)
	}
}

func TestRankCandidatesFiltersByDocumentType(t *testing.T) {
	candidates := []domain.ScoredChunk{
		{ID: "s", DocumentType: "strategy", Distance: 0.2},
		{ID: "t", DocumentType: "technical", Distance: 0.1},
	}

	kept := rankCandidates(candidates, 0, []string{"strategy"}, 10)
	if len(kept) != 1 || kept[0].ID != "s" {
		t.Fatalf("expected only strategy chunk, got %#v", kept)
	}
}

func TestRankCandidatesStableOnTies(t *testing.T) {
	candidates := []domain.ScoredChunk{
		{ID: "first", Distance: 0.2, BusinessRelevance: 0.5},
		{ID: "second", Distance: 0.2, BusinessRelevance: 0.5},
	}

	kept := rankCandidates(candidates, 0, nil, 10)
	if kept[0].ID != "first" || kept[1].ID != "second" {
		t.Fatalf("expected input order preserved on ties, got %s, %s", kept[0].ID, kept[1].ID)
	}
}

func TestRankCandidatesTruncates(t *testing.T) {
	candidates := make([]domain.ScoredChunk, 8)
	for i := range candidates {
		candidates[i] = domain.ScoredChunk{ID: string(rune('a' + i)), Distance: 0.1}
	}

	if kept := rankCandidates(candidates, 0, nil, 3); len(kept) != 3 {
		t.Fatalf("expected 3 kept, got %d", len(kept))
	}
}

func TestSynthesizeAnswerEmpty(t *testing.T) {
	answer := synthesizeAnswer("anything", "ceo", nil)
	if !strings.Contains(answer, "does not contain sufficient information") {
		t.Fatalf("unexpected empty answer: %q", answer)
	}
	// Deterministic regardless of role.
	if answer != synthesizeAnswer("anything", "", nil) {
		t.Fatalf("expected identical empty answer for any role")
	}
}

func TestSynthesizeAnswerRolePrefixes(t *testing.T) {
	chunks := []rankedChunk{{
		ScoredChunk: domain.ScoredChunk{Title: "Doc", DocumentType: "strategy", Content: "pricing detail"},
		Similarity:  0.9,
	}}

	cases := []struct {
		role   string
		prefix string
	}{
		{"Chief Executive Officer ceo", "From a strategic business perspective: "},
		{"senior engineer", "From a technical implementation standpoint: "},
		{"sales lead", "From a sales and marketing perspective: "},
		{"intern", ""},
		{"", ""},
	}
	for _, tc := range cases {
		answer := synthesizeAnswer("what is our pricing", tc.role, chunks)
		if tc.prefix == "" {
			if strings.HasPrefix(answer, "From a") {
				t.Fatalf("role %q: unexpected prefix in %q", tc.role, answer)
			}
			continue
		}
		if !strings.HasPrefix(answer, tc.prefix) {
			t.Fatalf("role %q: expected prefix %q, got %q", tc.role, tc.prefix, answer)
		}
	}
}

func TestSynthesizeAnswerListsAtMostThreeSources(t *testing.T) {
	chunks := make([]rankedChunk, 5)
	for i := range chunks {
		chunks[i] = rankedChunk{
			ScoredChunk: domain.ScoredChunk{Title: "Doc", DocumentType: "strategy", Content: "text"},
			Similarity:  0.8,
		}
	}

	answer := synthesizeAnswer("roadmap question", "", chunks)
	if got := strings.Count(answer, "\n- "); got != 3 {
		t.Fatalf("expected 3 source bullets, got %d in %q", got, answer)
	}
	if !strings.Contains(answer, "(strategy, 80% match)") {
		t.Fatalf("expected similarity percentage in %q", answer)
	}
}

func TestSynthesizeAnswerUntitledFallback(t *testing.T) {
	chunks := []rankedChunk{{
		ScoredChunk: domain.ScoredChunk{DocumentType: "technical", Content: "api detail"},
		Similarity:  0.5,
	}}

	answer := synthesizeAnswer("api question", "", chunks)
	if !strings.Contains(answer, "Untitled document") {
		t.Fatalf("expected untitled fallback in %q", answer)
	}
}

func TestSummaryBodyKeywordBranches(t *testing.T) {
	chunks := []rankedChunk{{
		ScoredChunk: domain.ScoredChunk{Content: "alpha beta gamma"},
	}}

	cases := []struct {
		query string
		want  string
	}{
		{"what is our pricing", "pricing and cost structure"},
		{"who are our competitors", "competitive positioning"},
		{"what is the roadmap", "strategic planning"},
		{"how is the api built", "technical side"},
	}
	for _, tc := range cases {
		body := summaryBody(tc.query, chunks)
		if !strings.Contains(body, tc.want) {
			t.Fatalf("query %q: expected %q in %q", tc.query, tc.want, body)
		}
	}
}

func TestSummaryBodyDefaultUsesTopTerms(t *testing.T) {
	chunks := []rankedChunk{
		{ScoredChunk: domain.ScoredChunk{Content: "retention retention churn onboarding"}},
		{ScoredChunk: domain.ScoredChunk{Content: "retention onboarding churn"}},
	}

	body := summaryBody("tell me about the customers", chunks)
	if !strings.Contains(body, "retention") {
		t.Fatalf("expected most frequent term in %q", body)
	}
	// churn and onboarding are tied on count; ties break alphabetically.
	if strings.Index(body, "churn") > strings.Index(body, "onboarding") {
		t.Fatalf("expected alphabetical tie-break in %q", body)
	}
}

func TestExtractInsightsRules(t *testing.T) {
	strategy := []rankedChunk{{
		ScoredChunk: domain.ScoredChunk{DocumentType: "strategy", BusinessRelevance: 0.8},
	}}

	insights := extractInsights("how should we grow revenue with customers", strategy)
	var hasAlignment, hasPriority, hasFinancial, hasCustomer bool
	for _, insight := range insights {
		switch {
		case strings.Contains(insight, "strategic alignment"):
			hasAlignment = true
		case strings.Contains(insight, "prioritize for decision making"):
			hasPriority = true
		case strings.Contains(insight, "finance team"):
			hasFinancial = true
		case strings.Contains(insight, "customer experience"):
			hasCustomer = true
		}
	}
	if !hasAlignment || !hasPriority || !hasFinancial || !hasCustomer {
		t.Fatalf("missing expected insights: %#v", insights)
	}
}

func TestExtractInsightsLowRelevance(t *testing.T) {
	chunks := []rankedChunk{{
		ScoredChunk: domain.ScoredChunk{DocumentType: "meeting_notes", BusinessRelevance: 0.1},
	}}

	insights := extractInsights("what happened in the sync", chunks)
	if len(insights) != 1 || !strings.Contains(insights[0], "supplement with additional business context") {
		t.Fatalf("expected low-relevance insight only, got %#v", insights)
	}
}

func TestExtractInsightsNoResults(t *testing.T) {
	insights := extractInsights("anything", nil)
	if len(insights) != 1 || !strings.Contains(insights[0], "ingest more business documents") {
		t.Fatalf("expected no-results insight, got %#v", insights)
	}
}

func TestRankCandidatesThresholdSweepNeverGrows(t *testing.T) {
	candidates := []domain.ScoredChunk{
		{ID: "a", Distance: 0.05},
		{ID: "b", Distance: 0.25},
		{ID: "c", Distance: 0.45},
		{ID: "d", Distance: 0.65},
		{ID: "e", Distance: 0.85},
	}

	prev := len(candidates)
	for step := 0; step <= 20; step++ {
		threshold := float64(step) / 20
		kept := len(rankCandidates(candidates, threshold, nil, 10))
		if kept > prev {
			t.Fatalf("raising threshold to %.2f grew the result set: %d -> %d", threshold, prev, kept)
		}
		prev = kept
	}

	if kept := rankCandidates(candidates, 0, nil, 10); len(kept) != len(candidates) {
		t.Fatalf("zero threshold must keep everything, got %d", len(kept))
	}
	if kept := rankCandidates(candidates, 1.01, nil, 10); len(kept) != 0 {
		t.Fatalf("impossible threshold must keep nothing, got %d", len(kept))
	}
}

func TestTruncateContentKeepsRuneBoundaries(t *testing.T) {
	long := strings.Repeat("über", 100)
	got := truncateContent(long, 10)
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 10 {
		t.Fatalf("expected 10 characters, got %d", utf8.RuneCountInString(got))
	}

	// Byte length above the limit but character count within it: the
	// string stays whole.
	accents := strings.Repeat("é", 8)
	if truncated := truncateContent(accents, 10); truncated != accents {
		t.Fatalf("expected %q untouched, got %q", accents, truncated)
	}

	short := "plain ascii"
	if truncated := truncateContent(short, 200); truncated != short {
		t.Fatalf("expected %q untouched, got %q", short, truncated)
	}
}

func TestEstimateTokens(t *testing.T) {
	chunks := []rankedChunk{{ScoredChunk: domain.ScoredChunk{Content: strings.Repeat("a", 40)}}}

	got := estimateTokens(strings.Repeat("q", 20), strings.Repeat("x", 40), chunks)
	if got != 25 {
		t.Fatalf("expected 25 tokens, got %d", got)
	}
}
