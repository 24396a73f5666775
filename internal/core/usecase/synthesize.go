package usecase

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const (
	maxAnswerSources     = 3
	sourceContentPreview = 200

	insufficientAnswer = "The knowledge base does not contain sufficient information to answer " +
		"this question. Consider ingesting relevant documentation and asking again."
)

var rolePrefixes = []struct {
	aliases []string
	prefix  string
}{
	{
		aliases: []string{"executive", "ceo", "cfo", "coo", "founder", "vp", "director", "strategist"},
		prefix:  "From a strategic business perspective: ",
	},
	{
		aliases: []string{"engineer", "developer", "technical", "cto", "architect", "devops"},
		prefix:  "From a technical implementation standpoint: ",
	},
	{
		aliases: []string{"sales", "marketing", "account", "growth"},
		prefix:  "From a sales and marketing perspective: ",
	},
}

// synthesizeAnswer builds the deterministic response text: a role-aware
// prefix, a keyword-triggered summary and a bulleted list of up to three
// supporting sources.
func synthesizeAnswer(queryText, userRole string, chunks []rankedChunk) string {
	if len(chunks) == 0 {
		return insufficientAnswer
	}

	var b strings.Builder
	b.WriteString(rolePrefix(userRole))
	b.WriteString(summaryBody(queryText, chunks))

	limit := len(chunks)
	if limit > maxAnswerSources {
		limit = maxAnswerSources
	}
	b.WriteString("\n\nSupporting sources:")
	for _, chunk := range chunks[:limit] {
		title := chunk.Title
		if title == "" {
			title = "Untitled document"
		}
		fmt.Fprintf(&b, "\n- %s (%s, %.0f%% match)", title, chunk.DocumentType, chunk.Similarity*100)
	}
	return b.String()
}

func rolePrefix(userRole string) string {
	role := strings.ToLower(strings.TrimSpace(userRole))
	if role == "" {
		return ""
	}
	for _, entry := range rolePrefixes {
		for _, alias := range entry.aliases {
			if strings.Contains(role, alias) {
				return entry.prefix
			}
		}
	}
	return ""
}

func summaryBody(queryText string, chunks []rankedChunk) string {
	lower := strings.ToLower(queryText)
	n := len(chunks)

	switch {
	case containsAny(lower, "pricing", "cost", "price"):
		return fmt.Sprintf(
			"the knowledge base holds %d relevant passages on pricing and cost structure. "+
				"Review the sources below for concrete figures and pricing rationale.", n)
	case containsAny(lower, "market", "competitor", "competition"):
		return fmt.Sprintf(
			"%d passages discuss market conditions and competitive positioning. "+
				"The strongest matches are listed below.", n)
	case containsAny(lower, "strategy", "plan", "roadmap"):
		return fmt.Sprintf(
			"%d passages cover strategic planning relevant to this question. "+
				"They are ordered by combined similarity and business relevance.", n)
	case containsAny(lower, "technical", "architecture", "implementation", "api"):
		return fmt.Sprintf(
			"%d passages describe the technical side of this topic. "+
				"See the sources below for implementation detail.", n)
	default:
		terms := topContentTerms(chunks, 5)
		if len(terms) == 0 {
			return fmt.Sprintf("%d relevant passages were retrieved for this question.", n)
		}
		return fmt.Sprintf(
			"%d relevant passages were retrieved, centering on: %s.",
			n, strings.Join(terms, ", "))
	}
}

var summaryStopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "this": {}, "with": {},
	"are": {}, "was": {}, "our": {}, "has": {}, "have": {}, "will": {},
	"its": {}, "from": {}, "can": {}, "not": {}, "but": {}, "all": {},
}

// topContentTerms extracts the most frequent non-stopword terms across the
// kept chunks, ties broken alphabetically for determinism.
func topContentTerms(chunks []rankedChunk, limit int) []string {
	counts := make(map[string]int)
	for _, chunk := range chunks {
		for _, token := range tokenizeWords(chunk.Content) {
			if len(token) < 3 {
				continue
			}
			if _, stop := summaryStopwords[token]; stop {
				continue
			}
			counts[token]++
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}

func tokenizeWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// truncateContent keeps at most limit characters, never splitting a
// multi-byte rune.
func truncateContent(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// estimateTokens approximates token usage at four characters per token.
func estimateTokens(queryText, answer string, chunks []rankedChunk) int {
	total := len(queryText) + len(answer)
	for _, chunk := range chunks {
		total += len(chunk.Content)
	}
	return total / 4
}
