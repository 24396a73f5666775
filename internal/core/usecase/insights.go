package usecase

import "strings"

const noResultsInsight = "No matching documentation was found; ingest more business documents to improve coverage."

// extractInsights runs the fixed rule list over the kept candidate set.
// Rule order is the output order; the rules are mutually exclusive by
// construction, so no dedup pass is needed.
func extractInsights(queryText string, chunks []rankedChunk) []string {
	if len(chunks) == 0 {
		return []string{noResultsInsight}
	}

	var insights []string

	if hasDocumentType(chunks, "strategy") {
		insights = append(insights,
			"Strategy documents matched; check strategic alignment before acting on this answer.")
	}
	if hasDocumentType(chunks, "market_analysis") {
		insights = append(insights,
			"Market analysis sources matched; consider competitive positioning implications.")
	}

	switch mean := meanRelevance(chunks); {
	case mean > 0.7:
		insights = append(insights,
			"High business relevance across sources; prioritize for decision making.")
	case mean < 0.3:
		insights = append(insights,
			"Low business relevance across sources; supplement with additional business context.")
	}

	lower := strings.ToLower(queryText)
	if strings.Contains(lower, "revenue") || strings.Contains(lower, "pricing") {
		insights = append(insights,
			"This topic has direct financial impact; validate figures with the finance team.")
	}
	if strings.Contains(lower, "customer") || strings.Contains(lower, "user") {
		insights = append(insights,
			"This topic affects customer experience; review against current user feedback.")
	}

	return insights
}

func hasDocumentType(chunks []rankedChunk, documentType string) bool {
	for _, chunk := range chunks {
		if chunk.DocumentType == documentType {
			return true
		}
	}
	return false
}
