package chunking

import "strings"

const sentenceDelimiter = ". "

// Splitter accumulates sentences into bounded-size chunks. A single sentence
// longer than MaxChunkSize is emitted as its own oversized chunk instead of
// being truncated.
type Splitter struct {
	MaxChunkSize int
}

func NewSplitter(maxChunkSize int) *Splitter {
	if maxChunkSize <= 0 {
		maxChunkSize = 500
	}
	return &Splitter{MaxChunkSize: maxChunkSize}
}

// Split breaks text on ". " boundaries and greedily packs sentences into
// chunks. Every chunk is non-empty and the concatenation preserves original
// sentence order; boundary whitespace may normalize.
func (s *Splitter) Split(text string) []string {
	sentences := strings.Split(text, sentenceDelimiter)

	var out []string
	var buf strings.Builder
	for _, sentence := range sentences {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		appended := sentence
		if buf.Len() > 0 {
			appended = sentenceDelimiter + sentence
		}

		if buf.Len() > 0 && buf.Len()+len(appended) > s.MaxChunkSize {
			out = append(out, buf.String())
			buf.Reset()
			buf.WriteString(sentence)
			continue
		}
		buf.WriteString(appended)
	}

	if buf.Len() > 0 {
		out = append(out, buf.String())
	}
	return out
}
