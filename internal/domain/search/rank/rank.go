package rank

// DefaultOverfetchFactor multiplies the page limit to get the ranking match count.
// Post-filtering happens after ranking, so a narrow filter can still leave a short page.
const DefaultOverfetchFactor = 5

// Text-only weights used whenever the query has no embedding.
const (
	TextOnlyFullTextWeight = 1.0
	TextOnlySemanticWeight = 0.0
)

// Request is a single call to the hybrid ranking backend.
type Request struct {
	Text           string
	Embedding      []float32
	MatchCount     int
	FullTextWeight float64
	SemanticWeight float64
}

// NewRequest builds a ranking request. Without an embedding the weights are
// forced to text-only regardless of what the caller asked for.
func NewRequest(text string, embedding []float32, matchCount int, ftWeight, semWeight float64) Request {
	if len(embedding) == 0 {
		return Request{
			Text:           text,
			MatchCount:     matchCount,
			FullTextWeight: TextOnlyFullTextWeight,
			SemanticWeight: TextOnlySemanticWeight,
		}
	}
	return Request{
		Text:           text,
		Embedding:      embedding,
		MatchCount:     matchCount,
		FullTextWeight: ftWeight,
		SemanticWeight: semWeight,
	}
}

// HasEmbedding reports whether the semantic signal is present.
func (r Request) HasEmbedding() bool { return len(r.Embedding) > 0 }

// MatchCount returns limit * factor, with a factor below 1 treated as 1.
func MatchCount(limit, factor int) int {
	if factor < 1 {
		factor = 1
	}
	if limit < 1 {
		limit = 1
	}
	return limit * factor
}
