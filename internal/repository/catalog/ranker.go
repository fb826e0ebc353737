package catalog

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/kailas-cloud/marketsearch/internal/domain"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/rank"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/result"
)

// Title hits count more than description hits.
const (
	titleBoost       = 2.0
	descriptionBoost = 1.0
)

type docTokens struct {
	title       map[string]int
	description map[string]int
}

func tokenizeDoc(title, description string) docTokens {
	return docTokens{title: termFreq(title), description: termFreq(description)}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func termFreq(s string) map[string]int {
	tf := make(map[string]int)
	for _, t := range tokenize(s) {
		tf[t]++
	}
	return tf
}

// textScore is the share of query terms present in the document, weighted by field
// and damped term frequency, normalized to [0, 1].
func textScore(terms []string, doc docTokens) float64 {
	if len(terms) == 0 {
		return 0
	}
	var sum float64
	for _, t := range terms {
		var s float64
		if n := doc.title[t]; n > 0 {
			s += titleBoost * (1 + math.Log(float64(n)))
		}
		if n := doc.description[t]; n > 0 {
			s += descriptionBoost * (1 + math.Log(float64(n)))
		}
		sum += s / (s + 1)
	}
	return sum / float64(len(terms))
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Rank blends the text score with cosine similarity using the request weights.
// Only active products with a positive text or semantic signal are returned.
func (c *Catalog) Rank(ctx context.Context, _ domain.RequestContext, req rank.Request) ([]result.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	terms := dedupe(tokenize(req.Text))
	type scored struct {
		idx   int
		score float64
	}
	hits := make([]scored, 0, len(c.items))
	for i := range c.items {
		it := &c.items[i]
		if !it.IsActive {
			continue
		}
		ts := textScore(terms, c.tokens[i])
		var ss float64
		if req.HasEmbedding() {
			ss = math.Max(0, cosine(req.Embedding, it.Embedding))
		}
		if ts == 0 && ss == 0 {
			continue
		}
		hits = append(hits, scored{idx: i, score: req.FullTextWeight*ts + req.SemanticWeight*ss})
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	if req.MatchCount > 0 && len(hits) > req.MatchCount {
		hits = hits[:req.MatchCount]
	}

	out := make([]result.Result, len(hits))
	for i, h := range hits {
		out[i] = c.items[h.idx].toResult(h.score)
	}
	return out, nil
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := terms[:0]
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
