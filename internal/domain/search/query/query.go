package query

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Search parameter bounds.
const (
	// MaxQueryLength is the longest text (in runes) forwarded to the backends.
	MaxQueryLength = 500
	DefaultPage    = 1
	DefaultLimit   = 20
	MinLimit       = 1
	MaxLimit       = 100
	DefaultWeight  = 0.5
)

// Params are the raw, unvalidated request parameters. Every field may be empty.
type Params struct {
	Text           string
	CategoryID     string
	UniversityID   string
	MinPrice       string
	MaxPrice       string
	Page           string
	Limit          string
	FullTextWeight string
	SemanticWeight string
}

// Query is a normalized search request. Immutable after Normalize.
type Query struct {
	text           string
	categoryID     *string
	universityID   *string
	minPrice       *float64
	maxPrice       *float64
	page           int
	limit          int
	fullTextWeight float64
	semanticWeight float64
}

// Normalize turns raw parameters into a well-formed Query.
// Malformed input degrades to defaults; it never fails.
func Normalize(p Params) Query {
	return Query{
		text:           normalizeText(p.Text),
		categoryID:     optionalID(p.CategoryID),
		universityID:   optionalID(p.UniversityID),
		minPrice:       optionalFloat(p.MinPrice),
		maxPrice:       optionalFloat(p.MaxPrice),
		page:           parsePage(p.Page),
		limit:          parseLimit(p.Limit),
		fullTextWeight: parseWeight(p.FullTextWeight),
		semanticWeight: parseWeight(p.SemanticWeight),
	}
}

// Text returns the trimmed search text.
func (q Query) Text() string { return q.text }

// IsEmpty reports whether there is nothing to search for.
func (q Query) IsEmpty() bool { return q.text == "" }

// CategoryID returns the category filter, nil when absent.
func (q Query) CategoryID() *string { return q.categoryID }

// UniversityID returns the university filter, nil when absent.
func (q Query) UniversityID() *string { return q.universityID }

// MinPrice returns the inclusive lower price bound, nil when absent.
func (q Query) MinPrice() *float64 { return q.minPrice }

// MaxPrice returns the inclusive upper price bound, nil when absent.
func (q Query) MaxPrice() *float64 { return q.maxPrice }

// Page returns the 1-indexed page number.
func (q Query) Page() int { return q.page }

// Limit returns the page size.
func (q Query) Limit() int { return q.limit }

// FullTextWeight returns the caller-requested full-text weight.
func (q Query) FullTextWeight() float64 { return q.fullTextWeight }

// SemanticWeight returns the caller-requested semantic weight.
func (q Query) SemanticWeight() float64 { return q.semanticWeight }

func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxQueryLength {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:MaxQueryLength]))
}

func optionalID(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalFloat(s string) *float64 {
	v, ok := parseFloat(s)
	if !ok {
		return nil
	}
	return &v
}

func parsePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < DefaultPage {
		return DefaultPage
	}
	return n
}

// parseLimit applies the default only to absent or unparsable values;
// explicit out-of-range numbers are clamped.
func parseLimit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return DefaultLimit
	}
	return clampLimit(n)
}

// clampLimit bounds a page size to [MinLimit, MaxLimit].
func clampLimit(n int) int {
	if n < MinLimit {
		return MinLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

func parseWeight(s string) float64 {
	v, ok := parseFloat(s)
	if !ok {
		return DefaultWeight
	}
	return v
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
