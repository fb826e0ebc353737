package recommendation

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Autocomplete bounds.
const (
	// MinQueryLength is the shortest text (in runes) worth a lookup.
	MinQueryLength = 2
	DefaultLimit   = 5
	MaxLimit       = 10
)

// Recommendation is a lightweight autocomplete suggestion. It carries no relevance score;
// order is whatever the lookup returned.
type Recommendation struct {
	ID           string
	Title        string
	CategoryName *string
	ImageURL     string
	Price        float64
}

// Request is a normalized autocomplete request.
type Request struct {
	text  string
	limit int
}

// NewRequest trims text and bounds the raw limit to [1, MaxLimit].
// Absent, unparsable or non-positive limits fall back to DefaultLimit.
func NewRequest(text, rawLimit string) Request {
	return Request{
		text:  strings.TrimSpace(text),
		limit: parseLimit(rawLimit),
	}
}

// Text returns the trimmed lookup text.
func (r Request) Text() string { return r.text }

// Limit returns the bounded suggestion count.
func (r Request) Limit() int { return r.limit }

// TooShort reports whether the text is below MinQueryLength and must not hit the store.
func (r Request) TooShort() bool {
	return utf8.RuneCountInString(r.text) < MinQueryLength
}

func parseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}
