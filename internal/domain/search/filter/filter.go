package filter

import "github.com/kailas-cloud/marketsearch/internal/domain/search/result"

// Filter narrows ranked candidates after the ranking call.
// Nil fields mean "no constraint". MinPrice may exceed MaxPrice; that simply matches nothing.
type Filter struct {
	CategoryID   *string
	UniversityID *string
	MinPrice     *float64
	MaxPrice     *float64
}

// IsEmpty reports whether the filter has no constraints.
func (f Filter) IsEmpty() bool {
	return f.CategoryID == nil && f.UniversityID == nil && f.MinPrice == nil && f.MaxPrice == nil
}

// Matches reports whether a single candidate satisfies every constraint.
func (f Filter) Matches(r *result.Result) bool {
	if f.CategoryID != nil && r.CategoryID != *f.CategoryID {
		return false
	}
	if f.UniversityID != nil && r.UniversityID != *f.UniversityID {
		return false
	}
	if f.MinPrice != nil && r.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && r.Price > *f.MaxPrice {
		return false
	}
	return true
}

// Apply returns the candidates that match, preserving ranking order.
// The input slice is not modified.
func (f Filter) Apply(results []result.Result) []result.Result {
	if f.IsEmpty() {
		return results
	}
	out := make([]result.Result, 0, len(results))
	for i := range results {
		if f.Matches(&results[i]) {
			out = append(out, results[i])
		}
	}
	return out
}
