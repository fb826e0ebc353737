package ranking

import "github.com/kailas-cloud/marketsearch/internal/domain/search/result"

// rankedRow mirrors one row of hybrid_search. Joined columns may be NULL.
type rankedRow struct {
	ID                  string
	StoreID             string
	Title               string
	Description         *string
	Price               float64
	ImageURL            *string
	CategoryID          *string
	CategoryName        *string
	StockQuantity       int32
	IsActive            bool
	StoreName           *string
	UniversityID        *string
	UniversityShortCode *string
	Score               float64
}

func (r *rankedRow) toDomain() result.Result {
	return result.Result{
		ID:                  r.ID,
		StoreID:             r.StoreID,
		Title:               r.Title,
		Description:         deref(r.Description),
		Price:               r.Price,
		ImageURL:            deref(r.ImageURL),
		CategoryID:          deref(r.CategoryID),
		CategoryName:        deref(r.CategoryName),
		StockQuantity:       int(r.StockQuantity),
		IsActive:            r.IsActive,
		StoreName:           deref(r.StoreName),
		UniversityID:        deref(r.UniversityID),
		UniversityShortCode: deref(r.UniversityShortCode),
		Score:               r.Score,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
