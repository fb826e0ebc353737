package marketsearch

import (
	"strconv"

	domrec "github.com/kailas-cloud/marketsearch/internal/domain/recommendation"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/query"
	"github.com/kailas-cloud/marketsearch/internal/repository/catalog"
	searchuc "github.com/kailas-cloud/marketsearch/internal/usecase/search"
)

// SearchParams is a search request. Zero values mean "use the default";
// nil pointers mean "no filter".
type SearchParams struct {
	Query          string
	CategoryID     string
	UniversityID   string
	MinPrice       *float64
	MaxPrice       *float64
	Page           int
	Limit          int
	FullTextWeight *float64
	SemanticWeight *float64
}

// Product is one ranked search hit.
type Product struct {
	ID                  string
	StoreID             string
	Title               string
	Description         string
	Price               float64
	ImageURL            string
	CategoryID          string
	CategoryName        string
	StockQuantity       int
	IsActive            bool
	StoreName           string
	UniversityID        string
	UniversityShortCode string
	Score               float64
}

// Pagination describes the returned page over the filtered results.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Products   []Product
	Pagination Pagination
	Query      string
}

// Recommendation is an autocomplete suggestion.
type Recommendation struct {
	ID           string
	Title        string
	CategoryName *string
	ImageURL     string
	Price        float64
}

// CatalogItem is a product for the in-memory catalog.
type CatalogItem struct {
	ID                  string
	StoreID             string
	Title               string
	Description         string
	Price               float64
	ImageURL            string
	CategoryID          string
	CategoryName        string
	StockQuantity       int
	IsActive            bool
	StoreName           string
	UniversityID        string
	UniversityShortCode string
	Embedding           []float32
}

func (p SearchParams) toQuery() query.Query {
	return query.Normalize(query.Params{
		Text:           p.Query,
		CategoryID:     p.CategoryID,
		UniversityID:   p.UniversityID,
		MinPrice:       formatFloat(p.MinPrice),
		MaxPrice:       formatFloat(p.MaxPrice),
		Page:           formatPositive(p.Page),
		Limit:          formatPositive(p.Limit),
		FullTextWeight: formatFloat(p.FullTextWeight),
		SemanticWeight: formatFloat(p.SemanticWeight),
	})
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatPositive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func fromSearchResponse(r searchuc.Response) SearchResponse {
	out := SearchResponse{
		Products: make([]Product, len(r.Results)),
		Pagination: Pagination{
			Page:       r.Pagination.Page,
			Limit:      r.Pagination.Limit,
			Total:      r.Pagination.Total,
			TotalPages: r.Pagination.TotalPages,
		},
		Query: r.Query,
	}
	for i := range r.Results {
		res := &r.Results[i]
		out.Products[i] = Product{
			ID:                  res.ID,
			StoreID:             res.StoreID,
			Title:               res.Title,
			Description:         res.Description,
			Price:               res.Price,
			ImageURL:            res.ImageURL,
			CategoryID:          res.CategoryID,
			CategoryName:        res.CategoryName,
			StockQuantity:       res.StockQuantity,
			IsActive:            res.IsActive,
			StoreName:           res.StoreName,
			UniversityID:        res.UniversityID,
			UniversityShortCode: res.UniversityShortCode,
			Score:               res.Score,
		}
	}
	return out
}

func fromRecommendations(recs []domrec.Recommendation) []Recommendation {
	out := make([]Recommendation, len(recs))
	for i, r := range recs {
		out[i] = Recommendation{
			ID:           r.ID,
			Title:        r.Title,
			CategoryName: r.CategoryName,
			ImageURL:     r.ImageURL,
			Price:        r.Price,
		}
	}
	return out
}

func toCatalogItems(items []CatalogItem) []catalog.Item {
	out := make([]catalog.Item, len(items))
	for i, it := range items {
		out[i] = catalog.Item{
			ID:                  it.ID,
			StoreID:             it.StoreID,
			Title:               it.Title,
			Description:         it.Description,
			Price:               it.Price,
			ImageURL:            it.ImageURL,
			CategoryID:          it.CategoryID,
			CategoryName:        it.CategoryName,
			StockQuantity:       it.StockQuantity,
			IsActive:            it.IsActive,
			StoreName:           it.StoreName,
			UniversityID:        it.UniversityID,
			UniversityShortCode: it.UniversityShortCode,
			Embedding:           it.Embedding,
		}
	}
	return out
}
