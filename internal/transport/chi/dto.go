package chi

import (
	domrec "github.com/kailas-cloud/marketsearch/internal/domain/recommendation"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/page"
	"github.com/kailas-cloud/marketsearch/internal/domain/search/result"
)

type paginationDTO struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// resultDTO keeps the column names of the ranking function.
type resultDTO struct {
	ID                  string  `json:"id"`
	StoreID             string  `json:"store_id"`
	Title               string  `json:"title"`
	Description         string  `json:"description"`
	Price               float64 `json:"price"`
	ImageURL            string  `json:"image_url"`
	CategoryID          string  `json:"category_id"`
	CategoryName        string  `json:"category_name"`
	StockQuantity       int     `json:"stock_quantity"`
	IsActive            bool    `json:"is_active"`
	StoreName           string  `json:"store_name"`
	UniversityID        string  `json:"university_id"`
	UniversityShortCode string  `json:"university_short_code"`
	Score               float64 `json:"score"`
}

type searchResponse struct {
	Success    bool          `json:"success"`
	Data       []resultDTO   `json:"data"`
	Pagination paginationDTO `json:"pagination"`
	Query      string        `json:"query"`
	Error      string        `json:"error,omitempty"`
}

type recommendationDTO struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	CategoryName *string `json:"category_name"`
	ImageURL     string  `json:"image_url"`
	Price        float64 `json:"price"`
}

type recommendationsResponse struct {
	Success         bool                `json:"success"`
	Recommendations []recommendationDTO `json:"recommendations"`
	Error           string              `json:"error,omitempty"`
}

// errorResponse is the envelope for auth and routing failures.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func paginationToDTO(p page.Pagination) paginationDTO {
	return paginationDTO{Page: p.Page, Limit: p.Limit, Total: p.Total, TotalPages: p.TotalPages}
}

func resultsToDTO(rs []result.Result) []resultDTO {
	out := make([]resultDTO, len(rs))
	for i := range rs {
		r := &rs[i]
		out[i] = resultDTO{
			ID:                  r.ID,
			StoreID:             r.StoreID,
			Title:               r.Title,
			Description:         r.Description,
			Price:               r.Price,
			ImageURL:            r.ImageURL,
			CategoryID:          r.CategoryID,
			CategoryName:        r.CategoryName,
			StockQuantity:       r.StockQuantity,
			IsActive:            r.IsActive,
			StoreName:           r.StoreName,
			UniversityID:        r.UniversityID,
			UniversityShortCode: r.UniversityShortCode,
			Score:               r.Score,
		}
	}
	return out
}

func recommendationsToDTO(recs []domrec.Recommendation) []recommendationDTO {
	out := make([]recommendationDTO, len(recs))
	for i, r := range recs {
		out[i] = recommendationDTO{
			ID:           r.ID,
			Title:        r.Title,
			CategoryName: r.CategoryName,
			ImageURL:     r.ImageURL,
			Price:        r.Price,
		}
	}
	return out
}

// failedSearch is the envelope for any search failure: empty data, zero pagination.
func failedSearch(msg string) searchResponse {
	return searchResponse{Success: false, Data: []resultDTO{}, Error: msg}
}

// failedRecommendations is the envelope for any recommendation failure.
func failedRecommendations(msg string) recommendationsResponse {
	return recommendationsResponse{Success: false, Recommendations: []recommendationDTO{}, Error: msg}
}
