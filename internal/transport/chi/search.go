package chi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/marketsearch/internal/domain/search/query"
	"github.com/kailas-cloud/marketsearch/internal/logger"
)

// searchParamsFromRequest reads query string and form fields. Missing or malformed
// values are left for the normalizer to default.
func searchParamsFromRequest(r *http.Request) query.Params {
	return query.Params{
		Text:           r.FormValue("q"),
		CategoryID:     r.FormValue("category"),
		UniversityID:   r.FormValue("university"),
		MinPrice:       r.FormValue("minPrice"),
		MaxPrice:       r.FormValue("maxPrice"),
		Page:           r.FormValue("page"),
		Limit:          r.FormValue("limit"),
		FullTextWeight: r.FormValue("ftWeight"),
		SemanticWeight: r.FormValue("semWeight"),
	}
}

// SearchProducts handles GET and POST /api/v1/search.
func (s *Server) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := query.Normalize(searchParamsFromRequest(r))
	rc := RequestContextFrom(r.Context())

	resp, err := s.search.Search(r.Context(), rc, q)
	if err != nil {
		status, msg := resolveError(s.searchErrors, err, msgSearchUnexpected)
		logger.FromContextOr(r.Context(), s.logger).Warn("Search request failed",
			zap.Int("status", status),
			zap.Error(err),
		)
		body := failedSearch(msg)
		body.Query = q.Text()
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Success:    true,
		Data:       resultsToDTO(resp.Results),
		Pagination: paginationToDTO(resp.Pagination),
		Query:      resp.Query,
	})
}
