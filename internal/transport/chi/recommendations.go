package chi

import (
	"net/http"

	"go.uber.org/zap"

	domrec "github.com/kailas-cloud/marketsearch/internal/domain/recommendation"
	"github.com/kailas-cloud/marketsearch/internal/logger"
)

// GetRecommendations handles POST and GET /api/v1/recommendations.
// Failures degrade to an empty list with success=false.
func (s *Server) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	req := domrec.NewRequest(r.FormValue("q"), r.FormValue("limit"))
	rc := RequestContextFrom(r.Context())

	recs, err := s.recommend.Recommend(r.Context(), rc, req)
	if err != nil {
		status, msg := resolveError(s.recommendErrors, err, msgRecommendFailed)
		logger.FromContextOr(r.Context(), s.logger).Warn("Recommendation request failed",
			zap.Int("status", status),
			zap.Error(err),
		)
		writeJSON(w, status, recommendationsResponse{
			Success:         false,
			Recommendations: []recommendationDTO{},
			Error:           msg,
		})
		return
	}

	writeJSON(w, http.StatusOK, recommendationsResponse{
		Success:         true,
		Recommendations: recommendationsToDTO(recs),
	})
}
