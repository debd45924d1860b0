package http

import (
	"net/http"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// SearchStatsResponse wraps telemetry aggregates
// @Description Search statistics envelope
type SearchStatsResponse struct {
	Success bool               `json:"success" example:"true"`
	Data    domain.SearchStats `json:"data"`
}

// handleSearchStats godoc
// @Summary      Search statistics
// @Description  Rolling aggregates over recent searches
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SearchStatsResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /admin/search-stats [get]
func (s *Server) handleSearchStats(w http.ResponseWriter, r *http.Request) {
	stats := s.searchService.Stats()
	if stats.PopularQueries == nil {
		stats.PopularQueries = []domain.PopularQuery{}
	}
	writeJSON(w, http.StatusOK, SearchStatsResponse{Success: true, Data: stats})
}

// handleRedisHealth godoc
// @Summary      Redis health
// @Description  Probes the event bus and workflow engine Redis instances
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.RedisHealthReport
// @Failure      503  {object}  domain.RedisHealthReport
// @Router       /admin/redis-health [get]
func (s *Server) handleRedisHealth(w http.ResponseWriter, r *http.Request) {
	if s.healthService == nil {
		writeError(w, http.StatusServiceUnavailable, "redis health checks not configured")
		return
	}

	report, err := s.healthService.RedisHealth(r.Context())
	if err != nil {
		s.logger.Error("redis health check error", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": string(domain.HealthStatusUnhealthy),
			"error":  err.Error(),
		})
		return
	}

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}
