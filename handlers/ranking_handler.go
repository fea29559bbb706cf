package handlers

import (
	"net/http"

	"github.com/timbersport/ranking-system/services"
)

type RankingHandler struct {
	rankingService   services.RankingService
	dashboardService services.DashboardService
}

func NewRankingHandler(
	rankingService services.RankingService,
	dashboardService services.DashboardService,
) *RankingHandler {
	return &RankingHandler{
		rankingService:   rankingService,
		dashboardService: dashboardService,
	}
}

// Rankings handles GET /rankings: the full competition ranking table,
// recomputed from the stored raw results on every call.
func (h *RankingHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.rankingService.RankAll(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"rankings": ranked}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Dashboard handles GET /dashboard.
func (h *RankingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
