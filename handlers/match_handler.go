package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chessleaguetracker/leagueboard/services"
)

type MatchHandler struct {
	leagueService services.LeagueService
}

func NewMatchHandler(leagueService services.LeagueService) *MatchHandler {
	return &MatchHandler{leagueService: leagueService}
}

// GetInsights serves the match modal payload: result, registration signal,
// cohort breakdowns, timeout alerts and early resignations.
func (h *MatchHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	insights, err := h.leagueService.MatchInsights(matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insights, nil)
}
