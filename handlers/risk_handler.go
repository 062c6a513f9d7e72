package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chessleaguetracker/leagueboard/services"
)

type RiskHandler struct {
	leagueService services.LeagueService
}

func NewRiskHandler(leagueService services.LeagueService) *RiskHandler {
	return &RiskHandler{leagueService: leagueService}
}

func (h *RiskHandler) GetTimeoutReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.leagueService.TimeoutReport()
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report, nil)
}

func (h *RiskHandler) GetSubLeagueResignations(w http.ResponseWriter, r *http.Request) {
	league := chi.URLParam(r, "league")
	subLeague := chi.URLParam(r, "subLeague")
	summaries, err := h.leagueService.SubLeagueResignations(league, subLeague)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		"league":    league,
		"subleague": subLeague,
		"players":   summaries,
	}, nil)
}
