package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chessleaguetracker/leagueboard/services"
)

type LeagueHandler struct {
	leagueService services.LeagueService
}

func NewLeagueHandler(leagueService services.LeagueService) *LeagueHandler {
	return &LeagueHandler{leagueService: leagueService}
}

func (h *LeagueHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.leagueService.Summary()
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary, nil)
}

func (h *LeagueHandler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	names, err := h.leagueService.LeagueNames()
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"leagues": names}, nil)
}

func (h *LeagueHandler) ListSubLeagues(w http.ResponseWriter, r *http.Request) {
	league := chi.URLParam(r, "league")
	names, err := h.leagueService.SubLeagueNames(league)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"league": league, "subleagues": names}, nil)
}

func (h *LeagueHandler) GetSubLeague(w http.ResponseWriter, r *http.Request) {
	league := chi.URLParam(r, "league")
	subLeague := chi.URLParam(r, "subLeague")
	view, err := h.leagueService.SubLeagueView(league, subLeague)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view, nil)
}

func (h *LeagueHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	leaderboard, err := h.leagueService.GlobalLeaderboard()
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": leaderboard}, nil)
}

func (h *LeagueHandler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	matches, err := h.leagueService.SearchPlayers(query)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{"query": query, "players": matches}, nil)
}
