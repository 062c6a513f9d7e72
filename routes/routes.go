package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/chessleaguetracker/leagueboard/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	leagueHandler *handlers.LeagueHandler,
	matchHandler *handlers.MatchHandler,
	riskHandler *handlers.RiskHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/summary", leagueHandler.GetSummary)
		r.Get("/leaderboard", leagueHandler.GetLeaderboard)
		r.Get("/players/search", leagueHandler.SearchPlayers)

		r.Route("/leagues", func(r chi.Router) {
			r.Get("/", leagueHandler.ListLeagues)
			r.Get("/{league}", leagueHandler.ListSubLeagues)
			r.Get("/{league}/subleagues/{subLeague}", leagueHandler.GetSubLeague)
			r.Get("/{league}/subleagues/{subLeague}/resignations", riskHandler.GetSubLeagueResignations)
		})

		r.Get("/matches/{matchID}/insights", matchHandler.GetInsights)
		r.Get("/risk/timeouts", riskHandler.GetTimeoutReport)
	})

	router.Get("/ws", webSocketHandler.ServeWs)
}
