package routes

import (
	"github.com/aibotsim/arena/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	scheduleHandler *handlers.ScheduleHandler,
	botHandler *handlers.BotHandler,
	battleHandler *handlers.BattleHandler,
	playoffHandler *handlers.PlayoffHandler,
	webSocketHandler *handlers.WebSocketHandler,
	healthHandler *handlers.HealthHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", healthHandler.HealthzHandler)

	router.Route("/schedule", func(r chi.Router) {
		r.Get("/next", scheduleHandler.NextGameHandler)
		// The {n} segment is overloaded: bare it is a count of upcoming
		// games, followed by /game it addresses one game by id. chi wants
		// a single wildcard name for the shared position.
		r.Get("/{n}", scheduleHandler.NextGamesHandler)
		r.Get("/{n}/game", scheduleHandler.GetGameHandler)
	})

	router.Route("/bots", func(r chi.Router) {
		r.Get("/leaderboard", botHandler.LeaderboardHandler)
		r.Get("/{botID}", botHandler.GetBotHandler)
		r.Get("/{botID}/image", botHandler.GetBotImageHandler)
		r.Put("/{botID}/image", botHandler.UploadBotImageHandler)
		r.Get("/{botID}/games", botHandler.GetBotGamesHandler)
	})

	router.Post("/battles/{gameID}", battleHandler.ResolveBattleHandler)

	router.Get("/playoff/create", playoffHandler.CreatePlayoffsHandler)

	router.Get("/ws/arena", webSocketHandler.ServeArenaFeed)
}
