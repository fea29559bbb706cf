package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/timbersport/ranking-system/handlers"
	"github.com/timbersport/ranking-system/middleware"
	"github.com/timbersport/ranking-system/models"
)

// SetupRoutes wires every handler into the router. Reads are public;
// anything that writes requires an admin token.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	competitorHandler *handlers.CompetitorHandler,
	tournamentHandler *handlers.TournamentHandler,
	uploadHandler *handlers.UploadHandler,
	rankingHandler *handlers.RankingHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))
	adminOnly := middleware.Authorize(models.RoleAdmin)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Get("/rankings", rankingHandler.Rankings)
	router.Get("/dashboard", rankingHandler.Dashboard)
	router.Get("/ws/rankings", webSocketHandler.ServeRankings)

	router.Route("/competitors", func(r chi.Router) {
		r.Get("/", competitorHandler.List)
		r.Get("/{id}", competitorHandler.Get)
		r.Get("/{id}/history", competitorHandler.History)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Post("/", competitorHandler.Create)
			r.Patch("/{id}", competitorHandler.Update)
			r.Delete("/{id}", competitorHandler.Delete)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{id}", tournamentHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Delete("/{id}", tournamentHandler.Delete)
			r.Put("/{id}/results/{competitorID}", tournamentHandler.UpsertResult)
		})
	})

	router.Route("/uploads", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)

		r.Post("/preview", uploadHandler.Preview)
		r.Post("/commit", uploadHandler.Commit)
	})
}
