package api

import (
	"net/http"

	"github.com/Rrens/chatrooms/internal/api/handler"
	customMiddleware "github.com/Rrens/chatrooms/internal/api/middleware"
	"github.com/Rrens/chatrooms/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures the HTTP router. limiter may be nil, in
// which case protected routes are not rate limited.
func NewRouter(a *app.App, limiter customMiddleware.Limiter) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(a.Config.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handler.NewAuthHandler(a.Auth)
	roomHandler := handler.NewRoomHandler(a.Chat)
	messageHandler := handler.NewMessageHandler(a.Chat)
	uploadHandler := handler.NewUploadHandler(a.Chat)

	authMiddleware := customMiddleware.NewAuthMiddleware(a.JWT)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(a.Storage))
		r.Get("/countries", handler.ListCountries(a.Countries))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/otp", authHandler.RequestOTP)
			r.Post("/verify", authHandler.Verify)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			if limiter != nil {
				r.Use(customMiddleware.NewRateLimitMiddleware(limiter).Limit)
			}

			r.Get("/me", authHandler.Me)
			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/notifications", handler.ListNotifications(a.Feed))
			r.Get("/llm-providers", handler.ListProviders(a.LLM))

			r.Route("/rooms", func(r chi.Router) {
				r.Get("/", roomHandler.List)
				r.Post("/", roomHandler.Create)
				r.Get("/active", roomHandler.Active)

				r.Route("/{roomID}", func(r chi.Router) {
					r.Get("/", roomHandler.Get)
					r.Delete("/", roomHandler.Delete)
					r.Put("/active", roomHandler.Select)
				})
			})

			r.Get("/messages", messageHandler.List)
			r.Post("/messages", messageHandler.Send)
			r.Post("/messages/image", uploadHandler.UploadImage)
			r.Put("/search", messageHandler.SetSearch)
		})
	})

	return r
}
