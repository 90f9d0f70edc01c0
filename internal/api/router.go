package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nicolasm28/interview-evaluation/internal/api/handlers"
	"github.com/nicolasm28/interview-evaluation/internal/auth"
	"github.com/nicolasm28/interview-evaluation/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(corsOrigins []string, itemService services.ItemServiceProvider, userService services.UserServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	itemHandler := handlers.NewItemHandler(itemService)
	userHandler := handlers.NewUserHandler(userService)
	requireAuth := auth.Basic(userService)

	r.Route("/items", func(r chi.Router) {
		r.Get("/", itemHandler.GetAll)
		r.Get("/{id}", itemHandler.Get)

		// Mutations require Basic credentials
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", itemHandler.Create)
			r.Put("/{id}", itemHandler.Update)
			r.Delete("/{id}", itemHandler.Delete)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Register)
		r.With(requireAuth).Get("/me", userHandler.GetMe)
	})

	return r
}
