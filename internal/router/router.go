// Package router sets up all HTTP routes and middleware chains for the
// PhotoShare API. Routes are organized into public and authenticated
// groups, with role guards on the moderation endpoints.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"photoshare/internal/handlers"
	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/token"
)

// Deps carries everything the route tree needs.
type Deps struct {
	Tokens     *token.Service
	Users      middleware.UserFinder
	Auth       *handlers.Auth
	Photos     *handlers.Photos
	Comments   *handlers.Comments
	Ratings    *handlers.Ratings
	Search     *handlers.Search
	Transforms *handlers.Transforms
	QR         *handlers.QR
}

// New creates and returns the configured chi router with all
// middleware and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Authenticate(d.Tokens, d.Users))

	// Health check, no auth.
	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints get a per-IP rate limit.
		r.Route("/auth", func(r chi.Router) {
			limiter := middleware.NewRateLimiter(10, time.Minute)
			r.Group(func(r chi.Router) {
				r.Use(limiter.Middleware)
				r.Post("/signup", d.Auth.Signup)
				r.Post("/login", d.Auth.Login)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", d.Auth.Me)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleAdmin))
				r.Put("/change-role/{id}", d.Auth.ChangeRole)
			})
		})

		r.Route("/photos", func(r chi.Router) {
			r.Get("/", d.Photos.List)
			r.Get("/{id}", d.Photos.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleUser))
				r.Post("/", d.Photos.Upload)
			})

			// Ownership checks happen inside the handlers.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Put("/{id}", d.Photos.Update)
				r.Delete("/{id}", d.Photos.Delete)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{commentID}", d.Comments.Get)
			r.Get("/photos/{photoID}", d.Comments.ListByPhoto)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/{photoID}", d.Comments.Create)
				r.Put("/{commentID}", d.Comments.Update)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleModerator))
				r.Delete("/{commentID}", d.Comments.Delete)
			})
		})

		r.Route("/rating", func(r chi.Router) {
			r.Get("/average-rating/{photoID}", d.Ratings.Average)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/{photoID}", d.Ratings.Create)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleModerator))
				r.Get("/{photoID}", d.Ratings.ListByPhoto)
				r.Delete("/{ratingID}", d.Ratings.Delete)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/search_photos", d.Search.Photos)
		})

		r.Route("/transform-image", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/{photoID}", d.Transforms.Create)
			r.Get("/{photoID}", d.Transforms.List)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/generate_qr/{photoID}", d.QR.Generate)
		})
		r.Get("/get_qr/{photoID}", d.QR.Get)
	})

	return r
}
