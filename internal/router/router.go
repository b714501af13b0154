// Package router sets up all HTTP routes and middleware chains for the
// catalog API. It organizes routes into public, favorites, and admin
// groups with appropriate middleware stacks.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"dreamtales/internal/handlers"
	"dreamtales/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The caller owns the rate limiter's
// lifecycle; Stop it on shutdown.
func New(public *handlers.Public, favorites *handlers.Favorites, admin *handlers.Admin, playLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", public.Health)

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog reads.
		r.Route("/content", func(r chi.Router) {
			r.Get("/", public.ListContent)
			r.Get("/search", public.SearchContent)
			r.Get("/slug/{slug}", public.GetContentBySlug)
			r.Get("/{id}", public.GetContent)

			// Playback events are the one write the apps can spam.
			r.With(playLimiter.Middleware).Post("/{id}/play", public.RecordPlay)
		})

		r.Get("/categories", public.ListCategories)

		// Per-kid favorites. The gateway authenticates and forwards the
		// account ID; ownership is checked in the engine.
		r.Get("/favorites", favorites.ListByUser)
		r.Route("/kids/{kidID}/favorites", func(r chi.Router) {
			r.Get("/", favorites.List)
			r.Post("/", favorites.Add)
			r.Get("/{contentID}", favorites.Check)
			r.Delete("/{contentID}", favorites.Remove)
		})

		// Admin writes. The gateway only routes these to us for verified
		// editors, so there is no second auth layer here.
		r.Route("/admin", func(r chi.Router) {
			r.Route("/content", func(r chi.Router) {
				r.Post("/", admin.CreateContent)
				r.Put("/{id}", admin.UpdateContent)
				r.Delete("/{id}", admin.ArchiveContent)
				r.Post("/{id}/restore", admin.RestoreContent)
				r.Post("/{id}/rename", admin.RenameContent)
				r.Post("/{id}/popularity", admin.BoostPopularity)
				r.Put("/{id}/languages/{code}", admin.SetLanguage)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", admin.CreateCategory)
				r.Put("/{id}", admin.UpdateCategory)
				r.Delete("/{id}", admin.DeleteCategory)
				r.Post("/recount", admin.RecountCategories)
			})

			r.Post("/media", admin.UploadMedia)
		})
	})

	return r
}

// DefaultPlayLimiter returns the rate limiter used for the playback
// endpoint: generous enough for a family device, tight enough to keep a
// looping client from inflating popularity.
func DefaultPlayLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(60, time.Minute)
}
