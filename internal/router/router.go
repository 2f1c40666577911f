package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/handler"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Video    *handler.VideoHandler
	Song     *handler.SongHandler
	Pipeline *handler.PipelineHandler
	Stats    *handler.StatsHandler
	Health   *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	// Health and metrics (outside the API group)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	listing := middleware.NewListingRateLimiter().Handler()
	write := middleware.NewWriteRateLimiter().Handler()
	pipeline := middleware.NewPipelineRateLimiter().Handler()
	extract := middleware.NewExtractRateLimiter().Handler()

	api := app.Group("/api")

	// Video routes
	api.Get("/videos", h.Video.List, listing)
	api.Get("/videos/:id", h.Video.Get, listing)
	api.Get("/videos/:id/songs", h.Video.ListSongs, listing)
	api.Patch("/videos/:id/category", h.Video.SetCategory, write)
	api.Post("/videos/:id/songs", h.Song.Append, write)
	api.Post("/videos/:id/extract", h.Pipeline.Extract, extract)

	// Song routes
	api.Get("/songs", h.Song.List, listing)
	api.Patch("/songs/:id", h.Song.Correct, write)
	api.Delete("/songs/:id", h.Song.Delete, write)
	api.Post("/songs/:id/restore", h.Song.Restore, write)

	// Pipeline triggers
	api.Post("/sync", h.Pipeline.Sync, pipeline)
	api.Post("/reconcile", h.Pipeline.Reconcile, pipeline)

	// Stats
	api.Get("/stats", h.Stats.GetStats, listing)
}
