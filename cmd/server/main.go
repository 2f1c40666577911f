package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/classify"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/config"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/db"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/extract"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/handler"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/middleware"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/repository"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/router"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/service"
	"github.com/ColinusM/Piano-Jazz-Concept/internal/youtube"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "pianojazz-api")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, "docs/schema.sql"); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)

	extractor, err := extract.NewClient(cfg, middleware.Logger)
	if err != nil {
		log.Fatalf("failed to build extraction client: %v", err)
	}
	yt := youtube.NewClient(cfg.YouTubeAPIKey, "", nil)

	videoRepo := repository.NewVideoRepo(pool)
	songRepo := repository.NewSongRepo(pool)

	catalogSvc := service.NewCatalogService(yt, videoRepo, cache, middleware.Logger, cfg.YouTubeChannelHandle, cfg.SyncPageSize)
	reconcileSvc := service.NewReconcileService(videoRepo, songRepo, extractor, cache, middleware.Logger)
	songSvc := service.NewSongService(songRepo, videoRepo, classify.ByKeywords, cache, middleware.Logger)
	videoSvc := service.NewVideoService(videoRepo, songRepo, classify.ByKeywords, cache, middleware.Logger)

	app := fiber.New(fiber.Config{
		AppName:      "Piano Jazz Concept API",
		ServerHeader: "PianoJazzConcept",
	})

	router.Setup(app, &router.Handlers{
		Video:    handler.NewVideoHandler(videoSvc, songSvc),
		Song:     handler.NewSongHandler(songSvc),
		Pipeline: handler.NewPipelineHandler(catalogSvc, reconcileSvc),
		Stats:    handler.NewStatsHandler(videoSvc),
		Health:   handler.NewHealthHandler(pool, cache.Client()),
	}, cfg.CORSOrigins)

	middleware.Logger.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Msg("server starting")
	log.Fatal(app.Listen(":" + cfg.Port))
}
