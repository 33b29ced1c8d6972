package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/fleetops/tracking-backend-go/internal/api"
	"github.com/fleetops/tracking-backend-go/internal/config"
	"github.com/fleetops/tracking-backend-go/internal/database"
	"github.com/fleetops/tracking-backend-go/internal/events"
	"github.com/fleetops/tracking-backend-go/internal/handler"
	"github.com/fleetops/tracking-backend-go/internal/playback"
	"github.com/fleetops/tracking-backend-go/internal/repository"
	"github.com/fleetops/tracking-backend-go/internal/service"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		log.Fatal("Failed to create data directory:", err)
	}
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	db := database.GetDB()
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	if cfg.SeedDemo {
		if err := database.SeedDemoData(db); err != nil {
			log.Fatal("Failed to seed demo data:", err)
		}
	}

	var publisher events.AlertPublisher = events.NoopPublisher{}
	if cfg.EventsEnabled {
		bus, err := events.Connect(events.Config{
			Embedded: cfg.EventsEmbedded,
			Port:     cfg.EventsPort,
			URL:      cfg.EventsURL,
		})
		if err != nil {
			log.Fatal("Failed to start event bus:", err)
		}
		defer bus.Shutdown()
		publisher = events.NewNATSPublisher(bus.Conn())
	}

	assetRepo := repository.NewAssetRepository(db)
	geofenceRepo := repository.NewGeofenceRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	playbackOpts := playback.Options{
		TickPeriod:    cfg.PlaybackTickPeriod,
		SimStepMillis: cfg.PlaybackSimStepMillis,
		Scheduler:     playback.TickerScheduler{},
	}
	playbackService := service.NewPlaybackService(historyRepo, playbackOpts)
	defer playbackService.CloseAll()

	handlers := api.Handlers{
		Assets:    handler.NewAssetHandler(service.NewAssetService(assetRepo)),
		Geofences: handler.NewGeofenceHandler(service.NewGeofenceService(geofenceRepo), service.NewComplianceService(geofenceRepo, assetRepo, publisher)),
		Histories: handler.NewHistoryHandler(service.NewHistoryService(historyRepo)),
		Playback:  handler.NewPlaybackHandler(playbackService),
	}

	router := api.SetupRouter(cfg, handlers)

	log.Printf("Server starting on %s", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
