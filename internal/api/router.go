package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetops/tracking-backend-go/internal/config"
	"github.com/fleetops/tracking-backend-go/internal/handler"
	"github.com/fleetops/tracking-backend-go/internal/middleware"
)

// Handlers bundles the HTTP handlers the router wires up
type Handlers struct {
	Assets    *handler.AssetHandler
	Geofences *handler.GeofenceHandler
	Histories *handler.HistoryHandler
	Playback  *handler.PlaybackHandler
}

// SetupRouter builds the gin engine with middleware and all routes
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateWindow))

	// Permissive CORS for the admin console
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Fleet Tracking API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		assets := api.Group("/assets")
		{
			assets.GET("", h.Assets.GetAssets)
			assets.GET("/:id", h.Assets.GetAssetByID)
		}

		geofences := api.Group("/geofences")
		{
			geofences.GET("", h.Geofences.GetGeofences)
			geofences.GET("/:id", h.Geofences.GetGeofenceByID)
			geofences.GET("/:id/compliance", h.Geofences.GetCompliance)
			geofences.GET("/:id/violations", h.Geofences.GetViolations)
		}

		api.GET("/compliance", h.Geofences.GetFleetCompliance)

		histories := api.Group("/histories")
		{
			histories.GET("", h.Histories.GetHistories)
			histories.GET("/:assetId/summary", h.Histories.GetHistorySummary)
		}

		playback := api.Group("/playback/sessions")
		{
			playback.POST("", h.Playback.CreateSession)
			playback.GET("/:id", h.Playback.GetSession)
			playback.GET("/:id/render", h.Playback.GetRenderState)
			playback.POST("/:id/command", h.Playback.Command)
			playback.DELETE("/:id", h.Playback.CloseSession)
		}
	}

	return r
}
