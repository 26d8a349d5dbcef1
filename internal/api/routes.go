package api

import (
	"github.com/gin-gonic/gin"

	"github.com/jusmonitor/process-tracker/internal/cache"
	"github.com/jusmonitor/process-tracker/internal/config"
	"github.com/jusmonitor/process-tracker/internal/repository"
	"github.com/jusmonitor/process-tracker/internal/service"
	"github.com/jusmonitor/process-tracker/pkg/logger"
)

// SetupRoutes configures all application routes
func SetupRoutes(
	router *gin.Engine,
	processes *service.ProcessService,
	scraping *service.ScrapingService,
	courts *repository.CourtRepository,
	processCache cache.Cache,
	log *logger.Logger,
	cfg *config.Config,
) {
	h := NewHandlers(processes, scraping, courts, processCache, log, cfg)

	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", h.HealthCheck)

		// Process endpoints
		api.GET("/processes", h.SearchProcesses)
		api.POST("/processes", h.CreateProcess)
		api.GET("/processes/:id", h.GetProcess)
		api.PATCH("/processes/:id", h.UpdateProcess)
		api.DELETE("/processes/:id", h.DeleteProcess)
		api.GET("/processes/number/:number", h.GetProcessByNumber)

		// Court endpoints
		api.GET("/courts", h.ListCourts)
		api.POST("/courts", h.CreateCourt)
		api.GET("/courts/available", h.AvailableScrapers)

		// Scraping triggers
		api.POST("/scraping/process/:number", h.ScrapeProcess)
		api.POST("/scraping/batch", h.ScrapeBatch)

		// Cache stats
		api.GET("/cache/stats", h.CacheStats)
	}
}
