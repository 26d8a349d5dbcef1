package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jusmonitor/process-tracker/internal/api"
	"github.com/jusmonitor/process-tracker/internal/cache"
	"github.com/jusmonitor/process-tracker/internal/config"
	"github.com/jusmonitor/process-tracker/internal/repository"
	"github.com/jusmonitor/process-tracker/internal/scraper"
	"github.com/jusmonitor/process-tracker/internal/service"
	"github.com/jusmonitor/process-tracker/pkg/logger"
)

type Server struct {
	cfg    *config.Config
	db     *gorm.DB
	cache  cache.Cache
	logger *logger.Logger
	router *gin.Engine
}

func New(cfg *config.Config, db *gorm.DB, processCache cache.Cache, log *logger.Logger) *Server {
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	processRepo := repository.NewProcessRepository(db)
	courtRepo := repository.NewCourtRepository(db)

	registry := scraper.NewRegistry(cfg, log)

	scrapingService := service.NewScrapingService(
		processRepo,
		courtRepo,
		registry,
		processCache,
		log,
		cfg.FreshnessWindow,
		cfg.MaxConcurrentScrapes,
	)
	processService := service.NewProcessService(processRepo, courtRepo, processCache)

	server := &Server{
		cfg:    cfg,
		db:     db,
		cache:  processCache,
		logger: log,
		router: router,
	}

	api.SetupRoutes(router, processService, scrapingService, courtRepo, processCache, log, cfg)

	return server
}

func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("Failed to start server", "error", err)
		}
	}()

	s.logger.Info("Server started", "address", srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	s.logger.Info("Server exited gracefully")
	return nil
}

func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			"client_ip", clientIP,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency.String(),
			"user_agent", c.Request.UserAgent(),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
