package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jusmonitor/process-tracker/internal/cache"
	"github.com/jusmonitor/process-tracker/internal/config"
	"github.com/jusmonitor/process-tracker/internal/database"
	"github.com/jusmonitor/process-tracker/internal/repository"
	"github.com/jusmonitor/process-tracker/internal/service"
	"github.com/jusmonitor/process-tracker/pkg/logger"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	processes *service.ProcessService
	scraping  *service.ScrapingService
	courts    *repository.CourtRepository
	cache     cache.Cache
	logger    *logger.Logger
	cfg       *config.Config
}

// NewHandlers creates a new handlers instance
func NewHandlers(
	processes *service.ProcessService,
	scraping *service.ScrapingService,
	courts *repository.CourtRepository,
	processCache cache.Cache,
	log *logger.Logger,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		processes: processes,
		scraping:  scraping,
		courts:    courts,
		cache:     processCache,
		logger:    log,
		cfg:       cfg,
	}
}

// ScrapeProcess triggers scraping of a single process
func (h *Handlers) ScrapeProcess(c *gin.Context) {
	processNumber := c.Param("number")

	courtID, err := strconv.ParseUint(c.Query("court_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid or missing court_id",
		})
		return
	}

	forceUpdate := c.Query("force_update") == "true"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*h.cfg.RequestTimeout)
	defer cancel()

	outcome := h.scraping.ScrapeProcess(ctx, processNumber, uint(courtID), forceUpdate)
	if !outcome.Success {
		c.JSON(http.StatusBadRequest, outcome)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// ScrapeBatch triggers scraping of multiple processes
func (h *Handlers) ScrapeBatch(c *gin.Context) {
	var req struct {
		ProcessNumbers []string `json:"process_numbers" binding:"required,min=1,max=100"`
		CourtID        uint     `json:"court_id" binding:"required"`
		MaxConcurrent  int      `json:"max_concurrent"`
		ForceUpdate    bool     `json:"force_update"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	timeout := h.cfg.RequestTimeout * time.Duration(len(req.ProcessNumbers))
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	result := h.scraping.ScrapeBatch(ctx, req.ProcessNumbers, req.CourtID, req.MaxConcurrent, req.ForceUpdate)

	c.JSON(http.StatusOK, result)
}

// CreateProcess registers a process for tracking
func (h *Handlers) CreateProcess(c *gin.Context) {
	var input service.CreateProcessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	process, err := h.processes.Create(input)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrCourtNotFound) {
			status = http.StatusNotFound
		}
		if errors.Is(err, service.ErrProcessExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    process,
	})
}

// GetProcess returns a process by ID with movements and documents
func (h *Handlers) GetProcess(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid process ID",
		})
		return
	}

	process, err := h.processes.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    process,
	})
}

// GetProcessByNumber returns a process by its case number
func (h *Handlers) GetProcessByNumber(c *gin.Context) {
	process, fromCache, err := h.processes.GetByNumber(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      process,
		"fromCache": fromCache,
	})
}

// UpdateProcess applies a partial operator update
func (h *Handlers) UpdateProcess(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid process ID",
		})
		return
	}

	var input service.UpdateProcessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	process, err := h.processes.Update(uint(id), input)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrProcessNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    process,
	})
}

// DeleteProcess removes a process and its movements and documents
func (h *Handlers) DeleteProcess(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid process ID",
		})
		return
	}

	if err := h.processes.Delete(uint(id)); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrProcessNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// SearchProcesses returns a paginated process listing
func (h *Handlers) SearchProcesses(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	var courtID uint
	if raw := c.Query("court_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "invalid court_id",
			})
			return
		}
		courtID = uint(parsed)
	}

	result, err := h.processes.Search(
		c.Query("q"),
		courtID,
		database.ProcessStatus(c.Query("status")),
		page,
		pageSize,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Items,
		"pagination": gin.H{
			"page":        result.Page,
			"page_size":   result.PageSize,
			"total":       result.Total,
			"total_pages": result.TotalPages,
		},
	})
}

// ListCourts returns all registered courts
func (h *Handlers) ListCourts(c *gin.Context) {
	courts, err := h.courts.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    courts,
	})
}

// CreateCourt registers a new scraping target
func (h *Handlers) CreateCourt(c *gin.Context) {
	var court database.Court
	if err := c.ShouldBindJSON(&court); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if court.Name == "" || court.Acronym == "" || court.BaseURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "name, acronym and base_url are required",
		})
		return
	}

	if err := h.courts.Create(&court); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    court,
	})
}

// AvailableScrapers lists court acronyms with a registered adapter
func (h *Handlers) AvailableScrapers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.scraping.AvailableCourts(),
	})
}

// HealthCheck returns the health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	_, err := h.courts.List()

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": err == nil,
		"cache":    h.cache.Stats(),
		"time":     time.Now().Unix(),
	})
}

// CacheStats returns cache statistics
func (h *Handlers) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   h.cache.Stats(),
	})
}
