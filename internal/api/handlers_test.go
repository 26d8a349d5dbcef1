package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jusmonitor/process-tracker/internal/cache"
	"github.com/jusmonitor/process-tracker/internal/config"
	"github.com/jusmonitor/process-tracker/internal/database"
	"github.com/jusmonitor/process-tracker/internal/repository"
	"github.com/jusmonitor/process-tracker/internal/scraper"
	"github.com/jusmonitor/process-tracker/internal/service"
	"github.com/jusmonitor/process-tracker/pkg/logger"
)

func newTestRouter(t *testing.T) (*gin.Engine, *database.Court) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	court := &database.Court{
		Name:    "Tribunal de Justiça de São Paulo",
		Acronym: "TJSP",
		BaseURL: "https://esaj.tjsp.jus.br",
		Active:  true,
	}
	require.NoError(t, db.Create(court).Error)

	log, err := logger.NewLogger("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{
		UserAgent:      "test",
		MaxRetries:     1,
		RequestTimeout: 5 * time.Second,
	}

	processRepo := repository.NewProcessRepository(db)
	courtRepo := repository.NewCourtRepository(db)
	processCache := cache.NewCache(100, time.Minute)
	registry := scraper.NewRegistry(cfg, log)

	processes := service.NewProcessService(processRepo, courtRepo, processCache)
	scraping := service.NewScrapingService(processRepo, courtRepo, registry, processCache, log, time.Hour, 5)

	router := gin.New()
	SetupRoutes(router, processes, scraping, courtRepo, processCache, log, cfg)

	return router, court
}

// testCNJ builds a case number with a valid mod-97 check pair.
func testCNJ(t *testing.T, sequential, year, jtrOrigin string) string {
	t.Helper()
	base, err := strconv.ParseUint(sequential+year+jtrOrigin, 10, 64)
	require.NoError(t, err)
	return fmt.Sprintf("%s%02d%s%s", sequential, 98-base%97, year, jtrOrigin)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, true, resp["database"])
}

func TestCreateProcessEndpoint(t *testing.T) {
	router, court := newTestRouter(t)
	number := testCNJ(t, "0001234", "2024", "8260100")

	rec := doJSON(t, router, http.MethodPost, "/api/processes", gin.H{
		"process_number": number,
		"court_id":       court.ID,
		"subject":        "Despejo",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    database.Process `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, number, resp.Data.ProcessNumber)

	// same identity again conflicts
	rec = doJSON(t, router, http.MethodPost, "/api/processes", gin.H{
		"process_number": number,
		"court_id":       court.ID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateProcessEndpointRejectsBadNumber(t *testing.T) {
	router, court := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/processes", gin.H{
		"process_number": "1234567-99.2024.1.23.4567",
		"court_id":       court.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProcessEndpointUnknownCourt(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/processes", gin.H{
		"process_number": testCNJ(t, "0001234", "2024", "8260100"),
		"court_id":       9999,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProcessByNumberEndpoint(t *testing.T) {
	router, court := newTestRouter(t)
	number := testCNJ(t, "0001234", "2024", "8260100")

	rec := doJSON(t, router, http.MethodPost, "/api/processes", gin.H{
		"process_number": number,
		"court_id":       court.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/processes/number/"+number, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success   bool `json:"success"`
		FromCache bool `json:"fromCache"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.FromCache)

	rec = doJSON(t, router, http.MethodGet, "/api/processes/number/"+number, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.FromCache)
}

func TestGetProcessByNumberNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/processes/number/"+testCNJ(t, "0009999", "2024", "8260100"), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchProcessesEndpoint(t *testing.T) {
	router, court := newTestRouter(t)

	for i, subject := range []string{"Cobrança de Aluguéis", "Despejo"} {
		rec := doJSON(t, router, http.MethodPost, "/api/processes", gin.H{
			"process_number": testCNJ(t, fmt.Sprintf("000123%d", i), "2024", "8260100"),
			"court_id":       court.ID,
			"subject":        subject,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/processes?q=Cobran%C3%A7a", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success    bool               `json:"success"`
		Data       []database.Process `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Pagination.Total)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Cobrança de Aluguéis", resp.Data[0].Subject)
}

func TestListCourtsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/courts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    []database.Court `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "TJSP", resp.Data[0].Acronym)
}

func TestCreateCourtEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/courts", gin.H{
		"name":     "Tribunal de Justiça do Rio de Janeiro",
		"acronym":  "TJRJ",
		"base_url": "https://www.tjrj.jus.br",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/courts", gin.H{"name": "incomplete"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAvailableScrapersEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/courts/available", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data, "TJSP")
}

func TestScrapeProcessRequiresCourtID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/scraping/process/"+testCNJ(t, "0001234", "2024", "8260100"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScrapeProcessRejectsInvalidNumber(t *testing.T) {
	router, court := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/scraping/process/1234567-99.2024.1.23.4567?court_id=%d", court.ID), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var outcome service.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Error, "invalid case number")
}

func TestScrapeBatchValidatesPayload(t *testing.T) {
	router, court := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/scraping/batch", gin.H{
		"process_numbers": []string{},
		"court_id":        court.ID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCacheStatsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/cache/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool                   `json:"success"`
		Stats   map[string]interface{} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}
