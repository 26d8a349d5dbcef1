package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jusmonitor/process-tracker/internal/cache"
	"github.com/jusmonitor/process-tracker/internal/database"
	"github.com/jusmonitor/process-tracker/internal/repository"
	"github.com/jusmonitor/process-tracker/internal/scraper"
	"github.com/jusmonitor/process-tracker/internal/textutil"
	"github.com/jusmonitor/process-tracker/pkg/logger"
)

// Outcome is the result of scraping one process.
type Outcome struct {
	ProcessNumber  string `json:"process_number"`
	Success        bool   `json:"success"`
	Cached         bool   `json:"cached"`
	Error          string `json:"error,omitempty"`
	MovementsCount int    `json:"movements_count"`
	DocumentsCount int    `json:"documents_count"`
}

// BatchOutcome aggregates per-item outcomes of a batch scrape. Results
// keeps the input ordering.
type BatchOutcome struct {
	Total        int       `json:"total"`
	SuccessCount int       `json:"success_count"`
	ErrorCount   int       `json:"error_count"`
	Results      []Outcome `json:"results"`
}

// ScrapingService orchestrates scraping across processes and reconciles
// extracted records against stored state.
type ScrapingService struct {
	processRepo *repository.ProcessRepository
	courtRepo   *repository.CourtRepository
	registry    *scraper.Registry
	cache       cache.Cache
	logger      *logger.Logger

	freshnessWindow time.Duration
	maxConcurrent   int
}

func NewScrapingService(
	processRepo *repository.ProcessRepository,
	courtRepo *repository.CourtRepository,
	registry *scraper.Registry,
	processCache cache.Cache,
	log *logger.Logger,
	freshnessWindow time.Duration,
	maxConcurrent int,
) *ScrapingService {
	if freshnessWindow <= 0 {
		freshnessWindow = time.Hour
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &ScrapingService{
		processRepo:     processRepo,
		courtRepo:       courtRepo,
		registry:        registry,
		cache:           processCache,
		logger:          log,
		freshnessWindow: freshnessWindow,
		maxConcurrent:   maxConcurrent,
	}
}

// ScrapeProcess scrapes a single process and reconciles the result.
// Every failure is converted into a failure Outcome; nothing escapes
// this boundary.
func (s *ScrapingService) ScrapeProcess(ctx context.Context, processNumber string, courtID uint, forceUpdate bool) Outcome {
	if !textutil.ValidateCaseNumber(processNumber) {
		return failure(processNumber, fmt.Sprintf("invalid case number: %s", processNumber))
	}
	canonical := textutil.OnlyDigits(processNumber)

	court, err := s.courtRepo.GetByID(courtID)
	if err != nil {
		return failure(canonical, err.Error())
	}
	if court == nil {
		return failure(canonical, fmt.Sprintf("court not found: %d", courtID))
	}

	process, err := s.processRepo.GetByProcessNumber(canonical)
	if err != nil {
		return failure(canonical, err.Error())
	}

	// Freshness gate: a recently scraped record short-circuits without
	// touching the network unless the caller forces an update.
	if !forceUpdate && process != nil && process.LastScrapedAt != nil {
		if time.Since(*process.LastScrapedAt) < s.freshnessWindow {
			return Outcome{ProcessNumber: canonical, Success: true, Cached: true}
		}
	}

	adapter, err := s.registry.Create(court.Acronym)
	if err != nil {
		s.recordFailure(process)
		return failure(canonical, err.Error())
	}
	defer adapter.Close()

	fields, err := adapter.SearchProcess(ctx, canonical)
	if err != nil {
		s.logger.Warn("search failed", "process", canonical, "court", court.Acronym, "error", err)
		s.recordFailure(process)
		return failure(canonical, err.Error())
	}

	movements, err := adapter.GetMovements(ctx, canonical)
	if err != nil {
		s.logger.Warn("movement fetch failed", "process", canonical, "court", court.Acronym, "error", err)
		s.recordFailure(process)
		return failure(canonical, err.Error())
	}

	documents, err := adapter.GetDocuments(ctx, canonical)
	if err != nil {
		s.logger.Warn("document fetch failed", "process", canonical, "court", court.Acronym, "error", err)
		s.recordFailure(process)
		return failure(canonical, err.Error())
	}

	if process == nil {
		err = s.createProcess(court.ID, canonical, fields, movements, documents)
	} else {
		err = s.mergeProcess(process, fields, movements, documents)
	}
	if err != nil {
		s.recordFailure(process)
		return failure(canonical, err.Error())
	}

	s.cache.Delete(cache.Key(canonical))

	return Outcome{
		ProcessNumber:  canonical,
		Success:        true,
		MovementsCount: len(movements),
		DocumentsCount: len(documents),
	}
}

// createProcess persists a first-scrape record with every extracted
// movement and document.
func (s *ScrapingService) createProcess(
	courtID uint,
	processNumber string,
	fields *scraper.ProcessFields,
	movements []scraper.ExtractedMovement,
	documents []scraper.ExtractedDocument,
) error {
	now := time.Now().UTC()

	process := &database.Process{
		ProcessNumber:    processNumber,
		CourtID:          courtID,
		Subject:          fields.Subject,
		ClassType:        fields.ClassType,
		Area:             fields.Area,
		DistributionDate: fields.DistributionDate,
		Plaintiffs:       fields.Plaintiffs,
		Defendants:       fields.Defendants,
		Lawyers:          fields.Lawyers,
		Status:           database.StatusActive,
		CurrentLocation:  fields.CurrentLocation,
		Judge:            fields.Judge,
		RawHTML:          fields.RawHTML,
		LastScrapedAt:    &now,
		ScrapingErrors:   0,
	}
	if fields.CaseValue != nil {
		process.CaseValue.Decimal = *fields.CaseValue
		process.CaseValue.Valid = true
	}

	if err := s.processRepo.Create(process); err != nil {
		return err
	}

	for _, mov := range movements {
		if err := s.processRepo.AddMovement(newMovement(process.ID, mov)); err != nil {
			return err
		}
	}
	for _, doc := range documents {
		if err := s.processRepo.AddDocument(newDocument(process.ID, doc)); err != nil {
			return err
		}
	}

	return nil
}

// mergeProcess applies a field-level merge onto an existing record and
// appends only movements and documents whose dedup key is new. Extracted
// fields that are absent never erase stored values.
func (s *ScrapingService) mergeProcess(
	process *database.Process,
	fields *scraper.ProcessFields,
	movements []scraper.ExtractedMovement,
	documents []scraper.ExtractedDocument,
) error {
	now := time.Now().UTC()

	update := map[string]interface{}{
		"last_scraped_at": now,
		"scraping_errors": 0,
	}
	if fields.Subject != "" {
		update["subject"] = fields.Subject
	}
	if fields.ClassType != "" {
		update["class_type"] = fields.ClassType
	}
	if fields.Area != "" {
		update["area"] = fields.Area
	}
	if fields.Judge != "" {
		update["judge"] = fields.Judge
	}
	if fields.CurrentLocation != "" {
		update["current_location"] = fields.CurrentLocation
	}
	if fields.DistributionDate != nil {
		update["distribution_date"] = *fields.DistributionDate
	}
	if fields.CaseValue != nil {
		update["case_value"] = *fields.CaseValue
	}
	if len(fields.Plaintiffs) > 0 {
		update["plaintiffs"] = database.PartyList(fields.Plaintiffs)
	}
	if len(fields.Defendants) > 0 {
		update["defendants"] = database.PartyList(fields.Defendants)
	}
	if len(fields.Lawyers) > 0 {
		update["lawyers"] = database.PartyList(fields.Lawyers)
	}
	if fields.RawHTML != "" {
		update["raw_html"] = fields.RawHTML
	}

	if err := s.processRepo.UpdateFields(process.ID, update); err != nil {
		return err
	}

	existingMovements := make(map[string]struct{}, len(process.Movements))
	for _, m := range process.Movements {
		existingMovements[movementKey(m.MovementDate, m.Description)] = struct{}{}
	}

	for _, mov := range movements {
		key := movementKey(mov.Date, mov.Description)
		if _, ok := existingMovements[key]; ok {
			continue
		}
		if err := s.processRepo.AddMovement(newMovement(process.ID, mov)); err != nil {
			return err
		}
		existingMovements[key] = struct{}{}
	}

	existingDocuments := make(map[string]struct{}, len(process.Documents))
	for _, d := range process.Documents {
		existingDocuments[d.Title] = struct{}{}
	}

	for _, doc := range documents {
		if _, ok := existingDocuments[doc.Title]; ok {
			continue
		}
		if err := s.processRepo.AddDocument(newDocument(process.ID, doc)); err != nil {
			return err
		}
		existingDocuments[doc.Title] = struct{}{}
	}

	return nil
}

// recordFailure bumps the error counter on the stored record. A failure
// before any record exists persists nothing.
func (s *ScrapingService) recordFailure(process *database.Process) {
	if process == nil {
		return
	}
	if err := s.processRepo.RecordScrapeFailure(process.ID); err != nil {
		s.logger.Error("failed to record scrape failure", "process", process.ProcessNumber, "error", err)
	}
}

// ScrapeBatch scrapes many processes under a concurrency cap. Every item
// runs to completion regardless of sibling failures, and Results matches
// the input ordering. Duplicate case numbers are scraped once and their
// outcome shared, so a single batch never races itself on one record.
func (s *ScrapingService) ScrapeBatch(ctx context.Context, processNumbers []string, courtID uint, maxConcurrent int, forceUpdate bool) *BatchOutcome {
	if maxConcurrent <= 0 {
		maxConcurrent = s.maxConcurrent
	}

	unique := make([]string, 0, len(processNumbers))
	seen := make(map[string]int, len(processNumbers))
	for _, number := range processNumbers {
		canonical := textutil.OnlyDigits(number)
		if _, ok := seen[canonical]; !ok {
			seen[canonical] = len(unique)
			unique = append(unique, number)
		}
	}

	uniqueResults := make([]Outcome, len(unique))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrent)

	for i, number := range unique {
		wg.Add(1)
		go func(index int, processNumber string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			uniqueResults[index] = s.ScrapeProcess(ctx, processNumber, courtID, forceUpdate)
		}(i, number)
	}

	wg.Wait()

	outcome := &BatchOutcome{
		Total:   len(processNumbers),
		Results: make([]Outcome, len(processNumbers)),
	}
	for i, number := range processNumbers {
		result := uniqueResults[seen[textutil.OnlyDigits(number)]]
		outcome.Results[i] = result
		if result.Success {
			outcome.SuccessCount++
		} else {
			outcome.ErrorCount++
		}
	}

	return outcome
}

// AvailableCourts lists the court acronyms with a registered adapter.
func (s *ScrapingService) AvailableCourts() []string {
	return s.registry.AvailableCourts()
}

func failure(processNumber, message string) Outcome {
	return Outcome{ProcessNumber: processNumber, Error: message}
}

func movementKey(date time.Time, description string) string {
	return date.UTC().Format("2006-01-02T15:04:05") + "|" + description
}

func newMovement(processID uint, mov scraper.ExtractedMovement) *database.Movement {
	return &database.Movement{
		ProcessID:         processID,
		MovementDate:      mov.Date,
		MovementType:      mov.MovementType,
		Description:       mov.Description,
		ComplementaryInfo: mov.ComplementaryInfo,
		Responsible:       mov.Responsible,
	}
}

func newDocument(processID uint, doc scraper.ExtractedDocument) *database.Document {
	return &database.Document{
		ProcessID:    processID,
		DocumentType: doc.DocumentType,
		Title:        doc.Title,
		FilingDate:   doc.FilingDate,
		FileURL:      doc.FileURL,
		FileHash:     doc.FileHash,
		FileSize:     doc.FileSize,
		IsPublic:     doc.IsPublic,
	}
}
