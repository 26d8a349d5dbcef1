package service

import (
	"errors"
	"fmt"

	"github.com/jusmonitor/process-tracker/internal/cache"
	"github.com/jusmonitor/process-tracker/internal/database"
	"github.com/jusmonitor/process-tracker/internal/repository"
	"github.com/jusmonitor/process-tracker/internal/textutil"
)

var (
	ErrInvalidCaseNumber = errors.New("invalid case number")
	ErrCourtNotFound     = errors.New("court not found")
	ErrProcessExists     = errors.New("process already registered")
	ErrProcessNotFound   = errors.New("process not found")
)

// ProcessService manages explicit registration and lookup of processes.
// Registration creates a record before any scrape has run; scraping fills
// it in later.
type ProcessService struct {
	processRepo *repository.ProcessRepository
	courtRepo   *repository.CourtRepository
	cache       cache.Cache
}

func NewProcessService(
	processRepo *repository.ProcessRepository,
	courtRepo *repository.CourtRepository,
	processCache cache.Cache,
) *ProcessService {
	return &ProcessService{
		processRepo: processRepo,
		courtRepo:   courtRepo,
		cache:       processCache,
	}
}

// CreateProcessInput carries the fields accepted at registration.
type CreateProcessInput struct {
	ProcessNumber string                 `json:"process_number" binding:"required"`
	CourtID       uint                   `json:"court_id" binding:"required"`
	Subject       string                 `json:"subject"`
	ClassType     string                 `json:"class_type"`
	Area          string                 `json:"area"`
	Status        database.ProcessStatus `json:"status"`
}

// Create registers a process. The case number must pass CNJ validation
// and be unique.
func (s *ProcessService) Create(input CreateProcessInput) (*database.Process, error) {
	if !textutil.ValidateCaseNumber(input.ProcessNumber) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCaseNumber, input.ProcessNumber)
	}
	canonical := textutil.OnlyDigits(input.ProcessNumber)

	court, err := s.courtRepo.GetByID(input.CourtID)
	if err != nil {
		return nil, err
	}
	if court == nil {
		return nil, fmt.Errorf("%w: %d", ErrCourtNotFound, input.CourtID)
	}

	existing, err := s.processRepo.GetByProcessNumber(canonical)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrProcessExists, canonical)
	}

	status := input.Status
	if status == "" {
		status = database.StatusActive
	}

	process := &database.Process{
		ProcessNumber: canonical,
		CourtID:       court.ID,
		Subject:       input.Subject,
		ClassType:     input.ClassType,
		Area:          input.Area,
		Status:        status,
	}
	if err := s.processRepo.Create(process); err != nil {
		return nil, err
	}

	return process, nil
}

// GetByID loads a process with full details.
func (s *ProcessService) GetByID(id uint) (*database.Process, error) {
	process, err := s.processRepo.GetWithDetails(id)
	if err != nil {
		return nil, err
	}
	if process == nil {
		return nil, fmt.Errorf("%w: %d", ErrProcessNotFound, id)
	}
	return process, nil
}

// GetByNumber loads a process by case number, consulting the read cache
// first.
func (s *ProcessService) GetByNumber(processNumber string) (*database.Process, bool, error) {
	canonical := textutil.OnlyDigits(processNumber)

	if cached, found := s.cache.Get(cache.Key(canonical)); found {
		return cached, true, nil
	}

	process, err := s.processRepo.GetByProcessNumber(canonical)
	if err != nil {
		return nil, false, err
	}
	if process == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrProcessNotFound, canonical)
	}

	s.cache.Set(cache.Key(canonical), process)
	return process, false, nil
}

// UpdateProcessInput carries the operator-editable fields. Empty fields
// are left unchanged.
type UpdateProcessInput struct {
	Subject         string                 `json:"subject"`
	ClassType       string                 `json:"class_type"`
	Area            string                 `json:"area"`
	Status          database.ProcessStatus `json:"status"`
	CurrentLocation string                 `json:"current_location"`
	Judge           string                 `json:"judge"`
}

// Update applies a partial operator update to a process.
func (s *ProcessService) Update(id uint, input UpdateProcessInput) (*database.Process, error) {
	process, err := s.processRepo.GetWithDetails(id)
	if err != nil {
		return nil, err
	}
	if process == nil {
		return nil, fmt.Errorf("%w: %d", ErrProcessNotFound, id)
	}

	fields := map[string]interface{}{}
	if input.Subject != "" {
		fields["subject"] = input.Subject
	}
	if input.ClassType != "" {
		fields["class_type"] = input.ClassType
	}
	if input.Area != "" {
		fields["area"] = input.Area
	}
	if input.Status != "" {
		fields["status"] = input.Status
	}
	if input.CurrentLocation != "" {
		fields["current_location"] = input.CurrentLocation
	}
	if input.Judge != "" {
		fields["judge"] = input.Judge
	}

	if len(fields) > 0 {
		if err := s.processRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
		s.cache.Delete(cache.Key(process.ProcessNumber))
	}

	return s.processRepo.GetWithDetails(id)
}

// Delete removes a process. Deletion is an explicit operator action; the
// scraping core never deletes records.
func (s *ProcessService) Delete(id uint) error {
	process, err := s.processRepo.GetWithDetails(id)
	if err != nil {
		return err
	}
	if process == nil {
		return fmt.Errorf("%w: %d", ErrProcessNotFound, id)
	}

	deleted, err := s.processRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %d", ErrProcessNotFound, id)
	}

	s.cache.Delete(cache.Key(process.ProcessNumber))
	return nil
}

// SearchResult is one page of search hits.
type SearchResult struct {
	Items      []database.Process `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int64              `json:"total_pages"`
}

// Search finds processes by free text with optional filters and pagination.
func (s *ProcessService) Search(query string, courtID uint, status database.ProcessStatus, page, pageSize int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}

	items, total, err := s.processRepo.Search(repository.SearchFilter{
		Query:   query,
		CourtID: courtID,
		Status:  status,
		Offset:  (page - 1) * pageSize,
		Limit:   pageSize,
	})
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}
