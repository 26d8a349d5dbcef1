package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jusmonitor/process-tracker/internal/database"
)

// ProcessRepository is the storage collaborator for judicial processes.
// The reconciliation engine never issues raw queries; everything goes
// through these operations.
type ProcessRepository struct {
	db *gorm.DB
}

func NewProcessRepository(db *gorm.DB) *ProcessRepository {
	return &ProcessRepository{db: db}
}

// GetByProcessNumber loads a process with its court, movements and documents.
// Returns (nil, nil) when no record exists.
func (r *ProcessRepository) GetByProcessNumber(number string) (*database.Process, error) {
	var process database.Process
	err := r.db.
		Preload("Court").
		Preload("Movements").
		Preload("Documents").
		Where("process_number = ?", number).
		First(&process).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load process %s: %w", number, err)
	}
	return &process, nil
}

// GetWithDetails loads a process by ID with all relations.
func (r *ProcessRepository) GetWithDetails(id uint) (*database.Process, error) {
	var process database.Process
	err := r.db.
		Preload("Court").
		Preload("Movements").
		Preload("Documents").
		First(&process, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load process %d: %w", id, err)
	}
	return &process, nil
}

// Create persists a new process. The case number unique index enforces
// identity at creation.
func (r *ProcessRepository) Create(process *database.Process) error {
	if err := r.db.Create(process).Error; err != nil {
		return fmt.Errorf("failed to create process %s: %w", process.ProcessNumber, err)
	}
	return nil
}

// UpdateFields applies a partial field update to a process by ID.
func (r *ProcessRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.Model(&database.Process{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update process %d: %w", id, err)
	}
	return nil
}

// AddMovement appends a movement to a process.
func (r *ProcessRepository) AddMovement(movement *database.Movement) error {
	if err := r.db.Create(movement).Error; err != nil {
		return fmt.Errorf("failed to add movement: %w", err)
	}
	return nil
}

// AddDocument appends a document to a process.
func (r *ProcessRepository) AddDocument(document *database.Document) error {
	if err := r.db.Create(document).Error; err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	return nil
}

// RecordScrapeFailure increments the consecutive scrape-error counter.
// The freshness timestamp is left untouched so a flapping source stays
// eligible for re-scraping.
func (r *ProcessRepository) RecordScrapeFailure(id uint) error {
	err := r.db.Model(&database.Process{}).
		Where("id = ?", id).
		UpdateColumn("scraping_errors", gorm.Expr("scraping_errors + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to record scrape failure for process %d: %w", id, err)
	}
	return nil
}

// SearchFilter narrows Search results.
type SearchFilter struct {
	Query   string
	CourtID uint
	Status  database.ProcessStatus
	Offset  int
	Limit   int
}

// Search finds processes by free text over number, subject and judge,
// with optional court and status filters.
func (r *ProcessRepository) Search(filter SearchFilter) ([]database.Process, int64, error) {
	query := r.db.Model(&database.Process{})

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where(
			"process_number LIKE ? OR subject LIKE ? OR judge LIKE ?",
			like, like, like,
		)
	}
	if filter.CourtID != 0 {
		query = query.Where("court_id = ?", filter.CourtID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count processes: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var processes []database.Process
	err := query.
		Preload("Court").
		Offset(filter.Offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&processes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search processes: %w", err)
	}

	return processes, total, nil
}

// ListStale returns processes of a court whose last scrape is older than
// the cutoff (or that were never scraped), oldest first.
func (r *ProcessRepository) ListStale(courtID uint, olderThan time.Duration, limit int) ([]database.Process, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	var processes []database.Process
	err := r.db.
		Where("court_id = ?", courtID).
		Where("last_scraped_at IS NULL OR last_scraped_at < ?", cutoff).
		Order("last_scraped_at ASC").
		Limit(limit).
		Find(&processes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stale processes: %w", err)
	}
	return processes, nil
}

// Delete removes a process and its movements and documents.
func (r *ProcessRepository) Delete(id uint) (bool, error) {
	if err := r.db.Where("process_id = ?", id).Delete(&database.Movement{}).Error; err != nil {
		return false, fmt.Errorf("failed to delete movements: %w", err)
	}
	if err := r.db.Where("process_id = ?", id).Delete(&database.Document{}).Error; err != nil {
		return false, fmt.Errorf("failed to delete documents: %w", err)
	}

	result := r.db.Delete(&database.Process{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete process %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
