package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jusmonitor/process-tracker/internal/database"
)

// CourtRepository is the storage collaborator for scraping targets.
type CourtRepository struct {
	db *gorm.DB
}

func NewCourtRepository(db *gorm.DB) *CourtRepository {
	return &CourtRepository{db: db}
}

// GetByID returns (nil, nil) when the court does not exist.
func (r *CourtRepository) GetByID(id uint) (*database.Court, error) {
	var court database.Court
	err := r.db.First(&court, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load court %d: %w", id, err)
	}
	return &court, nil
}

// GetByAcronym returns (nil, nil) when the acronym is unknown.
func (r *CourtRepository) GetByAcronym(acronym string) (*database.Court, error) {
	var court database.Court
	err := r.db.Where("acronym = ?", acronym).First(&court).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load court %s: %w", acronym, err)
	}
	return &court, nil
}

// ListActive returns the courts currently enabled for scraping.
func (r *CourtRepository) ListActive() ([]database.Court, error) {
	var courts []database.Court
	if err := r.db.Where("active = ?", true).Find(&courts).Error; err != nil {
		return nil, fmt.Errorf("failed to list active courts: %w", err)
	}
	return courts, nil
}

// List returns all registered courts.
func (r *CourtRepository) List() ([]database.Court, error) {
	var courts []database.Court
	if err := r.db.Order("acronym ASC").Find(&courts).Error; err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}
	return courts, nil
}

// Create persists a new court definition.
func (r *CourtRepository) Create(court *database.Court) error {
	if err := r.db.Create(court).Error; err != nil {
		return fmt.Errorf("failed to create court %s: %w", court.Acronym, err)
	}
	return nil
}
