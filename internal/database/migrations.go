package database

import (
	"fmt"

	"gorm.io/gorm"
)

// RunMigrations executes all database migrations
func RunMigrations(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates database indexes
func createIndexes(db *gorm.DB) error {
	// Index for movement dedup lookups during reconciliation
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_movements_dedup
		ON movements(process_id, movement_date)
	`).Error; err != nil {
		return err
	}

	// Index for the stale-process scan
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_processes_scraped
		ON processes(court_id, last_scraped_at)
	`).Error; err != nil {
		return err
	}

	// Index for document dedup lookups
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_documents_title
		ON documents(process_id, title)
	`).Error; err != nil {
		return err
	}

	return nil
}
