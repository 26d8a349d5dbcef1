package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// SeedCourts inserts the default court catalog. Existing acronyms are
// left untouched.
func SeedCourts(db *gorm.DB) error {
	courts := []Court{
		{
			Name:      "Tribunal de Justiça de São Paulo",
			Acronym:   "TJSP",
			CourtType: "TJ",
			State:     "SP",
			BaseURL:   "https://esaj.tjsp.jus.br",
			SearchURL: "https://esaj.tjsp.jus.br/cpopg/search.do",
			Active:    true,
		},
		{
			Name:      "Tribunal de Justiça do Rio de Janeiro",
			Acronym:   "TJRJ",
			CourtType: "TJ",
			State:     "RJ",
			BaseURL:   "https://www3.tjrj.jus.br",
			Active:    false,
		},
	}

	for _, court := range courts {
		var existing Court
		err := db.Where("acronym = ?", court.Acronym).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check court %s: %w", court.Acronym, err)
		}
		if err := db.Create(&court).Error; err != nil {
			return fmt.Errorf("failed to seed court %s: %w", court.Acronym, err)
		}
	}

	return nil
}
