package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProcessStatus enumerates the lifecycle states of a judicial process.
type ProcessStatus string

const (
	StatusActive        ProcessStatus = "ativo"
	StatusArchived      ProcessStatus = "arquivado"
	StatusSuspended     ProcessStatus = "suspenso"
	StatusWithdrawn     ProcessStatus = "baixado"
	StatusFinalJudgment ProcessStatus = "transitado_julgado"
)

// Party is one name/role entry in a process party list.
type Party struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// PartyList is stored as a JSON text column.
type PartyList []Party

func (p PartyList) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (p *PartyList) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PartyList", value)
	}

	return json.Unmarshal(data, p)
}

// Court is a scraping target definition. The acronym is the adapter lookup key.
type Court struct {
	gorm.Model
	Name      string `json:"name" gorm:"size:200;uniqueIndex"`
	Acronym   string `json:"acronym" gorm:"size:10;uniqueIndex"`
	CourtType string `json:"court_type" gorm:"size:50"`
	State     string `json:"state" gorm:"size:2"`
	BaseURL   string `json:"base_url" gorm:"size:500"`
	SearchURL string `json:"search_url" gorm:"size:500"`
	Active    bool   `json:"active" gorm:"default:true"`

	Processes []Process `json:"-" gorm:"foreignKey:CourtID"`
}

// Process is one judicial case, identified by its 20-digit CNJ number.
type Process struct {
	gorm.Model
	ProcessNumber string `json:"process_number" gorm:"size:25;uniqueIndex"`
	CourtID       uint   `json:"court_id" gorm:"index"`

	Subject          string     `json:"subject" gorm:"size:500"`
	ClassType        string     `json:"class_type" gorm:"size:100"`
	Area             string     `json:"area" gorm:"size:50"`
	DistributionDate *time.Time `json:"distribution_date"`

	Plaintiffs PartyList `json:"plaintiffs" gorm:"type:text"`
	Defendants PartyList `json:"defendants" gorm:"type:text"`
	Lawyers    PartyList `json:"lawyers" gorm:"type:text"`

	Status          ProcessStatus `json:"status" gorm:"size:30;default:ativo;index"`
	CurrentLocation string        `json:"current_location" gorm:"size:200"`
	Judge           string        `json:"judge" gorm:"size:200"`

	CaseValue decimal.NullDecimal `json:"case_value" gorm:"type:decimal(18,2)"`

	LastScrapedAt  *time.Time `json:"last_scraped_at"`
	ScrapingErrors int        `json:"scraping_errors" gorm:"default:0"`
	RawHTML        string     `json:"-" gorm:"type:text"`

	Court     Court      `json:"court,omitempty" gorm:"foreignKey:CourtID"`
	Movements []Movement `json:"movements,omitempty" gorm:"foreignKey:ProcessID"`
	Documents []Document `json:"documents,omitempty" gorm:"foreignKey:ProcessID"`
}

// Movement is one docketed event in a process timeline. Movements are
// append-only; (MovementDate, Description) is the dedup key.
type Movement struct {
	gorm.Model
	ProcessID uint `json:"process_id" gorm:"index"`

	MovementDate time.Time `json:"movement_date" gorm:"index"`
	MovementType string    `json:"movement_type" gorm:"size:200"`
	Description  string    `json:"description" gorm:"type:text"`

	ComplementaryInfo string `json:"complementary_info,omitempty" gorm:"type:text"`
	Responsible       string `json:"responsible,omitempty" gorm:"size:200"`
}

// Document is one filed document attached to a process. Append-only;
// the title is the dedup key.
type Document struct {
	gorm.Model
	ProcessID uint `json:"process_id" gorm:"index"`

	DocumentType string     `json:"document_type" gorm:"size:100"`
	Title        string     `json:"title" gorm:"size:500"`
	FilingDate   *time.Time `json:"filing_date"`

	FileURL  string `json:"file_url" gorm:"size:1000"`
	FileHash string `json:"file_hash" gorm:"size:64"`
	FileSize int64  `json:"file_size"`

	IsPublic   bool `json:"is_public" gorm:"default:true"`
	Downloaded bool `json:"downloaded" gorm:"default:false"`
}

func (Court) TableName() string {
	return "courts"
}

func (Process) TableName() string {
	return "processes"
}

func (Movement) TableName() string {
	return "movements"
}

func (Document) TableName() string {
	return "documents"
}
