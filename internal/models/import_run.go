package models

import (
	"time"

	"gorm.io/datatypes"
)

// ImportRun records one execution of the CSV import pipeline: how many rows
// made it through each stage, what the cleaning rules changed, and the
// post-load summary statistics.
type ImportRun struct {
	ID            int            `gorm:"primaryKey" json:"id"`
	SourceFile    string         `gorm:"not null" json:"sourceFile"`
	RowsExtracted int            `gorm:"not null" json:"rowsExtracted"`
	RowsLoaded    int            `gorm:"not null" json:"rowsLoaded"`
	DurationMs    int64          `gorm:"not null" json:"durationMs"`
	Messages      datatypes.JSON `gorm:"type:jsonb" json:"messages"`
	Summary       datatypes.JSON `gorm:"type:jsonb" json:"summary"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func (ImportRun) TableName() string { return "import_runs" }
