package etl

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/zeptoanalysis/server/internal/analytics"
	"github.com/zeptoanalysis/server/internal/models"
)

// Pipeline loads the source CSV into the zepto table: extract, transform,
// truncate-and-load, then validate by recomputing the overview metrics.
// Every run replaces the full table contents.
type Pipeline struct {
	db        *gorm.DB
	batchSize int
}

// NewPipeline creates a Pipeline. A batchSize <= 0 falls back to 1000.
func NewPipeline(db *gorm.DB, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Pipeline{db: db, batchSize: batchSize}
}

// Run executes the full pipeline against csvPath and records an ImportRun
// row with the cleaning messages and post-load summary.
func (p *Pipeline) Run(csvPath string) (*models.ImportRun, error) {
	start := time.Now()

	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	records, err := Extract(f)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	log.Printf("📥 Extracted %d rows from %s", len(records), filepath.Base(csvPath))

	result := Transform(records)
	for _, msg := range result.Messages {
		log.Printf("🧹 %s", msg)
	}
	log.Printf("✅ Transformation complete, %d rows ready for loading", len(result.Products))

	if err := p.db.AutoMigrate(&models.Product{}, &models.ImportRun{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	// Full replace, matching the source pipeline.
	if err := p.db.Exec("TRUNCATE TABLE zepto RESTART IDENTITY").Error; err != nil {
		return nil, fmt.Errorf("clear existing data: %w", err)
	}

	if len(result.Products) > 0 {
		if err := p.db.CreateInBatches(&result.Products, p.batchSize).Error; err != nil {
			return nil, fmt.Errorf("load rows: %w", err)
		}
	}
	log.Printf("✅ Loaded %d rows into zepto", len(result.Products))

	summary, err := analytics.NewEngine(p.db).Overview()
	if err != nil {
		return nil, fmt.Errorf("validate loaded data: %w", err)
	}

	messagesJSON, err := json.Marshal(result.Messages)
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("encode summary: %w", err)
	}

	run := &models.ImportRun{
		SourceFile:    filepath.Base(csvPath),
		RowsExtracted: len(records),
		RowsLoaded:    len(result.Products),
		DurationMs:    time.Since(start).Milliseconds(),
		Messages:      datatypes.JSON(messagesJSON),
		Summary:       datatypes.JSON(summaryJSON),
	}
	if err := p.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("record import run: %w", err)
	}
	return run, nil
}
