package query

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zeptoanalysis/server/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return db
}

func TestValidateRejectsNonSelect(t *testing.T) {
	cases := []string{
		"DROP TABLE zepto",
		"  show tables",
		"",
		"with cte as (select 1) select * from cte",
	}
	for _, q := range cases {
		if err := Validate(q); !errors.Is(err, ErrNotSelect) {
			t.Errorf("Validate(%q): expected ErrNotSelect, got %v", q, err)
		}
	}
}

func TestValidateRejectsForbiddenKeywords(t *testing.T) {
	cases := []struct {
		query   string
		keyword string
	}{
		{"SELECT * FROM zepto; DELETE FROM zepto", "delete"},
		{"select * from zepto where name = 'DROP'", "drop"},
		{"SELECT 1; TRUNCATE TABLE zepto", "truncate"},
		// Substring containment is intentionally over-broad: an identifier
		// merely containing a keyword is rejected too.
		{"SELECT created_at FROM zepto", "create"},
		{"SELECT updated_at FROM zepto", "update"},
	}
	for _, tc := range cases {
		err := Validate(tc.query)
		var kwErr *ForbiddenKeywordError
		if !errors.As(err, &kwErr) {
			t.Errorf("Validate(%q): expected ForbiddenKeywordError, got %v", tc.query, err)
			continue
		}
		if kwErr.Keyword != tc.keyword {
			t.Errorf("Validate(%q): expected keyword %q, got %q", tc.query, tc.keyword, kwErr.Keyword)
		}
	}
}

func TestValidateAcceptsSelect(t *testing.T) {
	cases := []string{
		"SELECT 1",
		"  select name, mrp from zepto order by mrp desc  ",
		"SeLeCt count(*) FROM zepto",
	}
	for _, q := range cases {
		if err := Validate(q); err != nil {
			t.Errorf("Validate(%q): expected pass, got %v", q, err)
		}
	}
}

func TestExecuteRejectsBeforeReachingEngine(t *testing.T) {
	// A nil handle proves rejection happens before any dispatch.
	guard := NewGuard(nil)

	if _, err := guard.Execute("DROP TABLE zepto"); !errors.Is(err, ErrNotSelect) {
		t.Errorf("Expected ErrNotSelect, got %v", err)
	}

	var kwErr *ForbiddenKeywordError
	if _, err := guard.Execute("SELECT * FROM zepto; DELETE FROM zepto"); !errors.As(err, &kwErr) {
		t.Errorf("Expected ForbiddenKeywordError, got %v", err)
	}
}

func TestExecuteSelectOne(t *testing.T) {
	guard := NewGuard(newTestDB(t))

	result, err := guard.Execute("SELECT 1")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.RowCount != 1 {
		t.Fatalf("Expected rowCount 1, got %d", result.RowCount)
	}
	if len(result.Columns) != 1 {
		t.Fatalf("Expected single column, got %v", result.Columns)
	}
	if len(result.Rows) != 1 || len(result.Rows[0]) != 1 {
		t.Fatalf("Expected single cell, got %v", result.Rows)
	}
	if v, ok := result.Rows[0][0].(int64); !ok || v != 1 {
		t.Errorf("Expected value 1, got %v", result.Rows[0][0])
	}
	if result.ExecutionTime < 0 {
		t.Errorf("Expected non-negative execution time, got %d", result.ExecutionTime)
	}
}

func TestExecuteEmptyResultHidesColumns(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	guard := NewGuard(db)

	result, err := guard.Execute("SELECT id, name FROM zepto")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.RowCount != 0 {
		t.Fatalf("Expected empty result, got %d rows", result.RowCount)
	}
	if len(result.Columns) != 0 {
		t.Errorf("Expected no column names for an empty result, got %v", result.Columns)
	}
	if len(result.Rows) != 0 {
		t.Errorf("Expected no rows, got %v", result.Rows)
	}
}

func TestExecuteEngineErrorWrapped(t *testing.T) {
	guard := NewGuard(newTestDB(t))

	_, err := guard.Execute("SELECT missing_column FROM no_such_table")
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("Expected ExecError, got %v", err)
	}
	if execErr.Message == "" {
		t.Error("Expected the engine message to be carried through")
	}
}

func TestExecuteNormalizesRowValues(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	product := models.Product{Category: "Snacks", Name: "Chips", Mrp: 2000, DiscountedSellingPrice: 1500, DiscountPercent: 25, AvailableQuantity: 7, WeightInGms: 150, Quantity: 1}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}
	guard := NewGuard(db)

	result, err := guard.Execute("SELECT name, mrp FROM zepto")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.RowCount != 1 {
		t.Fatalf("Expected 1 row, got %d", result.RowCount)
	}
	if len(result.Columns) != 2 {
		t.Fatalf("Expected 2 columns, got %v", result.Columns)
	}
	if name, ok := result.Rows[0][0].(string); !ok || name != "Chips" {
		t.Errorf("Expected text column as string \"Chips\", got %v", result.Rows[0][0])
	}
}
