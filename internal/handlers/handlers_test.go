package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zeptoanalysis/server/internal/database"
	"github.com/zeptoanalysis/server/internal/models"
)

func newTestRouter(t *testing.T) (*Router, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return NewRouter(&database.DB{DB: db}), db
}

func doJSON(t *testing.T, router *Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}

func TestOverviewEndpoint(t *testing.T) {
	router, db := newTestRouter(t)
	products := []models.Product{
		{Category: "A", Name: "p1", Mrp: 1000, DiscountedSellingPrice: 800, DiscountPercent: 20, AvailableQuantity: 10, WeightInGms: 100, Quantity: 1},
		{Category: "B", Name: "p2", Mrp: 500, DiscountedSellingPrice: 500, DiscountPercent: 0, AvailableQuantity: 2, WeightInGms: 100, Quantity: 1},
	}
	if err := db.Create(&products).Error; err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	rec := doJSON(t, router, "GET", "/api/analytics/overview", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var m map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if m["totalProducts"] != float64(2) {
		t.Errorf("Expected totalProducts 2, got %v", m["totalProducts"])
	}
	if m["totalRevenue"] != float64(1300) {
		t.Errorf("Expected totalRevenue 1300, got %v", m["totalRevenue"])
	}
}

func TestStockStatusEndpointShape(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/analytics/stock-status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var buckets []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if len(buckets) != 3 {
		t.Fatalf("Expected 3 buckets, got %d", len(buckets))
	}
}

func TestInventoryWeightEndpointShape(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/analytics/inventory-weight", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var buckets []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &buckets); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if len(buckets) != 5 {
		t.Fatalf("Expected 5 buckets, got %d", len(buckets))
	}
}

func TestQueryEndpointRejectsDML(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/query", map[string]string{"query": "DROP TABLE zepto"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for DROP, got %d", rec.Code)
	}

	rec = doJSON(t, router, "POST", "/api/query", map[string]string{"query": "SELECT * FROM zepto; DELETE FROM zepto"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for embedded DELETE, got %d", rec.Code)
	}
}

func TestQueryEndpointExecutesSelect(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/query", map[string]string{"query": "SELECT 1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if result["rowCount"] != float64(1) {
		t.Errorf("Expected rowCount 1, got %v", result["rowCount"])
	}
}

func TestQueryEndpointReportsEngineFailureAsClientError(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/query", map[string]string{"query": "SELECT nope FROM missing"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for engine failure on user input, got %d", rec.Code)
	}
}

func TestProductCRUD(t *testing.T) {
	router, _ := newTestRouter(t)

	product := models.Product{
		Category:               "Snacks",
		Name:                   "Chips",
		Mrp:                    2000,
		DiscountedSellingPrice: 1500,
		DiscountPercent:        25,
		AvailableQuantity:      7,
		WeightInGms:            150,
		Quantity:               1,
	}

	rec := doJSON(t, router, "POST", "/api/products", product)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Expected assigned product id")
	}

	rec = doJSON(t, router, "GET", fmt.Sprintf("/api/products/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on fetch, got %d", rec.Code)
	}

	created.AvailableQuantity = 0
	created.OutOfStock = true
	rec = doJSON(t, router, "PUT", fmt.Sprintf("/api/products/%d", created.ID), created)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on update, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated models.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if !updated.OutOfStock {
		t.Error("Expected update to persist the out-of-stock flag")
	}

	rec = doJSON(t, router, "DELETE", fmt.Sprintf("/api/products/%d", created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 on delete, got %d", rec.Code)
	}

	rec = doJSON(t, router, "GET", fmt.Sprintf("/api/products/%d", created.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 after delete, got %d", rec.Code)
	}
}

func TestListProductsFilterByCategory(t *testing.T) {
	router, db := newTestRouter(t)
	products := []models.Product{
		{Category: "Snacks", Name: "Chips", Mrp: 2000, DiscountedSellingPrice: 1500, DiscountPercent: 25, AvailableQuantity: 7, WeightInGms: 150, Quantity: 1},
		{Category: "Dairy", Name: "Milk", Mrp: 3000, DiscountedSellingPrice: 3000, DiscountPercent: 0, AvailableQuantity: 4, WeightInGms: 500, Quantity: 1},
	}
	if err := db.Create(&products).Error; err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	rec := doJSON(t, router, "GET", "/api/products?category=Dairy", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var listed []models.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if len(listed) != 1 || listed[0].Name != "Milk" {
		t.Errorf("Expected only the Dairy product, got %+v", listed)
	}
}
