package analytics

import (
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/zeptoanalysis/server/internal/models"
)

// ErrStorageUnavailable is returned when the product table cannot be read.
// Callers see it for every operation except InventoryByWeight, which
// degrades to zeroed buckets instead.
var ErrStorageUnavailable = errors.New("storage unavailable")

// DefaultTopDealsLimit caps the top-deals listing when the caller does not
// supply a limit.
const DefaultTopDealsLimit = 20

// Engine computes the five derived dashboard views. It holds no state beyond
// the database handle and re-reads the table on every call, so repeated calls
// on unchanged data return identical results.
type Engine struct {
	db *gorm.DB
}

// NewEngine creates an Engine over the given database handle.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Overview computes the headline metrics in a single aggregate query.
// An empty table yields all zeros, never an error.
func (e *Engine) Overview() (*OverviewMetrics, error) {
	var row struct {
		TotalProducts      int
		TotalRevenue       int64
		TotalCategories    int
		AvgDiscount        float64
		InStockProducts    int
		OutOfStockProducts int
	}

	err := e.db.Model(&models.Product{}).
		Select("COUNT(*) AS total_products, " +
			"COALESCE(SUM(discounted_selling_price), 0) AS total_revenue, " +
			"COUNT(DISTINCT category) AS total_categories, " +
			"COALESCE(AVG(discount_percent), 0) AS avg_discount, " +
			"COALESCE(SUM(CASE WHEN out_of_stock = false THEN 1 ELSE 0 END), 0) AS in_stock_products, " +
			"COALESCE(SUM(CASE WHEN out_of_stock = true THEN 1 ELSE 0 END), 0) AS out_of_stock_products").
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return &OverviewMetrics{
		TotalProducts:      row.TotalProducts,
		TotalRevenue:       row.TotalRevenue,
		TotalCategories:    row.TotalCategories,
		AvgDiscount:        round2(row.AvgDiscount),
		InStockProducts:    row.InStockProducts,
		OutOfStockProducts: row.OutOfStockProducts,
	}, nil
}

// CategoryRevenue returns one aggregate row per distinct category, ordered by
// revenue descending. Ties keep whatever order the database emits.
func (e *Engine) CategoryRevenue() ([]CategoryRevenue, error) {
	rows := make([]CategoryRevenue, 0)

	err := e.db.Model(&models.Product{}).
		Select("category, " +
			"SUM(discounted_selling_price) AS revenue, " +
			"COUNT(*) AS product_count, " +
			"AVG(discount_percent) AS avg_discount").
		Group("category").
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	for i := range rows {
		rows[i].AvgDiscount = round2(rows[i].AvgDiscount)
	}
	return rows, nil
}

// TopDeals returns in-stock products with discount_percent above minDiscount,
// ordered by discount descending and truncated to limit. A limit <= 0 falls
// back to DefaultTopDealsLimit; a negative minDiscount is treated as 0.
func (e *Engine) TopDeals(limit, minDiscount int) ([]TopDeal, error) {
	if limit <= 0 {
		limit = DefaultTopDealsLimit
	}
	if minDiscount < 0 {
		minDiscount = 0
	}

	deals := make([]TopDeal, 0, limit)

	err := e.db.Model(&models.Product{}).
		Select("id, name, category, mrp, discount_percent, discounted_selling_price, " +
			"mrp - discounted_selling_price AS savings").
		Where("discount_percent > ? AND out_of_stock = ?", minDiscount, false).
		Order("discount_percent DESC").
		Limit(limit).
		Scan(&deals).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return deals, nil
}

// StockStatus returns the three fixed availability buckets. Each bucket has
// its own full predicate; the out_of_stock flag wins over the quantity range,
// so the three predicates partition the table and the counts sum to the row
// total. All three are evaluated in one statement so they describe the same
// row set even with writes in flight. Percentages are rounded independently
// per bucket.
func (e *Engine) StockStatus() ([]StockStatus, error) {
	var row struct {
		InStock    int64
		LowStock   int64
		OutOfStock int64
	}

	err := e.db.Model(&models.Product{}).
		Select("COALESCE(SUM(CASE WHEN available_quantity > 5 AND out_of_stock = false THEN 1 ELSE 0 END), 0) AS in_stock, " +
			"COALESCE(SUM(CASE WHEN available_quantity > 0 AND available_quantity <= 5 AND out_of_stock = false THEN 1 ELSE 0 END), 0) AS low_stock, " +
			"COALESCE(SUM(CASE WHEN out_of_stock = true OR available_quantity = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock").
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	counts := []int64{row.InStock, row.LowStock, row.OutOfStock}
	statuses := []string{StatusInStock, StatusLowStock, StatusOutOfStock}
	total := row.InStock + row.LowStock + row.OutOfStock

	out := make([]StockStatus, len(counts))
	for i, count := range counts {
		pct := 0
		if total > 0 {
			pct = int(math.Round(float64(count) / float64(total) * 100))
		}
		out[i] = StockStatus{Status: statuses[i], Count: int(count), Percentage: pct}
	}
	return out, nil
}

// InventoryByWeight returns the five fixed weight buckets in order. This
// operation fails closed: on any storage error it returns all buckets zeroed
// instead of propagating the failure, so the weight chart always renders.
func (e *Engine) InventoryByWeight() []WeightBucket {
	out := make([]WeightBucket, len(weightRanges))
	for i, r := range weightRanges {
		out[i] = WeightBucket{Range: r}
	}

	var grouped []struct {
		WeightRange string
		Count       int
	}
	err := e.db.Model(&models.Product{}).
		Select("CASE " +
			"WHEN weight_in_gms < 100 THEN '<100g' " +
			"WHEN weight_in_gms < 500 THEN '100-500g' " +
			"WHEN weight_in_gms < 1000 THEN '500-1000g' " +
			"WHEN weight_in_gms < 5000 THEN '1000-5000g' " +
			"ELSE '5000g+' END AS weight_range, " +
			"COUNT(*) AS count").
		Group("weight_range").
		Scan(&grouped).Error
	if err != nil {
		return out
	}

	for _, g := range grouped {
		for i := range out {
			if out[i].Range == g.WeightRange {
				out[i].Count = g.Count
				break
			}
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
