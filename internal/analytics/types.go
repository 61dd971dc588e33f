package analytics

// OverviewMetrics is the headline card row of the dashboard. Revenue is the
// sum of discounted selling prices in paise; the stock split is partitioned
// strictly by the out_of_stock flag.
type OverviewMetrics struct {
	TotalProducts      int     `json:"totalProducts"`
	TotalRevenue       int64   `json:"totalRevenue"`
	TotalCategories    int     `json:"totalCategories"`
	AvgDiscount        float64 `json:"avgDiscount"`
	InStockProducts    int     `json:"inStockProducts"`
	OutOfStockProducts int     `json:"outOfStockProducts"`
}

// CategoryRevenue is one per-category aggregate row, ordered by revenue
// descending. Categories with no products are never emitted.
type CategoryRevenue struct {
	Category     string  `json:"category"`
	Revenue      int64   `json:"revenue"`
	ProductCount int     `json:"productCount"`
	AvgDiscount  float64 `json:"avgDiscount"`
}

// TopDeal is a discounted in-stock product. Savings is always
// mrp - discountedSellingPrice and may be negative on inconsistent data.
type TopDeal struct {
	ID                     int    `json:"id"`
	Name                   string `json:"name"`
	Category               string `json:"category"`
	Mrp                    int    `json:"mrp"`
	DiscountPercent        int    `json:"discountPercent"`
	DiscountedSellingPrice int    `json:"discountedSellingPrice"`
	Savings                int    `json:"savings"`
}

// StockStatus is one of the three fixed availability buckets.
type StockStatus struct {
	Status     string `json:"status"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// WeightBucket is one of the five fixed weight-range buckets.
type WeightBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Stock bucket labels. The bucket set is closed: every response carries
// exactly these three, in this order.
const (
	StatusInStock    = "In Stock"
	StatusLowStock   = "Low Stock"
	StatusOutOfStock = "Out of Stock"
)

// weightRanges is the closed, ordered set of weight buckets.
var weightRanges = []string{
	"<100g",
	"100-500g",
	"500-1000g",
	"1000-5000g",
	"5000g+",
}
