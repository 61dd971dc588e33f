package models

import "time"

// Product is one row of the zepto inventory table.
// Monetary fields (Mrp, DiscountedSellingPrice) are stored in paise; the
// frontend divides by 100 for display. DiscountPercent is stored as loaded
// from source and is not forced to match the mrp/selling-price ratio, and
// OutOfStock can disagree with AvailableQuantity — the analytics queries
// check both independently.
type Product struct {
	ID                     int       `gorm:"primaryKey" json:"id"`
	Category               string    `gorm:"not null;index:idx_zepto_category" json:"category"`
	Name                   string    `gorm:"not null" json:"name"`
	Mrp                    int       `gorm:"not null" json:"mrp"`
	DiscountPercent        int       `gorm:"not null;index:idx_zepto_discount_percent" json:"discountPercent"`
	AvailableQuantity      int       `gorm:"not null" json:"availableQuantity"`
	DiscountedSellingPrice int       `gorm:"not null" json:"discountedSellingPrice"`
	WeightInGms            int       `gorm:"not null" json:"weightInGms"`
	OutOfStock             bool      `gorm:"not null;default:false;index:idx_zepto_out_of_stock" json:"outOfStock"`
	Quantity               int       `gorm:"not null" json:"quantity"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func (Product) TableName() string { return "zepto" }
