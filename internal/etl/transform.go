package etl

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/zeptoanalysis/server/internal/models"
)

// TransformResult carries the cleaned products plus the audit trail of what
// the cleaning rules dropped or fixed.
type TransformResult struct {
	Products []models.Product
	Messages []string
}

// categoryAliases fixes known spelling variants in the source data.
var categoryAliases = map[string]string{
	"Fruits and Vegetables": "Fruits & Vegetables",
	"Fruits&Vegetables":     "Fruits & Vegetables",
	"CookingEssentials":     "Cooking Essentials",
	"Cooking essentials":    "Cooking Essentials",
}

type parsedRow struct {
	category string
	name     string
	mrp      float64
	dsp      float64
	discount int
	quantity int
	avail    int
	weight   int
	out      bool
}

// Transform applies the cleaning and business rules of the import pipeline:
// currency normalization to paise, required-field and range checks, and the
// four consistency rules (price ordering, discount ratio, and the two
// stock-flag/quantity repairs).
func Transform(records []Record) *TransformResult {
	rows := make([]parsedRow, 0, len(records))

	var droppedEssential, droppedPrice, droppedDiscount int
	for _, rec := range records {
		row := parsedRow{
			category: standardizeCategory(rec["category"]),
			name:     strings.TrimSpace(rec["name"]),
			discount: parseIntDefault(rec["discount_percent"], 0),
			quantity: parseIntDefault(rec["quantity"], 1),
			avail:    parseIntDefault(rec["available_quantity"], 0),
			weight:   parseIntDefault(rec["weight_in_gms"], 0),
			out:      parseBool(rec["out_of_stock"]),
		}

		mrp, okMrp := parseMoney(rec["mrp"])
		dsp, okDsp := parseMoney(rec["discounted_selling_price"])
		if row.category == "" || row.name == "" || !okMrp || !okDsp {
			droppedEssential++
			continue
		}
		row.mrp, row.dsp = mrp, dsp

		if row.discount < 0 || row.discount > 100 {
			droppedDiscount++
			continue
		}
		rows = append(rows, row)
	}

	// Currency heuristic from the source pipeline: a column whose mean is at
	// most 100 is in rupees and gets scaled to paise; otherwise it already is.
	if rupeeScaled(rows, func(r parsedRow) float64 { return r.mrp }) {
		for i := range rows {
			rows[i].mrp *= 100
		}
	}
	if rupeeScaled(rows, func(r parsedRow) float64 { return r.dsp }) {
		for i := range rows {
			rows[i].dsp *= 100
		}
	}

	kept := rows[:0]
	for _, row := range rows {
		if row.mrp <= 0 || row.dsp <= 0 {
			droppedPrice++
			continue
		}
		kept = append(kept, row)
	}
	rows = kept

	var droppedOrdering, fixedDiscount, fixedAvail, fixedFlag int
	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		mrp := int(math.Round(row.mrp))
		dsp := int(math.Round(row.dsp))

		// Rule 1: MRP must not be below the selling price.
		if mrp < dsp {
			droppedOrdering++
			continue
		}

		// Rule 2: recompute the discount when it deviates more than one
		// point from the derived mrp/selling-price ratio. The tolerance is
		// checked against the unrounded ratio; rounding happens only on
		// repair.
		derived := float64(mrp-dsp) / float64(mrp) * 100
		discount := row.discount
		if math.Abs(float64(discount)-derived) > 1 {
			discount = int(math.Round(derived))
			fixedDiscount++
		}

		// Rules 3 and 4: reconcile the out_of_stock flag with the quantity.
		avail := row.avail
		out := row.out
		if out && avail > 0 {
			avail = 0
			fixedAvail++
		}
		if avail == 0 && !out {
			out = true
			fixedFlag++
		}

		products = append(products, models.Product{
			Category:               row.category,
			Name:                   row.name,
			Mrp:                    mrp,
			DiscountPercent:        discount,
			AvailableQuantity:      avail,
			DiscountedSellingPrice: dsp,
			WeightInGms:            row.weight,
			OutOfStock:             out,
			Quantity:               row.quantity,
		})
	}

	var messages []string
	addMessage := func(count int, format string) {
		if count > 0 {
			messages = append(messages, fmt.Sprintf(format, count))
		}
	}
	addMessage(droppedEssential, "Dropped %d rows with missing essential fields")
	addMessage(droppedDiscount, "Dropped %d rows with discount outside 0-100")
	addMessage(droppedPrice, "Dropped %d rows with non-positive prices")
	addMessage(droppedOrdering, "Removed %d products with MRP < Selling Price")
	addMessage(fixedDiscount, "Fixed %d products with incorrect discount percentages")
	addMessage(fixedAvail, "Fixed %d out-of-stock products with non-zero availability")
	addMessage(fixedFlag, "Marked %d zero-quantity products as out of stock")

	return &TransformResult{Products: products, Messages: messages}
}

func standardizeCategory(s string) string {
	s = strings.TrimSpace(s)
	if alias, ok := categoryAliases[s]; ok {
		return alias
	}
	return s
}

// parseMoney strips currency symbols and thousand separators.
func parseMoney(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// rupeeScaled reports whether a money column needs the rupee-to-paise scale
// up, using the mean-value heuristic of the source pipeline.
func rupeeScaled(rows []parsedRow, value func(parsedRow) float64) bool {
	if len(rows) == 0 {
		return false
	}
	var sum float64
	for _, r := range rows {
		sum += value(r)
	}
	return sum/float64(len(rows)) <= 100
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(math.Round(f))
	}
	return def
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
