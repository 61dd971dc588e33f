package etl

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Record is one raw CSV row keyed by canonical column name.
type Record map[string]string

// columnAliases maps the source CSV headers (camelCase, as exported by the
// upstream dataset) to canonical snake_case names. Matching is
// case-insensitive; unknown columns are ignored.
var columnAliases = map[string]string{
	"category":               "category",
	"name":                   "name",
	"mrp":                    "mrp",
	"discountpercent":        "discount_percent",
	"availablequantity":      "available_quantity",
	"discountedsellingprice": "discounted_selling_price",
	"weightingms":            "weight_in_gms",
	"outofstock":             "out_of_stock",
	"quantity":               "quantity",
}

// Extract reads the source CSV and returns one Record per data row.
func Extract(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	cols := make([]string, len(header))
	for i, h := range header {
		if canonical, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			cols[i] = canonical
		}
	}

	var records []Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rec := make(Record, len(cols))
		for i, v := range row {
			if i < len(cols) && cols[i] != "" {
				rec[cols[i]] = v
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
