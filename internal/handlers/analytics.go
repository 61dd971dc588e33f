package handlers

import (
	"net/http"
	"strconv"
)

// getOverview returns the headline dashboard metrics
func (r *Router) getOverview(w http.ResponseWriter, req *http.Request) {
	metrics, err := r.analytics.Overview()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute overview metrics")
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

// getCategoryRevenue returns per-category revenue, ordered descending
func (r *Router) getCategoryRevenue(w http.ResponseWriter, req *http.Request) {
	rows, err := r.analytics.CategoryRevenue()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute category revenue")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// getTopDeals returns discounted in-stock products.
// Optional query params: limit (default 20), minDiscount (default 0).
func (r *Router) getTopDeals(w http.ResponseWriter, req *http.Request) {
	limit := queryInt(req, "limit", 0)
	minDiscount := queryInt(req, "minDiscount", 0)

	deals, err := r.analytics.TopDeals(limit, minDiscount)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute top deals")
		return
	}
	respondJSON(w, http.StatusOK, deals)
}

// getStockStatus returns the three fixed availability buckets
func (r *Router) getStockStatus(w http.ResponseWriter, req *http.Request) {
	buckets, err := r.analytics.StockStatus()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to compute stock status")
		return
	}
	respondJSON(w, http.StatusOK, buckets)
}

// getInventoryWeight returns the five fixed weight buckets. The engine
// degrades to zeroed buckets on storage failure, so this never errors.
func (r *Router) getInventoryWeight(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.analytics.InventoryByWeight())
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(req *http.Request, name string, def int) int {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
