package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/zeptoanalysis/server/internal/analytics"
	"github.com/zeptoanalysis/server/internal/database"
	"github.com/zeptoanalysis/server/internal/middleware"
	"github.com/zeptoanalysis/server/internal/query"
)

// Router wraps the mux router and the core components
type Router struct {
	*mux.Router
	db        *database.DB
	analytics *analytics.Engine
	guard     *query.Guard
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		db:        db,
		analytics: analytics.NewEngine(db.DB),
		guard:     query.NewGuard(db.DB),
	}

	r.Use(middleware.RequestID, middleware.Logging, middleware.Metrics)

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Prometheus scrape endpoint
	r.Handle("/metrics", middleware.MetricsHandler()).Methods("GET")

	// Analytics routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analytics/overview", r.getOverview).Methods("GET")
	api.HandleFunc("/analytics/category-revenue", r.getCategoryRevenue).Methods("GET")
	api.HandleFunc("/analytics/top-deals", r.getTopDeals).Methods("GET")
	api.HandleFunc("/analytics/stock-status", r.getStockStatus).Methods("GET")
	api.HandleFunc("/analytics/inventory-weight", r.getInventoryWeight).Methods("GET")

	// Ad-hoc query console
	api.HandleFunc("/query", r.executeQuery).Methods("POST")

	// Product CRUD
	api.HandleFunc("/products", r.listProducts).Methods("GET")
	api.HandleFunc("/products", r.createProduct).Methods("POST")
	api.HandleFunc("/products/{id}", r.getProduct).Methods("GET")
	api.HandleFunc("/products/{id}", r.updateProduct).Methods("PUT")
	api.HandleFunc("/products/{id}", r.deleteProduct).Methods("DELETE")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
