package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/zeptoanalysis/server/internal/models"
)

// listProducts returns products, optionally filtered by category
func (r *Router) listProducts(w http.ResponseWriter, req *http.Request) {
	products := make([]models.Product, 0)

	q := r.db.Model(&models.Product{})
	if category := req.URL.Query().Get("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if limit := queryInt(req, "limit", 0); limit > 0 {
		q = q.Limit(limit).Offset(queryInt(req, "offset", 0))
	}

	if err := q.Find(&products).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// getProduct returns a single product
func (r *Router) getProduct(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// createProduct inserts a new product row
func (r *Router) createProduct(w http.ResponseWriter, req *http.Request) {
	var product models.Product
	if err := json.NewDecoder(req.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	product.ID = 0

	if err := r.db.Create(&product).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// updateProduct replaces the mutable fields of a product
func (r *Router) updateProduct(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}

	var patch models.Product
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	patch.ID = product.ID
	patch.CreatedAt = product.CreatedAt

	if err := r.db.Save(&patch).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	respondJSON(w, http.StatusOK, patch)
}

// deleteProduct removes a product row
func (r *Router) deleteProduct(w http.ResponseWriter, req *http.Request) {
	id, err := pathID(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func pathID(req *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(req)["id"])
}
