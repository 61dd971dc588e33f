package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zeptoanalysis/server/internal/query"
)

type queryRequest struct {
	Query string `json:"query"`
}

// executeQuery runs an ad-hoc read-only query through the safety gate.
// All rejections map to 400: the statement text is user-controlled, so even
// an engine-side failure is a client error, not a server one.
func (r *Router) executeQuery(w http.ResponseWriter, req *http.Request) {
	var body queryRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	result, err := r.guard.Execute(body.Query)
	if err != nil {
		var kwErr *query.ForbiddenKeywordError
		var execErr *query.ExecError
		switch {
		case errors.Is(err, query.ErrNotSelect), errors.As(err, &kwErr), errors.As(err, &execErr):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "Query failed")
		}
		return
	}
	respondJSON(w, http.StatusOK, result)
}
