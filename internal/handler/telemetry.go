package handler

import (
	"net/http"
	"strconv"
)

// GetRecentRefreshes returns the latest refresh runs for the operator view.
func (h *Handler) GetRecentRefreshes(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.errorResponse(w, r, "limit must be an integer between 1 and 100")
			return
		}
		limit = parsed
	}

	runs, err := h.repository.GetRecentRefreshRuns(limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "refresh history fetched", runs)
}
