package handler

import "net/http"

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.repository.Ping(r.Context()); err != nil {
		h.logInternalServerError(r, err)
		h.writeJSON(w, r, http.StatusServiceUnavailable, Response{
			Success: false,
			Message: "database unreachable",
			Data:    nil,
		})
		return
	}

	h.successResponse(w, r, "ok", map[string]string{"status": "ok"})
}
