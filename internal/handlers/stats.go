package handlers

import "net/http"

// StatsResponse represents repository-wide totals.
type StatsResponse struct {
	Rooms    int64 `json:"rooms"`
	Messages int64 `json:"messages"`
	Charas   int64 `json:"charas"`
}

// Stats handles the public stats endpoint.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	rooms, msgs, charas, err := h.svc.Stats(r.Context())
	if err != nil {
		h.AppError(w, err)
		return
	}
	h.JSON(w, http.StatusOK, StatsResponse{Rooms: rooms, Messages: msgs, Charas: charas})
}
