package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rpnow-go/rpnow/internal/metrics"
	"github.com/rpnow-go/rpnow/internal/validate"
)

// CreateRoomResponse represents the room creation response. The code is the
// only handle a client ever gets, so it is the whole point of the reply.
type CreateRoomResponse struct {
	RPCode string `json:"rpCode"`
	Title  string `json:"title"`
}

// CreateRoom handles room creation.
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req validate.RoomOptionsInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	room, err := h.svc.CreateRoom(r.Context(), req)
	if err != nil {
		h.AppError(w, err)
		return
	}

	metrics.RoomsCreated.Inc()
	h.JSON(w, http.StatusCreated, CreateRoomResponse{RPCode: room.Code, Title: room.Title})
}

// GetRoom handles fetching the full room snapshot.
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.GetRoom(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.AppError(w, err)
		return
	}
	h.JSON(w, http.StatusOK, snap)
}
