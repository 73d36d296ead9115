package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rpnow-go/rpnow/internal/metrics"
	"github.com/rpnow-go/rpnow/internal/models"
	"github.com/rpnow-go/rpnow/internal/validate"
	"github.com/rpnow-go/rpnow/internal/ws"
)

// CharaResponse represents the add character response.
type CharaResponse struct {
	Chara *models.Chara `json:"chara"`
}

// PostChara handles registering a new character in a room.
func (h *Handler) PostChara(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req validate.CharaInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	chara, err := h.svc.AddChara(r.Context(), code, req, h.ipid(r))
	if err != nil {
		h.AppError(w, err)
		return
	}

	metrics.CharasCreated.Inc()
	h.hub.Publish(code, ws.NewEvent("chara", chara))
	h.JSON(w, http.StatusCreated, CharaResponse{Chara: chara})
}
