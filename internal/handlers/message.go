package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rpnow-go/rpnow/internal/apperr"
	"github.com/rpnow-go/rpnow/internal/metrics"
	"github.com/rpnow-go/rpnow/internal/models"
	"github.com/rpnow-go/rpnow/internal/validate"
	"github.com/rpnow-go/rpnow/internal/ws"
)

// MessageResponse wraps a stored message. Secret is present only when the
// server issued the challenge pair; it is the one time the plaintext exists
// outside the client.
type MessageResponse struct {
	Msg    *models.Message `json:"msg"`
	Secret string          `json:"secret,omitempty"`
}

// PostImageRequest represents the post image request.
type PostImageRequest struct {
	URL string `json:"url"`
}

// EditMessageRequest represents the edit message request. The message id
// comes from the URL.
type EditMessageRequest struct {
	Content string `json:"content"`
	Secret  string `json:"secret"`
}

// PostMessage handles appending a narrator/chara/ooc message to a room.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req validate.MessageInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	msg, secret, err := h.svc.AddMessage(r.Context(), code, req, h.ipid(r))
	if err != nil {
		h.AppError(w, err)
		return
	}

	metrics.MessagesPosted.WithLabelValues(msg.Type).Inc()
	h.hub.Publish(code, ws.NewEvent("message", msg))
	h.JSON(w, http.StatusCreated, MessageResponse{Msg: msg, Secret: secret})
}

// PostImage handles appending an image message by URL.
func (h *Handler) PostImage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req PostImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	msg, secret, err := h.svc.AddImage(r.Context(), code, req.URL, h.ipid(r))
	if err != nil {
		h.AppError(w, err)
		return
	}

	metrics.MessagesPosted.WithLabelValues(msg.Type).Inc()
	h.hub.Publish(code, ws.NewEvent("message", msg))
	h.JSON(w, http.StatusCreated, MessageResponse{Msg: msg, Secret: secret})
}

// EditMessage handles a point edit of a message's content.
func (h *Handler) EditMessage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 0 {
		h.Error(w, http.StatusBadRequest, "invalid message id")
		return
	}

	var req EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	msg, err := h.svc.EditMessage(r.Context(), code, validate.EditInput{
		ID:      id,
		Content: req.Content,
		Secret:  req.Secret,
	})
	if err != nil {
		switch apperr.CodeOf(err) {
		case apperr.CodeBadMsgID:
			metrics.EditsRejected.WithLabelValues("not_found").Inc()
		case apperr.CodeBadSecret:
			metrics.EditsRejected.WithLabelValues("bad_secret").Inc()
		}
		h.AppError(w, err)
		return
	}

	metrics.MessagesEdited.Inc()
	h.hub.Publish(code, ws.NewEvent("edit", msg))
	h.JSON(w, http.StatusOK, MessageResponse{Msg: msg})
}
