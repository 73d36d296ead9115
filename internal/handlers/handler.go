// Package handlers implements the HTTP surface over the room service. Each
// handler decodes a request, hands it to the service, and renders either the
// result or the service's structured error; mutations also broadcast an event
// to the room's stream subscribers.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpnow-go/rpnow/internal/apperr"
	"github.com/rpnow-go/rpnow/internal/rp"
	"github.com/rpnow-go/rpnow/internal/store"
	"github.com/rpnow-go/rpnow/internal/ws"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	svc      *rp.Service
	store    store.DataStore
	redis    *store.RedisStore
	hub      *ws.Hub
	logger   zerolog.Logger
	ipidSalt string
}

// NewHandler creates a new Handler. redis may be nil when no Redis is
// configured.
func NewHandler(svc *rp.Service, st store.DataStore, redis *store.RedisStore, hub *ws.Hub, logger zerolog.Logger, ipidSalt string) *Handler {
	return &Handler{
		svc:      svc,
		store:    st,
		redis:    redis,
		hub:      hub,
		logger:   logger,
		ipidSalt: ipidSalt,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response for a transport-level failure.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// AppError renders a service error as {"error": code, "details": ...}. The
// two edit failures render identically so a prober cannot tell a missing
// message id from a wrong secret.
func (h *Handler) AppError(w http.ResponseWriter, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.Internal(err)
	}

	code, details := e.Code, e.Details
	if code == apperr.CodeBadMsgID || code == apperr.CodeBadSecret {
		code, details = apperr.CodeBadEdit, "no editable message matched"
	}

	h.JSON(w, statusOf(e.Code), map[string]string{"error": code, "details": details})
}

// statusOf maps wire codes onto HTTP statuses.
func statusOf(code string) int {
	switch code {
	case apperr.CodeBadRP, apperr.CodeBadRPCode, apperr.CodeBadMsg,
		apperr.CodeBadChara, apperr.CodeBadEdit, apperr.CodeBadURL,
		apperr.CodeCharaNotFound:
		return http.StatusBadRequest
	case apperr.CodeRPNotFound, apperr.CodeBadMsgID, apperr.CodeBadSecret:
		return http.StatusNotFound
	case apperr.CodeURLFailed, apperr.CodeUnknownContent, apperr.CodeBadContent:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
