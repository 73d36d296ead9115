package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rpnow-go/rpnow/internal/ws"
)

// Stream upgrades the request to a websocket and streams the room: one init
// event carrying the full snapshot, then live message/edit/chara events as
// they commit. The room is resolved before the upgrade so a bad code still
// gets a proper JSON error.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.svc.CheckRoom(r.Context(), code); err != nil {
		h.AppError(w, err)
		return
	}

	client, err := ws.Upgrade(h.hub, w, r, code, h.logger)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.logger.Debug().Err(err).Str("rp", code).Msg("websocket upgrade failed")
		return
	}

	// Subscribe first, snapshot second. A mutation committed between the
	// two is buffered on the subscription and delivered after init, so
	// nothing is ever missed; at worst it appears in both and clients
	// drop the duplicate by message id.
	snap, err := h.svc.GetRoom(r.Context(), code)
	if err != nil {
		client.Close()
		return
	}

	client.Run(ws.NewEvent("init", snap))
}
