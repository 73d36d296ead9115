package handlers

import "net/http"

// Challenge hands out a fresh secret/hash pair so a client can manage its
// own proof of authorship across messages. The pair is never stored; only
// hashes submitted with messages are.
func (h *Handler) Challenge(w http.ResponseWriter, r *http.Request) {
	pair, err := h.svc.IssueChallenge()
	if err != nil {
		h.AppError(w, err)
		return
	}
	h.JSON(w, http.StatusOK, pair)
}
