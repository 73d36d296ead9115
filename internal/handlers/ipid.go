package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/rpnow-go/rpnow/internal/api/middleware"
)

// ipid derives the anonymous moderation identifier for a request: the first
// 16 hex characters of sha-256 over the salt and the client IP. Stable per
// submitter, not reversible to the address.
func (h *Handler) ipid(r *http.Request) string {
	sum := sha256.Sum256([]byte(h.ipidSalt + middleware.RealIP(r)))
	return hex.EncodeToString(sum[:])[:16]
}
