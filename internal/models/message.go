package models

// Message types. A message's type never changes after append.
const (
	MsgNarrator = "narrator"
	MsgChara    = "chara"
	MsgOOC      = "ooc"
	MsgImage    = "image"
)

// Message is one entry in a room's append-only log.
//
// Ids are dense integers assigned per room in append order. Timestamp and
// Edited are Unix seconds stamped by the server. Challenge holds the sha-512
// hex digest of the submitter's secret; the plaintext is never stored, so the
// digest is safe to expose (clients recompute it to recognize their own
// messages).
type Message struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"` // narrator/chara/ooc
	URL       string `json:"url,omitempty"`     // image
	CharaID   *int64 `json:"charaId,omitempty"` // chara
	IPID      string `json:"ipid,omitempty"`
	Challenge string `json:"challenge,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Edited    *int64 `json:"edited,omitempty"`
}
