package models

// Chara represents a named character within a room. Ids are dense,
// assigned in insertion order, and never reused.
type Chara struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // "#rrggbb", lowercase hex
	IPID  string `json:"ipid,omitempty"`
}
