package models

import "time"

// Room represents a role-play session addressed by its short code.
// The code is the capability: anyone who knows it can read and post.
type Room struct {
	Code        string    `json:"rpCode"`
	Title       string    `json:"title"`
	Description string    `json:"desc,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RoomSnapshot is the full state of a room as sent to a joining client.
type RoomSnapshot struct {
	Title       string    `json:"title"`
	Description string    `json:"desc,omitempty"`
	Charas      []Chara   `json:"charas"`
	Msgs        []Message `json:"msgs"`
}
