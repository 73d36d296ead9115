package store

import (
	"context"

	"github.com/rpnow-go/rpnow/internal/models"
)

// DataStore defines the interface for persistent storage of rooms, charas,
// and message logs. Both PostgresStore and SQLiteStore implement it.
//
// Lookups return (nil, nil) when the record does not exist; callers decide
// what "not found" means at their layer.
type DataStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Room operations
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoomByCode(ctx context.Context, code string) (*models.Room, error)
	RoomCodeExists(ctx context.Context, code string) (bool, error)

	// Message log operations. AppendMessage assigns the next dense id for
	// the room and stamps the server timestamp; callers serialize appends
	// and edits per room.
	AppendMessage(ctx context.Context, roomCode string, msg *models.Message) error
	GetMessage(ctx context.Context, roomCode string, id int64) (*models.Message, error)
	UpdateMessageContent(ctx context.Context, roomCode string, id int64, content string, editedAt int64) error
	ListMessages(ctx context.Context, roomCode string) ([]models.Message, error)

	// Chara registry operations. AddChara assigns the next dense id.
	AddChara(ctx context.Context, roomCode string, chara *models.Chara) error
	CharaExists(ctx context.Context, roomCode string, id int64) (bool, error)
	ListCharas(ctx context.Context, roomCode string) ([]models.Chara, error)

	// Stats
	CountRooms(ctx context.Context) (int64, error)
	CountMessages(ctx context.Context) (int64, error)
	CountCharas(ctx context.Context) (int64, error)
}
