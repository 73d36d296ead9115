package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rpnow-go/rpnow/internal/models"
)

// SQLiteStore handles SQLite database operations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/rpnow.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/rpnow.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	// Initialize schema
	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS rooms (
		code TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS charas (
		room_code TEXT NOT NULL REFERENCES rooms(code),
		id INTEGER NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL,
		ipid TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (room_code, id)
	);

	CREATE TABLE IF NOT EXISTS messages (
		room_code TEXT NOT NULL REFERENCES rooms(code),
		id INTEGER NOT NULL,
		type TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		chara_id INTEGER,
		ipid TEXT NOT NULL DEFAULT '',
		challenge TEXT NOT NULL DEFAULT '',
		ts INTEGER NOT NULL,
		edited INTEGER,
		PRIMARY KEY (room_code, id)
	);

	CREATE INDEX IF NOT EXISTS idx_charas_room ON charas(room_code);
	CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room_code);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateRoom persists a new room record.
func (s *SQLiteStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (code, title, description, created_at)
		VALUES (?, ?, ?, ?)
	`, room.Code, room.Title, room.Description, room.CreatedAt)
	return err
}

// GetRoomByCode retrieves a room by its code.
func (s *SQLiteStore) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	room := &models.Room{}
	err := s.db.QueryRowContext(ctx, `
		SELECT code, title, description, created_at
		FROM rooms WHERE code = ?
	`, code).Scan(
		&room.Code,
		&room.Title,
		&room.Description,
		&room.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return room, nil
}

// RoomCodeExists reports whether a room with the given code exists.
func (s *SQLiteStore) RoomCodeExists(ctx context.Context, code string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rooms WHERE code = ?
	`, code).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AppendMessage assigns the next id for the room, stamps the server time,
// and persists the message. The max+insert pair runs inside one transaction.
func (s *SQLiteStore) AppendMessage(ctx context.Context, roomCode string, msg *models.Message) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var nextID int64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(id) + 1, 0) FROM messages WHERE room_code = ?
	`, roomCode).Scan(&nextID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (room_code, id, type, content, url, chara_id, ipid, challenge, ts, edited)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`, roomCode, nextID, msg.Type, msg.Content, msg.URL, msg.CharaID, msg.IPID, msg.Challenge, msg.Timestamp)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	msg.ID = nextID
	return nil
}

// GetMessage retrieves one message by room code and id.
func (s *SQLiteStore) GetMessage(ctx context.Context, roomCode string, id int64) (*models.Message, error) {
	msg := &models.Message{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, type, content, url, chara_id, ipid, challenge, ts, edited
		FROM messages WHERE room_code = ? AND id = ?
	`, roomCode, id).Scan(
		&msg.ID,
		&msg.Type,
		&msg.Content,
		&msg.URL,
		&msg.CharaID,
		&msg.IPID,
		&msg.Challenge,
		&msg.Timestamp,
		&msg.Edited,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return msg, nil
}

// UpdateMessageContent applies a point edit: content and edited timestamp
// change, nothing else does.
func (s *SQLiteStore) UpdateMessageContent(ctx context.Context, roomCode string, id int64, content string, editedAt int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE messages SET content = ?, edited = ?
		WHERE room_code = ? AND id = ?
	`, content, editedAt, roomCode, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListMessages retrieves a room's full message log in id order.
func (s *SQLiteStore) ListMessages(ctx context.Context, roomCode string) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, content, url, chara_id, ipid, challenge, ts, edited
		FROM messages WHERE room_code = ? ORDER BY id
	`, roomCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		err := rows.Scan(
			&msg.ID,
			&msg.Type,
			&msg.Content,
			&msg.URL,
			&msg.CharaID,
			&msg.IPID,
			&msg.Challenge,
			&msg.Timestamp,
			&msg.Edited,
		)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// AddChara assigns the next id for the room's chara list and persists it.
func (s *SQLiteStore) AddChara(ctx context.Context, roomCode string, chara *models.Chara) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var nextID int64
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(id) + 1, 0) FROM charas WHERE room_code = ?
	`, roomCode).Scan(&nextID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO charas (room_code, id, name, color, ipid)
		VALUES (?, ?, ?, ?, ?)
	`, roomCode, nextID, chara.Name, chara.Color, chara.IPID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	chara.ID = nextID
	return nil
}

// CharaExists reports whether a chara with the given id exists in the room.
func (s *SQLiteStore) CharaExists(ctx context.Context, roomCode string, id int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM charas WHERE room_code = ? AND id = ?
	`, roomCode, id).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListCharas retrieves a room's chara list in id order.
func (s *SQLiteStore) ListCharas(ctx context.Context, roomCode string) ([]models.Chara, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, color, ipid
		FROM charas WHERE room_code = ? ORDER BY id
	`, roomCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	charas := make([]models.Chara, 0)
	for rows.Next() {
		var chara models.Chara
		if err := rows.Scan(&chara.ID, &chara.Name, &chara.Color, &chara.IPID); err != nil {
			return nil, err
		}
		charas = append(charas, chara)
	}
	return charas, rows.Err()
}

// CountRooms returns the total number of rooms.
func (s *SQLiteStore) CountRooms(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&count)
	return count, err
}

// CountMessages returns the total number of messages across all rooms.
func (s *SQLiteStore) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}

// CountCharas returns the total number of charas across all rooms.
func (s *SQLiteStore) CountCharas(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM charas`).Scan(&count)
	return count, err
}
