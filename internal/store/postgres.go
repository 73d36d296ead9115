package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpnow-go/rpnow/internal/models"
)

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateRoom persists a new room record.
func (s *PostgresStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rooms (code, title, description, created_at)
		VALUES ($1, $2, $3, $4)
	`, room.Code, room.Title, room.Description, room.CreatedAt)
	return err
}

// GetRoomByCode retrieves a room by its code.
func (s *PostgresStore) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	room := &models.Room{}
	err := s.pool.QueryRow(ctx, `
		SELECT code, title, description, created_at
		FROM rooms WHERE code = $1
	`, code).Scan(
		&room.Code,
		&room.Title,
		&room.Description,
		&room.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return room, nil
}

// RoomCodeExists reports whether a room with the given code exists.
func (s *PostgresStore) RoomCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM rooms WHERE code = $1)
	`, code).Scan(&exists)
	return exists, err
}

// AppendMessage assigns the next id for the room, stamps the server time,
// and persists the message. The insert computes max+1 in the same statement,
// so the dense-id invariant holds even across multiple server processes.
func (s *PostgresStore) AppendMessage(ctx context.Context, roomCode string, msg *models.Message) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().Unix()
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO messages (room_code, id, type, content, url, chara_id, ipid, challenge, ts)
		SELECT $1, COALESCE(MAX(id), -1) + 1, $2, $3, $4, $5, $6, $7, $8
		FROM messages WHERE room_code = $1
		RETURNING id
	`, roomCode, msg.Type, msg.Content, msg.URL, msg.CharaID, msg.IPID, msg.Challenge, msg.Timestamp).Scan(&msg.ID)
	return err
}

// GetMessage retrieves one message by room code and id.
func (s *PostgresStore) GetMessage(ctx context.Context, roomCode string, id int64) (*models.Message, error) {
	msg := &models.Message{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, type, content, url, chara_id, ipid, challenge, ts, edited
		FROM messages WHERE room_code = $1 AND id = $2
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return msg, nil
}

// UpdateMessageContent applies a point edit: content and edited timestamp
// change, nothing else does.
func (s *PostgresStore) UpdateMessageContent(ctx context.Context, roomCode string, id int64, content string, editedAt int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE messages SET content = $1, edited = $2
		WHERE room_code = $3 AND id = $4
	`, content, editedAt, roomCode, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListMessages retrieves a room's full message log in id order.
func (s *PostgresStore) ListMessages(ctx context.Context, roomCode string) ([]models.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, type, content, url, chara_id, ipid, challenge, ts, edited
		FROM messages WHERE room_code = $1 ORDER BY id
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
func (s *PostgresStore) AddChara(ctx context.Context, roomCode string, chara *models.Chara) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO charas (room_code, id, name, color, ipid)
		SELECT $1, COALESCE(MAX(id), -1) + 1, $2, $3, $4
		FROM charas WHERE room_code = $1
		RETURNING id
	`, roomCode, chara.Name, chara.Color, chara.IPID).Scan(&chara.ID)
	return err
}

// CharaExists reports whether a chara with the given id exists in the room.
func (s *PostgresStore) CharaExists(ctx context.Context, roomCode string, id int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM charas WHERE room_code = $1 AND id = $2)
	`, roomCode, id).Scan(&exists)
	return exists, err
}

// ListCharas retrieves a room's chara list in id order.
func (s *PostgresStore) ListCharas(ctx context.Context, roomCode string) ([]models.Chara, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, color, ipid
		FROM charas WHERE room_code = $1 ORDER BY id
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
func (s *PostgresStore) CountRooms(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&count)
	return count, err
}

// CountMessages returns the total number of messages across all rooms.
func (s *PostgresStore) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	return count, err
}

// CountCharas returns the total number of charas across all rooms.
func (s *PostgresStore) CountCharas(ctx context.Context) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM charas`).Scan(&count)
	return count, err
}
