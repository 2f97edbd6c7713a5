package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"neo-assistant-backend/internal/db"
)

// DatabaseStore persists conversations and preferences in PostgreSQL.
type DatabaseStore struct {
	db *db.DB
}

func NewDatabaseStore(database *db.DB) *DatabaseStore {
	return &DatabaseStore{db: database}
}

func (ds *DatabaseStore) AppendMessage(userID, role, content string) (Message, error) {
	msg := Message{
		ID:      uuid.NewString(),
		UserID:  userID,
		Role:    role,
		Content: content,
	}
	// Timestamp comes from the database so that turn ordering does not
	// depend on application clocks.
	err := ds.db.QueryRow(`
		INSERT INTO messages (id, user_id, role, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, msg.ID, userID, role, content).Scan(&msg.Timestamp)
	if err != nil {
		return Message{}, fmt.Errorf("append message: %w: %v", ErrUnavailable, err)
	}
	return msg, nil
}

func (ds *DatabaseStore) RecentMessages(userID string, limit int) ([]Message, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := ds.db.Query(`
		SELECT id, user_id, role, content, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent messages: %w: %v", ErrUnavailable, err)
	}
	return out, nil
}

func (ds *DatabaseStore) GetPreferences(userID string) (Preferences, error) {
	var mode string
	err := ds.db.QueryRow(`
		SELECT output_mode FROM preferences WHERE user_id = $1
	`, userID).Scan(&mode)
	if err == sql.ErrNoRows {
		return DefaultPreferences(userID), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("get preferences: %w: %v", ErrUnavailable, err)
	}
	return Preferences{UserID: userID, OutputMode: mode}, nil
}

func (ds *DatabaseStore) UpsertPreferences(userID, outputMode string) error {
	_, err := ds.db.Exec(`
		INSERT INTO preferences (user_id, output_mode)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET output_mode = EXCLUDED.output_mode, updated_at = NOW()
	`, userID, outputMode)
	if err != nil {
		return fmt.Errorf("upsert preferences: %w: %v", ErrUnavailable, err)
	}
	return nil
}
