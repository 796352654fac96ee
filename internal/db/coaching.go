package db

import (
	"fmt"
	"time"
)

type CoachingMessage struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	ContextType string    `json:"context_type"`
	CreatedAt   time.Time `json:"created_at"`
}

func (db *DB) AddCoachingMessage(userID int64, role, content, contextType string) (int64, error) {
	if contextType == "" {
		contextType = "general"
	}
	res, err := db.Exec(`
		INSERT INTO coaching_messages (user_id, role, content, context_type)
		VALUES (?, ?, ?, ?)`, userID, role, content, contextType)
	if err != nil {
		return 0, fmt.Errorf("saving coaching message: %w", err)
	}
	return res.LastInsertId()
}

// RecentCoachingMessages returns the last n messages in chronological order,
// the shape the conversation context is rebuilt from.
func (db *DB) RecentCoachingMessages(userID int64, limit int) ([]*CoachingMessage, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT id, user_id, role, content, context_type, created_at FROM (
			SELECT id, user_id, role, content, context_type, created_at
			FROM coaching_messages WHERE user_id = ?
			ORDER BY id DESC LIMIT ?
		) ORDER BY id`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*CoachingMessage
	for rows.Next() {
		m := &CoachingMessage{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.ContextType, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ClearCoachingHistory deletes the transcript for a user.
func (db *DB) ClearCoachingHistory(userID int64) error {
	_, err := db.Exec(`DELETE FROM coaching_messages WHERE user_id = ?`, userID)
	return err
}
