package db

import (
	"database/sql"
	"fmt"
)

type Protocol struct {
	ID                int64   `json:"id"`
	PillarID          int64   `json:"pillar_id"`
	Name              string  `json:"name"`
	Description       *string `json:"description,omitempty"`
	Timing            *string `json:"timing,omitempty"`
	Duration          *string `json:"duration,omitempty"`
	Frequency         string  `json:"frequency"`
	Difficulty        int     `json:"difficulty"`
	Mechanism         *string `json:"mechanism,omitempty"`
	ExpectedBenefit   *string `json:"expected_benefit,omitempty"`
	Contraindications *string `json:"contraindications,omitempty"`
	SortOrder         int     `json:"sort_order"`
}

func (db *DB) ListProtocols(pillarID int64) ([]*Protocol, error) {
	q := `SELECT id, pillar_id, name, description, timing, duration, frequency,
		difficulty, mechanism, expected_benefit, contraindications, sort_order
		FROM protocols WHERE is_active = 1`
	var rows *sql.Rows
	var err error
	if pillarID > 0 {
		rows, err = db.Query(q+` AND pillar_id = ? ORDER BY sort_order`, pillarID)
	} else {
		rows, err = db.Query(q + ` ORDER BY pillar_id, sort_order`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Protocol
	for rows.Next() {
		p := &Protocol{}
		var desc, timing, duration, mechanism, benefit, contra sql.NullString
		if err := rows.Scan(&p.ID, &p.PillarID, &p.Name, &desc, &timing, &duration,
			&p.Frequency, &p.Difficulty, &mechanism, &benefit, &contra, &p.SortOrder); err != nil {
			return nil, err
		}
		p.Description = nullStrPtr(desc)
		p.Timing = nullStrPtr(timing)
		p.Duration = nullStrPtr(duration)
		p.Mechanism = nullStrPtr(mechanism)
		p.ExpectedBenefit = nullStrPtr(benefit)
		p.Contraindications = nullStrPtr(contra)
		out = append(out, p)
	}
	return out, rows.Err()
}

// AdoptProtocol puts a protocol on the user's active list. Re-adopting an
// abandoned or paused protocol reactivates it.
func (db *DB) AdoptProtocol(userID, protocolID int64) error {
	_, err := db.Exec(`
		INSERT INTO user_protocols (user_id, protocol_id, status)
		VALUES (?, ?, 'active')
		ON CONFLICT(user_id, protocol_id) DO UPDATE SET
			status = 'active', started_at = datetime('now')`,
		userID, protocolID)
	if err != nil {
		return fmt.Errorf("adopting protocol: %w", err)
	}
	return nil
}

func (db *DB) SetProtocolStatus(userID, protocolID int64, status string) error {
	res, err := db.Exec(`
		UPDATE user_protocols SET status = ? WHERE user_id = ? AND protocol_id = ?`,
		status, userID, protocolID)
	if err != nil {
		return err
	}
	return checkGoalUpdated(res)
}

type UserProtocol struct {
	Protocol
	Status string `json:"status"`
}

func (db *DB) ActiveProtocols(userID int64) ([]*UserProtocol, error) {
	rows, err := db.Query(`
		SELECT p.id, p.pillar_id, p.name, p.description, p.timing, p.duration, p.frequency,
		       p.difficulty, p.mechanism, p.expected_benefit, p.contraindications, p.sort_order,
		       up.status
		FROM user_protocols up
		JOIN protocols p ON p.id = up.protocol_id
		WHERE up.user_id = ? AND up.status = 'active'
		ORDER BY p.pillar_id, p.sort_order`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*UserProtocol
	for rows.Next() {
		up := &UserProtocol{}
		var desc, timing, duration, mechanism, benefit, contra sql.NullString
		if err := rows.Scan(&up.ID, &up.PillarID, &up.Name, &desc, &timing, &duration,
			&up.Frequency, &up.Difficulty, &mechanism, &benefit, &contra, &up.SortOrder,
			&up.Status); err != nil {
			return nil, err
		}
		up.Description = nullStrPtr(desc)
		up.Timing = nullStrPtr(timing)
		up.Duration = nullStrPtr(duration)
		up.Mechanism = nullStrPtr(mechanism)
		up.ExpectedBenefit = nullStrPtr(benefit)
		up.Contraindications = nullStrPtr(contra)
		out = append(out, up)
	}
	return out, rows.Err()
}

// LogProtocol marks a protocol done or not done for a date, one row per day.
func (db *DB) LogProtocol(userID, protocolID int64, logDate string, completed bool, notes string) error {
	_, err := db.Exec(`
		INSERT INTO protocol_log (user_id, protocol_id, log_date, completed, notes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, protocol_id, log_date) DO UPDATE SET
			completed = excluded.completed,
			notes = excluded.notes`,
		userID, protocolID, logDate, boolToInt(completed), emptyToNil(notes))
	if err != nil {
		return fmt.Errorf("logging protocol: %w", err)
	}
	return nil
}

// ProtocolLogForDate maps protocol id to completion for the given date.
func (db *DB) ProtocolLogForDate(userID int64, logDate string) (map[int64]bool, error) {
	rows, err := db.Query(`
		SELECT protocol_id, completed FROM protocol_log
		WHERE user_id = ? AND log_date = ?`, userID, logDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	done := make(map[int64]bool)
	for rows.Next() {
		var id int64
		var completed int
		if err := rows.Scan(&id, &completed); err != nil {
			return nil, err
		}
		done[id] = completed == 1
	}
	return done, rows.Err()
}
