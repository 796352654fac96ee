package db

import (
	"database/sql"
	"fmt"
	"time"
)

type FastingSession struct {
	ID          int64    `json:"id"`
	UserID      int64    `json:"user_id"`
	StartTime   string   `json:"start_time"`
	EndTime     *string  `json:"end_time,omitempty"`
	TargetHours *float64 `json:"target_hours,omitempty"`
	ActualHours *float64 `json:"actual_hours,omitempty"`
	FastingType *string  `json:"fasting_type,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	Completed   bool     `json:"completed"`
}

// StartFast opens a fasting session. Only one may be open at a time.
func (db *DB) StartFast(userID int64, startTime string, targetHours float64, fastingType string) (int64, error) {
	active, err := db.ActiveFast(userID)
	if err != nil {
		return 0, err
	}
	if active != nil {
		return 0, fmt.Errorf("a fast is already in progress")
	}
	res, err := db.Exec(`
		INSERT INTO fasting_sessions (user_id, start_time, target_hours, fasting_type)
		VALUES (?, ?, ?, ?)`, userID, startTime, targetHours, emptyToNil(fastingType))
	if err != nil {
		return 0, fmt.Errorf("starting fast: %w", err)
	}
	return res.LastInsertId()
}

// EndFast closes the open session, computing actual hours and whether the
// target was met.
func (db *DB) EndFast(userID int64, endTime, notes string) (*FastingSession, error) {
	active, err := db.ActiveFast(userID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, fmt.Errorf("no fast in progress")
	}
	start, err := time.Parse(time.RFC3339, active.StartTime)
	if err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endTime)
	if err != nil {
		return nil, fmt.Errorf("parsing end time: %w", err)
	}
	hours := end.Sub(start).Hours()
	if hours < 0 {
		return nil, fmt.Errorf("end time precedes start time")
	}
	completed := active.TargetHours == nil || hours >= *active.TargetHours
	_, err = db.Exec(`
		UPDATE fasting_sessions SET end_time = ?, actual_hours = ?, completed = ?, notes = ?
		WHERE id = ?`, endTime, hours, boolToInt(completed), emptyToNil(notes), active.ID)
	if err != nil {
		return nil, fmt.Errorf("ending fast: %w", err)
	}
	active.EndTime = &endTime
	active.ActualHours = &hours
	active.Completed = completed
	return active, nil
}

// ActiveFast returns the open session, or nil when none exists.
func (db *DB) ActiveFast(userID int64) (*FastingSession, error) {
	s, err := scanFast(db.QueryRow(fastSelect+`
		WHERE user_id = ? AND end_time IS NULL ORDER BY id DESC LIMIT 1`, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (db *DB) FastingHistory(userID int64, limit int) ([]*FastingSession, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := db.Query(fastSelect+`
		WHERE user_id = ? AND end_time IS NOT NULL
		ORDER BY start_time DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*FastingSession
	for rows.Next() {
		s, err := scanFast(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const fastSelect = `SELECT id, user_id, start_time, end_time, target_hours, actual_hours,
	fasting_type, notes, completed FROM fasting_sessions`

func scanFast(row rowScanner) (*FastingSession, error) {
	s := &FastingSession{}
	var endTime, fastingType, notes sql.NullString
	var target, actual sql.NullFloat64
	var completed int
	err := row.Scan(&s.ID, &s.UserID, &s.StartTime, &endTime, &target, &actual,
		&fastingType, &notes, &completed)
	if err != nil {
		return nil, err
	}
	s.EndTime = nullStrPtr(endTime)
	s.FastingType = nullStrPtr(fastingType)
	s.Notes = nullStrPtr(notes)
	s.TargetHours = nullFloatPtr(target)
	s.ActualHours = nullFloatPtr(actual)
	s.Completed = completed == 1
	return s, nil
}
