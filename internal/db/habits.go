package db

import (
	"database/sql"
	"fmt"
	"time"
)

type Habit struct {
	ID                      int64     `json:"id"`
	UserID                  int64     `json:"user_id"`
	PillarID                int64     `json:"pillar_id"`
	Name                    string    `json:"name"`
	Description             *string   `json:"description,omitempty"`
	Frequency               string    `json:"frequency"`
	CustomDays              *string   `json:"custom_days,omitempty"`
	TargetPerDay            int       `json:"target_per_day"`
	CueBehavior             *string   `json:"cue_behavior,omitempty"`
	Location                *string   `json:"location,omitempty"`
	ImplementationIntention *string   `json:"implementation_intention,omitempty"`
	IsActive                bool      `json:"is_active"`
	SortOrder               int       `json:"sort_order"`
	CreatedAt               time.Time `json:"created_at"`
}

type CreateHabitInput struct {
	UserID                  int64
	PillarID                int64
	Name                    string
	Description             string
	Frequency               string
	CustomDays              string
	TargetPerDay            int
	CueBehavior             string
	Location                string
	ImplementationIntention string
}

func (db *DB) CreateHabit(input CreateHabitInput) (*Habit, error) {
	if input.Frequency == "" {
		input.Frequency = "daily"
	}
	if input.TargetPerDay <= 0 {
		input.TargetPerDay = 1
	}
	res, err := db.Exec(`
		INSERT INTO habits
			(user_id, pillar_id, name, description, frequency, custom_days,
			 target_per_day, cue_behavior, location, implementation_intention)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.UserID, input.PillarID, input.Name, emptyToNil(input.Description),
		input.Frequency, emptyToNil(input.CustomDays), input.TargetPerDay,
		emptyToNil(input.CueBehavior), emptyToNil(input.Location),
		emptyToNil(input.ImplementationIntention))
	if err != nil {
		return nil, fmt.Errorf("creating habit: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return db.GetHabit(id)
}

const habitColumns = `id, user_id, pillar_id, name, description, frequency, custom_days,
	target_per_day, cue_behavior, location, implementation_intention, is_active, sort_order, created_at`

func (db *DB) GetHabit(id int64) (*Habit, error) {
	return scanHabit(db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
}

func (db *DB) ListHabits(userID int64, activeOnly bool) ([]*Habit, error) {
	q := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	if activeOnly {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY pillar_id, sort_order, id`
	rows, err := db.Query(q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var habits []*Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func scanHabit(row rowScanner) (*Habit, error) {
	h := &Habit{}
	var desc, customDays, cue, location, intention sql.NullString
	var isActive int
	err := row.Scan(&h.ID, &h.UserID, &h.PillarID, &h.Name, &desc, &h.Frequency,
		&customDays, &h.TargetPerDay, &cue, &location, &intention, &isActive,
		&h.SortOrder, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	h.Description = nullStrPtr(desc)
	h.CustomDays = nullStrPtr(customDays)
	h.CueBehavior = nullStrPtr(cue)
	h.Location = nullStrPtr(location)
	h.ImplementationIntention = nullStrPtr(intention)
	h.IsActive = isActive == 1
	return h, nil
}

// ArchiveHabit deactivates a habit without touching its log history.
func (db *DB) ArchiveHabit(habitID, userID int64) error {
	res, err := db.Exec(`UPDATE habits SET is_active = 0 WHERE id = ? AND user_id = ?`, habitID, userID)
	if err != nil {
		return err
	}
	return checkGoalUpdated(res)
}

func (db *DB) ReactivateHabit(habitID, userID int64) error {
	res, err := db.Exec(`UPDATE habits SET is_active = 1 WHERE id = ? AND user_id = ?`, habitID, userID)
	if err != nil {
		return err
	}
	return checkGoalUpdated(res)
}

// SetHabitLog records how many times a habit was done on a date. One row per
// habit per day; repeated calls replace the count.
func (db *DB) SetHabitLog(habitID, userID int64, logDate string, completedCount int) error {
	_, err := db.Exec(`
		INSERT INTO habit_log (habit_id, user_id, log_date, completed_count)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(habit_id, log_date) DO UPDATE SET completed_count = excluded.completed_count`,
		habitID, userID, logDate, completedCount)
	if err != nil {
		return fmt.Errorf("logging habit: %w", err)
	}
	return nil
}

// ToggleHabitLog flips a habit between done (target count) and not done for a
// date. Returns the resulting completed count.
func (db *DB) ToggleHabitLog(habitID, userID int64, logDate string) (int, error) {
	h, err := db.GetHabit(habitID)
	if err != nil {
		return 0, err
	}
	if h.UserID != userID {
		return 0, sql.ErrNoRows
	}
	var current int
	err = db.QueryRow(`
		SELECT completed_count FROM habit_log WHERE habit_id = ? AND log_date = ?`,
		habitID, logDate).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	next := h.TargetPerDay
	if current >= h.TargetPerDay {
		next = 0
	}
	if err := db.SetHabitLog(habitID, userID, logDate, next); err != nil {
		return 0, err
	}
	return next, nil
}

type HabitLogEntry struct {
	HabitID        int64  `json:"habit_id"`
	LogDate        string `json:"log_date"`
	CompletedCount int    `json:"completed_count"`
}

func (db *DB) HabitLogsForDate(userID int64, logDate string) ([]*HabitLogEntry, error) {
	rows, err := db.Query(`
		SELECT habit_id, log_date, completed_count FROM habit_log
		WHERE user_id = ? AND log_date = ?`, userID, logDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*HabitLogEntry
	for rows.Next() {
		e := &HabitLogEntry{}
		if err := rows.Scan(&e.HabitID, &e.LogDate, &e.CompletedCount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (db *DB) HabitLogsForRange(userID int64, fromDate, toDate string) ([]*HabitLogEntry, error) {
	rows, err := db.Query(`
		SELECT habit_id, log_date, completed_count FROM habit_log
		WHERE user_id = ? AND log_date >= ? AND log_date <= ?
		ORDER BY log_date`, userID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*HabitLogEntry
	for rows.Next() {
		e := &HabitLogEntry{}
		if err := rows.Scan(&e.HabitID, &e.LogDate, &e.CompletedCount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// HabitStreak counts consecutive days ending at endDate on which the habit
// met its daily target.
func (db *DB) HabitStreak(habitID int64, endDate string) (int, error) {
	h, err := db.GetHabit(habitID)
	if err != nil {
		return 0, err
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return 0, fmt.Errorf("parsing date: %w", err)
	}
	rows, err := db.Query(`
		SELECT log_date, completed_count FROM habit_log
		WHERE habit_id = ? AND log_date <= ?
		ORDER BY log_date DESC LIMIT 366`, habitID, endDate)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	done := make(map[string]bool)
	for rows.Next() {
		var d string
		var count int
		if err := rows.Scan(&d, &count); err != nil {
			return 0, err
		}
		done[d] = count >= h.TargetPerDay
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	streak := 0
	for day := end; ; day = day.AddDate(0, 0, -1) {
		if !done[day.Format("2006-01-02")] {
			break
		}
		streak++
	}
	return streak, nil
}

// HabitCompletionPct returns the share of active-habit slots completed over a
// date range, as a 0-100 percentage.
func (db *DB) HabitCompletionPct(userID int64, fromDate, toDate string) (float64, error) {
	var activeHabits int
	if err := db.QueryRow(`
		SELECT COUNT(*) FROM habits WHERE user_id = ? AND is_active = 1`, userID).Scan(&activeHabits); err != nil {
		return 0, err
	}
	if activeHabits == 0 {
		return 0, nil
	}
	from, err := time.Parse("2006-01-02", fromDate)
	if err != nil {
		return 0, fmt.Errorf("parsing date: %w", err)
	}
	to, err := time.Parse("2006-01-02", toDate)
	if err != nil {
		return 0, fmt.Errorf("parsing date: %w", err)
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days <= 0 {
		return 0, nil
	}
	var completed int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM habit_log hl
		JOIN habits h ON h.id = hl.habit_id
		WHERE hl.user_id = ? AND hl.log_date >= ? AND hl.log_date <= ?
		  AND h.is_active = 1 AND hl.completed_count >= h.target_per_day`,
		userID, fromDate, toDate).Scan(&completed)
	if err != nil {
		return 0, err
	}
	return 100 * float64(completed) / float64(activeHabits*days), nil
}
