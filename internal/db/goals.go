package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Goal is a SMART-EST goal: the classic SMART fields plus evidence base,
// strategic fit, and tailoring notes.
type Goal struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	PillarID      int64      `json:"pillar_id"`
	Title         string     `json:"title"`
	Specific      *string    `json:"specific,omitempty"`
	Measurable    *string    `json:"measurable,omitempty"`
	Achievable    *string    `json:"achievable,omitempty"`
	Relevant      *string    `json:"relevant,omitempty"`
	TimeBound     *string    `json:"time_bound,omitempty"`
	EvidenceBase  *string    `json:"evidence_base,omitempty"`
	Strategic     *string    `json:"strategic,omitempty"`
	Tailored      *string    `json:"tailored,omitempty"`
	Status        string     `json:"status"`
	ProgressPct   int        `json:"progress_pct"`
	TargetValue   *float64   `json:"target_value,omitempty"`
	CurrentValue  *float64   `json:"current_value,omitempty"`
	Unit          *string    `json:"unit,omitempty"`
	StartDate     *string    `json:"start_date,omitempty"`
	TargetDate    *string    `json:"target_date,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	AbandonedAt   *time.Time `json:"abandoned_at,omitempty"`
	AbandonReason *string    `json:"abandon_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type CreateGoalInput struct {
	UserID       int64
	PillarID     int64
	Title        string
	Specific     string
	Measurable   string
	Achievable   string
	Relevant     string
	TimeBound    string
	EvidenceBase string
	Strategic    string
	Tailored     string
	TargetValue  *float64
	Unit         string
	StartDate    string
	TargetDate   string
}

func (db *DB) CreateGoal(input CreateGoalInput) (*Goal, error) {
	res, err := db.Exec(`
		INSERT INTO goals
			(user_id, pillar_id, title, specific, measurable, achievable, relevant,
			 time_bound, evidence_base, strategic, tailored, target_value, unit,
			 start_date, target_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.UserID, input.PillarID, input.Title,
		emptyToNil(input.Specific), emptyToNil(input.Measurable), emptyToNil(input.Achievable),
		emptyToNil(input.Relevant), emptyToNil(input.TimeBound), emptyToNil(input.EvidenceBase),
		emptyToNil(input.Strategic), emptyToNil(input.Tailored),
		input.TargetValue, emptyToNil(input.Unit), emptyToNil(input.StartDate), emptyToNil(input.TargetDate))
	if err != nil {
		return nil, fmt.Errorf("creating goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return db.GetGoal(id)
}

func emptyToNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

const goalColumns = `id, user_id, pillar_id, title, specific, measurable, achievable, relevant,
	time_bound, evidence_base, strategic, tailored, status, progress_pct, target_value,
	current_value, unit, start_date, target_date, completed_at, abandoned_at, abandon_reason, created_at`

func (db *DB) GetGoal(id int64) (*Goal, error) {
	return scanGoal(db.QueryRow(`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id))
}

// ListGoals returns a user's goals, optionally filtered by status.
func (db *DB) ListGoals(userID int64, status string) ([]*Goal, error) {
	var rows *sql.Rows
	var err error
	if status != "" {
		rows, err = db.Query(`SELECT `+goalColumns+` FROM goals
			WHERE user_id = ? AND status = ? ORDER BY created_at DESC`, userID, status)
	} else {
		rows, err = db.Query(`SELECT `+goalColumns+` FROM goals
			WHERE user_id = ? ORDER BY created_at DESC`, userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var goals []*Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (*Goal, error) {
	g := &Goal{}
	var specific, measurable, achievable, relevant, timeBound sql.NullString
	var evidence, strategic, tailored, unit, startDate, targetDate, abandonReason sql.NullString
	var targetValue, currentValue sql.NullFloat64
	var completedAt, abandonedAt sql.NullTime
	err := row.Scan(&g.ID, &g.UserID, &g.PillarID, &g.Title, &specific, &measurable,
		&achievable, &relevant, &timeBound, &evidence, &strategic, &tailored,
		&g.Status, &g.ProgressPct, &targetValue, &currentValue, &unit,
		&startDate, &targetDate, &completedAt, &abandonedAt, &abandonReason, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	g.Specific = nullStrPtr(specific)
	g.Measurable = nullStrPtr(measurable)
	g.Achievable = nullStrPtr(achievable)
	g.Relevant = nullStrPtr(relevant)
	g.TimeBound = nullStrPtr(timeBound)
	g.EvidenceBase = nullStrPtr(evidence)
	g.Strategic = nullStrPtr(strategic)
	g.Tailored = nullStrPtr(tailored)
	g.Unit = nullStrPtr(unit)
	g.StartDate = nullStrPtr(startDate)
	g.TargetDate = nullStrPtr(targetDate)
	g.AbandonReason = nullStrPtr(abandonReason)
	if targetValue.Valid {
		g.TargetValue = &targetValue.Float64
	}
	if currentValue.Valid {
		g.CurrentValue = &currentValue.Float64
	}
	if completedAt.Valid {
		g.CompletedAt = &completedAt.Time
	}
	if abandonedAt.Valid {
		g.AbandonedAt = &abandonedAt.Time
	}
	return g, nil
}

func nullStrPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// LogGoalProgress appends a progress entry and mirrors the latest values onto
// the goal row. Hitting 100% does not auto-complete; completion is explicit.
func (db *DB) LogGoalProgress(goalID, userID int64, progressPct int, currentValue *float64, notes string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	_, err = tx.Exec(`
		INSERT INTO goal_progress (goal_id, user_id, progress_pct, current_value, notes)
		VALUES (?, ?, ?, ?, ?)`, goalID, userID, progressPct, currentValue, emptyToNil(notes))
	if err != nil {
		return fmt.Errorf("logging goal progress: %w", err)
	}
	_, err = tx.Exec(`
		UPDATE goals SET progress_pct = ?, current_value = COALESCE(?, current_value),
			updated_at = datetime('now')
		WHERE id = ? AND user_id = ?`, progressPct, currentValue, goalID, userID)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}
	return tx.Commit()
}

type GoalProgressEntry struct {
	ID           int64     `json:"id"`
	GoalID       int64     `json:"goal_id"`
	ProgressPct  *int      `json:"progress_pct,omitempty"`
	CurrentValue *float64  `json:"current_value,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	LoggedAt     time.Time `json:"logged_at"`
}

func (db *DB) GoalProgressHistory(goalID int64) ([]*GoalProgressEntry, error) {
	rows, err := db.Query(`
		SELECT id, goal_id, progress_pct, current_value, notes, logged_at
		FROM goal_progress WHERE goal_id = ? ORDER BY logged_at`, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*GoalProgressEntry
	for rows.Next() {
		e := &GoalProgressEntry{}
		var pct sql.NullInt64
		var value sql.NullFloat64
		var notes sql.NullString
		if err := rows.Scan(&e.ID, &e.GoalID, &pct, &value, &notes, &e.LoggedAt); err != nil {
			return nil, err
		}
		e.ProgressPct = nullIntPtr(pct)
		if value.Valid {
			e.CurrentValue = &value.Float64
		}
		e.Notes = nullStrPtr(notes)
		out = append(out, e)
	}
	return out, rows.Err()
}

// CompleteGoal marks a goal completed at 100%.
func (db *DB) CompleteGoal(goalID, userID int64) error {
	return db.setGoalStatus(goalID, userID, `
		UPDATE goals SET status = 'completed', progress_pct = 100,
			completed_at = datetime('now'), updated_at = datetime('now')
		WHERE id = ? AND user_id = ?`)
}

func (db *DB) AbandonGoal(goalID, userID int64, reason string) error {
	res, err := db.Exec(`
		UPDATE goals SET status = 'abandoned', abandoned_at = datetime('now'),
			abandon_reason = ?, updated_at = datetime('now')
		WHERE id = ? AND user_id = ?`, emptyToNil(reason), goalID, userID)
	if err != nil {
		return err
	}
	return checkGoalUpdated(res)
}

func (db *DB) PauseGoal(goalID, userID int64) error {
	return db.setGoalStatus(goalID, userID, `
		UPDATE goals SET status = 'paused', updated_at = datetime('now')
		WHERE id = ? AND user_id = ? AND status = 'active'`)
}

func (db *DB) ResumeGoal(goalID, userID int64) error {
	return db.setGoalStatus(goalID, userID, `
		UPDATE goals SET status = 'active', updated_at = datetime('now')
		WHERE id = ? AND user_id = ? AND status = 'paused'`)
}

func (db *DB) setGoalStatus(goalID, userID int64, query string) error {
	res, err := db.Exec(query, goalID, userID)
	if err != nil {
		return err
	}
	return checkGoalUpdated(res)
}

func checkGoalUpdated(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
