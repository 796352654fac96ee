package db

import (
	"database/sql"
	"fmt"
	"time"
)

// AwardCoins credits coins once per (reason, refDate). Returns false when the
// same award was already granted, so callers can award blindly.
func (db *DB) AwardCoins(userID int64, amount int, reason, refDate string) (bool, error) {
	res, err := db.Exec(`
		INSERT OR IGNORE INTO coin_transactions (user_id, amount, reason, ref_date)
		VALUES (?, ?, ?, ?)`, userID, amount, reason, refDate)
	if err != nil {
		return false, fmt.Errorf("awarding coins: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SpendCoins debits the balance. Fails when the balance would go negative.
func (db *DB) SpendCoins(userID int64, amount int, reason string) error {
	balance, err := db.CoinBalance(userID)
	if err != nil {
		return err
	}
	if balance < amount {
		return fmt.Errorf("insufficient coins: have %d, need %d", balance, amount)
	}
	// NULL ref_date keeps spends outside the one-award-per-day unique key.
	_, err = db.Exec(`
		INSERT INTO coin_transactions (user_id, amount, reason, ref_date)
		VALUES (?, ?, ?, NULL)`, userID, -amount, reason)
	return err
}

func (db *DB) CoinBalance(userID int64) (int, error) {
	var balance int
	err := db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM coin_transactions WHERE user_id = ?`, userID).Scan(&balance)
	return balance, err
}

type CoinTransaction struct {
	ID        int64     `json:"id"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
	RefDate   *string   `json:"ref_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (db *DB) CoinHistory(userID int64, limit int) ([]*CoinTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT id, amount, reason, ref_date, created_at FROM coin_transactions
		WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*CoinTransaction
	for rows.Next() {
		t := &CoinTransaction{}
		var refDate sql.NullString
		if err := rows.Scan(&t.ID, &t.Amount, &t.Reason, &refDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.RefDate = nullStrPtr(refDate)
		out = append(out, t)
	}
	return out, rows.Err()
}

type WeeklyChallenge struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"user_id"`
	WeekStart    string  `json:"week_start"`
	PillarID     int64   `json:"pillar_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	TargetCount  int     `json:"target_count"`
	CurrentCount int     `json:"current_count"`
	Difficulty   string  `json:"difficulty"`
	CoinReward   int     `json:"coin_reward"`
	Status       string  `json:"status"`
	CompletedAt  *string `json:"completed_at,omitempty"`
}

// CreateWeeklyChallenge adds a challenge for the week; duplicates of the same
// title within a week are ignored. Constraint violations other than the
// dedup key still fail.
func (db *DB) CreateWeeklyChallenge(c WeeklyChallenge) (int64, error) {
	if c.Difficulty == "" {
		c.Difficulty = "medium"
	}
	res, err := db.Exec(`
		INSERT INTO weekly_challenges
			(user_id, week_start, pillar_id, title, description, target_count, difficulty, coin_reward)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, week_start, title) DO NOTHING`,
		c.UserID, c.WeekStart, c.PillarID, c.Title, c.Description, c.TargetCount, c.Difficulty, c.CoinReward)
	if err != nil {
		return 0, fmt.Errorf("creating challenge: %w", err)
	}
	return res.LastInsertId()
}

func (db *DB) ChallengesForWeek(userID int64, weekStart string) ([]*WeeklyChallenge, error) {
	rows, err := db.Query(`
		SELECT id, user_id, week_start, pillar_id, title, description, target_count,
		       current_count, difficulty, coin_reward, status, completed_at
		FROM weekly_challenges WHERE user_id = ? AND week_start = ?
		ORDER BY id`, userID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*WeeklyChallenge
	for rows.Next() {
		c := &WeeklyChallenge{}
		var completedAt sql.NullString
		if err := rows.Scan(&c.ID, &c.UserID, &c.WeekStart, &c.PillarID, &c.Title,
			&c.Description, &c.TargetCount, &c.CurrentCount, &c.Difficulty,
			&c.CoinReward, &c.Status, &completedAt); err != nil {
			return nil, err
		}
		c.CompletedAt = nullStrPtr(completedAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// IncrementChallenge bumps progress and completes the challenge when the
// target is reached, awarding its coin reward. Returns true on completion.
func (db *DB) IncrementChallenge(challengeID, userID int64) (bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()
	var current, target, reward int
	var status, weekStart, title string
	err = tx.QueryRow(`
		SELECT current_count, target_count, coin_reward, status, week_start, title
		FROM weekly_challenges WHERE id = ? AND user_id = ?`, challengeID, userID).Scan(
		&current, &target, &reward, &status, &weekStart, &title)
	if err != nil {
		return false, err
	}
	if status != "active" {
		return false, nil
	}
	current++
	completed := current >= target
	if completed {
		_, err = tx.Exec(`
			UPDATE weekly_challenges SET current_count = ?, status = 'completed',
				completed_at = datetime('now') WHERE id = ?`, current, challengeID)
	} else {
		_, err = tx.Exec(`
			UPDATE weekly_challenges SET current_count = ? WHERE id = ?`, current, challengeID)
	}
	if err != nil {
		return false, err
	}
	if completed {
		_, err = tx.Exec(`
			INSERT OR IGNORE INTO coin_transactions (user_id, amount, reason, ref_date)
			VALUES (?, ?, ?, ?)`, userID, reward, "challenge:"+title, weekStart)
		if err != nil {
			return false, err
		}
	}
	return completed, tx.Commit()
}

// ExpireStaleChallenges marks active challenges from past weeks expired.
func (db *DB) ExpireStaleChallenges(userID int64, currentWeekStart string) error {
	_, err := db.Exec(`
		UPDATE weekly_challenges SET status = 'expired'
		WHERE user_id = ? AND status = 'active' AND week_start < ?`, userID, currentWeekStart)
	return err
}

type Journey struct {
	UserID          int64 `json:"user_id"`
	MaxHabits       int   `json:"max_habits"`
	ConsistencyDays int   `json:"consistency_days"`
	Level           int   `json:"level"`
}

// GetJourney returns the user's progression state, creating the starting row
// on first access.
func (db *DB) GetJourney(userID int64) (*Journey, error) {
	j := &Journey{UserID: userID}
	err := db.QueryRow(`
		SELECT max_habits, consistency_days, level FROM user_journey WHERE user_id = ?`,
		userID).Scan(&j.MaxHabits, &j.ConsistencyDays, &j.Level)
	if err == sql.ErrNoRows {
		if _, err := db.Exec(`INSERT INTO user_journey (user_id) VALUES (?)`, userID); err != nil {
			return nil, err
		}
		j.MaxHabits = 3
		j.Level = 1
		return j, nil
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// AdvanceJourney records another consistent day and unlocks capacity at each
// level-up (every 7 consistent days, +1 habit slot up to 10).
func (db *DB) AdvanceJourney(userID int64) (*Journey, error) {
	j, err := db.GetJourney(userID)
	if err != nil {
		return nil, err
	}
	j.ConsistencyDays++
	newLevel := 1 + j.ConsistencyDays/7
	if newLevel > j.Level {
		j.Level = newLevel
		if j.MaxHabits < 10 {
			j.MaxHabits++
		}
	}
	_, err = db.Exec(`
		UPDATE user_journey SET consistency_days = ?, level = ?, max_habits = ?
		WHERE user_id = ?`, j.ConsistencyDays, j.Level, j.MaxHabits, userID)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// RecordQuoteShown notes which quote was shown on a date; one row per quote
// per day, so reflections update in place.
func (db *DB) RecordQuoteShown(userID int64, quoteIndex int, shownDate string) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO quote_interactions (user_id, quote_index, shown_date)
		VALUES (?, ?, ?)`, userID, quoteIndex, shownDate)
	return err
}

func (db *DB) SaveQuoteReflection(userID int64, quoteIndex int, shownDate, reflection string, favorite bool) error {
	res, err := db.Exec(`
		UPDATE quote_interactions SET reflection_text = ?, is_favorite = ?
		WHERE user_id = ? AND quote_index = ? AND shown_date = ?`,
		reflection, boolToInt(favorite), userID, quoteIndex, shownDate)
	if err != nil {
		return err
	}
	return checkGoalUpdated(res)
}

func (db *DB) RecordNudgeShown(userID int64, nudgeIndex int, shownDate string) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO nudge_shown (user_id, nudge_index, shown_date)
		VALUES (?, ?, ?)`, userID, nudgeIndex, shownDate)
	return err
}

func (db *DB) AcknowledgeNudge(userID int64, nudgeIndex int, shownDate string) error {
	_, err := db.Exec(`
		UPDATE nudge_shown SET acknowledged = 1
		WHERE user_id = ? AND nudge_index = ? AND shown_date = ?`, userID, nudgeIndex, shownDate)
	return err
}

type GrowthState struct {
	StateDate         string `json:"state_date"`
	CurrentQuoteIndex *int   `json:"current_quote_index,omitempty"`
	CurrentNudgeIndex *int   `json:"current_nudge_index,omitempty"`
	MeditationStreak  int    `json:"meditation_streak"`
}

// UpsertGrowthState pins the day's quote and nudge selection so reloading the
// dashboard shows the same content all day.
func (db *DB) UpsertGrowthState(userID int64, s GrowthState) error {
	_, err := db.Exec(`
		INSERT INTO daily_growth_state (user_id, state_date, current_quote_index, current_nudge_index, meditation_streak)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, state_date) DO UPDATE SET
			current_quote_index = excluded.current_quote_index,
			current_nudge_index = excluded.current_nudge_index,
			meditation_streak = excluded.meditation_streak`,
		userID, s.StateDate, s.CurrentQuoteIndex, s.CurrentNudgeIndex, s.MeditationStreak)
	return err
}

func (db *DB) GetGrowthState(userID int64, stateDate string) (*GrowthState, error) {
	s := &GrowthState{StateDate: stateDate}
	var quoteIdx, nudgeIdx sql.NullInt64
	err := db.QueryRow(`
		SELECT current_quote_index, current_nudge_index, meditation_streak
		FROM daily_growth_state WHERE user_id = ? AND state_date = ?`,
		userID, stateDate).Scan(&quoteIdx, &nudgeIdx, &s.MeditationStreak)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.CurrentQuoteIndex = nullIntPtr(quoteIdx)
	s.CurrentNudgeIndex = nullIntPtr(nudgeIdx)
	return s, nil
}

type MeditationSession struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"user_id"`
	SessionDate     string  `json:"session_date"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	MeditationType  *string `json:"meditation_type,omitempty"`
	MoodBefore      *int    `json:"mood_before,omitempty"`
	MoodAfter       *int    `json:"mood_after,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

func (db *DB) LogMeditation(s MeditationSession) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO meditation_sessions (user_id, session_date, duration_minutes, meditation_type, mood_before, mood_after, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.UserID, s.SessionDate, s.DurationMinutes, s.MeditationType, s.MoodBefore, s.MoodAfter, s.Notes)
	if err != nil {
		return 0, fmt.Errorf("logging meditation: %w", err)
	}
	return res.LastInsertId()
}

func (db *DB) MeditationMinutesForDate(userID int64, sessionDate string) (int, error) {
	var minutes int
	err := db.QueryRow(`
		SELECT COALESCE(SUM(duration_minutes), 0) FROM meditation_sessions
		WHERE user_id = ? AND session_date = ?`, userID, sessionDate).Scan(&minutes)
	return minutes, err
}

type FutureSelfLetter struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	LetterText   string    `json:"letter_text"`
	DeliveryDate string    `json:"delivery_date"`
	Delivered    bool      `json:"delivered"`
	CreatedAt    time.Time `json:"created_at"`
}

func (db *DB) WriteFutureSelfLetter(userID int64, letterText, deliveryDate string) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO future_self_letters (user_id, letter_text, delivery_date)
		VALUES (?, ?, ?)`, userID, letterText, deliveryDate)
	if err != nil {
		return 0, fmt.Errorf("saving letter: %w", err)
	}
	return res.LastInsertId()
}

// DueLetters returns undelivered letters whose delivery date has arrived and
// marks them delivered.
func (db *DB) DueLetters(userID int64, today string) ([]*FutureSelfLetter, error) {
	rows, err := db.Query(`
		SELECT id, user_id, letter_text, delivery_date, delivered, created_at
		FROM future_self_letters
		WHERE user_id = ? AND delivered = 0 AND delivery_date <= ?
		ORDER BY delivery_date`, userID, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*FutureSelfLetter
	for rows.Next() {
		l := &FutureSelfLetter{}
		var delivered int
		if err := rows.Scan(&l.ID, &l.UserID, &l.LetterText, &l.DeliveryDate, &delivered, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Delivered = delivered == 1
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, l := range out {
		if _, err := db.Exec(`UPDATE future_self_letters SET delivered = 1 WHERE id = ?`, l.ID); err != nil {
			return nil, err
		}
		l.Delivered = true
	}
	return out, nil
}
