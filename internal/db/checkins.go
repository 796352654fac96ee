package db

import (
	"database/sql"
	"fmt"
	"time"
)

type DailyCheckin struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	CheckinDate      string    `json:"checkin_date"`
	Mood             *int      `json:"mood,omitempty"`
	Energy           *int      `json:"energy,omitempty"`
	NutritionRating  *int      `json:"nutrition_rating,omitempty"`
	ActivityRating   *int      `json:"activity_rating,omitempty"`
	SleepRating      *int      `json:"sleep_rating,omitempty"`
	StressRating     *int      `json:"stress_rating,omitempty"`
	ConnectionRating *int      `json:"connection_rating,omitempty"`
	SubstanceRating  *int      `json:"substance_rating,omitempty"`
	JournalEntry     *string   `json:"journal_entry,omitempty"`
	Gratitude        *string   `json:"gratitude,omitempty"`
	WinOfDay         *string   `json:"win_of_day,omitempty"`
	Challenge        *string   `json:"challenge,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// UpsertDailyCheckin stores the day's check-in, replacing any earlier one for
// the same date. Editing during the day is the expected flow.
func (db *DB) UpsertDailyCheckin(c DailyCheckin) error {
	_, err := db.Exec(`
		INSERT INTO daily_checkins
			(user_id, checkin_date, mood, energy, nutrition_rating, activity_rating,
			 sleep_rating, stress_rating, connection_rating, substance_rating,
			 journal_entry, gratitude, win_of_day, challenge)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, checkin_date) DO UPDATE SET
			mood = excluded.mood,
			energy = excluded.energy,
			nutrition_rating = excluded.nutrition_rating,
			activity_rating = excluded.activity_rating,
			sleep_rating = excluded.sleep_rating,
			stress_rating = excluded.stress_rating,
			connection_rating = excluded.connection_rating,
			substance_rating = excluded.substance_rating,
			journal_entry = excluded.journal_entry,
			gratitude = excluded.gratitude,
			win_of_day = excluded.win_of_day,
			challenge = excluded.challenge`,
		c.UserID, c.CheckinDate, c.Mood, c.Energy, c.NutritionRating, c.ActivityRating,
		c.SleepRating, c.StressRating, c.ConnectionRating, c.SubstanceRating,
		c.JournalEntry, c.Gratitude, c.WinOfDay, c.Challenge)
	if err != nil {
		return fmt.Errorf("saving check-in: %w", err)
	}
	return nil
}

func (db *DB) GetCheckin(userID int64, checkinDate string) (*DailyCheckin, error) {
	c, err := scanCheckin(db.QueryRow(`
		SELECT id, user_id, checkin_date, mood, energy, nutrition_rating, activity_rating,
		       sleep_rating, stress_rating, connection_rating, substance_rating,
		       journal_entry, gratitude, win_of_day, challenge, created_at
		FROM daily_checkins WHERE user_id = ? AND checkin_date = ?`, userID, checkinDate))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (db *DB) RecentCheckins(userID int64, limit int) ([]*DailyCheckin, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := db.Query(`
		SELECT id, user_id, checkin_date, mood, energy, nutrition_rating, activity_rating,
		       sleep_rating, stress_rating, connection_rating, substance_rating,
		       journal_entry, gratitude, win_of_day, challenge, created_at
		FROM daily_checkins WHERE user_id = ?
		ORDER BY checkin_date DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*DailyCheckin
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCheckin(row rowScanner) (*DailyCheckin, error) {
	c := &DailyCheckin{}
	var mood, energy, nutrition, activity, sleep, stress, connection, substance sql.NullInt64
	var journal, gratitude, win, challenge sql.NullString
	err := row.Scan(&c.ID, &c.UserID, &c.CheckinDate, &mood, &energy, &nutrition,
		&activity, &sleep, &stress, &connection, &substance,
		&journal, &gratitude, &win, &challenge, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.Mood = nullIntPtr(mood)
	c.Energy = nullIntPtr(energy)
	c.NutritionRating = nullIntPtr(nutrition)
	c.ActivityRating = nullIntPtr(activity)
	c.SleepRating = nullIntPtr(sleep)
	c.StressRating = nullIntPtr(stress)
	c.ConnectionRating = nullIntPtr(connection)
	c.SubstanceRating = nullIntPtr(substance)
	c.JournalEntry = nullStrPtr(journal)
	c.Gratitude = nullStrPtr(gratitude)
	c.WinOfDay = nullStrPtr(win)
	c.Challenge = nullStrPtr(challenge)
	return c, nil
}

// CheckinStreak counts consecutive days with a check-in, ending at endDate.
func (db *DB) CheckinStreak(userID int64, endDate string) (int, error) {
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return 0, fmt.Errorf("parsing date: %w", err)
	}
	rows, err := db.Query(`
		SELECT checkin_date FROM daily_checkins
		WHERE user_id = ? AND checkin_date <= ?
		ORDER BY checkin_date DESC LIMIT 366`, userID, endDate)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	seen := make(map[string]bool)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return 0, err
		}
		seen[d] = true
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	streak := 0
	for day := end; seen[day.Format("2006-01-02")]; day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak, nil
}

type WeeklyReview struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	WeekStart          string    `json:"week_start"`
	AvgMood            *float64  `json:"avg_mood,omitempty"`
	AvgEnergy          *float64  `json:"avg_energy,omitempty"`
	HabitCompletionPct *float64  `json:"habit_completion_pct,omitempty"`
	Reflection         *string   `json:"reflection,omitempty"`
	Highlights         *string   `json:"highlights,omitempty"`
	Challenges         *string   `json:"challenges,omitempty"`
	NextWeekFocus      *string   `json:"next_week_focus,omitempty"`
	AISummary          *string   `json:"ai_summary,omitempty"`
	AIInsights         *string   `json:"ai_insights,omitempty"`
	AISuggestions      *string   `json:"ai_suggestions,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// UpsertWeeklyReview saves the review for a week, keyed by its Monday.
func (db *DB) UpsertWeeklyReview(r WeeklyReview) error {
	_, err := db.Exec(`
		INSERT INTO weekly_reviews
			(user_id, week_start, avg_mood, avg_energy, habit_completion_pct,
			 reflection, highlights, challenges, next_week_focus,
			 ai_summary, ai_insights, ai_suggestions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, week_start) DO UPDATE SET
			avg_mood = excluded.avg_mood,
			avg_energy = excluded.avg_energy,
			habit_completion_pct = excluded.habit_completion_pct,
			reflection = excluded.reflection,
			highlights = excluded.highlights,
			challenges = excluded.challenges,
			next_week_focus = excluded.next_week_focus,
			ai_summary = COALESCE(excluded.ai_summary, weekly_reviews.ai_summary),
			ai_insights = COALESCE(excluded.ai_insights, weekly_reviews.ai_insights),
			ai_suggestions = COALESCE(excluded.ai_suggestions, weekly_reviews.ai_suggestions)`,
		r.UserID, r.WeekStart, r.AvgMood, r.AvgEnergy, r.HabitCompletionPct,
		r.Reflection, r.Highlights, r.Challenges, r.NextWeekFocus,
		r.AISummary, r.AIInsights, r.AISuggestions)
	if err != nil {
		return fmt.Errorf("saving weekly review: %w", err)
	}
	return nil
}

func (db *DB) GetWeeklyReview(userID int64, weekStart string) (*WeeklyReview, error) {
	r := &WeeklyReview{}
	var avgMood, avgEnergy, habitPct sql.NullFloat64
	var reflection, highlights, challenges, focus, aiSummary, aiInsights, aiSuggestions sql.NullString
	err := db.QueryRow(`
		SELECT id, user_id, week_start, avg_mood, avg_energy, habit_completion_pct,
		       reflection, highlights, challenges, next_week_focus,
		       ai_summary, ai_insights, ai_suggestions, created_at
		FROM weekly_reviews WHERE user_id = ? AND week_start = ?`, userID, weekStart).Scan(
		&r.ID, &r.UserID, &r.WeekStart, &avgMood, &avgEnergy, &habitPct,
		&reflection, &highlights, &challenges, &focus,
		&aiSummary, &aiInsights, &aiSuggestions, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if avgMood.Valid {
		r.AvgMood = &avgMood.Float64
	}
	if avgEnergy.Valid {
		r.AvgEnergy = &avgEnergy.Float64
	}
	if habitPct.Valid {
		r.HabitCompletionPct = &habitPct.Float64
	}
	r.Reflection = nullStrPtr(reflection)
	r.Highlights = nullStrPtr(highlights)
	r.Challenges = nullStrPtr(challenges)
	r.NextWeekFocus = nullStrPtr(focus)
	r.AISummary = nullStrPtr(aiSummary)
	r.AIInsights = nullStrPtr(aiInsights)
	r.AISuggestions = nullStrPtr(aiSuggestions)
	return r, nil
}

// SaveAutoWeeklyReport stores a generated weekly report; regenerating
// replaces the previous one for that week.
func (db *DB) SaveAutoWeeklyReport(userID int64, weekStart, reportText, statsJSON string) error {
	_, err := db.Exec(`
		INSERT INTO auto_weekly_reports (user_id, week_start, report_text, stats_json)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, week_start) DO UPDATE SET
			report_text = excluded.report_text,
			stats_json = excluded.stats_json,
			created_at = datetime('now')`,
		userID, weekStart, reportText, statsJSON)
	return err
}

func (db *DB) GetAutoWeeklyReport(userID int64, weekStart string) (string, string, error) {
	var reportText, statsJSON sql.NullString
	err := db.QueryRow(`
		SELECT report_text, stats_json FROM auto_weekly_reports
		WHERE user_id = ? AND week_start = ?`, userID, weekStart).Scan(&reportText, &statsJSON)
	if err != nil {
		return "", "", err
	}
	return reportText.String, statsJSON.String, nil
}

// SaveDailyInsight stores at most one generated insight per user per day.
func (db *DB) SaveDailyInsight(userID int64, insightDate, text string) error {
	_, err := db.Exec(`
		INSERT INTO daily_insights (user_id, insight_date, insight_text)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, insight_date) DO UPDATE SET insight_text = excluded.insight_text`,
		userID, insightDate, text)
	return err
}

func (db *DB) GetDailyInsight(userID int64, insightDate string) (string, error) {
	var text sql.NullString
	err := db.QueryRow(`
		SELECT insight_text FROM daily_insights WHERE user_id = ? AND insight_date = ?`,
		userID, insightDate).Scan(&text)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return text.String, nil
}
