package db

import (
	"database/sql"
	"fmt"
	"time"
)

type ExerciseLog struct {
	ID           int64    `json:"id"`
	UserID       int64    `json:"user_id"`
	ExerciseDate string   `json:"exercise_date"`
	ExerciseType *string  `json:"exercise_type,omitempty"`
	Category     *string  `json:"category,omitempty"`
	DurationMin  int      `json:"duration_min"`
	Intensity    *string  `json:"intensity,omitempty"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
	Calories     *float64 `json:"calories,omitempty"`
	AvgHR        *int     `json:"avg_hr,omitempty"`
	MaxHR        *int     `json:"max_hr,omitempty"`
	RPE          *int     `json:"rpe,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	Source       string   `json:"source"`
	ExternalID   *string  `json:"external_id,omitempty"`
}

// LogExercise records a session and refreshes the week's summary. Imports
// carry an external id so re-syncing the same activity is a no-op; manual
// entries (nil external id) always insert.
func (db *DB) LogExercise(e ExerciseLog) (int64, bool, error) {
	if e.Source == "" {
		e.Source = "manual"
	}
	res, err := db.Exec(`
		INSERT INTO exercise_logs
			(user_id, exercise_date, exercise_type, category, duration_min, intensity,
			 distance_km, calories, avg_hr, max_hr, rpe, notes, source, external_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, exercise_date, external_id) DO NOTHING`,
		e.UserID, e.ExerciseDate, e.ExerciseType, e.Category, e.DurationMin, e.Intensity,
		e.DistanceKm, e.Calories, e.AvgHR, e.MaxHR, e.RPE, e.Notes, e.Source, e.ExternalID)
	if err != nil {
		return 0, false, fmt.Errorf("logging exercise: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, err
	}
	if err := db.RecomputeExerciseWeek(e.UserID, WeekStartOf(e.ExerciseDate)); err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (db *DB) ExerciseLogsForRange(userID int64, fromDate, toDate string) ([]*ExerciseLog, error) {
	rows, err := db.Query(`
		SELECT id, user_id, exercise_date, exercise_type, category, duration_min, intensity,
		       distance_km, calories, avg_hr, max_hr, rpe, notes, source, external_id
		FROM exercise_logs
		WHERE user_id = ? AND exercise_date >= ? AND exercise_date <= ?
		ORDER BY exercise_date, id`, userID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*ExerciseLog
	for rows.Next() {
		e := &ExerciseLog{}
		var exType, category, intensity, notes, externalID sql.NullString
		var distance, calories sql.NullFloat64
		var avgHR, maxHR, rpe sql.NullInt64
		if err := rows.Scan(&e.ID, &e.UserID, &e.ExerciseDate, &exType, &category,
			&e.DurationMin, &intensity, &distance, &calories, &avgHR, &maxHR, &rpe,
			&notes, &e.Source, &externalID); err != nil {
			return nil, err
		}
		e.ExerciseType = nullStrPtr(exType)
		e.Category = nullStrPtr(category)
		e.Intensity = nullStrPtr(intensity)
		e.Notes = nullStrPtr(notes)
		e.ExternalID = nullStrPtr(externalID)
		e.DistanceKm = nullFloatPtr(distance)
		e.Calories = nullFloatPtr(calories)
		e.AvgHR = nullIntPtr(avgHR)
		e.MaxHR = nullIntPtr(maxHR)
		e.RPE = nullIntPtr(rpe)
		out = append(out, e)
	}
	return out, rows.Err()
}

// WeekStartOf returns the Monday of the week containing the given date.
// Falls back to the input on parse failure.
func WeekStartOf(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset).Format("2006-01-02")
}

type ExerciseWeek struct {
	WeekStart      string `json:"week_start"`
	TotalMin       int    `json:"total_min"`
	CardioMin      int    `json:"cardio_min"`
	StrengthMin    int    `json:"strength_min"`
	FlexibilityMin int    `json:"flexibility_min"`
	ModerateMin    int    `json:"moderate_min"`
	VigorousMin    int    `json:"vigorous_min"`
	SessionCount   int    `json:"session_count"`
	ExerciseScore  int    `json:"exercise_score"`
}

// RecomputeExerciseWeek rebuilds the weekly rollup. The score measures
// progress toward the aerobic guideline (vigorous minutes count double,
// 150-minute target) plus a strength bonus.
func (db *DB) RecomputeExerciseWeek(userID int64, weekStart string) error {
	weekEnd := weekStart
	if d, err := time.Parse("2006-01-02", weekStart); err == nil {
		weekEnd = d.AddDate(0, 0, 6).Format("2006-01-02")
	}
	var w ExerciseWeek
	err := db.QueryRow(`
		SELECT COALESCE(SUM(duration_min), 0),
		       COALESCE(SUM(CASE WHEN category = 'cardio' THEN duration_min ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN category = 'strength' THEN duration_min ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN category = 'flexibility' THEN duration_min ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN intensity = 'moderate' THEN duration_min ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN intensity = 'vigorous' THEN duration_min ELSE 0 END), 0),
		       COUNT(*)
		FROM exercise_logs
		WHERE user_id = ? AND exercise_date >= ? AND exercise_date <= ?`,
		userID, weekStart, weekEnd).Scan(
		&w.TotalMin, &w.CardioMin, &w.StrengthMin, &w.FlexibilityMin,
		&w.ModerateMin, &w.VigorousMin, &w.SessionCount)
	if err != nil {
		return err
	}
	if w.SessionCount == 0 {
		_, err := db.Exec(`DELETE FROM exercise_weekly_summary WHERE user_id = ? AND week_start = ?`,
			userID, weekStart)
		return err
	}
	aerobicEquivalent := w.ModerateMin + 2*w.VigorousMin
	score := aerobicEquivalent * 85 / 150
	if score > 85 {
		score = 85
	}
	if w.StrengthMin >= 40 {
		score += 15
	} else {
		score += w.StrengthMin * 15 / 40
	}
	if score > 100 {
		score = 100
	}
	_, err = db.Exec(`
		INSERT INTO exercise_weekly_summary
			(user_id, week_start, total_min, cardio_min, strength_min, flexibility_min,
			 moderate_min, vigorous_min, session_count, exercise_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, week_start) DO UPDATE SET
			total_min = excluded.total_min,
			cardio_min = excluded.cardio_min,
			strength_min = excluded.strength_min,
			flexibility_min = excluded.flexibility_min,
			moderate_min = excluded.moderate_min,
			vigorous_min = excluded.vigorous_min,
			session_count = excluded.session_count,
			exercise_score = excluded.exercise_score`,
		userID, weekStart, w.TotalMin, w.CardioMin, w.StrengthMin, w.FlexibilityMin,
		w.ModerateMin, w.VigorousMin, w.SessionCount, score)
	if err != nil {
		return fmt.Errorf("updating exercise summary: %w", err)
	}
	return nil
}

func (db *DB) ExerciseWeekSummary(userID int64, weekStart string) (*ExerciseWeek, error) {
	w := &ExerciseWeek{WeekStart: weekStart}
	err := db.QueryRow(`
		SELECT total_min, cardio_min, strength_min, flexibility_min, moderate_min,
		       vigorous_min, session_count, exercise_score
		FROM exercise_weekly_summary WHERE user_id = ? AND week_start = ?`,
		userID, weekStart).Scan(
		&w.TotalMin, &w.CardioMin, &w.StrengthMin, &w.FlexibilityMin,
		&w.ModerateMin, &w.VigorousMin, &w.SessionCount, &w.ExerciseScore)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// SaveExerciseProgram stores a generated training program as JSON.
func (db *DB) SaveExerciseProgram(userID int64, level, schedule, goal, programJSON string) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO exercise_programs (user_id, level, schedule, goal, program_json)
		VALUES (?, ?, ?, ?, ?)`, userID, level, schedule, goal, programJSON)
	if err != nil {
		return 0, fmt.Errorf("saving program: %w", err)
	}
	return res.LastInsertId()
}

func (db *DB) LatestExerciseProgram(userID int64) (string, error) {
	var programJSON string
	err := db.QueryRow(`
		SELECT program_json FROM exercise_programs WHERE user_id = ?
		ORDER BY id DESC LIMIT 1`, userID).Scan(&programJSON)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return programJSON, err
}

type WorkoutSet struct {
	ID             int64    `json:"id"`
	UserID         int64    `json:"user_id"`
	WorkoutDate    string   `json:"workout_date"`
	WeekNumber     *int     `json:"week_number,omitempty"`
	DayNumber      *int     `json:"day_number,omitempty"`
	SplitType      *string  `json:"split_type,omitempty"`
	ExerciseID     *string  `json:"exercise_id,omitempty"`
	ExerciseName   string   `json:"exercise_name"`
	SetNumber      int      `json:"set_number"`
	PrescribedReps *string  `json:"prescribed_reps,omitempty"`
	ActualReps     *int     `json:"actual_reps,omitempty"`
	WeightKg       *float64 `json:"weight_kg,omitempty"`
	RPE            *int     `json:"rpe,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

func (db *DB) LogWorkoutSet(s WorkoutSet) (int64, error) {
	if s.SetNumber <= 0 {
		s.SetNumber = 1
	}
	res, err := db.Exec(`
		INSERT INTO workout_sets
			(user_id, workout_date, week_number, day_number, split_type, exercise_id,
			 exercise_name, set_number, prescribed_reps, actual_reps, weight_kg, rpe, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.UserID, s.WorkoutDate, s.WeekNumber, s.DayNumber, s.SplitType, s.ExerciseID,
		s.ExerciseName, s.SetNumber, s.PrescribedReps, s.ActualReps, s.WeightKg, s.RPE, s.Notes)
	if err != nil {
		return 0, fmt.Errorf("logging set: %w", err)
	}
	return res.LastInsertId()
}

func (db *DB) WorkoutSetsForDate(userID int64, workoutDate string) ([]*WorkoutSet, error) {
	rows, err := db.Query(`
		SELECT id, user_id, workout_date, week_number, day_number, split_type, exercise_id,
		       exercise_name, set_number, prescribed_reps, actual_reps, weight_kg, rpe, notes
		FROM workout_sets WHERE user_id = ? AND workout_date = ?
		ORDER BY id`, userID, workoutDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*WorkoutSet
	for rows.Next() {
		s := &WorkoutSet{}
		var week, day, actualReps, rpe sql.NullInt64
		var split, exerciseID, prescribed, notes sql.NullString
		var weight sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.UserID, &s.WorkoutDate, &week, &day, &split,
			&exerciseID, &s.ExerciseName, &s.SetNumber, &prescribed, &actualReps,
			&weight, &rpe, &notes); err != nil {
			return nil, err
		}
		s.WeekNumber = nullIntPtr(week)
		s.DayNumber = nullIntPtr(day)
		s.SplitType = nullStrPtr(split)
		s.ExerciseID = nullStrPtr(exerciseID)
		s.PrescribedReps = nullStrPtr(prescribed)
		s.ActualReps = nullIntPtr(actualReps)
		s.WeightKg = nullFloatPtr(weight)
		s.RPE = nullIntPtr(rpe)
		s.Notes = nullStrPtr(notes)
		out = append(out, s)
	}
	return out, rows.Err()
}
