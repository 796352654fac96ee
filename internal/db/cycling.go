package db

import (
	"database/sql"
	"fmt"
)

type CyclingProfile struct {
	UserID        int64    `json:"user_id"`
	FTPWatts      *int     `json:"ftp_watts,omitempty"`
	WeightKg      *float64 `json:"weight_kg,omitempty"`
	AthleteType   *string  `json:"athlete_type,omitempty"`
	GoalEvent     *string  `json:"goal_event,omitempty"`
	GoalDate      *string  `json:"goal_date,omitempty"`
	FTPTestedDate *string  `json:"ftp_tested_date,omitempty"`
}

func (db *DB) UpsertCyclingProfile(p CyclingProfile) error {
	_, err := db.Exec(`
		INSERT INTO cycling_profile (user_id, ftp_watts, weight_kg, athlete_type, goal_event, goal_date, ftp_tested_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			ftp_watts = excluded.ftp_watts,
			weight_kg = excluded.weight_kg,
			athlete_type = excluded.athlete_type,
			goal_event = excluded.goal_event,
			goal_date = excluded.goal_date,
			ftp_tested_date = excluded.ftp_tested_date,
			updated_at = datetime('now')`,
		p.UserID, p.FTPWatts, p.WeightKg, p.AthleteType, p.GoalEvent, p.GoalDate, p.FTPTestedDate)
	return err
}

func (db *DB) GetCyclingProfile(userID int64) (*CyclingProfile, error) {
	p := &CyclingProfile{UserID: userID}
	var ftp sql.NullInt64
	var weight sql.NullFloat64
	var athleteType, goalEvent, goalDate, testedDate sql.NullString
	err := db.QueryRow(`
		SELECT ftp_watts, weight_kg, athlete_type, goal_event, goal_date, ftp_tested_date
		FROM cycling_profile WHERE user_id = ?`, userID).Scan(
		&ftp, &weight, &athleteType, &goalEvent, &goalDate, &testedDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.FTPWatts = nullIntPtr(ftp)
	p.WeightKg = nullFloatPtr(weight)
	p.AthleteType = nullStrPtr(athleteType)
	p.GoalEvent = nullStrPtr(goalEvent)
	p.GoalDate = nullStrPtr(goalDate)
	p.FTPTestedDate = nullStrPtr(testedDate)
	return p, nil
}

type CyclingRide struct {
	ID               int64    `json:"id"`
	UserID           int64    `json:"user_id"`
	RideDate         string   `json:"ride_date"`
	DurationMin      int      `json:"duration_min"`
	AvgPower         *int     `json:"avg_power,omitempty"`
	NormalizedPower  *int     `json:"normalized_power,omitempty"`
	IFScore          *float64 `json:"if_score,omitempty"`
	TSS              *float64 `json:"tss,omitempty"`
	ElevationM       *int     `json:"elevation_m,omitempty"`
	DifficultySurvey *int     `json:"difficulty_survey,omitempty"`
	WorkoutID        *string  `json:"workout_id,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
	Source           string   `json:"source"`
}

// LogRide stores a ride, deriving intensity factor and training stress score
// from normalized power and the rider's FTP when available.
func (db *DB) LogRide(r CyclingRide) (int64, error) {
	if r.Source == "" {
		r.Source = "manual"
	}
	if r.NormalizedPower != nil && r.IFScore == nil {
		if profile, err := db.GetCyclingProfile(r.UserID); err == nil && profile != nil && profile.FTPWatts != nil && *profile.FTPWatts > 0 {
			intensity := float64(*r.NormalizedPower) / float64(*profile.FTPWatts)
			r.IFScore = &intensity
			tss := float64(r.DurationMin) / 60 * intensity * intensity * 100
			r.TSS = &tss
		}
	}
	res, err := db.Exec(`
		INSERT INTO cycling_ride_logs
			(user_id, ride_date, duration_min, avg_power, normalized_power, if_score,
			 tss, elevation_m, difficulty_survey, workout_id, notes, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.UserID, r.RideDate, r.DurationMin, r.AvgPower, r.NormalizedPower, r.IFScore,
		r.TSS, r.ElevationM, r.DifficultySurvey, r.WorkoutID, r.Notes, r.Source)
	if err != nil {
		return 0, fmt.Errorf("logging ride: %w", err)
	}
	return res.LastInsertId()
}

func (db *DB) RideHistory(userID int64, limit int) ([]*CyclingRide, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := db.Query(`
		SELECT id, user_id, ride_date, duration_min, avg_power, normalized_power, if_score,
		       tss, elevation_m, difficulty_survey, workout_id, notes, source
		FROM cycling_ride_logs WHERE user_id = ?
		ORDER BY ride_date DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*CyclingRide
	for rows.Next() {
		r := &CyclingRide{}
		var avgPower, np, elevation, difficulty sql.NullInt64
		var ifScore, tss sql.NullFloat64
		var workoutID, notes sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.RideDate, &r.DurationMin, &avgPower, &np,
			&ifScore, &tss, &elevation, &difficulty, &workoutID, &notes, &r.Source); err != nil {
			return nil, err
		}
		r.AvgPower = nullIntPtr(avgPower)
		r.NormalizedPower = nullIntPtr(np)
		r.IFScore = nullFloatPtr(ifScore)
		r.TSS = nullFloatPtr(tss)
		r.ElevationM = nullIntPtr(elevation)
		r.DifficultySurvey = nullIntPtr(difficulty)
		r.WorkoutID = nullStrPtr(workoutID)
		r.Notes = nullStrPtr(notes)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ProgressionLevels track per-zone workout difficulty from 1.0 to 10.0,
// adjusted after each completed workout by how hard it felt.
type ProgressionLevels struct {
	Endurance float64 `json:"endurance"`
	Tempo     float64 `json:"tempo"`
	SweetSpot float64 `json:"sweet_spot"`
	Threshold float64 `json:"threshold"`
	VO2Max    float64 `json:"vo2max"`
	Anaerobic float64 `json:"anaerobic"`
}

func (db *DB) GetProgressionLevels(userID int64) (*ProgressionLevels, error) {
	p := &ProgressionLevels{}
	err := db.QueryRow(`
		SELECT endurance, tempo, sweet_spot, threshold, vo2max, anaerobic
		FROM cycling_progression_levels WHERE user_id = ?`, userID).Scan(
		&p.Endurance, &p.Tempo, &p.SweetSpot, &p.Threshold, &p.VO2Max, &p.Anaerobic)
	if err == sql.ErrNoRows {
		if _, err := db.Exec(`INSERT INTO cycling_progression_levels (user_id) VALUES (?)`, userID); err != nil {
			return nil, err
		}
		return &ProgressionLevels{Endurance: 1, Tempo: 1, SweetSpot: 1, Threshold: 1, VO2Max: 1, Anaerobic: 1}, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AdjustProgression moves one zone's level after a workout: up when rated
// easy, slightly up when on target, down when too hard. Clamped to [1, 10].
func (db *DB) AdjustProgression(userID int64, zone string, difficultySurvey int) (float64, error) {
	column, ok := progressionColumns[zone]
	if !ok {
		return 0, fmt.Errorf("unknown training zone %q", zone)
	}
	levels, err := db.GetProgressionLevels(userID)
	if err != nil {
		return 0, err
	}
	current := map[string]float64{
		"endurance": levels.Endurance, "tempo": levels.Tempo, "sweet_spot": levels.SweetSpot,
		"threshold": levels.Threshold, "vo2max": levels.VO2Max, "anaerobic": levels.Anaerobic,
	}[zone]
	var delta float64
	switch {
	case difficultySurvey <= 3:
		delta = 0.5
	case difficultySurvey <= 6:
		delta = 0.25
	case difficultySurvey <= 8:
		delta = 0
	default:
		delta = -0.5
	}
	next := current + delta
	if next < 1 {
		next = 1
	}
	if next > 10 {
		next = 10
	}
	_, err = db.Exec(`UPDATE cycling_progression_levels SET `+column+` = ?, updated_at = datetime('now') WHERE user_id = ?`,
		next, userID)
	if err != nil {
		return 0, err
	}
	return next, nil
}

// progressionColumns whitelists zone names against their columns; zone input
// never reaches SQL directly.
var progressionColumns = map[string]string{
	"endurance":  "endurance",
	"tempo":      "tempo",
	"sweet_spot": "sweet_spot",
	"threshold":  "threshold",
	"vo2max":     "vo2max",
	"anaerobic":  "anaerobic",
}

// SaveCyclingPlan stores a training plan and deactivates previous ones.
func (db *DB) SaveCyclingPlan(userID int64, phase, startDate string, weeks, daysPerWeek int, tssPerWeek float64, programJSON string) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`UPDATE cycling_plan SET active = 0 WHERE user_id = ?`, userID); err != nil {
		return 0, err
	}
	res, err := tx.Exec(`
		INSERT INTO cycling_plan (user_id, phase, start_date, weeks, days_per_week, tss_per_week, program_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, phase, startDate, weeks, daysPerWeek, tssPerWeek, programJSON)
	if err != nil {
		return 0, fmt.Errorf("saving plan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

func (db *DB) ActiveCyclingPlan(userID int64) (string, error) {
	var programJSON string
	err := db.QueryRow(`
		SELECT program_json FROM cycling_plan WHERE user_id = ? AND active = 1
		ORDER BY id DESC LIMIT 1`, userID).Scan(&programJSON)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return programJSON, err
}
