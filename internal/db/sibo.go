package db

import (
	"database/sql"
	"fmt"
)

type SiboSymptomLog struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	LogDate       string  `json:"log_date"`
	Bloating      *int    `json:"bloating,omitempty"`
	AbdominalPain *int    `json:"abdominal_pain,omitempty"`
	Gas           *int    `json:"gas,omitempty"`
	Diarrhea      *int    `json:"diarrhea,omitempty"`
	Constipation  *int    `json:"constipation,omitempty"`
	Nausea        *int    `json:"nausea,omitempty"`
	Fatigue       *int    `json:"fatigue,omitempty"`
	OverallScore  *int    `json:"overall_score,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// UpsertSiboSymptoms stores the day's 0-10 symptom severities, one row per
// day, and keeps the per-user counters current.
func (db *DB) UpsertSiboSymptoms(s SiboSymptomLog) error {
	_, err := db.Exec(`
		INSERT INTO sibo_symptom_logs
			(user_id, log_date, bloating, abdominal_pain, gas, diarrhea, constipation,
			 nausea, fatigue, overall_score, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, log_date) DO UPDATE SET
			bloating = excluded.bloating,
			abdominal_pain = excluded.abdominal_pain,
			gas = excluded.gas,
			diarrhea = excluded.diarrhea,
			constipation = excluded.constipation,
			nausea = excluded.nausea,
			fatigue = excluded.fatigue,
			overall_score = excluded.overall_score,
			notes = excluded.notes`,
		s.UserID, s.LogDate, s.Bloating, s.AbdominalPain, s.Gas, s.Diarrhea,
		s.Constipation, s.Nausea, s.Fatigue, s.OverallScore, s.Notes)
	if err != nil {
		return fmt.Errorf("saving symptom log: %w", err)
	}
	return db.refreshSiboState(s.UserID)
}

func (db *DB) SiboSymptomHistory(userID int64, limit int) ([]*SiboSymptomLog, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := db.Query(`
		SELECT id, user_id, log_date, bloating, abdominal_pain, gas, diarrhea,
		       constipation, nausea, fatigue, overall_score, notes
		FROM sibo_symptom_logs WHERE user_id = ?
		ORDER BY log_date DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*SiboSymptomLog
	for rows.Next() {
		s := &SiboSymptomLog{}
		var bloating, pain, gas, diarrhea, constipation, nausea, fatigue, overall sql.NullInt64
		var notes sql.NullString
		if err := rows.Scan(&s.ID, &s.UserID, &s.LogDate, &bloating, &pain, &gas,
			&diarrhea, &constipation, &nausea, &fatigue, &overall, &notes); err != nil {
			return nil, err
		}
		s.Bloating = nullIntPtr(bloating)
		s.AbdominalPain = nullIntPtr(pain)
		s.Gas = nullIntPtr(gas)
		s.Diarrhea = nullIntPtr(diarrhea)
		s.Constipation = nullIntPtr(constipation)
		s.Nausea = nullIntPtr(nausea)
		s.Fatigue = nullIntPtr(fatigue)
		s.OverallScore = nullIntPtr(overall)
		s.Notes = nullStrPtr(notes)
		out = append(out, s)
	}
	return out, rows.Err()
}

type SiboFoodLog struct {
	ID           int64    `json:"id"`
	UserID       int64    `json:"user_id"`
	LogDate      string   `json:"log_date"`
	MealType     *string  `json:"meal_type,omitempty"`
	FoodName     string   `json:"food_name"`
	FoodCategory *string  `json:"food_category,omitempty"`
	ServingSize  *float64 `json:"serving_size,omitempty"`
	ServingUnit  *string  `json:"serving_unit,omitempty"`
	FodmapRating *string  `json:"fodmap_rating,omitempty"`
	FodmapGroups *string  `json:"fodmap_groups,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
}

func (db *DB) LogSiboFood(f SiboFoodLog) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO sibo_food_logs
			(user_id, log_date, meal_type, food_name, food_category, serving_size,
			 serving_unit, fodmap_rating, fodmap_groups, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.UserID, f.LogDate, f.MealType, f.FoodName, f.FoodCategory, f.ServingSize,
		f.ServingUnit, f.FodmapRating, f.FodmapGroups, f.Notes)
	if err != nil {
		return 0, fmt.Errorf("logging food: %w", err)
	}
	if err := db.refreshSiboState(f.UserID); err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (db *DB) SiboFoodsForDate(userID int64, logDate string) ([]*SiboFoodLog, error) {
	rows, err := db.Query(`
		SELECT id, user_id, log_date, meal_type, food_name, food_category,
		       serving_size, serving_unit, fodmap_rating, fodmap_groups, notes
		FROM sibo_food_logs WHERE user_id = ? AND log_date = ? ORDER BY id`, userID, logDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*SiboFoodLog
	for rows.Next() {
		f := &SiboFoodLog{}
		var mealType, category, unit, rating, groups, notes sql.NullString
		var size sql.NullFloat64
		if err := rows.Scan(&f.ID, &f.UserID, &f.LogDate, &mealType, &f.FoodName,
			&category, &size, &unit, &rating, &groups, &notes); err != nil {
			return nil, err
		}
		f.MealType = nullStrPtr(mealType)
		f.FoodCategory = nullStrPtr(category)
		f.ServingUnit = nullStrPtr(unit)
		f.FodmapRating = nullStrPtr(rating)
		f.FodmapGroups = nullStrPtr(groups)
		f.Notes = nullStrPtr(notes)
		f.ServingSize = nullFloatPtr(size)
		out = append(out, f)
	}
	return out, rows.Err()
}

type FodmapPhase struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"user_id"`
	Phase        string  `json:"phase"`
	StartedDate  string  `json:"started_date"`
	EndedDate    *string `json:"ended_date,omitempty"`
	ReintroGroup *string `json:"reintro_group,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// StartFodmapPhase ends the active phase (if any) and opens the new one.
// Phase rows are append-only; history is never rewritten.
func (db *DB) StartFodmapPhase(userID int64, phase, startedDate, reintroGroup, notes string) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	_, err = tx.Exec(`
		UPDATE sibo_fodmap_phase SET ended_date = ?
		WHERE user_id = ? AND ended_date IS NULL`, startedDate, userID)
	if err != nil {
		return 0, err
	}
	res, err := tx.Exec(`
		INSERT INTO sibo_fodmap_phase (user_id, phase, started_date, reintro_group, notes)
		VALUES (?, ?, ?, ?, ?)`,
		userID, phase, startedDate, emptyToNil(reintroGroup), emptyToNil(notes))
	if err != nil {
		return 0, fmt.Errorf("starting phase: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`
		INSERT INTO sibo_user_state (user_id, current_phase, phase_start)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			current_phase = excluded.current_phase,
			phase_start = excluded.phase_start,
			updated_at = datetime('now')`, userID, phase, startedDate); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// ActiveFodmapPhase returns the open phase, or nil before any phase started.
func (db *DB) ActiveFodmapPhase(userID int64) (*FodmapPhase, error) {
	p, err := scanPhase(db.QueryRow(`
		SELECT id, user_id, phase, started_date, ended_date, reintro_group, notes
		FROM sibo_fodmap_phase WHERE user_id = ? AND ended_date IS NULL
		ORDER BY id DESC LIMIT 1`, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (db *DB) FodmapPhaseHistory(userID int64) ([]*FodmapPhase, error) {
	rows, err := db.Query(`
		SELECT id, user_id, phase, started_date, ended_date, reintro_group, notes
		FROM sibo_fodmap_phase WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*FodmapPhase
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPhase(row rowScanner) (*FodmapPhase, error) {
	p := &FodmapPhase{}
	var ended, group, notes sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &p.Phase, &p.StartedDate, &ended, &group, &notes)
	if err != nil {
		return nil, err
	}
	p.EndedDate = nullStrPtr(ended)
	p.ReintroGroup = nullStrPtr(group)
	p.Notes = nullStrPtr(notes)
	return p, nil
}

type ReintroChallenge struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	FodmapGroup   string  `json:"fodmap_group"`
	ChallengeFood string  `json:"challenge_food"`
	StartDate     string  `json:"start_date"`
	Day1Symptoms  *string `json:"day1_symptoms,omitempty"`
	Day2Symptoms  *string `json:"day2_symptoms,omitempty"`
	Day3Symptoms  *string `json:"day3_symptoms,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	Tolerance     *string `json:"tolerance,omitempty"`
	WashoutEnd    *string `json:"washout_end,omitempty"`
}

// StartReintroChallenge opens a 3-day reintroduction test of one FODMAP group.
func (db *DB) StartReintroChallenge(userID int64, fodmapGroup, challengeFood, startDate string) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO sibo_reintro_challenges (user_id, fodmap_group, challenge_food, start_date)
		VALUES (?, ?, ?, ?)`, userID, fodmapGroup, challengeFood, startDate)
	if err != nil {
		return 0, fmt.Errorf("starting challenge: %w", err)
	}
	return res.LastInsertId()
}

// RecordChallengeDay stores the symptom notes for day 1, 2, or 3.
func (db *DB) RecordChallengeDay(challengeID, userID int64, day int, symptoms string) error {
	var column string
	switch day {
	case 1:
		column = "day1_symptoms"
	case 2:
		column = "day2_symptoms"
	case 3:
		column = "day3_symptoms"
	default:
		return fmt.Errorf("challenge day must be 1-3, got %d", day)
	}
	res, err := db.Exec(`UPDATE sibo_reintro_challenges SET `+column+` = ? WHERE id = ? AND user_id = ?`,
		symptoms, challengeID, userID)
	if err != nil {
		return err
	}
	return checkGoalUpdated(res)
}

// FinishReintroChallenge closes the test with a tolerance verdict and the end
// of the washout window before the next group.
func (db *DB) FinishReintroChallenge(challengeID, userID int64, endDate, tolerance, washoutEnd string) error {
	res, err := db.Exec(`
		UPDATE sibo_reintro_challenges SET end_date = ?, tolerance = ?, washout_end = ?
		WHERE id = ? AND user_id = ?`, endDate, tolerance, washoutEnd, challengeID, userID)
	if err != nil {
		return err
	}
	return checkGoalUpdated(res)
}

func (db *DB) ReintroChallenges(userID int64) ([]*ReintroChallenge, error) {
	rows, err := db.Query(`
		SELECT id, user_id, fodmap_group, challenge_food, start_date,
		       day1_symptoms, day2_symptoms, day3_symptoms, end_date, tolerance, washout_end
		FROM sibo_reintro_challenges WHERE user_id = ? ORDER BY start_date`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*ReintroChallenge
	for rows.Next() {
		c := &ReintroChallenge{}
		var d1, d2, d3, endDate, tolerance, washout sql.NullString
		if err := rows.Scan(&c.ID, &c.UserID, &c.FodmapGroup, &c.ChallengeFood, &c.StartDate,
			&d1, &d2, &d3, &endDate, &tolerance, &washout); err != nil {
			return nil, err
		}
		c.Day1Symptoms = nullStrPtr(d1)
		c.Day2Symptoms = nullStrPtr(d2)
		c.Day3Symptoms = nullStrPtr(d3)
		c.EndDate = nullStrPtr(endDate)
		c.Tolerance = nullStrPtr(tolerance)
		c.WashoutEnd = nullStrPtr(washout)
		out = append(out, c)
	}
	return out, rows.Err()
}

type SiboState struct {
	CurrentPhase     *string `json:"current_phase,omitempty"`
	PhaseStart       *string `json:"phase_start,omitempty"`
	ActiveDiet       *string `json:"active_diet,omitempty"`
	TotalSymptomLogs int     `json:"total_symptom_logs"`
	TotalFoodLogs    int     `json:"total_food_logs"`
}

func (db *DB) GetSiboState(userID int64) (*SiboState, error) {
	s := &SiboState{}
	var phase, start, diet sql.NullString
	err := db.QueryRow(`
		SELECT current_phase, phase_start, active_diet, total_symptom_logs, total_food_logs
		FROM sibo_user_state WHERE user_id = ?`, userID).Scan(
		&phase, &start, &diet, &s.TotalSymptomLogs, &s.TotalFoodLogs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.CurrentPhase = nullStrPtr(phase)
	s.PhaseStart = nullStrPtr(start)
	s.ActiveDiet = nullStrPtr(diet)
	return s, nil
}

func (db *DB) SetActiveDiet(userID int64, diet string) error {
	_, err := db.Exec(`
		INSERT INTO sibo_user_state (user_id, active_diet) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET active_diet = excluded.active_diet,
			updated_at = datetime('now')`, userID, diet)
	return err
}

func (db *DB) refreshSiboState(userID int64) error {
	_, err := db.Exec(`
		INSERT INTO sibo_user_state (user_id, total_symptom_logs, total_food_logs)
		VALUES (?,
			(SELECT COUNT(*) FROM sibo_symptom_logs WHERE user_id = ?),
			(SELECT COUNT(*) FROM sibo_food_logs WHERE user_id = ?))
		ON CONFLICT(user_id) DO UPDATE SET
			total_symptom_logs = excluded.total_symptom_logs,
			total_food_logs = excluded.total_food_logs,
			updated_at = datetime('now')`, userID, userID, userID)
	return err
}
