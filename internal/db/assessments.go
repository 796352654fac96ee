package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Pillar struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	QuickTip    string `json:"quick_tip"`
	SortOrder   int    `json:"sort_order"`
}

func (db *DB) ListPillars() ([]*Pillar, error) {
	rows, err := db.Query(`
		SELECT id, name, display_name, description, icon, color, quick_tip, sort_order
		FROM pillars ORDER BY sort_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var pillars []*Pillar
	for rows.Next() {
		p := &Pillar{}
		if err := rows.Scan(&p.ID, &p.Name, &p.DisplayName, &p.Description,
			&p.Icon, &p.Color, &p.QuickTip, &p.SortOrder); err != nil {
			return nil, err
		}
		pillars = append(pillars, p)
	}
	return pillars, rows.Err()
}

type WheelAssessment struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	PillarID   int64     `json:"pillar_id"`
	Score      int       `json:"score"`
	Notes      *string   `json:"notes,omitempty"`
	SessionID  string    `json:"session_id"`
	AssessedAt time.Time `json:"assessed_at"`
}

type PillarScore struct {
	PillarID int64  `json:"pillar_id"`
	Score    int    `json:"score"`
	Notes    string `json:"notes,omitempty"`
}

// RecordWheelAssessment stores one score per pillar under a shared session id
// so a complete wheel can be recalled as a unit. Returns the session id.
func (db *DB) RecordWheelAssessment(userID int64, scores []PillarScore) (string, error) {
	sessionID := uuid.NewString()
	tx, err := db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()
	for _, s := range scores {
		var notes *string
		if s.Notes != "" {
			notes = &s.Notes
		}
		_, err := tx.Exec(`
			INSERT INTO wheel_assessments (user_id, pillar_id, score, notes, session_id)
			VALUES (?, ?, ?, ?, ?)`, userID, s.PillarID, s.Score, notes, sessionID)
		if err != nil {
			return "", fmt.Errorf("recording pillar %d score: %w", s.PillarID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return sessionID, nil
}

// LatestWheel returns the most recent score for each pillar, across sessions.
func (db *DB) LatestWheel(userID int64) ([]*WheelAssessment, error) {
	rows, err := db.Query(`
		SELECT id, user_id, pillar_id, score, notes, session_id, assessed_at
		FROM wheel_assessments
		WHERE user_id = ? AND id IN (
			SELECT MAX(id) FROM wheel_assessments WHERE user_id = ? GROUP BY pillar_id
		)
		ORDER BY pillar_id`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWheelRows(rows)
}

// WheelHistory returns all assessments for a user, newest session first.
func (db *DB) WheelHistory(userID int64, limit int) ([]*WheelAssessment, error) {
	if limit <= 0 {
		limit = 60
	}
	rows, err := db.Query(`
		SELECT id, user_id, pillar_id, score, notes, session_id, assessed_at
		FROM wheel_assessments WHERE user_id = ?
		ORDER BY assessed_at DESC, pillar_id
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWheelRows(rows)
}

func (db *DB) WheelSession(userID int64, sessionID string) ([]*WheelAssessment, error) {
	rows, err := db.Query(`
		SELECT id, user_id, pillar_id, score, notes, session_id, assessed_at
		FROM wheel_assessments WHERE user_id = ? AND session_id = ?
		ORDER BY pillar_id`, userID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWheelRows(rows)
}

func scanWheelRows(rows *sql.Rows) ([]*WheelAssessment, error) {
	var out []*WheelAssessment
	for rows.Next() {
		a := &WheelAssessment{}
		var notes sql.NullString
		if err := rows.Scan(&a.ID, &a.UserID, &a.PillarID, &a.Score, &notes,
			&a.SessionID, &a.AssessedAt); err != nil {
			return nil, err
		}
		if notes.Valid {
			a.Notes = &notes.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type StageRecord struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	PillarID   int64     `json:"pillar_id"`
	Stage      string    `json:"stage"`
	AssessedAt time.Time `json:"assessed_at"`
}

// SetStage appends a stage-of-change record for a pillar. History is kept so
// progression through the stages can be charted.
func (db *DB) SetStage(userID, pillarID int64, stage string) (*StageRecord, error) {
	res, err := db.Exec(`
		INSERT INTO stage_of_change (user_id, pillar_id, stage)
		VALUES (?, ?, ?)`, userID, pillarID, stage)
	if err != nil {
		return nil, fmt.Errorf("recording stage: %w", err)
	}
	id, _ := res.LastInsertId()
	return &StageRecord{ID: id, UserID: userID, PillarID: pillarID, Stage: stage, AssessedAt: time.Now()}, nil
}

// LatestStages returns the current stage per pillar.
func (db *DB) LatestStages(userID int64) (map[int64]string, error) {
	rows, err := db.Query(`
		SELECT pillar_id, stage FROM stage_of_change
		WHERE user_id = ? AND id IN (
			SELECT MAX(id) FROM stage_of_change WHERE user_id = ? GROUP BY pillar_id
		)`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stages := make(map[int64]string)
	for rows.Next() {
		var pillarID int64
		var stage string
		if err := rows.Scan(&pillarID, &stage); err != nil {
			return nil, err
		}
		stages[pillarID] = stage
	}
	return stages, rows.Err()
}

type CombAssessment struct {
	ID                      int64     `json:"id"`
	UserID                  int64     `json:"user_id"`
	PillarID                int64     `json:"pillar_id"`
	CapabilityPhysical      *int      `json:"capability_physical,omitempty"`
	CapabilityPsychological *int      `json:"capability_psychological,omitempty"`
	OpportunityPhysical     *int      `json:"opportunity_physical,omitempty"`
	OpportunitySocial       *int      `json:"opportunity_social,omitempty"`
	MotivationReflective    *int      `json:"motivation_reflective,omitempty"`
	MotivationAutomatic     *int      `json:"motivation_automatic,omitempty"`
	PrimaryBarrier          *string   `json:"primary_barrier,omitempty"`
	AssessedAt              time.Time `json:"assessed_at"`
}

func (db *DB) RecordCombAssessment(a CombAssessment) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO comb_assessments
			(user_id, pillar_id, capability_physical, capability_psychological,
			 opportunity_physical, opportunity_social, motivation_reflective,
			 motivation_automatic, primary_barrier)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.PillarID, a.CapabilityPhysical, a.CapabilityPsychological,
		a.OpportunityPhysical, a.OpportunitySocial, a.MotivationReflective,
		a.MotivationAutomatic, a.PrimaryBarrier)
	if err != nil {
		return 0, fmt.Errorf("recording COM-B assessment: %w", err)
	}
	return res.LastInsertId()
}

// LatestCombAssessment returns the newest COM-B record for a pillar, or nil.
func (db *DB) LatestCombAssessment(userID, pillarID int64) (*CombAssessment, error) {
	a := &CombAssessment{}
	var capPhy, capPsy, oppPhy, oppSoc, motRef, motAuto sql.NullInt64
	var barrier sql.NullString
	err := db.QueryRow(`
		SELECT id, user_id, pillar_id, capability_physical, capability_psychological,
		       opportunity_physical, opportunity_social, motivation_reflective,
		       motivation_automatic, primary_barrier, assessed_at
		FROM comb_assessments WHERE user_id = ? AND pillar_id = ?
		ORDER BY id DESC LIMIT 1`, userID, pillarID).Scan(
		&a.ID, &a.UserID, &a.PillarID, &capPhy, &capPsy, &oppPhy, &oppSoc,
		&motRef, &motAuto, &barrier, &a.AssessedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.CapabilityPhysical = nullIntPtr(capPhy)
	a.CapabilityPsychological = nullIntPtr(capPsy)
	a.OpportunityPhysical = nullIntPtr(oppPhy)
	a.OpportunitySocial = nullIntPtr(oppSoc)
	a.MotivationReflective = nullIntPtr(motRef)
	a.MotivationAutomatic = nullIntPtr(motAuto)
	if barrier.Valid {
		a.PrimaryBarrier = &barrier.String
	}
	return a, nil
}

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

type DietAssessment struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	AssessmentDate  string    `json:"assessment_date"`
	DietType        *string   `json:"diet_type,omitempty"`
	HEIScore        *float64  `json:"hei_score,omitempty"`
	ComponentScores *string   `json:"component_scores,omitempty"`
	Answers         *string   `json:"answers,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (db *DB) RecordDietAssessment(a DietAssessment) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO diet_assessments (user_id, assessment_date, diet_type, hei_score, component_scores, answers)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.UserID, a.AssessmentDate, a.DietType, a.HEIScore, a.ComponentScores, a.Answers)
	if err != nil {
		return 0, fmt.Errorf("recording diet assessment: %w", err)
	}
	return res.LastInsertId()
}

func (db *DB) DietAssessmentHistory(userID int64, limit int) ([]*DietAssessment, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT id, user_id, assessment_date, diet_type, hei_score, component_scores, answers, created_at
		FROM diet_assessments WHERE user_id = ?
		ORDER BY assessment_date DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*DietAssessment
	for rows.Next() {
		a := &DietAssessment{}
		var dietType, components, answers sql.NullString
		var hei sql.NullFloat64
		if err := rows.Scan(&a.ID, &a.UserID, &a.AssessmentDate, &dietType, &hei,
			&components, &answers, &a.CreatedAt); err != nil {
			return nil, err
		}
		if dietType.Valid {
			a.DietType = &dietType.String
		}
		if hei.Valid {
			a.HEIScore = &hei.Float64
		}
		if components.Valid {
			a.ComponentScores = &components.String
		}
		if answers.Valid {
			a.Answers = &answers.String
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type ChronotypeAssessment struct {
	UserID        int64   `json:"user_id"`
	MEQScore      int     `json:"meq_score"`
	Chronotype    string  `json:"chronotype"`
	IdealBedtime  *string `json:"ideal_bedtime,omitempty"`
	IdealWaketime *string `json:"ideal_waketime,omitempty"`
}

// UpsertChronotype keeps a single chronotype result per user; retaking the
// questionnaire replaces the previous one.
func (db *DB) UpsertChronotype(a ChronotypeAssessment) error {
	_, err := db.Exec(`
		INSERT INTO chronotype_assessments (user_id, meq_score, chronotype, ideal_bedtime, ideal_waketime)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			meq_score = excluded.meq_score,
			chronotype = excluded.chronotype,
			ideal_bedtime = excluded.ideal_bedtime,
			ideal_waketime = excluded.ideal_waketime,
			assessed_at = CURRENT_TIMESTAMP`,
		a.UserID, a.MEQScore, a.Chronotype, a.IdealBedtime, a.IdealWaketime)
	return err
}

func (db *DB) GetChronotype(userID int64) (*ChronotypeAssessment, error) {
	a := &ChronotypeAssessment{UserID: userID}
	var bedtime, waketime sql.NullString
	err := db.QueryRow(`
		SELECT meq_score, chronotype, ideal_bedtime, ideal_waketime
		FROM chronotype_assessments WHERE user_id = ?`, userID).Scan(
		&a.MEQScore, &a.Chronotype, &bedtime, &waketime)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if bedtime.Valid {
		a.IdealBedtime = &bedtime.String
	}
	if waketime.Valid {
		a.IdealWaketime = &waketime.String
	}
	return a, nil
}
