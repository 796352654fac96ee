package db

import (
	"database/sql"
	"fmt"
	"time"
)

type BiomarkerDefinition struct {
	ID           int64    `json:"id"`
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Unit         string   `json:"unit"`
	StandardLow  *float64 `json:"standard_low,omitempty"`
	StandardHigh *float64 `json:"standard_high,omitempty"`
	OptimalLow   *float64 `json:"optimal_low,omitempty"`
	OptimalHigh  *float64 `json:"optimal_high,omitempty"`
	CriticalLow  *float64 `json:"critical_low,omitempty"`
	CriticalHigh *float64 `json:"critical_high,omitempty"`
	Description  *string  `json:"description,omitempty"`
	ClinicalNote *string  `json:"clinical_note,omitempty"`
	PillarID     *int     `json:"pillar_id,omitempty"`
	SortOrder    int      `json:"sort_order"`
}

func (db *DB) ListBiomarkerDefinitions() ([]*BiomarkerDefinition, error) {
	rows, err := db.Query(`
		SELECT id, code, name, category, unit, standard_low, standard_high,
		       optimal_low, optimal_high, critical_low, critical_high,
		       description, clinical_note, pillar_id, sort_order
		FROM biomarker_definitions ORDER BY sort_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*BiomarkerDefinition
	for rows.Next() {
		d, err := scanBiomarkerDef(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (db *DB) GetBiomarkerDefinition(code string) (*BiomarkerDefinition, error) {
	return scanBiomarkerDef(db.QueryRow(`
		SELECT id, code, name, category, unit, standard_low, standard_high,
		       optimal_low, optimal_high, critical_low, critical_high,
		       description, clinical_note, pillar_id, sort_order
		FROM biomarker_definitions WHERE code = ?`, code))
}

func scanBiomarkerDef(row rowScanner) (*BiomarkerDefinition, error) {
	d := &BiomarkerDefinition{}
	var stdLow, stdHigh, optLow, optHigh, critLow, critHigh sql.NullFloat64
	var desc, note sql.NullString
	var pillarID sql.NullInt64
	err := row.Scan(&d.ID, &d.Code, &d.Name, &d.Category, &d.Unit,
		&stdLow, &stdHigh, &optLow, &optHigh, &critLow, &critHigh,
		&desc, &note, &pillarID, &d.SortOrder)
	if err != nil {
		return nil, err
	}
	d.StandardLow = nullFloatPtr(stdLow)
	d.StandardHigh = nullFloatPtr(stdHigh)
	d.OptimalLow = nullFloatPtr(optLow)
	d.OptimalHigh = nullFloatPtr(optHigh)
	d.CriticalLow = nullFloatPtr(critLow)
	d.CriticalHigh = nullFloatPtr(critHigh)
	d.Description = nullStrPtr(desc)
	d.ClinicalNote = nullStrPtr(note)
	d.PillarID = nullIntPtr(pillarID)
	return d, nil
}

func nullFloatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	return &f.Float64
}

type BiomarkerResult struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	BiomarkerID int64     `json:"biomarker_id"`
	Code        string    `json:"code,omitempty"`
	Value       float64   `json:"value"`
	LabDate     string    `json:"lab_date"`
	LabName     *string   `json:"lab_name,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordBiomarkerResult stores a lab value; re-entering the same marker for
// the same draw date corrects the earlier value.
func (db *DB) RecordBiomarkerResult(userID int64, code string, value float64, labDate, labName, notes string) error {
	def, err := db.GetBiomarkerDefinition(code)
	if err == sql.ErrNoRows {
		return fmt.Errorf("unknown biomarker code %q", code)
	}
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO biomarker_results (user_id, biomarker_id, value, lab_date, lab_name, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, biomarker_id, lab_date) DO UPDATE SET
			value = excluded.value,
			lab_name = excluded.lab_name,
			notes = excluded.notes`,
		userID, def.ID, value, labDate, emptyToNil(labName), emptyToNil(notes))
	if err != nil {
		return fmt.Errorf("recording biomarker result: %w", err)
	}
	return nil
}

// BiomarkerHistory returns results for one marker, oldest first.
func (db *DB) BiomarkerHistory(userID int64, code string) ([]*BiomarkerResult, error) {
	rows, err := db.Query(`
		SELECT r.id, r.user_id, r.biomarker_id, d.code, r.value, r.lab_date, r.lab_name, r.notes, r.created_at
		FROM biomarker_results r
		JOIN biomarker_definitions d ON d.id = r.biomarker_id
		WHERE r.user_id = ? AND d.code = ?
		ORDER BY r.lab_date`, userID, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBiomarkerResults(rows)
}

// LatestBiomarkers returns the newest value per marker as a code-keyed map.
func (db *DB) LatestBiomarkers(userID int64) (map[string]float64, error) {
	rows, err := db.Query(`
		SELECT d.code, r.value
		FROM biomarker_results r
		JOIN biomarker_definitions d ON d.id = r.biomarker_id
		WHERE r.user_id = ? AND r.id IN (
			SELECT MAX(id) FROM biomarker_results WHERE user_id = ? GROUP BY biomarker_id
		)`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	latest := make(map[string]float64)
	for rows.Next() {
		var code string
		var value float64
		if err := rows.Scan(&code, &value); err != nil {
			return nil, err
		}
		latest[code] = value
	}
	return latest, rows.Err()
}

// ResultsForDate returns all values drawn on one lab date, code-keyed.
func (db *DB) ResultsForDate(userID int64, labDate string) (map[string]float64, error) {
	rows, err := db.Query(`
		SELECT d.code, r.value
		FROM biomarker_results r
		JOIN biomarker_definitions d ON d.id = r.biomarker_id
		WHERE r.user_id = ? AND r.lab_date = ?`, userID, labDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	values := make(map[string]float64)
	for rows.Next() {
		var code string
		var value float64
		if err := rows.Scan(&code, &value); err != nil {
			return nil, err
		}
		values[code] = value
	}
	return values, rows.Err()
}

func scanBiomarkerResults(rows *sql.Rows) ([]*BiomarkerResult, error) {
	var out []*BiomarkerResult
	for rows.Next() {
		r := &BiomarkerResult{}
		var labName, notes sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.BiomarkerID, &r.Code, &r.Value,
			&r.LabDate, &labName, &notes, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.LabName = nullStrPtr(labName)
		r.Notes = nullStrPtr(notes)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Classify places a value in the definition's bands: critical, standard,
// optimal, or out_of_range.
func (d *BiomarkerDefinition) Classify(value float64) string {
	if (d.CriticalLow != nil && value < *d.CriticalLow) ||
		(d.CriticalHigh != nil && value > *d.CriticalHigh) {
		return "critical"
	}
	inOptimal := (d.OptimalLow == nil || value >= *d.OptimalLow) &&
		(d.OptimalHigh == nil || value <= *d.OptimalHigh)
	if inOptimal && (d.OptimalLow != nil || d.OptimalHigh != nil) {
		return "optimal"
	}
	inStandard := (d.StandardLow == nil || value >= *d.StandardLow) &&
		(d.StandardHigh == nil || value <= *d.StandardHigh)
	if inStandard && (d.StandardLow != nil || d.StandardHigh != nil) {
		return "standard"
	}
	return "out_of_range"
}
