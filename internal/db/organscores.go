package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type OrganScoreDefinition struct {
	ID                 int64    `json:"id"`
	Code               string   `json:"code"`
	Name               string   `json:"name"`
	OrganSystem        string   `json:"organ_system"`
	Tier               string   `json:"tier"`
	FormulaKey         string   `json:"formula_key"`
	RequiredBiomarkers []string `json:"required_biomarkers"`
	RequiredClinical   []string `json:"required_clinical"`
	Interpretation     string   `json:"interpretation"`
	CitationPMID       *string  `json:"citation_pmid,omitempty"`
	CitationText       *string  `json:"citation_text,omitempty"`
	Description        *string  `json:"description,omitempty"`
	SortOrder          int      `json:"sort_order"`
}

func (db *DB) ListOrganScoreDefinitions() ([]*OrganScoreDefinition, error) {
	rows, err := db.Query(`
		SELECT id, code, name, organ_system, tier, formula_key, required_biomarkers,
		       required_clinical, interpretation, citation_pmid, citation_text, description, sort_order
		FROM organ_score_definitions ORDER BY sort_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*OrganScoreDefinition
	for rows.Next() {
		d := &OrganScoreDefinition{}
		var reqBio, reqClin string
		var pmid, citation, desc sql.NullString
		if err := rows.Scan(&d.ID, &d.Code, &d.Name, &d.OrganSystem, &d.Tier,
			&d.FormulaKey, &reqBio, &reqClin, &d.Interpretation,
			&pmid, &citation, &desc, &d.SortOrder); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(reqBio), &d.RequiredBiomarkers); err != nil {
			return nil, fmt.Errorf("parsing required biomarkers for %s: %w", d.Code, err)
		}
		if reqClin != "" {
			if err := json.Unmarshal([]byte(reqClin), &d.RequiredClinical); err != nil {
				return nil, fmt.Errorf("parsing required clinical fields for %s: %w", d.Code, err)
			}
		}
		d.CitationPMID = nullStrPtr(pmid)
		d.CitationText = nullStrPtr(citation)
		d.Description = nullStrPtr(desc)
		out = append(out, d)
	}
	return out, rows.Err()
}

type OrganScoreResult struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	OrganSystem   string    `json:"organ_system"`
	Value         *float64  `json:"value,omitempty"`
	Label         *string   `json:"label,omitempty"`
	Severity      *string   `json:"severity,omitempty"`
	InputSnapshot *string   `json:"input_snapshot,omitempty"`
	LabDate       string    `json:"lab_date"`
	ComputedAt    time.Time `json:"computed_at"`
}

// UpsertOrganScoreResult stores a computed score for a lab date; recomputing
// with corrected inputs replaces the stored row.
func (db *DB) UpsertOrganScoreResult(userID, scoreDefID int64, value float64, label, severity, inputSnapshot, labDate string) error {
	_, err := db.Exec(`
		INSERT INTO organ_score_results (user_id, score_def_id, value, label, severity, input_snapshot, lab_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, score_def_id, lab_date) DO UPDATE SET
			value = excluded.value,
			label = excluded.label,
			severity = excluded.severity,
			input_snapshot = excluded.input_snapshot,
			computed_at = datetime('now')`,
		userID, scoreDefID, value, label, severity, inputSnapshot, labDate)
	if err != nil {
		return fmt.Errorf("storing organ score: %w", err)
	}
	return nil
}

// LatestOrganScores returns the newest computed score per definition.
func (db *DB) LatestOrganScores(userID int64) ([]*OrganScoreResult, error) {
	rows, err := db.Query(`
		SELECT r.id, r.user_id, d.code, d.name, d.organ_system, r.value, r.label,
		       r.severity, r.input_snapshot, r.lab_date, r.computed_at
		FROM organ_score_results r
		JOIN organ_score_definitions d ON d.id = r.score_def_id
		WHERE r.user_id = ? AND r.id IN (
			SELECT MAX(id) FROM organ_score_results WHERE user_id = ? GROUP BY score_def_id
		)
		ORDER BY d.sort_order`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrganScores(rows)
}

// OrganScoreHistory returns all computations of one score, oldest first.
func (db *DB) OrganScoreHistory(userID int64, code string) ([]*OrganScoreResult, error) {
	rows, err := db.Query(`
		SELECT r.id, r.user_id, d.code, d.name, d.organ_system, r.value, r.label,
		       r.severity, r.input_snapshot, r.lab_date, r.computed_at
		FROM organ_score_results r
		JOIN organ_score_definitions d ON d.id = r.score_def_id
		WHERE r.user_id = ? AND d.code = ?
		ORDER BY r.lab_date`, userID, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOrganScores(rows)
}

func scanOrganScores(rows *sql.Rows) ([]*OrganScoreResult, error) {
	var out []*OrganScoreResult
	for rows.Next() {
		r := &OrganScoreResult{}
		var value sql.NullFloat64
		var label, severity, snapshot sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.Code, &r.Name, &r.OrganSystem,
			&value, &label, &severity, &snapshot, &r.LabDate, &r.ComputedAt); err != nil {
			return nil, err
		}
		r.Value = nullFloatPtr(value)
		r.Label = nullStrPtr(label)
		r.Severity = nullStrPtr(severity)
		r.InputSnapshot = nullStrPtr(snapshot)
		out = append(out, r)
	}
	return out, rows.Err()
}

// InterpretationRange is one band of an organ score's interpretation table.
type InterpretationRange struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Label    string   `json:"label"`
	Severity string   `json:"severity"`
}

// Interpret maps a computed value to its label and severity using the
// definition's stored range table.
func (d *OrganScoreDefinition) Interpret(value float64) (string, string, error) {
	var parsed struct {
		Ranges []InterpretationRange `json:"ranges"`
	}
	if err := json.Unmarshal([]byte(d.Interpretation), &parsed); err != nil {
		return "", "", fmt.Errorf("parsing interpretation for %s: %w", d.Code, err)
	}
	for _, r := range parsed.Ranges {
		if r.Min != nil && value < *r.Min {
			continue
		}
		if r.Max != nil && value >= *r.Max {
			continue
		}
		return r.Label, r.Severity, nil
	}
	return "Unclassified", "unknown", nil
}
