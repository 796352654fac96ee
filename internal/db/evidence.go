package db

import (
	"database/sql"
	"fmt"
)

type Evidence struct {
	ID            int64   `json:"id"`
	PMID          *string `json:"pmid,omitempty"`
	DOI           *string `json:"doi,omitempty"`
	Title         string  `json:"title"`
	Authors       *string `json:"authors,omitempty"`
	Journal       *string `json:"journal,omitempty"`
	Year          *int    `json:"year,omitempty"`
	StudyType     *string `json:"study_type,omitempty"`
	EvidenceGrade *string `json:"evidence_grade,omitempty"`
	PillarID      *int    `json:"pillar_id,omitempty"`
	Summary       *string `json:"summary,omitempty"`
	KeyFinding    *string `json:"key_finding,omitempty"`
	EffectSize    *string `json:"effect_size,omitempty"`
	SampleSize    *int    `json:"sample_size,omitempty"`
	Population    *string `json:"population,omitempty"`
	Tags          *string `json:"tags,omitempty"`
	URL           *string `json:"url,omitempty"`
}

type AddEvidenceInput struct {
	PMID          string
	DOI           string
	Title         string
	Authors       string
	Journal       string
	Year          int
	StudyType     string
	EvidenceGrade string
	PillarID      *int64
	Summary       string
	KeyFinding    string
	EffectSize    string
	SampleSize    *int
	Population    string
	Tags          string
	URL           string
}

func (db *DB) AddEvidence(input AddEvidenceInput) (int64, error) {
	var year *int
	if input.Year > 0 {
		year = &input.Year
	}
	res, err := db.Exec(`
		INSERT INTO research_evidence
			(pmid, doi, title, authors, journal, year, study_type, evidence_grade,
			 pillar_id, summary, key_finding, effect_size, sample_size, population, tags, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		emptyToNil(input.PMID), emptyToNil(input.DOI), input.Title, emptyToNil(input.Authors),
		emptyToNil(input.Journal), year, emptyToNil(input.StudyType), emptyToNil(input.EvidenceGrade),
		input.PillarID, emptyToNil(input.Summary), emptyToNil(input.KeyFinding),
		emptyToNil(input.EffectSize), input.SampleSize, emptyToNil(input.Population),
		emptyToNil(input.Tags), emptyToNil(input.URL))
	if err != nil {
		return 0, fmt.Errorf("adding evidence: %w", err)
	}
	return res.LastInsertId()
}

func (db *DB) GetEvidence(id int64) (*Evidence, error) {
	return scanEvidence(db.QueryRow(`
		SELECT id, pmid, doi, title, authors, journal, year, study_type, evidence_grade,
		       pillar_id, summary, key_finding, effect_size, sample_size, population, tags, url
		FROM research_evidence WHERE id = ?`, id))
}

// SearchEvidence filters by pillar and/or a LIKE match against title and tags.
func (db *DB) SearchEvidence(pillarID int64, query string, limit int) ([]*Evidence, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, pmid, doi, title, authors, journal, year, study_type, evidence_grade,
		pillar_id, summary, key_finding, effect_size, sample_size, population, tags, url
		FROM research_evidence WHERE 1=1`
	args := []any{}
	if pillarID > 0 {
		q += ` AND pillar_id = ?`
		args = append(args, pillarID)
	}
	if query != "" {
		q += ` AND (title LIKE ? OR tags LIKE ? OR key_finding LIKE ?)`
		like := "%" + query + "%"
		args = append(args, like, like, like)
	}
	q += ` ORDER BY year DESC, id DESC LIMIT ?`
	args = append(args, limit)
	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Evidence
	for rows.Next() {
		e, err := scanEvidence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEvidence(row rowScanner) (*Evidence, error) {
	e := &Evidence{}
	var pmid, doi, authors, journal, studyType, grade sql.NullString
	var summary, finding, effect, population, tags, url sql.NullString
	var year, pillarID, sampleSize sql.NullInt64
	err := row.Scan(&e.ID, &pmid, &doi, &e.Title, &authors, &journal, &year,
		&studyType, &grade, &pillarID, &summary, &finding, &effect,
		&sampleSize, &population, &tags, &url)
	if err != nil {
		return nil, err
	}
	e.PMID = nullStrPtr(pmid)
	e.DOI = nullStrPtr(doi)
	e.Authors = nullStrPtr(authors)
	e.Journal = nullStrPtr(journal)
	e.StudyType = nullStrPtr(studyType)
	e.EvidenceGrade = nullStrPtr(grade)
	e.Summary = nullStrPtr(summary)
	e.KeyFinding = nullStrPtr(finding)
	e.EffectSize = nullStrPtr(effect)
	e.Population = nullStrPtr(population)
	e.Tags = nullStrPtr(tags)
	e.URL = nullStrPtr(url)
	e.Year = nullIntPtr(year)
	e.PillarID = nullIntPtr(pillarID)
	e.SampleSize = nullIntPtr(sampleSize)
	return e, nil
}

// LinkEvidence attaches a citation to a goal, habit, or protocol. The link is
// polymorphic; entity existence validation happens at the API boundary.
// Relinking the same triple is a no-op; an unknown evidence id fails on the FK.
func (db *DB) LinkEvidence(evidenceID int64, entityType string, entityID int64, note string) error {
	_, err := db.Exec(`
		INSERT INTO evidence_links (evidence_id, entity_type, entity_id, relevance_note)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(evidence_id, entity_type, entity_id) DO NOTHING`,
		evidenceID, entityType, entityID, emptyToNil(note))
	if err != nil {
		return fmt.Errorf("linking evidence: %w", err)
	}
	return nil
}

// LinkTargetExists reports whether the goal, habit, or protocol a link points
// at is a real row. evidence_links carries no FK to its targets, so callers
// check before linking.
func (db *DB) LinkTargetExists(entityType string, entityID int64) (bool, error) {
	var table string
	switch entityType {
	case "goal":
		table = "goals"
	case "habit":
		table = "habits"
	case "protocol":
		table = "protocols"
	default:
		return false, fmt.Errorf("unknown entity type %q", entityType)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE id = ?`, entityID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (db *DB) UnlinkEvidence(evidenceID int64, entityType string, entityID int64) error {
	_, err := db.Exec(`
		DELETE FROM evidence_links WHERE evidence_id = ? AND entity_type = ? AND entity_id = ?`,
		evidenceID, entityType, entityID)
	return err
}

// EvidenceForEntity returns the citations linked to one goal/habit/protocol.
func (db *DB) EvidenceForEntity(entityType string, entityID int64) ([]*Evidence, error) {
	rows, err := db.Query(`
		SELECT e.id, e.pmid, e.doi, e.title, e.authors, e.journal, e.year, e.study_type,
		       e.evidence_grade, e.pillar_id, e.summary, e.key_finding, e.effect_size,
		       e.sample_size, e.population, e.tags, e.url
		FROM evidence_links el
		JOIN research_evidence e ON e.id = el.evidence_id
		WHERE el.entity_type = ? AND el.entity_id = ?
		ORDER BY e.year DESC`, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Evidence
	for rows.Next() {
		e, err := scanEvidence(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
