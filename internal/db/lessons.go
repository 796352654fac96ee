package db

import (
	"database/sql"
	"fmt"
)

type MicroLesson struct {
	ID           int64   `json:"id"`
	PillarID     int64   `json:"pillar_id"`
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	QuizQuestion *string `json:"quiz_question,omitempty"`
	QuizOptions  *string `json:"quiz_options,omitempty"`
	QuizAnswer   *int    `json:"quiz_answer,omitempty"`
	LessonType   string  `json:"lesson_type"`
	Difficulty   string  `json:"difficulty"`
}

func (db *DB) ListLessons(pillarID int64) ([]*MicroLesson, error) {
	q := `SELECT id, pillar_id, title, content, quiz_question, quiz_options, quiz_answer, lesson_type, difficulty
		FROM micro_lessons`
	var rows *sql.Rows
	var err error
	if pillarID > 0 {
		rows, err = db.Query(q+` WHERE pillar_id = ? ORDER BY id`, pillarID)
	} else {
		rows, err = db.Query(q + ` ORDER BY pillar_id, id`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*MicroLesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (db *DB) GetLesson(id int64) (*MicroLesson, error) {
	return scanLesson(db.QueryRow(`
		SELECT id, pillar_id, title, content, quiz_question, quiz_options, quiz_answer, lesson_type, difficulty
		FROM micro_lessons WHERE id = ?`, id))
}

func scanLesson(row rowScanner) (*MicroLesson, error) {
	l := &MicroLesson{}
	var question, options sql.NullString
	var answer sql.NullInt64
	err := row.Scan(&l.ID, &l.PillarID, &l.Title, &l.Content, &question, &options,
		&answer, &l.LessonType, &l.Difficulty)
	if err != nil {
		return nil, err
	}
	l.QuizQuestion = nullStrPtr(question)
	l.QuizOptions = nullStrPtr(options)
	l.QuizAnswer = nullIntPtr(answer)
	return l, nil
}

// CompleteLesson records a lesson completion with the quiz score; retakes
// keep the best score.
func (db *DB) CompleteLesson(userID, lessonID int64, quizScore int) error {
	_, err := db.Exec(`
		INSERT INTO user_lesson_progress (user_id, lesson_id, quiz_score)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, lesson_id) DO UPDATE SET
			quiz_score = MAX(user_lesson_progress.quiz_score, excluded.quiz_score),
			completed_at = datetime('now')`,
		userID, lessonID, quizScore)
	if err != nil {
		return fmt.Errorf("completing lesson: %w", err)
	}
	return nil
}

// CompletedLessonIDs returns the lesson ids the user has finished.
func (db *DB) CompletedLessonIDs(userID int64) (map[int64]bool, error) {
	rows, err := db.Query(`SELECT lesson_id FROM user_lesson_progress WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	done := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		done[id] = true
	}
	return done, rows.Err()
}

// LessonProgressByPillar returns completed/total lesson counts per pillar.
func (db *DB) LessonProgressByPillar(userID int64) (map[int64][2]int, error) {
	rows, err := db.Query(`
		SELECT ml.pillar_id,
		       COUNT(ulp.id) AS completed,
		       COUNT(*) AS total
		FROM micro_lessons ml
		LEFT JOIN user_lesson_progress ulp ON ulp.lesson_id = ml.id AND ulp.user_id = ?
		GROUP BY ml.pillar_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	progress := make(map[int64][2]int)
	for rows.Next() {
		var pillarID int64
		var completed, total int
		if err := rows.Scan(&pillarID, &completed, &total); err != nil {
			return nil, err
		}
		progress[pillarID] = [2]int{completed, total}
	}
	return progress, rows.Err()
}
