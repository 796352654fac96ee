package db

import (
	"database/sql"
	"fmt"
	"time"
)

type SleepLog struct {
	ID              int64    `json:"id"`
	UserID          int64    `json:"user_id"`
	SleepDate       string   `json:"sleep_date"`
	Bedtime         *string  `json:"bedtime,omitempty"`
	WakeTime        *string  `json:"wake_time,omitempty"`
	SleepLatencyMin int      `json:"sleep_latency_min"`
	Awakenings      int      `json:"awakenings"`
	WakeDurationMin int      `json:"wake_duration_min"`
	SleepQuality    *int     `json:"sleep_quality,omitempty"`
	NapsMin         int      `json:"naps_min"`
	CaffeineCutoff  *string  `json:"caffeine_cutoff,omitempty"`
	ScreenCutoff    *string  `json:"screen_cutoff,omitempty"`
	Alcohol         bool     `json:"alcohol"`
	ExerciseToday   bool     `json:"exercise_today"`
	Notes           *string  `json:"notes,omitempty"`
	TotalSleepMin   *int     `json:"total_sleep_min,omitempty"`
	SleepEfficiency *float64 `json:"sleep_efficiency,omitempty"`
	SleepScore      *int     `json:"sleep_score,omitempty"`
}

// UpsertSleepLog stores the night's diary entry, deriving total sleep,
// efficiency, and a 0-100 score from bedtime, wake time, latency, and
// awakenings. One row per night.
func (db *DB) UpsertSleepLog(s SleepLog) (*SleepLog, error) {
	if s.Bedtime != nil && s.WakeTime != nil {
		timeInBed := minutesBetween(*s.Bedtime, *s.WakeTime)
		if timeInBed > 0 {
			asleep := timeInBed - s.SleepLatencyMin - s.WakeDurationMin
			if asleep < 0 {
				asleep = 0
			}
			s.TotalSleepMin = &asleep
			eff := 100 * float64(asleep) / float64(timeInBed)
			if eff > 100 {
				eff = 100
			}
			s.SleepEfficiency = &eff
			score := sleepScore(asleep, eff, s.SleepLatencyMin, s.Awakenings, s.SleepQuality)
			s.SleepScore = &score
		}
	}
	_, err := db.Exec(`
		INSERT INTO sleep_logs
			(user_id, sleep_date, bedtime, wake_time, sleep_latency_min, awakenings,
			 wake_duration_min, sleep_quality, naps_min, caffeine_cutoff, screen_cutoff,
			 alcohol, exercise_today, notes, total_sleep_min, sleep_efficiency, sleep_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, sleep_date) DO UPDATE SET
			bedtime = excluded.bedtime,
			wake_time = excluded.wake_time,
			sleep_latency_min = excluded.sleep_latency_min,
			awakenings = excluded.awakenings,
			wake_duration_min = excluded.wake_duration_min,
			sleep_quality = excluded.sleep_quality,
			naps_min = excluded.naps_min,
			caffeine_cutoff = excluded.caffeine_cutoff,
			screen_cutoff = excluded.screen_cutoff,
			alcohol = excluded.alcohol,
			exercise_today = excluded.exercise_today,
			notes = excluded.notes,
			total_sleep_min = excluded.total_sleep_min,
			sleep_efficiency = excluded.sleep_efficiency,
			sleep_score = excluded.sleep_score`,
		s.UserID, s.SleepDate, s.Bedtime, s.WakeTime, s.SleepLatencyMin, s.Awakenings,
		s.WakeDurationMin, s.SleepQuality, s.NapsMin, s.CaffeineCutoff, s.ScreenCutoff,
		boolToInt(s.Alcohol), boolToInt(s.ExerciseToday), s.Notes,
		s.TotalSleepMin, s.SleepEfficiency, s.SleepScore)
	if err != nil {
		return nil, fmt.Errorf("saving sleep log: %w", err)
	}
	return &s, nil
}

// minutesBetween computes minutes from an HH:MM bedtime to an HH:MM wake
// time, crossing midnight when the wake time is earlier in the clock day.
func minutesBetween(bedtime, wakeTime string) int {
	bed, err1 := time.Parse("15:04", bedtime)
	wake, err2 := time.Parse("15:04", wakeTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	minutes := int(wake.Sub(bed).Minutes())
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return minutes
}

// sleepScore grades a night 0-100: duration toward the 7-9h band, efficiency
// toward 85%+, with deductions for slow onset and fragmentation. Subjective
// quality nudges the result when provided.
func sleepScore(totalMin int, efficiency float64, latencyMin, awakenings int, quality *int) int {
	durationScore := 0.0
	switch {
	case totalMin >= 420 && totalMin <= 540:
		durationScore = 40
	case totalMin >= 360:
		durationScore = 30
	case totalMin >= 300:
		durationScore = 18
	default:
		durationScore = float64(totalMin) / 300 * 18
	}
	effScore := efficiency / 100 * 30
	if efficiency >= 85 {
		effScore = 30
	}
	latencyScore := 15.0
	if latencyMin > 30 {
		latencyScore = 5
	} else if latencyMin > 20 {
		latencyScore = 10
	}
	fragScore := 15.0 - 3*float64(awakenings)
	if fragScore < 0 {
		fragScore = 0
	}
	score := durationScore + effScore + latencyScore + fragScore
	if quality != nil {
		score = score*0.85 + float64(*quality)/5*100*0.15
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return int(score + 0.5)
}

func (db *DB) GetSleepLog(userID int64, sleepDate string) (*SleepLog, error) {
	s, err := scanSleepLog(db.QueryRow(sleepSelect+` WHERE user_id = ? AND sleep_date = ?`,
		userID, sleepDate))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (db *DB) SleepHistory(userID int64, limit int) ([]*SleepLog, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := db.Query(sleepSelect+` WHERE user_id = ? ORDER BY sleep_date DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*SleepLog
	for rows.Next() {
		s, err := scanSleepLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const sleepSelect = `SELECT id, user_id, sleep_date, bedtime, wake_time, sleep_latency_min,
	awakenings, wake_duration_min, sleep_quality, naps_min, caffeine_cutoff, screen_cutoff,
	alcohol, exercise_today, notes, total_sleep_min, sleep_efficiency, sleep_score
	FROM sleep_logs`

func scanSleepLog(row rowScanner) (*SleepLog, error) {
	s := &SleepLog{}
	var bedtime, wakeTime, caffeine, screen, notes sql.NullString
	var quality, totalMin, score sql.NullInt64
	var efficiency sql.NullFloat64
	var alcohol, exercise int
	err := row.Scan(&s.ID, &s.UserID, &s.SleepDate, &bedtime, &wakeTime, &s.SleepLatencyMin,
		&s.Awakenings, &s.WakeDurationMin, &quality, &s.NapsMin, &caffeine, &screen,
		&alcohol, &exercise, &notes, &totalMin, &efficiency, &score)
	if err != nil {
		return nil, err
	}
	s.Bedtime = nullStrPtr(bedtime)
	s.WakeTime = nullStrPtr(wakeTime)
	s.CaffeineCutoff = nullStrPtr(caffeine)
	s.ScreenCutoff = nullStrPtr(screen)
	s.Notes = nullStrPtr(notes)
	s.SleepQuality = nullIntPtr(quality)
	s.TotalSleepMin = nullIntPtr(totalMin)
	s.SleepScore = nullIntPtr(score)
	s.SleepEfficiency = nullFloatPtr(efficiency)
	s.Alcohol = alcohol == 1
	s.ExerciseToday = exercise == 1
	return s, nil
}

// AvgSleep returns mean total sleep minutes and score over the last n nights.
func (db *DB) AvgSleep(userID int64, nights int) (float64, float64, error) {
	if nights <= 0 {
		nights = 7
	}
	var avgMin, avgScore sql.NullFloat64
	err := db.QueryRow(`
		SELECT AVG(total_sleep_min), AVG(sleep_score) FROM (
			SELECT total_sleep_min, sleep_score FROM sleep_logs
			WHERE user_id = ? AND total_sleep_min IS NOT NULL
			ORDER BY sleep_date DESC LIMIT ?
		)`, userID, nights).Scan(&avgMin, &avgScore)
	if err != nil {
		return 0, 0, err
	}
	return avgMin.Float64, avgScore.Float64, nil
}
