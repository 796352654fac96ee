// Package export produces a complete snapshot of one user's wellness data,
// as JSON for backup or as CSV for spreadsheet analysis.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hazyhaar/lifewheel/internal/db"
)

// Snapshot bundles every table a user owns into one document.
type Snapshot struct {
	ExportedAt string `json:"exported_at"`
	Version    string `json:"export_version"`

	User            *db.User                 `json:"user"`
	ClinicalProfile *db.ClinicalProfile      `json:"clinical_profile,omitempty"`
	WheelHistory    []*db.WheelAssessment    `json:"wheel_history,omitempty"`
	Stages          map[int64]string         `json:"stages,omitempty"`
	Chronotype      *db.ChronotypeAssessment `json:"chronotype,omitempty"`
	DietAssessments []*db.DietAssessment     `json:"diet_assessments,omitempty"`
	Goals           []*db.Goal               `json:"goals,omitempty"`
	Habits          []*db.Habit              `json:"habits,omitempty"`
	Checkins        []*db.DailyCheckin       `json:"checkins,omitempty"`
	CoachingHistory []*db.CoachingMessage    `json:"coaching_history,omitempty"`
	CoinHistory     []*db.CoinTransaction    `json:"coin_history,omitempty"`
	Biomarkers      map[string]float64       `json:"biomarkers_latest,omitempty"`
	OrganScores     []*db.OrganScoreResult   `json:"organ_scores_latest,omitempty"`
	SleepHistory    []*db.SleepLog           `json:"sleep_history,omitempty"`
	FastingHistory  []*db.FastingSession     `json:"fasting_history,omitempty"`
	BodyMetrics     []*db.BodyMetrics        `json:"body_metrics,omitempty"`
	DexaScans       []*db.DexaScan           `json:"dexa_scans,omitempty"`
	Rides           []*db.CyclingRide        `json:"cycling_rides,omitempty"`
	SiboSymptoms    []*db.SiboSymptomLog     `json:"sibo_symptoms,omitempty"`
	FodmapPhases    []*db.FodmapPhase        `json:"fodmap_phases,omitempty"`
	ActiveProtocols []*db.UserProtocol       `json:"active_protocols,omitempty"`
}

// Exporter produces user data exports from the database.
type Exporter struct {
	database *db.DB
}

func NewExporter(database *db.DB) *Exporter {
	return &Exporter{database: database}
}

// historyLimit caps per-table rows in an export; large enough for several
// years of daily logging.
const historyLimit = 2000

// Build assembles the snapshot. Individual sections fail soft: a read error
// in one table leaves that section empty rather than losing the rest.
func (e *Exporter) Build(userID int64) (*Snapshot, error) {
	user, err := e.database.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	s := &Snapshot{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    "1.0",
		User:       user,
	}
	s.ClinicalProfile, _ = e.database.GetClinicalProfile(userID)
	s.WheelHistory, _ = e.database.WheelHistory(userID, historyLimit)
	s.Stages, _ = e.database.LatestStages(userID)
	s.Chronotype, _ = e.database.GetChronotype(userID)
	s.DietAssessments, _ = e.database.DietAssessmentHistory(userID, historyLimit)
	s.Goals, _ = e.database.ListGoals(userID, "")
	s.Habits, _ = e.database.ListHabits(userID, false)
	s.Checkins, _ = e.database.RecentCheckins(userID, historyLimit)
	s.CoachingHistory, _ = e.database.RecentCoachingMessages(userID, historyLimit)
	s.CoinHistory, _ = e.database.CoinHistory(userID, historyLimit)
	s.Biomarkers, _ = e.database.LatestBiomarkers(userID)
	s.OrganScores, _ = e.database.LatestOrganScores(userID)
	s.SleepHistory, _ = e.database.SleepHistory(userID, historyLimit)
	s.FastingHistory, _ = e.database.FastingHistory(userID, historyLimit)
	s.BodyMetrics, _ = e.database.BodyMetricsHistory(userID, historyLimit)
	s.DexaScans, _ = e.database.DexaScans(userID)
	s.Rides, _ = e.database.RideHistory(userID, historyLimit)
	s.SiboSymptoms, _ = e.database.SiboSymptomHistory(userID, historyLimit)
	s.FodmapPhases, _ = e.database.FodmapPhaseHistory(userID)
	s.ActiveProtocols, _ = e.database.ActiveProtocols(userID)
	return s, nil
}

// WriteJSON writes the full snapshot as a single JSON document.
func (e *Exporter) WriteJSON(w io.Writer, userID int64) error {
	s, err := e.Build(userID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteCheckinsCSV writes daily check-ins as CSV, the table most users want
// in a spreadsheet.
func (e *Exporter) WriteCheckinsCSV(w io.Writer, userID int64) error {
	checkins, err := e.database.RecentCheckins(userID, historyLimit)
	if err != nil {
		return fmt.Errorf("loading checkins: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"date", "mood", "energy", "nutrition", "activity", "sleep", "stress", "connection", "substance", "gratitude", "win_of_day"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, c := range checkins {
		row := []string{
			c.CheckinDate,
			intCell(c.Mood), intCell(c.Energy),
			intCell(c.NutritionRating), intCell(c.ActivityRating),
			intCell(c.SleepRating), intCell(c.StressRating),
			intCell(c.ConnectionRating), intCell(c.SubstanceRating),
			strCell(c.Gratitude), strCell(c.WinOfDay),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSleepCSV writes the sleep log as CSV.
func (e *Exporter) WriteSleepCSV(w io.Writer, userID int64) error {
	logs, err := e.database.SleepHistory(userID, historyLimit)
	if err != nil {
		return fmt.Errorf("loading sleep logs: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"date", "bedtime", "wake_time", "total_sleep_min", "efficiency_pct", "score", "latency_min", "awakenings", "quality"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, l := range logs {
		row := []string{
			l.SleepDate,
			strCell(l.Bedtime), strCell(l.WakeTime),
			intCell(l.TotalSleepMin), floatCell(l.SleepEfficiency),
			intCell(l.SleepScore),
			strconv.Itoa(l.SleepLatencyMin), strconv.Itoa(l.Awakenings),
			intCell(l.SleepQuality),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func strCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
