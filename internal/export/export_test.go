package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/lifewheel/internal/db"
)

func setup(t *testing.T) (*Exporter, *db.DB, int64) {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	user, err := database.CreateUser(db.CreateUserInput{Username: "exporter", PasswordHash: "x"})
	require.NoError(t, err)
	return NewExporter(database), database, user.ID
}

func TestBuildSnapshot(t *testing.T) {
	e, database, uid := setup(t)

	mood, energy := 8, 6
	require.NoError(t, database.UpsertDailyCheckin(db.DailyCheckin{
		UserID: uid, CheckinDate: "2026-08-25", Mood: &mood, Energy: &energy,
	}))
	_, err := database.CreateGoal(db.CreateGoalInput{UserID: uid, PillarID: 1, Title: "Walk daily"})
	require.NoError(t, err)

	s, err := e.Build(uid)
	require.NoError(t, err)
	require.Equal(t, "1.0", s.Version)
	require.NotEmpty(t, s.ExportedAt)
	require.Equal(t, "exporter", s.User.Username)
	require.Len(t, s.Checkins, 1)
	require.Len(t, s.Goals, 1)
	// Sections the user never touched stay empty rather than failing the build.
	require.Nil(t, s.ClinicalProfile)
	require.Empty(t, s.SleepHistory)
}

func TestBuildUnknownUser(t *testing.T) {
	e, _, _ := setup(t)
	_, err := e.Build(99999)
	require.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	e, database, uid := setup(t)

	gratitude := "a <quiet> morning"
	mood := 7
	require.NoError(t, database.UpsertDailyCheckin(db.DailyCheckin{
		UserID: uid, CheckinDate: "2026-08-25", Mood: &mood, Gratitude: &gratitude,
	}))

	var buf bytes.Buffer
	require.NoError(t, e.WriteJSON(&buf, uid))

	var s Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &s))
	require.Equal(t, "exporter", s.User.Username)
	require.Len(t, s.Checkins, 1)
	// HTML escaping is off so journal text survives verbatim.
	require.Contains(t, buf.String(), "a <quiet> morning")
}

func TestWriteCheckinsCSV(t *testing.T) {
	e, database, uid := setup(t)

	mood, energy := 8, 6
	win := "finished the ride"
	require.NoError(t, database.UpsertDailyCheckin(db.DailyCheckin{
		UserID: uid, CheckinDate: "2026-08-24", Mood: &mood,
	}))
	require.NoError(t, database.UpsertDailyCheckin(db.DailyCheckin{
		UserID: uid, CheckinDate: "2026-08-25", Mood: &mood, Energy: &energy, WinOfDay: &win,
	}))

	var buf bytes.Buffer
	require.NoError(t, e.WriteCheckinsCSV(&buf, uid))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "date", records[0][0])

	byDate := map[string][]string{records[1][0]: records[1], records[2][0]: records[2]}
	row := byDate["2026-08-25"]
	require.NotNil(t, row)
	require.Equal(t, "8", row[1])
	require.Equal(t, "6", row[2])
	require.Equal(t, "finished the ride", row[10])
	// Unset ratings serialize as empty cells.
	require.Equal(t, "", byDate["2026-08-24"][2])
}

func TestWriteSleepCSV(t *testing.T) {
	e, database, uid := setup(t)

	bed, wake := "23:00", "07:00"
	_, err := database.UpsertSleepLog(db.SleepLog{
		UserID: uid, SleepDate: "2026-08-25", Bedtime: &bed, WakeTime: &wake,
		SleepLatencyMin: 20, Awakenings: 1, WakeDurationMin: 10,
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.WriteSleepCSV(&buf, uid))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "2026-08-25", records[1][0])
	require.Equal(t, "450", records[1][3])
	require.Equal(t, "93.8", records[1][4])
}
