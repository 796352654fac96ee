package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeekStartOf(t *testing.T) {
	require.Equal(t, "2026-08-24", WeekStartOf("2026-08-24")) // Monday
	require.Equal(t, "2026-08-24", WeekStartOf("2026-08-26")) // Wednesday
	require.Equal(t, "2026-08-24", WeekStartOf("2026-08-30")) // Sunday
	require.Equal(t, "not-a-date", WeekStartOf("not-a-date"))
}

func TestLogExerciseAndWeekSummary(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "exercise")

	moderate := "moderate"
	vigorous := "vigorous"
	cardio := "cardio"
	strength := "strength"

	_, inserted, err := d.LogExercise(ExerciseLog{
		UserID: uid, ExerciseDate: "2026-08-24", DurationMin: 50,
		Intensity: &moderate, Category: &cardio,
	})
	require.NoError(t, err)
	require.True(t, inserted)

	_, inserted, err = d.LogExercise(ExerciseLog{
		UserID: uid, ExerciseDate: "2026-08-26", DurationMin: 30,
		Intensity: &vigorous, Category: &strength,
	})
	require.NoError(t, err)
	require.True(t, inserted)

	week, err := d.ExerciseWeekSummary(uid, "2026-08-24")
	require.NoError(t, err)
	require.NotNil(t, week)
	require.Equal(t, 80, week.TotalMin)
	require.Equal(t, 50, week.ModerateMin)
	require.Equal(t, 30, week.VigorousMin)
	require.Equal(t, 2, week.SessionCount)
}

func TestLogExerciseRejectsBadIntensity(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "badintensity")

	// Dedup only applies to re-imported activities; a domain violation errors.
	extreme := "extreme"
	_, inserted, err := d.LogExercise(ExerciseLog{
		UserID: uid, ExerciseDate: "2026-08-25", DurationMin: 30, Intensity: &extreme,
	})
	require.Error(t, err)
	require.False(t, inserted)

	logs, err := d.ExerciseLogsForRange(uid, "2026-08-25", "2026-08-25")
	require.NoError(t, err)
	require.Empty(t, logs)
}

func TestLogExerciseDedupesImports(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "dedupe")

	extID := "garmin-12345"
	e := ExerciseLog{
		UserID: uid, ExerciseDate: "2026-08-25", DurationMin: 45,
		Source: "garmin", ExternalID: &extID,
	}
	_, inserted, err := d.LogExercise(e)
	require.NoError(t, err)
	require.True(t, inserted)

	// Re-syncing the same activity is a no-op.
	_, inserted, err = d.LogExercise(e)
	require.NoError(t, err)
	require.False(t, inserted)

	logs, err := d.ExerciseLogsForRange(uid, "2026-08-25", "2026-08-25")
	require.NoError(t, err)
	require.Len(t, logs, 1)

	// Manual entries with no external id always insert.
	manual := ExerciseLog{UserID: uid, ExerciseDate: "2026-08-25", DurationMin: 20}
	_, inserted, err = d.LogExercise(manual)
	require.NoError(t, err)
	require.True(t, inserted)
	_, inserted, err = d.LogExercise(manual)
	require.NoError(t, err)
	require.True(t, inserted)
}

func TestAdjustProgression(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "progression")

	levels, err := d.GetProgressionLevels(uid)
	require.NoError(t, err)
	start := levels.Threshold

	// An easy workout bumps the zone level.
	next, err := d.AdjustProgression(uid, "threshold", 2)
	require.NoError(t, err)
	require.InDelta(t, start+0.5, next, 0.001)

	// A brutal one drops it.
	next, err = d.AdjustProgression(uid, "threshold", 10)
	require.NoError(t, err)
	require.InDelta(t, start, next, 0.001)

	_, err = d.AdjustProgression(uid, "sprinting", 5)
	require.Error(t, err)
}

func TestProgressionClampedToRange(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "clamp")

	// Hammer the zone downward; it must floor at 1.
	var level float64
	var err error
	for i := 0; i < 20; i++ {
		level, err = d.AdjustProgression(uid, "vo2max", 10)
		require.NoError(t, err)
	}
	require.Equal(t, 1.0, level)
}

func TestCyclingRideAndPlan(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "cycling")

	ftp := 220
	require.NoError(t, d.UpsertCyclingProfile(CyclingProfile{UserID: uid, FTPWatts: &ftp}))
	p, err := d.GetCyclingProfile(uid)
	require.NoError(t, err)
	require.Equal(t, 220, *p.FTPWatts)

	_, err = d.LogRide(CyclingRide{UserID: uid, RideDate: "2026-08-25", DurationMin: 60})
	require.NoError(t, err)
	rides, err := d.RideHistory(uid, 10)
	require.NoError(t, err)
	require.Len(t, rides, 1)

	_, err = d.SaveCyclingPlan(uid, "base", "2026-08-24", 8, 3, 250, `{"week1":["endurance"]}`)
	require.NoError(t, err)
	plan, err := d.ActiveCyclingPlan(uid)
	require.NoError(t, err)
	require.Contains(t, plan, "endurance")
}
