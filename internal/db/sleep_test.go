package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSleepLogDerivesTotalsAcrossMidnight(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "sleep")

	bed := "23:00"
	wake := "07:00"
	saved, err := d.UpsertSleepLog(SleepLog{
		UserID: uid, SleepDate: "2026-08-25",
		Bedtime: &bed, WakeTime: &wake,
		SleepLatencyMin: 20, Awakenings: 1, WakeDurationMin: 10,
	})
	require.NoError(t, err)
	require.NotNil(t, saved.TotalSleepMin)
	// 8h in bed minus 20min latency and 10min awake.
	require.Equal(t, 450, *saved.TotalSleepMin)
	require.InDelta(t, 93.75, *saved.SleepEfficiency, 0.01)
	require.NotNil(t, saved.SleepScore)
	require.Greater(t, *saved.SleepScore, 70)

	got, err := d.GetSleepLog(uid, "2026-08-25")
	require.NoError(t, err)
	require.Equal(t, 450, *got.TotalSleepMin)
}

func TestSleepLogOneRowPerNight(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "sleepnight")

	bed, wake := "22:30", "06:30"
	_, err := d.UpsertSleepLog(SleepLog{UserID: uid, SleepDate: "2026-08-25", Bedtime: &bed, WakeTime: &wake})
	require.NoError(t, err)

	bed2 := "23:30"
	_, err = d.UpsertSleepLog(SleepLog{UserID: uid, SleepDate: "2026-08-25", Bedtime: &bed2, WakeTime: &wake})
	require.NoError(t, err)

	history, err := d.SleepHistory(uid, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "23:30", *history[0].Bedtime)
}

func TestAvgSleep(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "avgsleep")

	bed, wake := "23:00", "07:00"
	for _, date := range []string{"2026-08-23", "2026-08-24", "2026-08-25"} {
		_, err := d.UpsertSleepLog(SleepLog{UserID: uid, SleepDate: date, Bedtime: &bed, WakeTime: &wake})
		require.NoError(t, err)
	}

	avgMin, avgScore, err := d.AvgSleep(uid, 7)
	require.NoError(t, err)
	require.InDelta(t, 480.0, avgMin, 0.01)
	require.Greater(t, avgScore, 0.0)
}

func TestSleepLogWithoutTimesStoresRawEntry(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "sleepraw")

	saved, err := d.UpsertSleepLog(SleepLog{UserID: uid, SleepDate: "2026-08-25", SleepQuality: intPtr(7)})
	require.NoError(t, err)
	require.Nil(t, saved.TotalSleepMin)
	require.Nil(t, saved.SleepScore)
}
