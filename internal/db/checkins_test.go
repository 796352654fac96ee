package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestDailyCheckinUpsert(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "checkin")

	require.NoError(t, d.UpsertDailyCheckin(DailyCheckin{
		UserID: uid, CheckinDate: "2026-08-25", Mood: intPtr(6), Energy: intPtr(5),
	}))

	got, err := d.GetCheckin(uid, "2026-08-25")
	require.NoError(t, err)
	require.Equal(t, 6, *got.Mood)

	// Same date replaces, not duplicates.
	require.NoError(t, d.UpsertDailyCheckin(DailyCheckin{
		UserID: uid, CheckinDate: "2026-08-25", Mood: intPtr(8),
	}))
	got, err = d.GetCheckin(uid, "2026-08-25")
	require.NoError(t, err)
	require.Equal(t, 8, *got.Mood)

	recent, err := d.RecentCheckins(uid, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func TestCheckinMoodOutOfRange(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "checkinrange")

	err := d.UpsertDailyCheckin(DailyCheckin{
		UserID: uid, CheckinDate: "2026-08-25", Mood: intPtr(11),
	})
	require.Error(t, err)
}

func TestCheckinStreak(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "checkinstreak")

	for _, date := range []string{"2026-08-23", "2026-08-24", "2026-08-25"} {
		require.NoError(t, d.UpsertDailyCheckin(DailyCheckin{UserID: uid, CheckinDate: date}))
	}
	// Gap on 2026-08-21.
	require.NoError(t, d.UpsertDailyCheckin(DailyCheckin{UserID: uid, CheckinDate: "2026-08-20"}))

	streak, err := d.CheckinStreak(uid, "2026-08-25")
	require.NoError(t, err)
	require.Equal(t, 3, streak)

	streak, err = d.CheckinStreak(uid, "2026-08-26")
	require.NoError(t, err)
	require.Equal(t, 0, streak)
}

func TestAwardCoinsOncePerDay(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "coins")

	awarded, err := d.AwardCoins(uid, 10, "daily_checkin", "2026-08-25")
	require.NoError(t, err)
	require.True(t, awarded)

	// Same reason and date is ignored.
	awarded, err = d.AwardCoins(uid, 10, "daily_checkin", "2026-08-25")
	require.NoError(t, err)
	require.False(t, awarded)

	// A new day earns again.
	awarded, err = d.AwardCoins(uid, 10, "daily_checkin", "2026-08-26")
	require.NoError(t, err)
	require.True(t, awarded)

	balance, err := d.CoinBalance(uid)
	require.NoError(t, err)
	require.Equal(t, 20, balance)
}

func TestSpendCoins(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "spend")

	_, err := d.AwardCoins(uid, 30, "daily_checkin", "2026-08-25")
	require.NoError(t, err)

	require.NoError(t, d.SpendCoins(uid, 20, "theme_unlock"))
	balance, _ := d.CoinBalance(uid)
	require.Equal(t, 10, balance)

	err = d.SpendCoins(uid, 20, "theme_unlock")
	require.Error(t, err)
	require.Contains(t, err.Error(), "insufficient")

	history, err := d.CoinHistory(uid, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestWeeklyReviewUpsert(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "review")

	win := "kept every workout"
	require.NoError(t, d.UpsertWeeklyReview(WeeklyReview{
		UserID: uid, WeekStart: "2026-08-24", Highlights: &win,
	}))

	got, err := d.GetWeeklyReview(uid, "2026-08-24")
	require.NoError(t, err)
	require.Equal(t, "kept every workout", *got.Highlights)

	win2 := "slept 8h every night"
	require.NoError(t, d.UpsertWeeklyReview(WeeklyReview{
		UserID: uid, WeekStart: "2026-08-24", Highlights: &win2,
	}))
	got, err = d.GetWeeklyReview(uid, "2026-08-24")
	require.NoError(t, err)
	require.Equal(t, "slept 8h every night", *got.Highlights)
}
