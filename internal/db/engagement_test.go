package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeeklyChallengeCompletion(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "challenge")

	id, err := d.CreateWeeklyChallenge(WeeklyChallenge{
		UserID: uid, WeekStart: "2026-08-24", PillarID: 2,
		Title: "Three workouts", TargetCount: 3, Difficulty: "medium", CoinReward: 25,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	for i := 0; i < 2; i++ {
		completed, err := d.IncrementChallenge(id, uid)
		require.NoError(t, err)
		require.False(t, completed)
	}
	completed, err := d.IncrementChallenge(id, uid)
	require.NoError(t, err)
	require.True(t, completed)

	// Completion pays out the reward exactly once.
	balance, err := d.CoinBalance(uid)
	require.NoError(t, err)
	require.Equal(t, 25, balance)

	// Further increments are no-ops on a completed challenge.
	completed, err = d.IncrementChallenge(id, uid)
	require.NoError(t, err)
	require.False(t, completed)
	balance, _ = d.CoinBalance(uid)
	require.Equal(t, 25, balance)
}

func TestCreateWeeklyChallengeDefaults(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "chaldef")

	// Omitted difficulty lands on the schema default and the row is stored.
	id, err := d.CreateWeeklyChallenge(WeeklyChallenge{
		UserID: uid, WeekStart: "2026-08-24", PillarID: 2, Title: "Walk daily", TargetCount: 3,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	list, err := d.ChallengesForWeek(uid, "2026-08-24")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "medium", list[0].Difficulty)

	// Re-adding the same title within the week dedups silently.
	_, err = d.CreateWeeklyChallenge(WeeklyChallenge{
		UserID: uid, WeekStart: "2026-08-24", PillarID: 2, Title: "Walk daily", TargetCount: 5,
	})
	require.NoError(t, err)
	list, err = d.ChallengesForWeek(uid, "2026-08-24")
	require.NoError(t, err)
	require.Len(t, list, 1)

	// An unknown pillar is rejected, not swallowed.
	_, err = d.CreateWeeklyChallenge(WeeklyChallenge{
		UserID: uid, WeekStart: "2026-08-24", PillarID: 99, Title: "Bogus", TargetCount: 1,
	})
	require.Error(t, err)
}

func TestExpireStaleChallenges(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "stale")

	_, err := d.CreateWeeklyChallenge(WeeklyChallenge{
		UserID: uid, WeekStart: "2026-08-17", PillarID: 1, Title: "Old", TargetCount: 5,
	})
	require.NoError(t, err)
	_, err = d.CreateWeeklyChallenge(WeeklyChallenge{
		UserID: uid, WeekStart: "2026-08-24", PillarID: 1, Title: "Current", TargetCount: 5,
	})
	require.NoError(t, err)

	require.NoError(t, d.ExpireStaleChallenges(uid, "2026-08-24"))

	old, err := d.ChallengesForWeek(uid, "2026-08-17")
	require.NoError(t, err)
	require.Equal(t, "expired", old[0].Status)

	current, err := d.ChallengesForWeek(uid, "2026-08-24")
	require.NoError(t, err)
	require.Equal(t, "active", current[0].Status)
}

func TestJourneyAdvance(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "journey")

	j, err := d.GetJourney(uid)
	require.NoError(t, err)
	require.Equal(t, 1, j.Level)

	startHabits := j.MaxHabits
	for i := 0; i < 7; i++ {
		j, err = d.AdvanceJourney(uid)
		require.NoError(t, err)
	}
	require.Equal(t, 2, j.Level)
	require.Equal(t, startHabits+1, j.MaxHabits)
}

func TestMeditationMinutes(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "meditate")

	_, err := d.LogMeditation(MeditationSession{UserID: uid, SessionDate: "2026-08-25", DurationMinutes: intPtr(10)})
	require.NoError(t, err)
	_, err = d.LogMeditation(MeditationSession{UserID: uid, SessionDate: "2026-08-25", DurationMinutes: intPtr(15)})
	require.NoError(t, err)

	minutes, err := d.MeditationMinutesForDate(uid, "2026-08-25")
	require.NoError(t, err)
	require.Equal(t, 25, minutes)

	minutes, err = d.MeditationMinutesForDate(uid, "2026-08-26")
	require.NoError(t, err)
	require.Equal(t, 0, minutes)
}

func TestFutureSelfLetters(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "letters")

	_, err := d.WriteFutureSelfLetter(uid, "keep going", "2026-09-01")
	require.NoError(t, err)
	_, err = d.WriteFutureSelfLetter(uid, "too soon", "2027-01-01")
	require.NoError(t, err)

	due, err := d.DueLetters(uid, "2026-09-15")
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, "keep going", due[0].LetterText)
}
