package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoalLifecycle(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "goals")

	g, err := d.CreateGoal(CreateGoalInput{
		UserID:     uid,
		PillarID:   2,
		Title:      "Walk 8000 steps daily",
		Specific:   "Walk around the park after lunch",
		Measurable: "Step count from watch",
		TimeBound:  "By end of quarter",
	})
	require.NoError(t, err)
	require.Equal(t, "active", g.Status)
	require.Equal(t, 0, g.ProgressPct)

	require.NoError(t, d.LogGoalProgress(g.ID, uid, 40, nil, "halfway there on weekdays"))
	got, err := d.GetGoal(g.ID)
	require.NoError(t, err)
	require.Equal(t, 40, got.ProgressPct)

	// Reaching 100% does not flip the status on its own.
	require.NoError(t, d.LogGoalProgress(g.ID, uid, 100, nil, ""))
	got, err = d.GetGoal(g.ID)
	require.NoError(t, err)
	require.Equal(t, "active", got.Status)

	require.NoError(t, d.CompleteGoal(g.ID, uid))
	got, err = d.GetGoal(g.ID)
	require.NoError(t, err)
	require.Equal(t, "completed", got.Status)
	require.NotNil(t, got.CompletedAt)

	history, err := d.GoalProgressHistory(g.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestGoalPauseResumeAbandon(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "goalstatus")

	g, err := d.CreateGoal(CreateGoalInput{UserID: uid, PillarID: 1, Title: "Meatless Mondays"})
	require.NoError(t, err)

	require.NoError(t, d.PauseGoal(g.ID, uid))
	got, _ := d.GetGoal(g.ID)
	require.Equal(t, "paused", got.Status)

	require.NoError(t, d.ResumeGoal(g.ID, uid))
	got, _ = d.GetGoal(g.ID)
	require.Equal(t, "active", got.Status)

	require.NoError(t, d.AbandonGoal(g.ID, uid, "schedule changed"))
	got, _ = d.GetGoal(g.ID)
	require.Equal(t, "abandoned", got.Status)
	require.Equal(t, "schedule changed", *got.AbandonReason)

	// Another user cannot modify the goal.
	other := testUser(t, d, "goalstatus2")
	require.Error(t, d.PauseGoal(g.ID, other))
}

func TestListGoalsByStatus(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "goallist")

	a, _ := d.CreateGoal(CreateGoalInput{UserID: uid, PillarID: 1, Title: "A"})
	_, err := d.CreateGoal(CreateGoalInput{UserID: uid, PillarID: 2, Title: "B"})
	require.NoError(t, err)
	require.NoError(t, d.CompleteGoal(a.ID, uid))

	active, err := d.ListGoals(uid, "active")
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "B", active[0].Title)

	all, err := d.ListGoals(uid, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestHabitToggle(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "habits")

	h, err := d.CreateHabit(CreateHabitInput{UserID: uid, PillarID: 4, Name: "Morning meditation"})
	require.NoError(t, err)
	require.Equal(t, 1, h.TargetPerDay)

	count, err := d.ToggleHabitLog(h.ID, uid, "2026-08-25")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// Toggling again clears the day.
	count, err = d.ToggleHabitLog(h.ID, uid, "2026-08-25")
	require.NoError(t, err)
	require.Equal(t, 0, count)

	// A different user cannot toggle someone else's habit.
	other := testUser(t, d, "habits2")
	_, err = d.ToggleHabitLog(h.ID, other, "2026-08-25")
	require.Error(t, err)
}

func TestHabitStreak(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "streak")

	h, err := d.CreateHabit(CreateHabitInput{UserID: uid, PillarID: 2, Name: "Walk", TargetPerDay: 2})
	require.NoError(t, err)

	require.NoError(t, d.SetHabitLog(h.ID, uid, "2026-08-23", 2))
	require.NoError(t, d.SetHabitLog(h.ID, uid, "2026-08-24", 3))
	require.NoError(t, d.SetHabitLog(h.ID, uid, "2026-08-25", 2))
	// A day below target breaks the streak.
	require.NoError(t, d.SetHabitLog(h.ID, uid, "2026-08-22", 1))

	streak, err := d.HabitStreak(h.ID, "2026-08-25")
	require.NoError(t, err)
	require.Equal(t, 3, streak)

	streak, err = d.HabitStreak(h.ID, "2026-08-26")
	require.NoError(t, err)
	require.Equal(t, 0, streak)
}

func TestHabitCompletionPct(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "completion")

	h1, _ := d.CreateHabit(CreateHabitInput{UserID: uid, PillarID: 1, Name: "Veg with lunch"})
	h2, _ := d.CreateHabit(CreateHabitInput{UserID: uid, PillarID: 3, Name: "Lights out by 23:00"})

	// 2 habits x 2 days = 4 slots, 3 completed.
	require.NoError(t, d.SetHabitLog(h1.ID, uid, "2026-08-24", 1))
	require.NoError(t, d.SetHabitLog(h2.ID, uid, "2026-08-24", 1))
	require.NoError(t, d.SetHabitLog(h1.ID, uid, "2026-08-25", 1))

	pct, err := d.HabitCompletionPct(uid, "2026-08-24", "2026-08-25")
	require.NoError(t, err)
	require.InDelta(t, 75.0, pct, 0.001)
}

func TestArchiveHabitKeepsHistory(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "archive")

	h, _ := d.CreateHabit(CreateHabitInput{UserID: uid, PillarID: 5, Name: "Call a friend"})
	require.NoError(t, d.SetHabitLog(h.ID, uid, "2026-08-20", 1))
	require.NoError(t, d.ArchiveHabit(h.ID, uid))

	active, err := d.ListHabits(uid, true)
	require.NoError(t, err)
	require.Empty(t, active)

	all, err := d.ListHabits(uid, false)
	require.NoError(t, err)
	require.Len(t, all, 1)

	logs, err := d.HabitLogsForDate(uid, "2026-08-20")
	require.NoError(t, err)
	require.Len(t, logs, 1)

	require.NoError(t, d.ReactivateHabit(h.ID, uid))
	active, _ = d.ListHabits(uid, true)
	require.Len(t, active, 1)
}
