package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFodmapPhaseTransitions(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "fodmap")

	active, err := d.ActiveFodmapPhase(uid)
	require.NoError(t, err)
	require.Nil(t, active)

	_, err = d.StartFodmapPhase(uid, "elimination", "2026-07-01", "", "low-FODMAP start")
	require.NoError(t, err)

	active, err = d.ActiveFodmapPhase(uid)
	require.NoError(t, err)
	require.Equal(t, "elimination", active.Phase)
	require.Nil(t, active.EndedDate)

	// Starting the next phase closes the previous one; history is append-only.
	_, err = d.StartFodmapPhase(uid, "reintroduction", "2026-08-01", "fructans", "")
	require.NoError(t, err)

	history, err := d.FodmapPhaseHistory(uid)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "2026-08-01", *history[0].EndedDate)
	require.Nil(t, history[1].EndedDate)

	state, err := d.GetSiboState(uid)
	require.NoError(t, err)
	require.Equal(t, "reintroduction", *state.CurrentPhase)
}

func TestReintroChallengeFlow(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "reintro")

	id, err := d.StartReintroChallenge(uid, "fructans", "bread", "2026-08-20")
	require.NoError(t, err)

	require.NoError(t, d.RecordChallengeDay(id, uid, 1, "mild bloating"))
	require.NoError(t, d.RecordChallengeDay(id, uid, 2, "none"))
	require.NoError(t, d.RecordChallengeDay(id, uid, 3, "none"))
	require.Error(t, d.RecordChallengeDay(id, uid, 4, "out of range"))

	require.NoError(t, d.FinishReintroChallenge(id, uid, "2026-08-22", "tolerated", "2026-08-25"))

	challenges, err := d.ReintroChallenges(uid)
	require.NoError(t, err)
	require.Len(t, challenges, 1)
	c := challenges[0]
	require.Equal(t, "mild bloating", *c.Day1Symptoms)
	require.Equal(t, "tolerated", *c.Tolerance)
	require.Equal(t, "2026-08-25", *c.WashoutEnd)

	// Wrong user cannot finish someone else's challenge.
	other := testUser(t, d, "reintro2")
	require.Error(t, d.FinishReintroChallenge(id, other, "2026-08-22", "tolerated", ""))
}

func TestSiboSymptomUpsertAndState(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "sibosym")

	require.NoError(t, d.UpsertSiboSymptoms(SiboSymptomLog{
		UserID: uid, LogDate: "2026-08-25", Bloating: intPtr(6),
	}))
	require.NoError(t, d.UpsertSiboSymptoms(SiboSymptomLog{
		UserID: uid, LogDate: "2026-08-25", Bloating: intPtr(3),
	}))

	history, err := d.SiboSymptomHistory(uid, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, 3, *history[0].Bloating)

	_, err = d.LogSiboFood(SiboFoodLog{UserID: uid, LogDate: "2026-08-25", FoodName: "rice"})
	require.NoError(t, err)

	state, err := d.GetSiboState(uid)
	require.NoError(t, err)
	require.Equal(t, 1, state.TotalSymptomLogs)
	require.Equal(t, 1, state.TotalFoodLogs)

	require.NoError(t, d.SetActiveDiet(uid, "low_fodmap"))
	state, err = d.GetSiboState(uid)
	require.NoError(t, err)
	require.Equal(t, "low_fodmap", *state.ActiveDiet)
}
