package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWheelAssessmentRoundTrip(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "wheel")

	scores := []PillarScore{
		{PillarID: 1, Score: 7, Notes: "eating more greens"},
		{PillarID: 2, Score: 5},
		{PillarID: 3, Score: 4},
		{PillarID: 4, Score: 6},
		{PillarID: 5, Score: 8},
		{PillarID: 6, Score: 9},
	}
	sessionID, err := d.RecordWheelAssessment(uid, scores)
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	latest, err := d.LatestWheel(uid)
	require.NoError(t, err)
	require.Len(t, latest, 6)
	for _, a := range latest {
		require.Equal(t, sessionID, a.SessionID)
	}

	session, err := d.WheelSession(uid, sessionID)
	require.NoError(t, err)
	require.Len(t, session, 6)
}

func TestWheelScoreOutOfRangeRejected(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "wheelrange")

	_, err := d.RecordWheelAssessment(uid, []PillarScore{{PillarID: 1, Score: 11}})
	require.Error(t, err)

	_, err = d.RecordWheelAssessment(uid, []PillarScore{{PillarID: 1, Score: 0}})
	require.Error(t, err)

	// Nothing should be committed from the failed session.
	latest, err := d.LatestWheel(uid)
	require.NoError(t, err)
	require.Empty(t, latest)
}

func TestLatestWheelReturnsNewestSession(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "wheelhist")

	_, err := d.RecordWheelAssessment(uid, []PillarScore{{PillarID: 1, Score: 3}})
	require.NoError(t, err)
	second, err := d.RecordWheelAssessment(uid, []PillarScore{{PillarID: 1, Score: 8}})
	require.NoError(t, err)

	latest, err := d.LatestWheel(uid)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	require.Equal(t, second, latest[0].SessionID)
	require.Equal(t, 8, latest[0].Score)

	history, err := d.WheelHistory(uid, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
}

func TestStageOfChangeHistory(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "stages")

	_, err := d.SetStage(uid, 1, "contemplation")
	require.NoError(t, err)
	_, err = d.SetStage(uid, 1, "action")
	require.NoError(t, err)
	_, err = d.SetStage(uid, 2, "precontemplation")
	require.NoError(t, err)

	stages, err := d.LatestStages(uid)
	require.NoError(t, err)
	require.Equal(t, "action", stages[1])
	require.Equal(t, "precontemplation", stages[2])
}

func TestStageRejectsUnknownValue(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "badstage")

	_, err := d.SetStage(uid, 1, "procrastination")
	require.Error(t, err)
}

func TestChronotypeUpsert(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "chrono")

	require.NoError(t, d.UpsertChronotype(ChronotypeAssessment{
		UserID: uid, MEQScore: 52, Chronotype: "bear",
	}))

	got, err := d.GetChronotype(uid)
	require.NoError(t, err)
	require.Equal(t, "bear", got.Chronotype)

	require.NoError(t, d.UpsertChronotype(ChronotypeAssessment{
		UserID: uid, MEQScore: 70, Chronotype: "lion",
	}))
	got, err = d.GetChronotype(uid)
	require.NoError(t, err)
	require.Equal(t, "lion", got.Chronotype)
	require.Equal(t, 70, got.MEQScore)
}
