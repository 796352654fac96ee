package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvidenceLinking(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "evidence")

	evID, err := d.AddEvidence(AddEvidenceInput{
		Title: "Aerobic exercise and sleep quality", Year: 2023, StudyType: "rct",
	})
	require.NoError(t, err)

	goal, err := d.CreateGoal(CreateGoalInput{UserID: uid, PillarID: 2, Title: "Run 5k"})
	require.NoError(t, err)

	require.NoError(t, d.LinkEvidence(evID, "goal", goal.ID, "supports cardio target"))

	// Relinking the same triple is silent.
	require.NoError(t, d.LinkEvidence(evID, "goal", goal.ID, ""))

	linked, err := d.EvidenceForEntity("goal", goal.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	require.Equal(t, "Aerobic exercise and sleep quality", linked[0].Title)

	// A citation id that doesn't exist fails on the FK instead of vanishing.
	err = d.LinkEvidence(evID+1000, "goal", goal.ID, "")
	require.Error(t, err)

	require.NoError(t, d.UnlinkEvidence(evID, "goal", goal.ID))
	linked, err = d.EvidenceForEntity("goal", goal.ID)
	require.NoError(t, err)
	require.Empty(t, linked)
}

func TestLinkTargetExists(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "linktarget")

	goal, err := d.CreateGoal(CreateGoalInput{UserID: uid, PillarID: 1, Title: "Sleep by 23:00"})
	require.NoError(t, err)

	ok, err := d.LinkTargetExists("goal", goal.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = d.LinkTargetExists("goal", goal.ID+500)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = d.LinkTargetExists("meal", 1)
	require.Error(t, err)
}

func TestSearchEvidence(t *testing.T) {
	d := openTestDB(t)

	p := int64(3)
	_, err := d.AddEvidence(AddEvidenceInput{
		Title: "Mediterranean diet and inflammation", Year: 2022, PillarID: &p, Tags: "nutrition,crp",
	})
	require.NoError(t, err)
	_, err = d.AddEvidence(AddEvidenceInput{
		Title: "Resistance training in older adults", Year: 2021, Tags: "strength",
	})
	require.NoError(t, err)

	hits, err := d.SearchEvidence(0, "inflammation", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = d.SearchEvidence(3, "", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "Mediterranean diet and inflammation", hits[0].Title)
}
