package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordBiomarkerResult(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.SeedReference())
	uid := testUser(t, d, "labs")

	require.NoError(t, d.RecordBiomarkerResult(uid, "ast", 32, "2026-08-01", "Quest", ""))
	require.NoError(t, d.RecordBiomarkerResult(uid, "alt", 28, "2026-08-01", "Quest", ""))

	err := d.RecordBiomarkerResult(uid, "no_such_marker", 1, "2026-08-01", "", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown biomarker")

	values, err := d.ResultsForDate(uid, "2026-08-01")
	require.NoError(t, err)
	require.Equal(t, 32.0, values["ast"])
	require.Equal(t, 28.0, values["alt"])
}

func TestRecordBiomarkerCorrectsSameDraw(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.SeedReference())
	uid := testUser(t, d, "labfix")

	require.NoError(t, d.RecordBiomarkerResult(uid, "ast", 32, "2026-08-01", "", ""))
	require.NoError(t, d.RecordBiomarkerResult(uid, "ast", 35, "2026-08-01", "", "corrected"))

	history, err := d.BiomarkerHistory(uid, "ast")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, 35.0, history[0].Value)
	require.Equal(t, "corrected", *history[0].Notes)
}

func TestLatestBiomarkersPicksNewestDraw(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.SeedReference())
	uid := testUser(t, d, "labtrend")

	require.NoError(t, d.RecordBiomarkerResult(uid, "fasting_glucose", 104, "2026-02-01", "", ""))
	require.NoError(t, d.RecordBiomarkerResult(uid, "fasting_glucose", 92, "2026-08-01", "", ""))

	latest, err := d.LatestBiomarkers(uid)
	require.NoError(t, err)
	require.Equal(t, 92.0, latest["fasting_glucose"])
}

func TestBiomarkerClassify(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.SeedReference())

	// AST: standard 10-40, optimal 10-26, critical high 200.
	def, err := d.GetBiomarkerDefinition("ast")
	require.NoError(t, err)
	require.Equal(t, "optimal", def.Classify(20))
	require.Equal(t, "standard", def.Classify(35))
	require.Equal(t, "out_of_range", def.Classify(80))
	require.Equal(t, "critical", def.Classify(250))
}

func TestOrganScoreUpsertAndHistory(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.SeedReference())
	uid := testUser(t, d, "organ")

	defs, err := d.ListOrganScoreDefinitions()
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	var fib4 *OrganScoreDefinition
	for _, def := range defs {
		if def.Code == "fib4" {
			fib4 = def
		}
	}
	require.NotNil(t, fib4)
	require.Equal(t, []string{"ast", "alt", "platelets"}, fib4.RequiredBiomarkers)

	require.NoError(t, d.UpsertOrganScoreResult(uid, fib4.ID, 1.1, "Low risk of advanced fibrosis", "optimal", "{}", "2026-02-01"))
	require.NoError(t, d.UpsertOrganScoreResult(uid, fib4.ID, 0.9, "Low risk of advanced fibrosis", "optimal", "{}", "2026-08-01"))
	// Recompute for the same draw replaces the stored row.
	require.NoError(t, d.UpsertOrganScoreResult(uid, fib4.ID, 0.95, "Low risk of advanced fibrosis", "optimal", "{}", "2026-08-01"))

	history, err := d.OrganScoreHistory(uid, "fib4")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, 0.95, *history[1].Value)

	latest, err := d.LatestOrganScores(uid)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	require.Equal(t, "fib4", latest[0].Code)
	require.Equal(t, "liver", latest[0].OrganSystem)
}

func TestOrganScoreInterpretRanges(t *testing.T) {
	d := openTestDB(t)
	require.NoError(t, d.SeedReference())

	defs, err := d.ListOrganScoreDefinitions()
	require.NoError(t, err)
	byCode := make(map[string]*OrganScoreDefinition, len(defs))
	for _, def := range defs {
		byCode[def.Code] = def
	}

	label, severity, err := byCode["fib4"].Interpret(1.0)
	require.NoError(t, err)
	require.Equal(t, "Low risk of advanced fibrosis", label)
	require.Equal(t, "optimal", severity)

	label, severity, err = byCode["fib4"].Interpret(1.3)
	require.NoError(t, err)
	require.Equal(t, "Indeterminate", label)
	require.Equal(t, "elevated", severity)

	label, severity, err = byCode["fib4"].Interpret(3.2)
	require.NoError(t, err)
	require.Equal(t, "High risk of advanced fibrosis", label)
	require.Equal(t, "high", severity)

	label, severity, err = byCode["egfr"].Interpret(95)
	require.NoError(t, err)
	require.Equal(t, "Normal kidney function", label)
	require.Equal(t, "optimal", severity)

	label, severity, err = byCode["egfr"].Interpret(25)
	require.NoError(t, err)
	require.Equal(t, "Severely decreased", label)
	require.Equal(t, "critical", severity)
}
