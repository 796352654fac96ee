package scores

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/lifewheel/internal/db"
)

func inputs(age int, sex string, values map[string]float64) Inputs {
	return Inputs{Biomarkers: values, AgeYears: age, Sex: sex}
}

func TestFIB4(t *testing.T) {
	// Sterling 2006 worked example: age 60, AST 40, ALT 40, platelets 250.
	v, err := Compute("calc_fib4", inputs(60, "male", map[string]float64{
		"ast": 40, "alt": 40, "platelets": 250,
	}))
	require.NoError(t, err)
	require.InDelta(t, 1.5179, v, 0.001)

	_, err = Compute("calc_fib4", inputs(0, "male", map[string]float64{
		"ast": 40, "alt": 40, "platelets": 250,
	}))
	require.ErrorContains(t, err, "age required")

	_, err = Compute("calc_fib4", inputs(60, "male", map[string]float64{"ast": 40}))
	require.ErrorContains(t, err, "missing biomarkers")
	require.ErrorContains(t, err, "alt")
	require.ErrorContains(t, err, "platelets")
}

func TestAPRI(t *testing.T) {
	// AST at the upper limit of normal with platelets 250: (40/40)/250*100 = 0.4.
	v, err := Compute("calc_apri", inputs(50, "male", map[string]float64{
		"ast": 40, "platelets": 250,
	}))
	require.NoError(t, err)
	require.InDelta(t, 0.4, v, 0.0001)

	_, err = Compute("calc_apri", inputs(50, "male", map[string]float64{
		"ast": 40, "platelets": 0,
	}))
	require.ErrorContains(t, err, "platelets must be positive")
}

func TestHOMAIR(t *testing.T) {
	v, err := Compute("calc_homa_ir", inputs(0, "", map[string]float64{
		"fasting_glucose": 100, "fasting_insulin": 8.1,
	}))
	require.NoError(t, err)
	require.InDelta(t, 2.0, v, 0.0001)
}

func TestTGHDL(t *testing.T) {
	v, err := Compute("calc_tg_hdl", inputs(0, "", map[string]float64{
		"triglycerides": 120, "hdl_cholesterol": 60,
	}))
	require.NoError(t, err)
	require.InDelta(t, 2.0, v, 0.0001)

	_, err = Compute("calc_tg_hdl", inputs(0, "", map[string]float64{
		"triglycerides": 120, "hdl_cholesterol": 0,
	}))
	require.ErrorContains(t, err, "HDL must be positive")
}

func TestEGFR(t *testing.T) {
	// CKD-EPI 2021: male, 50 years, creatinine 1.0 mg/dL.
	// ratio 1.0/0.9 = 1.111; 142 * 1.111^-1.2 * 0.9938^50 ≈ 92.
	v, err := Compute("calc_egfr", inputs(50, "male", map[string]float64{"creatinine": 1.0}))
	require.NoError(t, err)
	require.InDelta(t, 92.0, v, 1.0)

	// Female branch uses kappa 0.7 and the 1.012 multiplier; creatinine below
	// kappa exercises the min(ratio,1)^alpha term.
	v, err = Compute("calc_egfr", inputs(50, "female", map[string]float64{"creatinine": 0.6}))
	require.NoError(t, err)
	require.Greater(t, v, 100.0)

	_, err = Compute("calc_egfr", inputs(0, "male", map[string]float64{"creatinine": 1.0}))
	require.ErrorContains(t, err, "age required")
}

func TestComputeUnknownFormula(t *testing.T) {
	_, err := Compute("calc_nope", Inputs{})
	require.ErrorContains(t, err, "unknown formula")
}

func TestComputeForDate(t *testing.T) {
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	require.NoError(t, d.SeedReference())

	user, err := d.CreateUser(db.CreateUserInput{Username: "scoreuser", PasswordHash: "hash"})
	require.NoError(t, err)
	uid := user.ID

	dob, sex := "1976-03-15", "male"
	require.NoError(t, d.UpsertClinicalProfile(db.ClinicalProfile{
		UserID: uid, DateOfBirth: &dob, Sex: &sex,
	}))

	labDate := "2026-08-01"
	panel := map[string]float64{
		"ast":             32,
		"alt":             28,
		"platelets":       240,
		"fasting_glucose": 95,
		"fasting_insulin": 6,
		"triglycerides":   110,
		"hdl_cholesterol": 55,
	}
	for code, value := range panel {
		require.NoError(t, d.RecordBiomarkerResult(uid, code, value, labDate, "", ""))
	}

	results, err := ComputeForDate(d, uid, labDate)
	require.NoError(t, err)

	byCode := make(map[string]Result, len(results))
	for _, r := range results {
		byCode[r.Code] = r
	}
	// Creatinine was not drawn, so eGFR is skipped.
	require.NotContains(t, byCode, "egfr")
	require.Contains(t, byCode, "fib4")
	require.Contains(t, byCode, "apri")
	require.Contains(t, byCode, "homa_ir")
	require.Contains(t, byCode, "tg_hdl_ratio")

	homa := byCode["homa_ir"]
	require.InDelta(t, 95*6/405.0, homa.Value, 0.0001)
	require.Equal(t, "Insulin sensitive", homa.Label)
	require.Equal(t, "optimal", homa.Severity)

	// Results are persisted with the input snapshot for later audit.
	stored, err := d.LatestOrganScores(uid)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	for _, s := range stored {
		require.NotNil(t, s.InputSnapshot)
		require.Equal(t, labDate, s.LabDate)
	}
}
