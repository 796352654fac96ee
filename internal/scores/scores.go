// Package scores computes derived organ-health scores from lab biomarkers.
//
// Each score definition in the database carries a formula_key; this package
// maps those keys to the actual calculations and fills in result rows with
// the interpretation labels stored on the definition.
package scores

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hazyhaar/lifewheel/internal/db"
)

// Inputs collects everything a formula may need: biomarker values for a
// single lab date keyed by biomarker code, plus demographics from the
// clinical profile.
type Inputs struct {
	Biomarkers map[string]float64
	AgeYears   int
	Sex        string // "male" or "female"
}

// Formula computes a score value from inputs. It returns an error when a
// required biomarker or demographic field is missing.
type Formula func(in Inputs) (float64, error)

var formulas = map[string]Formula{
	"calc_fib4":    calcFIB4,
	"calc_apri":    calcAPRI,
	"calc_homa_ir": calcHOMAIR,
	"calc_tg_hdl":  calcTGHDL,
	"calc_egfr":    calcEGFR,
}

func need(in Inputs, codes ...string) error {
	var missing []string
	for _, c := range codes {
		if _, ok := in.Biomarkers[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing biomarkers: %s", strings.Join(missing, ", "))
	}
	return nil
}

// calcFIB4 estimates liver fibrosis: (age x AST) / (platelets x sqrt(ALT)).
// Platelets are in 10^9/L.
func calcFIB4(in Inputs) (float64, error) {
	if err := need(in, "ast", "alt", "platelets"); err != nil {
		return 0, err
	}
	if in.AgeYears <= 0 {
		return 0, fmt.Errorf("age required for FIB-4")
	}
	ast := in.Biomarkers["ast"]
	alt := in.Biomarkers["alt"]
	plt := in.Biomarkers["platelets"]
	if alt <= 0 || plt <= 0 {
		return 0, fmt.Errorf("ALT and platelets must be positive")
	}
	return (float64(in.AgeYears) * ast) / (plt * math.Sqrt(alt)), nil
}

// calcAPRI: (AST / upper limit of normal) / platelets x 100, ULN = 40 U/L.
func calcAPRI(in Inputs) (float64, error) {
	if err := need(in, "ast", "platelets"); err != nil {
		return 0, err
	}
	plt := in.Biomarkers["platelets"]
	if plt <= 0 {
		return 0, fmt.Errorf("platelets must be positive")
	}
	return (in.Biomarkers["ast"] / 40.0) / plt * 100.0, nil
}

// calcHOMAIR: fasting glucose (mg/dL) x fasting insulin (uIU/mL) / 405.
func calcHOMAIR(in Inputs) (float64, error) {
	if err := need(in, "fasting_glucose", "fasting_insulin"); err != nil {
		return 0, err
	}
	return in.Biomarkers["fasting_glucose"] * in.Biomarkers["fasting_insulin"] / 405.0, nil
}

func calcTGHDL(in Inputs) (float64, error) {
	if err := need(in, "triglycerides", "hdl_cholesterol"); err != nil {
		return 0, err
	}
	hdl := in.Biomarkers["hdl_cholesterol"]
	if hdl <= 0 {
		return 0, fmt.Errorf("HDL must be positive")
	}
	return in.Biomarkers["triglycerides"] / hdl, nil
}

// calcEGFR implements the CKD-EPI 2021 race-free creatinine equation.
// Creatinine is in mg/dL.
func calcEGFR(in Inputs) (float64, error) {
	if err := need(in, "creatinine"); err != nil {
		return 0, err
	}
	if in.AgeYears <= 0 {
		return 0, fmt.Errorf("age required for eGFR")
	}
	scr := in.Biomarkers["creatinine"]
	if scr <= 0 {
		return 0, fmt.Errorf("creatinine must be positive")
	}
	kappa, alpha, sexFactor := 0.9, -0.302, 1.0
	if in.Sex == "female" {
		kappa, alpha, sexFactor = 0.7, -0.241, 1.012
	}
	ratio := scr / kappa
	egfr := 142.0 *
		math.Pow(math.Min(ratio, 1), alpha) *
		math.Pow(math.Max(ratio, 1), -1.200) *
		math.Pow(0.9938, float64(in.AgeYears)) *
		sexFactor
	return egfr, nil
}

// Compute evaluates a single formula by key.
func Compute(formulaKey string, in Inputs) (float64, error) {
	f, ok := formulas[formulaKey]
	if !ok {
		return 0, fmt.Errorf("unknown formula %q", formulaKey)
	}
	return f(in)
}

// Result is one computed score, ready for display or storage.
type Result struct {
	Code     string
	Name     string
	Value    float64
	Label    string
	Severity string
}

// inputSnapshot records the exact biomarker values a score was computed
// from, so results stay auditable after later lab entries.
func inputSnapshot(required []string, in Inputs) string {
	vals := make(map[string]float64, len(required))
	for _, code := range required {
		if v, ok := in.Biomarkers[code]; ok {
			vals[code] = v
		}
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ComputeForDate runs every organ score whose required biomarkers are all
// present on the given lab date and upserts the results. Scores with
// missing inputs are skipped silently; a lab panel rarely covers every
// marker at once.
func ComputeForDate(d *db.DB, userID int64, labDate string) ([]Result, error) {
	values, err := d.ResultsForDate(userID, labDate)
	if err != nil {
		return nil, err
	}
	profile, err := d.GetClinicalProfile(userID)
	if err != nil {
		return nil, err
	}
	in := Inputs{Biomarkers: values}
	if profile != nil {
		in.AgeYears = profile.AgeYears(time.Now())
		if profile.Sex != nil {
			in.Sex = *profile.Sex
		}
	}

	defs, err := d.ListOrganScoreDefinitions()
	if err != nil {
		return nil, err
	}
	var out []Result
	for _, def := range defs {
		value, err := Compute(def.FormulaKey, in)
		if err != nil {
			continue
		}
		label, severity, err := def.Interpret(value)
		if err != nil {
			return nil, fmt.Errorf("interpreting %s: %w", def.Code, err)
		}
		snapshot := inputSnapshot(def.RequiredBiomarkers, in)
		if err := d.UpsertOrganScoreResult(userID, def.ID, value, label, severity, snapshot, labDate); err != nil {
			return nil, err
		}
		out = append(out, Result{
			Code:     def.Code,
			Name:     def.Name,
			Value:    value,
			Label:    label,
			Severity: severity,
		})
	}
	return out, nil
}
