package db

import (
	"database/sql"
	"fmt"
)

type BodyMetrics struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"user_id"`
	LogDate    string   `json:"log_date"`
	WeightKg   *float64 `json:"weight_kg,omitempty"`
	HeightCm   *float64 `json:"height_cm,omitempty"`
	WaistCm    *float64 `json:"waist_cm,omitempty"`
	HipCm      *float64 `json:"hip_cm,omitempty"`
	BodyFatPct *float64 `json:"body_fat_pct,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	PhotoNote  *string  `json:"photo_note,omitempty"`
}

// UpsertBodyMetrics stores the day's measurements; re-weighing replaces the
// earlier entry for the date.
func (db *DB) UpsertBodyMetrics(m BodyMetrics) error {
	_, err := db.Exec(`
		INSERT INTO body_metrics
			(user_id, log_date, weight_kg, height_cm, waist_cm, hip_cm, body_fat_pct, notes, photo_note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, log_date) DO UPDATE SET
			weight_kg = excluded.weight_kg,
			height_cm = excluded.height_cm,
			waist_cm = excluded.waist_cm,
			hip_cm = excluded.hip_cm,
			body_fat_pct = excluded.body_fat_pct,
			notes = excluded.notes,
			photo_note = excluded.photo_note`,
		m.UserID, m.LogDate, m.WeightKg, m.HeightCm, m.WaistCm, m.HipCm,
		m.BodyFatPct, m.Notes, m.PhotoNote)
	if err != nil {
		return fmt.Errorf("saving body metrics: %w", err)
	}
	return nil
}

func (db *DB) BodyMetricsHistory(userID int64, limit int) ([]*BodyMetrics, error) {
	if limit <= 0 {
		limit = 90
	}
	rows, err := db.Query(`
		SELECT id, user_id, log_date, weight_kg, height_cm, waist_cm, hip_cm,
		       body_fat_pct, notes, photo_note
		FROM body_metrics WHERE user_id = ?
		ORDER BY log_date DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*BodyMetrics
	for rows.Next() {
		m := &BodyMetrics{}
		var weight, height, waist, hip, bodyFat sql.NullFloat64
		var notes, photo sql.NullString
		if err := rows.Scan(&m.ID, &m.UserID, &m.LogDate, &weight, &height, &waist,
			&hip, &bodyFat, &notes, &photo); err != nil {
			return nil, err
		}
		m.WeightKg = nullFloatPtr(weight)
		m.HeightCm = nullFloatPtr(height)
		m.WaistCm = nullFloatPtr(waist)
		m.HipCm = nullFloatPtr(hip)
		m.BodyFatPct = nullFloatPtr(bodyFat)
		m.Notes = nullStrPtr(notes)
		m.PhotoNote = nullStrPtr(photo)
		out = append(out, m)
	}
	return out, rows.Err()
}

// LatestWeight returns the newest recorded weight, or nil when never logged.
func (db *DB) LatestWeight(userID int64) (*float64, error) {
	var w sql.NullFloat64
	err := db.QueryRow(`
		SELECT weight_kg FROM body_metrics
		WHERE user_id = ? AND weight_kg IS NOT NULL
		ORDER BY log_date DESC LIMIT 1`, userID).Scan(&w)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w.Float64, nil
}

// DexaScan holds the body composition fields a DEXA report provides. All
// measurements are optional; labs report different subsets.
type DexaScan struct {
	ID            int64    `json:"id"`
	UserID        int64    `json:"user_id"`
	ScanDate      string   `json:"scan_date"`
	LabName       *string  `json:"lab_name,omitempty"`
	WeightKg      *float64 `json:"weight_kg,omitempty"`
	TotalFatPct   *float64 `json:"total_fat_pct,omitempty"`
	LeanMassG     *float64 `json:"lean_mass_g,omitempty"`
	BoneMassG     *float64 `json:"bone_mass_g,omitempty"`
	BMDgCm2       *float64 `json:"bmd_g_cm2,omitempty"`
	TScore        *float64 `json:"t_score,omitempty"`
	ZScore        *float64 `json:"z_score,omitempty"`
	VatMassG      *float64 `json:"vat_mass_g,omitempty"`
	VatVolumeCm3  *float64 `json:"vat_volume_cm3,omitempty"`
	AndroidFatPct *float64 `json:"android_fat_pct,omitempty"`
	GynoidFatPct  *float64 `json:"gynoid_fat_pct,omitempty"`
	AGRatio       *float64 `json:"ag_ratio,omitempty"`
	ALMKg         *float64 `json:"alm_kg,omitempty"`
	ALMh2         *float64 `json:"alm_h2,omitempty"`
	FFMI          *float64 `json:"ffmi,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// UpsertDexaScan stores a scan keyed by date, deriving the appendicular lean
// mass index and FFMI when height is on file.
func (db *DB) UpsertDexaScan(s DexaScan) error {
	if s.ALMKg != nil || s.LeanMassG != nil {
		if profile, err := db.GetClinicalProfile(s.UserID); err == nil && profile.HeightCm != nil && *profile.HeightCm > 0 {
			h := *profile.HeightCm / 100
			if s.ALMKg != nil && s.ALMh2 == nil {
				almh2 := *s.ALMKg / (h * h)
				s.ALMh2 = &almh2
			}
			if s.LeanMassG != nil && s.FFMI == nil {
				ffmi := (*s.LeanMassG / 1000) / (h * h)
				s.FFMI = &ffmi
			}
		}
	}
	_, err := db.Exec(`
		INSERT INTO dexa_scans
			(user_id, scan_date, lab_name, weight_kg, total_fat_pct, lean_mass_g, bone_mass_g,
			 bmd_g_cm2, t_score, z_score, vat_mass_g, vat_volume_cm3, android_fat_pct,
			 gynoid_fat_pct, ag_ratio, alm_kg, alm_h2, ffmi, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, scan_date) DO UPDATE SET
			lab_name = excluded.lab_name,
			weight_kg = excluded.weight_kg,
			total_fat_pct = excluded.total_fat_pct,
			lean_mass_g = excluded.lean_mass_g,
			bone_mass_g = excluded.bone_mass_g,
			bmd_g_cm2 = excluded.bmd_g_cm2,
			t_score = excluded.t_score,
			z_score = excluded.z_score,
			vat_mass_g = excluded.vat_mass_g,
			vat_volume_cm3 = excluded.vat_volume_cm3,
			android_fat_pct = excluded.android_fat_pct,
			gynoid_fat_pct = excluded.gynoid_fat_pct,
			ag_ratio = excluded.ag_ratio,
			alm_kg = excluded.alm_kg,
			alm_h2 = excluded.alm_h2,
			ffmi = excluded.ffmi,
			notes = excluded.notes`,
		s.UserID, s.ScanDate, s.LabName, s.WeightKg, s.TotalFatPct, s.LeanMassG, s.BoneMassG,
		s.BMDgCm2, s.TScore, s.ZScore, s.VatMassG, s.VatVolumeCm3, s.AndroidFatPct,
		s.GynoidFatPct, s.AGRatio, s.ALMKg, s.ALMh2, s.FFMI, s.Notes)
	if err != nil {
		return fmt.Errorf("saving DEXA scan: %w", err)
	}
	return nil
}

func (db *DB) DexaScans(userID int64) ([]*DexaScan, error) {
	rows, err := db.Query(`
		SELECT id, user_id, scan_date, lab_name, weight_kg, total_fat_pct, lean_mass_g,
		       bone_mass_g, bmd_g_cm2, t_score, z_score, vat_mass_g, vat_volume_cm3,
		       android_fat_pct, gynoid_fat_pct, ag_ratio, alm_kg, alm_h2, ffmi, notes
		FROM dexa_scans WHERE user_id = ? ORDER BY scan_date`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*DexaScan
	for rows.Next() {
		s := &DexaScan{}
		var labName, notes sql.NullString
		var weight, fatPct, lean, bone, bmd, tScore, zScore sql.NullFloat64
		var vatMass, vatVol, android, gynoid, agRatio, alm, almh2, ffmi sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.UserID, &s.ScanDate, &labName, &weight, &fatPct,
			&lean, &bone, &bmd, &tScore, &zScore, &vatMass, &vatVol, &android,
			&gynoid, &agRatio, &alm, &almh2, &ffmi, &notes); err != nil {
			return nil, err
		}
		s.LabName = nullStrPtr(labName)
		s.Notes = nullStrPtr(notes)
		s.WeightKg = nullFloatPtr(weight)
		s.TotalFatPct = nullFloatPtr(fatPct)
		s.LeanMassG = nullFloatPtr(lean)
		s.BoneMassG = nullFloatPtr(bone)
		s.BMDgCm2 = nullFloatPtr(bmd)
		s.TScore = nullFloatPtr(tScore)
		s.ZScore = nullFloatPtr(zScore)
		s.VatMassG = nullFloatPtr(vatMass)
		s.VatVolumeCm3 = nullFloatPtr(vatVol)
		s.AndroidFatPct = nullFloatPtr(android)
		s.GynoidFatPct = nullFloatPtr(gynoid)
		s.AGRatio = nullFloatPtr(agRatio)
		s.ALMKg = nullFloatPtr(alm)
		s.ALMh2 = nullFloatPtr(almh2)
		s.FFMI = nullFloatPtr(ffmi)
		out = append(out, s)
	}
	return out, rows.Err()
}
