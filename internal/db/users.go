package db

import (
	"database/sql"
	"fmt"
	"time"
)

type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateUserInput struct {
	Username     string
	PasswordHash string
	DisplayName  string
	Email        string
}

func (db *DB) CreateUser(input CreateUserInput) (*User, error) {
	var displayPtr, emailPtr *string
	if input.DisplayName != "" {
		displayPtr = &input.DisplayName
	}
	if input.Email != "" {
		emailPtr = &input.Email
	}
	res, err := db.Exec(`
		INSERT INTO users (username, password_hash, display_name, email)
		VALUES (?, ?, ?, ?)`, input.Username, input.PasswordHash, displayPtr, emailPtr)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &User{
		ID:          id,
		Username:    input.Username,
		DisplayName: displayPtr,
		Email:       emailPtr,
	}, nil
}

// GetUserByUsername returns the user and their password hash for login checks.
func (db *DB) GetUserByUsername(username string) (*User, string, error) {
	u := &User{}
	var display, email sql.NullString
	var passwordHash string
	err := db.QueryRow(`
		SELECT id, username, password_hash, display_name, email, created_at
		FROM users WHERE username = ?`, username).Scan(
		&u.ID, &u.Username, &passwordHash, &display, &email, &u.CreatedAt)
	if err != nil {
		return nil, "", err
	}
	if display.Valid {
		u.DisplayName = &display.String
	}
	if email.Valid {
		u.Email = &email.String
	}
	return u, passwordHash, nil
}

func (db *DB) GetUserByID(id int64) (*User, error) {
	u := &User{}
	var display, email sql.NullString
	err := db.QueryRow(`
		SELECT id, username, display_name, email, created_at
		FROM users WHERE id = ?`, id).Scan(
		&u.ID, &u.Username, &display, &email, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if display.Valid {
		u.DisplayName = &display.String
	}
	if email.Valid {
		u.Email = &email.String
	}
	return u, nil
}

func (db *DB) UpdateUserProfile(id int64, displayName, email string) error {
	_, err := db.Exec(`
		UPDATE users SET display_name = ?, email = ?, updated_at = datetime('now')
		WHERE id = ?`, displayName, email, id)
	return err
}

func (db *DB) SetGoalWeight(userID int64, goalWeightKg float64) error {
	_, err := db.Exec(`
		INSERT INTO user_settings (user_id, goal_weight_kg) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET goal_weight_kg = excluded.goal_weight_kg,
			updated_at = datetime('now')`, userID, goalWeightKg)
	return err
}

func (db *DB) GetGoalWeight(userID int64) (*float64, error) {
	var w sql.NullFloat64
	err := db.QueryRow(`SELECT goal_weight_kg FROM user_settings WHERE user_id = ?`, userID).Scan(&w)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !w.Valid {
		return nil, nil
	}
	return &w.Float64, nil
}

// ClinicalProfile holds the demographics and history the organ score
// formulas draw on. All fields beyond user_id are optional.
type ClinicalProfile struct {
	UserID           int64    `json:"user_id"`
	DateOfBirth      *string  `json:"date_of_birth,omitempty"`
	Sex              *string  `json:"sex,omitempty"`
	HeightCm         *float64 `json:"height_cm,omitempty"`
	WeightKg         *float64 `json:"weight_kg,omitempty"`
	SmokingStatus    *string  `json:"smoking_status,omitempty"`
	SystolicBP       *float64 `json:"systolic_bp,omitempty"`
	DiastolicBP      *float64 `json:"diastolic_bp,omitempty"`
	OnBPMedication   bool     `json:"on_bp_medication"`
	OnStatin         bool     `json:"on_statin"`
	DiabetesType     string   `json:"diabetes_type"`
	FamilyHistoryCHD bool     `json:"family_history_chd"`
}

func (db *DB) GetClinicalProfile(userID int64) (*ClinicalProfile, error) {
	p := &ClinicalProfile{UserID: userID}
	var dob, sex, smoking sql.NullString
	var height, weight, sbp, dbp sql.NullFloat64
	var onBPMed, onStatin, famCHD int
	err := db.QueryRow(`
		SELECT date_of_birth, sex, height_cm, weight_kg, smoking_status,
		       systolic_bp, diastolic_bp, on_bp_medication, on_statin,
		       diabetes_type, family_history_chd
		FROM user_clinical_profile WHERE user_id = ?`, userID).Scan(
		&dob, &sex, &height, &weight, &smoking, &sbp, &dbp,
		&onBPMed, &onStatin, &p.DiabetesType, &famCHD)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if dob.Valid {
		p.DateOfBirth = &dob.String
	}
	if sex.Valid {
		p.Sex = &sex.String
	}
	if smoking.Valid {
		p.SmokingStatus = &smoking.String
	}
	if height.Valid {
		p.HeightCm = &height.Float64
	}
	if weight.Valid {
		p.WeightKg = &weight.Float64
	}
	if sbp.Valid {
		p.SystolicBP = &sbp.Float64
	}
	if dbp.Valid {
		p.DiastolicBP = &dbp.Float64
	}
	p.OnBPMedication = onBPMed == 1
	p.OnStatin = onStatin == 1
	p.FamilyHistoryCHD = famCHD == 1
	return p, nil
}

func (db *DB) UpsertClinicalProfile(p ClinicalProfile) error {
	if p.DiabetesType == "" {
		p.DiabetesType = "none"
	}
	_, err := db.Exec(`
		INSERT INTO user_clinical_profile
			(user_id, date_of_birth, sex, height_cm, weight_kg, smoking_status,
			 systolic_bp, diastolic_bp, on_bp_medication, on_statin, diabetes_type, family_history_chd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			date_of_birth = excluded.date_of_birth,
			sex = excluded.sex,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			smoking_status = excluded.smoking_status,
			systolic_bp = excluded.systolic_bp,
			diastolic_bp = excluded.diastolic_bp,
			on_bp_medication = excluded.on_bp_medication,
			on_statin = excluded.on_statin,
			diabetes_type = excluded.diabetes_type,
			family_history_chd = excluded.family_history_chd,
			updated_at = datetime('now')`,
		p.UserID, p.DateOfBirth, p.Sex, p.HeightCm, p.WeightKg, p.SmokingStatus,
		p.SystolicBP, p.DiastolicBP, boolToInt(p.OnBPMedication), boolToInt(p.OnStatin),
		p.DiabetesType, boolToInt(p.FamilyHistoryCHD))
	return err
}

// AgeYears derives the user's age from date_of_birth, or 0 when unset.
func (p *ClinicalProfile) AgeYears(now time.Time) int {
	if p.DateOfBirth == nil {
		return 0
	}
	dob, err := time.Parse("2006-01-02", *p.DateOfBirth)
	if err != nil {
		return 0
	}
	years := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		years--
	}
	return years
}
