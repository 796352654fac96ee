package api

import (
	"encoding/json"
	"net/http"

	"github.com/hazyhaar/lifewheel/internal/db"
)

func (a *API) RegisterExerciseRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/exercise", a.handleLogExercise)
	mux.HandleFunc("GET /api/exercise", a.handleExerciseRange)
	mux.HandleFunc("GET /api/exercise/week", a.handleExerciseWeek)
	mux.HandleFunc("POST /api/exercise/program", a.handleSaveProgram)
	mux.HandleFunc("GET /api/exercise/program", a.handleGetProgram)
	mux.HandleFunc("POST /api/workouts/sets", a.handleLogWorkoutSet)
	mux.HandleFunc("GET /api/workouts/sets", a.handleWorkoutSets)

	mux.HandleFunc("PUT /api/cycling/profile", a.handleUpsertCyclingProfile)
	mux.HandleFunc("GET /api/cycling/profile", a.handleGetCyclingProfile)
	mux.HandleFunc("POST /api/cycling/rides", a.handleLogRide)
	mux.HandleFunc("GET /api/cycling/rides", a.handleRideHistory)
	mux.HandleFunc("GET /api/cycling/progression", a.handleGetProgression)
	mux.HandleFunc("POST /api/cycling/progression/adjust", a.handleAdjustProgression)
	mux.HandleFunc("POST /api/cycling/plan", a.handleSaveCyclingPlan)
	mux.HandleFunc("GET /api/cycling/plan", a.handleActiveCyclingPlan)
}

// --- Exercise ---

func (a *API) handleLogExercise(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.ExerciseLog
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if !dateRe.MatchString(req.ExerciseDate) {
		jsonError(w, "exercise_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if req.DurationMin <= 0 {
		jsonError(w, "duration_min must be positive", http.StatusBadRequest)
		return
	}
	id, inserted, err := a.db.LogExercise(req)
	if err != nil {
		storeError(w, "logging exercise", err)
		return
	}
	status := http.StatusCreated
	if !inserted {
		// Duplicate import (same external_id); already recorded.
		status = http.StatusOK
	}
	jsonResp(w, status, map[string]interface{}{"id": id, "inserted": inserted})
}

func (a *API) handleExerciseRange(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	if !dateRe.MatchString(from) || !dateRe.MatchString(to) {
		jsonError(w, "from and to must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	logs, err := a.db.ExerciseLogsForRange(claims.UserID, from, to)
	if err != nil {
		storeError(w, "loading exercise logs", err)
		return
	}
	jsonResp(w, http.StatusOK, logs)
}

func (a *API) handleExerciseWeek(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	week, err := a.db.ExerciseWeekSummary(claims.UserID, db.WeekStartOf(date))
	if err != nil {
		storeError(w, "loading exercise week", err)
		return
	}
	if week == nil {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, week)
}

func (a *API) handleSaveProgram(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		Level    string          `json:"level"`
		Schedule string          `json:"schedule"`
		Goal     string          `json:"goal"`
		Program  json.RawMessage `json:"program"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Program) == 0 {
		jsonError(w, "program is required", http.StatusBadRequest)
		return
	}
	id, err := a.db.SaveExerciseProgram(claims.UserID, req.Level, req.Schedule, req.Goal, string(req.Program))
	if err != nil {
		storeError(w, "saving program", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	program, err := a.db.LatestExerciseProgram(claims.UserID)
	if err != nil {
		storeError(w, "loading program", err)
		return
	}
	if program == "" {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(program))
}

func (a *API) handleLogWorkoutSet(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.WorkoutSet
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if !dateRe.MatchString(req.WorkoutDate) || req.ExerciseName == "" {
		jsonError(w, "workout_date and exercise_name are required", http.StatusBadRequest)
		return
	}
	id, err := a.db.LogWorkoutSet(req)
	if err != nil {
		storeError(w, "logging workout set", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleWorkoutSets(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	sets, err := a.db.WorkoutSetsForDate(claims.UserID, date)
	if err != nil {
		storeError(w, "loading workout sets", err)
		return
	}
	jsonResp(w, http.StatusOK, sets)
}

// --- Cycling ---

func (a *API) handleUpsertCyclingProfile(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.CyclingProfile
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if req.FTPWatts != nil && (*req.FTPWatts < 50 || *req.FTPWatts > 600) {
		jsonError(w, "ftp_watts out of range", http.StatusBadRequest)
		return
	}
	if err := a.db.UpsertCyclingProfile(req); err != nil {
		storeError(w, "saving cycling profile", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (a *API) handleGetCyclingProfile(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	profile, err := a.db.GetCyclingProfile(claims.UserID)
	if err != nil {
		storeError(w, "loading cycling profile", err)
		return
	}
	if profile == nil {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, profile)
}

func (a *API) handleLogRide(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.CyclingRide
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if !dateRe.MatchString(req.RideDate) {
		jsonError(w, "ride_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if req.DurationMin <= 0 {
		jsonError(w, "duration_min must be positive", http.StatusBadRequest)
		return
	}
	id, err := a.db.LogRide(req)
	if err != nil {
		storeError(w, "logging ride", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleRideHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	rides, err := a.db.RideHistory(claims.UserID, queryLimit(r, 30, 365))
	if err != nil {
		storeError(w, "loading ride history", err)
		return
	}
	jsonResp(w, http.StatusOK, rides)
}

func (a *API) handleGetProgression(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	levels, err := a.db.GetProgressionLevels(claims.UserID)
	if err != nil {
		storeError(w, "loading progression levels", err)
		return
	}
	jsonResp(w, http.StatusOK, levels)
}

func (a *API) handleAdjustProgression(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		Zone             string `json:"zone"`
		DifficultySurvey int    `json:"difficulty_survey"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DifficultySurvey < 1 || req.DifficultySurvey > 10 {
		jsonError(w, "difficulty_survey must be 1-10", http.StatusBadRequest)
		return
	}
	level, err := a.db.AdjustProgression(claims.UserID, req.Zone, req.DifficultySurvey)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"zone":  req.Zone,
		"level": level,
	})
}

func (a *API) handleSaveCyclingPlan(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		Phase       string          `json:"phase"`
		StartDate   string          `json:"start_date"`
		Weeks       int             `json:"weeks"`
		DaysPerWeek int             `json:"days_per_week"`
		TSSPerWeek  float64         `json:"tss_per_week"`
		Program     json.RawMessage `json:"program"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !dateRe.MatchString(req.StartDate) || len(req.Program) == 0 {
		jsonError(w, "start_date and program are required", http.StatusBadRequest)
		return
	}
	id, err := a.db.SaveCyclingPlan(claims.UserID, req.Phase, req.StartDate,
		req.Weeks, req.DaysPerWeek, req.TSSPerWeek, string(req.Program))
	if err != nil {
		storeError(w, "saving cycling plan", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleActiveCyclingPlan(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	plan, err := a.db.ActiveCyclingPlan(claims.UserID)
	if err != nil {
		storeError(w, "loading cycling plan", err)
		return
	}
	if plan == "" {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(plan))
}
