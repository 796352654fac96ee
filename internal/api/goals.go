package api

import (
	"net/http"

	"github.com/hazyhaar/lifewheel/internal/db"
)

func (a *API) RegisterGoalRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/goals", a.handleCreateGoal)
	mux.HandleFunc("GET /api/goals", a.handleListGoals)
	mux.HandleFunc("GET /api/goals/{id}", a.handleGetGoal)
	mux.HandleFunc("POST /api/goals/{id}/progress", a.handleLogGoalProgress)
	mux.HandleFunc("GET /api/goals/{id}/progress", a.handleGoalProgressHistory)
	mux.HandleFunc("POST /api/goals/{id}/complete", a.handleCompleteGoal)
	mux.HandleFunc("POST /api/goals/{id}/abandon", a.handleAbandonGoal)
	mux.HandleFunc("POST /api/goals/{id}/pause", a.handlePauseGoal)
	mux.HandleFunc("POST /api/goals/{id}/resume", a.handleResumeGoal)

	mux.HandleFunc("POST /api/habits", a.handleCreateHabit)
	mux.HandleFunc("GET /api/habits", a.handleListHabits)
	mux.HandleFunc("POST /api/habits/{id}/archive", a.handleArchiveHabit)
	mux.HandleFunc("POST /api/habits/{id}/reactivate", a.handleReactivateHabit)
	mux.HandleFunc("POST /api/habits/{id}/toggle", a.handleToggleHabit)
	mux.HandleFunc("PUT /api/habits/{id}/log", a.handleSetHabitLog)
	mux.HandleFunc("GET /api/habits/{id}/streak", a.handleHabitStreak)
	mux.HandleFunc("GET /api/habits/log", a.handleHabitLogs)
	mux.HandleFunc("GET /api/habits/completion", a.handleHabitCompletion)
}

// --- Goals ---

func (a *API) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		PillarID     int64    `json:"pillar_id"`
		Title        string   `json:"title"`
		Specific     string   `json:"specific"`
		Measurable   string   `json:"measurable"`
		Achievable   string   `json:"achievable"`
		Relevant     string   `json:"relevant"`
		TimeBound    string   `json:"time_bound"`
		EvidenceBase string   `json:"evidence_base"`
		Strategic    string   `json:"strategic"`
		Tailored     string   `json:"tailored"`
		TargetValue  *float64 `json:"target_value"`
		Unit         string   `json:"unit"`
		StartDate    string   `json:"start_date"`
		TargetDate   string   `json:"target_date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		jsonError(w, "title is required", http.StatusBadRequest)
		return
	}
	goal, err := a.db.CreateGoal(db.CreateGoalInput{
		UserID:       claims.UserID,
		PillarID:     req.PillarID,
		Title:        req.Title,
		Specific:     req.Specific,
		Measurable:   req.Measurable,
		Achievable:   req.Achievable,
		Relevant:     req.Relevant,
		TimeBound:    req.TimeBound,
		EvidenceBase: req.EvidenceBase,
		Strategic:    req.Strategic,
		Tailored:     req.Tailored,
		TargetValue:  req.TargetValue,
		Unit:         req.Unit,
		StartDate:    req.StartDate,
		TargetDate:   req.TargetDate,
	})
	if err != nil {
		storeError(w, "creating goal", err)
		return
	}
	jsonResp(w, http.StatusCreated, goal)
}

func (a *API) handleListGoals(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	status := r.URL.Query().Get("status")
	switch status {
	case "", "active", "completed", "abandoned", "paused":
	default:
		jsonError(w, "invalid status filter", http.StatusBadRequest)
		return
	}
	goals, err := a.db.ListGoals(claims.UserID, status)
	if err != nil {
		storeError(w, "listing goals", err)
		return
	}
	jsonResp(w, http.StatusOK, goals)
}

func (a *API) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	goal, err := a.db.GetGoal(id)
	if err != nil {
		storeError(w, "loading goal", err)
		return
	}
	if goal.UserID != claims.UserID {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, goal)
}

func (a *API) handleLogGoalProgress(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		ProgressPct  int      `json:"progress_pct"`
		CurrentValue *float64 `json:"current_value"`
		Notes        string   `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProgressPct < 0 || req.ProgressPct > 100 {
		jsonError(w, "progress_pct must be 0-100", http.StatusBadRequest)
		return
	}
	if err := a.db.LogGoalProgress(id, claims.UserID, req.ProgressPct, req.CurrentValue, req.Notes); err != nil {
		storeError(w, "logging goal progress", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "logged"})
}

func (a *API) handleGoalProgressHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	goal, err := a.db.GetGoal(id)
	if err != nil || goal.UserID != claims.UserID {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	history, err := a.db.GoalProgressHistory(id)
	if err != nil {
		storeError(w, "loading goal progress", err)
		return
	}
	jsonResp(w, http.StatusOK, history)
}

func (a *API) handleCompleteGoal(w http.ResponseWriter, r *http.Request) {
	a.goalTransition(w, r, func(id, userID int64) error {
		return a.db.CompleteGoal(id, userID)
	})
}

func (a *API) handleAbandonGoal(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.db.AbandonGoal(id, claims.UserID, req.Reason); err != nil {
		storeError(w, "abandoning goal", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "abandoned"})
}

func (a *API) handlePauseGoal(w http.ResponseWriter, r *http.Request) {
	a.goalTransition(w, r, func(id, userID int64) error {
		return a.db.PauseGoal(id, userID)
	})
}

func (a *API) handleResumeGoal(w http.ResponseWriter, r *http.Request) {
	a.goalTransition(w, r, func(id, userID int64) error {
		return a.db.ResumeGoal(id, userID)
	})
}

func (a *API) goalTransition(w http.ResponseWriter, r *http.Request, fn func(id, userID int64) error) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := fn(id, claims.UserID); err != nil {
		storeError(w, "updating goal status", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "updated"})
}

// --- Habits ---

func (a *API) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		PillarID                int64  `json:"pillar_id"`
		Name                    string `json:"name"`
		Description             string `json:"description"`
		Frequency               string `json:"frequency"`
		CustomDays              string `json:"custom_days"`
		TargetPerDay            int    `json:"target_per_day"`
		CueBehavior             string `json:"cue_behavior"`
		Location                string `json:"location"`
		ImplementationIntention string `json:"implementation_intention"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}
	habit, err := a.db.CreateHabit(db.CreateHabitInput{
		UserID:                  claims.UserID,
		PillarID:                req.PillarID,
		Name:                    req.Name,
		Description:             req.Description,
		Frequency:               req.Frequency,
		CustomDays:              req.CustomDays,
		TargetPerDay:            req.TargetPerDay,
		CueBehavior:             req.CueBehavior,
		Location:                req.Location,
		ImplementationIntention: req.ImplementationIntention,
	})
	if err != nil {
		storeError(w, "creating habit", err)
		return
	}
	jsonResp(w, http.StatusCreated, habit)
}

func (a *API) handleListHabits(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	activeOnly := r.URL.Query().Get("all") != "true"
	habits, err := a.db.ListHabits(claims.UserID, activeOnly)
	if err != nil {
		storeError(w, "listing habits", err)
		return
	}
	jsonResp(w, http.StatusOK, habits)
}

func (a *API) handleArchiveHabit(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.db.ArchiveHabit(id, claims.UserID); err != nil {
		storeError(w, "archiving habit", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "archived"})
}

func (a *API) handleReactivateHabit(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.db.ReactivateHabit(id, claims.UserID); err != nil {
		storeError(w, "reactivating habit", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "active"})
}

// handleToggleHabit flips today's (or ?date=) completion for habit {id}.
func (a *API) handleToggleHabit(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	count, err := a.db.ToggleHabitLog(id, claims.UserID, date)
	if err != nil {
		storeError(w, "toggling habit", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"log_date":        date,
		"completed_count": count,
	})
}

func (a *API) handleSetHabitLog(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		LogDate        string `json:"log_date"`
		CompletedCount int    `json:"completed_count"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !dateRe.MatchString(req.LogDate) {
		jsonError(w, "log_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if req.CompletedCount < 0 {
		jsonError(w, "completed_count must be >= 0", http.StatusBadRequest)
		return
	}
	if err := a.db.SetHabitLog(id, claims.UserID, req.LogDate, req.CompletedCount); err != nil {
		storeError(w, "logging habit", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "logged"})
}

func (a *API) handleHabitStreak(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	habit, err := a.db.GetHabit(id)
	if err != nil || habit.UserID != claims.UserID {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	streak, err := a.db.HabitStreak(id, date)
	if err != nil {
		storeError(w, "computing streak", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]int{"streak": streak})
}

func (a *API) handleHabitLogs(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	q := r.URL.Query()
	if from, to := q.Get("from"), q.Get("to"); from != "" || to != "" {
		if !dateRe.MatchString(from) || !dateRe.MatchString(to) {
			jsonError(w, "from and to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		logs, err := a.db.HabitLogsForRange(claims.UserID, from, to)
		if err != nil {
			storeError(w, "loading habit logs", err)
			return
		}
		jsonResp(w, http.StatusOK, logs)
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	logs, err := a.db.HabitLogsForDate(claims.UserID, date)
	if err != nil {
		storeError(w, "loading habit logs", err)
		return
	}
	jsonResp(w, http.StatusOK, logs)
}

func (a *API) handleHabitCompletion(w http.ResponseWriter, r *http.Request) {
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
	pct, err := a.db.HabitCompletionPct(claims.UserID, from, to)
	if err != nil {
		storeError(w, "computing completion", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]float64{"completion_pct": pct})
}
