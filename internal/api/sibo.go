package api

import (
	"net/http"

	"github.com/hazyhaar/lifewheel/internal/db"
)

func (a *API) RegisterSiboRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PUT /api/sibo/symptoms", a.handleUpsertSiboSymptoms)
	mux.HandleFunc("GET /api/sibo/symptoms", a.handleSiboSymptomHistory)
	mux.HandleFunc("POST /api/sibo/foods", a.handleLogSiboFood)
	mux.HandleFunc("GET /api/sibo/foods", a.handleSiboFoodsForDate)

	mux.HandleFunc("POST /api/sibo/phases", a.handleStartFodmapPhase)
	mux.HandleFunc("GET /api/sibo/phases/active", a.handleActiveFodmapPhase)
	mux.HandleFunc("GET /api/sibo/phases", a.handleFodmapPhaseHistory)

	mux.HandleFunc("POST /api/sibo/challenges", a.handleStartReintroChallenge)
	mux.HandleFunc("PUT /api/sibo/challenges/{id}/day", a.handleRecordChallengeDay)
	mux.HandleFunc("POST /api/sibo/challenges/{id}/finish", a.handleFinishReintroChallenge)
	mux.HandleFunc("GET /api/sibo/challenges", a.handleReintroChallenges)

	mux.HandleFunc("GET /api/sibo/state", a.handleGetSiboState)
	mux.HandleFunc("PUT /api/sibo/diet", a.handleSetActiveDiet)
}

func (a *API) handleUpsertSiboSymptoms(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.SiboSymptomLog
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if !dateRe.MatchString(req.LogDate) {
		jsonError(w, "log_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := a.db.UpsertSiboSymptoms(req); err != nil {
		storeError(w, "saving symptoms", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (a *API) handleSiboSymptomHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	history, err := a.db.SiboSymptomHistory(claims.UserID, queryLimit(r, 30, 365))
	if err != nil {
		storeError(w, "loading symptom history", err)
		return
	}
	jsonResp(w, http.StatusOK, history)
}

func (a *API) handleLogSiboFood(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.SiboFoodLog
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if !dateRe.MatchString(req.LogDate) || req.FoodName == "" {
		jsonError(w, "log_date and food_name are required", http.StatusBadRequest)
		return
	}
	id, err := a.db.LogSiboFood(req)
	if err != nil {
		storeError(w, "logging food", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleSiboFoodsForDate(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	foods, err := a.db.SiboFoodsForDate(claims.UserID, date)
	if err != nil {
		storeError(w, "loading foods", err)
		return
	}
	jsonResp(w, http.StatusOK, foods)
}

// --- FODMAP phases ---

func (a *API) handleStartFodmapPhase(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		Phase        string `json:"phase"`
		StartedDate  string `json:"started_date"`
		ReintroGroup string `json:"reintro_group"`
		Notes        string `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	switch req.Phase {
	case "elimination", "reintroduction", "personalization":
	default:
		jsonError(w, "invalid phase", http.StatusBadRequest)
		return
	}
	if !dateRe.MatchString(req.StartedDate) {
		jsonError(w, "started_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	id, err := a.db.StartFodmapPhase(claims.UserID, req.Phase, req.StartedDate, req.ReintroGroup, req.Notes)
	if err != nil {
		storeError(w, "starting phase", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleActiveFodmapPhase(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	phase, err := a.db.ActiveFodmapPhase(claims.UserID)
	if err != nil {
		storeError(w, "loading active phase", err)
		return
	}
	if phase == nil {
		jsonError(w, "no active phase", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, phase)
}

func (a *API) handleFodmapPhaseHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	history, err := a.db.FodmapPhaseHistory(claims.UserID)
	if err != nil {
		storeError(w, "loading phase history", err)
		return
	}
	jsonResp(w, http.StatusOK, history)
}

// --- Reintroduction challenges ---

func (a *API) handleStartReintroChallenge(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		FodmapGroup   string `json:"fodmap_group"`
		ChallengeFood string `json:"challenge_food"`
		StartDate     string `json:"start_date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FodmapGroup == "" || req.ChallengeFood == "" || !dateRe.MatchString(req.StartDate) {
		jsonError(w, "fodmap_group, challenge_food and start_date are required", http.StatusBadRequest)
		return
	}
	id, err := a.db.StartReintroChallenge(claims.UserID, req.FodmapGroup, req.ChallengeFood, req.StartDate)
	if err != nil {
		storeError(w, "starting challenge", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleRecordChallengeDay(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Day      int    `json:"day"`
		Symptoms string `json:"symptoms"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.db.RecordChallengeDay(id, claims.UserID, req.Day, req.Symptoms); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (a *API) handleFinishReintroChallenge(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		EndDate    string `json:"end_date"`
		Tolerance  string `json:"tolerance"`
		WashoutEnd string `json:"washout_end"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	switch req.Tolerance {
	case "tolerated", "partial", "not_tolerated":
	default:
		jsonError(w, "invalid tolerance", http.StatusBadRequest)
		return
	}
	if err := a.db.FinishReintroChallenge(id, claims.UserID, req.EndDate, req.Tolerance, req.WashoutEnd); err != nil {
		storeError(w, "finishing challenge", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "finished"})
}

func (a *API) handleReintroChallenges(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	challenges, err := a.db.ReintroChallenges(claims.UserID)
	if err != nil {
		storeError(w, "loading challenges", err)
		return
	}
	jsonResp(w, http.StatusOK, challenges)
}

// --- State ---

func (a *API) handleGetSiboState(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	state, err := a.db.GetSiboState(claims.UserID)
	if err != nil {
		storeError(w, "loading state", err)
		return
	}
	jsonResp(w, http.StatusOK, state)
}

func (a *API) handleSetActiveDiet(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		Diet string `json:"diet"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Diet == "" {
		jsonError(w, "diet is required", http.StatusBadRequest)
		return
	}
	if err := a.db.SetActiveDiet(claims.UserID, req.Diet); err != nil {
		storeError(w, "setting diet", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "saved"})
}
