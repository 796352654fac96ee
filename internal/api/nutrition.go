package api

import (
	"net/http"

	"github.com/hazyhaar/lifewheel/internal/db"
)

func (a *API) RegisterNutritionRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/meals", a.handleLogMeal)
	mux.HandleFunc("DELETE /api/meals/{id}", a.handleDeleteMeal)
	mux.HandleFunc("GET /api/meals", a.handleMealsForDate)
	mux.HandleFunc("GET /api/nutrition/day", a.handleNutritionDay)

	mux.HandleFunc("GET /api/foods", a.handleSearchFoods)
	mux.HandleFunc("GET /api/foods/{id}", a.handleGetFood)
	mux.HandleFunc("POST /api/food-log", a.handleLogFoodItem)
	mux.HandleFunc("DELETE /api/food-log/{id}", a.handleDeleteFoodLogItem)
	mux.HandleFunc("GET /api/food-log", a.handleFoodLogForDate)
	mux.HandleFunc("GET /api/calories/day", a.handleCalorieDay)
	mux.HandleFunc("PUT /api/calories/targets", a.handleSetCalorieTargets)
	mux.HandleFunc("GET /api/calories/targets", a.handleGetCalorieTargets)

	mux.HandleFunc("POST /api/fasting/start", a.handleStartFast)
	mux.HandleFunc("POST /api/fasting/end", a.handleEndFast)
	mux.HandleFunc("GET /api/fasting/active", a.handleActiveFast)
	mux.HandleFunc("GET /api/fasting/history", a.handleFastingHistory)
}

// --- Meals ---

func (a *API) handleLogMeal(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.MealLog
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if !dateRe.MatchString(req.LogDate) {
		jsonError(w, "log_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	id, err := a.db.LogMeal(req)
	if err != nil {
		storeError(w, "logging meal", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.db.DeleteMeal(id, claims.UserID); err != nil {
		storeError(w, "deleting meal", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *API) handleMealsForDate(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	meals, err := a.db.MealsForDate(claims.UserID, date)
	if err != nil {
		storeError(w, "loading meals", err)
		return
	}
	jsonResp(w, http.StatusOK, meals)
}

func (a *API) handleNutritionDay(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	day, err := a.db.NutritionDaySummary(claims.UserID, date)
	if err != nil {
		storeError(w, "loading nutrition day", err)
		return
	}
	if day == nil {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, day)
}

// --- Food database & calorie tracking ---

func (a *API) handleSearchFoods(w http.ResponseWriter, r *http.Request) {
	if a.requireAuth(w, r) == nil {
		return
	}
	q := r.URL.Query()
	foods, err := a.db.SearchFoods(q.Get("q"), q.Get("category"), queryLimit(r, 25, 100))
	if err != nil {
		storeError(w, "searching foods", err)
		return
	}
	jsonResp(w, http.StatusOK, foods)
}

func (a *API) handleGetFood(w http.ResponseWriter, r *http.Request) {
	if a.requireAuth(w, r) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	food, err := a.db.GetFood(id)
	if err != nil {
		storeError(w, "loading food", err)
		return
	}
	jsonResp(w, http.StatusOK, food)
}

func (a *API) handleLogFoodItem(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		FoodID   int64   `json:"food_id"`
		LogDate  string  `json:"log_date"`
		MealType string  `json:"meal_type"`
		Servings float64 `json:"servings"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !dateRe.MatchString(req.LogDate) {
		jsonError(w, "log_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if req.Servings <= 0 {
		jsonError(w, "servings must be positive", http.StatusBadRequest)
		return
	}
	id, err := a.db.LogFoodItem(claims.UserID, req.FoodID, req.LogDate, req.MealType, req.Servings)
	if err != nil {
		storeError(w, "logging food item", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleDeleteFoodLogItem(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.db.DeleteFoodLogItem(id, claims.UserID); err != nil {
		storeError(w, "deleting food log item", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (a *API) handleFoodLogForDate(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	items, err := a.db.FoodLogForDate(claims.UserID, date)
	if err != nil {
		storeError(w, "loading food log", err)
		return
	}
	jsonResp(w, http.StatusOK, items)
}

func (a *API) handleCalorieDay(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	day, err := a.db.CalorieDaySummary(claims.UserID, date)
	if err != nil {
		storeError(w, "loading calorie day", err)
		return
	}
	if day == nil {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, day)
}

func (a *API) handleSetCalorieTargets(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.CalorieTargets
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.db.SetCalorieTargets(claims.UserID, req); err != nil {
		storeError(w, "saving calorie targets", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (a *API) handleGetCalorieTargets(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	targets, err := a.db.GetCalorieTargets(claims.UserID)
	if err != nil {
		storeError(w, "loading calorie targets", err)
		return
	}
	if targets == nil {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, targets)
}

// --- Fasting ---

func (a *API) handleStartFast(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		StartTime   string  `json:"start_time"`
		TargetHours float64 `json:"target_hours"`
		FastingType string  `json:"fasting_type"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id, err := a.db.StartFast(claims.UserID, req.StartTime, req.TargetHours, req.FastingType)
	if err != nil {
		jsonError(w, err.Error(), http.StatusConflict)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleEndFast(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		EndTime string `json:"end_time"`
		Notes   string `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	session, err := a.db.EndFast(claims.UserID, req.EndTime, req.Notes)
	if err != nil {
		storeError(w, "ending fast", err)
		return
	}
	jsonResp(w, http.StatusOK, session)
}

func (a *API) handleActiveFast(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	session, err := a.db.ActiveFast(claims.UserID)
	if err != nil {
		storeError(w, "loading active fast", err)
		return
	}
	if session == nil {
		jsonError(w, "no active fast", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, session)
}

func (a *API) handleFastingHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	history, err := a.db.FastingHistory(claims.UserID, queryLimit(r, 30, 200))
	if err != nil {
		storeError(w, "loading fasting history", err)
		return
	}
	jsonResp(w, http.StatusOK, history)
}
