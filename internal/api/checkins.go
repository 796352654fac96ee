package api

import (
	"net/http"

	"github.com/hazyhaar/lifewheel/internal/db"
)

func (a *API) RegisterCheckinRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PUT /api/checkins", a.handleUpsertCheckin)
	mux.HandleFunc("GET /api/checkins", a.handleGetCheckin)
	mux.HandleFunc("GET /api/checkins/recent", a.handleRecentCheckins)
	mux.HandleFunc("GET /api/checkins/streak", a.handleCheckinStreak)

	mux.HandleFunc("PUT /api/reviews", a.handleUpsertWeeklyReview)
	mux.HandleFunc("GET /api/reviews", a.handleGetWeeklyReview)
	mux.HandleFunc("GET /api/reports/weekly", a.handleGetWeeklyReport)
	mux.HandleFunc("GET /api/insights/daily", a.handleGetDailyInsight)
}

func (a *API) handleUpsertCheckin(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.DailyCheckin
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if req.CheckinDate == "" || !dateRe.MatchString(req.CheckinDate) {
		jsonError(w, "checkin_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := a.db.UpsertDailyCheckin(req); err != nil {
		storeError(w, "saving checkin", err)
		return
	}
	// First check-in of the day earns coins; repeats are ignored by the
	// one-award-per-day unique key.
	awarded, _ := a.db.AwardCoins(claims.UserID, 10, "daily_checkin", req.CheckinDate)
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"status":        "saved",
		"coins_awarded": awarded,
	})
}

func (a *API) handleGetCheckin(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	ci, err := a.db.GetCheckin(claims.UserID, date)
	if err != nil {
		storeError(w, "loading checkin", err)
		return
	}
	if ci == nil {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, ci)
}

func (a *API) handleRecentCheckins(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	checkins, err := a.db.RecentCheckins(claims.UserID, queryLimit(r, 30, 365))
	if err != nil {
		storeError(w, "loading checkins", err)
		return
	}
	jsonResp(w, http.StatusOK, checkins)
}

func (a *API) handleCheckinStreak(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	streak, err := a.db.CheckinStreak(claims.UserID, date)
	if err != nil {
		storeError(w, "computing streak", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]int{"streak": streak})
}

// --- Weekly reviews & reports ---

func (a *API) handleUpsertWeeklyReview(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.WeeklyReview
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if req.WeekStart == "" || !dateRe.MatchString(req.WeekStart) {
		jsonError(w, "week_start must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := a.db.UpsertWeeklyReview(req); err != nil {
		storeError(w, "saving review", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (a *API) handleGetWeeklyReview(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	weekStart := r.URL.Query().Get("week_start")
	if !dateRe.MatchString(weekStart) {
		jsonError(w, "week_start must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	review, err := a.db.GetWeeklyReview(claims.UserID, weekStart)
	if err != nil {
		storeError(w, "loading review", err)
		return
	}
	if review == nil {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, review)
}

func (a *API) handleGetWeeklyReport(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	weekStart := r.URL.Query().Get("week_start")
	if !dateRe.MatchString(weekStart) {
		jsonError(w, "week_start must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	report, stats, err := a.db.GetAutoWeeklyReport(claims.UserID, weekStart)
	if err != nil {
		storeError(w, "loading report", err)
		return
	}
	if report == "" {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{
		"week_start": weekStart,
		"report":     report,
		"stats":      stats,
	})
}

func (a *API) handleGetDailyInsight(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	insight, err := a.db.GetDailyInsight(claims.UserID, date)
	if err != nil {
		storeError(w, "loading insight", err)
		return
	}
	if insight == "" {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"date": date, "insight": insight})
}
