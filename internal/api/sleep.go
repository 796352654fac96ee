package api

import (
	"net/http"

	"github.com/hazyhaar/lifewheel/internal/db"
)

func (a *API) RegisterSleepRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PUT /api/sleep", a.handleUpsertSleepLog)
	mux.HandleFunc("GET /api/sleep", a.handleGetSleepLog)
	mux.HandleFunc("GET /api/sleep/history", a.handleSleepHistory)
	mux.HandleFunc("GET /api/sleep/average", a.handleAvgSleep)
}

func (a *API) handleUpsertSleepLog(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.SleepLog
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if !dateRe.MatchString(req.SleepDate) {
		jsonError(w, "sleep_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	saved, err := a.db.UpsertSleepLog(req)
	if err != nil {
		storeError(w, "saving sleep log", err)
		return
	}
	jsonResp(w, http.StatusOK, saved)
}

func (a *API) handleGetSleepLog(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	log, err := a.db.GetSleepLog(claims.UserID, date)
	if err != nil {
		storeError(w, "loading sleep log", err)
		return
	}
	if log == nil {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, log)
}

func (a *API) handleSleepHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	history, err := a.db.SleepHistory(claims.UserID, queryLimit(r, 30, 365))
	if err != nil {
		storeError(w, "loading sleep history", err)
		return
	}
	jsonResp(w, http.StatusOK, history)
}

func (a *API) handleAvgSleep(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	nights := queryLimit(r, 7, 90)
	avgMin, avgScore, err := a.db.AvgSleep(claims.UserID, nights)
	if err != nil {
		storeError(w, "computing sleep average", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]float64{
		"avg_sleep_min": avgMin,
		"avg_score":     avgScore,
	})
}
