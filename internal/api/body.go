package api

import (
	"net/http"

	"github.com/hazyhaar/lifewheel/internal/db"
)

func (a *API) RegisterBodyRoutes(mux *http.ServeMux) {
	mux.HandleFunc("PUT /api/body", a.handleUpsertBodyMetrics)
	mux.HandleFunc("GET /api/body/history", a.handleBodyMetricsHistory)
	mux.HandleFunc("GET /api/body/weight", a.handleLatestWeight)

	mux.HandleFunc("PUT /api/dexa", a.handleUpsertDexaScan)
	mux.HandleFunc("GET /api/dexa", a.handleDexaScans)

	mux.HandleFunc("POST /api/connections/garmin", a.handleConnectGarmin)
	mux.HandleFunc("GET /api/connections/garmin", a.handleGetGarminConnection)
	mux.HandleFunc("DELETE /api/connections/garmin", a.handleDisconnectGarmin)
	mux.HandleFunc("POST /api/connections/strava", a.handleConnectStrava)
	mux.HandleFunc("GET /api/connections/strava", a.handleGetStravaConnection)
	mux.HandleFunc("DELETE /api/connections/strava", a.handleDisconnectStrava)
}

func (a *API) handleUpsertBodyMetrics(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.BodyMetrics
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if !dateRe.MatchString(req.LogDate) {
		jsonError(w, "log_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := a.db.UpsertBodyMetrics(req); err != nil {
		storeError(w, "saving body metrics", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (a *API) handleBodyMetricsHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	history, err := a.db.BodyMetricsHistory(claims.UserID, queryLimit(r, 90, 730))
	if err != nil {
		storeError(w, "loading body metrics", err)
		return
	}
	jsonResp(w, http.StatusOK, history)
}

func (a *API) handleLatestWeight(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	weight, err := a.db.LatestWeight(claims.UserID)
	if err != nil {
		storeError(w, "loading weight", err)
		return
	}
	goalWeight, _ := a.db.GetGoalWeight(claims.UserID)
	jsonResp(w, http.StatusOK, map[string]*float64{
		"weight_kg":      weight,
		"goal_weight_kg": goalWeight,
	})
}

// --- DEXA ---

func (a *API) handleUpsertDexaScan(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.DexaScan
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if !dateRe.MatchString(req.ScanDate) {
		jsonError(w, "scan_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := a.db.UpsertDexaScan(req); err != nil {
		storeError(w, "saving DEXA scan", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (a *API) handleDexaScans(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	scans, err := a.db.DexaScans(claims.UserID)
	if err != nil {
		storeError(w, "loading DEXA scans", err)
		return
	}
	jsonResp(w, http.StatusOK, scans)
}

// --- Device connections ---
// Tokens are stored server-side; GET responses carry connection metadata only.

func (a *API) handleConnectGarmin(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		Email string `json:"email"`
		Token string `json:"token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Token == "" {
		jsonError(w, "email and token are required", http.StatusBadRequest)
		return
	}
	if err := a.db.ConnectGarmin(claims.UserID, req.Email, req.Token); err != nil {
		storeError(w, "connecting Garmin", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "connected"})
}

func (a *API) handleGetGarminConnection(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	conn, _, err := a.db.GetGarminConnection(claims.UserID)
	if err != nil {
		storeError(w, "loading Garmin connection", err)
		return
	}
	if conn == nil {
		jsonError(w, "not connected", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, conn)
}

func (a *API) handleDisconnectGarmin(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	if err := a.db.DisconnectGarmin(claims.UserID); err != nil {
		storeError(w, "disconnecting Garmin", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

func (a *API) handleConnectStrava(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		AthleteID    string `json:"athlete_id"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresAt    int64  `json:"expires_at"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AthleteID == "" || req.AccessToken == "" {
		jsonError(w, "athlete_id and access_token are required", http.StatusBadRequest)
		return
	}
	if err := a.db.ConnectStrava(claims.UserID, req.AthleteID, req.AccessToken, req.RefreshToken, req.ExpiresAt); err != nil {
		storeError(w, "connecting Strava", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "connected"})
}

func (a *API) handleGetStravaConnection(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	conn, _, _, err := a.db.GetStravaConnection(claims.UserID)
	if err != nil {
		storeError(w, "loading Strava connection", err)
		return
	}
	if conn == nil {
		jsonError(w, "not connected", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, conn)
}

func (a *API) handleDisconnectStrava(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	if err := a.db.DisconnectStrava(claims.UserID); err != nil {
		storeError(w, "disconnecting Strava", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "disconnected"})
}
