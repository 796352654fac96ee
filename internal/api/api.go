// Package api exposes the wellness tracker over HTTP. Handlers are thin
// wrappers around the store; every mutating endpoint requires a JWT.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hazyhaar/lifewheel/internal/auth"
	"github.com/hazyhaar/lifewheel/internal/coach"
	"github.com/hazyhaar/lifewheel/internal/db"
)

// usernameRe validates username format: ASCII alphanumeric, underscore, hyphen only.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// dateRe validates YYYY-MM-DD date parameters before they reach the store.
var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// maxBodySize is the maximum HTTP body size for write endpoints.
const maxBodySize = 200 * 1024 // 200KB

// CoachRateLimiter throttles LLM-backed chat (10 req/60s per IP).
var CoachRateLimiter = NewRateLimiter(10, 60*time.Second)

type API struct {
	db        *db.DB
	metricsDB *db.MetricsDB
	auth      *auth.Auth
	coach     *coach.Coach
}

func New(database *db.DB, a *auth.Auth) *API {
	return &API{db: database, auth: a}
}

// SetMetricsDB sets the metrics database for request recording.
func (a *API) SetMetricsDB(mdb *db.MetricsDB) {
	a.metricsDB = mdb
}

// SetCoach sets the LLM coach for chat endpoints.
func (a *API) SetCoach(c *coach.Coach) {
	a.coach = c
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	// Auth & profile
	mux.HandleFunc("POST /api/register", a.handleRegister)
	mux.HandleFunc("POST /api/login", a.handleLogin)
	mux.HandleFunc("GET /api/me", a.handleGetMe)
	mux.HandleFunc("PUT /api/me", a.handleUpdateMe)
	mux.HandleFunc("GET /api/me/clinical", a.handleGetClinicalProfile)
	mux.HandleFunc("PUT /api/me/clinical", a.handleUpsertClinicalProfile)
	mux.HandleFunc("PUT /api/me/goal-weight", a.handleSetGoalWeight)

	// Pillars
	mux.HandleFunc("GET /api/pillars", a.handleListPillars)

	// Assessments (wheel, stages, COM-B, diet, chronotype)
	a.RegisterAssessmentRoutes(mux)

	// Goals & habits
	a.RegisterGoalRoutes(mux)

	// Check-ins, reviews, insights
	a.RegisterCheckinRoutes(mux)

	// Coaching chat
	a.RegisterCoachRoutes(mux)

	// Coins, challenges, journey, growth
	a.RegisterEngagementRoutes(mux)

	// Lessons, protocols, evidence
	a.RegisterLearningRoutes(mux)

	// Biomarkers & organ scores
	a.RegisterLabRoutes(mux)

	// Nutrition, foods, calories, fasting
	a.RegisterNutritionRoutes(mux)

	// Sleep
	a.RegisterSleepRoutes(mux)

	// Exercise & cycling
	a.RegisterExerciseRoutes(mux)

	// SIBO / FODMAP
	a.RegisterSiboRoutes(mux)

	// Body metrics, DEXA, device connections
	a.RegisterBodyRoutes(mux)

	// Full data export
	a.RegisterExportRoutes(mux)
}

// --- Auth ---

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		jsonError(w, "username and password are required", http.StatusBadRequest)
		return
	}
	if len(req.Username) < 3 || len(req.Username) > 30 {
		jsonError(w, "username must be 3-30 characters", http.StatusBadRequest)
		return
	}
	if !usernameRe.MatchString(req.Username) {
		jsonError(w, "username must contain only ASCII letters, digits, underscore or hyphen", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		jsonError(w, "password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	hash, err := a.auth.HashPassword(req.Password)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	user, err := a.db.CreateUser(db.CreateUserInput{
		Username:     req.Username,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			jsonError(w, "username already taken", http.StatusConflict)
			return
		}
		slog.Error("creating user", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	token, err := a.auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	jsonResp(w, http.StatusCreated, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, passwordHash, err := a.db.GetUserByUsername(req.Username)
	if err != nil {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if !a.auth.CheckPassword(passwordHash, req.Password) {
		jsonError(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := a.auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	jsonResp(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// --- Profile ---

func (a *API) handleGetMe(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	user, err := a.db.GetUserByID(claims.UserID)
	if err != nil {
		jsonError(w, "user not found", http.StatusNotFound)
		return
	}
	goalWeight, _ := a.db.GetGoalWeight(claims.UserID)
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"user":           user,
		"goal_weight_kg": goalWeight,
	})
}

func (a *API) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := a.db.UpdateUserProfile(claims.UserID, req.DisplayName, req.Email); err != nil {
		slog.Error("updating profile", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (a *API) handleGetClinicalProfile(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	p, err := a.db.GetClinicalProfile(claims.UserID)
	if err != nil {
		slog.Error("loading clinical profile", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	if p == nil {
		jsonError(w, "no clinical profile", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, p)
}

func (a *API) handleUpsertClinicalProfile(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var p db.ClinicalProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p.UserID = claims.UserID
	if p.Sex != nil && *p.Sex != "male" && *p.Sex != "female" {
		jsonError(w, "sex must be male or female", http.StatusBadRequest)
		return
	}
	if p.DateOfBirth != nil && !dateRe.MatchString(*p.DateOfBirth) {
		jsonError(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := a.db.UpsertClinicalProfile(p); err != nil {
		slog.Error("saving clinical profile", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (a *API) handleSetGoalWeight(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		GoalWeightKg float64 `json:"goal_weight_kg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.GoalWeightKg <= 0 || req.GoalWeightKg > 500 {
		jsonError(w, "goal weight out of range", http.StatusBadRequest)
		return
	}
	if err := a.db.SetGoalWeight(claims.UserID, req.GoalWeightKg); err != nil {
		slog.Error("setting goal weight", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "saved"})
}

// --- Pillars ---

func (a *API) handleListPillars(w http.ResponseWriter, r *http.Request) {
	pillars, err := a.db.ListPillars()
	if err != nil {
		slog.Error("listing pillars", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, pillars)
}

// --- Helpers ---

// requireAuth extracts JWT claims or writes a 401 and returns nil.
func (a *API) requireAuth(w http.ResponseWriter, r *http.Request) *auth.Claims {
	claims := a.auth.ExtractClaims(r)
	if claims == nil {
		jsonError(w, "authentication required", http.StatusUnauthorized)
	}
	return claims
}

// pathID parses the {id} path value as int64; writes a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// queryDate reads a YYYY-MM-DD query parameter, defaulting to today.
// Returns "" and writes a 400 when the value is malformed.
func queryDate(w http.ResponseWriter, r *http.Request, param string) string {
	v := r.URL.Query().Get(param)
	if v == "" {
		return time.Now().Format("2006-01-02")
	}
	if !dateRe.MatchString(v) {
		jsonError(w, param+" must be YYYY-MM-DD", http.StatusBadRequest)
		return ""
	}
	return v
}

// queryLimit reads a positive integer limit with a default and cap.
func queryLimit(r *http.Request, def, max int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// decodeBody decodes a size-capped JSON request body.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if strings.Contains(err.Error(), "too large") {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// storeError maps store failures onto HTTP statuses: missing rows become
// 404s, constraint violations 400s, anything else a logged 500.
func storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		jsonError(w, "not found", http.StatusNotFound)
	case strings.Contains(err.Error(), "CHECK constraint") ||
		strings.Contains(err.Error(), "FOREIGN KEY constraint"):
		jsonError(w, "invalid value", http.StatusBadRequest)
	default:
		slog.Error(op, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func jsonResp(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
