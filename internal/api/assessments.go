package api

import (
	"net/http"

	"github.com/hazyhaar/lifewheel/internal/db"
)

var validStages = map[string]bool{
	"precontemplation": true,
	"contemplation":    true,
	"preparation":      true,
	"action":           true,
	"maintenance":      true,
}

func (a *API) RegisterAssessmentRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/wheel", a.handleRecordWheel)
	mux.HandleFunc("GET /api/wheel/latest", a.handleLatestWheel)
	mux.HandleFunc("GET /api/wheel/history", a.handleWheelHistory)
	mux.HandleFunc("GET /api/wheel/session/{sid}", a.handleWheelSession)

	mux.HandleFunc("POST /api/stages", a.handleSetStage)
	mux.HandleFunc("GET /api/stages", a.handleLatestStages)

	mux.HandleFunc("POST /api/comb", a.handleRecordComb)
	mux.HandleFunc("GET /api/comb/{id}", a.handleLatestComb)

	mux.HandleFunc("POST /api/diet-assessment", a.handleRecordDietAssessment)
	mux.HandleFunc("GET /api/diet-assessment", a.handleDietAssessmentHistory)

	mux.HandleFunc("PUT /api/chronotype", a.handleUpsertChronotype)
	mux.HandleFunc("GET /api/chronotype", a.handleGetChronotype)
}

// --- Wheel of life ---

func (a *API) handleRecordWheel(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		Scores []db.PillarScore `json:"scores"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Scores) == 0 {
		jsonError(w, "scores are required", http.StatusBadRequest)
		return
	}
	seen := make(map[int64]bool, len(req.Scores))
	for _, s := range req.Scores {
		if s.Score < 1 || s.Score > 10 {
			jsonError(w, "scores must be 1-10", http.StatusBadRequest)
			return
		}
		if seen[s.PillarID] {
			jsonError(w, "duplicate pillar in scores", http.StatusBadRequest)
			return
		}
		seen[s.PillarID] = true
	}

	sessionID, err := a.db.RecordWheelAssessment(claims.UserID, req.Scores)
	if err != nil {
		storeError(w, "recording wheel", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]string{"session_id": sessionID})
}

func (a *API) handleLatestWheel(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	wheel, err := a.db.LatestWheel(claims.UserID)
	if err != nil {
		storeError(w, "loading wheel", err)
		return
	}
	jsonResp(w, http.StatusOK, wheel)
}

func (a *API) handleWheelHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	history, err := a.db.WheelHistory(claims.UserID, queryLimit(r, 60, 600))
	if err != nil {
		storeError(w, "loading wheel history", err)
		return
	}
	jsonResp(w, http.StatusOK, history)
}

func (a *API) handleWheelSession(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	session, err := a.db.WheelSession(claims.UserID, r.PathValue("sid"))
	if err != nil {
		storeError(w, "loading wheel session", err)
		return
	}
	if len(session) == 0 {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, session)
}

// --- Stage of change ---

func (a *API) handleSetStage(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		PillarID int64  `json:"pillar_id"`
		Stage    string `json:"stage"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !validStages[req.Stage] {
		jsonError(w, "invalid stage", http.StatusBadRequest)
		return
	}
	rec, err := a.db.SetStage(claims.UserID, req.PillarID, req.Stage)
	if err != nil {
		storeError(w, "recording stage", err)
		return
	}
	jsonResp(w, http.StatusCreated, rec)
}

func (a *API) handleLatestStages(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	stages, err := a.db.LatestStages(claims.UserID)
	if err != nil {
		storeError(w, "loading stages", err)
		return
	}
	jsonResp(w, http.StatusOK, stages)
}

// --- COM-B ---

func (a *API) handleRecordComb(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.CombAssessment
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	id, err := a.db.RecordCombAssessment(req)
	if err != nil {
		storeError(w, "recording COM-B", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

// handleLatestComb returns the newest COM-B record for pillar {id}.
func (a *API) handleLatestComb(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	pillarID, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := a.db.LatestCombAssessment(claims.UserID, pillarID)
	if err != nil {
		storeError(w, "loading COM-B", err)
		return
	}
	if rec == nil {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, rec)
}

// --- Diet quality ---

func (a *API) handleRecordDietAssessment(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.DietAssessment
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if req.AssessmentDate == "" || !dateRe.MatchString(req.AssessmentDate) {
		jsonError(w, "assessment_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	id, err := a.db.RecordDietAssessment(req)
	if err != nil {
		storeError(w, "recording diet assessment", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleDietAssessmentHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	history, err := a.db.DietAssessmentHistory(claims.UserID, queryLimit(r, 20, 100))
	if err != nil {
		storeError(w, "loading diet assessments", err)
		return
	}
	jsonResp(w, http.StatusOK, history)
}

// --- Chronotype ---

func (a *API) handleUpsertChronotype(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.ChronotypeAssessment
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if err := a.db.UpsertChronotype(req); err != nil {
		storeError(w, "saving chronotype", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (a *API) handleGetChronotype(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	rec, err := a.db.GetChronotype(claims.UserID)
	if err != nil {
		storeError(w, "loading chronotype", err)
		return
	}
	if rec == nil {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, rec)
}
