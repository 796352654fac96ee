package api

import (
	"net/http"
	"strings"

	"github.com/hazyhaar/lifewheel/internal/scores"
)

func (a *API) RegisterLabRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/biomarkers/definitions", a.handleBiomarkerDefinitions)
	mux.HandleFunc("POST /api/biomarkers", a.handleRecordBiomarkers)
	mux.HandleFunc("GET /api/biomarkers/latest", a.handleLatestBiomarkers)
	mux.HandleFunc("GET /api/biomarkers/{code}/history", a.handleBiomarkerHistory)

	mux.HandleFunc("GET /api/organ-scores/definitions", a.handleOrganScoreDefinitions)
	mux.HandleFunc("GET /api/organ-scores/latest", a.handleLatestOrganScores)
	mux.HandleFunc("GET /api/organ-scores/{code}/history", a.handleOrganScoreHistory)
	mux.HandleFunc("POST /api/organ-scores/compute", a.handleComputeOrganScores)
}

func (a *API) handleBiomarkerDefinitions(w http.ResponseWriter, r *http.Request) {
	if a.requireAuth(w, r) == nil {
		return
	}
	defs, err := a.db.ListBiomarkerDefinitions()
	if err != nil {
		storeError(w, "listing biomarker definitions", err)
		return
	}
	jsonResp(w, http.StatusOK, defs)
}

// handleRecordBiomarkers stores a lab panel: several results sharing one lab
// date. Organ scores for that date are recomputed afterwards.
func (a *API) handleRecordBiomarkers(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		LabDate string `json:"lab_date"`
		LabName string `json:"lab_name"`
		Results []struct {
			Code  string  `json:"code"`
			Value float64 `json:"value"`
			Notes string  `json:"notes"`
		} `json:"results"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !dateRe.MatchString(req.LabDate) {
		jsonError(w, "lab_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if len(req.Results) == 0 {
		jsonError(w, "results are required", http.StatusBadRequest)
		return
	}
	for _, res := range req.Results {
		if err := a.db.RecordBiomarkerResult(claims.UserID, res.Code, res.Value, req.LabDate, req.LabName, res.Notes); err != nil {
			if strings.Contains(err.Error(), "unknown biomarker") {
				jsonError(w, err.Error(), http.StatusBadRequest)
				return
			}
			storeError(w, "recording biomarker", err)
			return
		}
	}

	computed, err := scores.ComputeForDate(a.db, claims.UserID, req.LabDate)
	if err != nil {
		storeError(w, "computing organ scores", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]interface{}{
		"recorded":     len(req.Results),
		"organ_scores": computed,
	})
}

func (a *API) handleLatestBiomarkers(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	latest, err := a.db.LatestBiomarkers(claims.UserID)
	if err != nil {
		storeError(w, "loading biomarkers", err)
		return
	}
	jsonResp(w, http.StatusOK, latest)
}

func (a *API) handleBiomarkerHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	code := r.PathValue("code")
	if _, err := a.db.GetBiomarkerDefinition(code); err != nil {
		jsonError(w, "unknown biomarker code", http.StatusNotFound)
		return
	}
	history, err := a.db.BiomarkerHistory(claims.UserID, code)
	if err != nil {
		storeError(w, "loading biomarker history", err)
		return
	}
	jsonResp(w, http.StatusOK, history)
}

// --- Organ scores ---

func (a *API) handleOrganScoreDefinitions(w http.ResponseWriter, r *http.Request) {
	if a.requireAuth(w, r) == nil {
		return
	}
	defs, err := a.db.ListOrganScoreDefinitions()
	if err != nil {
		storeError(w, "listing organ score definitions", err)
		return
	}
	jsonResp(w, http.StatusOK, defs)
}

func (a *API) handleLatestOrganScores(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	latest, err := a.db.LatestOrganScores(claims.UserID)
	if err != nil {
		storeError(w, "loading organ scores", err)
		return
	}
	jsonResp(w, http.StatusOK, latest)
}

func (a *API) handleOrganScoreHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	history, err := a.db.OrganScoreHistory(claims.UserID, r.PathValue("code"))
	if err != nil {
		storeError(w, "loading organ score history", err)
		return
	}
	jsonResp(w, http.StatusOK, history)
}

// handleComputeOrganScores recomputes scores for a lab date on demand, for
// example after the clinical profile (age, sex) was corrected.
func (a *API) handleComputeOrganScores(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		LabDate string `json:"lab_date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !dateRe.MatchString(req.LabDate) {
		jsonError(w, "lab_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	computed, err := scores.ComputeForDate(a.db, claims.UserID, req.LabDate)
	if err != nil {
		storeError(w, "computing organ scores", err)
		return
	}
	jsonResp(w, http.StatusOK, computed)
}
