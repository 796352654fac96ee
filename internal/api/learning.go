package api

import (
	"net/http"
	"strconv"

	"github.com/hazyhaar/lifewheel/internal/db"
)

// linkableEntities are the entity types evidence can be attached to. The
// store keeps links polymorphic; validation lives here.
var linkableEntities = map[string]bool{
	"goal":     true,
	"habit":    true,
	"protocol": true,
}

func (a *API) RegisterLearningRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/lessons", a.handleListLessons)
	mux.HandleFunc("GET /api/lessons/{id}", a.handleGetLesson)
	mux.HandleFunc("POST /api/lessons/{id}/complete", a.handleCompleteLesson)
	mux.HandleFunc("GET /api/lessons/progress", a.handleLessonProgress)

	mux.HandleFunc("GET /api/protocols", a.handleListProtocols)
	mux.HandleFunc("POST /api/protocols/{id}/adopt", a.handleAdoptProtocol)
	mux.HandleFunc("POST /api/protocols/{id}/status", a.handleSetProtocolStatus)
	mux.HandleFunc("GET /api/protocols/active", a.handleActiveProtocols)
	mux.HandleFunc("PUT /api/protocols/{id}/log", a.handleLogProtocol)
	mux.HandleFunc("GET /api/protocols/log", a.handleProtocolLog)

	mux.HandleFunc("POST /api/evidence", a.handleAddEvidence)
	mux.HandleFunc("GET /api/evidence/{id}", a.handleGetEvidence)
	mux.HandleFunc("GET /api/evidence", a.handleSearchEvidence)
	mux.HandleFunc("POST /api/evidence/{id}/link", a.handleLinkEvidence)
	mux.HandleFunc("DELETE /api/evidence/{id}/link", a.handleUnlinkEvidence)
	mux.HandleFunc("GET /api/evidence/for/{type}/{eid}", a.handleEvidenceForEntity)
}

// queryPillarID reads the optional ?pillar= filter; 0 means all pillars.
func queryPillarID(r *http.Request) int64 {
	v := r.URL.Query().Get("pillar")
	if v == "" {
		return 0
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// --- Micro-lessons ---

func (a *API) handleListLessons(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	lessons, err := a.db.ListLessons(queryPillarID(r))
	if err != nil {
		storeError(w, "listing lessons", err)
		return
	}
	completed, err := a.db.CompletedLessonIDs(claims.UserID)
	if err != nil {
		storeError(w, "loading lesson progress", err)
		return
	}
	type lessonWithProgress struct {
		*db.MicroLesson
		Completed bool `json:"completed"`
	}
	out := make([]lessonWithProgress, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, lessonWithProgress{MicroLesson: l, Completed: completed[l.ID]})
	}
	jsonResp(w, http.StatusOK, out)
}

func (a *API) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	if a.requireAuth(w, r) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	lesson, err := a.db.GetLesson(id)
	if err != nil {
		storeError(w, "loading lesson", err)
		return
	}
	jsonResp(w, http.StatusOK, lesson)
}

func (a *API) handleCompleteLesson(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		QuizScore int `json:"quiz_score"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.QuizScore < 0 || req.QuizScore > 100 {
		jsonError(w, "quiz_score must be 0-100", http.StatusBadRequest)
		return
	}
	if err := a.db.CompleteLesson(claims.UserID, id, req.QuizScore); err != nil {
		storeError(w, "completing lesson", err)
		return
	}
	awarded, _ := a.db.AwardCoins(claims.UserID, 5, "lesson:"+strconv.FormatInt(id, 10), "")
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"status":        "completed",
		"coins_awarded": awarded,
	})
}

func (a *API) handleLessonProgress(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	progress, err := a.db.LessonProgressByPillar(claims.UserID)
	if err != nil {
		storeError(w, "loading lesson progress", err)
		return
	}
	type pillarProgress struct {
		PillarID  int64 `json:"pillar_id"`
		Completed int   `json:"completed"`
		Total     int   `json:"total"`
	}
	out := make([]pillarProgress, 0, len(progress))
	for pillarID, counts := range progress {
		out = append(out, pillarProgress{PillarID: pillarID, Completed: counts[0], Total: counts[1]})
	}
	jsonResp(w, http.StatusOK, out)
}

// --- Protocols ---

func (a *API) handleListProtocols(w http.ResponseWriter, r *http.Request) {
	if a.requireAuth(w, r) == nil {
		return
	}
	protocols, err := a.db.ListProtocols(queryPillarID(r))
	if err != nil {
		storeError(w, "listing protocols", err)
		return
	}
	jsonResp(w, http.StatusOK, protocols)
}

func (a *API) handleAdoptProtocol(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.db.AdoptProtocol(claims.UserID, id); err != nil {
		storeError(w, "adopting protocol", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "adopted"})
}

func (a *API) handleSetProtocolStatus(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	switch req.Status {
	case "active", "paused", "abandoned":
	default:
		jsonError(w, "invalid status", http.StatusBadRequest)
		return
	}
	if err := a.db.SetProtocolStatus(claims.UserID, id, req.Status); err != nil {
		storeError(w, "updating protocol status", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (a *API) handleActiveProtocols(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	protocols, err := a.db.ActiveProtocols(claims.UserID)
	if err != nil {
		storeError(w, "listing active protocols", err)
		return
	}
	jsonResp(w, http.StatusOK, protocols)
}

func (a *API) handleLogProtocol(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		LogDate   string `json:"log_date"`
		Completed bool   `json:"completed"`
		Notes     string `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !dateRe.MatchString(req.LogDate) {
		jsonError(w, "log_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := a.db.LogProtocol(claims.UserID, id, req.LogDate, req.Completed, req.Notes); err != nil {
		storeError(w, "logging protocol", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "logged"})
}

func (a *API) handleProtocolLog(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	log, err := a.db.ProtocolLogForDate(claims.UserID, date)
	if err != nil {
		storeError(w, "loading protocol log", err)
		return
	}
	jsonResp(w, http.StatusOK, log)
}

// --- Evidence library ---

func (a *API) handleAddEvidence(w http.ResponseWriter, r *http.Request) {
	if a.requireAuth(w, r) == nil {
		return
	}
	var req struct {
		PMID          string `json:"pmid"`
		DOI           string `json:"doi"`
		Title         string `json:"title"`
		Authors       string `json:"authors"`
		Journal       string `json:"journal"`
		Year          int    `json:"year"`
		StudyType     string `json:"study_type"`
		EvidenceGrade string `json:"evidence_grade"`
		PillarID      *int64 `json:"pillar_id"`
		Summary       string `json:"summary"`
		KeyFinding    string `json:"key_finding"`
		EffectSize    string `json:"effect_size"`
		SampleSize    *int   `json:"sample_size"`
		Population    string `json:"population"`
		Tags          string `json:"tags"`
		URL           string `json:"url"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		jsonError(w, "title is required", http.StatusBadRequest)
		return
	}
	id, err := a.db.AddEvidence(db.AddEvidenceInput{
		PMID:          req.PMID,
		DOI:           req.DOI,
		Title:         req.Title,
		Authors:       req.Authors,
		Journal:       req.Journal,
		Year:          req.Year,
		StudyType:     req.StudyType,
		EvidenceGrade: req.EvidenceGrade,
		PillarID:      req.PillarID,
		Summary:       req.Summary,
		KeyFinding:    req.KeyFinding,
		EffectSize:    req.EffectSize,
		SampleSize:    req.SampleSize,
		Population:    req.Population,
		Tags:          req.Tags,
		URL:           req.URL,
	})
	if err != nil {
		storeError(w, "adding evidence", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleGetEvidence(w http.ResponseWriter, r *http.Request) {
	if a.requireAuth(w, r) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ev, err := a.db.GetEvidence(id)
	if err != nil {
		storeError(w, "loading evidence", err)
		return
	}
	jsonResp(w, http.StatusOK, ev)
}

func (a *API) handleSearchEvidence(w http.ResponseWriter, r *http.Request) {
	if a.requireAuth(w, r) == nil {
		return
	}
	results, err := a.db.SearchEvidence(queryPillarID(r), r.URL.Query().Get("q"), queryLimit(r, 20, 100))
	if err != nil {
		storeError(w, "searching evidence", err)
		return
	}
	jsonResp(w, http.StatusOK, results)
}

func (a *API) handleLinkEvidence(w http.ResponseWriter, r *http.Request) {
	if a.requireAuth(w, r) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		EntityType string `json:"entity_type"`
		EntityID   int64  `json:"entity_id"`
		Note       string `json:"note"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !linkableEntities[req.EntityType] {
		jsonError(w, "entity_type must be goal, habit or protocol", http.StatusBadRequest)
		return
	}
	exists, err := a.db.LinkTargetExists(req.EntityType, req.EntityID)
	if err != nil {
		storeError(w, "checking link target", err)
		return
	}
	if !exists {
		jsonError(w, req.EntityType+" not found", http.StatusNotFound)
		return
	}
	if err := a.db.LinkEvidence(id, req.EntityType, req.EntityID, req.Note); err != nil {
		storeError(w, "linking evidence", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "linked"})
}

func (a *API) handleUnlinkEvidence(w http.ResponseWriter, r *http.Request) {
	if a.requireAuth(w, r) == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		EntityType string `json:"entity_type"`
		EntityID   int64  `json:"entity_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.db.UnlinkEvidence(id, req.EntityType, req.EntityID); err != nil {
		storeError(w, "unlinking evidence", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "unlinked"})
}

func (a *API) handleEvidenceForEntity(w http.ResponseWriter, r *http.Request) {
	if a.requireAuth(w, r) == nil {
		return
	}
	entityType := r.PathValue("type")
	if !linkableEntities[entityType] {
		jsonError(w, "entity type must be goal, habit or protocol", http.StatusBadRequest)
		return
	}
	entityID, err := strconv.ParseInt(r.PathValue("eid"), 10, 64)
	if err != nil || entityID <= 0 {
		jsonError(w, "invalid entity id", http.StatusBadRequest)
		return
	}
	results, err := a.db.EvidenceForEntity(entityType, entityID)
	if err != nil {
		storeError(w, "loading evidence links", err)
		return
	}
	jsonResp(w, http.StatusOK, results)
}
