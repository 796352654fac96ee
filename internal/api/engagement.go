package api

import (
	"net/http"

	"github.com/hazyhaar/lifewheel/internal/db"
)

func (a *API) RegisterEngagementRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/coins", a.handleCoinBalance)
	mux.HandleFunc("GET /api/coins/history", a.handleCoinHistory)
	mux.HandleFunc("POST /api/coins/spend", a.handleSpendCoins)

	mux.HandleFunc("POST /api/challenges", a.handleCreateChallenge)
	mux.HandleFunc("GET /api/challenges", a.handleListChallenges)
	mux.HandleFunc("POST /api/challenges/{id}/increment", a.handleIncrementChallenge)

	mux.HandleFunc("GET /api/journey", a.handleGetJourney)
	mux.HandleFunc("POST /api/journey/advance", a.handleAdvanceJourney)

	mux.HandleFunc("GET /api/growth", a.handleGetGrowthState)
	mux.HandleFunc("PUT /api/growth", a.handleUpsertGrowthState)
	mux.HandleFunc("POST /api/growth/quote", a.handleQuoteShown)
	mux.HandleFunc("POST /api/growth/quote/reflect", a.handleQuoteReflection)
	mux.HandleFunc("POST /api/growth/nudge", a.handleNudgeShown)
	mux.HandleFunc("POST /api/growth/nudge/ack", a.handleNudgeAck)

	mux.HandleFunc("POST /api/meditation", a.handleLogMeditation)
	mux.HandleFunc("GET /api/meditation", a.handleMeditationMinutes)

	mux.HandleFunc("POST /api/letters", a.handleWriteLetter)
	mux.HandleFunc("GET /api/letters/due", a.handleDueLetters)
}

// --- Coins ---

func (a *API) handleCoinBalance(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	balance, err := a.db.CoinBalance(claims.UserID)
	if err != nil {
		storeError(w, "loading balance", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]int{"balance": balance})
}

func (a *API) handleCoinHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	history, err := a.db.CoinHistory(claims.UserID, queryLimit(r, 50, 500))
	if err != nil {
		storeError(w, "loading coin history", err)
		return
	}
	jsonResp(w, http.StatusOK, history)
}

func (a *API) handleSpendCoins(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		Amount int    `json:"amount"`
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Amount <= 0 || req.Reason == "" {
		jsonError(w, "amount and reason are required", http.StatusBadRequest)
		return
	}
	if err := a.db.SpendCoins(claims.UserID, req.Amount, req.Reason); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	balance, _ := a.db.CoinBalance(claims.UserID)
	jsonResp(w, http.StatusOK, map[string]int{"balance": balance})
}

// --- Weekly challenges ---

func (a *API) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.WeeklyChallenge
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if req.Title == "" || !dateRe.MatchString(req.WeekStart) {
		jsonError(w, "title and week_start are required", http.StatusBadRequest)
		return
	}
	id, err := a.db.CreateWeeklyChallenge(req)
	if err != nil {
		storeError(w, "creating challenge", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	weekStart := r.URL.Query().Get("week_start")
	if !dateRe.MatchString(weekStart) {
		jsonError(w, "week_start must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	// Challenges from past weeks that were never finished are expired on read.
	if err := a.db.ExpireStaleChallenges(claims.UserID, weekStart); err != nil {
		storeError(w, "expiring challenges", err)
		return
	}
	challenges, err := a.db.ChallengesForWeek(claims.UserID, weekStart)
	if err != nil {
		storeError(w, "listing challenges", err)
		return
	}
	jsonResp(w, http.StatusOK, challenges)
}

func (a *API) handleIncrementChallenge(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	completed, err := a.db.IncrementChallenge(id, claims.UserID)
	if err != nil {
		storeError(w, "incrementing challenge", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]bool{"completed": completed})
}

// --- Journey ---

func (a *API) handleGetJourney(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	j, err := a.db.GetJourney(claims.UserID)
	if err != nil {
		storeError(w, "loading journey", err)
		return
	}
	jsonResp(w, http.StatusOK, j)
}

func (a *API) handleAdvanceJourney(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	j, err := a.db.AdvanceJourney(claims.UserID)
	if err != nil {
		storeError(w, "advancing journey", err)
		return
	}
	jsonResp(w, http.StatusOK, j)
}

// --- Daily growth ---

func (a *API) handleGetGrowthState(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	state, err := a.db.GetGrowthState(claims.UserID, date)
	if err != nil {
		storeError(w, "loading growth state", err)
		return
	}
	if state == nil {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, state)
}

func (a *API) handleUpsertGrowthState(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.GrowthState
	if !decodeBody(w, r, &req) {
		return
	}
	if !dateRe.MatchString(req.StateDate) {
		jsonError(w, "state_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if err := a.db.UpsertGrowthState(claims.UserID, req); err != nil {
		storeError(w, "saving growth state", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (a *API) handleQuoteShown(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		QuoteIndex int    `json:"quote_index"`
		ShownDate  string `json:"shown_date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.db.RecordQuoteShown(claims.UserID, req.QuoteIndex, req.ShownDate); err != nil {
		storeError(w, "recording quote", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (a *API) handleQuoteReflection(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		QuoteIndex int    `json:"quote_index"`
		ShownDate  string `json:"shown_date"`
		Reflection string `json:"reflection"`
		Favorite   bool   `json:"favorite"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.db.SaveQuoteReflection(claims.UserID, req.QuoteIndex, req.ShownDate, req.Reflection, req.Favorite); err != nil {
		storeError(w, "saving reflection", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (a *API) handleNudgeShown(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		NudgeIndex int    `json:"nudge_index"`
		ShownDate  string `json:"shown_date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.db.RecordNudgeShown(claims.UserID, req.NudgeIndex, req.ShownDate); err != nil {
		storeError(w, "recording nudge", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (a *API) handleNudgeAck(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		NudgeIndex int    `json:"nudge_index"`
		ShownDate  string `json:"shown_date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := a.db.AcknowledgeNudge(claims.UserID, req.NudgeIndex, req.ShownDate); err != nil {
		storeError(w, "acknowledging nudge", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "acknowledged"})
}

// --- Meditation & letters ---

func (a *API) handleLogMeditation(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req db.MeditationSession
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = claims.UserID
	if !dateRe.MatchString(req.SessionDate) {
		jsonError(w, "session_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	id, err := a.db.LogMeditation(req)
	if err != nil {
		storeError(w, "logging meditation", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleMeditationMinutes(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	minutes, err := a.db.MeditationMinutesForDate(claims.UserID, date)
	if err != nil {
		storeError(w, "loading meditation minutes", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]int{"minutes": minutes})
}

func (a *API) handleWriteLetter(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	var req struct {
		LetterText   string `json:"letter_text"`
		DeliveryDate string `json:"delivery_date"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.LetterText == "" || !dateRe.MatchString(req.DeliveryDate) {
		jsonError(w, "letter_text and delivery_date are required", http.StatusBadRequest)
		return
	}
	id, err := a.db.WriteFutureSelfLetter(claims.UserID, req.LetterText, req.DeliveryDate)
	if err != nil {
		storeError(w, "writing letter", err)
		return
	}
	jsonResp(w, http.StatusCreated, map[string]int64{"id": id})
}

func (a *API) handleDueLetters(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	date := queryDate(w, r, "date")
	if date == "" {
		return
	}
	letters, err := a.db.DueLetters(claims.UserID, date)
	if err != nil {
		storeError(w, "loading letters", err)
		return
	}
	jsonResp(w, http.StatusOK, letters)
}
