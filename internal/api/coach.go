package api

import (
	"net/http"
)

func (a *API) RegisterCoachRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/coach/chat", RateLimitMiddleware(CoachRateLimiter, a.handleCoachChat))
	mux.HandleFunc("GET /api/coach/history", a.handleCoachHistory)
	mux.HandleFunc("DELETE /api/coach/history", a.handleClearCoachHistory)
}

func (a *API) handleCoachChat(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	if a.coach == nil || !a.coach.Available() {
		jsonError(w, "coach is not configured", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		Message     string `json:"message"`
		ContextType string `json:"context_type"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Message == "" {
		jsonError(w, "message is required", http.StatusBadRequest)
		return
	}

	reply, err := a.coach.Chat(r.Context(), claims.UserID, req.Message, req.ContextType)
	if err != nil {
		jsonError(w, "coach unavailable", http.StatusBadGateway)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"reply": reply})
}

func (a *API) handleCoachHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	msgs, err := a.db.RecentCoachingMessages(claims.UserID, queryLimit(r, 50, 500))
	if err != nil {
		storeError(w, "loading coach history", err)
		return
	}
	jsonResp(w, http.StatusOK, msgs)
}

func (a *API) handleClearCoachHistory(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	if err := a.db.ClearCoachingHistory(claims.UserID); err != nil {
		storeError(w, "clearing coach history", err)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"status": "cleared"})
}
