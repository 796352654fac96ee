package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/lifewheel/internal/auth"
	"github.com/hazyhaar/lifewheel/internal/db"
)

func newTestAPI(t *testing.T) *http.ServeMux {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.SeedReference())

	a := New(database, auth.New("test-secret", 60))
	mux := http.NewServeMux()
	a.RegisterRoutes(mux)
	return mux
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	r := httptest.NewRequest(method, path, &buf)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeResp(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func registerUser(t *testing.T, h http.Handler, username string) string {
	t.Helper()
	w := doJSON(t, h, "POST", "/api/register", "", map[string]string{
		"username": username,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
	}
	decodeResp(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterValidation(t *testing.T) {
	mux := newTestAPI(t)

	cases := []map[string]string{
		{"username": "", "password": "correct-horse"},
		{"username": "ab", "password": "correct-horse"},
		{"username": "has spaces", "password": "correct-horse"},
		{"username": "valid_user", "password": "short"},
	}
	for _, body := range cases {
		w := doJSON(t, mux, "POST", "/api/register", "", body)
		require.Equal(t, http.StatusBadRequest, w.Code, "body %v", body)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	mux := newTestAPI(t)
	registerUser(t, mux, "alex")

	w := doJSON(t, mux, "POST", "/api/register", "", map[string]string{
		"username": "alex",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	mux := newTestAPI(t)
	registerUser(t, mux, "alex")

	w := doJSON(t, mux, "POST", "/api/login", "", map[string]string{
		"username": "alex", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, mux, "POST", "/api/login", "", map[string]string{
		"username": "alex", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, mux, "POST", "/api/login", "", map[string]string{
		"username": "nobody", "password": "correct-horse",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	mux := newTestAPI(t)

	for _, path := range []string{"/api/me", "/api/goals", "/api/coins", "/api/wheel/latest"} {
		w := doJSON(t, mux, "GET", path, "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := doJSON(t, mux, "GET", "/api/me", "garbage-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecordWheel(t *testing.T) {
	mux := newTestAPI(t)
	token := registerUser(t, mux, "alex")

	scores := make([]map[string]interface{}, 0, 6)
	for pillar := 1; pillar <= 6; pillar++ {
		scores = append(scores, map[string]interface{}{"pillar_id": pillar, "score": pillar + 3})
	}
	w := doJSON(t, mux, "POST", "/api/wheel", token, map[string]interface{}{"scores": scores})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		SessionID string `json:"session_id"`
	}
	decodeResp(t, w, &created)
	require.NotEmpty(t, created.SessionID)

	w = doJSON(t, mux, "GET", "/api/wheel/latest", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var latest []struct {
		PillarID int64 `json:"pillar_id"`
		Score    int   `json:"score"`
	}
	decodeResp(t, w, &latest)
	require.Len(t, latest, 6)
}

func TestRecordWheelRejectsBadScores(t *testing.T) {
	mux := newTestAPI(t)
	token := registerUser(t, mux, "alex")

	w := doJSON(t, mux, "POST", "/api/wheel", token, map[string]interface{}{
		"scores": []map[string]interface{}{{"pillar_id": 1, "score": 11}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, mux, "POST", "/api/wheel", token, map[string]interface{}{
		"scores": []map[string]interface{}{
			{"pillar_id": 1, "score": 5},
			{"pillar_id": 1, "score": 7},
		},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, mux, "POST", "/api/wheel", token, map[string]interface{}{"scores": []map[string]interface{}{}})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckinAwardsCoinsOnce(t *testing.T) {
	mux := newTestAPI(t)
	token := registerUser(t, mux, "alex")

	body := map[string]interface{}{"checkin_date": "2026-08-25", "mood": 8, "energy": 7}
	w := doJSON(t, mux, "PUT", "/api/checkins", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		CoinsAwarded bool `json:"coins_awarded"`
	}
	decodeResp(t, w, &resp)
	require.True(t, resp.CoinsAwarded)

	// Editing the same day's check-in does not pay again.
	w = doJSON(t, mux, "PUT", "/api/checkins", token, body)
	require.Equal(t, http.StatusOK, w.Code)
	decodeResp(t, w, &resp)
	require.False(t, resp.CoinsAwarded)

	w = doJSON(t, mux, "GET", "/api/coins", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var coins struct {
		Balance int `json:"balance"`
	}
	decodeResp(t, w, &coins)
	require.Equal(t, 10, coins.Balance)
}

func TestCheckinValidation(t *testing.T) {
	mux := newTestAPI(t)
	token := registerUser(t, mux, "alex")

	w := doJSON(t, mux, "PUT", "/api/checkins", token, map[string]interface{}{"mood": 8})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, mux, "PUT", "/api/checkins", token, map[string]interface{}{
		"checkin_date": "2026-08-25", "mood": 15,
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestGoalLifecycleOverHTTP(t *testing.T) {
	mux := newTestAPI(t)
	token := registerUser(t, mux, "alex")

	w := doJSON(t, mux, "POST", "/api/goals", token, map[string]interface{}{
		"pillar_id": 1,
		"title":     "Eat 30 plants a week",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var goal struct {
		ID int64 `json:"id"`
	}
	decodeResp(t, w, &goal)
	require.NotZero(t, goal.ID)

	w = doJSON(t, mux, "POST", fmt.Sprintf("/api/goals/%d/progress", goal.ID), token,
		map[string]interface{}{"progress_pct": 40})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, mux, "POST", fmt.Sprintf("/api/goals/%d/complete", goal.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, mux, "GET", "/api/goals?status=completed", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var goals []struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	decodeResp(t, w, &goals)
	require.Len(t, goals, 1)
	require.Equal(t, "completed", goals[0].Status)

	// Goal ids are scoped per user.
	other := registerUser(t, mux, "mallory")
	w = doJSON(t, mux, "POST", fmt.Sprintf("/api/goals/%d/pause", goal.ID), other, nil)
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestPathIDValidation(t *testing.T) {
	mux := newTestAPI(t)
	token := registerUser(t, mux, "alex")

	w := doJSON(t, mux, "POST", "/api/goals/abc/complete", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPillarsPublic(t *testing.T) {
	mux := newTestAPI(t)

	w := doJSON(t, mux, "GET", "/api/pillars", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pillars []struct {
		Name string `json:"name"`
	}
	decodeResp(t, w, &pillars)
	require.Len(t, pillars, 6)
}

func TestClinicalProfileEndpoints(t *testing.T) {
	mux := newTestAPI(t)
	token := registerUser(t, mux, "alex")

	w := doJSON(t, mux, "GET", "/api/me/clinical", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, mux, "PUT", "/api/me/clinical", token, map[string]interface{}{
		"date_of_birth": "1980-05-02", "sex": "male", "height_cm": 180,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, mux, "PUT", "/api/me/clinical", token, map[string]interface{}{"sex": "other"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, mux, "PUT", "/api/me/clinical", token, map[string]interface{}{
		"date_of_birth": "02/05/1980", "sex": "male",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, mux, "GET", "/api/me/clinical", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p struct {
		Sex      *string  `json:"sex"`
		HeightCm *float64 `json:"height_cm"`
	}
	decodeResp(t, w, &p)
	require.Equal(t, "male", *p.Sex)
	require.Equal(t, 180.0, *p.HeightCm)
}

func TestEvidenceLinkTargetValidation(t *testing.T) {
	mux := newTestAPI(t)
	token := registerUser(t, mux, "citer")

	w := doJSON(t, mux, "POST", "/api/evidence", token, map[string]interface{}{
		"title": "Sleep restriction and glucose tolerance", "year": 2019,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ev struct {
		ID int64 `json:"id"`
	}
	decodeResp(t, w, &ev)

	// Linking to a goal that doesn't exist is a 404, not a silent success.
	w = doJSON(t, mux, "POST", fmt.Sprintf("/api/evidence/%d/link", ev.ID), token,
		map[string]interface{}{"entity_type": "goal", "entity_id": 12345})
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	w = doJSON(t, mux, "POST", "/api/goals", token, map[string]interface{}{
		"pillar_id": 4, "title": "Lights out by 23:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var goal struct {
		ID int64 `json:"id"`
	}
	decodeResp(t, w, &goal)

	w = doJSON(t, mux, "POST", fmt.Sprintf("/api/evidence/%d/link", ev.ID), token,
		map[string]interface{}{"entity_type": "goal", "entity_id": goal.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, mux, "POST", fmt.Sprintf("/api/evidence/%d/link", ev.ID), token,
		map[string]interface{}{"entity_type": "meal", "entity_id": goal.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)
}
