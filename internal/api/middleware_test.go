package api

import (
	"context"
	"net/http"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hazyhaar/lifewheel/internal/auth"
	"github.com/hazyhaar/lifewheel/internal/db"
	"github.com/hazyhaar/lifewheel/pkg/audit"
)

type captureLogger struct {
	mu      sync.Mutex
	entries []*audit.Entry
}

func (c *captureLogger) Log(_ context.Context, e *audit.Entry) error {
	c.LogAsync(e)
	return nil
}

func (c *captureLogger) LogAsync(e *audit.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

func (c *captureLogger) Close() error { return nil }

func (c *captureLogger) all() []*audit.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*audit.Entry(nil), c.entries...)
}

func TestAuditRequestsMiddleware(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.SeedReference())

	a := New(database, auth.New("test-secret", 60))
	mux := http.NewServeMux()
	a.RegisterRoutes(mux)

	log := &captureLogger{}
	wrapped := a.AuditRequests(log, mux)

	token := registerUser(t, wrapped, "audited")
	entries := log.all()
	require.Len(t, entries, 1)
	require.Equal(t, "POST /api/register", entries[0].Action)
	require.Equal(t, "201", entries[0].Result)
	require.Empty(t, entries[0].UserID)

	// Authenticated writes carry the caller's user id.
	w := doJSON(t, wrapped, "PUT", "/api/checkins", token, map[string]interface{}{
		"checkin_date": "2026-08-25", "mood": 4,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	entries = log.all()
	require.Len(t, entries, 2)
	require.Equal(t, "PUT /api/checkins", entries[1].Action)
	require.NotEmpty(t, entries[1].UserID)

	// Reads are not audited.
	w = doJSON(t, wrapped, "GET", "/api/checkins?date=2026-08-25", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, log.all(), 2)

	// Failed writes land as errors with the response status.
	w = doJSON(t, wrapped, "PUT", "/api/checkins", token, map[string]interface{}{
		"checkin_date": "2026-08-25", "mood": 15,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	entries = log.all()
	require.Len(t, entries, 3)
	require.Equal(t, "error", entries[2].Status)
	require.Equal(t, "400", entries[2].Result)
}

func TestAuditRequestsNilLogger(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, database.SeedReference())

	a := New(database, auth.New("test-secret", 60))
	mux := http.NewServeMux()
	a.RegisterRoutes(mux)

	registerUser(t, a.AuditRequests(nil, mux), "unaudited")
}
