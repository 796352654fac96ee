package audit

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestLogger(t *testing.T) (*SQLiteLogger, *sql.DB) {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	logger := NewSQLiteLogger(sqlDB)
	require.NoError(t, logger.Init())
	return logger, sqlDB
}

func countEntries(t *testing.T, sqlDB *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM audit_log`).Scan(&n))
	return n
}

func TestLogFillsDefaults(t *testing.T) {
	logger, sqlDB := newTestLogger(t)
	defer logger.Close()

	entry := &Entry{Action: "toggle_habit", Parameters: `{"habit_id":3}`}
	require.NoError(t, logger.Log(context.Background(), entry))

	require.NotEmpty(t, entry.EntryID)
	require.Contains(t, entry.EntryID, "aud_")
	require.NotZero(t, entry.Timestamp)
	require.Equal(t, "success", entry.Status)
	require.Equal(t, "http", entry.Transport)

	var action, status string
	require.NoError(t, sqlDB.QueryRow(
		`SELECT action, status FROM audit_log WHERE entry_id = ?`, entry.EntryID).
		Scan(&action, &status))
	require.Equal(t, "toggle_habit", action)
	require.Equal(t, "success", status)
}

func TestLogErrorStatus(t *testing.T) {
	logger, _ := newTestLogger(t)
	defer logger.Close()

	entry := &Entry{Action: "record_wheel", Error: "scores must be 1-10"}
	require.NoError(t, logger.Log(context.Background(), entry))
	require.Equal(t, "error", entry.Status)
}

func TestLogAsyncFlushesOnClose(t *testing.T) {
	logger, sqlDB := newTestLogger(t)

	for i := 0; i < 10; i++ {
		logger.LogAsync(&Entry{Action: "log_checkin"})
	}
	require.NoError(t, logger.Close())
	require.Equal(t, 10, countEntries(t, sqlDB))

	// Close is idempotent.
	require.NoError(t, logger.Close())
}

func TestMiddlewareRecordsOutcome(t *testing.T) {
	logger, sqlDB := newTestLogger(t)

	type req struct {
		UserID int64 `json:"user_id"`
	}
	ok := Middleware(logger, "log_checkin")(func(ctx context.Context, request any) (any, error) {
		return map[string]string{"status": "saved"}, nil
	})
	fail := Middleware(logger, "toggle_habit")(func(ctx context.Context, request any) (any, error) {
		return nil, errors.New("habit not found")
	})

	resp, err := ok(context.Background(), req{UserID: 7})
	require.NoError(t, err)
	require.NotNil(t, resp)

	_, err = fail(context.Background(), req{UserID: 7})
	require.Error(t, err)

	require.NoError(t, logger.Close())

	rows, err := sqlDB.Query(`SELECT action, status, parameters, error_message FROM audit_log ORDER BY action`)
	require.NoError(t, err)
	defer rows.Close()

	got := map[string][3]string{}
	for rows.Next() {
		var action, status, params string
		var errMsg sql.NullString
		require.NoError(t, rows.Scan(&action, &status, &params, &errMsg))
		got[action] = [3]string{status, params, errMsg.String}
	}
	require.NoError(t, rows.Err())

	require.Equal(t, "success", got["log_checkin"][0])
	require.Contains(t, got["log_checkin"][1], `"user_id":7`)
	require.Equal(t, "error", got["toggle_habit"][0])
	require.Equal(t, "habit not found", got["toggle_habit"][2])
}

func TestBatchFlushOnTicker(t *testing.T) {
	logger, sqlDB := newTestLogger(t)
	defer logger.Close()

	logger.LogAsync(&Entry{Action: "wheel_snapshot"})

	require.Eventually(t, func() bool {
		return countEntries(t, sqlDB) == 1
	}, 3*time.Second, 50*time.Millisecond)
}
