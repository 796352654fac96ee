package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestBodyMetricsUpsert(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "body")

	require.NoError(t, d.UpsertBodyMetrics(BodyMetrics{
		UserID: uid, LogDate: "2026-08-25", WeightKg: floatPtr(82.4),
	}))
	// Same-day re-entry replaces the row.
	require.NoError(t, d.UpsertBodyMetrics(BodyMetrics{
		UserID: uid, LogDate: "2026-08-25", WeightKg: floatPtr(82.1), WaistCm: floatPtr(88),
	}))
	require.NoError(t, d.UpsertBodyMetrics(BodyMetrics{
		UserID: uid, LogDate: "2026-08-20", WeightKg: floatPtr(83.0),
	}))

	history, err := d.BodyMetricsHistory(uid, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	weight, err := d.LatestWeight(uid)
	require.NoError(t, err)
	require.NotNil(t, weight)
	require.Equal(t, 82.1, *weight)
}

func TestLatestWeightNoData(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "noweight")

	weight, err := d.LatestWeight(uid)
	require.NoError(t, err)
	require.Nil(t, weight)
}

func TestDexaScanUpsert(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "dexa")

	require.NoError(t, d.UpsertDexaScan(DexaScan{
		UserID: uid, ScanDate: "2026-06-01", TotalFatPct: floatPtr(22.5),
	}))
	require.NoError(t, d.UpsertDexaScan(DexaScan{
		UserID: uid, ScanDate: "2026-06-01", TotalFatPct: floatPtr(22.7), LeanMassG: floatPtr(61200),
	}))

	scans, err := d.DexaScans(uid)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	require.Equal(t, 22.7, *scans[0].TotalFatPct)
	require.Equal(t, 61200.0, *scans[0].LeanMassG)
}

func TestGarminConnectionLifecycle(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "garmin")

	conn, token, err := d.GetGarminConnection(uid)
	require.NoError(t, err)
	require.Nil(t, conn)

	require.NoError(t, d.ConnectGarmin(uid, "rider@example.com", "tok-1"))
	conn, token, err = d.GetGarminConnection(uid)
	require.NoError(t, err)
	require.NotNil(t, conn)
	require.Equal(t, "rider@example.com", *conn.GarminEmail)
	require.Equal(t, "tok-1", token)
	require.Nil(t, conn.LastSync)

	// Reconnecting replaces the stored token.
	require.NoError(t, d.ConnectGarmin(uid, "rider@example.com", "tok-2"))
	_, token, err = d.GetGarminConnection(uid)
	require.NoError(t, err)
	require.Equal(t, "tok-2", token)

	require.NoError(t, d.TouchGarminSync(uid))
	conn, _, err = d.GetGarminConnection(uid)
	require.NoError(t, err)
	require.NotNil(t, conn.LastSync)

	require.NoError(t, d.DisconnectGarmin(uid))
	conn, _, err = d.GetGarminConnection(uid)
	require.NoError(t, err)
	require.Nil(t, conn)
}

func TestStravaConnectionLifecycle(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "strava")

	require.NoError(t, d.ConnectStrava(uid, "12345", "access-1", "refresh-1", 1790000000))
	conn, access, refresh, err := d.GetStravaConnection(uid)
	require.NoError(t, err)
	require.NotNil(t, conn)
	require.Equal(t, "12345", *conn.StravaAthleteID)
	require.Equal(t, "access-1", access)
	require.Equal(t, "refresh-1", refresh)
	require.Equal(t, int64(1790000000), conn.TokenExpiresAt)

	require.NoError(t, d.RefreshStravaTokens(uid, "access-2", "refresh-2", 1795000000))
	conn, access, refresh, err = d.GetStravaConnection(uid)
	require.NoError(t, err)
	require.Equal(t, "access-2", access)
	require.Equal(t, "refresh-2", refresh)
	require.Equal(t, int64(1795000000), conn.TokenExpiresAt)

	require.NoError(t, d.DisconnectStrava(uid))
	conn, _, _, err = d.GetStravaConnection(uid)
	require.NoError(t, err)
	require.Nil(t, conn)
}
