package db

import (
	"database/sql"
	"time"
)

type GarminConnection struct {
	UserID      int64      `json:"user_id"`
	GarminEmail *string    `json:"garmin_email,omitempty"`
	LastSync    *time.Time `json:"last_sync,omitempty"`
	ConnectedAt time.Time  `json:"connected_at"`
}

// ConnectGarmin stores the account link. The token is kept server-side and
// never returned through the API.
func (db *DB) ConnectGarmin(userID int64, email, token string) error {
	_, err := db.Exec(`
		INSERT INTO garmin_connections (user_id, garmin_email, garmin_token)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			garmin_email = excluded.garmin_email,
			garmin_token = excluded.garmin_token,
			connected_at = datetime('now')`, userID, email, token)
	return err
}

func (db *DB) GetGarminConnection(userID int64) (*GarminConnection, string, error) {
	c := &GarminConnection{UserID: userID}
	var email, token sql.NullString
	var lastSync sql.NullTime
	err := db.QueryRow(`
		SELECT garmin_email, garmin_token, last_sync, connected_at
		FROM garmin_connections WHERE user_id = ?`, userID).Scan(
		&email, &token, &lastSync, &c.ConnectedAt)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	c.GarminEmail = nullStrPtr(email)
	if lastSync.Valid {
		c.LastSync = &lastSync.Time
	}
	return c, token.String, nil
}

func (db *DB) TouchGarminSync(userID int64) error {
	_, err := db.Exec(`UPDATE garmin_connections SET last_sync = datetime('now') WHERE user_id = ?`, userID)
	return err
}

func (db *DB) DisconnectGarmin(userID int64) error {
	_, err := db.Exec(`DELETE FROM garmin_connections WHERE user_id = ?`, userID)
	return err
}

type StravaConnection struct {
	UserID          int64      `json:"user_id"`
	StravaAthleteID *string    `json:"strava_athlete_id,omitempty"`
	TokenExpiresAt  int64      `json:"token_expires_at"`
	LastSync        *time.Time `json:"last_sync,omitempty"`
	ConnectedAt     time.Time  `json:"connected_at"`
}

func (db *DB) ConnectStrava(userID int64, athleteID, accessToken, refreshToken string, expiresAt int64) error {
	_, err := db.Exec(`
		INSERT INTO strava_connections (user_id, strava_athlete_id, access_token, refresh_token, token_expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			strava_athlete_id = excluded.strava_athlete_id,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_expires_at = excluded.token_expires_at,
			connected_at = datetime('now')`,
		userID, athleteID, accessToken, refreshToken, expiresAt)
	return err
}

// GetStravaConnection returns the link plus its tokens for the sync worker.
func (db *DB) GetStravaConnection(userID int64) (*StravaConnection, string, string, error) {
	c := &StravaConnection{UserID: userID}
	var athleteID, access, refresh sql.NullString
	var expiresAt sql.NullInt64
	var lastSync sql.NullTime
	err := db.QueryRow(`
		SELECT strava_athlete_id, access_token, refresh_token, token_expires_at, last_sync, connected_at
		FROM strava_connections WHERE user_id = ?`, userID).Scan(
		&athleteID, &access, &refresh, &expiresAt, &lastSync, &c.ConnectedAt)
	if err == sql.ErrNoRows {
		return nil, "", "", nil
	}
	if err != nil {
		return nil, "", "", err
	}
	c.StravaAthleteID = nullStrPtr(athleteID)
	c.TokenExpiresAt = expiresAt.Int64
	if lastSync.Valid {
		c.LastSync = &lastSync.Time
	}
	return c, access.String, refresh.String, nil
}

// RefreshStravaTokens replaces the token pair after an OAuth refresh.
func (db *DB) RefreshStravaTokens(userID int64, accessToken, refreshToken string, expiresAt int64) error {
	_, err := db.Exec(`
		UPDATE strava_connections SET access_token = ?, refresh_token = ?, token_expires_at = ?
		WHERE user_id = ?`, accessToken, refreshToken, expiresAt, userID)
	return err
}

func (db *DB) TouchStravaSync(userID int64) error {
	_, err := db.Exec(`UPDATE strava_connections SET last_sync = datetime('now') WHERE user_id = ?`, userID)
	return err
}

func (db *DB) DisconnectStrava(userID int64) error {
	_, err := db.Exec(`DELETE FROM strava_connections WHERE user_id = ?`, userID)
	return err
}
