package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func testUser(t *testing.T, d *DB, username string) int64 {
	t.Helper()
	u, err := d.CreateUser(CreateUserInput{Username: username, PasswordHash: "x"})
	require.NoError(t, err)
	return u.ID
}

func TestPillarsSeededOnOpen(t *testing.T) {
	d := openTestDB(t)

	pillars, err := d.ListPillars()
	require.NoError(t, err)
	require.Len(t, pillars, 6)

	names := make(map[string]bool)
	for _, p := range pillars {
		names[p.Name] = true
	}
	for _, name := range []string{"nutrition", "physical_activity", "sleep", "stress_management", "social_connection", "substance_avoidance"} {
		require.True(t, names[name], "missing pillar %s", name)
	}

	// Re-running the seed must not duplicate rows.
	require.NoError(t, d.SeedPillars())
	pillars, err = d.ListPillars()
	require.NoError(t, err)
	require.Len(t, pillars, 6)
}

func TestSeedReferenceIdempotent(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.SeedReference())
	defs, err := d.ListBiomarkerDefinitions()
	require.NoError(t, err)
	require.NotEmpty(t, defs)

	require.NoError(t, d.SeedReference())
	defs2, err := d.ListBiomarkerDefinitions()
	require.NoError(t, err)
	require.Len(t, defs2, len(defs))
}

func TestCreateUserDuplicate(t *testing.T) {
	d := openTestDB(t)

	_, err := d.CreateUser(CreateUserInput{Username: "alex", PasswordHash: "h1"})
	require.NoError(t, err)

	_, err = d.CreateUser(CreateUserInput{Username: "alex", PasswordHash: "h2"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "UNIQUE")
}

func TestClinicalProfileUpsert(t *testing.T) {
	d := openTestDB(t)
	uid := testUser(t, d, "clinical")

	p, err := d.GetClinicalProfile(uid)
	require.NoError(t, err)
	require.Nil(t, p)

	sex := "female"
	dob := "1985-03-12"
	require.NoError(t, d.UpsertClinicalProfile(ClinicalProfile{
		UserID: uid, Sex: &sex, DateOfBirth: &dob,
	}))

	p, err = d.GetClinicalProfile(uid)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, "female", *p.Sex)
	// Omitted diabetes_type lands on the schema default.
	require.Equal(t, "none", p.DiabetesType)

	// Second upsert replaces, not duplicates.
	sex2 := "female"
	height := 168.0
	require.NoError(t, d.UpsertClinicalProfile(ClinicalProfile{
		UserID: uid, Sex: &sex2, DateOfBirth: &dob, HeightCm: &height,
	}))
	p, err = d.GetClinicalProfile(uid)
	require.NoError(t, err)
	require.Equal(t, 168.0, *p.HeightCm)
}
