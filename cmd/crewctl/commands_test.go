package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewscheduler/backend/internal/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSeedThenAsk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	out, err := run(t, "seed", "--out", path, "--seed", "11")
	require.NoError(t, err)
	assert.Contains(t, out, "flights=50")
	assert.Contains(t, out, "schedules=20")
	assert.Contains(t, out, "shifts=30")

	_, err = run(t, "seed", "--out", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, "seed", "--out", path, "--force")
	require.NoError(t, err)

	out, err = run(t, "ask", "--data", path, "--user", "pilot1", "--tz", "UTC", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "Captain Sarah Johnson")
	assert.Contains(t, out, "[greeting]")
}

func TestAskWithMissingData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	out, err := run(t, "ask", "--data", path, "my schedule")
	require.NoError(t, err)
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, "Check data file")
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "hash-password", "pilot123")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := auth.CheckPassword("pilot123", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMigrateRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := run(t, "migrate", "status")
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestImportLoadSkipsMalformedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"users": [{"username": "pilot1", "password": "pilot123", "role": "pilot", "name": "Captain Sarah Johnson"}],
		"shifts": [
			{"id": "SH1", "shift_date": "2025-06-02", "pay_rate": "TBD"},
			{"id": "SH2", "shift_date": "2025-06-03", "start_time": "14:00"}
		]
	}`), 0o644))

	var warn bytes.Buffer
	doc, err := loadForImport(context.Background(), path, &warn)
	require.NoError(t, err)
	assert.Contains(t, warn.String(), "warning: skipping")
	assert.Contains(t, warn.String(), "shifts[0]")
	require.Len(t, doc.Shifts, 1)
	assert.Equal(t, "SH2", doc.Shifts[0].ID)
	assert.Len(t, doc.Users, 1)
}

func TestImportLoadFailsOnMissingFile(t *testing.T) {
	var warn bytes.Buffer
	_, err := loadForImport(context.Background(), filepath.Join(t.TempDir(), "missing.json"), &warn)
	assert.Error(t, err)
	assert.Empty(t, warn.String())
}
