package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add drafts index", "add_drafts_index"},
		{"Add-Drafts-Index", "add_drafts_index"},
		{"add__drafts__index", "add_drafts_index"},
		{"Purge 2026", "purge_2026"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	root := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	created, err := CreateMigration(root, "add drafts index", "Index drafts by user", now)
	require.NoError(t, err)
	require.Len(t, created, len(Drivers))

	for _, mf := range created {
		assert.Equal(t, "000001", mf.Version)
		assert.Equal(t, filepath.Join(root, mf.Driver, "000001_add_drafts_index.up.sql"), mf.UpPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "add drafts index ("+mf.Driver+")")
		assert.Contains(t, string(up), "Index drafts by user")
		assert.Contains(t, string(up), "2026-03-14T09:30:00Z")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Rollback")
	}
}

func TestCreateMigration_NextVersionSpansDrivers(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sqlite"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sqlite", "000004_old.up.sql"), nil, 0o644))

	created, err := CreateMigration(root, "next", "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "000005", created[0].Version)

	pg, err := ListMigrations(filepath.Join(root, "postgres"))
	require.NoError(t, err)
	assert.Equal(t, []string{"000005_next"}, pg)
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "", time.Now())
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_b.up.sql", "000002_b.down.sql",
		"000001_a.up.sql", "000001_a.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	got, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_a", "000002_b"}, got)

	missing, err := ListMigrations(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}
