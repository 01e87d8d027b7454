package migration

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/erp/requisition/migrations"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrator_EmbeddedSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.db")
	m, err := NewFromFS(migrations.FS, "sqlite", "sqlite3://"+path, zap.NewNop())
	require.NoError(t, err)
	defer m.Close()

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, m.Up())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	// a second Up is a no-op
	require.NoError(t, m.Up())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var name string
	require.NoError(t, db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'request_drafts'").Scan(&name))

	require.NoError(t, m.Down())
	err = db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'request_drafts'").Scan(&name)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMigrator_EmbeddedSetsMatch(t *testing.T) {
	for _, driver := range Drivers {
		entries, err := migrations.FS.ReadDir(driver)
		require.NoError(t, err, driver)
		assert.NotEmpty(t, entries, driver)
	}
	pg, err := migrations.FS.ReadDir("postgres")
	require.NoError(t, err)
	lite, err := migrations.FS.ReadDir("sqlite")
	require.NoError(t, err)
	require.Equal(t, len(pg), len(lite))
	for i := range pg {
		assert.Equal(t, pg[i].Name(), lite[i].Name())
	}
}
