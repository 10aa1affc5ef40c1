package database

import (
	"testing"
	"testing/fstest"

	"atenciones-backend/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingMigrationsOrderAndSkips(t *testing.T) {
	fsys := fstest.MapFS{
		"002_indexes.sql":   {Data: []byte("SELECT 1;")},
		"001_init.sql":      {Data: []byte("SELECT 1;")},
		"000_reset_all.sql": {Data: []byte("DROP SCHEMA public;")},
		"README.md":         {Data: []byte("notes")},
		"sub/003_x.sql":     {Data: []byte("SELECT 1;")},
	}

	files, err := PendingMigrations(fsys, ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_indexes.sql"}, files)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	files, err := PendingMigrations(migrations.FS, ".")
	require.NoError(t, err)
	assert.Contains(t, files, "001_init.sql")
}
