package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsDir_EnvOverride(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "/custom/migrations")

	assert.Equal(t, "/custom/migrations", migrationsDir())
}

func TestMigrationsDir_Default(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "")

	assert.Equal(t, "db/migrations", migrationsDir())
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_DSN", "")
	assert.Equal(t, defaultDSN, databaseURL())

	t.Setenv("DB_DSN", "postgres://dsn/catalog")
	assert.Equal(t, "postgres://dsn/catalog", databaseURL())

	t.Setenv("DATABASE_URL", "postgres://url/catalog")
	assert.Equal(t, "postgres://url/catalog", databaseURL())
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmp, ".env"), []byte("DB_DSN=from_file\n"), 0o644))

	t.Setenv("DB_DSN", "from_env")
	t.Chdir(tmp)

	loadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
}

func TestRun_CreateRequiresName(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := run(context.Background(), logger, "create", "")
	assert.ErrorIs(t, err, errNameRequired)
}

func TestRun_CreateWritesMigration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MIGRATIONS_DIR", dir)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, run(context.Background(), logger, "create", "add_isbn"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "add_isbn.sql")
}
