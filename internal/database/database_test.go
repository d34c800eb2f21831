package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/mood-journal/backend/internal/config"
	"github.com/zhouzirui/mood-journal/backend/internal/logger"
)

func TestOpenSQLiteCreatesSchema(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "journal.db")}

	db, err := Open(cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.True(t, db.Migrator().HasTable("conversation"))
	assert.True(t, db.Migrator().HasTable("message"))
	assert.NoError(t, Ping(context.Background(), db))

	// a second migration over an existing file is a no-op
	assert.NoError(t, Migrate(db))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "mysql", DSN: "x"}, logger.Nop())
	assert.Error(t, err)
}
