package db

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/cgkit/errors"
)

func TestOpen_Pragmas(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "kb.db"), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	defer db.Close()

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)

	var busyTimeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, SQLiteBusyTimeoutMS, busyTimeout)
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.db")
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	db, err := Open(path, nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_InvalidPath(t *testing.T) {
	db, err := Open("/nonexistent/dir/kb.db", nil)
	if err == nil {
		// the driver may defer the failure to first use
		err = db.Ping()
		db.Close()
	}
	require.Error(t, err)
	assert.Contains(t, fmt.Sprintf("%+v", err), "connection.go", "error should carry a stack trace")
}

func TestIsDatabaseClosed(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "kb.db"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = db.Exec("SELECT 1")
	assert.True(t, IsDatabaseClosed(err))
	assert.True(t, IsDatabaseClosed(errors.Wrap(ErrDatabaseClosed, "save")))
	assert.False(t, IsDatabaseClosed(nil))
	assert.False(t, IsDatabaseClosed(errors.New("disk full")))
}

func TestIsConstraintViolation(t *testing.T) {
	db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "kb.db"), nil)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("INSERT INTO knowledge_bases (name, format_version) VALUES ('family', '1.0.0')")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO knowledge_bases (name, format_version) VALUES ('family', '1.0.0')")
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
	assert.True(t, IsConstraintViolation(errors.Wrap(err, "insert")))

	_, err = db.Exec("INSERT INTO concepts (kb_name, id, label, position, type_labels, designator_kind) VALUES ('missing', 'c1', 'Tom', 0, '[]', 'THE')")
	assert.True(t, IsConstraintViolation(err), "foreign key: %v", err)

	assert.False(t, IsConstraintViolation(errors.New("other")))
}
