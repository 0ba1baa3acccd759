package metadata

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func setupMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewSQLiteRepository(db), mock
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("eyJ.abc.def")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("eyJ.abc.def"), v)
}

func TestGet_NotExists_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "token")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("old")))
	require.NoError(t, r.Set(ctx, "token", []byte("new")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestDelete_RemovesOnlyNamedKeys(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("t")))
	require.NoError(t, r.Set(ctx, "userData", []byte("{}")))
	require.NoError(t, r.Set(ctx, "session_salt", []byte{1, 2}))

	require.NoError(t, r.Delete(ctx, "token", "userData"))

	for _, k := range []string{"token", "userData"} {
		v, err := r.Get(ctx, k)
		require.NoError(t, err)
		assert.Nil(t, v)
	}
	salt, err := r.Get(ctx, "session_salt")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, salt)

	// deleting again is a no-op
	require.NoError(t, r.Delete(ctx, "token", "userData"))
	require.NoError(t, r.Delete(ctx))
}

func TestGet_DBErrorWrapped(t *testing.T) {
	r, mock := setupMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM metadata WHERE key = ?`)).
		WithArgs("token").
		WillReturnError(errors.New("disk I/O error"))

	v, err := r.Get(context.Background(), "token")
	require.Nil(t, v)
	require.ErrorContains(t, err, "failed to get metadata[token]")
}

func TestSet_DBErrorWrapped(t *testing.T) {
	r, mock := setupMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO metadata`)).
		WithArgs("token", []byte("v")).
		WillReturnError(errors.New("readonly database"))

	err := r.Set(context.Background(), "token", []byte("v"))
	require.ErrorContains(t, err, "failed to set metadata[token]")
}

func TestDelete_DBErrorWrapped(t *testing.T) {
	r, mock := setupMock(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM metadata WHERE key IN (?,?)`)).
		WithArgs("token", "userData").
		WillReturnError(errors.New("locked"))

	err := r.Delete(context.Background(), "token", "userData")
	require.ErrorContains(t, err, "failed to delete metadata[token userData]")
}
