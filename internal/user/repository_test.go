// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/petition-platform/internal/core"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestRepositoryCreate(t *testing.T) {
	t.Run("assigns id from the insert", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("ada@example.com", "Ada", "Lovelace", "hash").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
				AddRow(int64(11), time.Now()))

		user := &User{
			Email:        "ada@example.com",
			FirstName:    "Ada",
			LastName:     "Lovelace",
			PasswordHash: "hash",
		}
		require.NoError(t, repo.Create(context.Background(), user))
		assert.Equal(t, int64(11), user.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.Create(context.Background(), &User{Email: "dup@example.com"})
		assert.ErrorIs(t, err, core.ErrDuplicateKey)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositoryGetByTokenHash(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	t.Run("found", func(t *testing.T) {
		hash := "tokenhash"
		rows := sqlmock.NewRows([]string{
			"id", "email", "first_name", "last_name", "password_hash",
			"auth_token_hash", "image_filename", "created_at",
		}).AddRow(3, "ada@example.com", "Ada", "Lovelace", "pw", hash, nil, time.Now())

		mock.ExpectQuery("SELECT(.|\n)+FROM users(.|\n)+WHERE auth_token_hash = \\$1").
			WithArgs(hash).
			WillReturnRows(rows)

		user, err := repo.GetByTokenHash(context.Background(), hash)
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
	})

	t.Run("absent", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.|\n)+FROM users").
			WithArgs("unknown").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByTokenHash(context.Background(), "unknown")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySetAuthTokenHash(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	t.Run("clears the token", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs(int64(3), nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetAuthTokenHash(context.Background(), 3, nil))
	})

	t.Run("absent user", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs(int64(99), nil).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetAuthTokenHash(context.Background(), 99, nil)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
