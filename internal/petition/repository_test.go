// AngelaMos | 2026
// repository_test.go

package petition

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

func TestRepositorySearch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM petitions p")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "title", "category_id", "owner_id",
		"owner_first_name", "owner_last_name", "created_at",
		"number_of_supporters", "supporting_cost",
	}).
		AddRow(1, "Save the bay", 1, 7, "Ada", "Lovelace", now, 3, 10).
		AddRow(2, "Fix the bridge", 2, 8, "Alan", "Turing", now, 0, nil)

	mock.ExpectQuery("SELECT(.|\n)+FROM petitions p(.|\n)+ORDER BY p.created_at ASC, p.id ASC").
		WillReturnRows(rows)

	result, err := repo.Search(context.Background(), SearchParams{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	require.Len(t, result.Petitions, 2)
	assert.Equal(t, "Save the bay", result.Petitions[0].Title)
	require.NotNil(t, result.Petitions[0].SupportingCost)
	assert.Equal(t, int64(10), *result.Petitions[0].SupportingCost)
	assert.Nil(t, result.Petitions[1].SupportingCost)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "owner_id", "title", "description", "category_id",
			"image_filename", "created_at",
		}).AddRow(5, 7, "Save the bay", "desc", 1, nil, time.Now())

		mock.ExpectQuery("SELECT(.|\n)+FROM petitions(.|\n)+WHERE id = \\$1").
			WithArgs(int64(5)).
			WillReturnRows(rows)

		p, err := repo.GetByID(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, int64(7), p.OwnerID)
	})

	t.Run("absent", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.|\n)+FROM petitions").
			WithArgs(int64(6)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(context.Background(), 6)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_DuplicateTitle(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO petitions")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), db, &Petition{
		OwnerID:     1,
		Title:       "Save the bay",
		Description: "desc",
		CategoryID:  1,
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTierRepositoryCreate_DuplicateTitle(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTierRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO support_tiers")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), db, &SupportTier{
		PetitionID:  1,
		Title:       "Bronze",
		Description: "basic",
		Cost:        5,
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupporterRepositoryCreate_DuplicatePledge(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSupporterRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO supporters")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &Supporter{
		PetitionID:    1,
		SupportTierID: 1,
		UserID:        2,
	})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupporterRepositoryListByPetition(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSupporterRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "support_tier_id", "message", "user_id",
		"first_name", "last_name", "created_at",
	}).
		AddRow(2, 1, "newer", 4, "Ada", "Lovelace", now).
		AddRow(1, 1, nil, 5, "Alan", "Turing", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT(.|\n)+FROM supporters s(.|\n)+ORDER BY s.created_at DESC, s.id ASC").
		WithArgs(int64(9)).
		WillReturnRows(rows)

	out, err := repo.ListByPetition(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.NotNil(t, out[0].Message)
	assert.Equal(t, "newer", *out[0].Message)
	assert.Nil(t, out[1].Message)

	assert.NoError(t, mock.ExpectationsWereMet())
}
