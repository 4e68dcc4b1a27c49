package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/failures"
)

func newMockRepo(t *testing.T) (*FailureRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewFailureRepository(db), mock
}

func TestSave(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO prism_failures")).
		WithArgs("r-1", "dimension", "exposure", "gpt-4o-mini", "HTTP 500", created).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	f := &domain.Failure{
		ReportID:  "r-1",
		Stage:     domain.StageDimension,
		Dimension: "exposure",
		Model:     "gpt-4o-mini",
		Message:   "HTTP 500",
		CreatedAt: created,
	}
	require.NoError(t, repo.Save(context.Background(), f))
	assert.EqualValues(t, 7, f.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_DefaultsCreatedAt(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("INSERT INTO prism_failures").
		WithArgs("r", "-", "-", "-", "-", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	require.NoError(t, repo.Save(context.Background(), &domain.Failure{ReportID: "r"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "report_id", "stage", "dimension", "model", "message", "created_at"}).
		AddRow(int64(3), "r-3", "synthesis", "-", "claude-sonnet-4-5", "overloaded", now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM prism_failures")).WithArgs(50).WillReturnRows(rows)

	got, err := repo.Recent(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.StageSynthesis, got[0].Stage)
	assert.Empty(t, got[0].Dimension)
	assert.Equal(t, "overloaded", got[0].Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT id").WillReturnError(errors.New("relation does not exist"))

	_, err := repo.Recent(context.Background(), 10)
	assert.EqualError(t, err, "relation does not exist")
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS prism_failures").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
