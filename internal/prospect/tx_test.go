package prospect

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var prospectColumns = []string{
	"id", "business_name", "business_type", "location", "phone", "email", "current_web_presence",
	"listing_url", "years_in_business", "status", "notes", "last_contacted", "next_followup",
	"created_at", "updated_at",
}

func mockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	d, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return NewStore(d), mock
}

func TestCreateRollsBackWhenActivityFails(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO prospects`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO activity_log`).WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	_, err := s.Create(context.Background(), newTestProspect("Joe's Plumbing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRollsBackWhenActivityFails(t *testing.T) {
	s, mock := mockStore(t)
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM prospects WHERE id = \?`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(prospectColumns).AddRow(
			int64(1), "Joe's Plumbing", "Plumber", "Austin", nil, nil, "No website",
			nil, nil, "not_contacted", nil, nil, nil, now, now,
		))
	mock.ExpectExec(`UPDATE prospects SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO activity_log`).WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	won := StatusWon
	_, err := s.Update(context.Background(), 1, Patch{Status: &won})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogContactRollsBackWhenActivityFails(t *testing.T) {
	s, mock := mockStore(t)
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM prospects WHERE id = \?`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(prospectColumns).AddRow(
			int64(1), "Joe's Plumbing", "Plumber", "Austin", nil, nil, "No website",
			nil, nil, "not_contacted", nil, nil, nil, now, now,
		))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE prospects SET last_contacted`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO activity_log`).WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	_, err := s.LogContact(context.Background(), 1, "called owner", nil)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxCommitFailure(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM prospects`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("database is locked"))

	_, err := s.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "committing transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	s, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = withTx(context.Background(), s.db, func(_ *sql.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
