package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The rollover folds positive balances into arrears in one statement and
// leaves settled students out of the affected set entirely.
func TestPromoteStudents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE students SET fee_arrears = fee_arrears \+ fee_balance.*WHERE fee_balance > 0 AND deleted_at IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 42))

	count, err := PromoteStudents(db)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStudentsFeeStatusPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students WHERE deleted_at IS NULL AND fee_balance > 0`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`FROM students WHERE deleted_at IS NULL AND fee_balance > 0 ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := ListStudents(db, ListParams{Page: 1, Limit: 25, FeeStatus: "pending"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStudentsFeeStatusCompleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students WHERE deleted_at IS NULL AND fee_balance <= 0`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`FROM students WHERE deleted_at IS NULL AND fee_balance <= 0 ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := ListStudents(db, ListParams{Page: 1, Limit: 25, FeeStatus: "completed"})
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNextSequenceStrictlyIncreasing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO counters").WithArgs("receiptNumber").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO counters").WithArgs("receiptNumber").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(2)))

	first, err := NextSequence(db, "receiptNumber")
	require.NoError(t, err)
	second, err := NextSequence(db, "receiptNumber")
	require.NoError(t, err)

	assert.Greater(t, second, first)
	assert.NoError(t, mock.ExpectationsWereMet())
}
