package database

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Payment receipts are permanent: listing must not drop a payment because
// its student was since soft-deleted. The matcher fails the test if the
// generated SQL filters on deleted_at.
func TestListFeePaymentsKeepsDeletedStudentsVisible(t *testing.T) {
	matcher := sqlmock.QueryMatcherFunc(func(expectedSQL, actualSQL string) error {
		if strings.Contains(actualSQL, "deleted_at") {
			return fmt.Errorf("payment listing filters on deleted_at: %s", actualSQL)
		}
		if !strings.Contains(actualSQL, expectedSQL) {
			return fmt.Errorf("query %q does not contain %q", actualSQL, expectedSQL)
		}
		return nil
	})

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	defer db.Close()

	columns := []string{
		"id", "student_id", "receipt_number", "academic_year", "payment_date",
		"payment_mode", "payment_details", "paid_by_name", "paid_by_relation", "paid_by_contact",
		"items", "total_amount", "balance_after_payment", "remarks", "created_by", "created_at",
		"s_id", "s_first_name", "s_last_name", "s_roll_number", "s_class",
	}

	mock.ExpectQuery("SELECT COUNT(*)").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT fp.id, fp.student_id").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"pay-1", "student-1", int64(7), "2026", time.Now(),
			"Cash", "", "Father Name", "Father", "",
			[]byte(`[{"category":"Tuition","amount":5000}]`), 5000.0, 15000.0, "", "user-1", time.Now(),
			"student-1", "Aisha", "Khan", "R-01", "Class 5",
		))

	payments, total, err := ListFeePayments(db, ListParams{Page: 1, Limit: 25})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, payments, 1)
	assert.Equal(t, int64(7), payments[0].ReceiptNumber)
	require.NotNil(t, payments[0].Student)
	assert.Equal(t, "Aisha", payments[0].Student.FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
