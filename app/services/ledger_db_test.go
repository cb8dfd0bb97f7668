package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdsameer16/Alfitra-Fees/app/models"
)

var feePaymentRowColumns = []string{
	"id", "student_id", "receipt_number", "academic_year", "payment_date",
	"payment_mode", "payment_details", "paid_by_name", "paid_by_relation", "paid_by_contact",
	"items", "total_amount", "balance_after_payment", "remarks", "created_by", "created_at",
	"s_id", "s_first_name", "s_last_name", "s_roll_number", "s_class",
}

func tuitionPaymentRow(amount float64) *sqlmock.Rows {
	return sqlmock.NewRows(feePaymentRowColumns).AddRow(
		"pay-1", "student-1", int64(1), "2026", time.Now(),
		"Cash", "", "Father Name", "Father", "",
		[]byte(`[{"category":"Tuition","amount":5000}]`), amount, 15000.0, "", "user-1", time.Now(),
		"student-1", "Aisha", "Khan", "R-01", "Class 5",
	)
}

// A 5000 tuition payment against a 20000 total-fee student leaves
// paidAmount 5000 and balance 15000, with both the receipt allocation and
// the re-aggregation inside the same transaction.
func TestRecordPaymentReconcilesStudent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, fee_total_fee, fee_concession, fee_balance FROM students").
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "fee_total_fee", "fee_concession", "fee_balance"}).
			AddRow("student-1", 20000.0, 0.0, 20000.0))
	mock.ExpectQuery("INSERT INTO counters").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO fee_payments").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM fee_payments`).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(5000.0))
	mock.ExpectExec("UPDATE students SET fee_paid_amount").
		WithArgs("student-1", 5000.0, 15000.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ledger := NewFeeLedger(db)
	payment, err := ledger.RecordPayment(CreatePaymentInput{
		StudentID: "student-1",
		Items:     []models.FeeItem{{Category: models.CategoryTuition, Amount: 5000}},
		PaidBy:    models.PayerInfo{Name: "Father Name", Relation: models.RelationFather},
	}, Actor{UserID: "user-1", Role: models.RoleStaff})

	require.NoError(t, err)
	assert.Equal(t, int64(1), payment.ReceiptNumber)
	assert.Equal(t, 5000.0, payment.TotalAmount)
	assert.Equal(t, 15000.0, payment.BalanceAfterPayment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Deleting the student's only payment re-aggregates paidAmount back to 0
// and the balance back to the full fee.
func TestDeletePaymentRestoresBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT fp.id, fp.student_id").
		WithArgs("pay-1").
		WillReturnRows(tuitionPaymentRow(5000))
	mock.ExpectExec("DELETE FROM fee_payments").
		WithArgs("pay-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, fee_total_fee, fee_concession, fee_balance FROM students").
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "fee_total_fee", "fee_concession", "fee_balance"}).
			AddRow("student-1", 20000.0, 0.0, 15000.0))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM fee_payments`).
		WithArgs("student-1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(0.0))
	mock.ExpectExec("UPDATE students SET fee_paid_amount").
		WithArgs("student-1", 0.0, 20000.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ledger := NewFeeLedger(db)
	err = ledger.DeletePayment("pay-1", Actor{UserID: "admin-1", Role: models.RoleAdmin})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Recalculate run twice without an intervening payment change writes the
// same aggregates both times.
func TestRecalculateIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id, fee_total_fee, fee_concession, fee_balance FROM students").
			WithArgs("student-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "fee_total_fee", "fee_concession", "fee_balance"}).
				AddRow("student-1", 20000.0, 2000.0, 10000.0))
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM fee_payments`).
			WithArgs("student-1").
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(8000.0))
		mock.ExpectExec("UPDATE students SET fee_paid_amount").
			WithArgs("student-1", 8000.0, 10000.0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	ledger := NewFeeLedger(db)
	require.NoError(t, ledger.Recalculate("student-1"))
	require.NoError(t, ledger.Recalculate("student-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentRejectsInvalidEnums(t *testing.T) {
	// validation runs before any database work, so no connection is needed
	ledger := &FeeLedger{}

	_, err := ledger.RecordPayment(CreatePaymentInput{
		StudentID:   "student-1",
		Amount:      1000,
		PaymentMode: "Bitcoin",
		PaidBy:      models.PayerInfo{Name: "Someone", Relation: models.RelationFather},
	}, Actor{UserID: "user-1", Role: models.RoleStaff})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "payment mode")

	_, err = ledger.RecordPayment(CreatePaymentInput{
		StudentID: "student-1",
		Amount:    1000,
		PaidBy:    models.PayerInfo{Name: "Someone", Relation: "Uncle"},
	}, Actor{UserID: "user-1", Role: models.RoleStaff})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "paidBy.relation")
}

func TestUpdatePaymentRejectsInvalidEnums(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	relation := models.PayerRelation("Uncle")
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT fp.id, fp.student_id").
		WithArgs("pay-1").
		WillReturnRows(tuitionPaymentRow(5000))
	mock.ExpectRollback()

	ledger := NewFeeLedger(db)
	_, err = ledger.UpdatePayment("pay-1", UpdatePaymentInput{
		PaidBy: &models.PayerInfo{Name: "Someone", Relation: relation},
	}, Actor{UserID: "admin-1", Role: models.RoleAdmin})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "paidBy.relation")
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT fp.id, fp.student_id").
		WithArgs("pay-1").
		WillReturnRows(tuitionPaymentRow(5000))
	mock.ExpectRollback()

	_, err = ledger.UpdatePayment("pay-1", UpdatePaymentInput{
		PaymentMode: "Bitcoin",
	}, Actor{UserID: "admin-1", Role: models.RoleAdmin})
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Message, "payment mode")
	assert.NoError(t, mock.ExpectationsWereMet())
}
