package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sdsameer16/Alfitra-Fees/app/models"
)

const feePaymentColumns = `fp.id, fp.student_id, fp.receipt_number, fp.academic_year, fp.payment_date,
	fp.payment_mode, fp.payment_details, fp.paid_by_name, fp.paid_by_relation, fp.paid_by_contact,
	fp.items, fp.total_amount, fp.balance_after_payment, fp.remarks, fp.created_by, fp.created_at`

const studentSummaryColumns = `s.id, s.first_name, s.last_name, s.roll_number, s.class`

func scanFeePayment(row scanner, withStudent bool) (*models.FeePayment, error) {
	p := &models.FeePayment{}
	var itemsJSON []byte
	var createdBy sql.NullString

	dest := []interface{}{
		&p.ID, &p.StudentID, &p.ReceiptNumber, &p.AcademicYear, &p.PaymentDate,
		&p.PaymentMode, &p.PaymentDetails, &p.PaidBy.Name, &p.PaidBy.Relation, &p.PaidBy.Contact,
		&itemsJSON, &p.TotalAmount, &p.BalanceAfterPayment, &p.Remarks, &createdBy, &p.CreatedAt,
	}

	ref := &models.StudentRef{}
	if withStudent {
		dest = append(dest, &ref.ID, &ref.FirstName, &ref.LastName, &ref.RollNumber, &ref.Class)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &p.Items); err != nil {
		return nil, fmt.Errorf("failed to decode payment items: %v", err)
	}
	if createdBy.Valid {
		p.CreatedBy = createdBy.String
	}
	if withStudent {
		p.Student = ref
	}
	return p, nil
}

// InsertFeePayment writes one payment record; the caller (the fee ledger)
// owns the surrounding transaction.
func InsertFeePayment(q Queryer, p *models.FeePayment) error {
	itemsJSON, err := json.Marshal(p.Items)
	if err != nil {
		return err
	}

	var createdBy interface{}
	if p.CreatedBy != "" {
		createdBy = p.CreatedBy
	}

	query := `INSERT INTO fee_payments (
			id, student_id, receipt_number, academic_year, payment_date,
			payment_mode, payment_details, paid_by_name, paid_by_relation, paid_by_contact,
			items, total_amount, balance_after_payment, remarks, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at`

	return q.QueryRow(query,
		p.ID, p.StudentID, p.ReceiptNumber, p.AcademicYear, p.PaymentDate,
		p.PaymentMode, p.PaymentDetails, p.PaidBy.Name, p.PaidBy.Relation, p.PaidBy.Contact,
		itemsJSON, p.TotalAmount, p.BalanceAfterPayment, p.Remarks, createdBy,
	).Scan(&p.CreatedAt)
}

// UpdateFeePayment rewrites the editable fields of a payment record.
func UpdateFeePayment(q Queryer, p *models.FeePayment) error {
	itemsJSON, err := json.Marshal(p.Items)
	if err != nil {
		return err
	}

	query := `UPDATE fee_payments SET
			academic_year = $2, payment_date = $3, payment_mode = $4, payment_details = $5,
			paid_by_name = $6, paid_by_relation = $7, paid_by_contact = $8,
			items = $9, total_amount = $10, remarks = $11
		WHERE id = $1`

	result, err := q.Exec(query,
		p.ID, p.AcademicYear, p.PaymentDate, p.PaymentMode, p.PaymentDetails,
		p.PaidBy.Name, p.PaidBy.Relation, p.PaidBy.Contact,
		itemsJSON, p.TotalAmount, p.Remarks,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteFeePayment removes a payment record permanently.
func DeleteFeePayment(q Queryer, id string) error {
	result, err := q.Exec(`DELETE FROM fee_payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetFeePaymentByID fetches one payment with its student summary.
func GetFeePaymentByID(q Queryer, id string) (*models.FeePayment, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM fee_payments fp
		JOIN students s ON s.id = fp.student_id
		WHERE fp.id = $1`, feePaymentColumns, studentSummaryColumns)

	p, err := scanFeePayment(q.QueryRow(query, id), true)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

// ListFeePayments runs the whitelisted filter/sort/paginate query over
// payments, joining the owning student summary onto each row. Payments are
// permanent financial records: soft-deleting a student never hides them
// here, matching the per-student and date-range queries.
func ListFeePayments(db *sql.DB, params ListParams) ([]*models.FeePayment, int, error) {
	conditions := []string{}
	args := []interface{}{}

	filterConditions, filterArgs := params.whereClause(1)
	conditions = append(conditions, filterConditions...)
	args = append(args, filterArgs...)

	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf(
			`(LOWER(s.first_name) LIKE $%d OR LOWER(s.last_name) LIKE $%d OR LOWER(s.roll_number) LIKE $%d OR fp.receipt_number::text LIKE $%d)`,
			n, n, n, n))
		args = append(args, pattern)
	}

	where := "TRUE"
	if len(conditions) > 0 {
		where = strings.Join(conditions, " AND ")
	}
	from := `FROM fee_payments fp JOIN students s ON s.id = fp.student_id`

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) %s WHERE %s`, from, where)
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := params.orderClause(FeeFilterFields, "", "fp.created_at DESC")
	dataQuery := fmt.Sprintf(`SELECT %s, %s %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		feePaymentColumns, studentSummaryColumns, from, where, order, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := db.Query(dataQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	payments := []*models.FeePayment{}
	for rows.Next() {
		p, err := scanFeePayment(rows, true)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}
	return payments, total, rows.Err()
}

// GetFeePaymentsByStudent returns one student's payment history, newest
// payment first.
func GetFeePaymentsByStudent(db *sql.DB, studentID string) ([]*models.FeePayment, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM fee_payments fp
		JOIN students s ON s.id = fp.student_id
		WHERE fp.student_id = $1
		ORDER BY fp.payment_date DESC`, feePaymentColumns, studentSummaryColumns)
	return queryFeePayments(db, query, studentID)
}

// GetFeePaymentsByDateRange returns payments whose payment date falls within
// the inclusive range.
func GetFeePaymentsByDateRange(db *sql.DB, start, end time.Time) ([]*models.FeePayment, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM fee_payments fp
		JOIN students s ON s.id = fp.student_id
		WHERE fp.payment_date >= $1 AND fp.payment_date <= $2
		ORDER BY fp.payment_date DESC`, feePaymentColumns, studentSummaryColumns)
	return queryFeePayments(db, query, start, end)
}

func queryFeePayments(db *sql.DB, query string, args ...interface{}) ([]*models.FeePayment, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []*models.FeePayment{}
	for rows.Next() {
		p, err := scanFeePayment(rows, true)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// FeeSummary aggregates the school-wide fee position.
type FeeSummary struct {
	TotalCollected float64 `json:"totalCollected"`
	TotalPayments  int     `json:"totalPayments"`
	TotalPending   float64 `json:"totalPending"`
	TotalExpected  float64 `json:"totalExpected"`
}

// GetFeeSummary reports collected totals from the payment ledger and
// pending/expected totals from the student aggregates.
func GetFeeSummary(db *sql.DB) (*FeeSummary, error) {
	summary := &FeeSummary{}

	collected := `SELECT COALESCE(SUM(total_amount), 0), COUNT(*) FROM fee_payments`
	if err := db.QueryRow(collected).Scan(&summary.TotalCollected, &summary.TotalPayments); err != nil {
		return nil, err
	}

	pending := `SELECT COALESCE(SUM(GREATEST(fee_balance, 0)), 0), COALESCE(SUM(fee_total_fee), 0)
				FROM students WHERE deleted_at IS NULL`
	if err := db.QueryRow(pending).Scan(&summary.TotalPending, &summary.TotalExpected); err != nil {
		return nil, err
	}

	return summary, nil
}
