package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sdsameer16/Alfitra-Fees/app/models"
)

const studentColumns = `id, first_name, last_name, gender, date_of_birth, blood_group, aadhar_number, pen_number,
	email, phone_number, phone_number2, address, city, state, pincode,
	roll_number, class, section, admission_date,
	father_name, father_occupation, father_phone, father_aadhar,
	mother_name, mother_occupation, mother_phone, mother_aadhar,
	guardian_name, guardian_relation, guardian_phone,
	fee_admission_fee, fee_tuition_fee, fee_transport_fee, fee_other_fee, fee_arrears, fee_concession,
	fee_total_fee, fee_paid_amount, fee_balance, fee_last_payment_date,
	bank_account_number, bank_name, ifsc_code, account_holder_name,
	has_aadhar, has_birth_certificate, has_tc, has_photo, photo,
	status, created_by, created_at, updated_at`

func scanStudent(row scanner) (*models.Student, error) {
	s := &models.Student{}
	var createdBy sql.NullString
	var lastPayment sql.NullTime

	err := row.Scan(
		&s.ID, &s.FirstName, &s.LastName, &s.Gender, &s.DateOfBirth, &s.BloodGroup, &s.AadharNumber, &s.PenNumber,
		&s.Email, &s.PhoneNumber, &s.PhoneNumber2, &s.Address, &s.City, &s.State, &s.Pincode,
		&s.RollNumber, &s.Class, &s.Section, &s.AdmissionDate,
		&s.FatherName, &s.FatherOccupation, &s.FatherPhone, &s.FatherAadhar,
		&s.MotherName, &s.MotherOccupation, &s.MotherPhone, &s.MotherAadhar,
		&s.GuardianName, &s.GuardianRelation, &s.GuardianPhone,
		&s.Fee.AdmissionFee, &s.Fee.TuitionFee, &s.Fee.TransportFee, &s.Fee.OtherFee, &s.Fee.Arrears, &s.Fee.Concession,
		&s.Fee.TotalFee, &s.Fee.PaidAmount, &s.Fee.Balance, &lastPayment,
		&s.BankAccountNumber, &s.BankName, &s.IfscCode, &s.AccountHolderName,
		&s.HasAadhar, &s.HasBirthCertificate, &s.HasTc, &s.HasPhoto, &s.Photo,
		&s.Status, &createdBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if createdBy.Valid {
		s.CreatedBy = createdBy.String
	}
	if lastPayment.Valid {
		s.Fee.LastPaymentDate = &lastPayment.Time
	}
	return s, nil
}

// CreateStudent inserts a new student. The derived fee totals are computed
// here so the stored record always satisfies the balance invariant.
func CreateStudent(db *sql.DB, s *models.Student) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = models.StatusActive
	}
	s.Fee.ComputeTotals()

	query := `INSERT INTO students (
			id, first_name, last_name, gender, date_of_birth, blood_group, aadhar_number, pen_number,
			email, phone_number, phone_number2, address, city, state, pincode,
			roll_number, class, section, admission_date,
			father_name, father_occupation, father_phone, father_aadhar,
			mother_name, mother_occupation, mother_phone, mother_aadhar,
			guardian_name, guardian_relation, guardian_phone,
			fee_admission_fee, fee_tuition_fee, fee_transport_fee, fee_other_fee, fee_arrears, fee_concession,
			fee_total_fee, fee_paid_amount, fee_balance,
			bank_account_number, bank_name, ifsc_code, account_holder_name,
			has_aadhar, has_birth_certificate, has_tc, has_photo, photo,
			status, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19,
			$20, $21, $22, $23,
			$24, $25, $26, $27,
			$28, $29, $30,
			$31, $32, $33, $34, $35, $36,
			$37, $38, $39,
			$40, $41, $42, $43,
			$44, $45, $46, $47, $48,
			$49, $50
		) RETURNING created_at, updated_at`

	var createdBy interface{}
	if s.CreatedBy != "" {
		createdBy = s.CreatedBy
	}

	return db.QueryRow(query,
		s.ID, s.FirstName, s.LastName, s.Gender, s.DateOfBirth, s.BloodGroup, s.AadharNumber, s.PenNumber,
		s.Email, s.PhoneNumber, s.PhoneNumber2, s.Address, s.City, s.State, s.Pincode,
		s.RollNumber, s.Class, s.Section, s.AdmissionDate,
		s.FatherName, s.FatherOccupation, s.FatherPhone, s.FatherAadhar,
		s.MotherName, s.MotherOccupation, s.MotherPhone, s.MotherAadhar,
		s.GuardianName, s.GuardianRelation, s.GuardianPhone,
		s.Fee.AdmissionFee, s.Fee.TuitionFee, s.Fee.TransportFee, s.Fee.OtherFee, s.Fee.Arrears, s.Fee.Concession,
		s.Fee.TotalFee, s.Fee.PaidAmount, s.Fee.Balance,
		s.BankAccountNumber, s.BankName, s.IfscCode, s.AccountHolderName,
		s.HasAadhar, s.HasBirthCertificate, s.HasTc, s.HasPhoto, s.Photo,
		s.Status, createdBy,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// GetStudentByID fetches one student, excluding soft-deleted rows.
func GetStudentByID(db *sql.DB, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1 AND deleted_at IS NULL`, studentColumns)
	s, err := scanStudent(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return s, err
}

// UpdateStudent persists a full student edit. Fee totals are recomputed so a
// direct change to category fees, concession or paid amount keeps the
// balance invariant.
func UpdateStudent(db *sql.DB, s *models.Student) error {
	s.Fee.ComputeTotals()

	query := `UPDATE students SET
			first_name = $2, last_name = $3, gender = $4, date_of_birth = $5, blood_group = $6,
			aadhar_number = $7, pen_number = $8, email = $9, phone_number = $10, phone_number2 = $11,
			address = $12, city = $13, state = $14, pincode = $15,
			roll_number = $16, class = $17, section = $18, admission_date = $19,
			father_name = $20, father_occupation = $21, father_phone = $22, father_aadhar = $23,
			mother_name = $24, mother_occupation = $25, mother_phone = $26, mother_aadhar = $27,
			guardian_name = $28, guardian_relation = $29, guardian_phone = $30,
			fee_admission_fee = $31, fee_tuition_fee = $32, fee_transport_fee = $33, fee_other_fee = $34,
			fee_arrears = $35, fee_concession = $36, fee_total_fee = $37, fee_paid_amount = $38, fee_balance = $39,
			bank_account_number = $40, bank_name = $41, ifsc_code = $42, account_holder_name = $43,
			has_aadhar = $44, has_birth_certificate = $45, has_tc = $46, has_photo = $47, photo = $48,
			status = $49, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := db.QueryRow(query,
		s.ID, s.FirstName, s.LastName, s.Gender, s.DateOfBirth, s.BloodGroup,
		s.AadharNumber, s.PenNumber, s.Email, s.PhoneNumber, s.PhoneNumber2,
		s.Address, s.City, s.State, s.Pincode,
		s.RollNumber, s.Class, s.Section, s.AdmissionDate,
		s.FatherName, s.FatherOccupation, s.FatherPhone, s.FatherAadhar,
		s.MotherName, s.MotherOccupation, s.MotherPhone, s.MotherAadhar,
		s.GuardianName, s.GuardianRelation, s.GuardianPhone,
		s.Fee.AdmissionFee, s.Fee.TuitionFee, s.Fee.TransportFee, s.Fee.OtherFee,
		s.Fee.Arrears, s.Fee.Concession, s.Fee.TotalFee, s.Fee.PaidAmount, s.Fee.Balance,
		s.BankAccountNumber, s.BankName, s.IfscCode, s.AccountHolderName,
		s.HasAadhar, s.HasBirthCertificate, s.HasTc, s.HasPhoto, s.Photo,
		s.Status,
	).Scan(&s.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	return err
}

// SoftDeleteStudent marks the record deleted; payment history is retained.
func SoftDeleteStudent(db *sql.DB, id string) error {
	result, err := db.Exec(`UPDATE students SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
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

// ListStudents runs the whitelisted filter/sort/paginate query and returns
// the page plus the unpaginated total.
func ListStudents(db *sql.DB, params ListParams) ([]*models.Student, int, error) {
	conditions := []string{"deleted_at IS NULL"}
	args := []interface{}{}

	filterConditions, filterArgs := params.whereClause(1)
	conditions = append(conditions, filterConditions...)
	args = append(args, filterArgs...)

	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		n := len(args) + 1
		conditions = append(conditions, fmt.Sprintf(
			`(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR LOWER(roll_number) LIKE $%d OR phone_number LIKE $%d)`,
			n, n, n, n))
		args = append(args, pattern)
	}

	switch params.FeeStatus {
	case "pending":
		conditions = append(conditions, "fee_balance > 0")
	case "completed":
		conditions = append(conditions, "fee_balance <= 0")
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM students WHERE ` + where
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	order := params.orderClause(StudentFilterFields, "fee_balance", "created_at DESC")
	dataQuery := fmt.Sprintf(`SELECT %s FROM students WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		studentColumns, where, order, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := db.Query(dataQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

// GetStudentsByClass returns the active roster of one class.
func GetStudentsByClass(db *sql.DB, class string) ([]*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students
		WHERE class = $1 AND deleted_at IS NULL
		ORDER BY roll_number`, studentColumns)
	return queryStudents(db, query, class)
}

// GetFeeDefaulters returns students who still owe fees, largest balance first.
func GetFeeDefaulters(db *sql.DB) ([]*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students
		WHERE fee_balance > 0 AND deleted_at IS NULL
		ORDER BY fee_balance DESC`, studentColumns)
	return queryStudents(db, query)
}

func queryStudents(db *sql.DB, query string, args ...interface{}) ([]*models.Student, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// PromoteStudents performs the year-end rollover: every positive balance is
// folded into arrears and the current-year charges reset. A single UPDATE
// keeps the whole operation atomic; students with no outstanding balance are
// untouched. Returns the number of students promoted.
func PromoteStudents(db *sql.DB) (int64, error) {
	query := `UPDATE students SET
			fee_arrears = fee_arrears + fee_balance,
			fee_balance = 0,
			fee_paid_amount = 0,
			fee_total_fee = 0,
			fee_admission_fee = 0,
			fee_tuition_fee = 0,
			fee_transport_fee = 0,
			fee_other_fee = 0,
			fee_concession = 0,
			updated_at = NOW()
		WHERE fee_balance > 0 AND deleted_at IS NULL`

	result, err := db.Exec(query)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// StudentFeeState is the slice of the student row the ledger needs while
// reconciling.
type StudentFeeState struct {
	ID         string
	TotalFee   float64
	Concession float64
	Balance    float64
}

// GetStudentFeeStateForUpdate reads the fee fields under a row lock so two
// concurrent payments for the same student serialize on the
// read-then-reaggregate step.
func GetStudentFeeStateForUpdate(q Queryer, studentID string) (*StudentFeeState, error) {
	state := &StudentFeeState{}
	query := `SELECT id, fee_total_fee, fee_concession, fee_balance
			  FROM students WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	err := q.QueryRow(query, studentID).Scan(&state.ID, &state.TotalFee, &state.Concession, &state.Balance)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// SumPaymentsForStudent re-aggregates the paid amount from the payment
// records themselves rather than incrementing, so it self-heals from drift.
func SumPaymentsForStudent(q Queryer, studentID string) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(total_amount), 0) FROM fee_payments WHERE student_id = $1`
	if err := q.QueryRow(query, studentID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateStudentFeeAggregates writes the reconciled paid amount and balance
// back to the student row.
func UpdateStudentFeeAggregates(q Queryer, studentID string, paidAmount, balance float64, lastPayment *time.Time) error {
	if lastPayment != nil {
		query := `UPDATE students SET fee_paid_amount = $2, fee_balance = $3, fee_last_payment_date = $4, updated_at = NOW()
				  WHERE id = $1`
		_, err := q.Exec(query, studentID, paidAmount, balance, *lastPayment)
		return err
	}
	query := `UPDATE students SET fee_paid_amount = $2, fee_balance = $3, updated_at = NOW() WHERE id = $1`
	_, err := q.Exec(query, studentID, paidAmount, balance)
	return err
}
