package database

import (
	"database/sql"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/sdsameer16/Alfitra-Fees/app/models"
)

// RunMigrations creates the schema when missing and seeds the class fee
// schedule and the initial admin account.
func RunMigrations(db *sql.DB, classFees []models.ClassFee, adminEmail, adminPassword string) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'staff',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			gender TEXT NOT NULL,
			date_of_birth DATE NOT NULL,
			blood_group TEXT NOT NULL DEFAULT '',
			aadhar_number TEXT NOT NULL DEFAULT '',
			pen_number TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone_number TEXT NOT NULL,
			phone_number2 TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL,
			city TEXT NOT NULL,
			state TEXT NOT NULL,
			pincode TEXT NOT NULL,
			roll_number TEXT NOT NULL UNIQUE,
			class TEXT NOT NULL,
			section TEXT NOT NULL DEFAULT '',
			admission_date DATE NOT NULL,
			father_name TEXT NOT NULL,
			father_occupation TEXT NOT NULL DEFAULT '',
			father_phone TEXT NOT NULL DEFAULT '',
			father_aadhar TEXT NOT NULL DEFAULT '',
			mother_name TEXT NOT NULL,
			mother_occupation TEXT NOT NULL DEFAULT '',
			mother_phone TEXT NOT NULL DEFAULT '',
			mother_aadhar TEXT NOT NULL DEFAULT '',
			guardian_name TEXT NOT NULL DEFAULT '',
			guardian_relation TEXT NOT NULL DEFAULT '',
			guardian_phone TEXT NOT NULL DEFAULT '',
			fee_admission_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			fee_tuition_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			fee_transport_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			fee_other_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			fee_arrears NUMERIC(12,2) NOT NULL DEFAULT 0,
			fee_concession NUMERIC(12,2) NOT NULL DEFAULT 0,
			fee_total_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			fee_paid_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			fee_balance NUMERIC(12,2) NOT NULL DEFAULT 0,
			fee_last_payment_date TIMESTAMPTZ,
			bank_account_number TEXT NOT NULL DEFAULT '',
			bank_name TEXT NOT NULL DEFAULT '',
			ifsc_code TEXT NOT NULL DEFAULT '',
			account_holder_name TEXT NOT NULL DEFAULT '',
			has_aadhar BOOLEAN NOT NULL DEFAULT FALSE,
			has_birth_certificate BOOLEAN NOT NULL DEFAULT FALSE,
			has_tc BOOLEAN NOT NULL DEFAULT FALSE,
			has_photo BOOLEAN NOT NULL DEFAULT FALSE,
			photo TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			created_by UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_students_class ON students (class)`,
		`CREATE INDEX IF NOT EXISTS idx_students_fee_balance ON students (fee_balance)`,
		`CREATE TABLE IF NOT EXISTS fee_payments (
			id UUID PRIMARY KEY,
			student_id UUID NOT NULL REFERENCES students (id),
			receipt_number BIGINT NOT NULL UNIQUE,
			academic_year TEXT NOT NULL,
			payment_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			payment_mode TEXT NOT NULL DEFAULT 'Cash',
			payment_details TEXT NOT NULL DEFAULT '',
			paid_by_name TEXT NOT NULL,
			paid_by_relation TEXT NOT NULL,
			paid_by_contact TEXT NOT NULL DEFAULT '',
			items JSONB NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL,
			balance_after_payment NUMERIC(12,2) NOT NULL,
			remarks TEXT NOT NULL DEFAULT '',
			created_by UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fee_payments_student ON fee_payments (student_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fee_payments_payment_date ON fee_payments (payment_date)`,
		`CREATE TABLE IF NOT EXISTS counters (
			name TEXT PRIMARY KEY,
			value BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS class_fees (
			class TEXT PRIMARY KEY,
			tuition_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
			admission_fee NUMERIC(12,2) NOT NULL DEFAULT 0
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	if err := seedClassFees(db, classFees); err != nil {
		return err
	}
	if err := seedAdminUser(db, adminEmail, adminPassword); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// seedClassFees inserts the default schedule for classes that have no row
// yet. Existing rows are left alone so API updates survive restarts.
func seedClassFees(db *sql.DB, classFees []models.ClassFee) error {
	query := `INSERT INTO class_fees (class, tuition_fee, admission_fee) VALUES ($1, $2, $3)
			  ON CONFLICT (class) DO NOTHING`
	for _, cf := range classFees {
		if _, err := db.Exec(query, cf.Class, cf.TuitionFee, cf.AdmissionFee); err != nil {
			return err
		}
	}
	return nil
}

// seedAdminUser creates the first admin account when the users table is
// empty so a fresh install can log in.
func seedAdminUser(db *sql.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (id, email, password, first_name, last_name, role, is_active)
			  VALUES ($1, $2, $3, 'Admin', 'User', 'admin', TRUE)`
	if _, err := db.Exec(query, uuid.NewString(), email, string(hashed)); err != nil {
		return err
	}
	log.Printf("Seeded admin user %s", email)
	return nil
}
