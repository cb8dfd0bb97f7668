package database

import (
	"database/sql"

	"github.com/sdsameer16/Alfitra-Fees/app/models"
)

// GetClassFees returns the full per-class fee schedule.
func GetClassFees(db *sql.DB) ([]models.ClassFee, error) {
	rows, err := db.Query(`SELECT class, tuition_fee, admission_fee FROM class_fees ORDER BY class`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedule := []models.ClassFee{}
	for rows.Next() {
		var cf models.ClassFee
		if err := rows.Scan(&cf.Class, &cf.TuitionFee, &cf.AdmissionFee); err != nil {
			return nil, err
		}
		schedule = append(schedule, cf)
	}
	return schedule, rows.Err()
}

// GetClassFee looks up the schedule entry for one class.
func GetClassFee(db *sql.DB, class string) (*models.ClassFee, error) {
	cf := &models.ClassFee{}
	query := `SELECT class, tuition_fee, admission_fee FROM class_fees WHERE class = $1`
	err := db.QueryRow(query, class).Scan(&cf.Class, &cf.TuitionFee, &cf.AdmissionFee)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cf, nil
}

// UpsertClassFees replaces schedule entries in one transaction so a partial
// write cannot leave the schedule half-updated.
func UpsertClassFees(db *sql.DB, schedule []models.ClassFee) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO class_fees (class, tuition_fee, admission_fee) VALUES ($1, $2, $3)
			  ON CONFLICT (class) DO UPDATE SET tuition_fee = EXCLUDED.tuition_fee, admission_fee = EXCLUDED.admission_fee`
	for _, cf := range schedule {
		if _, err := tx.Exec(query, cf.Class, cf.TuitionFee, cf.AdmissionFee); err != nil {
			return err
		}
	}

	return tx.Commit()
}
