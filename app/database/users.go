package database

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/sdsameer16/Alfitra-Fees/app/models"
)

const userColumns = `id, email, password, first_name, last_name, role, is_active, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName,
		&user.LastName, &user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active = TRUE`
	return scanUser(db.QueryRow(query, email))
}

func GetUserByID(db *sql.DB, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active = TRUE`
	return scanUser(db.QueryRow(query, userID))
}

// CreateUser stores a staff account; the password must already be hashed.
func CreateUser(db *sql.DB, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleStaff
	}

	query := `INSERT INTO users (id, email, password, first_name, last_name, role, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, TRUE)
			  RETURNING created_at, updated_at`
	err := db.QueryRow(query, user.ID, user.Email, user.Password, user.FirstName, user.LastName, user.Role).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return err
	}
	user.IsActive = true
	return nil
}

func UpdateUserPassword(db *sql.DB, userID, hashedPassword string) error {
	query := `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`
	_, err := db.Exec(query, hashedPassword, userID)
	return err
}
