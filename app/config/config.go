package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/sdsameer16/Alfitra-Fees/app/models"
)

type Config struct {
	DB        *sql.DB
	JWTSecret []byte
}

var AppConfig *Config

// LoadEnv loads variables from a .env file when present; deployed
// environments provide them directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}
}

// InitDB opens the PostgreSQL connection pool and fails fast when the
// database is unreachable.
func InitDB() {
	psqlInfo := os.Getenv("DATABASE_URL")
	if psqlInfo == "" {
		host := getEnv("DB_HOST", "localhost")
		port := getEnv("DB_PORT", "5432")
		user := getEnv("DB_USER", "postgres")
		password := os.Getenv("DB_PASSWORD")
		dbname := getEnv("DB_NAME", "alfitra")
		sslmode := getEnv("DB_SSLMODE", "disable")

		psqlInfo = fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s", host, port, user, dbname, sslmode)
		if password != "" {
			psqlInfo += " password=" + password
		}
	}

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err = db.Ping(); err != nil {
		log.Fatal("Cannot establish database connection: ", err)
	}

	AppConfig = &Config{
		DB:        db,
		JWTSecret: []byte(getEnv("JWT_SECRET", "alfitra-fees-secret-key")),
	}
	log.Println("Database connected successfully")
}

func GetDB() *sql.DB {
	return AppConfig.DB
}

func GetJWTSecret() []byte {
	return AppConfig.JWTSecret
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// DefaultClassFees is the seed fee schedule for Class 1 through Class 10.
// It is written into the class_fees table on first migration; the API reads
// and updates the table, never this map.
func DefaultClassFees() []models.ClassFee {
	return []models.ClassFee{
		{Class: "Class 1", TuitionFee: 15000, AdmissionFee: 5000},
		{Class: "Class 2", TuitionFee: 16000, AdmissionFee: 5000},
		{Class: "Class 3", TuitionFee: 17000, AdmissionFee: 5000},
		{Class: "Class 4", TuitionFee: 18000, AdmissionFee: 5000},
		{Class: "Class 5", TuitionFee: 19000, AdmissionFee: 5000},
		{Class: "Class 6", TuitionFee: 22000, AdmissionFee: 5000},
		{Class: "Class 7", TuitionFee: 24000, AdmissionFee: 5000},
		{Class: "Class 8", TuitionFee: 26000, AdmissionFee: 5000},
		{Class: "Class 9", TuitionFee: 28000, AdmissionFee: 5000},
		{Class: "Class 10", TuitionFee: 30000, AdmissionFee: 5000},
	}
}
