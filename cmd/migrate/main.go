package main

import (
	"log"
	"os"

	"github.com/sdsameer16/Alfitra-Fees/app/config"
	"github.com/sdsameer16/Alfitra-Fees/app/database"
)

// Standalone migration runner for deployments that do not want the
// server process to migrate on boot.
func main() {
	log.Println("Running database migrations...")

	config.LoadEnv()
	config.InitDB()
	db := config.GetDB()
	defer db.Close()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if err := database.RunMigrations(db, config.DefaultClassFees(), adminEmail, adminPassword); err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Migrations completed successfully")
}
