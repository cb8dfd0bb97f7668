package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/sdsameer16/Alfitra-Fees/app/config"
	"github.com/sdsameer16/Alfitra-Fees/app/database"
	"github.com/sdsameer16/Alfitra-Fees/app/models"
	"github.com/sdsameer16/Alfitra-Fees/app/routes/auth"
)

// Adds a staff or admin account from the command line.
func main() {
	email := flag.String("email", "", "login email (required)")
	password := flag.String("password", "", "initial password (required)")
	firstName := flag.String("first-name", "", "first name (required)")
	lastName := flag.String("last-name", "", "last name (required)")
	role := flag.String("role", string(models.RoleStaff), "role: admin or staff")
	flag.Parse()

	if *email == "" || *password == "" || *firstName == "" || *lastName == "" {
		flag.Usage()
		log.Fatal("email, password, first-name and last-name are required")
	}
	if *role != string(models.RoleAdmin) && *role != string(models.RoleStaff) {
		log.Fatalf("invalid role %q, expected admin or staff", *role)
	}

	config.LoadEnv()
	config.InitDB()
	db := config.GetDB()
	defer db.Close()

	hashed, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := &models.User{
		Email:     *email,
		Password:  hashed,
		FirstName: *firstName,
		LastName:  *lastName,
		Role:      models.Role(*role),
	}

	if err := database.CreateUser(db, user); err != nil {
		log.Fatal("Failed to create user:", err)
	}

	fmt.Printf("User created: %s %s <%s> role=%s\n", user.FirstName, user.LastName, user.Email, user.Role)
}
