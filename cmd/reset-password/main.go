package main

import (
	"log"
	"os"

	"go-farmbasket/internal/config"
	"go-farmbasket/internal/model"
	"go-farmbasket/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Emergency password reset for a locked-out account.
// Usage: reset-password <email> <new-password>
func main() {
	if len(os.Args) != 3 {
		log.Fatal("Usage: reset-password <email> <new-password>")
	}
	email, newPassword := os.Args[1], os.Args[2]

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}
	cfg := config.Load()

	db := database.ConnectDB(cfg.DatabaseDSN)

	var user model.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		log.Fatalf("❌ User %s not found in database: %v", email, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}

	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		log.Fatalf("❌ Failed to update password in DB: %v", err)
	}

	log.Printf("✅ Password for %s has been reset", email)
}
