package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/kyllercodes02/academy-sub000/config"
	"github.com/kyllercodes02/academy-sub000/database"
	"github.com/kyllercodes02/academy-sub000/models"
)

// Bootstraps the first admin account. Safe to re-run: an existing
// username just gets its password reset.
func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	email := flag.String("email", "admin@school.local", "admin email")
	name := flag.String("name", "Administrator", "display name")
	flag.Parse()

	if *password == "" {
		log.Fatal("usage: createadmin -password <password> [-username admin]")
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	var user models.User
	err = db.Where("username = ?", *username).First(&user).Error
	if err == nil {
		user.Password = string(hash)
		if err := db.Save(&user).Error; err != nil {
			log.Fatalf("update admin: %v", err)
		}
		log.Printf("password reset for %q", *username)
		return
	}

	user = models.User{
		Username: *username,
		Email:    *email,
		Password: string(hash),
		Role:     "admin",
		Name:     *name,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin %q created", *username)
}
