package config

import (
	"log"
	"os"

	"condocore/internal/adapters/persistence/models"
	"condocore/internal/pkg/password"
	"condocore/internal/pkg/rights"

	"gorm.io/gorm"
)

// SeedAdminUser creates the bootstrap admin account when the users table is
// empty. Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD; without them the
// seeder is a no-op.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	plain := os.Getenv("ADMIN_PASSWORD")
	if email == "" || plain == "" {
		log.Println("users table empty and ADMIN_EMAIL/ADMIN_PASSWORD unset, skipping admin seed")
		return nil
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: hash,
		Role:         rights.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("seeded admin user %s", email)
	return nil
}
