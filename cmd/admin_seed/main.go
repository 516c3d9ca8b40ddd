// Command admin_seed creates the admin user row used for moderation. The
// real identity system lives outside this subsystem; this seeds just
// enough of a user directory to exercise the admin endpoints.
package main

import (
	"context"
	"log"
	"os"

	"starlive/internal/config"
	"starlive/internal/models"
	"starlive/internal/repositories"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		log.Fatal("ADMIN_EMAIL must be set in environment")
	}

	db, err := repositories.InitDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	var existing models.User
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Println("admin user already exists")
		return
	}

	users := repositories.NewUserRepository(db)
	admin := &models.User{
		Email: adminEmail,
		Name:  config.GetEnv("ADMIN_NAME", "Admin"),
		Role:  "admin",
	}
	if err := users.Create(context.Background(), admin); err != nil {
		log.Fatalf("failed to create admin user: %v", err)
	}

	log.Printf("admin account %d created", admin.ID)
}
