package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/config"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/database"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	email := flag.String("email", "admin@foodgram.local", "Admin email")
	username := flag.String("username", "admin", "Admin username")
	password := flag.String("password", "", "Admin password (at least 8 characters)")
	ingredients := flag.String("ingredients", "", "Optional JSON file of ingredients to import")
	flag.Parse()

	_ = godotenv.Load()
	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.InitDatabase(conf.Database())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if *password != "" {
		user, err := ensureAdmin(db, *email, *username, *password)
		if err != nil {
			log.Fatal("Failed to create admin:", err)
		}
		fmt.Printf("✓ Admin ready: %s (ID: %d)\n", user.Email, user.ID)
		fmt.Println("\nObtain a token with:")
		fmt.Printf("curl -X POST http://localhost:%d/api/auth/token/login \\\n", conf.Port)
		fmt.Printf("  -H 'Content-Type: application/json' \\\n")
		fmt.Printf("  -d '{\"email\": \"%s\", \"password\": \"...\"}'\n", user.Email)
	}

	if *ingredients != "" {
		f, err := os.Open(*ingredients)
		if err != nil {
			log.Fatal("Failed to open ingredients file:", err)
		}
		defer f.Close()

		created, err := database.ImportIngredients(db, f)
		if err != nil {
			log.Fatal("Failed to import ingredients:", err)
		}
		fmt.Printf("✓ Imported %d new ingredients\n", created)
	}

	if *password == "" && *ingredients == "" {
		flag.Usage()
		os.Exit(2)
	}
}

// ensureAdmin registers the account if needed and grants it the admin role
func ensureAdmin(db *gorm.DB, email, username, password string) (*models.User, error) {
	users := services.NewUserService(db)
	ctx := context.Background()

	user, err := users.Register(ctx, models.RegisterUserInput{
		Email:     email,
		Username:  username,
		FirstName: "Admin",
		LastName:  "Foodgram",
		Password:  password,
	})
	switch {
	case errors.Is(err, services.ErrAlreadyExists):
		fmt.Printf("User %s already exists, granting admin role\n", email)
		if user, err = users.GetUserByEmail(ctx, strings.ToLower(email)); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	if err := db.Model(user).Update("role", models.RoleAdmin).Error; err != nil {
		return nil, err
	}
	return user, nil
}
