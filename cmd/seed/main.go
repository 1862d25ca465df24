// Command seed populates a development database with demo users and
// recipes and prints a bearer token per user.
package main

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/mealpath/backend/config"
	"github.com/mealpath/backend/internal/models"
	"github.com/mealpath/backend/internal/service"
	"github.com/mealpath/backend/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := store.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()
	tokens := service.NewTokenService(cfg.JWTSecret)

	weight, height := 82.0, 175.0
	users := []models.User{
		{
			Name:                 "Demo User",
			Email:                "demo@mealpath.dev",
			Allergies:            models.JSONBStringArray{"peanuts"},
			AvailableIngredients: models.JSONBStringArray{"salt", "olive oil"},
			Diet:                 "Vegetarian",
			PreferredTags:        models.JSONBStringArray{"quick", "italian"},
			PreferredCuisines:    models.JSONBStringArray{"Italian"},
			WeightKg:             &weight,
			HeightCm:             &height,
		},
		{
			Name:  "New User",
			Email: "new@mealpath.dev",
			Diet:  models.DietNone,
		},
	}

	for i := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		users[i].PasswordHash = string(hash)
		if err := db.WithContext(ctx).Create(&users[i]).Error; err != nil {
			log.Fatalf("failed to create user %s: %v", users[i].Email, err)
		}
		token, err := tokens.GenerateToken(users[i].ID)
		if err != nil {
			log.Fatalf("failed to sign token: %v", err)
		}
		fmt.Printf("%s\t%s\n", users[i].Email, token)
	}

	recipes := []models.Recipe{
		{
			Title:       "Margherita Flatbread",
			Ingredients: models.JSONBStringArray{"flour", "tomato", "mozzarella", "basil"},
			Tags:        models.JSONBStringArray{"italian", "quick"},
			Diet:        "Vegetarian",
			MealTime:    models.MealTimeLunch,
			Calories:    380,
			IsPublic:    true,
			UserID:      users[0].ID,
		},
		{
			Title:       "Overnight Oats",
			Ingredients: models.JSONBStringArray{"oats", "milk", "honey", "blueberries"},
			Tags:        models.JSONBStringArray{"breakfast", "make-ahead"},
			Diet:        "Vegetarian",
			MealTime:    models.MealTimeBreakfast,
			Calories:    320,
			IsPublic:    true,
			UserID:      users[0].ID,
		},
		{
			Title:       "Garlic Butter Salmon",
			Ingredients: models.JSONBStringArray{"salmon", "garlic", "butter", "lemon"},
			Tags:        models.JSONBStringArray{"dinner", "seafood"},
			Diet:        models.DietNone,
			MealTime:    models.MealTimeDinner,
			Calories:    540,
			IsPublic:    true,
			UserID:      users[1].ID,
		},
	}
	for i := range recipes {
		if err := db.WithContext(ctx).Create(&recipes[i]).Error; err != nil {
			log.Fatalf("failed to create recipe %s: %v", recipes[i].Title, err)
		}
	}

	fmt.Printf("seeded %d users and %d recipes\n", len(users), len(recipes))
}
