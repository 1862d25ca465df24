package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealTime is the slot a recipe is intended for.
type MealTime string

const (
	MealTimeBreakfast MealTime = "Breakfast"
	MealTimeLunch     MealTime = "Lunch"
	MealTimeDinner    MealTime = "Dinner"
	MealTimeSnack     MealTime = "Snack"
	MealTimeDessert   MealTime = "Dessert"
)

// DietNone marks a user or recipe with no diet constraint.
const DietNone = "None"

type Recipe struct {
	ID           uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description"`
	Ingredients  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	Tags         JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	Diet         string           `gorm:"size:50" json:"diet"`
	MealTime     MealTime         `gorm:"size:20" json:"meal_time"`
	Calories     float64          `gorm:"type:float" json:"calories"`
	IsPublic     bool             `gorm:"not null;default:true" json:"is_public"`
	UserID       uuid.UUID        `gorm:"type:varchar(36);not null" json:"user_id"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeRating is a single 1-5 rating a user gave a recipe.
type RecipeRating struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index:idx_rating_user_recipe,unique" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;index:idx_rating_user_recipe,unique" json:"recipe_id"`
	Value     int       `gorm:"not null;check:value >= 1 AND value <= 5" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *RecipeRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
