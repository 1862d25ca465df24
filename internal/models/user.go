package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`

	// Ingredient names the user must never be recommended.
	Allergies JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"allergies"`
	// Ingredient names the user already owns; suppressed from grocery lists.
	AvailableIngredients JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"available_ingredients"`

	// Onboarding survey.
	Diet              string           `gorm:"size:50" json:"diet"`
	PreferredTags     JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"preferred_tags"`
	PreferredCuisines JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"preferred_cuisines"`
	WeightKg          *float64         `json:"weight_kg"`
	HeightCm          *float64         `json:"height_cm"`
}

// BeforeCreate assigns an ID so the model works on any dialect.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SavedRecipe records a recipe a user saved to their collection.
// Position preserves the append order of the collection.
type SavedRecipe struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index:idx_saved_user_recipe,unique" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;index:idx_saved_user_recipe,unique" json:"recipe_id"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *SavedRecipe) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// RecipeLike records that a user liked a recipe.
type RecipeLike struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;index:idx_like_user_recipe,unique" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;index:idx_like_user_recipe,unique" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *RecipeLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
