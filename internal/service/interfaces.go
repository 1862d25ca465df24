package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mealpath/backend/internal/models"
)

// UserRepository is the persistence capability for users and their
// saved/liked recipe references.
type UserRepository interface {
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	// SavedRecipeIDs returns the user's saved recipes in append order.
	SavedRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	LikedRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// RecipeQuery is the only query shape the engine issues against the
// recipe store: equality on meal time and diet, any-of membership on
// tags and ingredients, calorie bounds, and exclusion by id.
type RecipeQuery struct {
	MealTime       models.MealTime
	Diet           string
	TagsAny        []string
	IngredientsAny []string
	MinCalories    *float64
	MaxCalories    *float64
	ExcludeIDs     []uuid.UUID
	PublicOnly     bool
	// NewestFirst orders by creation time descending with id as the
	// tie-break, so results are deterministic.
	NewestFirst bool
	Limit       int
}

// RecipeRepository is the persistence capability for recipes.
type RecipeRepository interface {
	FindRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	// FindRecipesByIDs returns the recipes that still exist; dangling ids
	// are simply absent from the result.
	FindRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error)
	FindRecipes(ctx context.Context, q RecipeQuery) ([]models.Recipe, error)
}

// MealPlanRepository is the persistence capability for meal plans.
// SaveMealPlan performs a whole-document compare-and-swap on the plan's
// version and returns ErrVersionConflict when the stored version moved.
type MealPlanRepository interface {
	FindMealPlan(ctx context.Context, id uuid.UUID) (*models.MealPlan, error)
	FindMealPlansByUser(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error)
	// FindMealPlansByDate returns every plan containing a day with the
	// given date value.
	FindMealPlansByDate(ctx context.Context, date string) ([]models.MealPlan, error)
	CreateMealPlan(ctx context.Context, plan *models.MealPlan) error
	SaveMealPlan(ctx context.Context, plan *models.MealPlan) error
}

// NotificationRepository stores in-app notifications.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// Cache is a small get/set capability used to memoize recommendation
// results. A nil Cache is valid and disables caching.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
