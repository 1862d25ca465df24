package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealpath/backend/internal/models"
)

// RecipeService handles the thin recipe CRUD surface the engine feeds
// from: create/get/list/search plus the save, like, and rate actions
// that become recommendation signals.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe creates a new recipe. Ingredient and tag normalization
// happens at the API boundary before this is called.
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe deletes a recipe. References from saved lists and meal
// plans are left dangling on purpose; readers tolerate them.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	return nil
}

// RecipeFilters are the optional list filters exposed upward.
type RecipeFilters struct {
	Diet        string
	MealTime    string
	Tag         string
	MinCalories *float64
	MaxCalories *float64
}

// ListRecipes lists public recipes matching the filters.
func (s *RecipeService) ListRecipes(ctx context.Context, filters RecipeFilters) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Where("is_public = ?", true)

	if filters.Diet != "" {
		query = query.Where("diet = ?", filters.Diet)
	}
	if filters.MealTime != "" {
		query = query.Where("meal_time = ?", filters.MealTime)
	}
	if filters.Tag != "" {
		query = query.Where(s.jsonArrayLike("tags"), "%"+strings.ToLower(filters.Tag)+"%")
	}
	if filters.MinCalories != nil {
		query = query.Where("calories >= ?", *filters.MinCalories)
	}
	if filters.MaxCalories != nil {
		query = query.Where("calories <= ?", *filters.MaxCalories)
	}

	var recipes []models.Recipe
	if err := query.Order("created_at DESC, id").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// unitPattern strips quantities and measurement units from search
// keywords so "2 cups flour" matches recipes listing "flour".
var unitPattern = regexp.MustCompile(`(?i)\b(\d+/\d+|\d+\.\d+|\d+|cups?|tbsp|tsp|tablespoons?|teaspoons?|grams?|ml|oz|kg|lb|liters?|pinch|dash|of)\b`)

var nonLetterPattern = regexp.MustCompile(`[^a-zA-Z\s]`)

// CleanIngredientKeywords normalizes raw comma-separated search input
// into bare ingredient words.
func CleanIngredientKeywords(raw string) []string {
	var cleaned []string
	for _, kw := range strings.Split(raw, ",") {
		kw = strings.ToLower(strings.TrimSpace(kw))
		kw = unitPattern.ReplaceAllString(kw, "")
		kw = nonLetterPattern.ReplaceAllString(kw, "")
		kw = strings.TrimSpace(kw)
		if kw != "" {
			cleaned = append(cleaned, kw)
		}
	}
	return cleaned
}

// SearchByIngredients returns public recipes whose ingredient list
// mentions any of the given keywords.
func (s *RecipeService) SearchByIngredients(ctx context.Context, raw string) ([]models.Recipe, error) {
	keywords := CleanIngredientKeywords(raw)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no usable ingredient keywords: %w", ErrInvalidInput)
	}

	query := s.db.WithContext(ctx).Where("is_public = ?", true)
	column := s.jsonArrayLike("ingredients")
	or := s.db.Where(column, "%"+keywords[0]+"%")
	for _, kw := range keywords[1:] {
		or = or.Or(column, "%"+kw+"%")
	}
	query = query.Where(or)

	var recipes []models.Recipe
	if err := query.Order("created_at DESC, id").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// PopularRecipes returns the best-rated public recipes.
func (s *RecipeService) PopularRecipes(ctx context.Context, limit int) ([]models.Recipe, error) {
	if limit <= 0 {
		limit = 4
	}
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("recipes.*, COALESCE(AVG(recipe_ratings.value), 0) AS avg_rating").
		Joins("LEFT JOIN recipe_ratings ON recipe_ratings.recipe_id = recipes.id").
		Where("recipes.is_public = ?", true).
		Group("recipes.id").
		Order("avg_rating DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// RateRecipe records a 1-5 rating, replacing the user's previous one.
// Out-of-range values are rejected before any write.
func (s *RecipeService) RateRecipe(ctx context.Context, userID, recipeID uuid.UUID, value int) error {
	if value < 1 || value > 5 {
		return fmt.Errorf("rating %d out of range 1-5: %w", value, ErrInvalidInput)
	}
	if _, err := s.GetRecipe(ctx, recipeID); err != nil {
		return err
	}

	var existing models.RecipeRating
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&existing).Error
	switch {
	case err == nil:
		return s.db.WithContext(ctx).Model(&existing).Update("value", value).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating := models.RecipeRating{UserID: userID, RecipeID: recipeID, Value: value}
		return s.db.WithContext(ctx).Create(&rating).Error
	default:
		return err
	}
}

// SaveRecipe appends a recipe to the user's saved collection.
func (s *RecipeService) SaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.GetRecipe(ctx, recipeID); err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.SavedRecipe{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("recipe already saved: %w", ErrConflict)
	}

	var position int64
	if err := s.db.WithContext(ctx).Model(&models.SavedRecipe{}).
		Where("user_id = ?", userID).
		Count(&position).Error; err != nil {
		return err
	}

	saved := models.SavedRecipe{UserID: userID, RecipeID: recipeID, Position: int(position)}
	return s.db.WithContext(ctx).Create(&saved).Error
}

// UnsaveRecipe removes a recipe from the user's saved collection.
func (s *RecipeService) UnsaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.SavedRecipe{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("recipe not saved: %w", ErrNotFound)
	}
	return nil
}

// LikeRecipe records a like; liking twice is a no-op.
func (s *RecipeService) LikeRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.GetRecipe(ctx, recipeID); err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RecipeLike{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	like := models.RecipeLike{UserID: userID, RecipeID: recipeID}
	return s.db.WithContext(ctx).Create(&like).Error
}

// UnlikeRecipe removes a like; unliking twice is a no-op.
func (s *RecipeService) UnlikeRecipe(ctx context.Context, userID, recipeID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.RecipeLike{}).Error
}

// jsonArrayLike builds a case-insensitive LIKE over a JSONB string
// array column, with a fallback for non-PostgreSQL dialects (tests run
// on sqlite).
func (s *RecipeService) jsonArrayLike(column string) string {
	if s.db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("LOWER(%s::text) LIKE ?", column)
	}
	return fmt.Sprintf("LOWER(%s) LIKE ?", column)
}
