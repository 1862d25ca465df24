// Package store implements the engine's repository capabilities on
// gorm. The engine packages only see the interfaces declared in
// internal/service.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealpath/backend/internal/models"
	"github.com/mealpath/backend/internal/service"
)

// Store is the gorm-backed persistence layer.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for the thin CRUD services.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// FindUser returns the user or service.ErrNotFound.
func (s *Store) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, service.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}

// SavedRecipeIDs returns the user's saved recipe ids in append order.
func (s *Store) SavedRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var saved []models.SavedRecipe
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position").
		Find(&saved).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(saved))
	for i, sr := range saved {
		ids[i] = sr.RecipeID
	}
	return ids, nil
}

func (s *Store) LikedRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var likes []models.RecipeLike
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&likes).Error; err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(likes))
	for i, like := range likes {
		ids[i] = like.RecipeID
	}
	return ids, nil
}

// FindRecipe returns the recipe or service.ErrNotFound.
func (s *Store) FindRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %s: %w", id, service.ErrNotFound)
		}
		return nil, err
	}
	return &recipe, nil
}

// FindRecipesByIDs returns the recipes that still exist; dangling ids
// are absent from the result, never an error.
func (s *Store) FindRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindRecipes executes the engine's query shape: equality on meal time,
// any-of membership on tags/ingredients/diet, calorie bounds, and id
// exclusion.
func (s *Store) FindRecipes(ctx context.Context, q service.RecipeQuery) ([]models.Recipe, error) {
	db := s.db.WithContext(ctx).Model(&models.Recipe{})

	if q.PublicOnly {
		db = db.Where("is_public = ?", true)
	}
	if q.MealTime != "" {
		db = db.Where("meal_time = ?", q.MealTime)
	}
	if q.MinCalories != nil {
		db = db.Where("calories >= ?", *q.MinCalories)
	}
	if q.MaxCalories != nil {
		db = db.Where("calories <= ?", *q.MaxCalories)
	}
	if len(q.ExcludeIDs) > 0 {
		db = db.Where("id NOT IN ?", q.ExcludeIDs)
	}

	if pref := s.preferenceClause(q); pref != nil {
		db = db.Where(pref)
	}

	if q.NewestFirst {
		db = db.Order("created_at DESC, id")
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var recipes []models.Recipe
	if err := db.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// preferenceClause ORs together tag membership, ingredient membership,
// and diet equality. Returns nil when the query carries no preference
// predicate (the caller's fallback path).
func (s *Store) preferenceClause(q service.RecipeQuery) *gorm.DB {
	if len(q.TagsAny) == 0 && len(q.IngredientsAny) == 0 && q.Diet == "" {
		return nil
	}

	var clause *gorm.DB
	or := func(query string, arg interface{}) {
		if clause == nil {
			clause = s.db.Where(query, arg)
		} else {
			clause = clause.Or(query, arg)
		}
	}

	for _, tag := range q.TagsAny {
		or(s.jsonArrayLike("tags"), "%"+strings.ToLower(tag)+"%")
	}
	for _, ing := range q.IngredientsAny {
		or(s.jsonArrayLike("ingredients"), "%"+strings.ToLower(ing)+"%")
	}
	if q.Diet != "" {
		or("diet = ?", q.Diet)
	}
	return clause
}

// FindMealPlan returns the plan or service.ErrNotFound.
func (s *Store) FindMealPlan(ctx context.Context, id uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("meal plan %s: %w", id, service.ErrNotFound)
		}
		return nil, err
	}
	return &plan, nil
}

func (s *Store) FindMealPlansByUser(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error) {
	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// FindMealPlansByDate matches plans whose days document contains the
// given date value.
func (s *Store) FindMealPlansByDate(ctx context.Context, date string) ([]models.MealPlan, error) {
	pattern := fmt.Sprintf(`%%"date":"%s"%%`, date)
	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).
		Where(s.jsonDocLike("days"), pattern).
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *Store) CreateMealPlan(ctx context.Context, plan *models.MealPlan) error {
	return s.db.WithContext(ctx).Create(plan).Error
}

// SaveMealPlan writes the whole plan document guarded by a version
// check. A concurrent writer bumps the version first and this write
// affects zero rows; that surfaces as service.ErrVersionConflict so the
// caller retries instead of losing the other writer's change.
func (s *Store) SaveMealPlan(ctx context.Context, plan *models.MealPlan) error {
	result := s.db.WithContext(ctx).Model(&models.MealPlan{}).
		Where("id = ? AND version = ?", plan.ID, plan.Version).
		Updates(map[string]interface{}{
			"days":         plan.Days,
			"grocery_list": plan.GroceryList,
			"version":      plan.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.MealPlan{}).
			Where("id = ?", plan.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("meal plan %s: %w", plan.ID, service.ErrNotFound)
		}
		return service.ErrVersionConflict
	}
	plan.Version++
	return nil
}

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *Store) jsonArrayLike(column string) string {
	if s.db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("LOWER(%s::text) LIKE ?", column)
	}
	return fmt.Sprintf("LOWER(%s) LIKE ?", column)
}

func (s *Store) jsonDocLike(column string) string {
	if s.db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("%s::text LIKE ?", column)
	}
	return fmt.Sprintf("%s LIKE ?", column)
}
