package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mealpath/backend/internal/models"
)

// fakeStore is an in-memory implementation of the repository
// interfaces. Plans are deep-copied on read and guarded by a version
// check on write, mirroring the real store.
type fakeStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*models.User
	saved         map[uuid.UUID][]uuid.UUID
	liked         map[uuid.UUID][]uuid.UUID
	recipes       map[uuid.UUID]models.Recipe
	recipeOrder   []uuid.UUID
	plans         map[uuid.UUID]models.MealPlan
	planVersions  map[uuid.UUID]int64
	notifications []models.Notification

	// forceConflicts makes the next N SaveMealPlan calls lose the
	// version check.
	forceConflicts int
	saveCalls      int
	queries        []RecipeQuery
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[uuid.UUID]*models.User),
		saved:        make(map[uuid.UUID][]uuid.UUID),
		liked:        make(map[uuid.UUID][]uuid.UUID),
		recipes:      make(map[uuid.UUID]models.Recipe),
		plans:        make(map[uuid.UUID]models.MealPlan),
		planVersions: make(map[uuid.UUID]int64),
	}
}

func (f *fakeStore) addUser(user models.User) *models.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.ID] = &user
	return &user
}

func (f *fakeStore) addRecipe(recipe models.Recipe) models.Recipe {
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now().Add(time.Duration(len(f.recipeOrder)) * time.Second)
	}
	f.recipes[recipe.ID] = recipe
	f.recipeOrder = append(f.recipeOrder, recipe.ID)
	return recipe
}

func (f *fakeStore) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (f *fakeStore) SaveUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeStore) SavedRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return f.saved[userID], nil
}

func (f *fakeStore) LikedRecipeIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return f.liked[userID], nil
}

func (f *fakeStore) FindRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	recipe, ok := f.recipes[id]
	if !ok {
		return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	return &recipe, nil
}

func (f *fakeStore) FindRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Recipe
	seen := make(map[uuid.UUID]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if recipe, ok := f.recipes[id]; ok {
			result = append(result, recipe)
		}
	}
	return result, nil
}

func (f *fakeStore) FindRecipes(ctx context.Context, q RecipeQuery) ([]models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)

	excluded := make(map[uuid.UUID]bool, len(q.ExcludeIDs))
	for _, id := range q.ExcludeIDs {
		excluded[id] = true
	}

	var result []models.Recipe
	// Newest first: iterate the insertion order backwards.
	for i := len(f.recipeOrder) - 1; i >= 0; i-- {
		recipe := f.recipes[f.recipeOrder[i]]
		if q.PublicOnly && !recipe.IsPublic {
			continue
		}
		if q.MealTime != "" && recipe.MealTime != q.MealTime {
			continue
		}
		if q.MinCalories != nil && recipe.Calories < *q.MinCalories {
			continue
		}
		if q.MaxCalories != nil && recipe.Calories > *q.MaxCalories {
			continue
		}
		if excluded[recipe.ID] {
			continue
		}
		if !matchesPreference(recipe, q) {
			continue
		}
		result = append(result, recipe)
		if q.Limit > 0 && len(result) == q.Limit {
			break
		}
	}
	return result, nil
}

// matchesPreference mirrors the store's OR clause over tags,
// ingredients, and diet. No predicate means every candidate matches.
func matchesPreference(recipe models.Recipe, q RecipeQuery) bool {
	if len(q.TagsAny) == 0 && len(q.IngredientsAny) == 0 && q.Diet == "" {
		return true
	}
	for _, want := range q.TagsAny {
		for _, tag := range recipe.Tags {
			if strings.Contains(strings.ToLower(tag), strings.ToLower(want)) {
				return true
			}
		}
	}
	for _, want := range q.IngredientsAny {
		for _, ing := range recipe.Ingredients {
			if strings.Contains(strings.ToLower(ing), strings.ToLower(want)) {
				return true
			}
		}
	}
	return q.Diet != "" && recipe.Diet == q.Diet
}

func clonePlan(plan models.MealPlan) models.MealPlan {
	copied := plan
	copied.Days = make(models.PlanDays, len(plan.Days))
	for i, day := range plan.Days {
		copied.Days[i] = models.PlanDay{Date: day.Date, Meals: append([]models.MealEntry(nil), day.Meals...)}
	}
	copied.GroceryList = append(models.JSONBStringArray(nil), plan.GroceryList...)
	return copied
}

func (f *fakeStore) FindMealPlan(ctx context.Context, id uuid.UUID) (*models.MealPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	plan, ok := f.plans[id]
	if !ok {
		return nil, fmt.Errorf("meal plan %s: %w", id, ErrNotFound)
	}
	copied := clonePlan(plan)
	return &copied, nil
}

func (f *fakeStore) FindMealPlansByUser(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.MealPlan
	for _, plan := range f.plans {
		if plan.UserID == userID {
			result = append(result, clonePlan(plan))
		}
	}
	return result, nil
}

func (f *fakeStore) FindMealPlansByDate(ctx context.Context, date string) ([]models.MealPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.MealPlan
	for _, plan := range f.plans {
		if plan.Day(date) != nil {
			result = append(result, clonePlan(plan))
		}
	}
	return result, nil
}

func (f *fakeStore) CreateMealPlan(ctx context.Context, plan *models.MealPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	f.plans[plan.ID] = clonePlan(*plan)
	f.planVersions[plan.ID] = plan.Version
	return nil
}

func (f *fakeStore) SaveMealPlan(ctx context.Context, plan *models.MealPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if _, ok := f.plans[plan.ID]; !ok {
		return fmt.Errorf("meal plan %s: %w", plan.ID, ErrNotFound)
	}
	if f.forceConflicts > 0 {
		f.forceConflicts--
		return ErrVersionConflict
	}
	if f.planVersions[plan.ID] != plan.Version {
		return ErrVersionConflict
	}
	plan.Version++
	f.plans[plan.ID] = clonePlan(*plan)
	f.planVersions[plan.ID] = plan.Version
	return nil
}

func (f *fakeStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, *n)
	return nil
}

// fakeCache is an in-memory Cache ignoring TTLs.
type fakeCache struct {
	mu     sync.Mutex
	values map[string][]byte
	hits   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}
