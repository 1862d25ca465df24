package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealpath/backend/internal/models"
)

// casRetries bounds how often a read-modify-write is retried after
// losing the store's version check to a concurrent writer.
const casRetries = 3

// MealPlanService owns all meal plan mutations and the derived grocery
// list. Writers are serialized per plan id in-process, and the store's
// compare-and-swap guards against writers in other processes, so a
// concurrent append is retried rather than silently dropped.
type MealPlanService struct {
	plans   MealPlanRepository
	recipes RecipeRepository
	users   UserRepository
	log     *zap.Logger

	mu        sync.Mutex
	planLocks map[uuid.UUID]*sync.Mutex
}

func NewMealPlanService(plans MealPlanRepository, recipes RecipeRepository, users UserRepository, log *zap.Logger) *MealPlanService {
	return &MealPlanService{
		plans:     plans,
		recipes:   recipes,
		users:     users,
		log:       log,
		planLocks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *MealPlanService) lockPlan(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.planLocks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.planLocks[id] = lock
	}
	return lock
}

// CreateMealPlan creates an empty plan for the user.
func (s *MealPlanService) CreateMealPlan(ctx context.Context, userID uuid.UUID) (*models.MealPlan, error) {
	if _, err := s.users.FindUser(ctx, userID); err != nil {
		return nil, err
	}
	plan := &models.MealPlan{
		UserID:      userID,
		Days:        models.PlanDays{},
		GroceryList: models.JSONBStringArray{},
	}
	if err := s.plans.CreateMealPlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// PlansByUser returns every plan owned by the user.
func (s *MealPlanService) PlansByUser(ctx context.Context, userID uuid.UUID) ([]models.MealPlan, error) {
	return s.plans.FindMealPlansByUser(ctx, userID)
}

// AddRecipeToPlan appends a pending meal entry for the recipe on the
// given date (creating the day if needed) and extends the grocery list
// with the recipe's ingredients the user neither owns nor already has
// listed. The day/recipe pair is unique: adding it twice is a conflict.
// The plan document and grocery list are persisted as one unit.
func (s *MealPlanService) AddRecipeToPlan(ctx context.Context, planID uuid.UUID, date string, recipeID uuid.UUID) (*models.MealPlan, error) {
	if _, err := ParsePlanDate(date); err != nil {
		return nil, err
	}

	recipe, err := s.recipes.FindRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	lock := s.lockPlan(planID)
	lock.Lock()
	defer lock.Unlock()

	return s.updatePlan(ctx, planID, func(plan *models.MealPlan, owner *models.User) error {
		day := plan.Day(date)
		if day == nil {
			plan.Days = append(plan.Days, models.PlanDay{Date: date})
			day = &plan.Days[len(plan.Days)-1]
		}
		for _, meal := range day.Meals {
			if meal.RecipeID == recipeID {
				return fmt.Errorf("recipe already planned for %s: %w", date, ErrConflict)
			}
		}
		day.Meals = append(day.Meals, models.MealEntry{RecipeID: recipeID})

		for _, ing := range recipe.Ingredients {
			if containsFold(plan.GroceryList, ing) || containsFold(owner.AvailableIngredients, ing) {
				continue
			}
			plan.GroceryList = append(plan.GroceryList, ing)
		}
		return nil
	})
}

// RemoveRecipeFromPlan removes the matching meal entry and recomputes
// the grocery list from scratch against every recipe still referenced
// anywhere in the plan. An ingredient needed by several entries stays
// listed until the last of them is gone. Removing an entry that is not
// present returns ErrNotFound without mutating anything.
func (s *MealPlanService) RemoveRecipeFromPlan(ctx context.Context, planID uuid.UUID, date string, recipeID uuid.UUID) (*models.MealPlan, error) {
	if _, err := ParsePlanDate(date); err != nil {
		return nil, err
	}

	lock := s.lockPlan(planID)
	lock.Lock()
	defer lock.Unlock()

	return s.updatePlan(ctx, planID, func(plan *models.MealPlan, owner *models.User) error {
		day := plan.Day(date)
		if day == nil {
			return fmt.Errorf("no meals planned for %s: %w", date, ErrNotFound)
		}
		idx := -1
		for i, meal := range day.Meals {
			if meal.RecipeID == recipeID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("recipe not planned for %s: %w", date, ErrNotFound)
		}
		day.Meals = append(day.Meals[:idx], day.Meals[idx+1:]...)
		if len(day.Meals) == 0 {
			s.dropDay(plan, date)
		}

		required, err := s.requiredIngredients(ctx, plan)
		if err != nil {
			return err
		}
		kept := plan.GroceryList[:0]
		for _, item := range plan.GroceryList {
			if required[strings.ToLower(strings.TrimSpace(item))] {
				kept = append(kept, item)
			}
		}
		plan.GroceryList = kept
		return nil
	})
}

// MarkMealDone flips the done flag on a meal entry. It never alters the
// grocery list; undoing a meal is a symmetric transition.
func (s *MealPlanService) MarkMealDone(ctx context.Context, planID uuid.UUID, date string, recipeID uuid.UUID, done bool) (*models.MealPlan, error) {
	if _, err := ParsePlanDate(date); err != nil {
		return nil, err
	}

	lock := s.lockPlan(planID)
	lock.Lock()
	defer lock.Unlock()

	return s.updatePlan(ctx, planID, func(plan *models.MealPlan, owner *models.User) error {
		day := plan.Day(date)
		if day == nil {
			return fmt.Errorf("no meals planned for %s: %w", date, ErrNotFound)
		}
		for i := range day.Meals {
			if day.Meals[i].RecipeID == recipeID {
				day.Meals[i].Done = done
				return nil
			}
		}
		return fmt.Errorf("recipe not planned for %s: %w", date, ErrNotFound)
	})
}

// GroceryList returns the plan's persisted grocery list.
func (s *MealPlanService) GroceryList(ctx context.Context, planID uuid.UUID) ([]string, error) {
	plan, err := s.plans.FindMealPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return plan.GroceryList, nil
}

// AttributedIngredient is one line of the earliest-attributed grocery
// view: the ingredient, the first date any meal needs it, and the title
// of that earliest recipe.
type AttributedIngredient struct {
	Ingredient  string `json:"ingredient"`
	NeededBy    string `json:"needed_by"`
	RecipeTitle string `json:"recipe_title"`
}

// EarliestAttributedGroceryList scans all of the user's meal plans and
// attributes each distinct ingredient to the earliest-scheduled recipe
// needing it (dates compared at midday; ties keep the first entry seen
// during the scan). Ingredients the user already owns are suppressed.
// The view is read-only and never touches the persisted lists.
func (s *MealPlanService) EarliestAttributedGroceryList(ctx context.Context, userID uuid.UUID) ([]AttributedIngredient, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	plans, err := s.plans.FindMealPlansByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	for _, plan := range plans {
		ids = append(ids, plan.RecipeIDs()...)
	}
	lookup := make(map[uuid.UUID]models.Recipe, len(ids))
	if len(ids) > 0 {
		recipes, err := s.recipes.FindRecipesByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, r := range recipes {
			lookup[r.ID] = r
		}
	}

	owned := make(map[string]bool, len(user.AvailableIngredients))
	for _, ing := range user.AvailableIngredients {
		owned[strings.ToLower(strings.TrimSpace(ing))] = true
	}

	type attribution struct {
		at   time.Time
		line AttributedIngredient
	}
	best := make(map[string]attribution)
	var order []string

	for _, plan := range plans {
		for _, day := range plan.Days {
			date, err := ParsePlanDate(day.Date)
			if err != nil {
				continue
			}
			// Day dates carry no time of day; assume midday.
			at := date.Add(12 * time.Hour)
			for _, meal := range day.Meals {
				recipe, ok := lookup[meal.RecipeID]
				if !ok {
					continue
				}
				for _, ing := range recipe.Ingredients {
					key := strings.ToLower(strings.TrimSpace(ing))
					if key == "" || owned[key] {
						continue
					}
					current, seen := best[key]
					if !seen {
						order = append(order, key)
					}
					if !seen || at.Before(current.at) {
						best[key] = attribution{at: at, line: AttributedIngredient{
							Ingredient:  ing,
							NeededBy:    day.Date,
							RecipeTitle: recipe.Title,
						}}
					}
				}
			}
		}
	}

	result := make([]AttributedIngredient, 0, len(order))
	for _, key := range order {
		result = append(result, best[key].line)
	}
	return result, nil
}

// updatePlan runs a read-modify-write against the plan document,
// retrying when the store's version check reports a concurrent write.
func (s *MealPlanService) updatePlan(ctx context.Context, planID uuid.UUID, mutate func(plan *models.MealPlan, owner *models.User) error) (*models.MealPlan, error) {
	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		plan, err := s.plans.FindMealPlan(ctx, planID)
		if err != nil {
			return nil, err
		}
		owner, err := s.users.FindUser(ctx, plan.UserID)
		if err != nil {
			return nil, err
		}
		if err := mutate(plan, owner); err != nil {
			return nil, err
		}
		if err := s.plans.SaveMealPlan(ctx, plan); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				lastErr = err
				s.log.Warn("meal plan write lost version race, retrying",
					zap.String("plan_id", planID.String()),
					zap.Int("attempt", attempt+1))
				continue
			}
			return nil, err
		}
		return plan, nil
	}
	return nil, lastErr
}

// requiredIngredients unions the lowercased ingredients of every recipe
// still referenced by the plan. Dangling references contribute nothing.
func (s *MealPlanService) requiredIngredients(ctx context.Context, plan *models.MealPlan) (map[string]bool, error) {
	ids := plan.RecipeIDs()
	required := make(map[string]bool)
	if len(ids) == 0 {
		return required, nil
	}
	recipes, err := s.recipes.FindRecipesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, recipe := range recipes {
		for _, ing := range recipe.Ingredients {
			required[strings.ToLower(strings.TrimSpace(ing))] = true
		}
	}
	return required, nil
}

func (s *MealPlanService) dropDay(plan *models.MealPlan, date string) {
	for i := range plan.Days {
		if plan.Days[i].Date == date {
			plan.Days = append(plan.Days[:i], plan.Days[i+1:]...)
			return
		}
	}
}

func containsFold(list []string, s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, item := range list {
		if strings.ToLower(strings.TrimSpace(item)) == s {
			return true
		}
	}
	return false
}

// ParsePlanDate parses a plan day's "YYYY-MM-DD" value as a calendar
// date at local midnight. Splitting on the dashes and constructing the
// date locally avoids the timezone shift a naive time.Parse of a bare
// date string introduces.
func ParsePlanDate(date string) (time.Time, error) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD: %w", date, ErrInvalidInput)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD: %w", date, ErrInvalidInput)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD: %w", date, ErrInvalidInput)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD: %w", date, ErrInvalidInput)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}
