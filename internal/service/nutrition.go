package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WeeklySummary sums the calories of completed meals in the current
// week. DailyCalories is indexed by day of week, 0=Sunday..6=Saturday.
type WeeklySummary struct {
	TotalCalories float64    `json:"total_calories"`
	DailyCalories [7]float64 `json:"daily_calories"`
}

// NutritionService aggregates nutrition over a user's meal plans.
type NutritionService struct {
	plans   MealPlanRepository
	recipes RecipeRepository
}

func NewNutritionService(plans MealPlanRepository, recipes RecipeRepository) *NutritionService {
	return &NutritionService{plans: plans, recipes: recipes}
}

// WeeklyCalories rolls up the calories of every done meal entry whose
// day falls inside [most recent Sunday 00:00, end of today]. Entries
// that are pending or outside the window contribute nothing; a meal
// whose recipe was deleted counts as zero calories.
func (s *NutritionService) WeeklyCalories(ctx context.Context, userID uuid.UUID, today time.Time) (*WeeklySummary, error) {
	plans, err := s.plans.FindMealPlansByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	weekStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	weekStart = weekStart.AddDate(0, 0, -int(weekStart.Weekday()))
	weekEnd := time.Date(today.Year(), today.Month(), today.Day(), 23, 59, 59, 999_000_000, today.Location())

	var ids []uuid.UUID
	for _, plan := range plans {
		ids = append(ids, plan.RecipeIDs()...)
	}
	calories := make(map[uuid.UUID]float64, len(ids))
	if len(ids) > 0 {
		recipes, err := s.recipes.FindRecipesByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, r := range recipes {
			calories[r.ID] = r.Calories
		}
	}

	summary := &WeeklySummary{}
	for _, plan := range plans {
		for _, day := range plan.Days {
			date, err := ParsePlanDate(day.Date)
			if err != nil {
				continue
			}
			if date.Before(weekStart) || date.After(weekEnd) {
				continue
			}
			for _, meal := range day.Meals {
				if !meal.Done {
					continue
				}
				cal := calories[meal.RecipeID]
				summary.TotalCalories += cal
				summary.DailyCalories[int(date.Weekday())] += cal
			}
		}
	}
	return summary, nil
}
