package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealpath/backend/internal/models"
)

func TestWeeklyCalories(t *testing.T) {
	f := newFakeStore()
	user := f.addUser(models.User{Diet: models.DietNone})

	lunch := f.addRecipe(models.Recipe{Title: "Lunch Bowl", Calories: 500, IsPublic: true})
	snack := f.addRecipe(models.Recipe{Title: "Trail Mix", Calories: 300, IsPublic: true})
	deleted := uuid.New()

	plan := &models.MealPlan{
		UserID: user.ID,
		Days: models.PlanDays{
			// Wednesday of the current week: one done, one pending.
			{Date: "2024-01-03", Meals: []models.MealEntry{
				{RecipeID: lunch.ID, Done: true},
				{RecipeID: snack.ID, Done: false},
			}},
			// Saturday (today): the recipe no longer exists.
			{Date: "2024-01-06", Meals: []models.MealEntry{
				{RecipeID: deleted, Done: true},
			}},
			// Previous week, outside the window.
			{Date: "2023-12-30", Meals: []models.MealEntry{
				{RecipeID: snack.ID, Done: true},
			}},
		},
	}
	require.NoError(t, f.CreateMealPlan(context.Background(), plan))

	svc := NewNutritionService(f, f)
	// Saturday 2024-01-06; the week began Sunday 2023-12-31.
	today := time.Date(2024, 1, 6, 14, 0, 0, 0, time.Local)
	summary, err := svc.WeeklyCalories(context.Background(), user.ID, today)
	require.NoError(t, err)

	assert.Equal(t, 500.0, summary.TotalCalories)
	assert.Equal(t, 500.0, summary.DailyCalories[3])
	for i, cal := range summary.DailyCalories {
		if i != 3 {
			assert.Zero(t, cal, "weekday %d", i)
		}
	}
}

func TestWeeklyCaloriesNoPlans(t *testing.T) {
	f := newFakeStore()
	user := f.addUser(models.User{Diet: models.DietNone})

	svc := NewNutritionService(f, f)
	summary, err := svc.WeeklyCalories(context.Background(), user.ID, time.Now())
	require.NoError(t, err)
	assert.Zero(t, summary.TotalCalories)
}
