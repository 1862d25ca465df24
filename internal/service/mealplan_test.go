package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealpath/backend/internal/models"
)

func newPlanFixture(t *testing.T) (*fakeStore, *MealPlanService, *models.User, models.Recipe, models.Recipe) {
	f := newFakeStore()
	user := f.addUser(models.User{
		Diet:                 models.DietNone,
		AvailableIngredients: models.JSONBStringArray{"Salt"},
	})
	pasta := f.addRecipe(models.Recipe{
		Title:       "Garlic Pasta",
		Ingredients: models.JSONBStringArray{"garlic", "pasta", "salt"},
		IsPublic:    true,
	})
	curry := f.addRecipe(models.Recipe{
		Title:       "Rice Curry",
		Ingredients: models.JSONBStringArray{"Garlic", "rice"},
		IsPublic:    true,
	})
	svc := NewMealPlanService(f, f, f, zap.NewNop())
	return f, svc, user, pasta, curry
}

func TestAddRecipeToPlan(t *testing.T) {
	_, svc, user, pasta, _ := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID)
	require.NoError(t, err)

	plan, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", pasta.ID)
	require.NoError(t, err)

	day := plan.Day("2024-05-10")
	require.NotNil(t, day)
	require.Len(t, day.Meals, 1)
	assert.Equal(t, pasta.ID, day.Meals[0].RecipeID)
	assert.False(t, day.Meals[0].Done)

	// "salt" is already in the user's kitchen and never hits the list.
	assert.Equal(t, models.JSONBStringArray{"garlic", "pasta"}, plan.GroceryList)
}

func TestAddRecipeToPlanSharedIngredients(t *testing.T) {
	_, svc, user, pasta, curry := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", pasta.ID)
	require.NoError(t, err)
	plan, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", curry.ID)
	require.NoError(t, err)

	// "Garlic" matches the listed "garlic" case-insensitively and is
	// not added twice.
	assert.Equal(t, models.JSONBStringArray{"garlic", "pasta", "rice"}, plan.GroceryList)
}

func TestAddRecipeToPlanTwiceConflicts(t *testing.T) {
	_, svc, user, pasta, _ := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", pasta.ID)
	require.NoError(t, err)
	_, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", pasta.ID)
	assert.ErrorIs(t, err, ErrConflict)

	// The same recipe on a different day is fine.
	_, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-11", pasta.ID)
	assert.NoError(t, err)
}

func TestAddRecipeToPlanInvalidDate(t *testing.T) {
	_, svc, user, pasta, _ := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID)
	require.NoError(t, err)

	for _, date := range []string{"2024-05", "not-a-date-x", "2024-13-01", "2024-05-40", "20240510"} {
		_, err = svc.AddRecipeToPlan(ctx, plan.ID, date, pasta.ID)
		assert.ErrorIs(t, err, ErrInvalidInput, "date %q", date)
	}
}

func TestAddRecipeToPlanMissingRecipe(t *testing.T) {
	_, svc, user, _, _ := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveRecipeRecomputesGroceryList(t *testing.T) {
	_, svc, user, pasta, curry := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", pasta.ID)
	require.NoError(t, err)
	_, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", curry.ID)
	require.NoError(t, err)

	// garlic is still needed by the pasta, rice is not needed anymore.
	plan, err = svc.RemoveRecipeFromPlan(ctx, plan.ID, "2024-05-10", curry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JSONBStringArray{"garlic", "pasta"}, plan.GroceryList)

	plan, err = svc.RemoveRecipeFromPlan(ctx, plan.ID, "2024-05-10", pasta.ID)
	require.NoError(t, err)
	assert.Empty(t, plan.GroceryList)
	assert.Empty(t, plan.Days)
}

func TestRemoveRecipeNotPlanned(t *testing.T) {
	_, svc, user, pasta, curry := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", pasta.ID)
	require.NoError(t, err)

	_, err = svc.RemoveRecipeFromPlan(ctx, plan.ID, "2024-05-10", curry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.RemoveRecipeFromPlan(ctx, plan.ID, "2024-05-11", pasta.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Nothing was mutated by the failed removals.
	list, err := svc.GroceryList(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"garlic", "pasta"}, list)
}

func TestMarkMealDone(t *testing.T) {
	_, svc, user, pasta, _ := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID)
	require.NoError(t, err)
	_, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", pasta.ID)
	require.NoError(t, err)

	plan, err = svc.MarkMealDone(ctx, plan.ID, "2024-05-10", pasta.ID, true)
	require.NoError(t, err)
	assert.True(t, plan.Day("2024-05-10").Meals[0].Done)
	assert.Equal(t, models.JSONBStringArray{"garlic", "pasta"}, plan.GroceryList)

	plan, err = svc.MarkMealDone(ctx, plan.ID, "2024-05-10", pasta.ID, false)
	require.NoError(t, err)
	assert.False(t, plan.Day("2024-05-10").Meals[0].Done)

	_, err = svc.MarkMealDone(ctx, plan.ID, "2024-05-10", uuid.New(), true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePlanRetriesOnVersionConflict(t *testing.T) {
	f, svc, user, pasta, _ := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID)
	require.NoError(t, err)

	f.forceConflicts = 1
	plan, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", pasta.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.saveCalls)
	assert.NotNil(t, plan.Day("2024-05-10"))
}

func TestUpdatePlanGivesUpAfterRetries(t *testing.T) {
	f, svc, user, pasta, _ := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID)
	require.NoError(t, err)

	f.forceConflicts = casRetries
	_, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", pasta.ID)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestEarliestAttributedGroceryList(t *testing.T) {
	_, svc, user, pasta, curry := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID)
	require.NoError(t, err)

	// The curry is added first but scheduled later; shared garlic must
	// be attributed to the earlier pasta.
	_, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-12", curry.ID)
	require.NoError(t, err)
	_, err = svc.AddRecipeToPlan(ctx, plan.ID, "2024-05-10", pasta.ID)
	require.NoError(t, err)

	list, err := svc.EarliestAttributedGroceryList(ctx, user.ID)
	require.NoError(t, err)

	byIngredient := make(map[string]AttributedIngredient, len(list))
	for _, line := range list {
		byIngredient[line.Ingredient] = line
	}

	// The curry's "Garlic" was seen first, but the earlier pasta wins
	// the attribution, casing included.
	garlic, ok := byIngredient["garlic"]
	require.True(t, ok)
	assert.Equal(t, "2024-05-10", garlic.NeededBy)
	assert.Equal(t, "Garlic Pasta", garlic.RecipeTitle)

	assert.Equal(t, "2024-05-12", byIngredient["rice"].NeededBy)
	assert.Equal(t, "Rice Curry", byIngredient["rice"].RecipeTitle)
	assert.Equal(t, "2024-05-10", byIngredient["pasta"].NeededBy)

	// The owned ingredient never shows up.
	_, ok = byIngredient["salt"]
	assert.False(t, ok)
	assert.Len(t, list, 3)
}

func TestParsePlanDate(t *testing.T) {
	date, err := ParsePlanDate("2024-05-10")
	require.NoError(t, err)
	assert.Equal(t, 2024, date.Year())
	assert.Equal(t, time.May, date.Month())
	assert.Equal(t, 10, date.Day())
	assert.Equal(t, 0, date.Hour())

	_, err = ParsePlanDate("2024/05/10")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParsePlanDate("2024-00-10")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
