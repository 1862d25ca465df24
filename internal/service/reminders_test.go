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

func TestSendMealReminders(t *testing.T) {
	f := newFakeStore()
	user := f.addUser(models.User{Diet: models.DietNone})
	pasta := f.addRecipe(models.Recipe{Title: "Garlic Pasta", IsPublic: true})
	deleted := uuid.New()

	plan := &models.MealPlan{
		UserID: user.ID,
		Days: models.PlanDays{
			{Date: "2024-05-11", Meals: []models.MealEntry{
				{RecipeID: pasta.ID},
				{RecipeID: deleted},
			}},
			{Date: "2024-05-12", Meals: []models.MealEntry{
				{RecipeID: pasta.ID},
			}},
		},
	}
	require.NoError(t, f.CreateMealPlan(context.Background(), plan))

	svc := NewReminderService(f, f, f, zap.NewNop())
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local)
	sent, err := svc.SendMealReminders(context.Background(), now)
	require.NoError(t, err)

	// Only tomorrow's surviving meal produces a notification.
	assert.Equal(t, 1, sent)
	require.Len(t, f.notifications, 1)
	n := f.notifications[0]
	assert.Equal(t, user.ID, n.RecipientID)
	assert.Equal(t, "Alerts", n.Type)
	assert.Equal(t, `Reminder: "Garlic Pasta" is planned for tomorrow!`, n.Message)
	assert.Equal(t, pasta.ID, n.RelatedID)
}

func TestSendMealRemindersNothingTomorrow(t *testing.T) {
	f := newFakeStore()
	svc := NewReminderService(f, f, f, zap.NewNop())

	sent, err := svc.SendMealReminders(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, f.notifications)
}
