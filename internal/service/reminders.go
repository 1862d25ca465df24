package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mealpath/backend/internal/models"
)

// ReminderService writes a notification for every meal planned for
// tomorrow. Delivery of the notifications is out of scope; rows are
// only written. The scan runs once a day from the server's ticker and
// takes "now" as a parameter so tests can pin it.
type ReminderService struct {
	plans         MealPlanRepository
	recipes       RecipeRepository
	notifications NotificationRepository
	log           *zap.Logger
}

func NewReminderService(plans MealPlanRepository, recipes RecipeRepository, notifications NotificationRepository, log *zap.Logger) *ReminderService {
	return &ReminderService{
		plans:         plans,
		recipes:       recipes,
		notifications: notifications,
		log:           log,
	}
}

// SendMealReminders notifies every plan owner about tomorrow's meals
// and returns the number of notifications written. Meals whose recipe
// was deleted are skipped.
func (s *ReminderService) SendMealReminders(ctx context.Context, now time.Time) (int, error) {
	tomorrow := now.AddDate(0, 0, 1).Format("2006-01-02")

	plans, err := s.plans.FindMealPlansByDate(ctx, tomorrow)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, plan := range plans {
		day := plan.Day(tomorrow)
		if day == nil {
			continue
		}
		recipes, err := s.recipes.FindRecipesByIDs(ctx, plan.RecipeIDs())
		if err != nil {
			return sent, err
		}
		titles := make(map[string]string, len(recipes))
		for _, r := range recipes {
			titles[r.ID.String()] = r.Title
		}
		for _, meal := range day.Meals {
			title, ok := titles[meal.RecipeID.String()]
			if !ok {
				continue
			}
			notification := &models.Notification{
				RecipientID: plan.UserID,
				Type:        "Alerts",
				Message:     fmt.Sprintf("Reminder: %q is planned for tomorrow!", title),
				RelatedID:   meal.RecipeID,
			}
			if err := s.notifications.CreateNotification(ctx, notification); err != nil {
				s.log.Error("failed to write meal reminder",
					zap.String("user_id", plan.UserID.String()),
					zap.Error(err))
				continue
			}
			sent++
		}
	}
	return sent, nil
}
