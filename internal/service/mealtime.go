package service

import (
	"time"

	"github.com/mealpath/backend/internal/models"
)

// ResolveMealTime maps a wall-clock instant to the meal slot that
// should be prioritized right now: [6,11) Breakfast, [11,15) Lunch,
// [15,20) Dinner, everything else Snack. The caller supplies the
// instant so tests never depend on process time.
func ResolveMealTime(now time.Time) models.MealTime {
	switch h := now.Hour(); {
	case h >= 6 && h < 11:
		return models.MealTimeBreakfast
	case h >= 11 && h < 15:
		return models.MealTimeLunch
	case h >= 15 && h < 20:
		return models.MealTimeDinner
	default:
		return models.MealTimeSnack
	}
}
