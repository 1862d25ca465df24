package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mealpath/backend/internal/models"
)

func TestResolveMealTime(t *testing.T) {
	cases := []struct {
		hour int
		want models.MealTime
	}{
		{0, models.MealTimeSnack},
		{5, models.MealTimeSnack},
		{6, models.MealTimeBreakfast},
		{10, models.MealTimeBreakfast},
		{11, models.MealTimeLunch},
		{14, models.MealTimeLunch},
		{15, models.MealTimeDinner},
		{19, models.MealTimeDinner},
		{20, models.MealTimeSnack},
		{23, models.MealTimeSnack},
	}
	for _, tc := range cases {
		now := time.Date(2024, 5, 10, tc.hour, 30, 0, 0, time.Local)
		assert.Equal(t, tc.want, ResolveMealTime(now), "hour %d", tc.hour)
	}
}
