package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mealpath/backend/internal/service"
)

// NutritionHandler exposes the weekly calorie roll-up.
type NutritionHandler struct {
	nutrition *service.NutritionService
}

func NewNutritionHandler(nutrition *service.NutritionService) *NutritionHandler {
	return &NutritionHandler{nutrition: nutrition}
}

func (h *NutritionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/nutrition/weekly", h.GetWeeklyCalories)
}

// GetWeeklyCalories sums completed meals for the week containing the
// optional ?date=YYYY-MM-DD (default today).
func (h *NutritionHandler) GetWeeklyCalories(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	today := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := service.ParsePlanDate(raw)
		if err != nil {
			abortWithServiceError(c, err)
			return
		}
		today = parsed
	}

	summary, err := h.nutrition.WeeklyCalories(c.Request.Context(), userID, today)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
