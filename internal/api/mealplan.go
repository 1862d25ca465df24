package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mealpath/backend/internal/service"
)

// MealPlanHandler exposes meal plan mutations and the grocery views.
type MealPlanHandler struct {
	mealPlans *service.MealPlanService
}

func NewMealPlanHandler(mealPlans *service.MealPlanService) *MealPlanHandler {
	return &MealPlanHandler{mealPlans: mealPlans}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/mealplans")
	{
		plans.POST("", h.CreateMealPlan)
		plans.GET("", h.ListMealPlans)
		plans.PUT("/:id/recipes", h.AddRecipeToPlan)
		plans.DELETE("/:id/recipes", h.RemoveRecipeFromPlan)
		plans.PATCH("/:id/meals", h.MarkMealDone)
		plans.GET("/:id/grocery-list", h.GetGroceryList)
	}
	router.GET("/grocery-list", h.GetEarliestAttributedGroceryList)
}

func (h *MealPlanHandler) CreateMealPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	plan, err := h.mealPlans.CreateMealPlan(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *MealPlanHandler) ListMealPlans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	plans, err := h.mealPlans.PlansByUser(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal_plans": plans})
}

// planEntryRequest identifies one (date, recipe) pair in a plan.
type planEntryRequest struct {
	Date     string    `json:"date" binding:"required"`
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
}

func (h *MealPlanHandler) AddRecipeToPlan(c *gin.Context) {
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req planEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.mealPlans.AddRecipeToPlan(c.Request.Context(), planID, req.Date, req.RecipeID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) RemoveRecipeFromPlan(c *gin.Context) {
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req planEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.mealPlans.RemoveRecipeFromPlan(c.Request.Context(), planID, req.Date, req.RecipeID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

type markMealDoneRequest struct {
	Date     string    `json:"date" binding:"required"`
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	Done     *bool     `json:"done" binding:"required"`
}

func (h *MealPlanHandler) MarkMealDone(c *gin.Context) {
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req markMealDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.mealPlans.MarkMealDone(c.Request.Context(), planID, req.Date, req.RecipeID, *req.Done)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) GetGroceryList(c *gin.Context) {
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.mealPlans.GroceryList(c.Request.Context(), planID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grocery_list": list})
}

func (h *MealPlanHandler) GetEarliestAttributedGroceryList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	list, err := h.mealPlans.EarliestAttributedGroceryList(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grocery_list": list})
}
