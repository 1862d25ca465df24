package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mealpath/backend/internal/models"
	"github.com/mealpath/backend/internal/service"
	"github.com/mealpath/backend/internal/types"
)

// RecipeHandler exposes the thin recipe CRUD surface.
type RecipeHandler struct {
	recipes *service.RecipeService
}

func NewRecipeHandler(recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/popular", h.PopularRecipes)
		recipes.GET("/by-ingredients/:ingredients", h.SearchByIngredients)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", h.CreateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/rate", h.RateRecipe)
		recipes.POST("/:id/save", h.SaveRecipe)
		recipes.DELETE("/:id/save", h.UnsaveRecipe)
		recipes.POST("/:id/like", h.LikeRecipe)
		recipes.DELETE("/:id/like", h.UnlikeRecipe)
	}
}

// createRecipeRequest accepts ingredients and tags as either arrays or
// comma-separated strings; both coerce to trimmed lists.
type createRecipeRequest struct {
	Title        string           `json:"title" binding:"required"`
	Description  string           `json:"description"`
	Ingredients  types.StringList `json:"ingredients"`
	Instructions types.StringList `json:"instructions"`
	Tags         types.StringList `json:"tags"`
	Diet         string           `json:"diet"`
	MealTime     string           `json:"meal_time"`
	Calories     float64          `json:"calories"`
	IsPublic     *bool            `json:"is_public"`
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := &models.Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  models.JSONBStringArray(req.Ingredients),
		Instructions: models.JSONBStringArray(req.Instructions),
		Tags:         models.JSONBStringArray(req.Tags),
		Diet:         req.Diet,
		MealTime:     models.MealTime(req.MealTime),
		Calories:     req.Calories,
		IsPublic:     true,
		UserID:       userID,
	}
	if req.IsPublic != nil {
		recipe.IsPublic = *req.IsPublic
	}

	created, err := h.recipes.CreateRecipe(c.Request.Context(), recipe)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filters := service.RecipeFilters{
		Diet:     c.Query("diet"),
		MealTime: c.Query("meal_time"),
		Tag:      c.Query("tag"),
	}
	if raw := c.Query("min_calories"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.MinCalories = &v
		}
	}
	if raw := c.Query("max_calories"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.MaxCalories = &v
		}
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), filters)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) PopularRecipes(c *gin.Context) {
	recipes, err := h.recipes.PopularRecipes(c.Request.Context(), 4)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) SearchByIngredients(c *gin.Context) {
	recipes, err := h.recipes.SearchByIngredients(c.Request.Context(), c.Param("ingredients"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

type rateRecipeRequest struct {
	Rating int `json:"rating" binding:"required"`
}

func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req rateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.recipes.RateRecipe(c.Request.Context(), userID, id, req.Rating); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rating added"})
}

func (h *RecipeHandler) SaveRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.SaveRecipe(c.Request.Context(), userID, id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe saved"})
}

func (h *RecipeHandler) UnsaveRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.UnsaveRecipe(c.Request.Context(), userID, id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe unsaved"})
}

func (h *RecipeHandler) LikeRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.LikeRecipe(c.Request.Context(), userID, id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe liked"})
}

func (h *RecipeHandler) UnlikeRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.recipes.UnlikeRecipe(c.Request.Context(), userID, id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe unliked"})
}
