package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mealpath/backend/internal/service"
	"github.com/mealpath/backend/internal/types"
)

// ProfileHandler exposes the survey fields the engine derives
// recommendations from.
type ProfileHandler struct {
	users *service.UserService
}

func NewProfileHandler(users *service.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Diet                 *string           `json:"diet"`
	PreferredTags        *types.StringList `json:"preferred_tags"`
	PreferredCuisines    *types.StringList `json:"preferred_cuisines"`
	Allergies            *types.StringList `json:"allergies"`
	AvailableIngredients *types.StringList `json:"available_ingredients"`
	WeightKg             *float64          `json:"weight_kg"`
	HeightCm             *float64          `json:"height_cm"`
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := service.ProfileUpdate{
		Diet:     req.Diet,
		WeightKg: req.WeightKg,
		HeightCm: req.HeightCm,
	}
	if req.PreferredTags != nil {
		list := []string(*req.PreferredTags)
		update.PreferredTags = &list
	}
	if req.PreferredCuisines != nil {
		list := []string(*req.PreferredCuisines)
		update.PreferredCuisines = &list
	}
	if req.Allergies != nil {
		list := []string(*req.Allergies)
		update.Allergies = &list
	}
	if req.AvailableIngredients != nil {
		list := []string(*req.AvailableIngredients)
		update.AvailableIngredients = &list
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
