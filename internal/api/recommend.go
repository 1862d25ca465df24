package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mealpath/backend/internal/service"
)

// RecommendationHandler exposes the two-tier recipe ranking.
type RecommendationHandler struct {
	recommendations *service.RecommendationService
}

func NewRecommendationHandler(recommendations *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations}
}

func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/recommendations", h.GetRecommendations)
}

// GetRecommendations returns the meal-time and preference tiers for the
// current user at the current instant.
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	recs, err := h.recommendations.GetRecommendations(c.Request.Context(), userID, time.Now())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}
