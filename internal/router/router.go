// Package router wires the HTTP routes.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mealpath/backend/internal/api"
	"github.com/mealpath/backend/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Profile         *api.ProfileHandler
	Recipes         *api.RecipeHandler
	Recommendations *api.RecommendationHandler
	MealPlans       *api.MealPlanHandler
	Nutrition       *api.NutritionHandler
}

// SetupRouter configures the application routes.
func SetupRouter(handlers Handlers, validator middleware.TokenValidator, recommendationLimiter *middleware.RateLimiter) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(validator))
	{
		handlers.Profile.RegisterRoutes(v1)
		handlers.Recipes.RegisterRoutes(v1)
		handlers.MealPlans.RegisterRoutes(v1)
		handlers.Nutrition.RegisterRoutes(v1)

		recommendations := v1.Group("")
		if recommendationLimiter != nil {
			recommendations.Use(recommendationLimiter.RateLimitMiddleware())
		}
		handlers.Recommendations.RegisterRoutes(recommendations)
	}

	return router
}
