// Package server assembles the application and owns its lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mealpath/backend/config"
	"github.com/mealpath/backend/internal/api"
	"github.com/mealpath/backend/internal/middleware"
	"github.com/mealpath/backend/internal/router"
	"github.com/mealpath/backend/internal/service"
	"github.com/mealpath/backend/internal/store"
)

// Server is the assembled HTTP application.
type Server struct {
	cfg       *config.Config
	log       *zap.Logger
	http      *http.Server
	reminders *service.ReminderService
	stop      chan struct{}
}

// New connects the backing stores and wires every service and handler.
func New(cfg *config.Config, log *zap.Logger) (*Server, error) {
	db, err := store.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}

	repo := store.New(db)

	var cache service.Cache
	var limiter *middleware.RateLimiter
	redisClient, err := store.NewRedisClient(cfg)
	if err != nil {
		// The engine degrades gracefully without Redis: no caching, no
		// rate limiting.
		log.Warn("redis unavailable, running without cache", zap.Error(err))
	} else {
		cache = store.NewRedisCache(redisClient)
		limiter = middleware.NewRecommendationRateLimiter(redisClient)
	}

	tokens := service.NewTokenService(cfg.JWTSecret)
	users := service.NewUserService(repo)
	recipes := service.NewRecipeService(db)
	recommendations := service.NewRecommendationService(repo, repo, repo, cache, log)
	mealPlans := service.NewMealPlanService(repo, repo, repo, log)
	nutrition := service.NewNutritionService(repo, repo)
	reminders := service.NewReminderService(repo, repo, repo, log)

	engine := router.SetupRouter(router.Handlers{
		Profile:         api.NewProfileHandler(users),
		Recipes:         api.NewRecipeHandler(recipes),
		Recommendations: api.NewRecommendationHandler(recommendations),
		MealPlans:       api.NewMealPlanHandler(mealPlans),
		Nutrition:       api.NewNutritionHandler(nutrition),
	}, tokens, limiter)

	return &Server{
		cfg: cfg,
		log: log,
		http: &http.Server{
			Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler: engine,
		},
		reminders: reminders,
		stop:      make(chan struct{}),
	}, nil
}

// Start serves HTTP and runs the daily reminder scan until Shutdown.
func (s *Server) Start() error {
	go s.reminderLoop()

	s.log.Info("server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and the reminder loop.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stop)
	return s.http.Shutdown(ctx)
}

// reminderLoop writes meal reminders once every 24h.
func (s *Server) reminderLoop() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			sent, err := s.reminders.SendMealReminders(ctx, time.Now())
			cancel()
			if err != nil {
				s.log.Error("meal reminder scan failed", zap.Error(err))
				continue
			}
			s.log.Info("meal reminders written", zap.Int("count", sent))
		}
	}
}
