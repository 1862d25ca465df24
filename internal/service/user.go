package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/mealpath/backend/internal/models"
)

// ProfileUpdate carries the survey fields a user may change. Nil
// pointers leave the stored value untouched.
type ProfileUpdate struct {
	Diet                 *string
	PreferredTags        *[]string
	PreferredCuisines    *[]string
	Allergies            *[]string
	AvailableIngredients *[]string
	WeightKg             *float64
	HeightCm             *float64
}

// UserService reads and updates user profiles.
type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.FindUser(ctx, userID)
}

// UpdateProfile applies the provided survey changes and persists the
// user.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*models.User, error) {
	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Diet != nil {
		user.Diet = *update.Diet
	}
	if update.PreferredTags != nil {
		user.PreferredTags = models.JSONBStringArray(*update.PreferredTags)
	}
	if update.PreferredCuisines != nil {
		user.PreferredCuisines = models.JSONBStringArray(*update.PreferredCuisines)
	}
	if update.Allergies != nil {
		user.Allergies = models.JSONBStringArray(*update.Allergies)
	}
	if update.AvailableIngredients != nil {
		user.AvailableIngredients = models.JSONBStringArray(*update.AvailableIngredients)
	}
	if update.WeightKg != nil {
		user.WeightKg = update.WeightKg
	}
	if update.HeightCm != nil {
		user.HeightCm = update.HeightCm
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
