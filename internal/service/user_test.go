package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealpath/backend/internal/models"
)

func TestUpdateProfilePartial(t *testing.T) {
	f := newFakeStore()
	user := f.addUser(models.User{
		Diet:          "Vegetarian",
		PreferredTags: models.JSONBStringArray{"quick"},
	})

	svc := NewUserService(f)
	diet := "Vegan"
	weight := 70.0
	allergies := []string{"shellfish"}

	updated, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{
		Diet:      &diet,
		WeightKg:  &weight,
		Allergies: &allergies,
	})
	require.NoError(t, err)

	assert.Equal(t, "Vegan", updated.Diet)
	assert.Equal(t, 70.0, *updated.WeightKg)
	assert.Equal(t, models.JSONBStringArray{"shellfish"}, updated.Allergies)
	// Untouched fields survive.
	assert.Equal(t, models.JSONBStringArray{"quick"}, updated.PreferredTags)
	assert.Nil(t, updated.HeightCm)

	stored, err := svc.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vegan", stored.Diet)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeStore())
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), ProfileUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}
