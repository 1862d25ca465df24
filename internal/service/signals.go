package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mealpath/backend/internal/models"
)

// PreferenceSignals holds the frequency tables derived from a user's
// historical recipe interactions. Tag keys keep their original casing;
// ingredient keys are lowercased.
type PreferenceSignals struct {
	TagCounts        map[string]int
	IngredientCounts map[string]int
}

// Empty reports whether no signal was collected at all.
func (s PreferenceSignals) Empty() bool {
	return len(s.TagCounts) == 0 && len(s.IngredientCounts) == 0
}

// ExtractSignals scans, in order, the user's saved recipes, liked
// recipes, and every meal entry across every meal plan, counting +1 per
// tag and +1 per lowercased ingredient. Ids without a matching recipe
// in the lookup (deleted recipes) are skipped silently.
func ExtractSignals(savedIDs, likedIDs []uuid.UUID, plans []models.MealPlan, recipes map[uuid.UUID]models.Recipe) PreferenceSignals {
	signals := PreferenceSignals{
		TagCounts:        make(map[string]int),
		IngredientCounts: make(map[string]int),
	}

	count := func(id uuid.UUID) {
		recipe, ok := recipes[id]
		if !ok {
			return
		}
		for _, tag := range recipe.Tags {
			signals.TagCounts[tag]++
		}
		for _, ing := range recipe.Ingredients {
			signals.IngredientCounts[strings.ToLower(ing)]++
		}
	}

	for _, id := range savedIDs {
		count(id)
	}
	for _, id := range likedIDs {
		count(id)
	}
	for _, plan := range plans {
		for _, day := range plan.Days {
			for _, meal := range day.Meals {
				count(meal.RecipeID)
			}
		}
	}

	return signals
}
