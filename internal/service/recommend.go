package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealpath/backend/internal/models"
)

// recommendationTierSize caps each of the two result tiers.
const recommendationTierSize = 10

// recommendationCacheTTL bounds how stale a cached ranking may get.
const recommendationCacheTTL = 5 * time.Minute

// Recommendations is the two-tier ranked output: recipes matching the
// current meal slot, then recipes matching the user's preference
// signals. The two lists never share a recipe.
type Recommendations struct {
	MealTimeBased []models.Recipe `json:"meal_time_based"`
	SurveyBased   []models.Recipe `json:"survey_based"`
}

// RecommendationService derives personalized recipe rankings from a
// user's saved/liked history, meal plans, survey, and BMI.
type RecommendationService struct {
	users   UserRepository
	recipes RecipeRepository
	plans   MealPlanRepository
	cache   Cache
	log     *zap.Logger
}

func NewRecommendationService(users UserRepository, recipes RecipeRepository, plans MealPlanRepository, cache Cache, log *zap.Logger) *RecommendationService {
	return &RecommendationService{
		users:   users,
		recipes: recipes,
		plans:   plans,
		cache:   cache,
		log:     log,
	}
}

// GetRecommendations computes both tiers for the user at the given
// instant. The computation is read-only; results are memoized per
// (user, meal slot) for a short TTL.
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID uuid.UUID, now time.Time) (*Recommendations, error) {
	slot := ResolveMealTime(now)

	cacheKey := fmt.Sprintf("recommendations:%s:%s", userID, slot)
	if s.cache != nil {
		var cached Recommendations
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
			s.log.Warn("recommendation cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	user, err := s.users.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	savedIDs, err := s.users.SavedRecipeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	likedIDs, err := s.users.LikedRecipeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	userPlans, err := s.plans.FindMealPlansByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	signals, err := s.collectSignals(ctx, savedIDs, likedIDs, userPlans)
	if err != nil {
		return nil, err
	}

	calorieFilter := CaloriePolicy(user.HeightCm, user.WeightKg)

	// Saved and liked ids are excluded even when the recipe no longer
	// exists; an exclusion can never hurt.
	excluded := make(map[uuid.UUID]bool, len(savedIDs)+len(likedIDs))
	for _, id := range savedIDs {
		excluded[id] = true
	}
	for _, id := range likedIDs {
		excluded[id] = true
	}

	mealTimeBased, err := s.mealTimeTier(ctx, user, slot, calorieFilter, excluded)
	if err != nil {
		return nil, err
	}
	for _, r := range mealTimeBased {
		excluded[r.ID] = true
	}

	surveyBased, err := s.preferenceTier(ctx, user, signals, calorieFilter, excluded)
	if err != nil {
		return nil, err
	}

	result := &Recommendations{MealTimeBased: mealTimeBased, SurveyBased: surveyBased}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, recommendationCacheTTL); err != nil {
			s.log.Warn("recommendation cache write failed", zap.Error(err))
		}
	}

	return result, nil
}

// collectSignals loads every recipe the user has interacted with and
// builds the frequency tables. Dangling references resolve to nothing
// and are skipped.
func (s *RecommendationService) collectSignals(ctx context.Context, savedIDs, likedIDs []uuid.UUID, plans []models.MealPlan) (PreferenceSignals, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range savedIDs {
		add(id)
	}
	for _, id := range likedIDs {
		add(id)
	}
	for _, plan := range plans {
		for _, id := range plan.RecipeIDs() {
			add(id)
		}
	}

	lookup := make(map[uuid.UUID]models.Recipe, len(ids))
	if len(ids) > 0 {
		recipes, err := s.recipes.FindRecipesByIDs(ctx, ids)
		if err != nil {
			return PreferenceSignals{}, err
		}
		for _, r := range recipes {
			lookup[r.ID] = r
		}
	}

	return ExtractSignals(savedIDs, likedIDs, plans, lookup), nil
}

func (s *RecommendationService) mealTimeTier(ctx context.Context, user *models.User, slot models.MealTime, filter CalorieFilter, excluded map[uuid.UUID]bool) ([]models.Recipe, error) {
	candidates, err := s.recipes.FindRecipes(ctx, RecipeQuery{
		MealTime:    slot,
		MinCalories: filter.Min,
		MaxCalories: filter.Max,
		ExcludeIDs:  excludedIDs(excluded),
		PublicOnly:  true,
		NewestFirst: true,
		Limit:       overfetchLimit(recommendationTierSize),
	})
	if err != nil {
		return nil, err
	}
	return takeAllowed(candidates, user.Allergies, recommendationTierSize), nil
}

func (s *RecommendationService) preferenceTier(ctx context.Context, user *models.User, signals PreferenceSignals, filter CalorieFilter, excluded map[uuid.UUID]bool) ([]models.Recipe, error) {
	tags := make([]string, 0, len(signals.TagCounts)+len(user.PreferredTags)+len(user.PreferredCuisines))
	for tag := range signals.TagCounts {
		tags = append(tags, tag)
	}
	tags = append(tags, user.PreferredTags...)
	tags = append(tags, user.PreferredCuisines...)

	ingredients := make([]string, 0, len(signals.IngredientCounts))
	for ing := range signals.IngredientCounts {
		ingredients = append(ingredients, ing)
	}

	diet := user.Diet
	if diet == models.DietNone {
		diet = ""
	}

	query := RecipeQuery{
		MinCalories: filter.Min,
		MaxCalories: filter.Max,
		ExcludeIDs:  excludedIDs(excluded),
		PublicOnly:  true,
		NewestFirst: true,
		Limit:       overfetchLimit(recommendationTierSize),
	}

	// With no tags, no ingredients, and no diet signal there is nothing
	// to match on; fall back to any candidate passing the calorie and
	// exclusion filters so new users still get recommendations.
	if len(tags) > 0 || len(ingredients) > 0 || diet != "" {
		query.TagsAny = tags
		query.IngredientsAny = ingredients
		query.Diet = diet
	}

	candidates, err := s.recipes.FindRecipes(ctx, query)
	if err != nil {
		return nil, err
	}
	return takeAllowed(candidates, user.Allergies, recommendationTierSize), nil
}

// takeAllowed drops candidates containing any allergy ingredient
// (case-insensitive exact match against the ingredient list) and caps
// the result.
func takeAllowed(candidates []models.Recipe, allergies []string, limit int) []models.Recipe {
	result := make([]models.Recipe, 0, limit)
	for _, candidate := range candidates {
		if containsAllergen(candidate.Ingredients, allergies) {
			continue
		}
		result = append(result, candidate)
		if len(result) == limit {
			break
		}
	}
	return result
}

func containsAllergen(ingredients, allergies []string) bool {
	for _, ing := range ingredients {
		ing = strings.ToLower(strings.TrimSpace(ing))
		for _, allergy := range allergies {
			if ing == strings.ToLower(strings.TrimSpace(allergy)) {
				return true
			}
		}
	}
	return false
}

// overfetchLimit leaves headroom for the in-memory allergy filter.
func overfetchLimit(tierSize int) int {
	return tierSize * 3
}

func excludedIDs(set map[uuid.UUID]bool) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
