package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	DefaultSuggestionTimeout = 8 * time.Second
	DefaultSuggestionCount   = 3
)

var mealTypes = map[models.Bucket]string{
	models.BucketBreakfast: "breakfast",
	models.BucketLunch:     "main course",
	models.BucketDinner:    "main course",
	models.BucketSnacks:    "snack",
}

// Internal diet strings, including the Spanish spellings the questionnaire
// has historically stored, mapped to the recipe search diet taxonomy.
var dietTaxonomy = map[string]string{
	"vegetarian":   "vegetarian",
	"vegetariano":  "vegetarian",
	"vegan":        "vegan",
	"vegano":       "vegan",
	"keto":         "ketogenic",
	"ketogenic":    "ketogenic",
	"cetogenica":   "ketogenic",
	"paleo":        "paleo",
	"gluten_free":  "gluten free",
	"gluten-free":  "gluten free",
	"sin_gluten":   "gluten free",
	"pescatarian":  "pescetarian",
	"pescetarian":  "pescetarian",
	"pescetariano": "pescetarian",
}

// SuggestionResolver queries a RecipeSearcher and degrades to a built-in
// catalogue when the search is unavailable.
type SuggestionResolver struct {
	searcher RecipeSearcher
	timeout  time.Duration
	number   int
	log      logrus.FieldLogger
}

var _ ISuggestionResolver = (*SuggestionResolver)(nil)

// NewSuggestionResolver creates a resolver. searcher may be nil, in which case
// only the fallback catalogue is used.
func NewSuggestionResolver(searcher RecipeSearcher, timeout time.Duration, number int, log logrus.FieldLogger) *SuggestionResolver {
	if timeout <= 0 {
		timeout = DefaultSuggestionTimeout
	}
	if number <= 0 {
		number = DefaultSuggestionCount
	}
	return &SuggestionResolver{searcher: searcher, timeout: timeout, number: number, log: log}
}

type suggestionResult struct {
	items []models.FoodItem
	err   error
}

// Resolve returns suggestions for bucket. Any search failure, including
// timeout and cancellation, yields the fallback list instead of an error.
func (r *SuggestionResolver) Resolve(ctx context.Context, bucket models.Bucket, prefs models.DietaryPreferences, targetCalories int) []models.FoodItem {
	res := r.search(ctx, bucket, prefs, targetCalories)
	if res.err != nil {
		r.log.WithFields(logrus.Fields{
			"bucket": bucket,
			"error":  res.err,
		}).Warn("Recipe search failed, using fallback suggestions")
		return fallbackSuggestions(bucket, prefs, r.number)
	}
	return res.items
}

func (r *SuggestionResolver) search(ctx context.Context, bucket models.Bucket, prefs models.DietaryPreferences, targetCalories int) suggestionResult {
	if r.searcher == nil {
		return suggestionResult{err: errSuggestionUnavailable}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	items, err := r.searcher.Search(ctx, BuildRecipeQuery(bucket, prefs, targetCalories, r.number))
	if err != nil {
		return suggestionResult{err: fmt.Errorf("%w: %v", errSuggestionUnavailable, err)}
	}
	if len(items) > r.number {
		items = items[:r.number]
	}
	for i := range items {
		items[i].Consumed = false
	}
	return suggestionResult{items: items}
}

// BuildRecipeQuery translates a bucket and the user's preferences into a search query.
func BuildRecipeQuery(bucket models.Bucket, prefs models.DietaryPreferences, targetCalories, number int) RecipeQuery {
	q := RecipeQuery{
		MealType:     mealTypes[bucket],
		Diet:         MapDiet(prefs.DietType),
		Intolerances: nonEmpty(prefs.Intolerances),
		Number:       number,
	}
	q.Exclude = append(nonEmpty(prefs.Allergies), nonEmpty(prefs.DislikedFoods)...)
	if targetCalories > 0 {
		q.MinCalories = int(math.Round(0.8 * float64(targetCalories)))
		q.MaxCalories = int(math.Round(1.2 * float64(targetCalories)))
	}
	return q
}

// MapDiet returns the search diet for an internal diet type, or "" when the
// diet is unknown and no filter should be applied.
func MapDiet(dietType string) string {
	key := strings.ToLower(strings.TrimSpace(dietType))
	key = strings.ReplaceAll(key, " ", "_")
	return dietTaxonomy[key]
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
