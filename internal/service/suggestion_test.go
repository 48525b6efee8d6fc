package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pageza/nutriplan/backend/internal/logging"
	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRecipeSearcher struct {
	mock.Mock
}

func (m *mockRecipeSearcher) Search(ctx context.Context, q RecipeQuery) ([]models.FoodItem, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FoodItem), args.Error(1)
}

func TestBuildRecipeQuery(t *testing.T) {
	prefs := models.DietaryPreferences{
		DietType:      "Vegano",
		Allergies:     []string{"peanuts", " "},
		DislikedFoods: []string{"olives"},
		Intolerances:  []string{"gluten"},
	}

	q := BuildRecipeQuery(models.BucketLunch, prefs, 791, 3)

	assert.Equal(t, "main course", q.MealType)
	assert.Equal(t, "vegan", q.Diet)
	assert.Equal(t, []string{"peanuts", "olives"}, q.Exclude)
	assert.Equal(t, []string{"gluten"}, q.Intolerances)
	assert.Equal(t, 633, q.MinCalories)
	assert.Equal(t, 949, q.MaxCalories)
	assert.Equal(t, 3, q.Number)
}

func TestBuildRecipeQuery_MealTypes(t *testing.T) {
	assert.Equal(t, "breakfast", BuildRecipeQuery(models.BucketBreakfast, models.DietaryPreferences{}, 500, 1).MealType)
	assert.Equal(t, "main course", BuildRecipeQuery(models.BucketDinner, models.DietaryPreferences{}, 500, 1).MealType)
	assert.Equal(t, "snack", BuildRecipeQuery(models.BucketSnacks, models.DietaryPreferences{}, 500, 1).MealType)
}

func TestBuildRecipeQuery_NoCalorieBandForZeroTarget(t *testing.T) {
	q := BuildRecipeQuery(models.BucketSnacks, models.DietaryPreferences{}, 0, 3)
	assert.Zero(t, q.MinCalories)
	assert.Zero(t, q.MaxCalories)
}

func TestMapDiet(t *testing.T) {
	tests := map[string]string{
		"vegetarian":  "vegetarian",
		"Vegetariano": "vegetarian",
		"keto":        "ketogenic",
		"gluten free": "gluten free",
		"sin_gluten":  "gluten free",
		"pescatarian": "pescetarian",
		"paleo":       "paleo",
		"flexitarian": "",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, MapDiet(in), in)
	}
}

func TestSuggestionResolver_ReturnsSearchResults(t *testing.T) {
	searcher := new(mockRecipeSearcher)
	found := []models.FoodItem{
		{ID: "1", Name: "Soup", Calories: 500},
		{ID: "2", Name: "Stew", Calories: 520},
		{ID: "3", Name: "Curry", Calories: 540},
		{ID: "4", Name: "Salad", Calories: 480},
	}
	searcher.On("Search", mock.Anything, mock.MatchedBy(func(q RecipeQuery) bool {
		return q.MealType == "main course" && q.Number == 3
	})).Return(found, nil)

	r := NewSuggestionResolver(searcher, time.Second, 3, logging.Discard())
	items := r.Resolve(context.Background(), models.BucketDinner, models.DietaryPreferences{}, 678)

	assert.Len(t, items, 3)
	assert.Equal(t, "Soup", items[0].Name)
	searcher.AssertExpectations(t)
}

func TestSuggestionResolver_FallsBackOnError(t *testing.T) {
	searcher := new(mockRecipeSearcher)
	searcher.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("402 payment required"))

	r := NewSuggestionResolver(searcher, time.Second, 3, logging.Discard())
	items := r.Resolve(context.Background(), models.BucketSnacks, models.DietaryPreferences{
		Allergies: []string{"peanuts"},
	}, 226)

	assert.NotEmpty(t, items)
	for _, item := range items {
		assert.NotContains(t, item.Name, "peanut")
		assert.False(t, item.Consumed)
	}
}

func TestSuggestionResolver_TimeoutFallsBack(t *testing.T) {
	searcher := new(mockRecipeSearcher)
	searcher.On("Search", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	r := NewSuggestionResolver(searcher, 20*time.Millisecond, 2, logging.Discard())
	items := r.Resolve(context.Background(), models.BucketBreakfast, models.DietaryPreferences{}, 565)

	assert.Len(t, items, 2)
}

func TestSuggestionResolver_NilSearcherUsesFallback(t *testing.T) {
	r := NewSuggestionResolver(nil, 0, 0, logging.Discard())
	items := r.Resolve(context.Background(), models.BucketLunch, models.DietaryPreferences{}, 791)
	assert.Len(t, items, DefaultSuggestionCount)
}

func TestFallbackSuggestions_Filters(t *testing.T) {
	vegan := fallbackSuggestions(models.BucketDinner, models.DietaryPreferences{DietType: "vegan"}, 10)
	assert.NotEmpty(t, vegan)
	for _, item := range vegan {
		assert.NotContains(t, item.Name, "salmon")
		assert.NotContains(t, item.Name, "Turkey")
	}

	noNuts := fallbackSuggestions(models.BucketSnacks, models.DietaryPreferences{Allergies: []string{"nuts"}}, 10)
	for _, item := range noNuts {
		assert.NotEqual(t, "fallback-snack-apple-pb", item.ID)
		assert.NotEqual(t, "fallback-snack-almonds", item.ID)
	}

	disliked := fallbackSuggestions(models.BucketLunch, models.DietaryPreferences{DislikedFoods: []string{"Lentils"}}, 10)
	for _, item := range disliked {
		assert.NotEqual(t, "fallback-lunch-lentils", item.ID)
	}
}
