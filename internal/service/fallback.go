package service

import (
	"strings"

	"github.com/pageza/nutriplan/backend/internal/models"
)

type fallbackFood struct {
	item        models.FoodItem
	ingredients []string
	vegetarian  bool
	vegan       bool
}

var fallbackCatalogue = map[models.Bucket][]fallbackFood{
	models.BucketBreakfast: {
		{item: models.FoodItem{ID: "fallback-breakfast-oats", Name: "Oatmeal with banana and cinnamon", Calories: 350, ProteinG: 10, CarbsG: 62, FatG: 7}, ingredients: []string{"oats", "banana", "cinnamon", "milk"}, vegetarian: true},
		{item: models.FoodItem{ID: "fallback-breakfast-eggs", Name: "Scrambled eggs on whole wheat toast", Calories: 380, ProteinG: 22, CarbsG: 30, FatG: 18}, ingredients: []string{"eggs", "wheat", "butter"}, vegetarian: true},
		{item: models.FoodItem{ID: "fallback-breakfast-tofu", Name: "Tofu scramble with spinach", Calories: 300, ProteinG: 21, CarbsG: 12, FatG: 18}, ingredients: []string{"tofu", "soy", "spinach", "olive oil"}, vegetarian: true, vegan: true},
		{item: models.FoodItem{ID: "fallback-breakfast-yogurt", Name: "Greek yogurt with berries and walnuts", Calories: 320, ProteinG: 20, CarbsG: 28, FatG: 14}, ingredients: []string{"yogurt", "milk", "berries", "walnuts", "tree nuts"}, vegetarian: true},
	},
	models.BucketLunch: {
		{item: models.FoodItem{ID: "fallback-lunch-chicken-rice", Name: "Grilled chicken with brown rice and vegetables", Calories: 620, ProteinG: 45, CarbsG: 65, FatG: 16}, ingredients: []string{"chicken", "rice", "broccoli", "olive oil"}},
		{item: models.FoodItem{ID: "fallback-lunch-lentils", Name: "Lentil stew with carrots", Calories: 540, ProteinG: 28, CarbsG: 80, FatG: 9}, ingredients: []string{"lentils", "carrot", "onion", "olive oil"}, vegetarian: true, vegan: true},
		{item: models.FoodItem{ID: "fallback-lunch-tuna-salad", Name: "Tuna salad with chickpeas", Calories: 500, ProteinG: 38, CarbsG: 40, FatG: 18}, ingredients: []string{"tuna", "fish", "chickpeas", "olive oil"}},
		{item: models.FoodItem{ID: "fallback-lunch-quinoa-bowl", Name: "Quinoa bowl with black beans and avocado", Calories: 580, ProteinG: 22, CarbsG: 75, FatG: 20}, ingredients: []string{"quinoa", "black beans", "avocado", "corn"}, vegetarian: true, vegan: true},
	},
	models.BucketDinner: {
		{item: models.FoodItem{ID: "fallback-dinner-salmon", Name: "Baked salmon with sweet potato", Calories: 560, ProteinG: 38, CarbsG: 45, FatG: 22}, ingredients: []string{"salmon", "fish", "sweet potato"}},
		{item: models.FoodItem{ID: "fallback-dinner-turkey", Name: "Turkey meatballs with zucchini noodles", Calories: 480, ProteinG: 40, CarbsG: 20, FatG: 24}, ingredients: []string{"turkey", "eggs", "zucchini", "tomato"}},
		{item: models.FoodItem{ID: "fallback-dinner-veggie-stirfry", Name: "Vegetable stir fry with tofu and rice", Calories: 520, ProteinG: 24, CarbsG: 70, FatG: 15}, ingredients: []string{"tofu", "soy", "rice", "peppers"}, vegetarian: true, vegan: true},
		{item: models.FoodItem{ID: "fallback-dinner-pasta", Name: "Whole wheat pasta with tomato and basil", Calories: 540, ProteinG: 18, CarbsG: 92, FatG: 10}, ingredients: []string{"pasta", "wheat", "gluten", "tomato", "basil"}, vegetarian: true, vegan: true},
	},
	models.BucketSnacks: {
		{item: models.FoodItem{ID: "fallback-snack-apple-pb", Name: "Apple with peanut butter", Calories: 200, ProteinG: 5, CarbsG: 25, FatG: 9}, ingredients: []string{"apple", "peanuts", "peanut butter"}, vegetarian: true, vegan: true},
		{item: models.FoodItem{ID: "fallback-snack-hummus", Name: "Hummus with carrot sticks", Calories: 180, ProteinG: 6, CarbsG: 20, FatG: 8}, ingredients: []string{"chickpeas", "sesame", "carrot"}, vegetarian: true, vegan: true},
		{item: models.FoodItem{ID: "fallback-snack-cottage", Name: "Cottage cheese with pineapple", Calories: 170, ProteinG: 14, CarbsG: 18, FatG: 4}, ingredients: []string{"cottage cheese", "milk", "pineapple"}, vegetarian: true},
		{item: models.FoodItem{ID: "fallback-snack-almonds", Name: "Handful of almonds", Calories: 160, ProteinG: 6, CarbsG: 6, FatG: 14}, ingredients: []string{"almonds", "tree nuts"}, vegetarian: true, vegan: true},
	},
}

// fallbackSuggestions returns up to limit catalogue items for bucket that do
// not contain an allergen or disliked food and that fit a vegetarian or vegan diet.
func fallbackSuggestions(bucket models.Bucket, prefs models.DietaryPreferences, limit int) []models.FoodItem {
	avoid := make([]string, 0, len(prefs.Allergies)+len(prefs.DislikedFoods))
	for _, a := range append(nonEmpty(prefs.Allergies), nonEmpty(prefs.DislikedFoods)...) {
		avoid = append(avoid, strings.ToLower(a))
	}
	diet := MapDiet(prefs.DietType)

	items := make([]models.FoodItem, 0, limit)
	for _, f := range fallbackCatalogue[bucket] {
		if len(items) == limit {
			break
		}
		if diet == "vegan" && !f.vegan {
			continue
		}
		if diet == "vegetarian" && !f.vegetarian {
			continue
		}
		if f.contains(avoid) {
			continue
		}
		items = append(items, f.item)
	}
	return items
}

func (f fallbackFood) contains(avoid []string) bool {
	name := strings.ToLower(f.item.Name)
	for _, a := range avoid {
		if strings.Contains(name, a) {
			return true
		}
		for _, ing := range f.ingredients {
			if strings.Contains(ing, a) || strings.Contains(a, ing) {
				return true
			}
		}
	}
	return false
}
