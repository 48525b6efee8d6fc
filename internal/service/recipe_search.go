package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pageza/nutriplan/backend/internal/models"
)

// RecipeQuery describes one recipe search for a meal bucket.
type RecipeQuery struct {
	MealType     string
	Diet         string
	Exclude      []string
	Intolerances []string
	MinCalories  int
	MaxCalories  int
	Number       int
}

// RecipeSearcher finds recipes matching a query.
type RecipeSearcher interface {
	Search(ctx context.Context, q RecipeQuery) ([]models.FoodItem, error)
}

// RecipeSearchClient talks to a Spoonacular-compatible complexSearch endpoint.
type RecipeSearchClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ RecipeSearcher = (*RecipeSearchClient)(nil)

// NewRecipeSearchClient creates a client for baseURL. Timeouts are applied per
// call through the context.
func NewRecipeSearchClient(baseURL, apiKey string, httpClient *http.Client) *RecipeSearchClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &RecipeSearchClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type complexSearchResponse struct {
	Results []struct {
		ID             int    `json:"id"`
		Title          string `json:"title"`
		Image          string `json:"image"`
		ReadyInMinutes int    `json:"readyInMinutes"`
		Servings       int    `json:"servings"`
		Nutrition      struct {
			Nutrients []struct {
				Name   string  `json:"name"`
				Amount float64 `json:"amount"`
				Unit   string  `json:"unit"`
			} `json:"nutrients"`
		} `json:"nutrition"`
	} `json:"results"`
}

// Search runs a complexSearch request with nutrition data included.
func (c *RecipeSearchClient) Search(ctx context.Context, q RecipeQuery) ([]models.FoodItem, error) {
	params := url.Values{}
	params.Set("addRecipeNutrition", "true")
	if q.MealType != "" {
		params.Set("type", q.MealType)
	}
	if q.Diet != "" {
		params.Set("diet", q.Diet)
	}
	if len(q.Exclude) > 0 {
		params.Set("excludeIngredients", strings.Join(q.Exclude, ","))
	}
	if len(q.Intolerances) > 0 {
		params.Set("intolerances", strings.Join(q.Intolerances, ","))
	}
	if q.MinCalories > 0 || q.MaxCalories > 0 {
		params.Set("minCalories", strconv.Itoa(q.MinCalories))
		params.Set("maxCalories", strconv.Itoa(q.MaxCalories))
	}
	if q.Number > 0 {
		params.Set("number", strconv.Itoa(q.Number))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/recipes/complexSearch?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("recipe search returned status %d: %s", resp.StatusCode, string(body))
	}

	var result complexSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	items := make([]models.FoodItem, 0, len(result.Results))
	for _, r := range result.Results {
		nutrients := make(map[string]float64, len(r.Nutrition.Nutrients))
		for _, n := range r.Nutrition.Nutrients {
			nutrients[strings.ToLower(n.Name)] = n.Amount
		}
		items = append(items, models.FoodItem{
			ID:             strconv.Itoa(r.ID),
			Name:           r.Title,
			Calories:       int(math.Round(nutrients["calories"])),
			ProteinG:       nutrients["protein"],
			CarbsG:         nutrients["carbohydrates"],
			FatG:           nutrients["fat"],
			ImageURL:       r.Image,
			ReadyInMinutes: r.ReadyInMinutes,
			Servings:       r.Servings,
		})
	}
	return items, nil
}
