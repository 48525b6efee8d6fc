package nutrition

import (
	"math"

	"github.com/pageza/nutriplan/backend/internal/models"
)

// bucketWeights is the share of daily calories given to each bucket.
var bucketWeights = map[models.Bucket]float64{
	models.BucketBreakfast: 0.25,
	models.BucketLunch:     0.35,
	models.BucketDinner:    0.30,
	models.BucketSnacks:    0.10,
}

// AllocateMeals splits target calories across the four buckets. Each budget
// is rounded independently; calories <= 0 yields zero for every bucket.
func AllocateMeals(calories int) map[models.Bucket]int {
	out := make(map[models.Bucket]int, len(models.Buckets))
	for _, b := range models.Buckets {
		if calories <= 0 {
			out[b] = 0
			continue
		}
		out[b] = int(math.Round(float64(calories) * bucketWeights[b]))
	}
	return out
}

// SplitSnacks divides the snacks budget between the mid-morning and afternoon
// slots. The two halves always add back up to budget.
func SplitSnacks(budget int) (midMorning, afternoon int) {
	if budget <= 0 {
		return 0, 0
	}
	midMorning = int(math.Round(float64(budget) / 2))
	return midMorning, budget - midMorning
}
