package nutrition

import (
	"math"
	"testing"

	"github.com/pageza/nutriplan/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAllocateMeals_Reference(t *testing.T) {
	got := AllocateMeals(2259)

	assert.Equal(t, 565, got[models.BucketBreakfast])
	assert.Equal(t, 791, got[models.BucketLunch])
	assert.Equal(t, 678, got[models.BucketDinner])
	assert.Equal(t, 226, got[models.BucketSnacks])
}

func TestAllocateMeals_NonPositiveCalories(t *testing.T) {
	for _, calories := range []int{0, -100} {
		got := AllocateMeals(calories)
		assert.Len(t, got, 4)
		for _, b := range models.Buckets {
			assert.Zero(t, got[b])
		}
	}
}

func TestAllocateMeals_SumWithinTolerance(t *testing.T) {
	for calories := 1; calories <= 6000; calories++ {
		sum := 0
		for _, v := range AllocateMeals(calories) {
			sum += v
		}
		assert.LessOrEqual(t, math.Abs(float64(sum-calories)), 5.0, "calories=%d", calories)
	}
}

func TestSplitSnacks(t *testing.T) {
	mid, afternoon := SplitSnacks(226)
	assert.Equal(t, 113, mid)
	assert.Equal(t, 113, afternoon)

	mid, afternoon = SplitSnacks(225)
	assert.Equal(t, 225, mid+afternoon)

	mid, afternoon = SplitSnacks(0)
	assert.Zero(t, mid)
	assert.Zero(t, afternoon)
}
