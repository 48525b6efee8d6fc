package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MealSlot is one of the five fixed meal times of a DailyPlan.
type MealSlot int

const (
	SlotBreakfast MealSlot = iota
	SlotMidMorning
	SlotLunch
	SlotSnack
	SlotDinner
)

// MealSlots lists the slots in the order they are eaten.
var MealSlots = []MealSlot{SlotBreakfast, SlotMidMorning, SlotLunch, SlotSnack, SlotDinner}

var mealSlotInfo = [...]struct {
	key, name, time string
}{
	SlotBreakfast:  {"breakfast", "Desayuno", "08:00"},
	SlotMidMorning: {"mid_morning", "Media Mañana", "10:30"},
	SlotLunch:      {"lunch", "Almuerzo", "13:00"},
	SlotSnack:      {"snack", "Merienda", "16:30"},
	SlotDinner:     {"dinner", "Cena", "20:00"},
}

func (s MealSlot) valid() bool {
	return s >= SlotBreakfast && s <= SlotDinner
}

// Key is the stable identifier used for meal ids and JSON.
func (s MealSlot) Key() string {
	if !s.valid() {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return mealSlotInfo[s].key
}

func (s MealSlot) String() string {
	return s.Key()
}

// DisplayName is the label shown on the dashboard.
func (s MealSlot) DisplayName() string {
	if !s.valid() {
		return ""
	}
	return mealSlotInfo[s].name
}

// ScheduledTime is the default time of day for the slot, "HH:MM".
func (s MealSlot) ScheduledTime() string {
	if !s.valid() {
		return ""
	}
	return mealSlotInfo[s].time
}

// ParseMealSlot resolves a slot key.
func ParseMealSlot(key string) (MealSlot, bool) {
	for _, s := range MealSlots {
		if mealSlotInfo[s].key == key {
			return s, true
		}
	}
	return 0, false
}

func (s MealSlot) MarshalJSON() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("invalid meal slot %d", int(s))
	}
	return json.Marshal(s.Key())
}

func (s *MealSlot) UnmarshalJSON(data []byte) error {
	var key string
	if err := json.Unmarshal(data, &key); err != nil {
		return err
	}
	slot, ok := ParseMealSlot(key)
	if !ok {
		return fmt.Errorf("unknown meal slot %q", key)
	}
	*s = slot
	return nil
}

// Meal is one slot of a DailyPlan.
type Meal struct {
	ID             string     `json:"id"`
	Slot           MealSlot   `json:"slot"`
	Name           string     `json:"name"`
	Time           string     `json:"time"`
	TargetCalories int        `json:"target_calories"`
	Foods          []FoodItem `json:"foods"`
	Completed      bool       `json:"completed"`
}

// RefreshCompleted recomputes Completed: a meal is completed once it has
// foods and every one of them is consumed.
func (m *Meal) RefreshCompleted() {
	if len(m.Foods) == 0 {
		m.Completed = false
		return
	}
	for _, f := range m.Foods {
		if !f.Consumed {
			m.Completed = false
			return
		}
	}
	m.Completed = true
}

const (
	HydrationTarget = 8
	HydrationMax    = 10
	DefaultEnergy   = 8
)

type Hydration struct {
	Glasses int `json:"glasses"`
	Target  int `json:"target"`
}

type Metrics struct {
	WeightKG    *float64 `json:"weight_kg,omitempty"`
	EnergyLevel int      `json:"energy_level"`
	SleepHours  float64  `json:"sleep_hours"`
	Steps       int      `json:"steps"`
}

// DailyPlan is one calendar day of tracking for a user.
type DailyPlan struct {
	UserID          uuid.UUID `json:"user_id"`
	Date            string    `json:"date"`
	Meals           []Meal    `json:"meals"`
	Hydration       Hydration `json:"hydration"`
	Metrics         Metrics   `json:"metrics"`
	NutritionPlanID uuid.UUID `json:"nutrition_plan_id"`
	Targets         Macros    `json:"targets"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Meal returns the meal with the given id.
func (d *DailyPlan) Meal(id string) (*Meal, bool) {
	for i := range d.Meals {
		if d.Meals[i].ID == id {
			return &d.Meals[i], true
		}
	}
	return nil, false
}
