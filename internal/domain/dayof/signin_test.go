package dayof

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMealSlots(t *testing.T) {
	assert.False(t, ValidMealSlot(0))
	assert.True(t, ValidMealSlot(1))
	assert.True(t, ValidMealSlot(9))
	assert.False(t, ValidMealSlot(10))
	assert.Equal(t, "meal_4", MealColumn(4))

	s := SignIn{Meal4: 2, Meal9: 1}
	assert.Equal(t, 2, s.Servings(4))
	assert.Equal(t, 1, s.Servings(9))
	assert.Equal(t, 0, s.Servings(12))
}
