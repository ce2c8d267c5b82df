package dayof

import "fmt"

// MealSlots is the number of meal counters on a sign-in.
const MealSlots = 9

// SignIn records a registrant's badge at the venue and the meals they
// have collected.
type SignIn struct {
	ID        uint   `gorm:"primaryKey;column:id" json:"-"`
	BadgeData string `gorm:"not null;size:128;uniqueIndex;column:badge_data" json:"badge_data"`
	SignedOut bool   `gorm:"not null;default:false;column:signed_out" json:"signed_out"`
	Meal1     int    `gorm:"not null;default:0;column:meal_1" json:"meal_1"`
	Meal2     int    `gorm:"not null;default:0;column:meal_2" json:"meal_2"`
	Meal3     int    `gorm:"not null;default:0;column:meal_3" json:"meal_3"`
	Meal4     int    `gorm:"not null;default:0;column:meal_4" json:"meal_4"`
	Meal5     int    `gorm:"not null;default:0;column:meal_5" json:"meal_5"`
	Meal6     int    `gorm:"not null;default:0;column:meal_6" json:"meal_6"`
	Meal7     int    `gorm:"not null;default:0;column:meal_7" json:"meal_7"`
	Meal8     int    `gorm:"not null;default:0;column:meal_8" json:"meal_8"`
	Meal9     int    `gorm:"not null;default:0;column:meal_9" json:"meal_9"`
}

func (SignIn) TableName() string { return "sign_in" }

// ValidMealSlot reports whether n names one of the meal counters.
func ValidMealSlot(n int) bool { return n >= 1 && n <= MealSlots }

// MealColumn returns the column holding the counter for slot n.
// Callers must check ValidMealSlot first.
func MealColumn(n int) string { return fmt.Sprintf("meal_%d", n) }

// Servings returns the counter for slot n, or 0 for an invalid slot.
func (s SignIn) Servings(n int) int {
	switch n {
	case 1:
		return s.Meal1
	case 2:
		return s.Meal2
	case 3:
		return s.Meal3
	case 4:
		return s.Meal4
	case 5:
		return s.Meal5
	case 6:
		return s.Meal6
	case 7:
		return s.Meal7
	case 8:
		return s.Meal8
	case 9:
		return s.Meal9
	}
	return 0
}

// Counts is the number of current registrants of each kind holding a badge.
type Counts struct {
	Attendee  int64 `json:"attendee"`
	Mentor    int64 `json:"mentor"`
	Guest     int64 `json:"guest"`
	Chaperone int64 `json:"chaperone"`
}
