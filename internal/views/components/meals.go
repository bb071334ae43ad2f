package components

import (
	"strconv"

	"github.com/a-h/templ"

	"wgze/internal/store"
)

// MealListID is the element id swapped by meal deletions.
const MealListID = "meal-list"

// MealFeedbackID receives meal alerts.
const MealFeedbackID = "meal-feedback"

func mealID(entry store.MealEntry) string {
	return strconv.FormatUint(uint64(entry.ID), 10)
}

func mealPath(entry store.MealEntry) string {
	return "/meals/" + mealID(entry)
}

// MealLogged confirms a logged meal.
func MealLogged(dishName string, date string, dishCreated bool) templ.Component {
	message := "Logged " + dishName + " for " + date + "."
	if dishCreated {
		message += " " + dishName + " was added to your dishes."
	}
	return Alert(AlertSuccess, message)
}
