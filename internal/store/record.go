package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"wgze/models"
)

// DishCatalog is the part of the dish store needed to resolve meals by name.
type DishCatalog interface {
	FindByName(ctx context.Context, name string) (models.Dish, error)
	Create(ctx context.Context, name string, notes *string) (models.Dish, error)
}

// MealLog is the part of the meal store needed to log a meal.
type MealLog interface {
	Create(ctx context.Context, dishID uint, date time.Time, notes *string) (models.Meal, error)
}

// RecordResult describes the outcome of RecordMeal.
type RecordResult struct {
	Meal        models.Meal
	Dish        models.Dish
	DishCreated bool
}

// RecordMeal logs a meal for the dish called dishName, creating the dish with no
// notes when the catalog does not know it yet.
func RecordMeal(ctx context.Context, dishes DishCatalog, meals MealLog, dishName string, date time.Time, notes *string) (RecordResult, error) {
	name := strings.TrimSpace(dishName)
	if name == "" {
		return RecordResult{}, &ValidationError{Field: "food_name", Message: "dish name is required"}
	}
	if date.IsZero() {
		return RecordResult{}, &ValidationError{Field: "date", Message: "date is required"}
	}

	var result RecordResult
	dish, err := dishes.FindByName(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		dish, err = dishes.Create(ctx, name, nil)
		if errors.Is(err, ErrConflict) {
			// lost a race against a concurrent create of the same name
			dish, err = dishes.FindByName(ctx, name)
		} else if err == nil {
			result.DishCreated = true
		}
		if err != nil {
			return RecordResult{}, err
		}
	default:
		return RecordResult{}, err
	}

	meal, err := meals.Create(ctx, dish.ID, date, notes)
	if err != nil {
		return RecordResult{}, err
	}

	result.Meal = meal
	result.Dish = dish
	return result, nil
}
