package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"wgze/models"
)

// Meals persists the meal log.
type Meals struct {
	db *gorm.DB
}

// NewMeals returns a meal store backed by db.
func NewMeals(db *gorm.DB) *Meals {
	return &Meals{db: db}
}

// MealEntry is a logged meal joined with the name of its dish.
type MealEntry struct {
	ID       uint
	DishID   uint
	DishName string
	Date     time.Time
	Notes    *string
}

// NotesText returns the notes or an empty string when none are recorded.
func (m MealEntry) NotesText() string {
	if m.Notes == nil {
		return ""
	}
	return *m.Notes
}

// Create logs a meal for an existing dish.
func (s *Meals) Create(ctx context.Context, dishID uint, date time.Time, notes *string) (models.Meal, error) {
	meal := models.Meal{
		DishID: dishID,
		Date:   models.FormatDate(date),
		Notes:  notes,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Dish{}).Where("id = ?", dishID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return tx.Create(&meal).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.Meal{}, ErrNotFound
		}
		return models.Meal{}, storageError("create meal", err)
	}
	return meal, nil
}

// Delete removes a single meal.
func (s *Meals) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Meal{}, id)
	if result.Error != nil {
		return storageError("delete meal", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the full meal history, newest date first. Meals sharing a date
// keep the order in which they were logged.
func (s *Meals) List(ctx context.Context) ([]MealEntry, error) {
	return s.ListRange(ctx, nil, nil, 0)
}

// ListRange returns meals between from and to, both inclusive and optional.
// A positive limit caps the number of entries.
func (s *Meals) ListRange(ctx context.Context, from, to *time.Time, limit int) ([]MealEntry, error) {
	type mealRow struct {
		ID       uint
		DishID   uint `gorm:"column:food_id"`
		DishName string
		Date     string
		Notes    *string
	}

	query := s.db.WithContext(ctx).
		Table("meals").
		Select("meals.id, meals.food_id, foods.name AS dish_name, meals.date, meals.notes").
		Joins("JOIN foods ON foods.id = meals.food_id")
	if from != nil {
		query = query.Where("meals.date >= ?", models.FormatDate(*from))
	}
	if to != nil {
		query = query.Where("meals.date <= ?", models.FormatDate(*to))
	}
	query = query.Order("meals.date desc, meals.id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []mealRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, storageError("list meals", err)
	}

	entries := make([]MealEntry, 0, len(rows))
	for _, row := range rows {
		date, err := models.ParseDate(row.Date)
		if err != nil {
			return nil, storageError("parse meal date", err)
		}
		entries = append(entries, MealEntry{
			ID:       row.ID,
			DishID:   row.DishID,
			DishName: row.DishName,
			Date:     date,
			Notes:    row.Notes,
		})
	}
	return entries, nil
}

// Logged reports whether a meal for the dish already exists on date.
func (s *Meals) Logged(ctx context.Context, dishID uint, date time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Meal{}).
		Where("food_id = ? AND date = ?", dishID, models.FormatDate(date)).
		Count(&count).Error
	if err != nil {
		return false, storageError("check meal", err)
	}
	return count > 0, nil
}
