package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"wgze/internal/staleness"
	"wgze/models"
)

// Dishes persists the dish catalog.
type Dishes struct {
	db *gorm.DB
}

// NewDishes returns a dish store backed by db.
func NewDishes(db *gorm.DB) *Dishes {
	return &Dishes{db: db}
}

// DishWithStaleness is a dish annotated with its most recent meal.
type DishWithStaleness struct {
	models.Dish
	LastEaten          *time.Time
	DaysSinceLastEaten int
	Bucket             staleness.Bucket
}

func validName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", &ValidationError{Field: "name", Message: "dish name is required"}
	}
	return trimmed, nil
}

// Create inserts a new dish. The unique index on the folded name rejects duplicates.
func (s *Dishes) Create(ctx context.Context, name string, notes *string) (models.Dish, error) {
	trimmed, err := validName(name)
	if err != nil {
		return models.Dish{}, err
	}

	dish := models.Dish{
		Name:    trimmed,
		NameKey: models.NameKey(trimmed),
		Notes:   notes,
	}
	if err := s.db.WithContext(ctx).Create(&dish).Error; err != nil {
		if isUniqueViolation(err) {
			return models.Dish{}, ErrConflict
		}
		return models.Dish{}, storageError("create dish", err)
	}
	return dish, nil
}

// Update renames a dish and replaces its notes.
func (s *Dishes) Update(ctx context.Context, id uint, name string, notes *string) error {
	trimmed, err := validName(name)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Dish
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Model(&existing).Updates(map[string]any{
			"name":     trimmed,
			"name_key": models.NameKey(trimmed),
			"notes":    notes,
		}).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrConflict
	default:
		return storageError("update dish", err)
	}
}

// Delete removes a dish together with every meal that references it.
func (s *Dishes) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("food_id = ?", id).Delete(&models.Meal{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Dish{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return storageError("delete dish", err)
	}
	return err
}

// Exists reports whether a dish with the given name exists, ignoring case.
func (s *Dishes) Exists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Dish{}).Where("name_key = ?", models.NameKey(name)).Count(&count).Error
	if err != nil {
		return false, storageError("check dish", err)
	}
	return count > 0, nil
}

// Get loads a dish by id.
func (s *Dishes) Get(ctx context.Context, id uint) (models.Dish, error) {
	var dish models.Dish
	if err := s.db.WithContext(ctx).First(&dish, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Dish{}, ErrNotFound
		}
		return models.Dish{}, storageError("load dish", err)
	}
	return dish, nil
}

// FindByName loads a dish by name, ignoring case.
func (s *Dishes) FindByName(ctx context.Context, name string) (models.Dish, error) {
	var dish models.Dish
	err := s.db.WithContext(ctx).Where("name_key = ?", models.NameKey(name)).First(&dish).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Dish{}, ErrNotFound
		}
		return models.Dish{}, storageError("find dish", err)
	}
	return dish, nil
}

// List returns every dish ordered by name, ignoring case.
func (s *Dishes) List(ctx context.Context) ([]models.Dish, error) {
	var dishes []models.Dish
	if err := s.db.WithContext(ctx).Order("name_key asc, id asc").Find(&dishes).Error; err != nil {
		return nil, storageError("list dishes", err)
	}
	return dishes, nil
}

// Names returns the dish names in catalog order.
func (s *Dishes) Names(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&models.Dish{}).Order("name_key asc, id asc").Pluck("name", &names).Error; err != nil {
		return nil, storageError("list dish names", err)
	}
	return names, nil
}

type stalenessRow struct {
	ID        uint
	Name      string
	NameKey   string
	Notes     *string
	LastEaten *string
}

// ListWithStaleness returns every dish with the date of its latest meal and the
// number of days since then, relative to today.
func (s *Dishes) ListWithStaleness(ctx context.Context, today time.Time) ([]DishWithStaleness, error) {
	var rows []stalenessRow
	err := s.db.WithContext(ctx).
		Table("foods").
		Select("foods.id, foods.name, foods.name_key, foods.notes, MAX(meals.date) AS last_eaten").
		Joins("LEFT JOIN meals ON meals.food_id = foods.id").
		Group("foods.id, foods.name, foods.name_key, foods.notes").
		Order("foods.name_key asc, foods.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, storageError("list dishes with staleness", err)
	}

	result := make([]DishWithStaleness, 0, len(rows))
	for _, row := range rows {
		var last *time.Time
		if row.LastEaten != nil && strings.TrimSpace(*row.LastEaten) != "" {
			parsed, err := models.ParseDate(*row.LastEaten)
			if err != nil {
				return nil, storageError("parse meal date", err)
			}
			last = &parsed
		}
		days := staleness.DaysSince(last, today)
		result = append(result, DishWithStaleness{
			Dish: models.Dish{
				ID:      row.ID,
				Name:    row.Name,
				NameKey: row.NameKey,
				Notes:   row.Notes,
			},
			LastEaten:          last,
			DaysSinceLastEaten: days,
			Bucket:             bucketOf(last, days),
		})
	}
	return result, nil
}

// bucketOf keys "never" off the missing date rather than the -1 sentinel, which a
// meal dated tomorrow would also produce.
func bucketOf(last *time.Time, days int) staleness.Bucket {
	if last == nil {
		return staleness.BucketNever
	}
	if days < 0 {
		return staleness.BucketToday
	}
	return staleness.BucketFor(days)
}
