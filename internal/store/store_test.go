package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"wgze/internal/db"
	"wgze/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	database, err := db.OpenSQLite("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return database
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := models.ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func mustCreateDish(t *testing.T, dishes *Dishes, name string) models.Dish {
	t.Helper()
	dish, err := dishes.Create(context.Background(), name, nil)
	if err != nil {
		t.Fatalf("create dish %q: %v", name, err)
	}
	return dish
}

func mustLogMeal(t *testing.T, meals *Meals, dishID uint, date string) models.Meal {
	t.Helper()
	meal, err := meals.Create(context.Background(), dishID, mustDate(t, date), nil)
	if err != nil {
		t.Fatalf("log meal: %v", err)
	}
	return meal
}
