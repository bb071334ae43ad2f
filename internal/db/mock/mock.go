package mock

import (
	"context"
	"time"

	"gorm.io/gorm"

	"wgze/internal/db"
	applog "wgze/internal/log"
	"wgze/internal/store"
	"wgze/models"
)

var nowFunc = time.Now

// New returns an in-memory sqlite database seeded with a small household catalog.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := db.OpenSQLite("file:wgze-mock?mode=memory&cache=shared")
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

type seedMeal struct {
	dish    string
	daysAgo int
	notes   string
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	dishes := store.NewDishes(database)
	meals := store.NewMeals(database)

	if existing, err := dishes.Names(ctx); err != nil {
		return err
	} else if len(existing) > 0 {
		applog.Debug(ctx, "mock database already seeded", "dishes", len(existing))
		return nil
	}

	catalog := []struct {
		name  string
		notes string
	}{
		{"Spaghetti Bolognese", "Slow-cooked sauce, at least two hours."},
		{"Spargel mit Sauce Hollandaise", "Seasonal: only during asparagus season (April to June)."},
		{"Linsensuppe", "Vegetarian. Good for cold days."},
		{"Kürbisrisotto", "Seasonal: autumn."},
		{"Pfannkuchen", ""},
	}
	for _, entry := range catalog {
		if _, err := dishes.Create(ctx, entry.name, models.OptionalText(entry.notes)); err != nil {
			return err
		}
	}

	today := nowFunc()
	history := []seedMeal{
		{dish: "Spaghetti Bolognese", daysAgo: 0, notes: "Leftovers for tomorrow."},
		{dish: "Spaghetti Bolognese", daysAgo: 21},
		{dish: "Linsensuppe", daysAgo: 3},
		{dish: "Kürbisrisotto", daysAgo: 45, notes: "Used Hokkaido."},
		{dish: "Pfannkuchen", daysAgo: 1},
	}
	for _, entry := range history {
		date := today.AddDate(0, 0, -entry.daysAgo)
		if _, err := store.RecordMeal(ctx, dishes, meals, entry.dish, date, models.OptionalText(entry.notes)); err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
