package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"wgze/internal/staleness"
	"wgze/models"
)

func TestDishesCreateTrimsAndKeepsNotes(t *testing.T) {
	dishes := NewDishes(newTestDB(t))
	ctx := context.Background()

	dish, err := dishes.Create(ctx, "  Pasta  ", models.OptionalText("with basil"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if dish.ID == 0 {
		t.Fatal("expected store-assigned id")
	}
	if dish.Name != "Pasta" {
		t.Fatalf("Name = %q, want %q", dish.Name, "Pasta")
	}

	loaded, err := dishes.Get(ctx, dish.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if loaded.NotesText() != "with basil" {
		t.Fatalf("notes = %q", loaded.NotesText())
	}
}

func TestDishesCreateRejectsEmptyName(t *testing.T) {
	dishes := NewDishes(newTestDB(t))

	_, err := dishes.Create(context.Background(), "   ", nil)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if validation.Field != "name" {
		t.Fatalf("Field = %q, want name", validation.Field)
	}
}

func TestDishesCreateRejectsCaseInsensitiveDuplicate(t *testing.T) {
	dishes := NewDishes(newTestDB(t))
	mustCreateDish(t, dishes, "Pasta")

	if _, err := dishes.Create(context.Background(), "pasta", nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	list, err := dishes.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 dish, got %d", len(list))
	}
}

func TestDishesUpdate(t *testing.T) {
	dishes := NewDishes(newTestDB(t))
	ctx := context.Background()
	pasta := mustCreateDish(t, dishes, "Pasta")
	soup := mustCreateDish(t, dishes, "Soup")

	if err := dishes.Update(ctx, pasta.ID, "Pasta al forno", models.OptionalText("oven")); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	loaded, err := dishes.Get(ctx, pasta.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if loaded.Name != "Pasta al forno" || loaded.NotesText() != "oven" {
		t.Fatalf("unexpected dish after update: %+v", loaded)
	}

	if err := dishes.Update(ctx, soup.ID, "PASTA AL FORNO", nil); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := dishes.Update(ctx, 9999, "Anything", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var validation *ValidationError
	if err := dishes.Update(ctx, soup.ID, "", nil); !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDishesUpdateClearsNotes(t *testing.T) {
	dishes := NewDishes(newTestDB(t))
	ctx := context.Background()
	dish, err := dishes.Create(ctx, "Curry", models.OptionalText("spicy"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := dishes.Update(ctx, dish.ID, "Curry", nil); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	loaded, err := dishes.Get(ctx, dish.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if loaded.Notes != nil {
		t.Fatalf("expected notes to be cleared, got %q", *loaded.Notes)
	}
}

func TestDishesDeleteCascadesToMeals(t *testing.T) {
	database := newTestDB(t)
	dishes := NewDishes(database)
	meals := NewMeals(database)
	ctx := context.Background()

	pasta := mustCreateDish(t, dishes, "Pasta")
	soup := mustCreateDish(t, dishes, "Soup")
	mustLogMeal(t, meals, pasta.ID, "2024-01-01")
	mustLogMeal(t, meals, pasta.ID, "2024-01-05")
	mustLogMeal(t, meals, soup.ID, "2024-01-03")

	if err := dishes.Delete(ctx, pasta.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	entries, err := meals.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].DishName != "Soup" {
		t.Fatalf("expected only the soup meal to remain, got %+v", entries)
	}
	if _, err := dishes.Get(ctx, pasta.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted dish to be gone, got %v", err)
	}
	if err := dishes.Delete(ctx, pasta.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDishesListAndNamesOrderIgnoringCase(t *testing.T) {
	dishes := NewDishes(newTestDB(t))
	for _, name := range []string{"curry", "Apfelstrudel", "Bratkartoffeln"} {
		mustCreateDish(t, dishes, name)
	}

	names, err := dishes.Names(context.Background())
	if err != nil {
		t.Fatalf("Names() error = %v", err)
	}
	want := []string{"Apfelstrudel", "Bratkartoffeln", "curry"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestDishesExistsAndFindByName(t *testing.T) {
	dishes := NewDishes(newTestDB(t))
	ctx := context.Background()
	created := mustCreateDish(t, dishes, "Linsensuppe")

	exists, err := dishes.Exists(ctx, "LINSENSUPPE")
	if err != nil || !exists {
		t.Fatalf("Exists() = %v, %v; want true", exists, err)
	}
	exists, err = dishes.Exists(ctx, "Gulasch")
	if err != nil || exists {
		t.Fatalf("Exists() = %v, %v; want false", exists, err)
	}

	found, err := dishes.FindByName(ctx, " linsensuppe ")
	if err != nil {
		t.Fatalf("FindByName() error = %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("FindByName() id = %d, want %d", found.ID, created.ID)
	}
	if _, err := dishes.FindByName(ctx, "Gulasch"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDishesListWithStaleness(t *testing.T) {
	database := newTestDB(t)
	dishes := NewDishes(database)
	meals := NewMeals(database)
	today := time.Date(2024, time.March, 10, 18, 30, 0, 0, time.UTC)

	fresh := mustCreateDish(t, dishes, "Fresh")
	mustLogMeal(t, meals, fresh.ID, "2024-03-01")
	mustLogMeal(t, meals, fresh.ID, "2024-03-10")
	yesterday := mustCreateDish(t, dishes, "Gestern")
	mustLogMeal(t, meals, yesterday.ID, "2024-03-09")
	old := mustCreateDish(t, dishes, "Old")
	mustLogMeal(t, meals, old.ID, "2024-01-01")
	mustCreateDish(t, dishes, "Untouched")
	future := mustCreateDish(t, dishes, "Tomorrow")
	mustLogMeal(t, meals, future.ID, "2024-03-11")

	rows, err := dishes.ListWithStaleness(context.Background(), today)
	if err != nil {
		t.Fatalf("ListWithStaleness() error = %v", err)
	}

	type want struct {
		days   int
		bucket staleness.Bucket
		last   string
	}
	expected := map[string]want{
		"Fresh":     {0, staleness.BucketToday, "2024-03-10"},
		"Gestern":   {1, staleness.BucketYesterday, "2024-03-09"},
		"Old":       {69, staleness.BucketStale, "2024-01-01"},
		"Untouched": {staleness.Never, staleness.BucketNever, ""},
		"Tomorrow":  {-1, staleness.BucketToday, "2024-03-11"},
	}
	if len(rows) != len(expected) {
		t.Fatalf("expected %d rows, got %d", len(expected), len(rows))
	}
	order := []string{"Fresh", "Gestern", "Old", "Tomorrow", "Untouched"}
	for i, row := range rows {
		if row.Name != order[i] {
			t.Fatalf("row %d = %q, want %q", i, row.Name, order[i])
		}
		w := expected[row.Name]
		if row.DaysSinceLastEaten != w.days {
			t.Errorf("%s: days = %d, want %d", row.Name, row.DaysSinceLastEaten, w.days)
		}
		if row.Bucket != w.bucket {
			t.Errorf("%s: bucket = %s, want %s", row.Name, row.Bucket, w.bucket)
		}
		switch {
		case w.last == "" && row.LastEaten != nil:
			t.Errorf("%s: expected no last eaten date", row.Name)
		case w.last != "" && (row.LastEaten == nil || models.FormatDate(*row.LastEaten) != w.last):
			t.Errorf("%s: last eaten = %v, want %s", row.Name, row.LastEaten, w.last)
		}
	}
}
