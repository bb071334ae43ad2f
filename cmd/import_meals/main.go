package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"wgze/internal/config"
	"wgze/internal/db"
	"wgze/internal/spreadsheet"
	"wgze/internal/store"
	"wgze/models"
)

var openDatabase = db.Configure

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: import_meals <history.csv|history.xlsx|legacy.db>")
		os.Exit(2)
	}

	if err := run(context.Background(), os.Args[1], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, out io.Writer) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("import path must not be empty")
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("locate import file: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read .env: %w", err)
	}
	database, err := openDatabase(config.LoadDatabase())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	summary, err := newImporter(database).importFile(ctx, path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d meals from %s (%d skipped, %d new dishes)\n",
		summary.Imported, filepath.Base(path), summary.Skipped, summary.DishesCreated)
	return nil
}

type summary struct {
	Imported      int
	Skipped       int
	DishesCreated int
}

type importer struct {
	db *gorm.DB
}

func newImporter(database *gorm.DB) *importer {
	return &importer{db: database}
}

// batch writes one import through a single transaction.
type batch struct {
	dishes *store.Dishes
	meals  *store.Meals
}

func newBatch(tx *gorm.DB) *batch {
	return &batch{dishes: store.NewDishes(tx), meals: store.NewMeals(tx)}
}

// importFile applies every entry of path or none of them.
func (im *importer) importFile(ctx context.Context, path string) (summary, error) {
	var apply func(context.Context, *batch) (summary, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err := readCSV(path)
		if err != nil {
			return summary{}, fmt.Errorf("read csv: %w", err)
		}
		apply = func(ctx context.Context, b *batch) (summary, error) { return b.importRows(ctx, rows) }
	case ".xlsx":
		rows, err := readWorkbook(path)
		if err != nil {
			return summary{}, err
		}
		apply = func(ctx context.Context, b *batch) (summary, error) { return b.importRows(ctx, rows) }
	case ".db", ".sqlite", ".sqlite3":
		foods, err := readLegacy(ctx, path)
		if err != nil {
			return summary{}, fmt.Errorf("read legacy database: %w", err)
		}
		apply = func(ctx context.Context, b *batch) (summary, error) { return b.importLegacy(ctx, foods) }
	default:
		return summary{}, fmt.Errorf("unsupported import file %q", filepath.Base(path))
	}

	var result summary
	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = apply(ctx, newBatch(tx))
		return err
	})
	if err != nil {
		return summary{}, fmt.Errorf("%w; nothing was imported", err)
	}
	return result, nil
}

func (b *batch) importRows(ctx context.Context, rows []spreadsheet.Row) (summary, error) {
	var result summary
	for idx, row := range rows {
		date, err := models.ParseDate(row.Date)
		if err != nil {
			return result, fmt.Errorf("row %d (%s): invalid date %q", idx+1, row.Dish, row.Date)
		}
		logged, err := b.logMeal(ctx, row.Dish, date, models.OptionalText(row.Notes), &result)
		if err != nil {
			return result, fmt.Errorf("row %d (%s): %w", idx+1, row.Dish, err)
		}
		if !logged {
			result.Skipped++
		}
	}
	return result, nil
}

func (b *batch) importLegacy(ctx context.Context, foods []legacyFood) (summary, error) {
	var result summary
	for _, food := range foods {
		if food.LastHad == nil {
			created, err := b.ensureDish(ctx, food.Name)
			if err != nil {
				return result, fmt.Errorf("food %q: %w", food.Name, err)
			}
			if created {
				result.DishesCreated++
			}
			continue
		}
		logged, err := b.logMeal(ctx, food.Name, *food.LastHad, nil, &result)
		if err != nil {
			return result, fmt.Errorf("food %q: %w", food.Name, err)
		}
		if !logged {
			result.Skipped++
		}
	}
	return result, nil
}

// logMeal records a meal unless the dish already has one on date.
func (b *batch) logMeal(ctx context.Context, name string, date time.Time, notes *string, result *summary) (bool, error) {
	dish, err := b.dishes.FindByName(ctx, name)
	switch {
	case err == nil:
		exists, err := b.meals.Logged(ctx, dish.ID, date)
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	case !errors.Is(err, store.ErrNotFound):
		return false, err
	}

	recorded, err := store.RecordMeal(ctx, b.dishes, b.meals, name, date, notes)
	if err != nil {
		return false, err
	}
	result.Imported++
	if recorded.DishCreated {
		result.DishesCreated++
	}
	return true, nil
}

func (b *batch) ensureDish(ctx context.Context, name string) (bool, error) {
	exists, err := b.dishes.Exists(ctx, name)
	if err != nil || exists {
		return false, err
	}
	if _, err := b.dishes.Create(ctx, name, nil); err != nil {
		return false, err
	}
	return true, nil
}

func readWorkbook(path string) ([]spreadsheet.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return spreadsheet.ReadMeals(file)
}

func readCSV(path string) ([]spreadsheet.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("csv is empty")
	}
	return spreadsheet.Rows(records), nil
}

type legacyFood struct {
	Name    string
	LastHad *time.Time
}

// readLegacy reads the foods table of the single-table prototype database,
// where each dish carried only the date it was last eaten.
func readLegacy(ctx context.Context, path string) ([]legacyFood, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, "SELECT name, last_had FROM foods ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foods []legacyFood
	for rows.Next() {
		var name string
		var lastHad any
		if err := rows.Scan(&name, &lastHad); err != nil {
			return nil, err
		}
		food := legacyFood{Name: strings.TrimSpace(name)}
		if food.Name == "" {
			continue
		}
		date, err := legacyDate(lastHad)
		if err != nil {
			return nil, fmt.Errorf("food %q: %w", food.Name, err)
		}
		food.LastHad = date
		foods = append(foods, food)
	}
	return foods, rows.Err()
}

func legacyDate(value any) (*time.Time, error) {
	var text string
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		day := time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return &day, nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return nil, fmt.Errorf("unexpected last_had value %v", value)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if len(text) > len(models.DateLayout) {
		text = text[:len(models.DateLayout)]
	}
	day, err := models.ParseDate(text)
	if err != nil {
		return nil, fmt.Errorf("invalid last_had %q", text)
	}
	return &day, nil
}
