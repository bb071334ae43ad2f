package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	applog "wgze/internal/log"
	"wgze/internal/spreadsheet"
	"wgze/internal/store"
	"wgze/internal/views/components"
	"wgze/internal/views/pages"
	"wgze/models"
)

const mealNotFound = "Meal not found."

// MealsPage renders the meal history.
func MealsPage(w http.ResponseWriter, r *http.Request) {
	if !storesReady(w, r) {
		return
	}
	entries, err := mealStore.List(r.Context())
	if err != nil {
		fail(w, r, "list meals", err, mealNotFound)
		return
	}
	renderPage(w, r, "History", "meals", pages.Meals(entries))
}

// CreateMeal logs a meal, creating the dish when the name is new.
func CreateMeal(w http.ResponseWriter, r *http.Request) {
	if !storesReady(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		renderAlert(w, r, http.StatusBadRequest, components.AlertError, "Invalid form submission.")
		return
	}
	name := strings.TrimSpace(r.PostFormValue("food_name"))
	rawDate := strings.TrimSpace(r.PostFormValue("date"))
	if name == "" || rawDate == "" {
		renderAlert(w, r, http.StatusBadRequest, components.AlertError, "Dish and date are required.")
		return
	}
	date, err := models.ParseDate(rawDate)
	if err != nil {
		renderAlert(w, r, http.StatusBadRequest, components.AlertError, "Invalid date, expected YYYY-MM-DD.")
		return
	}

	result, err := store.RecordMeal(r.Context(), dishStore, mealStore, name, date, models.OptionalText(r.PostFormValue("notes")))
	if err != nil {
		fail(w, r, "log meal", err, dishNotFound)
		return
	}
	applog.Info(r.Context(), "meal logged", "meal_id", result.Meal.ID, "dish_id", result.Dish.ID, "dish_created", result.DishCreated)
	renderComponent(w, r, components.MealLogged(result.Dish.Name, models.FormatDate(date), result.DishCreated))
}

// DeleteMeal removes one meal and returns the refreshed history fragment.
func DeleteMeal(w http.ResponseWriter, r *http.Request) {
	if !storesReady(w, r) {
		return
	}
	id, ok := idParam(r)
	if !ok {
		renderAlert(w, r, http.StatusNotFound, components.AlertError, mealNotFound)
		return
	}
	if err := mealStore.Delete(r.Context(), id); err != nil {
		fail(w, r, "delete meal", err, mealNotFound)
		return
	}
	applog.Info(r.Context(), "meal deleted", "meal_id", id)

	entries, err := mealStore.List(r.Context())
	if err != nil {
		fail(w, r, "list meals", err, mealNotFound)
		return
	}
	renderComponent(w, r, components.MealList(entries))
}

// ExportMeals downloads the meal history as an xlsx workbook.
func ExportMeals(w http.ResponseWriter, r *http.Request) {
	if !storesReady(w, r) {
		return
	}
	entries, err := mealStore.List(r.Context())
	if err != nil {
		fail(w, r, "export meals", err, mealNotFound)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteMeals(&buf, entries); err != nil {
		fail(w, r, "export meals", err, mealNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="meals-%s.xlsx"`, todayString()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		applog.Error(r.Context(), "failed to send export", "error", err)
	}
}
