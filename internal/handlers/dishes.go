package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	applog "wgze/internal/log"
	"wgze/internal/views/components"
	"wgze/internal/views/pages"
	"wgze/models"
)

const dishNotFound = "Dish not found."

// DishesPage renders the dish catalog.
func DishesPage(w http.ResponseWriter, r *http.Request) {
	if !storesReady(w, r) {
		return
	}
	dishes, err := dishStore.ListWithStaleness(r.Context(), today())
	if err != nil {
		fail(w, r, "list dishes", err, dishNotFound)
		return
	}
	renderPage(w, r, "Dishes", "dishes", pages.Dishes(dishes))
}

// CreateDish adds a dish and returns the refreshed list fragment.
func CreateDish(w http.ResponseWriter, r *http.Request) {
	if !storesReady(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		renderAlert(w, r, http.StatusBadRequest, components.AlertError, "Invalid form submission.")
		return
	}
	dish, err := dishStore.Create(r.Context(), r.PostFormValue("name"), models.OptionalText(r.PostFormValue("notes")))
	if err != nil {
		fail(w, r, "create dish", err, dishNotFound)
		return
	}
	applog.Info(r.Context(), "dish created", "dish_id", dish.ID, "name", dish.Name)
	renderDishList(w, r)
}

// UpdateDish renames a dish and replaces its notes.
func UpdateDish(w http.ResponseWriter, r *http.Request) {
	if !storesReady(w, r) {
		return
	}
	id, ok := idParam(r)
	if !ok {
		renderAlert(w, r, http.StatusNotFound, components.AlertError, dishNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		renderAlert(w, r, http.StatusBadRequest, components.AlertError, "Invalid form submission.")
		return
	}
	if err := dishStore.Update(r.Context(), id, r.PostFormValue("name"), models.OptionalText(r.PostFormValue("notes"))); err != nil {
		fail(w, r, "update dish", err, dishNotFound)
		return
	}
	applog.Info(r.Context(), "dish updated", "dish_id", id)
	renderDishList(w, r)
}

// DeleteDish removes a dish and every meal logged for it.
func DeleteDish(w http.ResponseWriter, r *http.Request) {
	if !storesReady(w, r) {
		return
	}
	id, ok := idParam(r)
	if !ok {
		renderAlert(w, r, http.StatusNotFound, components.AlertError, dishNotFound)
		return
	}
	if err := dishStore.Delete(r.Context(), id); err != nil {
		fail(w, r, "delete dish", err, dishNotFound)
		return
	}
	applog.Info(r.Context(), "dish deleted", "dish_id", id)
	renderDishList(w, r)
}

func renderDishList(w http.ResponseWriter, r *http.Request) {
	dishes, err := dishStore.ListWithStaleness(r.Context(), today())
	if err != nil {
		fail(w, r, "list dishes", err, dishNotFound)
		return
	}
	renderComponent(w, r, components.DishList(dishes))
}

func idParam(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

