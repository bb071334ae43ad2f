package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"wgze/internal/store"
	"wgze/models"
)

func TestDishesPageRendersCatalog(t *testing.T) {
	env := setupHandlers(t)
	if _, err := store.NewDishes(env.db).Create(context.Background(), "Linsensuppe", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	DishesPage(w, httptest.NewRequest(http.MethodGet, "/dishes", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Linsensuppe") || !strings.Contains(body, "never eaten") {
		t.Fatalf("expected dish with staleness: %s", body)
	}
	if !strings.Contains(body, "<html") {
		t.Fatalf("expected full page for non-HTMX request")
	}
}

func TestCreateDish(t *testing.T) {
	setupHandlers(t)

	w := httptest.NewRecorder()
	CreateDish(w, formRequest(http.MethodPost, "/dishes", url.Values{"name": {"Pasta"}, "notes": {"al dente"}}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); !strings.Contains(body, "Pasta") || !strings.Contains(body, `id="dish-list"`) {
		t.Fatalf("expected refreshed list fragment: %s", body)
	}

	w = httptest.NewRecorder()
	CreateDish(w, formRequest(http.MethodPost, "/dishes", url.Values{"name": {"pasta"}}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already exists") {
		t.Fatalf("expected duplicate message: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	CreateDish(w, formRequest(http.MethodPost, "/dishes", url.Values{"name": {"  "}}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", w.Code)
	}
}

func TestUpdateDish(t *testing.T) {
	env := setupHandlers(t)
	dishes := store.NewDishes(env.db)
	pasta, err := dishes.Create(context.Background(), "Pasta", nil)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := dishes.Create(context.Background(), "Soup", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	id := strconv.FormatUint(uint64(pasta.ID), 10)

	w := httptest.NewRecorder()
	UpdateDish(w, withURLParam(formRequest(http.MethodPut, "/dishes/"+id, url.Values{"name": {"Penne"}, "notes": {"new"}}), "id", id))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Penne") {
		t.Fatalf("expected updated fragment, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	UpdateDish(w, withURLParam(formRequest(http.MethodPut, "/dishes/"+id, url.Values{"name": {"SOUP"}}), "id", id))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate rename, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	UpdateDish(w, withURLParam(formRequest(http.MethodPut, "/dishes/999", url.Values{"name": {"Other"}}), "id", "999"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown dish, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	UpdateDish(w, withURLParam(formRequest(http.MethodPut, "/dishes/abc", url.Values{"name": {"Other"}}), "id", "abc"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", w.Code)
	}
}

func TestDeleteDishCascades(t *testing.T) {
	env := setupHandlers(t)
	ctx := context.Background()
	dishes := store.NewDishes(env.db)
	meals := store.NewMeals(env.db)
	pasta, err := dishes.Create(ctx, "Pasta", nil)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	date, _ := models.ParseDate("2024-06-01")
	if _, err := meals.Create(ctx, pasta.ID, date, nil); err != nil {
		t.Fatalf("seed meal: %v", err)
	}
	id := strconv.FormatUint(uint64(pasta.ID), 10)

	w := httptest.NewRecorder()
	DeleteDish(w, withURLParam(formRequest(http.MethodDelete, "/dishes/"+id, nil), "id", id))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No dishes yet.") {
		t.Fatalf("expected empty list fragment: %s", w.Body.String())
	}
	entries, err := meals.List(ctx)
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected meals to be deleted with the dish, got %d", len(entries))
	}

	w = httptest.NewRecorder()
	DeleteDish(w, withURLParam(formRequest(http.MethodDelete, "/dishes/"+id, nil), "id", id))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeated delete, got %d", w.Code)
	}
}

func TestHandlersWithoutDatabase(t *testing.T) {
	Configure(Dependencies{})

	w := httptest.NewRecorder()
	CreateDish(w, formRequest(http.MethodPost, "/dishes", url.Values{"name": {"Pasta"}}))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
