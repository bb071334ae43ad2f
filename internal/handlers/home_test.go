package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wgze/internal/store"
)

func TestHomeRendersForm(t *testing.T) {
	env := setupHandlers(t)
	if _, err := store.NewDishes(env.db).Create(context.Background(), "Pfannkuchen", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := httptest.NewRecorder()
	Home(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`<option value="Pfannkuchen">`, `value="2024-06-15"`, `data-state="active" data-nav-section="home"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body: %s", want, body)
		}
	}
}
