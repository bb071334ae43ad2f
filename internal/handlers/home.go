package handlers

import (
	"net/http"

	"wgze/internal/views/pages"
)

// Home renders the meal-entry form.
func Home(w http.ResponseWriter, r *http.Request) {
	if !storesReady(w, r) {
		return
	}
	names, err := dishStore.Names(r.Context())
	if err != nil {
		fail(w, r, "load dish names", err, "")
		return
	}
	renderPage(w, r, "Log a meal", "home", pages.Home(pages.HomeData{
		DishNames: names,
		Today:     todayString(),
	}))
}
