package handlers

import (
	"net/http"

	"wgze/internal/ai"
	applog "wgze/internal/log"
	"wgze/internal/views/components"
	"wgze/internal/views/pages"
)

// SuggestionsPage renders the preference form.
func SuggestionsPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, "Suggestions", "suggestions", pages.Suggestions())
}

// CreateSuggestions asks the language model for dishes to cook next.
func CreateSuggestions(w http.ResponseWriter, r *http.Request) {
	if !storesReady(w, r) {
		return
	}
	if err := r.ParseForm(); err != nil {
		renderAlert(w, r, http.StatusBadRequest, components.AlertError, "Invalid form submission.")
		return
	}

	now := today()
	rows, err := dishStore.ListWithStaleness(r.Context(), now)
	if err != nil {
		fail(w, r, "load dishes for suggestions", err, dishNotFound)
		return
	}
	dishes := make([]ai.Dish, 0, len(rows))
	for _, row := range rows {
		dishes = append(dishes, ai.FromStaleness(row.Name, row.Notes, row.LastEaten, row.DaysSinceLastEaten))
	}

	assembler := suggester
	if assembler == nil {
		assembler = &ai.Assembler{}
	}
	suggestion, err := assembler.Suggest(r.Context(), dishes, r.PostFormValue("preferences"), now)
	if err != nil {
		fail(w, r, "generate suggestions", err, dishNotFound)
		return
	}
	applog.Debug(r.Context(), "suggestions generated", "dishes", len(dishes), "empty", suggestion.Empty)
	renderComponent(w, r, components.SuggestionResult(suggestion))
}
