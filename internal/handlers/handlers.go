package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"gorm.io/gorm"

	"wgze/internal/ai"
	"wgze/internal/auth"
	applog "wgze/internal/log"
	"wgze/internal/store"
	"wgze/internal/views/components"
	"wgze/internal/views/layout"
	"wgze/models"
)

// Dependencies are the collaborators shared by every handler.
type Dependencies struct {
	Database      *gorm.DB
	Authenticator auth.Authenticator
	Password      *auth.Password
	Suggester     *ai.Assembler
}

var (
	database      *gorm.DB
	dishStore     *store.Dishes
	mealStore     *store.Meals
	authenticator auth.Authenticator
	password      *auth.Password
	suggester     *ai.Assembler

	nowFunc = time.Now
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(deps Dependencies) {
	database = deps.Database
	dishStore = nil
	mealStore = nil
	if deps.Database != nil {
		dishStore = store.NewDishes(deps.Database)
		mealStore = store.NewMeals(deps.Database)
	}
	authenticator = deps.Authenticator
	password = deps.Password
	suggester = deps.Suggester
}

func today() time.Time {
	return nowFunc()
}

func todayString() string {
	return models.FormatDate(today())
}

func storesReady(w http.ResponseWriter, r *http.Request) bool {
	if dishStore == nil || mealStore == nil {
		applog.Error(r.Context(), "handler invoked without database", "path", r.URL.Path)
		renderAlert(w, r, http.StatusServiceUnavailable, components.AlertError, "The database is not available.")
		return false
	}
	return true
}

func renderComponent(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render fragment", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// renderPage sends only the content to HTMX requests and the full shell otherwise.
func renderPage(w http.ResponseWriter, r *http.Request, title, section string, content templ.Component) {
	if isHTMX(r) {
		renderComponent(w, r, content)
		return
	}
	renderComponent(w, r, layout.Layout(title, section, content, true))
}

func renderAlert(w http.ResponseWriter, r *http.Request, status int, kind components.AlertKind, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := components.Alert(kind, message).Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render alert", "error", err)
	}
}

// statusFor maps domain errors onto a status code and a message safe to show.
func statusFor(err error, notFound string) (int, string) {
	var validation *store.ValidationError
	var upstream *ai.UpstreamError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, store.ErrConflict):
		return http.StatusBadRequest, "A dish with this name already exists."
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, notFound
	case errors.Is(err, ai.ErrNoGenerator):
		return http.StatusServiceUnavailable, "Suggestions are not configured."
	case errors.As(err, &upstream):
		return http.StatusInternalServerError, "Could not generate suggestions. Please try again later."
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}
}

// fail renders err as an alert. Server-side failures are logged, never shown.
func fail(w http.ResponseWriter, r *http.Request, action string, err error, notFound string) {
	status, message := statusFor(err, notFound)
	if status >= http.StatusInternalServerError {
		applog.Error(r.Context(), action+" failed", "error", err)
	} else {
		applog.Debug(r.Context(), action+" rejected", "status", status, "error", err)
	}
	renderAlert(w, r, status, components.AlertError, message)
}
