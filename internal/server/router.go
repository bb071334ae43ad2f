package server

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wgze/internal/handlers"
	applog "wgze/internal/log"
)

func newRouter(sessions *scs.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if sessions != nil {
		r.Use(sessions.LoadAndSave)
	}

	applog.Debug(context.Background(), "registering http routes")
	r.Get("/healthz", handlers.Health)
	r.Get("/login", handlers.Login)
	r.Post("/login", handlers.Login)
	r.Get("/logout", handlers.Logout)
	r.Post("/logout", handlers.Logout)

	r.Group(func(r chi.Router) {
		r.Use(handlers.RequireAuthentication)
		r.Get("/", handlers.Home)

		r.Get("/dishes", handlers.DishesPage)
		r.Post("/dishes", handlers.CreateDish)
		r.Put("/dishes/{id}", handlers.UpdateDish)
		r.Delete("/dishes/{id}", handlers.DeleteDish)

		r.Get("/meals", handlers.MealsPage)
		r.Post("/meals", handlers.CreateMeal)
		r.Get("/meals/export", handlers.ExportMeals)
		r.Delete("/meals/{id}", handlers.DeleteMeal)

		r.Get("/ai-suggestions", handlers.SuggestionsPage)
		r.Post("/ai-suggestions", handlers.CreateSuggestions)
	})

	r.Group(func(r chi.Router) {
		r.Use(handlers.RequireAPIAuthentication)
		r.Post("/api/tools/call", handlers.CallTool)
	})
	applog.Debug(context.Background(), "http routes registered", "sessions", sessions != nil)
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		applog.Debug(r.Context(), "request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}
