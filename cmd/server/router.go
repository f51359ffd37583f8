package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/taskplanner/planner-api/internal/api"
	apiMiddleware "github.com/taskplanner/planner-api/internal/api/middleware"
)

const (
	helloMessage   = "Hello from the backend!"
	requestTimeout = 60 * time.Second
)

// setupRouter creates the router with all middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: app.config.Server.CORSOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", apiMiddleware.OwnerHeader},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	taskHandler := api.NewTaskHandler(app.taskService, app.loc, app.logger)
	viewHandler := api.NewViewHandler(app.taskService, app.loc, app.logger)
	subscribeHandler := api.NewSubscribeHandler(app.taskService, app.config.Server.CORSOrigins, app.logger)
	app.subscribeHandler = subscribeHandler
	ownerMiddleware := apiMiddleware.NewOwnerMiddleware(app.jwtService)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		app.writeText(w, http.StatusOK, helloMessage)
	})
	r.Get("/health", app.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(ownerMiddleware.Resolve)

		// Long-lived; kept out of the request timeout.
		r.Get("/tasks/subscribe", subscribeHandler.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskHandler.CreateTask)
				r.Get("/", taskHandler.ListTasks)
				r.Get("/{id}", taskHandler.GetTask)
				r.Put("/{id}", taskHandler.UpdateTask)
				r.Patch("/{id}/toggle", taskHandler.ToggleTask)
				r.Delete("/{id}", taskHandler.DeleteTask)
			})

			r.Route("/views", func(r chi.Router) {
				r.Get("/today", viewHandler.Today)
				r.Get("/upcoming", viewHandler.Upcoming)
				r.Get("/search", viewHandler.Search)
				r.Get("/dashboard", viewHandler.Dashboard)
			})
		})
	})

	return r
}

// handleHealth reports whether the backend answers a ping.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := app.healthCheck(r.Context()); err != nil {
		app.logger.Error("health check failed", slog.String("error", err.Error()))
		app.writeText(w, http.StatusServiceUnavailable, "Unavailable")
		return
	}
	app.writeText(w, http.StatusOK, "OK")
}

func (app *application) writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		app.logger.Error("failed to write response", slog.String("error", err.Error()))
	}
}
