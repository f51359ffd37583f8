package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taskplanner/planner-api/internal/api/shared"
	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/domain/views"
	"github.com/taskplanner/planner-api/internal/service"
)

// ViewHandler serves the derived views over an owner's task set.
type ViewHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
	loc         *time.Location
	now         func() time.Time
}

// NewViewHandler creates a new ViewHandler. loc is the default calendar
// location when a request carries no tz parameter.
func NewViewHandler(taskService service.TaskService, loc *time.Location, logger *slog.Logger) *ViewHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for ViewHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ViewHandler")
	}
	if loc == nil {
		loc = time.Local
	}

	return &ViewHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "view_handler")),
		loc:         loc,
		now:         time.Now,
	}
}

// Today handles GET /views/today requests. category and priority narrow the
// list; an empty value or "All" disables a filter.
func (h *ViewHandler) Today(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter views.Filter
	if c := q.Get("category"); !isAll(c) {
		filter.Category = strings.TrimSpace(c)
	}
	if p := q.Get("priority"); !isAll(p) {
		priority, err := domain.ParsePriority(p)
		if err != nil {
			HandleAPIError(w, r, err)
			return
		}
		filter.Priority = priority
	}

	tasks, ok := h.list(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(views.Today(tasks, filter)))
}

// Upcoming handles GET /views/upcoming requests.
func (h *ViewHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocation(r, h.loc)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	tasks, ok := h.list(w, r)
	if !ok {
		return
	}

	buckets := views.Upcoming(tasks, h.now(), loc)
	shared.RespondWithJSON(w, r, http.StatusOK, bucketsToResponse(buckets))
}

// Search handles GET /views/search requests. A blank q matches nothing.
func (h *ViewHandler) Search(w http.ResponseWriter, r *http.Request) {
	tasks, ok := h.list(w, r)
	if !ok {
		return
	}

	found := views.Search(tasks, r.URL.Query().Get("q"))
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(found))
}

// Dashboard handles GET /views/dashboard requests.
func (h *ViewHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocation(r, h.loc)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	tasks, ok := h.list(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, views.Dashboard(tasks, h.now(), loc))
}

func (h *ViewHandler) list(w http.ResponseWriter, r *http.Request) ([]*domain.Task, bool) {
	tasks, err := h.taskService.ListByOwner(r.Context(), shared.GetOwner(r.Context()).ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return nil, false
	}
	return tasks, true
}
