package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskplanner/planner-api/internal/api/shared"
	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/platform/logger"
	"github.com/taskplanner/planner-api/internal/service"
)

// DeletedMessage is the body message of a successful DELETE /tasks/{id}.
const DeletedMessage = "Task deleted successfully"

// TaskHandler handles task CRUD requests.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
	loc         *time.Location
}

// NewTaskHandler creates a new TaskHandler. Datetimes sent without a zone
// are read in loc; a nil loc means time.Local.
func NewTaskHandler(taskService service.TaskService, loc *time.Location, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	if loc == nil {
		loc = time.Local
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
		loc:         loc,
	}
}

// CreateTask handles POST /tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req TaskRequest
	if err := decodeTaskRequest(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	input, err := h.toInput(req)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	owner := shared.GetOwner(r.Context())
	if owner.Source == shared.OwnerFromAnonymous && req.UserID != "" {
		owner = shared.Owner{ID: req.UserID, Source: shared.OwnerFromBody}
	}
	ownerID := owner.ID

	task, err := h.taskService.Create(r.Context(), ownerID, input)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", ownerID),
		slog.String("owner_source", string(owner.Source)))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /tasks requests.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	owner := shared.GetOwner(r.Context())

	tasks, err := h.taskService.ListByOwner(r.Context(), owner.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskService.Get(r.Context(), shared.GetOwner(r.Context()).ID, id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /tasks/{id} requests. Fields absent from the body
// keep their stored values.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req TaskRequest
	if err := decodeTaskRequest(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	patch, err := h.toPatch(req)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), shared.GetOwner(r.Context()).ID, id, patch)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("task updated", slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// ToggleTask handles PATCH /tasks/{id}/toggle requests.
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskService.Toggle(r.Context(), shared.GetOwner(r.Context()).ID, id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.taskService.Delete(r.Context(), shared.GetOwner(r.Context()).ID, id); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("task deleted", slog.String("task_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: DeletedMessage})
}

// toInput converts a create request. Required fields are checked by the
// domain so the messages match those of every other entry point.
func (h *TaskHandler) toInput(req TaskRequest) (domain.TaskInput, error) {
	var input domain.TaskInput
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Category != nil {
		input.Category = *req.Category
	}
	if req.Completed != nil {
		input.Completed = *req.Completed
	}
	if req.Datetime != nil {
		when, err := parseDatetime(*req.Datetime, h.loc)
		if err != nil {
			return domain.TaskInput{}, err
		}
		input.Datetime = when
	}
	if req.Priority != nil {
		p, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return domain.TaskInput{}, err
		}
		input.Priority = p
	}
	return input, nil
}

// toPatch converts an update request. A null or empty datetime leaves the
// stored datetime in place.
func (h *TaskHandler) toPatch(req TaskRequest) (domain.TaskPatch, error) {
	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Completed:   req.Completed,
	}
	if req.Datetime != nil {
		when, err := parseDatetime(*req.Datetime, h.loc)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		patch.Datetime = when
	}
	if req.Priority != nil {
		p, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return domain.TaskPatch{}, err
		}
		patch.Priority = &p
	}
	return patch, nil
}

func decodeTaskRequest(w http.ResponseWriter, r *http.Request, req *TaskRequest) error {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			return err
		}
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}
