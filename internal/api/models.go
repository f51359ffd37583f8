package api

import (
	"time"

	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/domain/views"
)

// TaskRequest is the body of POST /tasks and PUT /tasks/{id}. Every field is
// optional at decode time; absent fields are left unchanged on update.
type TaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Datetime    *string `json:"datetime"`
	Priority    *string `json:"priority"`
	Completed   *bool   `json:"completed"`

	// UserID names the owner on create when neither token, query nor
	// header did.
	UserID string `json:"userId"`
}

// TaskResponse represents a stored task on the wire.
type TaskResponse struct {
	ID          string     `json:"_id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Datetime    *time.Time `json:"datetime"`
	Priority    string     `json:"priority"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BucketResponse is one day of the upcoming view.
type BucketResponse struct {
	Date  string         `json:"date"`
	Tasks []TaskResponse `json:"tasks"`
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		UserID:      task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Category:    task.Category,
		Datetime:    task.Datetime,
		Priority:    string(task.Priority),
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// tasksToResponse converts a task list, never returning nil.
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func bucketsToResponse(buckets []views.Bucket) []BucketResponse {
	out := make([]BucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, BucketResponse{Date: b.Date, Tasks: tasksToResponse(b.Tasks)})
	}
	return out
}
