package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultCategory is the label shown for tasks stored without a category.
const DefaultCategory = "Inbox"

// Priority is the urgency label of a task.
type Priority string

// Supported priorities, highest first.
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every priority in rank order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities for sorting: High is 1, Medium 2, Low 3.
// Unknown values rank as Medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// IsValid reports whether p is one of the enumerated priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// ParsePriority converts s into a Priority. Matching is case-insensitive and
// an empty string yields PriorityMedium.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PriorityMedium, nil
	}
	for _, p := range Priorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// Task is a single scheduled (or unscheduled) item on an owner's planner.
type Task struct {
	ID          uuid.UUID  `json:"_id"`
	OwnerID     string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Datetime    *time.Time `json:"datetime"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskInput carries the user supplied fields of a task at creation.
type TaskInput struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category" validate:"required"`
	Datetime    *time.Time `json:"datetime" validate:"required"`
	Priority    Priority   `json:"priority" validate:"omitempty,oneof=High Medium Low"`
	Completed   bool       `json:"completed"`
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Category    *string
	Datetime    *time.Time
	Priority    *Priority
	Completed   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Datetime == nil && p.Priority == nil && p.Completed == nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// NewTask builds a task for ownerID from in, applying defaults and assigning
// the ID and timestamps. Input lacking a title, category or datetime is
// rejected with a *ValidationError wrapping ErrInvalidTask.
func NewTask(ownerID string, in TaskInput) (*Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)

	if err := validate.Struct(in); err != nil {
		return nil, translateValidationError(err)
	}

	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	when := in.Datetime.UTC()
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Datetime:    &when,
		Priority:    priority,
		Completed:   in.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the invariants every stored task must satisfy.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("_id", "cannot be empty", ErrInvalidTask)
	}
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "is required", ErrInvalidTask)
	}
	if !t.Priority.IsValid() {
		return NewValidationError("priority", "must be one of High, Medium, Low", ErrInvalidTask)
	}
	return nil
}

// Apply merges patch into the task and bumps UpdatedAt. ID, OwnerID and
// CreatedAt are never modified. On a validation failure the task is left
// unchanged.
func (t *Task) Apply(patch TaskPatch) error {
	next := t.Clone()

	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Category != nil {
		next.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Datetime != nil {
		when := patch.Datetime.UTC()
		next.Datetime = &when
	}
	if patch.Priority != nil {
		next.Priority = *patch.Priority
	}
	if patch.Completed != nil {
		next.Completed = *patch.Completed
	}

	if err := next.Validate(); err != nil {
		return err
	}

	next.UpdatedAt = time.Now().UTC()
	*t = *next
	return nil
}

// Toggle flips the completed flag: complete an open task or reopen a done one.
func (t *Task) Toggle() {
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now().UTC()
}

// DisplayCategory returns the category, or DefaultCategory when none is set.
func (t *Task) DisplayCategory() string {
	if t.Category == "" {
		return DefaultCategory
	}
	return t.Category
}

// DisplayPriority returns the priority, or PriorityMedium when none is set.
func (t *Task) DisplayPriority() Priority {
	if t.Priority == "" {
		return PriorityMedium
	}
	return t.Priority
}

// IsScheduled reports whether the task has a datetime.
func (t *Task) IsScheduled() bool {
	return t.Datetime != nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.Datetime != nil {
		when := *t.Datetime
		c.Datetime = &when
	}
	return &c
}

// translateValidationError converts validator output into a *ValidationError
// for the first failing field.
func translateValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return NewValidationError(fe.Field(), "is required", ErrInvalidTask)
	case "oneof":
		return NewValidationError(fe.Field(), "must be one of "+strings.ReplaceAll(fe.Param(), " ", ", "), ErrInvalidTask)
	default:
		return NewValidationError(fe.Field(), "is invalid", ErrInvalidTask)
	}
}
