package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskplanner/planner-api/internal/domain"
)

// taskDocument is the stored shape of a domain.Task.
type taskDocument struct {
	ID          string     `bson:"_id"`
	UserID      string     `bson:"userId"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	Category    string     `bson:"category"`
	Datetime    *time.Time `bson:"datetime"`
	Priority    string     `bson:"priority"`
	Completed   bool       `bson:"completed"`
	CreatedAt   time.Time  `bson:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt"`
}

func toDocument(task *domain.Task) taskDocument {
	return taskDocument{
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

// toTask converts a stored document. Documents written without a priority
// read back as Medium.
func (d taskDocument) toTask() (*domain.Task, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid task id %q: %w", d.ID, err)
	}

	priority := domain.Priority(d.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}

	task := &domain.Task{
		ID:          id,
		OwnerID:     d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Category:    d.Category,
		Priority:    priority,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.Datetime != nil {
		when := d.Datetime.UTC()
		task.Datetime = &when
	}
	return task, nil
}
