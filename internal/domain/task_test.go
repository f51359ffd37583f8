package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() TaskInput {
	when := time.Date(2025, time.May, 2, 9, 30, 0, 0, time.UTC)
	return TaskInput{
		Title:    "Buy groceries",
		Category: "Errands",
		Datetime: &when,
	}
}

func TestNewTask(t *testing.T) {
	t.Parallel()

	task, err := NewTask("owner-1", validInput())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "owner-1", task.OwnerID)
	assert.Equal(t, "Buy groceries", task.Title)
	assert.Equal(t, PriorityMedium, task.Priority, "priority should default to Medium")
	assert.False(t, task.Completed)
	assert.False(t, task.CreatedAt.IsZero())
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	require.NotNil(t, task.Datetime)
	assert.Equal(t, time.UTC, task.Datetime.Location())
}

func TestNewTask_KeepsExplicitPriority(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.Priority = PriorityHigh
	task, err := NewTask("owner-1", in)
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, task.Priority)
}

func TestNewTask_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*TaskInput)
		wantField string
	}{
		{
			name:      "missing title",
			mutate:    func(in *TaskInput) { in.Title = "" },
			wantField: "title",
		},
		{
			name:      "blank title",
			mutate:    func(in *TaskInput) { in.Title = "   " },
			wantField: "title",
		},
		{
			name:      "missing category",
			mutate:    func(in *TaskInput) { in.Category = "" },
			wantField: "category",
		},
		{
			name:      "missing datetime",
			mutate:    func(in *TaskInput) { in.Datetime = nil },
			wantField: "datetime",
		},
		{
			name:      "unknown priority",
			mutate:    func(in *TaskInput) { in.Priority = "Urgent" },
			wantField: "priority",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := validInput()
			tc.mutate(&in)

			task, err := NewTask("owner-1", in)
			require.Error(t, err)
			assert.Nil(t, task)
			assert.True(t, errors.Is(err, ErrInvalidTask))
			assert.True(t, errors.Is(err, ErrValidation))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}

func TestTaskApply(t *testing.T) {
	t.Parallel()

	t.Run("partial update leaves other fields", func(t *testing.T) {
		task, err := NewTask("owner-1", validInput())
		require.NoError(t, err)
		before := task.Clone()

		done := true
		require.NoError(t, task.Apply(TaskPatch{Completed: &done}))

		assert.True(t, task.Completed)
		assert.Equal(t, before.ID, task.ID)
		assert.Equal(t, before.OwnerID, task.OwnerID)
		assert.Equal(t, before.Title, task.Title)
		assert.Equal(t, before.Category, task.Category)
		assert.Equal(t, before.Priority, task.Priority)
		assert.Equal(t, *before.Datetime, *task.Datetime)
		assert.Equal(t, before.CreatedAt, task.CreatedAt)
		assert.False(t, task.UpdatedAt.Before(before.UpdatedAt))
	})

	t.Run("invalid patch leaves task unchanged", func(t *testing.T) {
		task, err := NewTask("owner-1", validInput())
		require.NoError(t, err)
		before := task.Clone()

		empty := ""
		err = task.Apply(TaskPatch{Title: &empty})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidTask))
		assert.Equal(t, before, task)
	})

	t.Run("invalid priority rejected", func(t *testing.T) {
		task, err := NewTask("owner-1", validInput())
		require.NoError(t, err)

		bad := Priority("Someday")
		err = task.Apply(TaskPatch{Priority: &bad})
		assert.True(t, errors.Is(err, ErrInvalidTask))
		assert.Equal(t, PriorityMedium, task.Priority)
	})
}

func TestTaskToggle(t *testing.T) {
	t.Parallel()

	task, err := NewTask("owner-1", validInput())
	require.NoError(t, err)

	task.Toggle()
	assert.True(t, task.Completed)
	task.Toggle()
	assert.False(t, task.Completed)
}

func TestDisplayDefaults(t *testing.T) {
	t.Parallel()

	task := &Task{}
	assert.Equal(t, DefaultCategory, task.DisplayCategory())
	assert.Equal(t, PriorityMedium, task.DisplayPriority())
	assert.False(t, task.IsScheduled())

	task.Category = "Work"
	assert.Equal(t, "Work", task.DisplayCategory())
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "High", want: PriorityHigh},
		{in: "low", want: PriorityLow},
		{in: " MEDIUM ", want: PriorityMedium},
		{in: "", want: PriorityMedium},
		{in: "critical", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParsePriority(tc.in)
		if tc.wantErr {
			assert.True(t, errors.Is(err, ErrInvalidPriority), "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestPriorityRank(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, PriorityHigh.Rank())
	assert.Equal(t, 2, PriorityMedium.Rank())
	assert.Equal(t, 3, PriorityLow.Rank())
	assert.Equal(t, 2, Priority("").Rank())
}

func TestClone(t *testing.T) {
	t.Parallel()

	task, err := NewTask("owner-1", validInput())
	require.NoError(t, err)

	c := task.Clone()
	*c.Datetime = c.Datetime.Add(time.Hour)
	assert.NotEqual(t, *task.Datetime, *c.Datetime)
}
