package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskplanner/planner-api/internal/domain"
)

// fakeRow feeds fixed values into scanTask.
type fakeRow struct {
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r.values[i].(uuid.UUID)
		case *string:
			*p = r.values[i].(string)
		case *bool:
			*p = r.values[i].(bool)
		case *time.Time:
			*p = r.values[i].(time.Time)
		case *sql.NullTime:
			*p = r.values[i].(sql.NullTime)
		}
	}
	return nil
}

func TestScanTask(t *testing.T) {
	id := uuid.New()
	created := time.Date(2025, time.May, 1, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))

	t.Run("scheduled", func(t *testing.T) {
		when := time.Date(2025, time.May, 3, 9, 0, 0, 0, time.UTC)
		task, err := scanTask(fakeRow{values: []any{
			id, "alice", "Call", "", "Work", sql.NullTime{Time: when, Valid: true},
			"High", false, created, created,
		}})
		require.NoError(t, err)
		require.NotNil(t, task.Datetime)
		assert.True(t, when.Equal(*task.Datetime))
		assert.Equal(t, domain.PriorityHigh, task.Priority)
		assert.Equal(t, time.UTC, task.CreatedAt.Location())
	})

	t.Run("unscheduled", func(t *testing.T) {
		task, err := scanTask(fakeRow{values: []any{
			id, "alice", "Someday", "", "", sql.NullTime{}, "Low", true, created, created,
		}})
		require.NoError(t, err)
		assert.Nil(t, task.Datetime)
		assert.True(t, task.Completed)
	})
}
