package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskplanner/planner-api/internal/domain"
	"github.com/taskplanner/planner-api/internal/platform/postgres"
	"github.com/taskplanner/planner-api/internal/store"
	"github.com/taskplanner/planner-api/internal/testdb"
)

func TestPostgresTaskStore_Integration(t *testing.T) {
	t.Parallel()
	db := testdb.OpenPostgres(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		exerciseTaskStore(t, postgres.NewPostgresTaskStore(tx, nil))
	})
}

func exerciseTaskStore(t *testing.T, s *postgres.PostgresTaskStore) {
	t.Helper()
	ctx := context.Background()
	owner := "it-" + uuid.NewString()

	when := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	first, err := domain.NewTask(owner, domain.TaskInput{Title: "first", Category: "Work", Datetime: &when})
	require.NoError(t, err)
	later := when.Add(time.Hour)
	second, err := domain.NewTask(owner, domain.TaskInput{Title: "second", Category: "Home", Datetime: &later})
	require.NoError(t, err)
	unscheduled, err := domain.NewTask(owner, domain.TaskInput{Title: "someday", Category: "Home", Datetime: &when})
	require.NoError(t, err)
	unscheduled.Datetime = nil

	for _, task := range []*domain.Task{second, unscheduled, first} {
		require.NoError(t, s.Create(ctx, task))
	}

	list, err := s.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"first", "second", "someday"}, []string{list[0].Title, list[1].Title, list[2].Title})

	got, err := s.GetByID(ctx, owner, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Title, got.Title)

	_, err = s.GetByID(ctx, "someone-else", first.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	done := true
	require.NoError(t, got.Apply(domain.TaskPatch{Completed: &done}))
	require.NoError(t, s.Update(ctx, got))

	reloaded, err := s.GetByID(ctx, owner, first.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Completed)

	require.NoError(t, s.Delete(ctx, owner, first.ID))
	assert.ErrorIs(t, s.Delete(ctx, owner, first.ID), store.ErrTaskNotFound)

	ghost := second.Clone()
	ghost.ID = uuid.New()
	assert.ErrorIs(t, s.Update(ctx, ghost), store.ErrTaskNotFound)
}
