//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/platform/postgres"
	"github.com/phrazzld/taskflow-api/internal/store"
	"github.com/phrazzld/taskflow-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertTask(
	t *testing.T,
	s *postgres.PostgresTaskStore,
	title string,
	status domain.TaskStatus,
	due *time.Time,
	assignee, creator uuid.UUID,
	createdAt time.Time,
) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(title, "", domain.PriorityMedium, status, due, assignee, creator, createdAt)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func TestPostgresTaskStore_CRUDAndSoftDelete(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresTaskStore(tx, nil)
		owner := testdb.InsertUser(t, tx, "owner@example.com", "owner")
		now := time.Now().UTC().Truncate(time.Microsecond)

		task := insertTask(t, s, "Ship release", domain.StatusToDo, nil, owner, owner, now)

		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ship release", got.Title)
		assert.Equal(t, now, got.CreatedAt)
		assert.Nil(t, got.DueDate)

		got.Title = "Ship release 2"
		got.ApplyStatus(domain.StatusCompleted, now)
		updated := now.Add(time.Minute)
		got.UpdatedAt = &updated
		require.NoError(t, s.Update(ctx, got))

		reread, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ship release 2", reread.Title)
		require.NotNil(t, reread.CompletedAt)
		assert.Equal(t, now, *reread.CompletedAt)

		reread.IsDeleted = true
		require.NoError(t, s.Update(ctx, reread))

		_, err = s.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, s.Update(ctx, reread), store.ErrTaskNotFound)

		all, err := s.GetAll(ctx)
		require.NoError(t, err)
		for _, tk := range all {
			assert.NotEqual(t, task.ID, tk.ID, "deleted tasks never appear in bulk reads")
		}

		var deleted bool
		require.NoError(t, tx.QueryRowContext(ctx, `SELECT is_deleted FROM tasks WHERE id = $1`, task.ID).Scan(&deleted))
		assert.True(t, deleted, "row is kept")
	})
}

func TestPostgresTaskStore_UnknownAssignee(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := postgres.NewPostgresTaskStore(tx, nil)
		owner := testdb.InsertUser(t, tx, "fk@example.com", "fk")
		task, err := domain.NewTask("Orphan", "", domain.PriorityLow, domain.StatusToDo, nil, uuid.New(), owner, time.Now())
		require.NoError(t, err)

		assert.ErrorIs(t, s.Create(context.Background(), task), store.ErrForeignKey)
	})
}

func TestPostgresTaskStore_FilteredReads(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresTaskStore(tx, nil)
		alice := testdb.InsertUser(t, tx, "alice@example.com", "alice")
		bob := testdb.InsertUser(t, tx, "bob@example.com", "bob")

		now := time.Date(2030, 1, 10, 12, 0, 0, 0, time.UTC)
		base := now.Add(-72 * time.Hour)
		longAgo := now.Add(-48 * time.Hour)
		yesterday := now.Add(-24 * time.Hour)
		tomorrow := now.Add(24 * time.Hour)

		older := insertTask(t, s, "older", domain.StatusToDo, &yesterday, alice, bob, base)
		newer := insertTask(t, s, "newer", domain.StatusToDo, &longAgo, alice, bob, base.Add(time.Hour))
		done := insertTask(t, s, "done", domain.StatusCompleted, &longAgo, bob, bob, base.Add(2*time.Hour))
		_ = insertTask(t, s, "future", domain.StatusInProgress, &tomorrow, bob, alice, base.Add(3*time.Hour))

		byAlice, err := s.GetByAssignee(ctx, alice)
		require.NoError(t, err)
		require.Len(t, byAlice, 2)
		assert.Equal(t, newer.ID, byAlice[0].ID, "newest first")
		assert.Equal(t, older.ID, byAlice[1].ID)

		completed, err := s.GetByStatus(ctx, domain.StatusCompleted)
		require.NoError(t, err)
		ids := make([]uuid.UUID, 0, len(completed))
		for _, tk := range completed {
			ids = append(ids, tk.ID)
		}
		assert.Contains(t, ids, done.ID)

		overdue, err := s.GetOverdue(ctx, now)
		require.NoError(t, err)
		var mine []uuid.UUID
		for _, tk := range overdue {
			if tk.AssignedToID == alice || tk.AssignedToID == bob {
				mine = append(mine, tk.ID)
			}
		}
		assert.Equal(t, []uuid.UUID{newer.ID, older.ID}, mine, "earliest due first; completed excluded")
	})
}
