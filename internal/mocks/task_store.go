package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TaskStore is a mock of store.TaskStore for use with testify/mock
type TaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TaskStore)(nil)

func tasksResult(args mock.Arguments) ([]*domain.Task, error) {
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.TaskStore.Create
func (m *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

// Update is a mock implementation of store.TaskStore.Update
func (m *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

// GetByID is a mock implementation of store.TaskStore.GetByID.
// The first return value may be a func(context.Context, uuid.UUID) *domain.Task
// to compute the task at call time.
func (m *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID) *domain.Task); ok {
		return fn(ctx, id), args.Error(1)
	}
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetAll is a mock implementation of store.TaskStore.GetAll
func (m *TaskStore) GetAll(ctx context.Context) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx))
}

// GetByAssignee is a mock implementation of store.TaskStore.GetByAssignee
func (m *TaskStore) GetByAssignee(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, userID))
}

// GetByStatus is a mock implementation of store.TaskStore.GetByStatus
func (m *TaskStore) GetByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, status))
}

// GetOverdue is a mock implementation of store.TaskStore.GetOverdue
func (m *TaskStore) GetOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	return tasksResult(m.Called(ctx, now))
}
