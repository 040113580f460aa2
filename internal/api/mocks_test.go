package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
	"github.com/phrazzld/taskflow-api/internal/service"
	"github.com/phrazzld/taskflow-api/internal/service/auth"
	"github.com/phrazzld/taskflow-api/internal/service/envelope"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, in auth.RegisterInput) envelope.Response[*auth.AuthResult] {
	return m.Called(ctx, in).Get(0).(envelope.Response[*auth.AuthResult])
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) envelope.Response[*auth.AuthResult] {
	return m.Called(ctx, email, password).Get(0).(envelope.Response[*auth.AuthResult])
}

func (m *mockAuthService) GetIdentity(ctx context.Context, id uuid.UUID) envelope.Response[*auth.UserProfile] {
	return m.Called(ctx, id).Get(0).(envelope.Response[*auth.UserProfile])
}

func (m *mockAuthService) IssueToken(ctx context.Context, user *domain.User) (*auth.AccessToken, error) {
	args := m.Called(ctx, user)
	token, _ := args.Get(0).(*auth.AccessToken)
	return token, args.Error(1)
}

type mockTaskService struct {
	mock.Mock
}

func (m *mockTaskService) Create(ctx context.Context, in service.CreateTaskInput, createdByID uuid.UUID) envelope.Response[*service.TaskDTO] {
	return m.Called(ctx, in, createdByID).Get(0).(envelope.Response[*service.TaskDTO])
}

func (m *mockTaskService) Update(ctx context.Context, in service.UpdateTaskInput) envelope.Response[*service.TaskDTO] {
	return m.Called(ctx, in).Get(0).(envelope.Response[*service.TaskDTO])
}

func (m *mockTaskService) Delete(ctx context.Context, id uuid.UUID) envelope.Response[bool] {
	return m.Called(ctx, id).Get(0).(envelope.Response[bool])
}

func (m *mockTaskService) GetByID(ctx context.Context, id uuid.UUID) envelope.Response[*service.TaskDTO] {
	return m.Called(ctx, id).Get(0).(envelope.Response[*service.TaskDTO])
}

func (m *mockTaskService) GetAll(ctx context.Context) envelope.Response[[]service.TaskDTO] {
	return m.Called(ctx).Get(0).(envelope.Response[[]service.TaskDTO])
}

func (m *mockTaskService) GetByAssignee(ctx context.Context, userID uuid.UUID) envelope.Response[[]service.TaskDTO] {
	return m.Called(ctx, userID).Get(0).(envelope.Response[[]service.TaskDTO])
}

func (m *mockTaskService) GetByStatus(ctx context.Context, status domain.TaskStatus) envelope.Response[[]service.TaskDTO] {
	return m.Called(ctx, status).Get(0).(envelope.Response[[]service.TaskDTO])
}

func (m *mockTaskService) GetOverdue(ctx context.Context) envelope.Response[[]service.TaskDTO] {
	return m.Called(ctx).Get(0).(envelope.Response[[]service.TaskDTO])
}

type mockQueryEngine struct {
	mock.Mock
}

func (m *mockQueryEngine) Query(ctx context.Context, q service.TaskQuery) envelope.Response[*service.PagedResult[service.TaskDTO]] {
	return m.Called(ctx, q).Get(0).(envelope.Response[*service.PagedResult[service.TaskDTO]])
}

var (
	_ auth.Service            = (*mockAuthService)(nil)
	_ service.TaskService     = (*mockTaskService)(nil)
	_ service.TaskQueryEngine = (*mockQueryEngine)(nil)
)
