package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-task-manager/internal/auth"
	"go-task-manager/internal/model"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, req model.RegisterRequest) (model.TokenPair, error) {
	args := m.Called(req)
	return args.Get(0).(model.TokenPair), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, error) {
	args := m.Called(req)
	return args.Get(0).(model.TokenPair), args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (model.AccessToken, error) {
	args := m.Called(refreshToken)
	return args.Get(0).(model.AccessToken), args.Error(1)
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) (model.TokenPair, error) {
	args := m.Called(req)
	return args.Get(0).(model.TokenPair), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(refreshToken).Error(0)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) UpdateProfile(ctx context.Context, actorID string, req model.UpdateProfileRequest) (model.PublicUser, error) {
	args := m.Called(actorID, req)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

func (m *mockUserService) ChangePassword(ctx context.Context, actorID string, req model.ChangePasswordRequest) error {
	return m.Called(actorID, req).Error(0)
}

func (m *mockUserService) GetUsername(ctx context.Context, id string) (string, error) {
	args := m.Called(id)
	return args.String(0), args.Error(1)
}

func (m *mockUserService) List(ctx context.Context) ([]model.PublicUser, error) {
	args := m.Called()
	return args.Get(0).([]model.PublicUser), args.Error(1)
}

func (m *mockUserService) Get(ctx context.Context, id string) (model.PublicUser, error) {
	args := m.Called(id)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (model.PublicUser, error) {
	args := m.Called(id, req)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

func (m *mockUserService) Delete(ctx context.Context, actorID string, id string) error {
	return m.Called(actorID, id).Error(0)
}

type mockTaskService struct {
	mock.Mock
}

func (m *mockTaskService) List(ctx context.Context, id auth.Identity, scope auth.Scope, filter model.TaskFilter) ([]model.Task, error) {
	args := m.Called(id, scope, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *mockTaskService) Get(ctx context.Context, taskID string) (model.Task, error) {
	args := m.Called(taskID)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *mockTaskService) Create(ctx context.Context, actorID string, req model.CreateTaskRequest) (model.Task, error) {
	args := m.Called(actorID, req)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *mockTaskService) Update(ctx context.Context, actorID string, taskID string, req model.UpdateTaskRequest) (model.Task, error) {
	args := m.Called(actorID, taskID, req)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *mockTaskService) Delete(ctx context.Context, actorID string, taskID string) (model.Task, error) {
	args := m.Called(actorID, taskID)
	return args.Get(0).(model.Task), args.Error(1)
}
