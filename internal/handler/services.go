package handler

import (
	"context"

	"go-task-manager/internal/auth"
	"go-task-manager/internal/model"
)

type authService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.TokenPair, error)
	Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (model.AccessToken, error)
	ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) (model.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type userService interface {
	UpdateProfile(ctx context.Context, actorID string, req model.UpdateProfileRequest) (model.PublicUser, error)
	ChangePassword(ctx context.Context, actorID string, req model.ChangePasswordRequest) error
	GetUsername(ctx context.Context, id string) (string, error)
	List(ctx context.Context) ([]model.PublicUser, error)
	Get(ctx context.Context, id string) (model.PublicUser, error)
	Update(ctx context.Context, id string, req model.UpdateUserRequest) (model.PublicUser, error)
	Delete(ctx context.Context, actorID string, id string) error
}

type taskService interface {
	List(ctx context.Context, id auth.Identity, scope auth.Scope, filter model.TaskFilter) ([]model.Task, error)
	Get(ctx context.Context, taskID string) (model.Task, error)
	Create(ctx context.Context, actorID string, req model.CreateTaskRequest) (model.Task, error)
	Update(ctx context.Context, actorID string, taskID string, req model.UpdateTaskRequest) (model.Task, error)
	Delete(ctx context.Context, actorID string, taskID string) (model.Task, error)
}
