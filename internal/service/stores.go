package service

import (
	"context"
	"time"

	"go-task-manager/internal/model"
)

type UserStore interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, u model.User) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	ResetPassword(ctx context.Context, userID string, passwordHash string, refreshToken string) error
	SetRefreshToken(ctx context.Context, userID string, refreshToken string) error
	ClearRefreshToken(ctx context.Context, refreshToken string) (bool, error)
	DeleteCascade(ctx context.Context, id string) (int64, error)
}

type TaskStore interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	FindByID(ctx context.Context, id string) (model.Task, error)
	List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	SoftDelete(ctx context.Context, id string) (model.Task, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password string, hashed string) (bool, error)
}

type tokenIssuer interface {
	Issue(user model.User) (model.TokenPair, error)
	IssueAccess(user model.User) (string, error)
	VerifyRefresh(token string) (string, error)
	AccessTTL() time.Duration
}
