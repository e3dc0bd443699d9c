package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go-task-manager/internal/event"
	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

type UserService struct {
	users  UserStore
	hasher passwordHasher
	events event.Publisher
}

func NewUserService(users UserStore, hasher passwordHasher, events event.Publisher) *UserService {
	return &UserService{users: users, hasher: hasher, events: events}
}

// UpdateProfile changes the caller's own username and email.
func (s *UserService) UpdateProfile(ctx context.Context, actorID string, req model.UpdateProfileRequest) (model.PublicUser, error) {
	req.Username = cleanLine(req.Username)
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return model.PublicUser{}, err
	}

	user, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return model.PublicUser{}, err
	}

	if req.Email != normalizeEmail(user.Email) {
		if err := s.ensureEmailFree(ctx, req.Email); err != nil {
			return model.PublicUser{}, err
		}
	}

	user.Username = req.Username
	user.Email = req.Email
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return model.PublicUser{}, err
	}

	return user.Public(), nil
}

// ChangePassword replaces the caller's password after checking the current
// one. The active session is left untouched.
func (s *UserService) ChangePassword(ctx context.Context, actorID string, req model.ChangePasswordRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return err
	}
	if !ok {
		return apierror.Unauthenticated("Current password is incorrect")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, user.ID, hash)
}

func (s *UserService) GetUsername(ctx context.Context, id string) (string, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

func (s *UserService) List(ctx context.Context) ([]model.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (model.PublicUser, error) {
	id, err := parseID(id)
	if err != nil {
		return model.PublicUser{}, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

// Update applies the non-empty fields of req to the user with id.
func (s *UserService) Update(ctx context.Context, id string, req model.UpdateUserRequest) (model.PublicUser, error) {
	id, err := parseID(id)
	if err != nil {
		return model.PublicUser{}, err
	}

	req.Username = cleanLine(req.Username)
	req.Email = normalizeEmail(req.Email)
	req.Role = model.Role(strings.ToLower(strings.TrimSpace(string(req.Role))))
	if err := validateStruct(req); err != nil {
		return model.PublicUser{}, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

// Delete removes the user and the tasks assigned to them.
func (s *UserService) Delete(ctx context.Context, actorID string, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}

	removed, err := s.users.DeleteCascade(ctx, id)
	if err != nil {
		return err
	}

	slog.Info("user deleted", "user_id", id, "actor_id", actorID, "tasks_removed", removed)
	s.events.Publish(event.New(event.TypeUserDeleted, actorID, map[string]any{"id": id, "tasksRemoved": removed}))
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return apierror.Conflict("Email already in use", email)
	}
	if apierror.Is(err, apierror.KindNotFound) {
		return nil
	}
	return err
}
