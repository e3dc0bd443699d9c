package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"go-task-manager/internal/event"
	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, u model.User) error {
	return m.Called(u).Error(0)
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserStore) Update(ctx context.Context, u model.User) error {
	return m.Called(u).Error(0)
}

func (m *MockUserStore) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	return m.Called(userID, passwordHash).Error(0)
}

func (m *MockUserStore) ResetPassword(ctx context.Context, userID string, passwordHash string, refreshToken string) error {
	return m.Called(userID, passwordHash, refreshToken).Error(0)
}

func (m *MockUserStore) SetRefreshToken(ctx context.Context, userID string, refreshToken string) error {
	return m.Called(userID, refreshToken).Error(0)
}

func (m *MockUserStore) ClearRefreshToken(ctx context.Context, refreshToken string) (bool, error) {
	args := m.Called(refreshToken)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserStore) DeleteCascade(ctx context.Context, id string) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(t)
	if fn, ok := args.Get(0).(func(model.Task) model.Task); ok {
		return fn(t), args.Error(1)
	}
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskStore) FindByID(ctx context.Context, id string) (model.Task, error) {
	args := m.Called(id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskStore) List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(t)
	if fn, ok := args.Get(0).(func(model.Task) model.Task); ok {
		return fn(t), args.Error(1)
	}
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskStore) SoftDelete(ctx context.Context, id string) (model.Task, error) {
	args := m.Called(id)
	return args.Get(0).(model.Task), args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// memUserStore keeps users in a map so session tests can run several calls
// against shared state.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]model.User{}}
}

func (s *memUserStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return apierror.Conflict("User already exists with this email", u.Email)
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *memUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, apierror.NotFound("User not found", id)
	}
	return u, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, apierror.NotFound("User not found", email)
}

func (s *memUserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *memUserStore) Update(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return apierror.NotFound("User not found", u.ID)
	}
	s.users[u.ID] = u
	return nil
}

func (s *memUserStore) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	return s.mutate(userID, func(u *model.User) { u.PasswordHash = passwordHash })
}

func (s *memUserStore) ResetPassword(_ context.Context, userID string, passwordHash string, refreshToken string) error {
	return s.mutate(userID, func(u *model.User) {
		u.PasswordHash = passwordHash
		u.RefreshToken = &refreshToken
	})
}

func (s *memUserStore) SetRefreshToken(_ context.Context, userID string, refreshToken string) error {
	return s.mutate(userID, func(u *model.User) { u.RefreshToken = &refreshToken })
}

func (s *memUserStore) ClearRefreshToken(_ context.Context, refreshToken string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.RefreshToken != nil && *u.RefreshToken == refreshToken {
			u.RefreshToken = nil
			s.users[id] = u
			return true, nil
		}
	}
	return false, nil
}

func (s *memUserStore) DeleteCascade(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return 0, apierror.NotFound("User not found", id)
	}
	delete(s.users, id)
	return 0, nil
}

func (s *memUserStore) mutate(id string, fn func(*model.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apierror.NotFound("User not found", id)
	}
	fn(&u)
	s.users[id] = u
	return nil
}
