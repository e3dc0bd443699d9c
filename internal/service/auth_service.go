package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

// AuthService drives the session lifecycle. A user holds at most one refresh
// token; issuing a new pair replaces it.
type AuthService struct {
	users  UserStore
	hasher passwordHasher
	tokens tokenIssuer
}

func NewAuthService(users UserStore, hasher passwordHasher, tokens tokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.TokenPair, error) {
	req.Username = cleanLine(req.Username)
	req.Email = normalizeEmail(req.Email)
	req.Role = model.Role(strings.ToLower(strings.TrimSpace(string(req.Role))))

	if err := validateStruct(req); err != nil {
		return model.TokenPair{}, err
	}
	if req.Role == "" {
		req.Role = model.RoleUser
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.TokenPair{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return model.TokenPair{}, err
	}
	user.RefreshToken = &pair.RefreshToken

	if err := s.users.Create(ctx, user); err != nil {
		return model.TokenPair{}, err
	}

	slog.Info("user registered", "user_id", user.ID, "role", user.Role)
	return pair, nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, error) {
	if err := validateStruct(req); err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if apierror.Is(err, apierror.KindNotFound) {
		return model.TokenPair{}, apierror.Unauthenticated("Invalid credentials")
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, err
	}
	if !ok {
		slog.Debug("login rejected", "user_id", user.ID)
		return model.TokenPair{}, apierror.Unauthenticated("Invalid credentials")
	}

	return s.startSession(ctx, user)
}

// Refresh mints a new access token for a refresh token that is both valid
// and still the user's active one. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.AccessToken, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return model.AccessToken{}, apierror.Unauthenticated("Refresh token is required")
	}

	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return model.AccessToken{}, apierror.Unauthenticated("Invalid or expired refresh token").Wrap(err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if apierror.Is(err, apierror.KindNotFound) {
		return model.AccessToken{}, apierror.Unauthenticated("Invalid refresh token")
	}
	if err != nil {
		return model.AccessToken{}, err
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		return model.AccessToken{}, apierror.Unauthenticated("Invalid refresh token")
	}

	access, err := s.tokens.IssueAccess(user)
	if err != nil {
		return model.AccessToken{}, err
	}

	return model.AccessToken{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// ForgotPassword resets the password of the account matching email and
// starts a fresh session, exactly like a login.
func (s *AuthService) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) (model.TokenPair, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if apierror.Is(err, apierror.KindNotFound) {
		return model.TokenPair{}, apierror.NotFound("No account found with that email", "")
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return model.TokenPair{}, err
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.users.ResetPassword(ctx, user.ID, hash, pair.RefreshToken); err != nil {
		return model.TokenPair{}, err
	}

	slog.Info("password reset", "user_id", user.ID)
	return pair, nil
}

// Logout ends whichever session holds refreshToken. Unknown tokens succeed.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return apierror.Validation("Refresh token is required", "refreshToken")
	}

	cleared, err := s.users.ClearRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if cleared {
		slog.Debug("session ended")
	}
	return nil
}

func (s *AuthService) startSession(ctx context.Context, user model.User) (model.TokenPair, error) {
	pair, err := s.tokens.Issue(user)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return model.TokenPair{}, err
	}

	return pair, nil
}
