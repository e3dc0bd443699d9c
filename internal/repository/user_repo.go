package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

const userColumns = `id, username, email, password_hash, role, refresh_token, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, refresh_token, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.RefreshToken, u.CreatedAt, u.UpdatedAt)
	if pgCode(err) == pgUniqueViolation {
		return apierror.Conflict("User already exists with this email", u.Email).Wrap(err)
	}
	if pgCode(err) == pgCheckViolation {
		return apierror.Validation("Invalid role", string(u.Role)).Wrap(err)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.NotFound("User not found", id)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, apierror.NotFound("User not found", email)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update writes the mutable profile fields and role.
func (r *UserRepository) Update(ctx context.Context, u model.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET username = $2, email = $3, role = $4, updated_at = $5 WHERE id = $1`,
		u.ID, u.Username, u.Email, u.Role, u.UpdatedAt)
	if pgCode(err) == pgUniqueViolation {
		return apierror.Conflict("Email already in use", u.Email).Wrap(err)
	}
	if pgCode(err) == pgCheckViolation {
		return apierror.Validation("Invalid role", string(u.Role)).Wrap(err)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("User not found", u.ID)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		userID, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("User not found", userID)
	}
	return nil
}

// ResetPassword replaces the password hash and the active refresh token in
// one statement.
func (r *UserRepository) ResetPassword(ctx context.Context, userID string, passwordHash string, refreshToken string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, refresh_token = $3, updated_at = $4 WHERE id = $1`,
		userID, passwordHash, refreshToken, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("User not found", userID)
	}
	return nil
}

// SetRefreshToken overwrites the user's active refresh token. Concurrent
// writers race and the last one wins.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID string, refreshToken string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = $3 WHERE id = $1`,
		userID, refreshToken, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("User not found", userID)
	}
	return nil
}

// ClearRefreshToken ends the session holding refreshToken. It reports
// whether any user held it.
func (r *UserRepository) ClearRefreshToken(ctx context.Context, refreshToken string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token = NULL, updated_at = $2 WHERE refresh_token = $1`,
		refreshToken, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("clear refresh token: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteCascade removes the user and every task assigned to them.
func (r *UserRepository) DeleteCascade(ctx context.Context, id string) (int64, error) {
	var removedTasks int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE assigned_to = $1`, id)
		if err != nil {
			return fmt.Errorf("delete assigned tasks: %w", err)
		}
		removedTasks = tag.RowsAffected()

		tag, err = tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apierror.NotFound("User not found", id)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removedTasks, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
