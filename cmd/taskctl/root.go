package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go-task-manager/internal/config"
	"go-task-manager/internal/database"
	"go-task-manager/internal/logger"
	"go-task-manager/internal/model"
	"go-task-manager/internal/repository"
)

type migrator interface {
	Migrate(ctx context.Context) error
	Rollback(ctx context.Context) error
	MigrationStatus(ctx context.Context) ([]database.MigrationStatus, error)
}

type userAdmin interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Update(ctx context.Context, u model.User) error
}

// backend is what a command needs from the database; close releases it.
type backend struct {
	migrations migrator
	users      userAdmin
	close      func()
}

type connectFunc func(ctx context.Context) (*backend, error)

func connectDatabase(ctx context.Context) (*backend, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.New(os.Stderr, "pretty", cfg.LogLevel))

	db, err := database.New(ctx, database.PoolConfig{URL: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return &backend{
		migrations: db,
		users:      repository.NewUserRepository(db.Pool),
		close:      db.Close,
	}, nil
}

func newRootCmd(connect connectFunc) *cobra.Command {
	root := &cobra.Command{
		Use:          "taskctl",
		Short:        "Operator tooling for the task manager",
		SilenceUsage: true,
	}

	root.AddCommand(newMigrateCmd(connect), newUserCmd(connect))
	return root
}

// withBackend connects, runs fn and always releases the connection.
func withBackend(cmd *cobra.Command, connect connectFunc, fn func(*backend) error) error {
	b, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer b.close()

	return fn(b)
}
