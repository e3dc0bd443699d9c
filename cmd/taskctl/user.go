package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"go-task-manager/internal/model"
)

func newUserCmd(connect connectFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administer user accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set-role <email> <role>",
		Short: "Change a user's role (user, manager or admin)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.ToLower(strings.TrimSpace(args[0]))
			role := model.Role(strings.ToLower(strings.TrimSpace(args[1])))
			if !role.Valid() {
				return fmt.Errorf("unknown role %q: must be user, manager or admin", args[1])
			}

			return withBackend(cmd, connect, func(b *backend) error {
				user, err := b.users.FindByEmail(cmd.Context(), email)
				if err != nil {
					return err
				}

				previous := user.Role
				user.Role = role
				user.UpdatedAt = time.Now().UTC()
				if err := b.users.Update(cmd.Context(), user); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", user.Email, previous, role)
				return nil
			})
		},
	})

	return cmd
}
