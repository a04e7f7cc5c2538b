package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	app "github.com/oksasatya/passvault/internal/application"
	"github.com/oksasatya/passvault/internal/domain/entity"
)

func newUsersCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(
		newUsersListCmd(open),
		newUsersCreateCmd(open),
		newUsersDeleteCmd(open),
		newUsersPromoteCmd(open),
	)
	return cmd
}

func newUsersListCmd(open opener) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b *backend) error {
				users, err := b.Admin.ListUsers(ctx, limit, offset)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tVERIFIED")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.Email, u.Name, u.Role, u.IsVerified)
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "page size (max 100)")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}

func newUsersCreateCmd(open opener) *cobra.Command {
	var (
		name, password string
		admin          bool
	)
	cmd := &cobra.Command{
		Use:   "create <email>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := entity.RoleUser
			if admin {
				role = entity.RoleAdmin
			}
			return withBackend(cmd, open, func(ctx context.Context, b *backend) error {
				u, err := b.Admin.CreateUser(ctx, app.SignUpInput{Email: args[0], Password: password, Name: name}, role)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) role=%s\n", u.Email, u.ID, u.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUsersDeleteCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <email>",
		Short: "Delete an account with its sessions and avatar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b *backend) error {
				u, err := b.Admin.FindByEmail(ctx, args[0])
				if err != nil {
					return err
				}
				if err := b.Admin.DeleteUser(ctx, "", u.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", u.Email)
				return nil
			})
		},
	}
}

func newUsersPromoteCmd(open opener) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "promote <email>",
		Short: "Set a user's role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b *backend) error {
				u, err := b.Admin.FindByEmail(ctx, args[0])
				if err != nil {
					return err
				}
				u, err = b.Admin.SetRole(ctx, "", u.ID, role)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email, u.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", entity.RoleAdmin, "role to assign (admin or user)")
	return cmd
}
