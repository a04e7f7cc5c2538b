package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage the category catalog",
	}
	cmd.AddCommand(newCategoriesListCmd(open), newCategoriesAddCmd(open), newCategoriesDisableCmd(open))
	return cmd
}

func newCategoriesListCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every category, including disabled ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b *backend) error {
				cats, err := b.Catalog.AllCategories(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tACTIVE")
				for _, c := range cats {
					fmt.Fprintf(w, "%s\t%s\t%t\n", c.ID, c.Name, c.IsActive)
				}
				return w.Flush()
			})
		},
	}
}

func newCategoriesAddCmd(open opener) *cobra.Command {
	var icon string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b *backend) error {
				c, err := b.Catalog.CreateCategory(ctx, args[0], icon)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", c.Name, c.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&icon, "icon", "", "icon name")
	return cmd
}

func newCategoriesDisableCmd(open opener) *cobra.Command {
	var enable bool
	cmd := &cobra.Command{
		Use:   "disable <id>",
		Short: "Hide a category from pickers; existing records keep it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, open, func(ctx context.Context, b *backend) error {
				if err := b.Catalog.SetCategoryActive(ctx, args[0], enable); err != nil {
					return err
				}
				state := "disabled"
				if enable {
					state = "enabled"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&enable, "enable", false, "re-enable instead")
	return cmd
}
