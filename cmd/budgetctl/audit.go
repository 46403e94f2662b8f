package main

import (
	"errors"
	"fmt"

	"github.com/rpggio/budgetline/internal/domain/activity"
	"github.com/spf13/cobra"
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect project audit logs",
	}
	cmd.AddCommand(auditExportCmd())
	return cmd
}

func auditExportCmd() *cobra.Command {
	var (
		userID string
		action string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "export <project-id>",
		Short: "Export a project's audit log as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}

			db, services, err := openServices()
			if err != nil {
				return err
			}
			defer closeDB(db)

			opts := activity.ListOptions{ProjectID: args[0], Limit: limit}
			if action != "" {
				a := activity.Action(action)
				opts.Action = &a
			}

			entries, err := services.Audit.List(cmd.Context(), userID, opts)
			if err != nil {
				return fmt.Errorf("failed to list audit entries: %w", err)
			}
			return activity.WriteCSV(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID to act as")
	cmd.Flags().StringVar(&action, "action", "", "only export entries with this action")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum entries (default: server audit limit)")
	return cmd
}
