package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/rpggio/budgetline/internal/domain/budget"
	"github.com/rpggio/budgetline/internal/domain/project"
	"github.com/spf13/cobra"
)

func projectsCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the projects a user owns or collaborates on",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}

			db, services, err := openServices()
			if err != nil {
				return err
			}
			defer closeDB(db)

			owned, err := services.Projects.ListOwned(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("failed to list owned projects: %w", err)
			}
			shared, err := services.Projects.ListShared(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("failed to list shared projects: %w", err)
			}
			if len(owned)+len(shared) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer func() {
				if flushErr := w.Flush(); flushErr != nil {
					slog.Error("failed to flush table writer", "error", flushErr)
				}
			}()

			fmt.Fprintln(w, "ID\tNAME\tROLE\tSTATUS\tBASELINE")
			for _, group := range []struct {
				role     string
				projects []project.Project
			}{{"owner", owned}, {"collaborator", shared}} {
				for _, p := range group.projects {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f %s\n",
						p.ID, p.Name, group.role, p.Status,
						budget.RoundMinor(p.BaselineBudget, p.Currency), p.Currency)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID to list projects for")
	return cmd
}

func reportCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "report <project-id>",
		Short: "Print a project's budget summary as JSON",
		Long: `Recompute the budget summary for a project from its ledgers and print it
as indented JSON. The user must own or collaborate on the project.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}

			db, services, err := openServices()
			if err != nil {
				return err
			}
			defer closeDB(db)

			summary, err := services.Forecasts.GetSummary(cmd.Context(), userID, args[0])
			if err != nil {
				return fmt.Errorf("failed to build summary: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID to act as")
	return cmd
}
