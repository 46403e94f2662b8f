package main

import (
	"errors"
	"fmt"

	"github.com/rpggio/budgetline/internal/sqlite"
	"github.com/spf13/cobra"
)

func apiKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys",
		Long: `API keys authenticate MCP and REST callers in HTTP mode. Only a SHA-256
hash of each key is stored, so a key is shown once when it is created.`,
	}

	cmd.AddCommand(apiKeyCreateCmd())
	cmd.AddCommand(apiKeyRevokeCmd())

	return cmd
}

func apiKeyCreateCmd() *cobra.Command {
	var userID, email, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a new API key for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}

			db, services, err := openServices()
			if err != nil {
				return err
			}
			defer closeDB(db)

			token, err := sqlite.GenerateToken()
			if err != nil {
				return err
			}
			if err := services.APIKeys.Create(cmd.Context(), token, userID, email, description); err != nil {
				return fmt.Errorf("failed to store api key: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user ID the key authenticates as")
	cmd.Flags().StringVar(&email, "email", "", "email used to match project invitations")
	cmd.Flags().StringVar(&description, "description", "", "free-form note about the key")

	return cmd
}

func apiKeyRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <user-id>",
		Short: "Revoke every API key belonging to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, services, err := openServices()
			if err != nil {
				return err
			}
			defer closeDB(db)

			n, err := services.APIKeys.Revoke(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to revoke api keys: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %d key(s) for %s\n", n, args[0])
			return nil
		},
	}
}
