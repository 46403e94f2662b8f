// Command budgetctl is the operator CLI: API key management and offline
// reports against the server's SQLite database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	dbPath  string
	rootCmd = &cobra.Command{
		Use:   "budgetctl",
		Short: "Operate a budgetline database",
		Long: `budgetctl manages API keys and exports project reports directly from the
budgetline SQLite database. It honours the same BUDGETLINE_* environment
variables and config file as the server.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: BUDGETLINE_DB_PATH or config)")

	rootCmd.AddCommand(apiKeyCmd())
	rootCmd.AddCommand(projectsCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(auditCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received interrupt signal, shutting down")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
