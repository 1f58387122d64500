// registryctl is the administrative companion to the registry server. It
// talks to the database directly, so it works even when the server is down.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nasirnaqash/web3-ls/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "registryctl:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "registryctl",
		Short:         "Administrative tool for the short-code registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCmd())
	root.AddCommand(newCreateLinkCmd())
	root.AddCommand(newStatsCmd())

	return root
}

// connect loads configuration and opens a database pool for a subcommand.
// The caller closes the pool.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	// Shares the server's local setup when a .env file is present.
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.ConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	return cfg, pool, nil
}
