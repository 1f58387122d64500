package main

import (
	"github.com/spf13/cobra"

	"github.com/nasirnaqash/web3-ls/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the registry schema to the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool); err != nil {
				return err
			}

			cmd.Println("schema applied")
			return nil
		},
	}
}
