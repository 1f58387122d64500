package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nasirnaqash/web3-ls/internal/db"
	"github.com/nasirnaqash/web3-ls/internal/registry"
)

func newStatsCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print lifetime creation totals",
		Long: `Print how many records were ever created per namespace. The totals
are monotonic: deleting a record does not decrement them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := registry.NewRepository(db.New(pool))
			svc := registry.NewService(repo, &registry.ServiceConfig{
				CodeLength:      cfg.Registry.CodeLength,
				CodeMaxAttempts: cfg.Registry.CodeMaxAttempts,
				OwnerPageSize:   cfg.Registry.OwnerPageSize,
			})

			if namespace != "" {
				total, err := svc.TotalCount(ctx, registry.Namespace(namespace))
				if err != nil {
					return fmt.Errorf("total count: %w", err)
				}
				cmd.Printf("%s: %d\n", namespace, total)
				return nil
			}

			stats, err := svc.Stats(ctx)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}

			cmd.Printf("links: %d\n", stats.TotalLinks)
			cmd.Printf("media: %d\n", stats.TotalMedia)
			return nil
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "restrict to one namespace (link or media)")

	return cmd
}
