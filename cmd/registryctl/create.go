package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nasirnaqash/web3-ls/internal/db"
	"github.com/nasirnaqash/web3-ls/internal/registry"
)

func newCreateLinkCmd() *cobra.Command {
	var (
		rawURL  string
		creator string
	)

	cmd := &cobra.Command{
		Use:   "create-link",
		Short: "Register a URL and print its short code",
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

			rec, err := svc.CreateLink(ctx, registry.CreateLinkRequest{
				OriginalURL: rawURL,
				Creator:     creator,
			})
			if err != nil {
				return fmt.Errorf("create link: %w", err)
			}

			cmd.Printf("code: %s\n", rec.ShortCode)
			cmd.Printf("short url: %s/%s\n", cfg.Server.BaseURL, rec.ShortCode)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawURL, "url", "", "URL to register")
	cmd.Flags().StringVar(&creator, "creator", "", "owner of the new link (default: anonymous)")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
