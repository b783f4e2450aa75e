package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	cachesqlite "github.com/dg-workos/opsassist/pkg/cache/sqlite"
	"github.com/dg-workos/opsassist/pkg/config"
)

func newCacheCmd() *cobra.Command {
	var configPath string
	var sweep bool

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show answer cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			c, err := cachesqlite.New(cfg.DBPath, cfg.Cache.CheapTTL, cfg.Cache.StandardTTL, cfg.Cache.MaxQuestion)
			if err != nil {
				return fmt.Errorf("init cache: %w", err)
			}
			defer func() { _ = c.Close() }()

			ctx := context.Background()
			if sweep {
				n, err := c.SweepExpired(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Removed %d expired entries\n", n)
			}

			stats, err := c.Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Entries: %d\n", stats.Entries)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "opsassist.yaml", "path to config file")
	cmd.Flags().BoolVar(&sweep, "sweep", false, "remove expired entries first")
	return cmd
}
