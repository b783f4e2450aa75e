package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dg-workos/opsassist/pkg/config"
	"github.com/dg-workos/opsassist/pkg/store"
)

func newSeedCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo operational data into the ops database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ops, err := store.Open(cfg.OpsDB)
			if err != nil {
				return fmt.Errorf("open ops db: %w", err)
			}
			defer func() { _ = ops.Close() }()

			if err := ops.Seed(context.Background()); err != nil {
				return err
			}
			fmt.Printf("Seeded demo data into %s\n", cfg.OpsDB)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "opsassist.yaml", "path to config file")
	return cmd
}
