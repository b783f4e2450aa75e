package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dg-workos/opsassist/pkg/answer"
	"github.com/dg-workos/opsassist/pkg/audit"
	"github.com/dg-workos/opsassist/pkg/budget"
	cachesqlite "github.com/dg-workos/opsassist/pkg/cache/sqlite"
	"github.com/dg-workos/opsassist/pkg/config"
	"github.com/dg-workos/opsassist/pkg/llm"
	"github.com/dg-workos/opsassist/pkg/server"
	"github.com/dg-workos/opsassist/pkg/snapshot"
	"github.com/dg-workos/opsassist/pkg/store"
	"github.com/dg-workos/opsassist/pkg/tracker"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the assistant server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			tr, err := tracker.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("init tracker: %w", err)
			}
			defer func() { _ = tr.Close() }()

			var cache *cachesqlite.Cache
			if cfg.Cache.Enabled {
				cache, err = cachesqlite.New(cfg.DBPath, cfg.Cache.CheapTTL, cfg.Cache.StandardTTL, cfg.Cache.MaxQuestion)
				if err != nil {
					return fmt.Errorf("init cache: %w", err)
				}
				defer func() { _ = cache.Close() }()
			}

			ops, err := store.Open(cfg.OpsDB)
			if err != nil {
				return fmt.Errorf("open ops db: %w", err)
			}
			defer func() { _ = ops.Close() }()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			b := budget.New(cfg.Budget.DailyLimit, cfg.Budget.WarnPct, cfg.Budget.CapPct, tr, log)
			if err := b.Preload(ctx); err != nil {
				log.Warn("budget preload failed, starting from zero", zap.Error(err))
			}

			var auditor answer.Auditor
			if cfg.Audit.Enabled {
				al, err := audit.New(cfg.DBPath, cfg.Audit.RetentionDays)
				if err != nil {
					return fmt.Errorf("init audit: %w", err)
				}
				defer func() { _ = al.Close() }()
				auditor = al
			}

			asm := snapshot.New(snapshot.StoreSources(ops), cfg.Scoring, cfg.Snapshot, log)
			streamer := answer.New(cache, b, asm, llm.New(cfg.Model), auditor, cfg.Model.Tiers, log)

			srv := server.New(cfg, streamer, b, cache, log)
			log.Info("starting opsassist", zap.String("config", configPath))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "opsassist.yaml", "path to config file")
	return cmd
}
