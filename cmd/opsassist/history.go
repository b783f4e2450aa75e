package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dg-workos/opsassist/pkg/audit"
	"github.com/dg-workos/opsassist/pkg/config"
	"github.com/dg-workos/opsassist/pkg/models"
)

func newHistoryCmd() *cobra.Command {
	var configPath string
	var tier string
	var since string
	var limit int
	var stats bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent assistant questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			al, err := audit.New(cfg.DBPath, 0)
			if err != nil {
				return fmt.Errorf("open audit db: %w", err)
			}
			defer func() { _ = al.Close() }()

			ctx := context.Background()
			if stats {
				rows, err := al.Stats(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "DAY\tTIER\tQUESTIONS")
				for _, s := range rows {
					fmt.Fprintf(w, "%s\t%s\t%d\n", s.Day, s.Tier, s.Count)
				}
				return w.Flush()
			}

			opts := models.AuditQueryOpts{Tier: tier, Limit: limit}
			if since != "" {
				d, err := time.ParseDuration(since)
				if err != nil {
					return fmt.Errorf("parse --since: %w", err)
				}
				opts.Since = time.Now().UTC().Add(-d)
			}

			entries, err := al.Query(ctx, opts)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tTIER\tCACHED\tTOKENS\tMS\tQUESTION")
			for _, e := range entries {
				q := e.Question
				if len(q) > 60 {
					q = q[:57] + "..."
				}
				cached := ""
				if e.Cached {
					cached = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					e.CreatedAt.Local().Format("Jan 02 15:04"), e.EffectiveTier, cached, e.TotalTokens, e.LatencyMs, q)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "opsassist.yaml", "path to config file")
	cmd.Flags().StringVar(&tier, "tier", "", "filter by effective tier (cheap, standard, deep)")
	cmd.Flags().StringVar(&since, "since", "", "only entries newer than this duration (e.g. 24h)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum entries to show")
	cmd.Flags().BoolVar(&stats, "stats", false, "show per-day per-tier counts instead")
	return cmd
}
