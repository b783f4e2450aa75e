package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dg-workos/opsassist/pkg/budget"
	"github.com/dg-workos/opsassist/pkg/config"
	"github.com/dg-workos/opsassist/pkg/tracker"
)

func newBudgetCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show today's token budget position",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			tr, err := tracker.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("init tracker: %w", err)
			}
			defer func() { _ = tr.Close() }()

			ctx := context.Background()
			b := budget.New(cfg.Budget.DailyLimit, cfg.Budget.WarnPct, cfg.Budget.CapPct, tr, nil)
			if err := b.Preload(ctx); err != nil {
				return err
			}

			st := b.Status()
			fmt.Printf("Used today: %d / %d tokens (%.1f%%)\n", st.UsedToday, st.DailyLimit, st.Pct*100)
			fmt.Printf("Tier cap:   %s\n", st.TierCap)
			if st.Warning != "" {
				fmt.Printf("Warning:    %s\n", st.Warning)
			}

			summaries, err := tr.Summary(ctx)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "\nTIER\tREQUESTS\tINPUT\tOUTPUT\tTOTAL")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", s.Tier, s.RequestCount, s.TotalInput, s.TotalOutput, s.TotalTokens)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "opsassist.yaml", "path to config file")
	return cmd
}
