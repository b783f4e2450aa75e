package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "opsassist",
		Short:   "AI assistant cost-control service for the ministry work OS",
		Version: version,
	}

	root.AddCommand(
		newServeCmd(),
		newBudgetCmd(),
		newCacheCmd(),
		newHistoryCmd(),
		newSeedCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
