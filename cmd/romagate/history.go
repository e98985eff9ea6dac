package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sentientlabs/romagate/internal/config"
	"github.com/sentientlabs/romagate/internal/state"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent solve dispatches",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		dbPath := cfg.History.Path
		if dbPath == "" {
			dbPath = state.DefaultDBPath()
		}

		db, err := state.Open(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening history db: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		records, err := db.RecentSolves(historyLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading history: %v\n", err)
			os.Exit(1)
		}

		if len(records) == 0 {
			fmt.Println("No solves recorded.")
			return
		}

		for _, rec := range records {
			fmt.Printf("%s  %-10s %-6s %-10s %8dms  %s\n",
				rec.ID, rec.Provider, rec.Tier, rec.State,
				rec.Duration.Milliseconds(),
				rec.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of solves to show")
}
