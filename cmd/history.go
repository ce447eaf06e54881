package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fuelprice/config"
	"github.com/kilianp07/fuelprice/core/pricelog"
)

var (
	historyStart   string
	historyEnd     string
	historyOutcome string
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print stored price decisions",
	RunE:  printHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyStart, "start", "", "first day, YYYY-MM-DD")
	historyCmd.Flags().StringVar(&historyEnd, "end", "", "last day, YYYY-MM-DD")
	historyCmd.Flags().StringVar(&historyOutcome, "outcome", "", "only records with this outcome")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "keep the most recent N records")
	rootCmd.AddCommand(historyCmd)
}

func printHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	q := pricelog.LogQuery{Outcome: historyOutcome, Limit: historyLimit}
	if historyStart != "" {
		if q.Start, err = time.Parse(time.DateOnly, historyStart); err != nil {
			return fmt.Errorf("start: %w", err)
		}
	}
	if historyEnd != "" {
		if q.End, err = time.Parse(time.DateOnly, historyEnd); err != nil {
			return fmt.Errorf("end: %w", err)
		}
	}
	store, err := pricelog.NewStore(cfg.History)
	if err != nil {
		return err
	}
	defer store.Close()
	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}
