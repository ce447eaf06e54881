package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fuelprice/app"
	"github.com/kilianp07/fuelprice/core/pricing"
	"github.com/kilianp07/fuelprice/jobs/replay"
)

var (
	contextPath   string
	previousPrice float64
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend the price for one day and print the decision as JSON",
	RunE:  recommendDay,
}

func init() {
	recommendCmd.Flags().StringVar(&contextPath, "context", "", "YAML file describing the day")
	recommendCmd.Flags().Float64Var(&previousPrice, "previous-price", 0, "override the previous price")
	_ = recommendCmd.MarkFlagRequired("context")
	rootCmd.AddCommand(recommendCmd)
}

func recommendDay(cmd *cobra.Command, args []string) error {
	day, err := replay.LoadDay(contextPath)
	if err != nil {
		return fmt.Errorf("load context: %w", err)
	}
	if previousPrice > 0 {
		day.PreviousPrice = previousPrice
	}
	cfg, flush, err := loadConfig()
	if err != nil {
		return err
	}
	defer flush()
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	rec, err := svc.Recommend(cmd.Context(), day, "cli")
	if err != nil && !errors.Is(err, pricing.ErrInvalidContext) {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if eerr := enc.Encode(rec); eerr != nil {
		return eerr
	}
	return err
}
