package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fuelprice/app"
	coremetrics "github.com/kilianp07/fuelprice/core/metrics"
	"github.com/kilianp07/fuelprice/core/prediction"
	"github.com/kilianp07/fuelprice/core/pricelog"
	"github.com/kilianp07/fuelprice/core/pricing"
	"github.com/kilianp07/fuelprice/infra/logger"
	"github.com/kilianp07/fuelprice/jobs/replay"
)

var (
	daysPath     string
	replayFormat string
	chartPath    string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay consecutive days, carrying each applied price forward",
	RunE:  replayDays,
}

func init() {
	replayCmd.Flags().StringVar(&daysPath, "days", "", "YAML file listing the days to replay")
	replayCmd.Flags().StringVar(&replayFormat, "format", "csv", "output format: csv or json")
	replayCmd.Flags().StringVar(&chartPath, "chart", "", "write an HTML price chart to this file")
	_ = replayCmd.MarkFlagRequired("days")
	rootCmd.AddCommand(replayCmd)
}

func replayDays(cmd *cobra.Command, args []string) error {
	days, err := replay.LoadDays(daysPath)
	if err != nil {
		return fmt.Errorf("load days: %w", err)
	}
	cfg, flush, err := loadConfig()
	if err != nil {
		return err
	}
	defer flush()

	engine, err := pricing.NewEngine(cfg.Pricing, logger.New("pricing"))
	if err != nil {
		return err
	}
	pred, err := prediction.NewPredictor(cfg.Predictor)
	if err != nil {
		return fmt.Errorf("predictor: %w", err)
	}
	// Replayed decisions stay out of the configured history.
	svc := app.NewWithDeps(engine, pred, pricelog.NewMemoryStore(), coremetrics.NopSink{}, logger.New("replay"))
	defer svc.Close()

	results, err := replay.Run(cmd.Context(), svc, days)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch replayFormat {
	case "csv":
		err = replay.WriteCSV(out, results)
	case "json":
		err = replay.WriteJSON(out, results)
	default:
		return fmt.Errorf("unknown format %q", replayFormat)
	}
	if err != nil {
		return err
	}
	if chartPath != "" {
		html, err := replay.ChartHTML(results)
		if err != nil {
			return err
		}
		if err := os.WriteFile(chartPath, []byte(html), 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
	}
	summary, _ := json.Marshal(replay.Summarize(results))
	fmt.Fprintln(cmd.ErrOrStderr(), string(summary))
	return nil
}
