package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fuelprice/app"
	"github.com/kilianp07/fuelprice/config"
	"github.com/kilianp07/fuelprice/core/monitoring"
	"github.com/kilianp07/fuelprice/infra/logger"
	inframon "github.com/kilianp07/fuelprice/infra/monitoring"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "fuelprice",
	Short:        "Daily fuel price recommendation service",
	SilenceUsage: true,
	RunE:         serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recommendation API",
	RunE:  serve,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configuration and installs the error monitor. The
// returned function flushes pending reports.
func loadConfig() (*config.Config, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(mon)
	return cfg, func() { monitoring.Flush(2 * time.Second) }, nil
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, flush, err := loadConfig()
	if err != nil {
		return err
	}
	defer flush()
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
