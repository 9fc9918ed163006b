package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"civicreporter-be/analytics"
	"civicreporter-be/config"
	"civicreporter-be/reports"
	"civicreporter-be/utils"
)

const storeCallTimeout = 10 * time.Second

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the current analytics snapshot as YAML",
	RunE:  runStats,
}

type statsOutput struct {
	GeneratedAt        string `yaml:"generated_at"`
	analytics.Snapshot `yaml:",inline"`
	MonthlyGrowth      float64 `yaml:"monthly_growth_percent"`
	ActiveReports      int     `yaml:"active_reports"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	be, err := openBackend(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer be.close()

	repo := reports.NewRepository(be.store, nil, nil, logger, nil)
	ctx, cancel := context.WithTimeout(cmd.Context(), storeCallTimeout)
	defer cancel()

	all, err := repo.ListReports(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	out := newStatsOutput(analytics.Aggregate(all, now), now)
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(out)
}

func newStatsOutput(s analytics.Snapshot, now time.Time) statsOutput {
	return statsOutput{
		GeneratedAt:   utils.FormatDateTime(now),
		Snapshot:      s,
		MonthlyGrowth: analytics.MonthlyGrowth(s),
		ActiveReports: analytics.ActiveReports(s),
	}
}
