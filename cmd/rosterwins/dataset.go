package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/roster-wins/internal/dataset"
	"github.com/yourusername/roster-wins/internal/datasource"
)

var (
	datasetStart    string
	datasetEnd      string
	datasetOut      string
	datasetShooting bool
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Manage the training table",
}

var datasetBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble team-season rosters and wins from the stats service",
	Long: `Fetches team and player per-game tables for each season in [start, end),
keeps the top players by minutes per team and writes the training CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start := firstNonEmpty(datasetStart, cfg.DataSource.SeasonStart)
		end := firstNonEmpty(datasetEnd, cfg.DataSource.SeasonEnd)
		out := firstNonEmpty(datasetOut, cfg.Training.DataPath)

		seasons, err := dataset.Seasons(start, end)
		if err != nil {
			return err
		}

		factory := datasource.NewFactory(cfg, appLog)
		client := factory.NewStatsClient()
		defer client.Close()

		assembler := dataset.NewAssembler(client, dataset.AssemblerConfig{
			PlayersPerRoster: cfg.DataSource.PlayersPerRoster,
			Pacing:           cfg.DataSource.Pacing(),
			IncludeShooting:  datasetShooting,
		}, appLog)

		rows, report, err := assembler.Build(cmd.Context(), seasons)
		if err != nil {
			return fmt.Errorf("dataset build failed: %w", err)
		}
		if err := dataset.WriteFile(out, rows); err != nil {
			return err
		}

		fmt.Printf("Wrote %d team-seasons across %d seasons to %s\n", report.Rows, len(report.Seasons), out)
		for _, s := range report.Skipped {
			fmt.Printf("  skipped %s %s: %s\n", s.Team, s.Season, s.Reason)
		}
		return nil
	},
}

func init() {
	datasetBuildCmd.Flags().StringVar(&datasetStart, "start", "", "First season, e.g. 2001-02 (default from config)")
	datasetBuildCmd.Flags().StringVar(&datasetEnd, "end", "", "Season to stop before, e.g. 2024-25 (default from config)")
	datasetBuildCmd.Flags().StringVarP(&datasetOut, "out", "o", "", "Output CSV path (default training.data_path)")
	datasetBuildCmd.Flags().BoolVar(&datasetShooting, "shooting", false, "Include shooting volume columns")

	datasetCmd.AddCommand(datasetBuildCmd)
	rootCmd.AddCommand(datasetCmd)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
