package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/roster-wins/internal/dataset"
	"github.com/yourusername/roster-wins/internal/predict"
	"github.com/yourusername/roster-wins/internal/service"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, training data and model status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		return displayStatus(ctx)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func displayStatus(ctx context.Context) error {
	fmt.Println("Configuration:")
	fmt.Printf("  Environment: %s\n", cfg.App.Environment)
	fmt.Printf("  Seasons: %s to %s (exclusive)\n", cfg.DataSource.SeasonStart, cfg.DataSource.SeasonEnd)
	fmt.Printf("  Stats service: %s\n", cfg.DataSource.BaseURL)
	fmt.Printf("  Search: %d candidates, %d folds, seed %d\n", cfg.Training.NIter, cfg.Training.Folds, cfg.Training.Seed)
	if cfg.Training.RetrainCron != "" {
		fmt.Printf("  Retrain schedule: %s\n", cfg.Training.RetrainCron)
	}

	fmt.Println("\nTraining data:")
	if info, err := os.Stat(cfg.Training.DataPath); err != nil {
		fmt.Printf("  %s: missing\n", cfg.Training.DataPath)
	} else if rows, err := dataset.ReadFile(cfg.Training.DataPath); err != nil {
		fmt.Printf("  %s: unreadable (%v)\n", cfg.Training.DataPath, err)
	} else {
		fmt.Printf("  %s: %d team-seasons, updated %s\n", cfg.Training.DataPath, len(rows), info.ModTime().Format(time.RFC3339))
	}

	d, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	fmt.Println("\nModel:")
	holder := predict.NewHolder(nil)
	loader := service.NewTrainingService(nil, d.store, holder, nil, "", appLog)
	if err := loader.LoadActive(ctx); err != nil {
		fmt.Printf("  not available (%v)\n", err)
	} else {
		info, err := service.NewPredictionService(holder, nil, appLog).ModelInfo()
		if err != nil {
			return err
		}
		fmt.Printf("  ID: %s\n", info.ID)
		fmt.Printf("  Trained: %s\n", info.TrainedAt.Format(time.RFC3339))
		fmt.Printf("  Features: %d\n", info.NumFeatures)
		fmt.Printf("  %s\n", info.Equation)
		if cv, ok := info.Metrics["cv_r2"]; ok {
			fmt.Printf("  CV R²: %.4f\n", cv)
		}
	}

	if d.repos != nil {
		fmt.Println("\nRegistry versions:")
		records, err := d.repos.Model.List(ctx, cfg.Model.RegistryName)
		if err != nil {
			return err
		}
		for _, r := range records {
			marker := " "
			if r.IsActive() {
				marker = "*"
			}
			fmt.Printf("  %s %s  %s\n", marker, r.Version, r.ID)
		}
		if len(records) == 0 {
			fmt.Println("  none")
		}
	}

	fmt.Println()
	return nil
}
