package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yourusername/roster-wins/internal/service"
	"github.com/yourusername/roster-wins/internal/training"
)

var (
	trainData  string
	trainNIter int
	trainSeed  int64
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit, calibrate and persist a win model from the training table",
	RunE: func(cmd *cobra.Command, args []string) error {
		if trainData != "" {
			cfg.Training.DataPath = trainData
		}
		if cmd.Flags().Changed("n-iter") {
			cfg.Training.NIter = trainNIter
		}
		if cmd.Flags().Changed("seed") {
			cfg.Training.Seed = trainSeed
		}

		d, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		svc := service.NewTrainingService(newTrainer(), d.store, nil, nil, cfg.Training.DataPath, appLog)
		model, report, err := svc.TrainFromFile(cmd.Context(), service.TriggerManual)
		if err != nil {
			return fmt.Errorf("training failed: %w", err)
		}

		printReport(report)
		fmt.Printf("\nModel %s saved (%d features)\n", model.ID(), model.NumFeatures())
		return nil
	},
}

func init() {
	trainCmd.Flags().StringVar(&trainData, "data", "", "Training CSV (default training.data_path)")
	trainCmd.Flags().IntVar(&trainNIter, "n-iter", 0, "Number of search candidates")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 0, "Random seed for search and folds")
	rootCmd.AddCommand(trainCmd)
}

func printReport(r *training.Report) {
	fmt.Printf("Training rows: %d (skipped %d)\n", r.Rows, r.Skipped)
	fmt.Printf("Features: %d\n", len(r.Features))
	fmt.Printf("Search: %d candidates, best CV R² %.4f\n", r.Candidates, r.Best.MeanScore)
	fmt.Println("Best hyperparameters:")
	fields := training.ParamsFields(r.Best.Params)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %-18s %v\n", k, fields[k])
	}
	fmt.Printf("Calibration: Wins = %.4f + %.4f * raw_pred\n", r.Alpha, r.Beta)
	fmt.Printf("Train R² raw %.4f, calibrated %.4f\n", r.R2Raw, r.R2Cal)
	fmt.Printf("Train RMSE raw %.3f, calibrated %.3f\n", r.RMSERaw, r.RMSECal)
	fmt.Printf("Duration: %s\n", r.Duration)
}
