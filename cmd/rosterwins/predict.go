package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/roster-wins/internal/datasource"
	"github.com/yourusername/roster-wins/internal/models"
	"github.com/yourusername/roster-wins/internal/predict"
	"github.com/yourusername/roster-wins/internal/service"
)

var (
	predictRoster      string
	predictTop         int
	predictJSON        bool
	predictInteractive bool

	compareFirst      []string
	compareSecond     []string
	compareFirstFile  string
	compareSecondFile string
)

var predictCmd = &cobra.Command{
	Use:   "predict [player names...]",
	Short: "Predict season wins for up to five players",
	Long: `Predicts regular-season wins for a roster given either player names,
resolved to their latest season through the stats service, or a JSON file of
per-game stat lines (--roster).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, lookup, cleanup, err := predictionService(ctx, len(args) > 0 || predictInteractive)
		if err != nil {
			return err
		}
		defer cleanup()

		var roster models.RosterRecord
		switch {
		case predictInteractive:
			roster, err = promptRoster(ctx, lookup, os.Stdin, os.Stdout)
		case predictRoster != "":
			roster, err = readRosterFile(predictRoster)
		case len(args) > 0:
			roster, err = svc.Resolve(ctx, args)
		default:
			return fmt.Errorf("give player names, --roster or --interactive")
		}
		if err != nil {
			return err
		}

		pred, err := svc.Predict(ctx, service.SourceCLI, roster, predictTop)
		if err != nil {
			return err
		}
		if predictJSON {
			return printJSON(pred)
		}
		printPrediction(pred)
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare predicted wins of two rosters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		needLookup := len(compareFirst) > 0 || len(compareSecond) > 0
		svc, _, cleanup, err := predictionService(ctx, needLookup)
		if err != nil {
			return err
		}
		defer cleanup()

		first, err := rosterFrom(ctx, svc, compareFirst, compareFirstFile)
		if err != nil {
			return fmt.Errorf("first roster: %w", err)
		}
		second, err := rosterFrom(ctx, svc, compareSecond, compareSecondFile)
		if err != nil {
			return fmt.Errorf("second roster: %w", err)
		}

		cmp, err := svc.Compare(ctx, service.SourceCLI, first, second, predictTop)
		if err != nil {
			return err
		}
		if predictJSON {
			return printJSON(cmp)
		}

		fmt.Println("Roster A")
		printPrediction(cmp.First)
		fmt.Println("\nRoster B")
		printPrediction(cmp.Second)
		fmt.Printf("\nDifference (A - B): %+.1f wins\n", cmp.Difference)
		if cmp.ImportanceScope == predict.ScopeModelGlobal {
			fmt.Println("Strengths are model-wide importances and rank the same for both rosters.")
		}
		return nil
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictRoster, "roster", "", "JSON file holding an array of per-game stat lines")
	predictCmd.Flags().BoolVarP(&predictInteractive, "interactive", "i", false, "Prompt for player names")
	predictCmd.Flags().IntVarP(&predictTop, "top", "n", predict.DefaultStrengths, "Number of strengths to show")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "Print JSON")

	compareCmd.Flags().StringSliceVar(&compareFirst, "first", nil, "Comma-separated player names of roster A")
	compareCmd.Flags().StringSliceVar(&compareSecond, "second", nil, "Comma-separated player names of roster B")
	compareCmd.Flags().StringVar(&compareFirstFile, "first-file", "", "Stat line JSON file of roster A")
	compareCmd.Flags().StringVar(&compareSecondFile, "second-file", "", "Stat line JSON file of roster B")
	compareCmd.Flags().IntVarP(&predictTop, "top", "n", predict.DefaultStrengths, "Number of strengths to show")
	compareCmd.Flags().BoolVar(&predictJSON, "json", false, "Print JSON")

	rootCmd.AddCommand(predictCmd, compareCmd)
}

// predictionService loads the stored model into a fresh holder
func predictionService(ctx context.Context, withLookup bool) (*service.PredictionService, datasource.PlayerLookup, func(), error) {
	d, err := openStore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	holder := predict.NewHolder(nil)
	loader := service.NewTrainingService(nil, d.store, holder, nil, "", appLog)
	if err := loader.LoadActive(ctx); err != nil {
		d.Close()
		return nil, nil, nil, fmt.Errorf("failed to load model (run 'rosterwins train' first): %w", err)
	}

	var lookup datasource.PlayerLookup
	if withLookup {
		l, err := newLookup()
		if err != nil {
			d.Close()
			return nil, nil, nil, err
		}
		lookup = l
	}
	return service.NewPredictionService(holder, lookup, appLog), lookup, d.Close, nil
}

func rosterFrom(ctx context.Context, svc *service.PredictionService, names []string, file string) (models.RosterRecord, error) {
	switch {
	case len(names) > 0 && file != "":
		return models.RosterRecord{}, fmt.Errorf("give names or a file, not both")
	case file != "":
		return readRosterFile(file)
	default:
		return svc.Resolve(ctx, names)
	}
}

func readRosterFile(path string) (models.RosterRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.RosterRecord{}, fmt.Errorf("failed to read roster: %w", err)
	}
	var lines []*models.PlayerStatLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return models.RosterRecord{}, fmt.Errorf("failed to parse roster %s: %w", path, err)
	}
	return models.NewRoster(lines...)
}

// promptRoster asks for up to five names, re-prompting when a name does not
// match any player. A blank line ends the roster.
func promptRoster(ctx context.Context, lookup datasource.PlayerLookup, in io.Reader, out io.Writer) (models.RosterRecord, error) {
	scanner := bufio.NewScanner(in)
	lines := make([]*models.PlayerStatLine, 0, models.RosterSlots)

	for len(lines) < models.RosterSlots {
		fmt.Fprintf(out, "Player %d name (blank to finish): ", len(lines)+1)
		if !scanner.Scan() {
			break
		}
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			break
		}

		ref, err := lookup.FindPlayer(ctx, name)
		if errors.Is(err, datasource.ErrNotFound) {
			fmt.Fprintf(out, "No player matches %q, try again.\n", name)
			continue
		}
		if err != nil {
			return models.RosterRecord{}, err
		}
		line, err := lookup.LatestStats(ctx, ref)
		if err != nil {
			return models.RosterRecord{}, err
		}
		fmt.Fprintf(out, "  %s, %s: %.1f pts %.1f reb %.1f ast in %.1f min\n",
			line.PlayerName, line.Season, line.Points, line.Rebounds, line.Assists, line.Minutes)
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return models.RosterRecord{}, err
	}
	return models.NewRoster(lines...)
}

func printPrediction(p *models.Prediction) {
	fmt.Printf("Players: %s\n", strings.Join(p.Players, ", "))
	fmt.Printf("Predicted wins: %.1f\n", p.Wins)
	if p.Clamped() {
		fmt.Printf("  (calibrated estimate %.1f clamped to the 0-82 range)\n", p.CalibratedWins)
	}
	if len(p.Strengths) > 0 {
		fmt.Println("Top strengths:")
		labels := predict.DisplayLabels(p.Strengths)
		for i, s := range p.Strengths {
			fmt.Printf("  %d. %-36s %5.1f%%\n", i+1, labels[i], s.RelativeImpact)
		}
	}
	if len(p.FilledFeatures) > 0 || len(p.DroppedFeatures) > 0 {
		fmt.Printf("Note: %d features filled, %d dropped to match the model\n", len(p.FilledFeatures), len(p.DroppedFeatures))
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
