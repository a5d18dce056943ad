// Package training fits the win model: randomized hyperparameter search with
// shuffled k-fold cross-validation, a final refit on every row, and a linear
// calibration of the refit model's output.
package training

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/roster-wins/internal/artifact"
	"github.com/yourusername/roster-wins/internal/features"
	"github.com/yourusername/roster-wins/internal/gbrt"
	"github.com/yourusername/roster-wins/internal/logger"
	"github.com/yourusername/roster-wins/internal/metrics"
	"github.com/yourusername/roster-wins/internal/models"
)

// Config configures a Trainer.
type Config struct {
	Space  ParamSpace
	Search SearchConfig
}

// DefaultConfig returns the default search grid and settings.
func DefaultConfig() Config {
	return Config{
		Space:  DefaultSpace(),
		Search: DefaultSearchConfig(),
	}
}

// Report holds the diagnostics of one training run. It is not part of the
// persisted model contract.
type Report struct {
	RunID      uuid.UUID     `json:"run_id"`
	Rows       int           `json:"rows"`
	Skipped    int           `json:"skipped"`
	Features   []string      `json:"features"`
	Best       Candidate     `json:"best"`
	Candidates int           `json:"candidates"`
	Alpha      float64       `json:"alpha"`
	Beta       float64       `json:"beta"`
	R2Raw      float64       `json:"train_r2_raw"`
	RMSERaw    float64       `json:"train_rmse_raw"`
	R2Cal      float64       `json:"train_r2_calibrated"`
	RMSECal    float64       `json:"train_rmse_calibrated"`
	Duration   time.Duration `json:"duration"`
}

// Metrics flattens the report into named scores.
func (r *Report) Metrics() map[string]float64 {
	return map[string]float64{
		"cv_r2":                 r.Best.MeanScore,
		"train_r2_raw":          r.R2Raw,
		"train_rmse_raw":        r.RMSERaw,
		"train_r2_calibrated":   r.R2Cal,
		"train_rmse_calibrated": r.RMSECal,
		"rows":                  float64(r.Rows),
	}
}

// Trainer fits TrainedModels from training rows.
type Trainer struct {
	cfg Config
	log *logger.PipelineLogger
}

// NewTrainer creates a trainer.
func NewTrainer(cfg Config, log *logrus.Logger) *Trainer {
	return &Trainer{
		cfg: cfg,
		log: logger.NewPipelineLogger(log),
	}
}

// Train runs the full pipeline and returns the artifact with its diagnostics.
// Rows whose roster has no populated slot are excluded with a warning. Either
// a complete artifact is returned or an error; nothing is persisted here.
func (t *Trainer) Train(ctx context.Context, rows []models.TrainingRow) (*artifact.TrainedModel, *Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.New()}

	var vectors []features.Vector
	var y []float64
	for _, row := range rows {
		switch {
		case row.Roster.Populated() == 0:
			t.skip(report, row, "no player rows")
			continue
		case math.IsNaN(row.Wins) || row.Wins < 0 || row.Wins > models.MaxWins:
			t.skip(report, row, fmt.Sprintf("wins %v outside season range", row.Wins))
			continue
		}
		vectors = append(vectors, features.Build(row.Roster))
		y = append(y, row.Wins)
	}
	if len(vectors) == 0 {
		return nil, nil, ErrNoTrainingRows
	}

	names := features.OrderedUnion(vectors)
	x := features.Matrix(vectors, names)
	report.Rows = len(x)
	report.Features = names

	t.log.WithFields(logrus.Fields{
		"run_id":   report.RunID.String(),
		"rows":     len(x),
		"features": len(names),
		"n_iter":   t.cfg.Search.NIter,
		"folds":    t.cfg.Search.Folds,
	}).Info("Starting hyperparameter search")

	result, err := Search(ctx, x, y, t.cfg.Space, t.cfg.Search)
	if err != nil {
		return nil, nil, fmt.Errorf("hyperparameter search failed: %w", err)
	}
	for _, c := range result.Candidates {
		if c.Err != nil {
			t.log.WithError(c.Err).WithField("candidate", c.Index).Warn("Search candidate failed")
			continue
		}
		t.log.LogSearchCandidate(c.Index, ParamsFields(c.Params), c.MeanScore, c.FoldScores)
		metrics.RecordSearchCandidate(c.MeanScore)
	}
	report.Best = result.Best
	report.Candidates = len(result.Candidates)
	t.log.LogSearchCompleted(len(result.Candidates), result.Best.MeanScore, ParamsFields(result.Best.Params))

	ens, err := gbrt.Fit(x, y, result.Best.Params)
	if err != nil {
		return nil, nil, fmt.Errorf("final refit failed: %w", err)
	}

	raw := ens.PredictBatch(x)
	alpha, beta, err := Calibrate(raw, y)
	if err != nil {
		return nil, nil, err
	}
	t.log.LogCalibration(alpha, beta)

	calibrated := make([]float64, len(raw))
	for i, r := range raw {
		calibrated[i] = alpha + beta*r
	}
	report.Alpha, report.Beta = alpha, beta
	report.R2Raw, report.RMSERaw = R2(y, raw), RMSE(y, raw)
	report.R2Cal, report.RMSECal = R2(y, calibrated), RMSE(y, calibrated)
	report.Duration = time.Since(start)

	model, err := artifact.New(ens, names, alpha, beta, artifact.Metadata{
		ID:        report.RunID,
		TrainedAt: time.Now().UTC(),
		Metrics:   report.Metrics(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to assemble artifact: %w", err)
	}

	t.log.LogModelTraining(report.RunID.String(), report.Rows, len(names), report.Duration.Seconds(), report.Metrics(), ParamsFields(result.Best.Params))
	metrics.UpdateModelScores(report.Metrics())
	metrics.UpdateCalibration(alpha, beta)

	return model, report, nil
}

func (t *Trainer) skip(report *Report, row models.TrainingRow, reason string) {
	report.Skipped++
	t.log.LogSkippedTeam(row.TeamName, row.Season, reason)
	metrics.RecordTeamSkipped()
}

// ParamsFields renders hyperparameters as log fields.
func ParamsFields(p gbrt.Params) map[string]interface{} {
	return map[string]interface{}{
		"n_estimators":     p.NEstimators,
		"learning_rate":    p.LearningRate,
		"max_depth":        p.MaxDepth,
		"min_samples_leaf": p.MinSamplesLeaf,
		"subsample":        p.Subsample,
		"seed":             p.Seed,
	}
}
