package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/roster-wins/internal/datasource"
	"github.com/yourusername/roster-wins/internal/metrics"
	"github.com/yourusername/roster-wins/internal/models"
	"github.com/yourusername/roster-wins/internal/predict"
	"github.com/yourusername/roster-wins/internal/tracing"
)

// Prediction sources used as metric labels
const (
	SourceCLI  = "cli"
	SourceHTTP = "http"
	SourceGRPC = "grpc"
)

// ErrLookupUnavailable is returned when names are submitted but no player
// lookup is configured.
var ErrLookupUnavailable = errors.New("player lookup is not configured")

// ModelInfo summarizes the serving model
type ModelInfo struct {
	ID          uuid.UUID          `json:"id"`
	TrainedAt   time.Time          `json:"trained_at"`
	NumFeatures int                `json:"num_features"`
	Features    []string           `json:"features"`
	Alpha       float64            `json:"alpha"`
	Beta        float64            `json:"beta"`
	Equation    string             `json:"equation"`
	Metrics     map[string]float64 `json:"metrics"`
	Importances []models.Strength  `json:"importances"`
}

// PredictionService serves predictions from the model currently held
type PredictionService struct {
	holder *predict.Holder
	lookup datasource.PlayerLookup
	logger *logrus.Logger
}

// NewPredictionService creates a prediction service. lookup may be nil when
// callers only submit stat lines.
func NewPredictionService(holder *predict.Holder, lookup datasource.PlayerLookup, logger *logrus.Logger) *PredictionService {
	return &PredictionService{holder: holder, lookup: lookup, logger: logger}
}

// Ready reports whether a model is loaded
func (s *PredictionService) Ready() bool {
	return s.holder.Ready()
}

// Predict scores roster and records the outcome under source
func (s *PredictionService) Predict(ctx context.Context, source string, roster models.RosterRecord, n int) (*models.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateRoster(roster); err != nil {
		return nil, err
	}

	p, err := s.holder.Load()
	if err != nil {
		metrics.RecordPredictionError()
		return nil, err
	}

	start := time.Now()
	var pred *models.Prediction
	err = tracing.Trace(ctx, "predict", func(ctx context.Context) error {
		var err error
		if pred, err = p.PredictDetailed(roster, n); err != nil {
			return err
		}
		tracing.AddAnnotation(ctx, "model_id", pred.ModelID.String())
		tracing.AddAnnotation(ctx, "players", roster.Populated())
		tracing.AddMetadata(ctx, "wins", pred.Wins)
		return nil
	})
	if err != nil {
		metrics.RecordPredictionError()
		return nil, err
	}
	metrics.RecordPrediction(source, pred.Wins, time.Since(start).Seconds(), pred.Clamped())
	return pred, nil
}

// PredictNames resolves player names to their latest stat lines and scores the roster
func (s *PredictionService) PredictNames(ctx context.Context, source string, names []string, n int) (*models.Prediction, error) {
	roster, err := s.Resolve(ctx, names)
	if err != nil {
		return nil, err
	}
	return s.Predict(ctx, source, roster, n)
}

// Compare scores two rosters side by side
func (s *PredictionService) Compare(ctx context.Context, source string, first, second models.RosterRecord, n int) (*predict.Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, r := range []models.RosterRecord{first, second} {
		if err := ValidateRoster(r); err != nil {
			return nil, err
		}
	}

	p, err := s.holder.Load()
	if err != nil {
		metrics.RecordPredictionError()
		return nil, err
	}

	start := time.Now()
	cmp, err := p.Compare(first, second, n)
	if err != nil {
		metrics.RecordPredictionError()
		return nil, err
	}
	elapsed := time.Since(start).Seconds() / 2
	metrics.RecordPrediction(source, cmp.First.Wins, elapsed, cmp.First.Clamped())
	metrics.RecordPrediction(source, cmp.Second.Wins, elapsed, cmp.Second.Clamped())
	return cmp, nil
}

// CompareNames resolves both name lists and compares the rosters
func (s *PredictionService) CompareNames(ctx context.Context, source string, first, second []string, n int) (*predict.Comparison, error) {
	a, err := s.Resolve(ctx, first)
	if err != nil {
		return nil, err
	}
	b, err := s.Resolve(ctx, second)
	if err != nil {
		return nil, err
	}
	return s.Compare(ctx, source, a, b, n)
}

// Resolve builds a roster from player names in slot order
func (s *PredictionService) Resolve(ctx context.Context, names []string) (models.RosterRecord, error) {
	if s.lookup == nil {
		return models.RosterRecord{}, ErrLookupUnavailable
	}
	if len(names) > models.RosterSlots {
		return models.RosterRecord{}, fmt.Errorf("%w: got %d players", models.ErrRosterTooLarge, len(names))
	}

	lines := make([]*models.PlayerStatLine, 0, len(names))
	for _, name := range names {
		ref, err := s.lookup.FindPlayer(ctx, name)
		if err != nil {
			return models.RosterRecord{}, err
		}
		line, err := s.lookup.LatestStats(ctx, ref)
		if err != nil {
			return models.RosterRecord{}, err
		}
		lines = append(lines, line)
	}
	return models.NewRoster(lines...)
}

// ModelInfo describes the serving model with its global importances
func (s *PredictionService) ModelInfo() (*ModelInfo, error) {
	p, err := s.holder.Load()
	if err != nil {
		return nil, err
	}
	m := p.Model()

	names := m.Features()
	importances := m.Importances()
	ranked := make([]models.Strength, 0, len(names))
	top := 0.0
	for _, v := range importances {
		if v > top {
			top = v
		}
	}
	for i, name := range names {
		st := models.Strength{Feature: name, Label: predict.Label(name), Importance: importances[i]}
		if top > 0 {
			st.RelativeImpact = importances[i] / top * 100
		}
		ranked = append(ranked, st)
	}
	sortStrengths(ranked)

	return &ModelInfo{
		ID:          m.ID(),
		TrainedAt:   m.TrainedAt(),
		NumFeatures: m.NumFeatures(),
		Features:    names,
		Alpha:       m.Alpha(),
		Beta:        m.Beta(),
		Equation:    fmt.Sprintf("Wins = %.4f + %.4f * raw_pred", m.Alpha(), m.Beta()),
		Metrics:     m.Metrics(),
		Importances: ranked,
	}, nil
}

// ValidateRoster rejects rosters with no players or invalid stat lines
func ValidateRoster(roster models.RosterRecord) error {
	if roster.Populated() == 0 {
		return models.ErrEmptyRoster
	}
	for i, p := range roster.Slots {
		if p == nil {
			continue
		}
		if err := datasource.ValidateStatLine(p); err != nil {
			return fmt.Errorf("slot %d: %w", i+1, err)
		}
	}
	return nil
}
