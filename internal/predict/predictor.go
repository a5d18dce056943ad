// Package predict applies a trained model to rosters: feature reconciliation,
// calibrated and clamped win estimates, and global-importance explanations.
package predict

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/roster-wins/internal/artifact"
	"github.com/yourusername/roster-wins/internal/features"
	"github.com/yourusername/roster-wins/internal/logger"
	"github.com/yourusername/roster-wins/internal/metrics"
	"github.com/yourusername/roster-wins/internal/models"
)

// Predictor scores rosters with one immutable TrainedModel. It is safe for
// concurrent use.
type Predictor struct {
	model *artifact.TrainedModel
	log   *logger.PipelineLogger
	cache *Cache
}

// NewPredictor creates a predictor. cache may be nil.
func NewPredictor(model *artifact.TrainedModel, log *logrus.Logger, cache *Cache) (*Predictor, error) {
	if model == nil {
		return nil, ErrNoModel
	}
	return &Predictor{
		model: model,
		log:   logger.NewPipelineLogger(log),
		cache: cache,
	}, nil
}

// Model returns the underlying artifact.
func (p *Predictor) Model() *artifact.TrainedModel {
	return p.model
}

// Predict returns the calibrated win estimate for roster, clamped to [0, 82].
// Rosters with empty slots are accepted.
func (p *Predictor) Predict(roster models.RosterRecord) (float64, error) {
	pred, err := p.PredictDetailed(roster, 0)
	if err != nil {
		return 0, err
	}
	return pred.Wins, nil
}

// PredictDetailed returns the full prediction, including the top n strengths.
func (p *Predictor) PredictDetailed(roster models.RosterRecord, n int) (*models.Prediction, error) {
	if p == nil || p.model == nil {
		return nil, ErrNoModel
	}
	start := time.Now()
	modelID := p.model.ID().String()

	var key CacheKey
	if p.cache != nil {
		k, err := NewCacheKey(p.model.ID(), roster)
		if err != nil {
			p.log.LogPredictionError(modelID, err)
			metrics.RecordPredictionError()
			return nil, err
		}
		key = k
		if cached, ok := p.cache.Get(key); ok && (len(cached.Strengths) >= n || len(cached.Strengths) == p.model.NumFeatures()) {
			if len(cached.Strengths) > n {
				cached.Strengths = cached.Strengths[:n]
			}
			p.log.LogPrediction(modelID, roster.Populated(), cached.RawPrediction, cached.Wins, cached.Clamped(), true, msSince(start))
			return cached, nil
		}
	}

	v := features.Build(roster)
	row, report := features.Reconcile(v, p.model.Features())
	p.log.LogReconciliation(modelID, p.model.NumFeatures(), report.Filled, report.Dropped)
	metrics.RecordReconciliation(len(report.Filled), len(report.Dropped))

	raw := p.model.Raw(row)
	calibrated := p.model.Calibrate(raw)
	wins := Clamp(calibrated)

	pred := &models.Prediction{
		ModelID:         p.model.ID(),
		Players:         roster.Names(),
		RawPrediction:   raw,
		CalibratedWins:  calibrated,
		Wins:            wins,
		FilledFeatures:  report.Filled,
		DroppedFeatures: report.Dropped,
		PredictedAt:     time.Now().UTC(),
	}
	// Cache entries always carry the default strength count so any smaller n can be served.
	want := n
	if want < DefaultStrengths {
		want = DefaultStrengths
	}
	strengths, scope := Explain(p.model, v, want)
	pred.Strengths = strengths
	pred.ImportanceScope = scope

	if p.cache != nil {
		p.cache.Set(key, pred)
	}

	out := *pred
	if len(out.Strengths) > n {
		out.Strengths = out.Strengths[:n]
	}
	p.log.LogPrediction(modelID, roster.Populated(), raw, wins, out.Clamped(), false, msSince(start))
	return &out, nil
}

// Clamp bounds a calibrated estimate to the closed interval [0, 82].
// NaN maps to 0.
func Clamp(wins float64) float64 {
	switch {
	case math.IsNaN(wins), wins < 0:
		return 0
	case wins > models.MaxWins:
		return models.MaxWins
	}
	return wins
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
