package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/roster-wins/internal/artifact"
	"github.com/yourusername/roster-wins/internal/dataset"
	"github.com/yourusername/roster-wins/internal/logger"
	"github.com/yourusername/roster-wins/internal/metrics"
	"github.com/yourusername/roster-wins/internal/models"
	"github.com/yourusername/roster-wins/internal/predict"
	"github.com/yourusername/roster-wins/internal/tracing"
	"github.com/yourusername/roster-wins/internal/training"
)

// Training triggers used as metric labels
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// ErrTrainingInProgress is returned when a run is already underway.
var ErrTrainingInProgress = errors.New("training already in progress")

// TrainingService trains, persists and activates models
type TrainingService struct {
	trainer  *training.Trainer
	store    ModelStore
	holder   *predict.Holder
	cache    *predict.Cache
	dataPath string
	audit    *logger.AuditLogger
	logger   *logrus.Logger

	running sync.Mutex
}

// NewTrainingService wires a training service. holder and cache may be nil
// for one-shot CLI runs that only persist the artifact.
func NewTrainingService(
	trainer *training.Trainer,
	store ModelStore,
	holder *predict.Holder,
	cache *predict.Cache,
	dataPath string,
	log *logrus.Logger,
) *TrainingService {
	return &TrainingService{
		trainer:  trainer,
		store:    store,
		holder:   holder,
		cache:    cache,
		dataPath: dataPath,
		audit:    logger.NewAuditLogger(log),
		logger:   log,
	}
}

// Train fits a model on rows and persists it. The serving model is untouched.
func (s *TrainingService) Train(ctx context.Context, rows []models.TrainingRow, trigger string) (*artifact.TrainedModel, *training.Report, error) {
	if !s.running.TryLock() {
		return nil, nil, ErrTrainingInProgress
	}
	defer s.running.Unlock()

	start := time.Now()
	var model *artifact.TrainedModel
	var report *training.Report
	err := tracing.Trace(ctx, "train", func(ctx context.Context) error {
		var err error
		model, report, err = s.trainer.Train(ctx, rows)
		return err
	})
	if err != nil {
		metrics.RecordTrainingRun(trigger, "failed", time.Since(start).Seconds())
		return nil, nil, err
	}

	location, err := s.store.Save(ctx, model)
	if err != nil {
		metrics.RecordTrainingRun(trigger, "failed", time.Since(start).Seconds())
		return nil, nil, fmt.Errorf("failed to persist model: %w", err)
	}
	metrics.RecordTrainingRun(trigger, "success", time.Since(start).Seconds())

	s.audit.LogArtifactSaved(model.ID().String(), location, model.NumFeatures(), model.TrainedAt())
	if reg, ok := s.store.(*RegistryModelStore); ok {
		s.audit.LogModelRegistered(model.ID().String(), reg.name, VersionOf(model), model.Metrics())
	}

	return model, report, nil
}

// TrainFromFile reads the training table at the configured path and trains on it
func (s *TrainingService) TrainFromFile(ctx context.Context, trigger string) (*artifact.TrainedModel, *training.Report, error) {
	rows, err := dataset.ReadFile(s.dataPath)
	if err != nil {
		return nil, nil, err
	}
	return s.Train(ctx, rows, trigger)
}

// Retrain trains from the data file and activates the result
func (s *TrainingService) Retrain(ctx context.Context, trigger string) error {
	model, _, err := s.TrainFromFile(ctx, trigger)
	if err != nil {
		if !errors.Is(err, ErrTrainingInProgress) {
			s.audit.LogRetrainFailure(trigger, err)
		}
		return err
	}
	return s.Activate(model, trigger)
}

// LoadActive loads the stored model and activates it
func (s *TrainingService) LoadActive(ctx context.Context) error {
	model, err := s.store.LoadLatest(ctx)
	if err != nil {
		return err
	}
	return s.Activate(model, "store")
}

// Activate swaps model in as the serving predictor. The previous predictor is
// left intact for in-flight requests and its cache entries are dropped.
func (s *TrainingService) Activate(model *artifact.TrainedModel, source string) error {
	if s.holder == nil {
		return nil
	}

	p, err := predict.NewPredictor(model, s.logger, s.cache)
	if err != nil {
		return err
	}

	previousID := ""
	if prev := s.holder.Swap(p); prev != nil {
		prevID := prev.Model().ID()
		previousID = prevID.String()
		if s.cache != nil && prevID != model.ID() {
			s.cache.InvalidateModel(prevID)
		}
	}

	metrics.UpdateModelLoaded(model.NumFeatures())
	s.audit.LogModelActivated(model.ID().String(), previousID, source)
	return nil
}

// ActiveModelID returns the serving model's ID, or uuid.Nil
func (s *TrainingService) ActiveModelID() uuid.UUID {
	if s.holder == nil {
		return uuid.Nil
	}
	p, err := s.holder.Load()
	if err != nil {
		return uuid.Nil
	}
	return p.Model().ID()
}
