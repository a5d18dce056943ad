package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/roster-wins/internal/datasource"
	"github.com/yourusername/roster-wins/internal/dataset"
	"github.com/yourusername/roster-wins/internal/logger"
	"github.com/yourusername/roster-wins/internal/models"
	"github.com/yourusername/roster-wins/internal/predict"
	"github.com/yourusername/roster-wins/internal/training"
)

func smallTrainer() *training.Trainer {
	return training.NewTrainer(training.Config{
		Space: training.ParamSpace{
			NEstimators:    []int{20},
			LearningRate:   []float64{0.1},
			MaxDepth:       []int{2},
			MinSamplesLeaf: []int{1},
			Subsample:      []float64{1.0},
		},
		Search: training.SearchConfig{NIter: 1, Folds: 3, Seed: 7, Parallelism: 1},
	}, logger.Discard())
}

func line(name string, pts float64) *models.PlayerStatLine {
	return &models.PlayerStatLine{
		PlayerName: name,
		Minutes:    30,
		Points:     pts,
		Assists:    4,
		Rebounds:   5,
		Steals:     1,
		Blocks:     0.5,
		Turnovers:  2,
	}
}

func trainingRows(n int) []models.TrainingRow {
	rows := make([]models.TrainingRow, 0, n)
	for i := 0; i < n; i++ {
		pts := 10 + float64(i%12)
		var r models.RosterRecord
		for s := range r.Slots {
			r.Slots[s] = line(fmt.Sprintf("p%d-%d", i, s), pts+float64(s))
		}
		rows = append(rows, models.TrainingRow{TeamName: "Team", Season: "2010-11", Wins: 2*pts + 10, Roster: r})
	}
	return rows
}

func roster(pts float64) models.RosterRecord {
	r, _ := models.NewRoster(line("a", pts), line("b", pts), line("c", pts))
	return r
}

func newServices(t *testing.T) (*TrainingService, *PredictionService, string) {
	t.Helper()
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "data.csv")
	require.NoError(t, dataset.WriteFile(dataPath, trainingRows(24)))

	holder := predict.NewHolder(nil)
	cache := predict.NewCache(time.Minute, 100)
	store := NewFileModelStore(filepath.Join(dir, "model.json"))

	ts := NewTrainingService(smallTrainer(), store, holder, cache, dataPath, logger.Discard())
	ps := NewPredictionService(holder, nil, logger.Discard())
	return ts, ps, dir
}

// TestRetrainActivatesModel tests the train, persist and swap flow
func TestRetrainActivatesModel(t *testing.T) {
	ts, ps, _ := newServices(t)
	ctx := context.Background()

	assert.False(t, ps.Ready())
	_, err := ps.Predict(ctx, SourceCLI, roster(15), 3)
	assert.ErrorIs(t, err, predict.ErrNoModel)

	require.NoError(t, ts.Retrain(ctx, TriggerManual))
	assert.True(t, ps.Ready())
	firstID := ts.ActiveModelID()
	assert.NotEqual(t, uuid.Nil, firstID)

	pred, err := ps.Predict(ctx, SourceCLI, roster(15), 3)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pred.Wins, 0.0)
	assert.LessOrEqual(t, pred.Wins, 82.0)
	assert.Len(t, pred.Strengths, 3)
	assert.Equal(t, firstID, pred.ModelID)

	require.NoError(t, ts.Retrain(ctx, TriggerScheduled))
	assert.NotEqual(t, firstID, ts.ActiveModelID())
}

// TestLoadActiveFromStore tests activation of a persisted artifact
func TestLoadActiveFromStore(t *testing.T) {
	ts, _, dir := newServices(t)
	ctx := context.Background()

	model, report, err := ts.TrainFromFile(ctx, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 24, report.Rows)
	assert.Equal(t, uuid.Nil, ts.ActiveModelID(), "training alone does not activate")

	holder := predict.NewHolder(nil)
	fresh := NewTrainingService(smallTrainer(), NewFileModelStore(filepath.Join(dir, "model.json")), holder, nil, "", logger.Discard())
	require.NoError(t, fresh.LoadActive(ctx))
	assert.Equal(t, model.ID(), fresh.ActiveModelID())
}

// TestTrainRejectsConcurrentRuns tests the single-run guard
func TestTrainRejectsConcurrentRuns(t *testing.T) {
	ts, _, _ := newServices(t)
	ts.running.Lock()
	defer ts.running.Unlock()

	_, _, err := ts.Train(context.Background(), trainingRows(10), TriggerManual)
	assert.ErrorIs(t, err, ErrTrainingInProgress)
}

// TestTrainNoRows tests failure propagation without persisting
func TestTrainNoRows(t *testing.T) {
	ts, _, _ := newServices(t)
	_, _, err := ts.Train(context.Background(), nil, TriggerManual)
	assert.ErrorIs(t, err, training.ErrNoTrainingRows)
}

// TestCompareAndModelInfo tests comparison and model description
func TestCompareAndModelInfo(t *testing.T) {
	ts, ps, _ := newServices(t)
	ctx := context.Background()
	require.NoError(t, ts.Retrain(ctx, TriggerManual))

	cmp, err := ps.Compare(ctx, SourceHTTP, roster(10), roster(20), 3)
	require.NoError(t, err)
	assert.InDelta(t, cmp.First.Wins-cmp.Second.Wins, cmp.Difference, 1e-9)

	info, err := ps.ModelInfo()
	require.NoError(t, err)
	assert.Equal(t, ts.ActiveModelID(), info.ID)
	assert.Equal(t, len(info.Features), info.NumFeatures)
	assert.True(t, strings.HasPrefix(info.Equation, "Wins = "))
	require.NotEmpty(t, info.Importances)
	for i := 1; i < len(info.Importances); i++ {
		assert.GreaterOrEqual(t, info.Importances[i-1].Importance, info.Importances[i].Importance)
	}
}

// TestValidateRoster tests boundary validation of submitted rosters
func TestValidateRoster(t *testing.T) {
	assert.ErrorIs(t, ValidateRoster(models.RosterRecord{}), models.ErrEmptyRoster)

	bad := roster(10)
	bad.Slots[1].Rebounds = -1
	err := ValidateRoster(bad)
	assert.ErrorIs(t, err, datasource.ErrInvalidData)
	assert.Contains(t, err.Error(), "slot 2")

	assert.NoError(t, ValidateRoster(roster(10)))
}

type fakeLookup struct {
	lines map[string]*models.PlayerStatLine
}

func (f fakeLookup) FindPlayer(_ context.Context, name string) (datasource.PlayerRef, error) {
	if _, ok := f.lines[strings.ToLower(name)]; !ok {
		return datasource.PlayerRef{}, datasource.NewDataSourceError("fake", datasource.ErrCodeNotFound, name, nil)
	}
	return datasource.PlayerRef{FullName: strings.ToLower(name)}, nil
}

func (f fakeLookup) LatestStats(_ context.Context, ref datasource.PlayerRef) (*models.PlayerStatLine, error) {
	return f.lines[ref.FullName], nil
}

// TestPredictNames tests name resolution before prediction
func TestPredictNames(t *testing.T) {
	ts, _, _ := newServices(t)
	ctx := context.Background()
	require.NoError(t, ts.Retrain(ctx, TriggerManual))

	lookup := fakeLookup{lines: map[string]*models.PlayerStatLine{"alpha": line("Alpha", 20), "beta": line("Beta", 12)}}
	ps := NewPredictionService(ts.holder, lookup, logger.Discard())

	pred, err := ps.PredictNames(ctx, SourceHTTP, []string{"Alpha", "Beta"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta", "-", "-", "-"}, pred.Players)

	_, err = ps.PredictNames(ctx, SourceHTTP, []string{"Nobody"}, 3)
	assert.ErrorIs(t, err, datasource.ErrNotFound)

	_, err = NewPredictionService(ts.holder, nil, logger.Discard()).PredictNames(ctx, SourceHTTP, []string{"Alpha"}, 3)
	assert.ErrorIs(t, err, ErrLookupUnavailable)

	_, err = ps.CompareNames(ctx, SourceHTTP, []string{"alpha"}, []string{"beta"}, 2)
	assert.NoError(t, err)
}

type memoryRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.ModelRecord
}

func (r *memoryRepo) Create(_ context.Context, m *models.ModelRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.records == nil {
		r.records = map[uuid.UUID]*models.ModelRecord{}
	}
	r.records[m.ID] = m
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ModelRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.records[id]; ok {
		return m, nil
	}
	return nil, models.ErrNotFound
}

func (r *memoryRepo) GetActive(_ context.Context, name string) (*models.ModelRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.records {
		if m.Name == name && m.Active {
			return m, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memoryRepo) GetByVersion(_ context.Context, name, version string) (*models.ModelRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.records {
		if m.Name == name && m.Version == version {
			return m, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *memoryRepo) List(_ context.Context, name string) ([]*models.ModelRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ModelRecord
	for _, m := range r.records {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memoryRepo) SetActive(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.records[id]
	if !ok {
		return models.ErrNotFound
	}
	for _, m := range r.records {
		if m.Name == target.Name {
			m.Active = m.ID == id
		}
	}
	return nil
}

// TestRegistryModelStore tests registry persistence and activation
func TestRegistryModelStore(t *testing.T) {
	repo := &memoryRepo{}
	store := NewRegistryModelStore(repo, "win_model")
	ts := NewTrainingService(smallTrainer(), store, predict.NewHolder(nil), nil, "", logger.Discard())
	ctx := context.Background()

	model, _, err := ts.Train(ctx, trainingRows(20), TriggerManual)
	require.NoError(t, err)

	record, err := repo.GetActive(ctx, "win_model")
	require.NoError(t, err)
	assert.Equal(t, model.ID(), record.ID)
	assert.Equal(t, VersionOf(model), record.Version)
	assert.Contains(t, string(record.Hyperparameters), "n_estimators")

	loaded, err := store.LoadLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ID(), loaded.ID())
	assert.Equal(t, model.Features(), loaded.Features())

	_, err = NewRegistryModelStore(repo, "other").LoadLatest(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
