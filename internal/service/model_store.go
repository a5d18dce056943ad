// Package service composes the pipeline into the operations exposed by the
// CLI, HTTP and gRPC surfaces: training, model activation and prediction.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yourusername/roster-wins/internal/artifact"
	"github.com/yourusername/roster-wins/internal/gbrt"
	"github.com/yourusername/roster-wins/internal/models"
	"github.com/yourusername/roster-wins/internal/repository"
)

// ModelStore persists trained models and returns the one to serve
type ModelStore interface {
	// Save persists m and returns where it was written
	Save(ctx context.Context, m *artifact.TrainedModel) (string, error)
	// LoadLatest returns the model to serve
	LoadLatest(ctx context.Context) (*artifact.TrainedModel, error)
}

// FileModelStore keeps a single artifact on disk
type FileModelStore struct {
	path string
}

// NewFileModelStore creates a store writing to path
func NewFileModelStore(path string) *FileModelStore {
	return &FileModelStore{path: path}
}

// Save writes the artifact atomically
func (s *FileModelStore) Save(_ context.Context, m *artifact.TrainedModel) (string, error) {
	if err := artifact.Save(s.path, m); err != nil {
		return "", err
	}
	return s.path, nil
}

// LoadLatest reads the artifact
func (s *FileModelStore) LoadLatest(_ context.Context) (*artifact.TrainedModel, error) {
	return artifact.Load(s.path)
}

// RegistryModelStore versions artifacts in the Postgres model registry
type RegistryModelStore struct {
	repo repository.ModelRepository
	name string
}

// NewRegistryModelStore creates a store for models registered under name
func NewRegistryModelStore(repo repository.ModelRepository, name string) *RegistryModelStore {
	return &RegistryModelStore{repo: repo, name: name}
}

// VersionOf returns the registry version label of m, derived from its training time.
func VersionOf(m *artifact.TrainedModel) string {
	return m.TrainedAt().UTC().Format("20060102T150405Z")
}

// Save registers m as a new version and activates it
func (s *RegistryModelStore) Save(ctx context.Context, m *artifact.TrainedModel) (string, error) {
	blob, err := artifact.Marshal(m)
	if err != nil {
		return "", err
	}

	metrics, err := json.Marshal(m.Metrics())
	if err != nil {
		return "", fmt.Errorf("encoding metrics: %w", err)
	}

	hyper := []byte("{}")
	if ens, ok := m.Regressor().(*gbrt.Ensemble); ok {
		if hyper, err = json.Marshal(ens.Params); err != nil {
			return "", fmt.Errorf("encoding hyperparameters: %w", err)
		}
	}

	record := &models.ModelRecord{
		ID:              m.ID(),
		Name:            s.name,
		Version:         VersionOf(m),
		ModelType:       artifact.ModelTypeGBRT,
		Blob:            blob,
		Metrics:         metrics,
		Hyperparameters: hyper,
		TrainedAt:       m.TrainedAt(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return "", err
	}
	if err := s.repo.SetActive(ctx, record.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("registry:%s@%s", s.name, record.Version), nil
}

// LoadLatest decodes the active version
func (s *RegistryModelStore) LoadLatest(ctx context.Context) (*artifact.TrainedModel, error) {
	record, err := s.repo.GetActive(ctx, s.name)
	if err != nil {
		return nil, fmt.Errorf("loading active %s: %w", s.name, err)
	}
	return artifact.Decode(bytes.NewReader(record.Blob))
}
