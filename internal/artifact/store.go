package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/roster-wins/internal/gbrt"
)

const (
	// FormatVersion is written by this package. Version 1 artifacts predate
	// calibration and carry no alpha/beta.
	FormatVersion = 2

	// ModelTypeGBRT tags gradient-boosted tree regressors.
	ModelTypeGBRT = "gbrt"

	// DefaultAlpha and DefaultBeta apply when an artifact has no calibration.
	DefaultAlpha = 0.0
	DefaultBeta  = 1.0
)

type envelope struct {
	FormatVersion int                `json:"format_version"`
	ID            string             `json:"id,omitempty"`
	ModelType     string             `json:"model_type,omitempty"`
	TrainedAt     *time.Time         `json:"trained_at,omitempty"`
	Features      []string           `json:"features"`
	Alpha         *float64           `json:"alpha,omitempty"`
	Beta          *float64           `json:"beta,omitempty"`
	Metrics       map[string]float64 `json:"metrics,omitempty"`
	Regressor     json.RawMessage    `json:"regressor"`
}

// Marshal serialises m into the versioned JSON envelope.
func Marshal(m *TrainedModel) ([]byte, error) {
	ens, ok := m.regressor.(*gbrt.Ensemble)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedModelType, m.regressor)
	}
	reg, err := json.Marshal(ens)
	if err != nil {
		return nil, fmt.Errorf("failed to encode regressor: %w", err)
	}

	alpha, beta := m.alpha, m.beta
	trainedAt := m.trainedAt
	env := envelope{
		FormatVersion: FormatVersion,
		ID:            m.id.String(),
		ModelType:     ModelTypeGBRT,
		TrainedAt:     &trainedAt,
		Features:      m.features,
		Alpha:         &alpha,
		Beta:          &beta,
		Metrics:       m.metrics,
		Regressor:     reg,
	}
	return json.Marshal(env)
}

// Unmarshal decodes an artifact produced by Marshal or an older writer.
// The regressor and feature list are mandatory. Version 1 artifacts without
// a calibration pair get the identity line; anything newer must carry both.
func Unmarshal(data []byte) (*TrainedModel, error) {
	var env envelope
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode artifact: %w", err)
	}

	version := env.FormatVersion
	if version == 0 {
		version = 1
	}
	if version < 1 || version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.FormatVersion)
	}

	if len(env.Regressor) == 0 || string(env.Regressor) == "null" {
		return nil, fmt.Errorf("%w: regressor", ErrMissingField)
	}
	if len(env.Features) == 0 {
		return nil, fmt.Errorf("%w: features", ErrMissingField)
	}

	var reg Regressor
	switch env.ModelType {
	case "", ModelTypeGBRT:
		var ens gbrt.Ensemble
		if err := json.Unmarshal(env.Regressor, &ens); err != nil {
			return nil, fmt.Errorf("failed to decode regressor: %w", err)
		}
		if err := ens.Check(); err != nil {
			return nil, fmt.Errorf("corrupt regressor: %w", err)
		}
		reg = &ens
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModelType, env.ModelType)
	}

	alpha, beta, err := calibrationPair(version, env.Alpha, env.Beta)
	if err != nil {
		return nil, err
	}

	meta := Metadata{Metrics: env.Metrics}
	if env.ID != "" {
		id, err := uuid.Parse(env.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid artifact id: %w", err)
		}
		meta.ID = id
	}
	if env.TrainedAt != nil {
		meta.TrainedAt = *env.TrainedAt
	}

	return New(reg, env.Features, alpha, beta, meta)
}

func calibrationPair(version int, a, b *float64) (float64, float64, error) {
	switch {
	case a != nil && b != nil:
		return *a, *b, nil
	case version == 1 && a == nil && b == nil:
		return DefaultAlpha, DefaultBeta, nil
	case a == nil:
		return 0, 0, fmt.Errorf("%w: alpha", ErrMissingField)
	default:
		return 0, 0, fmt.Errorf("%w: beta", ErrMissingField)
	}
}

// Encode writes m to w.
func Encode(w io.Writer, m *TrainedModel) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Decode reads one artifact from r.
func Decode(r io.Reader) (*TrainedModel, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return Unmarshal(data)
}

// Save writes m to path, replacing any existing file atomically.
func Save(path string, m *TrainedModel) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set artifact permissions: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}

// Load reads the artifact at path. Any failure is fatal for prediction.
func Load(path string) (*TrainedModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
