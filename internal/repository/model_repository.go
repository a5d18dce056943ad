package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/roster-wins/internal/database"
	"github.com/yourusername/roster-wins/internal/models"
)

const modelColumns = `id, name, version, model_type, blob, metrics, hyperparameters, trained_at, active, created_at, updated_at`

// PostgresModelRepository implements ModelRepository for PostgreSQL
type PostgresModelRepository struct {
	db *database.DB
}

// NewPostgresModelRepository creates a new model repository
func NewPostgresModelRepository(db *database.DB) ModelRepository {
	return &PostgresModelRepository{db: db}
}

// Create inserts a new model version
func (m *PostgresModelRepository) Create(ctx context.Context, model *models.ModelRecord) error {
	query := `
		INSERT INTO models (id, name, version, model_type, blob, metrics, hyperparameters, trained_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := m.db.GetPool().Exec(ctx, query,
		model.ID, model.Name, model.Version, model.ModelType, model.Blob,
		jsonOrEmpty(model.Metrics), jsonOrEmpty(model.Hyperparameters), model.TrainedAt, model.Active,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s %s", models.ErrDuplicateKey, model.Name, model.Version)
		}
		return fmt.Errorf("failed to create model: %w", err)
	}

	return nil
}

// GetByID retrieves a model by ID
func (m *PostgresModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ModelRecord, error) {
	row := m.db.GetPool().QueryRow(ctx, `SELECT `+modelColumns+` FROM models WHERE id = $1`, id)
	return scanModel(row, "get model")
}

// GetActive retrieves the active version of the named model
func (m *PostgresModelRepository) GetActive(ctx context.Context, name string) (*models.ModelRecord, error) {
	row := m.db.GetPool().QueryRow(ctx, `SELECT `+modelColumns+` FROM models WHERE name = $1 AND active = true`, name)
	return scanModel(row, "get active model")
}

// GetByVersion retrieves a specific model version
func (m *PostgresModelRepository) GetByVersion(ctx context.Context, name, version string) (*models.ModelRecord, error) {
	row := m.db.GetPool().QueryRow(ctx, `SELECT `+modelColumns+` FROM models WHERE name = $1 AND version = $2`, name, version)
	return scanModel(row, "get model by version")
}

// List returns every version of the named model, newest first, without blobs
func (m *PostgresModelRepository) List(ctx context.Context, name string) ([]*models.ModelRecord, error) {
	query := `
		SELECT id, name, version, model_type, NULL::jsonb, metrics, hyperparameters, trained_at, active, created_at, updated_at
		FROM models
		WHERE name = $1
		ORDER BY trained_at DESC
	`

	rows, err := m.db.GetPool().Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	var records []*models.ModelRecord
	for rows.Next() {
		record, err := scanModel(rows, "scan model")
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// SetActive sets a model as active and deactivates other versions
func (m *PostgresModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	model, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return m.db.WithTransaction(ctx, func(txCtx context.Context) error {
		tx, _ := database.TxFromContext(txCtx)

		if _, err := tx.Exec(txCtx, "UPDATE models SET active = false, updated_at = NOW() WHERE name = $1 AND id != $2 AND active", model.Name, id); err != nil {
			return fmt.Errorf("failed to deactivate other versions: %w", err)
		}

		if _, err := tx.Exec(txCtx, "UPDATE models SET active = true, updated_at = NOW() WHERE id = $1", id); err != nil {
			return fmt.Errorf("failed to activate model: %w", err)
		}
		return nil
	})
}

func scanModel(row pgx.Row, op string) (*models.ModelRecord, error) {
	model := &models.ModelRecord{}
	err := row.Scan(
		&model.ID, &model.Name, &model.Version, &model.ModelType, &model.Blob, &model.Metrics,
		&model.Hyperparameters, &model.TrainedAt, &model.Active, &model.CreatedAt, &model.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return model, nil
}

func jsonOrEmpty(b []byte) []byte {
	if len(b) == 0 {
		return []byte("{}")
	}
	return b
}
