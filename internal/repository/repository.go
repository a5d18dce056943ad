package repository

import (
	"fmt"

	"github.com/yourusername/roster-wins/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Model ModelRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Model: NewPostgresModelRepository(db),
	}, nil
}
