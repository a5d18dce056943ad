package datasource

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/roster-wins/internal/models"
)

var statValidator = validator.New()

// ValidateStatLine rejects lines with negative or non-finite statistics.
func ValidateStatLine(line *models.PlayerStatLine) error {
	for _, s := range append(models.BaseStats(), models.ShootingStats()...) {
		if v, ok := line.Value(s); ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidData, s)
		}
	}
	if err := statValidator.Struct(line); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}
