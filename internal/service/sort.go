package service

import (
	"sort"

	"github.com/yourusername/roster-wins/internal/models"
)

// sortStrengths orders by descending importance, keeping feature order on ties.
func sortStrengths(s []models.Strength) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Importance > s[j].Importance
	})
}
