package models

import (
	"fmt"
	"strings"
)

// RosterRecord holds five ordered player slots. A nil slot is empty.
// Slot order identifies P1..P5 and carries no positional meaning.
type RosterRecord struct {
	Slots [RosterSlots]*PlayerStatLine `json:"slots"`
}

// NewRoster builds a roster from up to five stat lines, filling slots in order.
func NewRoster(players ...*PlayerStatLine) (RosterRecord, error) {
	var r RosterRecord
	if len(players) > RosterSlots {
		return r, fmt.Errorf("%w: got %d players", ErrRosterTooLarge, len(players))
	}
	copy(r.Slots[:], players)
	return r, nil
}

// Populated returns the number of non-empty slots
func (r RosterRecord) Populated() int {
	n := 0
	for _, p := range r.Slots {
		if p != nil {
			n++
		}
	}
	return n
}

// Players returns the populated slots in slot order.
func (r RosterRecord) Players() []*PlayerStatLine {
	players := make([]*PlayerStatLine, 0, RosterSlots)
	for _, p := range r.Slots {
		if p != nil {
			players = append(players, p)
		}
	}
	return players
}

// HasShooting reports whether the first populated slot carries shooting stats.
// Rosters built before shooting data was collected keep the base schema.
func (r RosterRecord) HasShooting() bool {
	for _, p := range r.Slots {
		if p != nil {
			return p.HasShooting()
		}
	}
	return false
}

// SlotColumn returns the tabular column name for a slot (1-based) and stat, e.g. P3_AST.
func SlotColumn(slot int, field string) string {
	return fmt.Sprintf("P%d_%s", slot, field)
}

// Names returns the player names in slot order, "-" for empty slots.
func (r RosterRecord) Names() []string {
	names := make([]string, RosterSlots)
	for i, p := range r.Slots {
		if p == nil || strings.TrimSpace(p.PlayerName) == "" {
			names[i] = "-"
			continue
		}
		names[i] = p.PlayerName
	}
	return names
}
