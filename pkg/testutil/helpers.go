// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/swing-o-matic/internal/projection"
	"github.com/iwvelando/swing-o-matic/internal/swing"
)

// FindScenario finds a scenario by name in the results slice.
// Returns the first matching result, nil otherwise.
func FindScenario(results []*projection.Result, name string) *projection.Result {
	for _, result := range results {
		if result != nil && result.Name == name {
			return result
		}
	}
	return nil
}

// Winners maps each state ID in result to its projected winner.
func Winners(result *projection.Result) map[string]swing.Candidate {
	if result == nil {
		return nil
	}
	winners := make(map[string]swing.Candidate, len(result.States))
	for _, state := range result.States {
		winners[state.Row.ID] = state.Winner
	}
	return winners
}

// Flips lists the states whose winner differs between base and other, in the
// order they appear in other.
func Flips(base, other *projection.Result) []string {
	if base == nil || other == nil {
		return nil
	}
	before := Winners(base)
	var flipped []string
	for _, state := range other.States {
		if prev, ok := before[state.Row.ID]; ok && prev != state.Winner {
			flipped = append(flipped, state.Row.ID)
		}
	}
	return flipped
}
