// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"math"
	"sort"

	"github.com/iwvelando/swing-o-matic/internal/coalition"
	"github.com/iwvelando/swing-o-matic/pkg/constants"
)

// ValidateGroupName reports a warning when name is not a swing group.
func ValidateGroupName(context, name string) string {
	if _, err := coalition.ParseGroup(name); err != nil {
		return fmt.Sprintf("%s references unknown group '%s' - it will be ignored", context, name)
	}
	return ""
}

// ValidateTargetMargin checks a slider target, in points, against the slider range.
func ValidateTargetMargin(context, group string, points float64) string {
	if math.IsNaN(points) || math.IsInf(points, 0) {
		return fmt.Sprintf("%s target margin for '%s' is not a number - no shift will be applied", context, group)
	}
	if math.Abs(points) > constants.MaxSliderPoints {
		return fmt.Sprintf("%s target margin for '%s' is outside ±%.0f (%.1f) - it will be clamped",
			context, group, constants.MaxSliderPoints, points)
	}
	return ""
}

// ValidateTurnoutShift checks that a turnout fraction cannot erase more than the whole group.
func ValidateTurnoutShift(context, group string, shift float64) string {
	if math.IsNaN(shift) || math.IsInf(shift, 0) {
		return fmt.Sprintf("%s turnout shift for '%s' is not a number - it will be ignored", context, group)
	}
	if shift < -1 {
		return fmt.Sprintf("%s turnout shift for '%s' is below -1 (%.2f) - the group will drop to zero", context, group, shift)
	}
	return ""
}

// ValidateThirdPartyShift checks that a third-party target is a usable share.
func ValidateThirdPartyShift(context, group string, share float64) string {
	if math.IsNaN(share) || math.IsInf(share, 0) {
		return fmt.Sprintf("%s third-party share for '%s' is not a number - it will be ignored", context, group)
	}
	if share < 0 || share > 1 {
		return fmt.Sprintf("%s third-party share for '%s' is outside [0, 1] (%.2f) - the result will be clamped", context, group, share)
	}
	return ""
}

// ConfigValidator performs comprehensive validation over a set of scenarios.
type ConfigValidator struct {
	Scenarios []ScenarioConfig
}

// ScenarioConfig is the validation view of a configured scenario.
type ScenarioConfig struct {
	Name             string
	Active           bool
	TargetMargins    map[string]float64
	TurnoutShifts    map[string]float64
	ThirdPartyShifts map[string]float64
}

// ValidateAll validates every active scenario and returns warnings in a stable order.
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string
	active := 0

	for _, scenario := range cv.Scenarios {
		if !scenario.Active {
			continue
		}
		active++
		context := fmt.Sprintf("Scenario '%s'", scenario.Name)

		warnings = appendShiftWarnings(warnings, context, scenario.TargetMargins, ValidateTargetMargin)
		warnings = appendShiftWarnings(warnings, context, scenario.TurnoutShifts, ValidateTurnoutShift)
		warnings = appendShiftWarnings(warnings, context, scenario.ThirdPartyShifts, ValidateThirdPartyShift)
	}

	if active == 0 {
		warnings = append(warnings, "No active scenarios - nothing will be projected")
	}

	return warnings
}

func appendShiftWarnings(warnings []string, context string, values map[string]float64,
	check func(context, group string, value float64) string) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if warning := ValidateGroupName(context, name); warning != "" {
			warnings = append(warnings, warning)
			continue
		}
		if warning := check(context, name, values[name]); warning != "" {
			warnings = append(warnings, warning)
		}
	}
	return warnings
}
