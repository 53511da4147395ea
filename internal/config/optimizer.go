package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/swing-o-matic/internal/coalition"
	"github.com/iwvelando/swing-o-matic/pkg/constants"
)

const (
	OptimizerKindState     = "state"
	OptimizerKindElectoral = "electoral"

	OptimizerCandidateObama  = "Obama"
	OptimizerCandidateMcCain = "McCain"

	defaultTolerance     = 0.01
	defaultMaxIterations = 50
)

// OptimizerConfig asks for the single target margin of Group at which
// Candidate carries State (kind "state") or reaches Votes electoral votes
// (kind "electoral"). Every other slider keeps the scenario's value.
type OptimizerConfig struct {
	Group         string   `yaml:"group,omitempty" mapstructure:"group"`
	Kind          string   `yaml:"kind,omitempty" mapstructure:"kind"`
	Candidate     string   `yaml:"candidate,omitempty" mapstructure:"candidate"`
	State         string   `yaml:"state,omitempty" mapstructure:"state"`
	Votes         int      `yaml:"votes,omitempty" mapstructure:"votes"`
	Min           *float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max           *float64 `yaml:"max,omitempty" mapstructure:"max"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerKind returns the canonical identifier for an optimizer kind.
func CanonicalOptimizerKind(value string) string {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "", "state", "flip":
		return OptimizerKindState
	case "electoral", "ev", "electoral_votes", "electoral-votes":
		return OptimizerKindElectoral
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Group = strings.TrimSpace(o.Group)
	o.Kind = CanonicalOptimizerKind(o.Kind)
	o.State = strings.ToUpper(strings.TrimSpace(o.State))

	switch strings.ToLower(strings.TrimSpace(o.Candidate)) {
	case "", "obama":
		o.Candidate = OptimizerCandidateObama
	case "mccain":
		o.Candidate = OptimizerCandidateMcCain
	default:
		o.Candidate = strings.TrimSpace(o.Candidate)
	}

	if o.Min == nil {
		lower := -constants.MaxSliderPoints
		o.Min = &lower
	}
	if o.Max == nil {
		upper := constants.MaxSliderPoints
		o.Max = &upper
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	if _, err := coalition.ParseGroup(o.Group); err != nil {
		return fmt.Errorf("optimizer group: %w", err)
	}

	switch o.Candidate {
	case OptimizerCandidateObama, OptimizerCandidateMcCain:
	default:
		return fmt.Errorf("optimizer candidate %q is not supported", o.Candidate)
	}

	switch o.Kind {
	case OptimizerKindState:
		if o.State == "" {
			return fmt.Errorf("optimizer kind %s requires a state", o.Kind)
		}
	case OptimizerKindElectoral:
		if o.Votes <= 0 {
			return fmt.Errorf("optimizer kind %s requires a positive vote goal, got %d", o.Kind, o.Votes)
		}
	default:
		return fmt.Errorf("optimizer kind %q is not supported", o.Kind)
	}

	if *o.Min >= *o.Max {
		return fmt.Errorf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}
	if *o.Min < -constants.MaxSliderPoints || *o.Max > constants.MaxSliderPoints {
		return fmt.Errorf("optimizer bounds %.2f to %.2f exceed the slider range of +/-%.0f",
			*o.Min, *o.Max, constants.MaxSliderPoints)
	}

	return nil
}

// Goal describes the directive in words, e.g. "Obama carries GA".
func (o *OptimizerConfig) Goal() string {
	if o.Kind == OptimizerKindElectoral {
		return fmt.Sprintf("%s reaches %d electoral votes", o.Candidate, o.Votes)
	}
	return fmt.Sprintf("%s carries %s", o.Candidate, o.State)
}
