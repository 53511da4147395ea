// Package config defines the data structures related to configuration and
// includes functions for loading, normalizing and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/swing-o-matic/internal/dataload"
	"github.com/iwvelando/swing-o-matic/internal/projection"
	"github.com/iwvelando/swing-o-matic/pkg/constants"
	"github.com/iwvelando/swing-o-matic/pkg/validation"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Configuration holds all configuration for swing-o-matic.
type Configuration struct {
	Data      DataConfig
	Scaling   ScalingConfig
	Scenarios []Scenario
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// DataConfig locates the four CSV sources.
type DataConfig struct {
	StateDemographics    string
	StateResults         string
	NationalDemographics string
	ExitPoll             string
}

// ScalingConfig converts slider points into engine inputs.
type ScalingConfig struct {
	StateDivisor    float64
	NationalDivisor float64
	MaxMarginPoints float64
}

// Scenario is one named set of slider positions. Target margins are absolute
// slider values in points; turnout shifts are fractional changes; third-party
// shifts are target shares in [0, 1]. Keys are swing group names.
type Scenario struct {
	Name             string
	Active           bool
	TargetMargins    map[string]float64
	TurnoutShifts    map[string]float64
	ThirdPartyShifts map[string]float64
	Optimizers       []OptimizerConfig
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")
	setDefaults(v)

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.Normalize()
	return &configuration, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.stateDemographics", constants.DefaultStateDemographicsPath)
	v.SetDefault("data.stateResults", constants.DefaultStateResultsPath)
	v.SetDefault("data.nationalDemographics", constants.DefaultNationalDemographicsPath)
	v.SetDefault("data.exitPoll", constants.DefaultExitPollPath)

	v.SetDefault("scaling.stateDivisor", constants.DefaultStateDivisor)
	v.SetDefault("scaling.nationalDivisor", constants.DefaultNationalDivisor)
	v.SetDefault("scaling.maxMarginPoints", constants.DefaultMaxMarginPoints)

	v.SetDefault("output.format", constants.OutputFormatPretty)
}

// Normalize fills unset values with their defaults. Zero divisors are
// treated as unset; negative ones are left for Validate to reject.
func (c *Configuration) Normalize() {
	if c.Data.StateDemographics == "" {
		c.Data.StateDemographics = constants.DefaultStateDemographicsPath
	}
	if c.Data.StateResults == "" {
		c.Data.StateResults = constants.DefaultStateResultsPath
	}
	if c.Data.NationalDemographics == "" {
		c.Data.NationalDemographics = constants.DefaultNationalDemographicsPath
	}
	if c.Data.ExitPoll == "" {
		c.Data.ExitPoll = constants.DefaultExitPollPath
	}

	if c.Scaling.StateDivisor == 0 {
		c.Scaling.StateDivisor = constants.DefaultStateDivisor
	}
	if c.Scaling.NationalDivisor == 0 {
		c.Scaling.NationalDivisor = constants.DefaultNationalDivisor
	}
	if c.Scaling.MaxMarginPoints == 0 {
		c.Scaling.MaxMarginPoints = constants.DefaultMaxMarginPoints
	}

	c.Output.Format = strings.TrimSpace(c.Output.Format)
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
}

// Paths returns the data locations in the form dataload expects.
func (d DataConfig) Paths() dataload.Paths {
	return dataload.Paths{
		StateDemographics:    d.StateDemographics,
		StateResults:         d.StateResults,
		NationalDemographics: d.NationalDemographics,
		ExitPoll:             d.ExitPoll,
	}
}

// Projection returns the scaling in the form the projection expects.
func (s ScalingConfig) Projection() projection.Scaling {
	return projection.Scaling{
		StateDivisor:    s.StateDivisor,
		NationalDivisor: s.NationalDivisor,
		MaxMarginPoints: s.MaxMarginPoints,
	}
}

// ProjectionScenarios converts the active scenarios for projection.
func (c *Configuration) ProjectionScenarios() []projection.Scenario {
	active := c.ActiveScenarios()
	scenarios := make([]projection.Scenario, len(active))
	for i, s := range active {
		scenarios[i] = s.Projection()
	}
	return scenarios
}

// Projection converts the scenario's slider positions for projection.
func (s Scenario) Projection() projection.Scenario {
	return projection.Scenario{
		Name:             s.Name,
		TargetMargins:    s.TargetMargins,
		TurnoutShifts:    s.TurnoutShifts,
		ThirdPartyShifts: s.ThirdPartyShifts,
	}
}

// ActiveScenarios returns the scenarios flagged active, in configured order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// Validate reports every hard configuration error at once.
func (c *Configuration) Validate() error {
	var err error

	if c.Scaling.StateDivisor <= 0 {
		err = multierr.Append(err, fmt.Errorf("scaling.stateDivisor must be positive, got %v", c.Scaling.StateDivisor))
	}
	if c.Scaling.NationalDivisor <= 0 {
		err = multierr.Append(err, fmt.Errorf("scaling.nationalDivisor must be positive, got %v", c.Scaling.NationalDivisor))
	}
	if c.Scaling.MaxMarginPoints <= 0 {
		err = multierr.Append(err, fmt.Errorf("scaling.maxMarginPoints must be positive, got %v", c.Scaling.MaxMarginPoints))
	}
	if formatErr := validation.ValidateOutputFormat(c.Output.Format); formatErr != nil {
		err = multierr.Append(err, formatErr)
	}

	seen := make(map[string]struct{}, len(c.Scenarios))
	for i, scenario := range c.Scenarios {
		name := strings.TrimSpace(scenario.Name)
		if name == "" {
			err = multierr.Append(err, fmt.Errorf("scenario %d has no name", i+1))
			continue
		}
		if _, dup := seen[name]; dup {
			err = multierr.Append(err, fmt.Errorf("duplicate scenario name '%s'", name))
		}
		seen[name] = struct{}{}

		for j := range scenario.Optimizers {
			if optErr := c.Scenarios[i].Optimizers[j].Validate(); optErr != nil {
				err = multierr.Append(err, fmt.Errorf("scenario %s optimizer %d: %w", name, j+1, optErr))
			}
		}
	}

	return err
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	scenarios := make([]validation.ScenarioConfig, 0, len(c.Scenarios))
	for _, scenario := range c.Scenarios {
		scenarios = append(scenarios, validation.ScenarioConfig{
			Name:             scenario.Name,
			Active:           scenario.Active,
			TargetMargins:    scenario.TargetMargins,
			TurnoutShifts:    scenario.TurnoutShifts,
			ThirdPartyShifts: scenario.ThirdPartyShifts,
		})
	}

	validator := validation.ConfigValidator{Scenarios: scenarios}
	return validator.ValidateAll()
}
