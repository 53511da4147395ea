// Package constants provides shared constants for the swing-o-matic application.
package constants

import "time"

// Scaling defaults
const (
	// DefaultStateDivisor converts slider point deltas into state engine input.
	DefaultStateDivisor = 20.0

	// DefaultNationalDivisor converts slider point deltas into national projection input.
	DefaultNationalDivisor = 2.0

	// DefaultMaxMarginPoints is the engine's margin clamp bound.
	DefaultMaxMarginPoints = 100.0

	// MaxSliderPoints bounds any target margin delta in points.
	MaxSliderPoints = 100.0

	// PercentageMultiplier converts fractions to percentage points.
	PercentageMultiplier = 100.0
)

// Validation constants
const (
	// ShareTolerance is the tolerance for share-sum comparisons
	ShareTolerance = 1e-9

	// CompositionTolerance is how far a raw demographic composition may drift
	// from 1.0 before a warning is logged.
	CompositionTolerance = 0.05
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Default data locations
const (
	DefaultStateDemographicsPath    = "data/state_demographics.csv"
	DefaultStateResultsPath         = "data/results.csv"
	DefaultNationalDemographicsPath = "data/national_demographics.csv"
	DefaultExitPollPath             = "data/exit_poll.csv"
)

// Server configuration defaults
const (
	// DefaultShutdownTimeout bounds graceful HTTP shutdown
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultReadHeaderTimeout bounds how long a client may take to send headers
	DefaultReadHeaderTimeout = 5 * time.Second

	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// GenericFailureMessage is reported when a projection fails unexpectedly.
	GenericFailureMessage = "An error occurred while calculating results."
)
