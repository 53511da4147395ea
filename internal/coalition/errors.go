package coalition

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingTotal indicates the exit-poll reference lacks its "Total" record.
var ErrMissingTotal = errors.New("exit poll 'Total' row is missing")

// ConfigError reports required canonical fields absent from a source after renaming.
type ConfigError struct {
	Source  string
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing columns in %s: [%s]", e.Source, strings.Join(e.Missing, ", "))
}

func newConfigError(source string, missing []string) *ConfigError {
	sorted := append([]string(nil), missing...)
	sort.Strings(sorted)
	return &ConfigError{Source: source, Missing: sorted}
}

// IsConfigError reports whether err is, or wraps, a configuration error.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr) || errors.Is(err, ErrMissingTotal)
}
