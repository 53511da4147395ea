package projection

import (
	"fmt"
	"sort"

	"github.com/iwvelando/swing-o-matic/internal/coalition"
	"github.com/iwvelando/swing-o-matic/pkg/constants"
	"github.com/iwvelando/swing-o-matic/pkg/mathutil"
)

// Scenario is one set of slider positions keyed by swing group name.
// TargetMargins are absolute slider values in points, TurnoutShifts are
// fractional group-size changes and ThirdPartyShifts are target third-party
// shares. A group with no target is left at its exit-poll margin.
type Scenario struct {
	Name             string             `json:"name"`
	TargetMargins    map[string]float64 `json:"targetMargins,omitempty"`
	TurnoutShifts    map[string]float64 `json:"turnoutShifts,omitempty"`
	ThirdPartyShifts map[string]float64 `json:"thirdPartyShifts,omitempty"`
}

// Scaling converts slider deltas into engine inputs.
type Scaling struct {
	StateDivisor    float64
	NationalDivisor float64
	MaxMarginPoints float64
}

// DefaultScaling returns the stock divisors.
func DefaultScaling() Scaling {
	return Scaling{
		StateDivisor:    constants.DefaultStateDivisor,
		NationalDivisor: constants.DefaultNationalDivisor,
		MaxMarginPoints: constants.DefaultMaxMarginPoints,
	}
}

func (s Scaling) validate() error {
	if s.StateDivisor <= 0 || !mathutil.Finite(s.StateDivisor) {
		return fmt.Errorf("state divisor must be positive, got %v", s.StateDivisor)
	}
	if s.NationalDivisor <= 0 || !mathutil.Finite(s.NationalDivisor) {
		return fmt.Errorf("national divisor must be positive, got %v", s.NationalDivisor)
	}
	return nil
}

// Inputs is a scenario after sanitization, keyed by resolved group.
type Inputs struct {
	Name             string
	TargetMargins    map[coalition.Group]float64
	TurnoutShifts    map[coalition.Group]float64
	ThirdPartyShifts map[coalition.Group]float64
	// Dropped describes every entry that was neutralized, in sorted order.
	Dropped []string
}

// Sanitize resolves group names and neutralizes unusable values. Unknown
// groups and non-finite values are dropped, which leaves a target at the
// exit-poll margin, a turnout shift at zero and the third party unadjusted.
func Sanitize(s Scenario) Inputs {
	in := Inputs{Name: s.Name}
	in.TargetMargins, in.Dropped = resolve("target margin", s.TargetMargins, in.Dropped)
	in.TurnoutShifts, in.Dropped = resolve("turnout shift", s.TurnoutShifts, in.Dropped)
	in.ThirdPartyShifts, in.Dropped = resolve("third-party shift", s.ThirdPartyShifts, in.Dropped)
	sort.Strings(in.Dropped)
	return in
}

func resolve(kind string, values map[string]float64, dropped []string) (map[coalition.Group]float64, []string) {
	resolved := make(map[coalition.Group]float64, len(values))
	for name, value := range values {
		g, err := coalition.ParseGroup(name)
		if err != nil {
			dropped = append(dropped, fmt.Sprintf("%s for unknown group %q", kind, name))
			continue
		}
		if !mathutil.Finite(value) {
			dropped = append(dropped, fmt.Sprintf("%s for %s is not a number", kind, g))
			continue
		}
		resolved[g] = value
	}
	return resolved, dropped
}
