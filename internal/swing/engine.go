// Package swing implements the demographic swing-projection engine: it applies
// turnout, margin and third-party shifts to baseline coalition rows and derives
// final vote shares, winners and electoral totals.
package swing

import (
	"github.com/iwvelando/swing-o-matic/internal/coalition"
	"github.com/iwvelando/swing-o-matic/pkg/constants"
	"github.com/iwvelando/swing-o-matic/pkg/mathutil"
)

// Shifts holds the per-group adjustments for one projection.
//
// Margin values must already be in the same units as the baseline margin
// (fractions); the engine performs no unit conversion. Turnout values are
// relative deltas (0.10 grows a group's share by 10% before renormalizing).
// ThirdParty values are the new absolute third-party fraction for a group;
// a nil map disables the third-party adjustment.
type Shifts struct {
	Margin     map[coalition.Group]float64
	Turnout    map[coalition.Group]float64
	ThirdParty map[coalition.Group]float64
	// MaxMargin clamps the shifted margin; zero means DefaultMaxMarginPoints.
	MaxMargin float64
}

func (s Shifts) maxMargin() float64 {
	if s.MaxMargin <= 0 {
		return constants.DefaultMaxMarginPoints
	}
	return s.MaxMargin
}

// Result is one row after the swing has been applied.
type Result struct {
	// Row is a copy of the input with Shares replaced by the post-turnout composition.
	Row coalition.Row

	BaselineMargin float64
	TwoPartySum    float64
	MarginShift    float64
	NewMargin      float64

	FinalObama  float64
	FinalMcCain float64
	FinalThird  float64
	FinalMargin float64
	Winner      Candidate
}

// ApplySwing projects every row. The input slice and its rows are not modified.
func ApplySwing(rows []coalition.Row, shifts Shifts) []Result {
	results := make([]Result, len(rows))
	for i, row := range rows {
		results[i] = ApplyRow(row, shifts)
	}
	return results
}

// ApplyRow projects a single row.
func ApplyRow(row coalition.Row, shifts Shifts) Result {
	out := row.Clone()
	out.Shares = AdjustTurnout(row.Shares, shifts.Turnout)

	res := Result{
		Row:            out,
		BaselineMargin: row.BaselineMargin(),
		TwoPartySum:    row.TwoPartySum(),
	}

	res.MarginShift = WeightedShift(out.Shares, shifts.Margin)

	limit := shifts.maxMargin()
	res.NewMargin = mathutil.Clamp(res.BaselineMargin+res.MarginShift, -limit, limit)

	obama2p := (res.TwoPartySum + res.NewMargin) / 2
	mccain2p := (res.TwoPartySum - res.NewMargin) / 2

	third := row.BaselineThird
	if shifts.ThirdParty != nil {
		third += thirdPartyDelta(out.Shares, row.BaselineThird, shifts.ThirdParty)
	}

	if obama2p+mccain2p+third <= 0 {
		res.FinalObama, res.FinalMcCain, res.FinalThird = 0.5, 0.5, 0
	} else {
		res.FinalObama, res.FinalMcCain, res.FinalThird = splitPreservingMargin(res.NewMargin, third)
	}

	res.FinalMargin = res.FinalObama - res.FinalMcCain
	res.Winner = DecideWinner(res.FinalObama, res.FinalMcCain, res.FinalThird)
	return res
}

// AdjustTurnout scales each swing group's share by (1 + turnout delta), caps it
// to [0, 1] and renormalizes so the shares sum to 1. A row whose adjusted
// shares sum to zero is returned unnormalized.
func AdjustTurnout(shares, turnout map[coalition.Group]float64) map[coalition.Group]float64 {
	adjusted := make(map[coalition.Group]float64, len(coalition.SwingGroups))
	sum := 0.0
	for _, g := range coalition.SwingGroups {
		v := mathutil.Clamp01(shares[g] * (1 + turnout[g]))
		adjusted[g] = v
		sum += v
	}
	if sum > 0 {
		for _, g := range coalition.SwingGroups {
			adjusted[g] /= sum
		}
	}
	return adjusted
}

// WeightedShift weights each group's margin shift by its share of the row.
func WeightedShift(shares, margin map[coalition.Group]float64) float64 {
	shift := 0.0
	for _, g := range coalition.SwingGroups {
		shift += margin[g] * shares[g]
	}
	return shift
}

// thirdPartyDelta treats the row's baseline third-party share as every
// group's prior propensity. This is an approximation.
func thirdPartyDelta(shares map[coalition.Group]float64, baselineThird float64, thirdParty map[coalition.Group]float64) float64 {
	delta := 0.0
	for _, g := range coalition.SwingGroups {
		target, ok := thirdParty[g]
		if !ok {
			continue
		}
		delta += (target - baselineThird) * shares[g]
	}
	return delta
}

// splitPreservingMargin divides what remains after the third-party share
// between the two candidates, keeping margin where feasible.
func splitPreservingMargin(margin, third float64) (obama, mccain, thirdOut float64) {
	thirdOut = mathutil.Clamp01(third)
	remaining := 1 - thirdOut
	margin = mathutil.Clamp(margin, -remaining, remaining)
	obama = (remaining + margin) / 2
	mccain = (remaining - margin) / 2
	return obama, mccain, thirdOut
}

// PointsToFraction converts a margin shift in percentage points to the
// fractional units the engine expects.
func PointsToFraction(points float64) float64 {
	if !mathutil.Finite(points) {
		return 0
	}
	return mathutil.ToFraction(points)
}
