package swing

import (
	"github.com/iwvelando/swing-o-matic/internal/coalition"
	"github.com/iwvelando/swing-o-matic/pkg/mathutil"
)

// PopularVote is a normalized national three-way split.
type PopularVote struct {
	Obama  float64
	McCain float64
	Third  float64
}

// Margin is Obama's share minus McCain's share.
func (p PopularVote) Margin() float64 {
	return p.Obama - p.McCain
}

// Leader applies the DecideWinner tie-break to the national split.
func (p PopularVote) Leader() Candidate {
	return DecideWinner(p.Obama, p.McCain, p.Third)
}

// ProjectNational moves the national baseline additively: each group's margin
// shift (in points) is converted to a fraction, capped to [-1, 1], weighted by
// the group's normalized national share, added to Obama and subtracted from
// McCain. Each share is then clamped to [0, 1] and the three are renormalized.
//
// Unlike ApplyRow this does not preserve the two-party sum.
func ProjectNational(row coalition.Row, marginPoints map[coalition.Group]float64) PopularVote {
	obama := row.BaselineObama
	mccain := row.BaselineMcCain
	third := row.BaselineThird

	total := row.ShareSum()
	if total > 0 {
		for _, g := range coalition.SwingGroups {
			weight := row.Shares[g] / total
			adjusted := mathutil.Clamp(mathutil.ToFraction(marginPoints[g]), -1, 1)
			obama += adjusted * weight
			mccain -= adjusted * weight
		}
	}

	obama = mathutil.Clamp01(obama)
	mccain = mathutil.Clamp01(mccain)
	third = mathutil.Clamp01(third)

	sum := obama + mccain + third
	if sum <= 0 {
		return PopularVote{Obama: 0.5, McCain: 0.5}
	}
	return PopularVote{Obama: obama / sum, McCain: mccain / sum, Third: third / sum}
}
