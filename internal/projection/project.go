package projection

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/swing-o-matic/internal/coalition"
	"github.com/iwvelando/swing-o-matic/internal/swing"
	"github.com/iwvelando/swing-o-matic/pkg/constants"
	"github.com/iwvelando/swing-o-matic/pkg/format"
	"github.com/iwvelando/swing-o-matic/pkg/mathutil"
	"go.uber.org/zap"
)

// Result holds one scenario's projection.
type Result struct {
	Name string
	// Deltas is the clamped target-minus-original shift in points per group.
	Deltas      map[coalition.Group]float64
	States      []swing.Result
	PopularVote swing.PopularVote
	Electoral   swing.ElectoralTally
	Dropped     []string
}

// Project runs s against the baseline. The baseline is not modified; the
// engine receives fresh copies of every row.
func (b *Baseline) Project(logger *zap.Logger, s Scenario, scaling Scaling) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := scaling.validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	in := Sanitize(s)
	for _, dropped := range in.Dropped {
		logger.Warn(fmt.Sprintf("ignoring %s", dropped),
			zap.String("op", "projection.Project"),
			zap.String("scenario", s.Name),
		)
	}

	deltas := b.deltas(in.TargetMargins)
	stateMargins := make(map[coalition.Group]float64, len(deltas))
	nationalPoints := make(map[coalition.Group]float64, len(deltas))
	for g, delta := range deltas {
		stateMargins[g] = delta / scaling.StateDivisor
		nationalPoints[g] = delta / scaling.NationalDivisor
	}

	shifts := swing.Shifts{
		Margin:    stateMargins,
		Turnout:   in.TurnoutShifts,
		MaxMargin: scaling.MaxMarginPoints,
	}
	if len(in.ThirdPartyShifts) > 0 {
		shifts.ThirdParty = in.ThirdPartyShifts
	}

	states := swing.ApplySwing(b.States(), shifts)
	result := &Result{
		Name:        s.Name,
		Deltas:      deltas,
		States:      states,
		PopularVote: swing.ProjectNational(b.National(), nationalPoints),
		Electoral:   swing.AggregateElectoral(states),
		Dropped:     in.Dropped,
	}

	logger.Debug(fmt.Sprintf("projected scenario %s", s.Name),
		zap.String("op", "projection.Project"),
		zap.Int("states", len(states)),
		zap.Int("obamaEV", result.Electoral.Votes(swing.Obama)),
		zap.Int("mccainEV", result.Electoral.Votes(swing.McCain)),
		zap.Float64("popularMargin", result.PopularVote.Margin()),
	)

	return result, nil
}

// deltas converts absolute slider targets into clamped point shifts.
func (b *Baseline) deltas(targets map[coalition.Group]float64) map[coalition.Group]float64 {
	deltas := make(map[coalition.Group]float64, len(targets))
	for g, target := range targets {
		deltas[g] = mathutil.Clamp(target-b.original[g], -constants.MaxSliderPoints, constants.MaxSliderPoints)
	}
	return deltas
}

// State returns the projected result for id.
func (r *Result) State(id string) (swing.Result, bool) {
	for _, state := range r.States {
		if state.Row.ID == id {
			return state, true
		}
	}
	return swing.Result{}, false
}

// PopularVoteSummary renders the national split, e.g.
// "Popular Vote: Obama 52.9%, McCain 45.6%, Margin 7.3%".
func (r *Result) PopularVoteSummary() string {
	vote := r.PopularVote
	return fmt.Sprintf("Popular Vote: Obama %s, McCain %s, Margin %s",
		format.Percent(vote.Obama), format.Percent(vote.McCain), format.Percent(math.Abs(vote.Margin())))
}

// ElectoralSummary renders the electoral totals. The third party is listed
// only when it carried a state.
func (r *Result) ElectoralSummary() string {
	parts := []string{
		fmt.Sprintf("Obama %d", r.Electoral.Votes(swing.Obama)),
		fmt.Sprintf("McCain %d", r.Electoral.Votes(swing.McCain)),
	}
	if third := r.Electoral.Votes(swing.ThirdParty); third > 0 {
		parts = append(parts, fmt.Sprintf("Third Party %d", third))
	}
	return "Electoral College: " + strings.Join(parts, ", ")
}
