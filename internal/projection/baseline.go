// Package projection wires the coalition tables, the swing engine and the
// national projection into named scenario runs.
package projection

import (
	"fmt"

	"github.com/iwvelando/swing-o-matic/internal/coalition"
	"github.com/iwvelando/swing-o-matic/internal/dataload"
	"github.com/iwvelando/swing-o-matic/internal/swing"
	"github.com/iwvelando/swing-o-matic/pkg/constants"
	"github.com/iwvelando/swing-o-matic/pkg/mathutil"
	"go.uber.org/zap"
)

// Baseline is the immutable starting point shared by every projection.
type Baseline struct {
	states   []coalition.Row
	national coalition.Row
	original map[coalition.Group]float64
}

// NewBaseline builds the state and national rows from ds and records the
// exit-poll margins sliders are measured against.
func NewBaseline(logger *zap.Logger, ds *dataload.Dataset) (*Baseline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ds == nil {
		return nil, fmt.Errorf("no dataset provided")
	}

	states, err := coalition.BuildStateRows(ds.StateDemographics, ds.StateResults)
	if err != nil {
		return nil, fmt.Errorf("failed to build state rows: %w", err)
	}
	if len(states) == 0 {
		return nil, fmt.Errorf("no states present in both demographics and results")
	}

	poll, err := coalition.ParseExitPoll(ds.ExitPoll)
	if err != nil {
		return nil, fmt.Errorf("failed to parse exit poll: %w", err)
	}
	original, err := poll.OriginalMargins()
	if err != nil {
		return nil, fmt.Errorf("failed to compute original margins: %w", err)
	}

	national, err := coalition.BuildNationalRow(ds.NationalDemographics, poll)
	if err != nil {
		return nil, fmt.Errorf("failed to build national row: %w", err)
	}

	for _, row := range states {
		if sum := row.ShareSum(); !mathutil.WithinTolerance(sum, 1, constants.CompositionTolerance) {
			logger.Warn(fmt.Sprintf("state %s demographic shares sum to %.3f", row.ID, sum),
				zap.String("op", "projection.NewBaseline"),
			)
		}
	}

	logger.Debug("baseline constructed",
		zap.String("op", "projection.NewBaseline"),
		zap.Int("states", len(states)),
		zap.Float64("nationalObama", national.BaselineObama),
		zap.Float64("nationalMcCain", national.BaselineMcCain),
	)

	return &Baseline{
		states:   states,
		national: national,
		original: original,
	}, nil
}

// States returns a private copy of the state rows.
func (b *Baseline) States() []coalition.Row {
	return coalition.CloneRows(b.states)
}

// National returns a private copy of the national row.
func (b *Baseline) National() coalition.Row {
	return b.national.Clone()
}

// StateCount is the number of joined states.
func (b *Baseline) StateCount() int {
	return len(b.states)
}

// OriginalMargins returns the exit-poll margin, in whole points, for every swing group.
func (b *Baseline) OriginalMargins() map[coalition.Group]float64 {
	margins := make(map[coalition.Group]float64, len(b.original))
	for g, m := range b.original {
		margins[g] = m
	}
	return margins
}

// OriginalMargin returns the exit-poll margin for g in whole points.
func (b *Baseline) OriginalMargin(g coalition.Group) float64 {
	return b.original[g]
}

// ElectoralVotes is the total number of electoral votes across joined states.
func (b *Baseline) ElectoralVotes() int {
	total := 0
	for _, row := range b.states {
		total += row.ElectoralVotes
	}
	return total
}

// NationalVote is the unshifted national split.
func (b *Baseline) NationalVote() swing.PopularVote {
	return swing.ProjectNational(b.national, nil)
}
