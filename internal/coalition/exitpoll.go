package coalition

import (
	"fmt"
	"math"
	"strings"
)

// PollLine is one exit-poll subgroup record.
type PollLine struct {
	Subgroup  string
	Obama     float64
	McCain    float64
	Other     float64
	VoteShare float64
}

// Margin is the subgroup's Obama-minus-McCain margin as a fraction.
func (l PollLine) Margin() float64 {
	return l.Obama - l.McCain
}

// ExitPoll is the reference subgroup distribution, keyed by subgroup label.
type ExitPoll struct {
	lines map[string]PollLine
	order []string
}

// ParseExitPoll reads the reference table. The "% of Total Vote" column is optional.
func ParseExitPoll(table Table) (ExitPoll, error) {
	required := []string{ExitPollSubgroup, ExitPollObama, ExitPollMcCain, ExitPollOther}
	if missing := table.Missing(required); len(missing) > 0 {
		return ExitPoll{}, newConfigError(SourceExitPoll, missing)
	}

	poll := ExitPoll{lines: make(map[string]PollLine, len(table.Records))}
	for _, record := range table.Records {
		label := strings.TrimSpace(record[ExitPollSubgroup])
		if label == "" {
			continue
		}
		line := PollLine{Subgroup: label}
		var err error
		if line.Obama, err = requireFloat(record, ExitPollObama); err != nil {
			return ExitPoll{}, fmt.Errorf("%s subgroup %q: %w", SourceExitPoll, label, err)
		}
		if line.McCain, err = requireFloat(record, ExitPollMcCain); err != nil {
			return ExitPoll{}, fmt.Errorf("%s subgroup %q: %w", SourceExitPoll, label, err)
		}
		if line.Other, _, err = parseFloat(record, ExitPollOther); err != nil {
			return ExitPoll{}, fmt.Errorf("%s subgroup %q: %w", SourceExitPoll, label, err)
		}
		if line.VoteShare, _, err = parseFloat(record, ExitPollVoteShare); err != nil {
			return ExitPoll{}, fmt.Errorf("%s subgroup %q: %w", SourceExitPoll, label, err)
		}
		// First occurrence wins, matching a positional lookup.
		if _, seen := poll.lines[label]; seen {
			continue
		}
		poll.lines[label] = line
		poll.order = append(poll.order, label)
	}
	return poll, nil
}

// Line returns the record for a subgroup label.
func (p ExitPoll) Line(subgroup string) (PollLine, bool) {
	line, ok := p.lines[subgroup]
	return line, ok
}

// Subgroups returns the subgroup labels in source order.
func (p ExitPoll) Subgroups() []string {
	return append([]string(nil), p.order...)
}

// Total returns the reference baseline national split.
func (p ExitPoll) Total() (PollLine, error) {
	line, ok := p.lines[ExitPollTotal]
	if !ok {
		return PollLine{}, ErrMissingTotal
	}
	return line, nil
}

// OriginalMargins returns each swing group's baseline margin in whole points,
// rounded half away from zero.
func (p ExitPoll) OriginalMargins() (map[Group]float64, error) {
	margins := make(map[Group]float64, len(SwingGroups))
	var missing []string
	for _, g := range SwingGroups {
		line, ok := p.lines[ExitPollSubgroups[g]]
		if !ok {
			missing = append(missing, ExitPollSubgroups[g])
			continue
		}
		margins[g] = math.Round(line.Margin() * 100)
	}
	if len(missing) > 0 {
		return nil, newConfigError(SourceExitPoll, missing)
	}
	return margins, nil
}

// VoteShares maps subgroup labels to their share of the total vote.
func (p ExitPoll) VoteShares() map[string]float64 {
	shares := make(map[string]float64, len(p.lines))
	for label, line := range p.lines {
		shares[label] = line.VoteShare
	}
	return shares
}
