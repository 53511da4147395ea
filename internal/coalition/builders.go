package coalition

import (
	"fmt"
	"math"
	"strings"
)

// Source names used in configuration errors.
const (
	SourceStateDemographics    = "state demographics"
	SourceStateResults         = "state results"
	SourceNationalDemographics = "national demographics"
	SourceExitPoll             = "exit poll"
)

// BuildStateRows joins per-state demographics with per-state results on State.
// States present in only one of the two tables are dropped; a state listed
// twice in either table is an error. Output order follows the demographics
// table.
func BuildStateRows(demographics, results Table) ([]Row, error) {
	demo := demographics.Rename(StateDemographicsRenames)
	res := results.Rename(StateResultsRenames)

	if missing := demo.Missing(requiredStateDemographicsFields()); len(missing) > 0 {
		return nil, newConfigError(SourceStateDemographics, missing)
	}
	if missing := res.Missing(requiredStateResultsFields()); len(missing) > 0 {
		return nil, newConfigError(SourceStateResults, missing)
	}

	byState, err := indexByState(SourceStateResults, res)
	if err != nil {
		return nil, err
	}
	if _, err := indexByState(SourceStateDemographics, demo); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(demo.Records))
	for _, demoRecord := range demo.Records {
		state := strings.TrimSpace(demoRecord[FieldState])
		resultRecord, ok := byState[state]
		if state == "" || !ok {
			continue
		}

		record := make(map[string]string, len(demoRecord)+len(resultRecord))
		for key, value := range demoRecord {
			record[key] = value
		}
		for key, value := range resultRecord {
			record[key] = value
		}

		row, err := rowFromRecord(state, record)
		if err != nil {
			return nil, fmt.Errorf("state %s: %w", state, err)
		}

		ev, err := requireFloat(record, FieldElectoralVotes)
		if err != nil {
			return nil, fmt.Errorf("state %s: %w", state, err)
		}
		row.ElectoralVotes = int(math.Round(ev))

		if row.ReportedMargin, _, err = parseFloat(record, FieldMargin); err != nil {
			return nil, fmt.Errorf("state %s: %w", state, err)
		}
		if row.Turnout, _, err = parseFloat(record, FieldTurnout); err != nil {
			return nil, fmt.Errorf("state %s: %w", state, err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// indexByState keys the records of t by State. Blank keys are skipped.
func indexByState(source string, t Table) (map[string]map[string]string, error) {
	byState := make(map[string]map[string]string, len(t.Records))
	for _, record := range t.Records {
		state := strings.TrimSpace(record[FieldState])
		if state == "" {
			continue
		}
		if _, dup := byState[state]; dup {
			return nil, fmt.Errorf("%s: state %s is listed more than once", source, state)
		}
		byState[state] = record
	}
	return byState, nil
}

// BuildNationalRow builds the single aggregate row for the whole electorate.
// Composition comes from the first demographics record; the baseline split is
// seeded from the exit poll's Total record.
func BuildNationalRow(demographics Table, poll ExitPoll) (Row, error) {
	demo := demographics.Rename(NationalDemographicsRenames)
	if missing := demo.Missing(requiredNationalFields()); len(missing) > 0 {
		return Row{}, newConfigError(SourceNationalDemographics, missing)
	}
	if len(demo.Records) == 0 {
		return Row{}, fmt.Errorf("%s: no records", SourceNationalDemographics)
	}

	total, err := poll.Total()
	if err != nil {
		return Row{}, err
	}

	row := Row{
		ID:             NationalID,
		BaselineObama:  total.Obama,
		BaselineMcCain: total.McCain,
		BaselineThird:  total.Other,
		Shares:         make(map[Group]float64, len(SwingGroups)),
	}
	if err := fillGroups(&row, demo.Records[0]); err != nil {
		return Row{}, fmt.Errorf("%s: %w", SourceNationalDemographics, err)
	}
	return row, nil
}

func rowFromRecord(id string, record map[string]string) (Row, error) {
	row := Row{
		ID:     id,
		Shares: make(map[Group]float64, len(SwingGroups)),
	}

	var err error
	if row.BaselineObama, err = requireFloat(record, FieldBaselineObama); err != nil {
		return Row{}, err
	}
	if row.BaselineMcCain, err = requireFloat(record, FieldBaselineMcCain); err != nil {
		return Row{}, err
	}
	if row.BaselineThird, _, err = parseFloat(record, FieldBaselineThird); err != nil {
		return Row{}, err
	}

	if err := fillGroups(&row, record); err != nil {
		return Row{}, err
	}
	return row, nil
}

// fillGroups parses swing and auxiliary group columns. A blank swing cell counts
// as zero presence; auxiliary columns are only recorded when present.
func fillGroups(row *Row, record map[string]string) error {
	for _, g := range SwingGroups {
		value, _, err := parseFloat(record, string(g))
		if err != nil {
			return err
		}
		row.Shares[g] = value
	}
	for _, g := range AuxiliaryGroups {
		if _, ok := record[string(g)]; !ok {
			continue
		}
		value, _, err := parseFloat(record, string(g))
		if err != nil {
			return err
		}
		if row.Auxiliary == nil {
			row.Auxiliary = make(map[Group]float64)
		}
		row.Auxiliary[g] = value
	}
	return nil
}
