package coalition

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateDemographicsTable() Table {
	return Table{
		Columns: []string{
			"STATE", "White_College_Percentage", "White_Non_College_Percentage",
			"Black_Percentage", "Hispanic_Percentage", "Asian_Percentage", "Other_Percentage",
			"Male_Percentage", "Female_Percentage", "Veteran_Percentage",
		},
		Records: []map[string]string{
			{
				"STATE": "OH", "White_College_Percentage": "0.25", "White_Non_College_Percentage": "0.58",
				"Black_Percentage": "0.11", "Hispanic_Percentage": "0.03", "Asian_Percentage": "0.01",
				"Other_Percentage": "0.02", "Male_Percentage": "0.48", "Female_Percentage": "0.52",
				"Veteran_Percentage": "0.09",
			},
			{
				"STATE": "GA", "White_College_Percentage": "0.20", "White_Non_College_Percentage": "0.42",
				"Black_Percentage": "0.30", "Hispanic_Percentage": "0.04", "Asian_Percentage": "0.02",
				"Other_Percentage": "0.02", "Male_Percentage": "0.47", "Female_Percentage": "0.53",
				"Veteran_Percentage": "",
			},
			{
				"STATE": "PR", "White_College_Percentage": "0", "White_Non_College_Percentage": "0",
				"Black_Percentage": "0", "Hispanic_Percentage": "1", "Asian_Percentage": "0",
				"Other_Percentage": "0", "Male_Percentage": "0.5", "Female_Percentage": "0.5",
			},
		},
	}
}

func stateResultsTable() Table {
	return Table{
		Columns: []string{"STATE", "OBAMA", "MCCAIN", "THIRDPARTY", "EV", "MARGIN", "TURNOUT"},
		Records: []map[string]string{
			{"STATE": "GA", "OBAMA": "0.47", "MCCAIN": "0.52", "THIRDPARTY": "0.01", "EV": "15", "MARGIN": "-0.05", "TURNOUT": "0.62"},
			{"STATE": "OH", "OBAMA": "0.515", "MCCAIN": "0.468", "THIRDPARTY": "0.017", "EV": "20", "MARGIN": "0.047", "TURNOUT": "0.67"},
			{"STATE": "DC", "OBAMA": "0.92", "MCCAIN": "0.07", "THIRDPARTY": "0.01", "EV": "3", "MARGIN": "0.85", "TURNOUT": "0.61"},
		},
	}
}

func TestBuildStateRowsInnerJoin(t *testing.T) {
	rows, err := BuildStateRows(stateDemographicsTable(), stateResultsTable())
	require.NoError(t, err)
	require.Len(t, rows, 2, "PR has no results and DC has no demographics")

	assert.Equal(t, "OH", rows[0].ID, "demographics order is preserved")
	assert.Equal(t, "GA", rows[1].ID)

	oh := rows[0]
	assert.Equal(t, 20, oh.ElectoralVotes)
	assert.InDelta(t, 0.515, oh.BaselineObama, 1e-12)
	assert.InDelta(t, 0.468, oh.BaselineMcCain, 1e-12)
	assert.InDelta(t, 0.017, oh.BaselineThird, 1e-12)
	assert.InDelta(t, 0.047, oh.ReportedMargin, 1e-12)
	assert.InDelta(t, 0.67, oh.Turnout, 1e-12)
	assert.InDelta(t, 1.0, oh.ShareSum(), 1e-9)

	want := map[Group]float64{
		WhiteCollege: 0.25, WhiteNonCollege: 0.58, Black: 0.11,
		Hispanic: 0.03, Asian: 0.01, Other: 0.02,
	}
	if diff := cmp.Diff(want, oh.Shares); diff != "" {
		t.Errorf("OH shares mismatch (-want +got):\n%s", diff)
	}

	assert.InDelta(t, 0.09, oh.Auxiliary[Veteran], 1e-12)
	assert.InDelta(t, 0.48, oh.Auxiliary[Male], 1e-12)
	_, hasAge := oh.Auxiliary[Age18To24]
	assert.False(t, hasAge, "absent auxiliary columns are not invented")

	ga := rows[1]
	assert.Equal(t, 0.0, ga.Auxiliary[Veteran], "blank auxiliary cell is zero")
}

func TestBuildStateRowsMissingColumns(t *testing.T) {
	demo := stateDemographicsTable()
	demo.Columns = []string{"STATE", "Black_Percentage", "Hispanic_Percentage", "Asian_Percentage", "Other_Percentage"}

	results := stateResultsTable()
	results.Columns = []string{"STATE", "OBAMA", "MCCAIN", "THIRDPARTY"}

	_, err := BuildStateRows(demo, results)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, SourceStateDemographics, cfgErr.Source)
	assert.Equal(t, []string{"WhiteCollegeShare", "WhiteNonCollegeShare"}, cfgErr.Missing)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "WhiteCollegeShare")
}

func TestBuildStateRowsRequiredFieldsPerTable(t *testing.T) {
	withoutColumn := func(table Table, column string) Table {
		var columns []string
		for _, c := range table.Columns {
			if c != column {
				columns = append(columns, c)
			}
		}
		table.Columns = columns
		for _, record := range table.Records {
			delete(record, column)
		}
		return table
	}

	tests := []struct {
		name        string
		demo        Table
		results     Table
		wantSource  string
		wantMissing []string
	}{
		{
			name:        "Results without a state column",
			demo:        stateDemographicsTable(),
			results:     withoutColumn(stateResultsTable(), "STATE"),
			wantSource:  SourceStateResults,
			wantMissing: []string{FieldState},
		},
		{
			name:        "Demographics without a state column",
			demo:        withoutColumn(stateDemographicsTable(), "STATE"),
			results:     stateResultsTable(),
			wantSource:  SourceStateDemographics,
			wantMissing: []string{FieldState},
		},
		{
			name: "Electoral votes only on the demographics side",
			demo: func() Table {
				demo := stateDemographicsTable()
				demo.Columns = append(demo.Columns, "EV")
				for _, record := range demo.Records {
					record["EV"] = "10"
				}
				return demo
			}(),
			results:     withoutColumn(stateResultsTable(), "EV"),
			wantSource:  SourceStateResults,
			wantMissing: []string{FieldElectoralVotes},
		},
		{
			name:        "Results without the baseline split",
			demo:        stateDemographicsTable(),
			results:     withoutColumn(withoutColumn(stateResultsTable(), "OBAMA"), "MCCAIN"),
			wantSource:  SourceStateResults,
			wantMissing: []string{FieldBaselineMcCain, FieldBaselineObama},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := BuildStateRows(tt.demo, tt.results)
			require.Error(t, err)
			assert.Nil(t, rows)
			assert.True(t, IsConfigError(err))

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantSource, cfgErr.Source)
			assert.ElementsMatch(t, tt.wantMissing, cfgErr.Missing)
		})
	}
}

func TestBuildStateRowsDuplicateStates(t *testing.T) {
	results := stateResultsTable()
	results.Records = append(results.Records,
		map[string]string{"STATE": " GA", "OBAMA": "0.5", "MCCAIN": "0.49", "THIRDPARTY": "0.01", "EV": "15"})

	_, err := BuildStateRows(stateDemographicsTable(), results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), SourceStateResults)
	assert.Contains(t, err.Error(), "state GA is listed more than once")
	assert.False(t, IsConfigError(err))

	demo := stateDemographicsTable()
	demo.Records = append(demo.Records, demo.Records[0])
	_, err = BuildStateRows(demo, stateResultsTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), SourceStateDemographics)
	assert.Contains(t, err.Error(), "state OH")
}

func TestBuildStateRowsInvalidNumber(t *testing.T) {
	results := stateResultsTable()
	results.Records[1]["OBAMA"] = "n/a"

	_, err := BuildStateRows(stateDemographicsTable(), results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state OH")
	assert.Contains(t, err.Error(), FieldBaselineObama)
	assert.False(t, IsConfigError(err))
}

func TestBuildStateRowsDoesNotMutateInputs(t *testing.T) {
	demo := stateDemographicsTable()
	results := stateResultsTable()

	_, err := BuildStateRows(demo, results)
	require.NoError(t, err)

	assert.Equal(t, "STATE", demo.Columns[0])
	_, renamed := demo.Records[0][string(Black)]
	assert.False(t, renamed)
	assert.Equal(t, "0.11", demo.Records[0]["Black_Percentage"])
}

func exitPollTable() Table {
	return Table{
		Columns: []string{"Subgroup", "Obama", "McCain", "Other", "% of Total Vote"},
		Records: []map[string]string{
			{"Subgroup": "Total", "Obama": "0.53", "McCain": "0.46", "Other": "0.01", "% of Total Vote": "1"},
			{"Subgroup": "White no college degree", "Obama": "0.40", "McCain": "0.58", "Other": "0.02", "% of Total Vote": "0.39"},
			{"Subgroup": "White college graduates", "Obama": "0.47", "McCain": "0.51", "Other": "0.02", "% of Total Vote": "0.35"},
			{"Subgroup": "Black", "Obama": "0.95", "McCain": "0.04", "Other": "0.01", "% of Total Vote": "0.13"},
			{"Subgroup": "Hispanic", "Obama": "0.67", "McCain": "0.31", "Other": "0.02", "% of Total Vote": "0.09"},
			{"Subgroup": "Asian", "Obama": "0.62", "McCain": "0.35", "Other": "0.03", "% of Total Vote": "0.02"},
			{"Subgroup": "Other", "Obama": "0.66", "McCain": "0.31", "Other": "0.03", "% of Total Vote": "0.03"},
		},
	}
}

func TestParseExitPoll(t *testing.T) {
	poll, err := ParseExitPoll(exitPollTable())
	require.NoError(t, err)

	total, err := poll.Total()
	require.NoError(t, err)
	assert.InDelta(t, 0.53, total.Obama, 1e-12)
	assert.InDelta(t, 0.46, total.McCain, 1e-12)
	assert.InDelta(t, 0.01, total.Other, 1e-12)

	margins, err := poll.OriginalMargins()
	require.NoError(t, err)
	want := map[Group]float64{
		WhiteNonCollege: -18, WhiteCollege: -4, Black: 91,
		Hispanic: 36, Asian: 27, Other: 35,
	}
	if diff := cmp.Diff(want, margins); diff != "" {
		t.Errorf("original margins mismatch (-want +got):\n%s", diff)
	}

	assert.InDelta(t, 0.13, poll.VoteShares()["Black"], 1e-12)
	assert.Equal(t, "Total", poll.Subgroups()[0])
}

func TestParseExitPollMissingTotal(t *testing.T) {
	table := exitPollTable()
	table.Records = table.Records[1:]

	poll, err := ParseExitPoll(table)
	require.NoError(t, err)

	_, err = poll.Total()
	assert.ErrorIs(t, err, ErrMissingTotal)
	assert.True(t, IsConfigError(err))
}

func TestParseExitPollMissingSubgroup(t *testing.T) {
	table := exitPollTable()
	table.Records = table.Records[:5]

	poll, err := ParseExitPoll(table)
	require.NoError(t, err)

	_, err = poll.OriginalMargins()
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"Asian", "Other"}, cfgErr.Missing)
}

func TestParseExitPollMissingColumns(t *testing.T) {
	_, err := ParseExitPoll(Table{Columns: []string{"Subgroup", "Obama"}})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"McCain", "Other"}, cfgErr.Missing)
}

func nationalTable() Table {
	return Table{
		Columns: []string{
			"Asian/Pacific Islander", "Black/African American", "Hispanic/Latino", "Other",
			"College_White", "Noncollege_White", "Male", "Female",
		},
		Records: []map[string]string{{
			"Asian/Pacific Islander": "0.05", "Black/African American": "0.12", "Hispanic/Latino": "0.10",
			"Other": "0.03", "College_White": "0.25", "Noncollege_White": "0.45",
			"Male": "0.48", "Female": "0.52",
		}},
	}
}

func TestBuildNationalRow(t *testing.T) {
	poll, err := ParseExitPoll(exitPollTable())
	require.NoError(t, err)

	row, err := BuildNationalRow(nationalTable(), poll)
	require.NoError(t, err)

	assert.Equal(t, NationalID, row.ID)
	assert.InDelta(t, 0.53, row.BaselineObama, 1e-12)
	assert.InDelta(t, 0.46, row.BaselineMcCain, 1e-12)
	assert.InDelta(t, 0.01, row.BaselineThird, 1e-12)
	assert.InDelta(t, 0.45, row.Shares[WhiteNonCollege], 1e-12)
	assert.InDelta(t, 0.05, row.Shares[Asian], 1e-12)
	assert.InDelta(t, 0.52, row.Auxiliary[Female], 1e-12)
	assert.Zero(t, row.ElectoralVotes)
}

func TestBuildNationalRowErrors(t *testing.T) {
	poll, err := ParseExitPoll(exitPollTable())
	require.NoError(t, err)

	t.Run("missing columns", func(t *testing.T) {
		table := nationalTable()
		table.Columns = table.Columns[:6]
		_, err := BuildNationalRow(table, poll)
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, []string{"FemaleShare", "MaleShare"}, cfgErr.Missing)
	})

	t.Run("missing total", func(t *testing.T) {
		table := exitPollTable()
		table.Records = table.Records[1:]
		noTotal, err := ParseExitPoll(table)
		require.NoError(t, err)
		_, err = BuildNationalRow(nationalTable(), noTotal)
		assert.ErrorIs(t, err, ErrMissingTotal)
	})

	t.Run("no records", func(t *testing.T) {
		table := nationalTable()
		table.Records = nil
		_, err := BuildNationalRow(table, poll)
		require.Error(t, err)
		assert.False(t, IsConfigError(err))
	})
}

func TestRowCloneIsDeep(t *testing.T) {
	row := Row{ID: "OH", Shares: map[Group]float64{Black: 0.1}, Auxiliary: map[Group]float64{Male: 0.5}}
	clone := row.Clone()
	clone.Shares[Black] = 0.9
	clone.Auxiliary[Male] = 0.1

	assert.Equal(t, 0.1, row.Shares[Black])
	assert.Equal(t, 0.5, row.Auxiliary[Male])
}

func TestParseGroup(t *testing.T) {
	g, err := ParseGroup("BlackShare")
	require.NoError(t, err)
	assert.Equal(t, Black, g)

	g, err = ParseGroup("whitenoncollegeshare")
	require.NoError(t, err)
	assert.Equal(t, WhiteNonCollege, g)

	_, err = ParseGroup("MaleShare")
	assert.Error(t, err, "auxiliary groups are not swing groups")
}
