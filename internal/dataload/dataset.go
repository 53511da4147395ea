package dataload

import (
	"fmt"

	"github.com/iwvelando/swing-o-matic/internal/coalition"
	"go.uber.org/zap"
)

// Paths locates the four source tables.
type Paths struct {
	StateDemographics    string
	StateResults         string
	NationalDemographics string
	ExitPoll             string
}

// Dataset holds the raw tables the builders consume.
type Dataset struct {
	StateDemographics    coalition.Table
	StateResults         coalition.Table
	NationalDemographics coalition.Table
	ExitPoll             coalition.Table
}

// Load reads every source table named in paths.
func Load(logger *zap.Logger, paths Paths) (*Dataset, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var ds Dataset
	sources := []struct {
		name string
		path string
		dst  *coalition.Table
	}{
		{coalition.SourceStateDemographics, paths.StateDemographics, &ds.StateDemographics},
		{coalition.SourceStateResults, paths.StateResults, &ds.StateResults},
		{coalition.SourceNationalDemographics, paths.NationalDemographics, &ds.NationalDemographics},
		{coalition.SourceExitPoll, paths.ExitPoll, &ds.ExitPoll},
	}

	for _, source := range sources {
		if source.path == "" {
			return nil, fmt.Errorf("no path configured for %s", source.name)
		}
		table, err := ReadTableFile(source.path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", source.name, err)
		}
		*source.dst = table
		logger.Debug(fmt.Sprintf("loaded %s", source.name),
			zap.String("op", "dataload.Load"),
			zap.String("path", source.path),
			zap.Int("columns", len(table.Columns)),
			zap.Int("records", len(table.Records)),
		)
	}

	return &ds, nil
}
