package main

import (
	"fmt"

	"github.com/iwvelando/swing-o-matic/internal/optimizer"
	"github.com/iwvelando/swing-o-matic/pkg/constants"
	"github.com/iwvelando/swing-o-matic/pkg/output"
	"github.com/spf13/cobra"
)

func newTippingCmd(flags *globalFlags) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "tipping",
		Short: "Search each active scenario's optimizer directives for tipping points",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := setup(flags, nil)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			baseline, err := loadBaseline(logger, conf)
			if err != nil {
				return err
			}

			runner, err := optimizer.NewRunner(logger, baseline, conf.Scaling.Projection())
			if err != nil {
				return err
			}
			result, err := runner.Run(conf.Scenarios)
			if err != nil {
				return fmt.Errorf("failed to search tipping points: %w", err)
			}

			names := make([]string, 0, len(conf.Scenarios))
			for _, scenario := range conf.ActiveScenarios() {
				names = append(names, scenario.Name)
			}

			if jsonOutput || conf.Output.Format == constants.OutputFormatJSON {
				return output.JSONTippingPoints(cmd.OutOrStdout(), names, result.Summaries)
			}
			if result.Empty() {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No optimizer directives in active scenarios")
				return err
			}
			return output.PrettyTippingPoints(cmd.OutOrStdout(), names, result.Summaries)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "write summaries as JSON")
	return cmd
}
