package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/swing-o-matic/internal/config"
	"github.com/iwvelando/swing-o-matic/internal/dataload"
	"github.com/iwvelando/swing-o-matic/internal/projection"
	"github.com/iwvelando/swing-o-matic/pkg/constants"
	"github.com/iwvelando/swing-o-matic/pkg/output"
	"github.com/iwvelando/swing-o-matic/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type globalFlags struct {
	configLocation string
	logLevel       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "swing-o-matic",
		Short:         "Project 2008 presidential results under demographic swing scenarios",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newProjectCmd(flags))
	root.AddCommand(newValidateCmd(flags))
	root.AddCommand(newTippingCmd(flags))
	root.AddCommand(newServeCmd(flags))
	return root
}

func newProjectCmd(flags *globalFlags) *cobra.Command {
	var outputFormatFlag string
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Run every active scenario in the configuration and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(cmd.Context(), cmd.OutOrStdout(), flags, outputFormatFlag)
		},
	}
	cmd.Flags().StringVar(&outputFormatFlag, "output-format", "", "type of output override: pretty, csv, json")
	return cmd
}

func newValidateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and data files without projecting",
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
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Configuration OK: %d active scenario(s), %d states, %d electoral votes\n",
				len(conf.ActiveScenarios()), baseline.StateCount(), baseline.ElectoralVotes())
			return err
		},
	}
}

// setup loads the configuration, builds the logger and reports warnings.
// A nil logging uses the configuration's own logging section.
func setup(flags *globalFlags, logging *config.LoggingConfig) (*config.Configuration, *zap.Logger, error) {
	conf, err := config.LoadConfiguration(flags.configLocation)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", flags.configLocation, err)
	}
	if logging == nil {
		logging = &conf.Logging
	}

	logger, err := initializeLogger(*logging, flags.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.setup"),
		)
	}
	return conf, logger, nil
}

func loadBaseline(logger *zap.Logger, conf *config.Configuration) (*projection.Baseline, error) {
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ds, err := dataload.Load(logger, conf.Data.Paths())
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	baseline, err := projection.NewBaseline(logger, ds)
	if err != nil {
		return nil, fmt.Errorf("failed to build baseline: %w", err)
	}
	return baseline, nil
}

func runProject(ctx context.Context, w io.Writer, flags *globalFlags, outputFormatFlag string) error {
	conf, logger, err := setup(flags, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if outputFormatFlag != "" {
		outputFormat = outputFormatFlag
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	baseline, err := loadBaseline(logger, conf)
	if err != nil {
		return err
	}

	results, err := projection.RunAll(ctx, logger, baseline, conf.ProjectionScenarios(), conf.Scaling.Projection())
	if err != nil {
		return fmt.Errorf("failed to compute projections: %w", err)
	}

	switch outputFormat {
	case constants.OutputFormatCSV:
		return output.CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return output.JSONFormat(w, results)
	default:
		return output.PrettyFormat(w, results)
	}
}
