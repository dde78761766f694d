package run

import (
	"fmt"
	"io"
	"os"

	"github.com/microsoft/caserun/internal/metrics"
	"github.com/microsoft/caserun/internal/runner"
	"github.com/microsoft/caserun/internal/suite"
	"github.com/microsoft/caserun/pkg/caserun/utils"
)

type RunCmd struct {
	Filter      []string `short:"f" help:"Run only test cases matching <type>, <type>.<method> or glob"`
	MetricsFile string   `short:"m" help:"Write Prometheus metrics to this file after the run" type:"path"`
	NoLogs      bool     `help:"Do not print the captured logs of failed test cases"`
}

func (cmd *RunCmd) Run(suite suite.SuiteContext) error {
	return cmd.run(suite, os.Stdout)
}

func (cmd *RunCmd) run(suite suite.SuiteContext, out io.Writer) error {
	log := suite.Logger()
	cfg := suite.Config()

	filters := cmd.Filter
	if len(filters) == 0 {
		filters = cfg.Filter
	}

	metricsFile := cmd.MetricsFile
	if metricsFile == "" {
		metricsFile = cfg.MetricsFile
	}

	log.Infof("Running suite '%s'", suite.Name())
	log.Debugf("Filter: %v", filters)

	_, err := runner.RunEntries(suite, suite.Entries(), runner.Options{
		Filter:   utils.NewStringFilterFromSlice(filters),
		ShowLogs: cfg.ShowLogs && !cmd.NoLogs,
		Output:   out,
	})

	if metricsFile != "" {
		log.Debugf("Writing metrics to '%s'", metricsFile)
		if metricsErr := metrics.WriteTextfile(metricsFile); metricsErr != nil {
			log.WithError(metricsErr).Error("Failed to write metrics")
			if err == nil {
				err = fmt.Errorf("failed to write metrics: %w", metricsErr)
			}
		}
	}

	return err
}
