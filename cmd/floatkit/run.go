package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/floatkit/internal/config"
	"github.com/vango-dev/floatkit/internal/errors"
	"github.com/vango-dev/floatkit/internal/scenario"
)

type runOptions struct {
	json    bool
	timeout time.Duration
}

func runCmd(flags *globalFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Run scenarios",
		Long: `Run scenario files and report the outcome of each.

Without arguments every *.yaml and *.yml file in the project's scenario
directory is run. The command exits with status 1 when any scenario fails.

Examples:
  floatkit run
  floatkit run scenarios/menu.yaml
  floatkit run --json > report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}

			files := args
			if len(files) == 0 {
				files, err = cfg.ScenarioFiles()
				if err != nil {
					return err
				}
				if len(files) == 0 {
					return errors.New("F310").
						WithDetail("No scenarios found in " + cfg.ScenariosPath()).
						WithSuggestion("Pass a scenario file or add one to the scenario directory")
				}
			}

			runner := scenario.New(scenario.WithLogger(newLogger(cmd.ErrOrStderr(), cfg)))
			return runScenarios(cmd.Context(), cmd.OutOrStdout(), runner, files, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Print reports as JSON")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort a scenario that runs longer than this")

	return cmd
}

// runScenarios runs files in order and writes a result line per scenario,
// or a JSON array of reports. It returns an F311 error when any scenario
// failed.
func runScenarios(ctx context.Context, out io.Writer, runner *scenario.Runner, files []string, opts runOptions) error {
	reports := make([]*scenario.Report, 0, len(files))
	failed := 0
	start := time.Now()

	for _, path := range files {
		report, err := runOne(ctx, runner, path, opts.timeout)
		reports = append(reports, report)
		if err == nil {
			err = report.Err()
		}
		if err != nil {
			failed++
		}
		if !opts.json {
			printResult(out, report, err)
		}
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "\n%d passed, %d failed %s\n",
			len(files)-failed, failed, gray("("+time.Since(start).Round(time.Millisecond).String()+")"))
	}

	if failed > 0 {
		return errors.New("F311").WithDetailf("%d of %d scenarios failed", failed, len(files))
	}
	return nil
}

// runOne runs a single file. A scenario that cannot be loaded or built
// still yields a report carrying the error.
func runOne(ctx context.Context, runner *scenario.Runner, path string, timeout time.Duration) (*scenario.Report, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	report, err := runner.RunFile(ctx, path)
	if err != nil {
		return &scenario.Report{
			Scenario: config.ScenarioName(path),
			Path:     path,
			Error:    err.Error(),
		}, err
	}
	return report, nil
}

func printResult(out io.Writer, report *scenario.Report, err error) {
	if err == nil {
		fmt.Fprintf(out, "  %s %s %s\n", green("✓"), report.Scenario,
			gray(fmt.Sprintf("(%d steps, %s)", len(report.Steps), report.Duration.Round(time.Microsecond))))
		return
	}

	fmt.Fprintf(out, "  %s %s\n", red("✗"), report.Scenario)
	var fe *errors.Error
	if !stderrors.As(err, &fe) {
		fmt.Fprintf(out, "      %s\n", err)
		return
	}
	fmt.Fprintf(out, "      %s\n", fe.FormatCompact())
	if fe.Detail != "" {
		fmt.Fprintf(out, "      %s\n", gray(fe.Detail))
	}
}
