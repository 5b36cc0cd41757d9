// Package audit runs the full compliance audit from the command line
package audit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fjacquet/ledger-audit/cmd/root"
	"fjacquet/ledger-audit/internal/container"
	"fjacquet/ledger-audit/internal/fileutils"
	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/report"

	"github.com/spf13/cobra"
)

// ErrReportChanged is returned when --baseline is set and the report differs.
var ErrReportChanged = errors.New("report differs from baseline")

// Options holds the audit command flags
type Options struct {
	Section    string
	Format     string
	Output     string
	Baseline   string
	MetricsOut string
}

var opts Options

// Cmd represents the audit command
var Cmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the direct and contextual compliance checks",
	Long: `Load the ledger, the internal correspondence and the rules, then report
every transaction that breaks the policy on its own and every transaction
that correspondence shows to be a violation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("application container not initialized")
		}
		return Run(cmd.Context(), c, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Section, "section", "s", string(report.SectionAll), "Report section (all, direct, contextual)")
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", string(report.FormatText), "Output format (text, json, yaml, csv)")
	Cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the report to this file instead of stdout")
	Cmd.Flags().StringVarP(&opts.Baseline, "baseline", "b", "", "Compare the report with a previous one and fail on any change")
	Cmd.Flags().StringVar(&opts.MetricsOut, "metrics-out", "", "Write Prometheus metrics in textfile format to this path")
}

// Run executes one audit with c and writes the report to out, or to
// o.Output when set. Baseline differences are written to errOut.
func Run(ctx context.Context, c *container.Container, o Options, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := c.GetLogger()

	format, err := report.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	section, err := report.ParseSection(o.Section)
	if err != nil {
		return err
	}

	r, err := c.GetEngine().RunFullAudit(ctx)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	data, err := c.GetReportGenerator().Generate(r, format, section)
	if err != nil {
		return err
	}

	if o.Output != "" {
		if err := fileutils.WriteFile(o.Output, data, 0600); err != nil {
			return fmt.Errorf("error writing report to %s: %w", o.Output, err)
		}
		logger.Info("Report written",
			logging.F(logging.FieldOutputFile, o.Output),
			logging.F(logging.FieldFormat, string(format)))
	} else if _, err := out.Write(data); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}

	metricsOut := o.MetricsOut
	if metricsOut == "" {
		metricsOut = c.GetConfig().Metrics.Textfile
	}
	if metricsOut != "" {
		if err := fileutils.EnsureParentDirectory(metricsOut); err != nil {
			return err
		}
		if err := c.GetMetrics().WriteTextfile(metricsOut); err != nil {
			return err
		}
		logger.Debug("Metrics written", logging.F(logging.FieldOutputFile, metricsOut))
	}

	if o.Baseline != "" {
		return compareBaseline(o.Baseline, string(data), errOut, logger)
	}
	return nil
}

func compareBaseline(path, current string, errOut io.Writer, logger logging.Logger) error {
	baseline, err := fileutils.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading baseline %s: %w", path, err)
	}
	diff, changed := report.Diff(string(baseline), current)
	if !changed {
		logger.Info("Report matches baseline", logging.F(logging.FieldFile, path))
		return nil
	}
	logger.Warn("Report differs from baseline", logging.F(logging.FieldFile, path))
	if _, err := io.WriteString(errOut, diff); err != nil {
		return fmt.Errorf("error writing diff: %w", err)
	}
	return ErrReportChanged
}
