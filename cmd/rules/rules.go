// Package rules prints or checks the effective audit rules
package rules

import (
	"fmt"
	"io"

	"fjacquet/ledger-audit/cmd/root"
	"fjacquet/ledger-audit/internal/container"
	"fjacquet/ledger-audit/internal/fileutils"
	"fjacquet/ledger-audit/internal/logging"
	ruleset "fjacquet/ledger-audit/internal/rules"

	"github.com/spf13/cobra"
)

var validateFile string

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective audit rules as YAML",
	Long: `Print the thresholds, keyword groups and correlation rules the audit
evaluates, in the rules-file layout. The output can be edited and passed back
with --rules. Use --validate to check a rules file without running an audit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("application container not initialized")
		}
		if validateFile != "" {
			return Validate(validateFile, c.GetLogger(), cmd.OutOrStdout())
		}
		return Run(c, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVar(&validateFile, "validate", "", "Check a rules file and exit")
}

// Run writes the container's ruleset to out.
func Run(c *container.Container, out io.Writer) error {
	data, err := ruleset.Marshal(c.GetRules())
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// Validate loads path on top of the built-in rules and reports the outcome.
func Validate(path string, logger logging.Logger, out io.Writer) error {
	if !fileutils.FileExists(path) {
		return fmt.Errorf("rules file does not exist: %s", path)
	}
	rs, err := ruleset.Load(path, logger)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s: ok (%d blacklist groups, %d correlation rules)\n",
		path, len(rs.Blacklist), len(rs.CorrelationRules))
	return err
}
