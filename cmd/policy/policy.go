// Package policy prints the compliance policy text the audit refers to
package policy

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/ledger-audit/cmd/root"
	"fjacquet/ledger-audit/internal/container"
	"fjacquet/ledger-audit/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the policy command
var Cmd = &cobra.Command{
	Use:   "policy",
	Short: "Print the compliance policy text",
	Long:  `Print the compliance policy document configured as the policy source.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("application container not initialized")
		}
		return Run(c, cmd.OutOrStdout())
	},
}

// Run writes the policy text to out. A missing policy prints nothing.
func Run(c *container.Container, out io.Writer) error {
	text, err := c.GetEngine().PolicyText()
	if err != nil {
		return err
	}
	if text == "" {
		c.GetLogger().Warn("Policy text is empty",
			logging.F(logging.FieldFile, c.GetEngine().Sources().Policy))
		return nil
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = io.WriteString(out, text)
	return err
}
