// Package mail lists the internal correspondence loaded for the audit
package mail

import (
	"fmt"
	"io"

	"fjacquet/ledger-audit/cmd/root"
	"fjacquet/ledger-audit/internal/container"
	"fjacquet/ledger-audit/internal/mailparser"
	"fjacquet/ledger-audit/internal/models"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Options holds the mail command flags
type Options struct {
	Sender string
	Date   string
	YAML   bool
}

var opts Options

// Cmd represents the mail command
var Cmd = &cobra.Command{
	Use:   "mail",
	Short: "List internal correspondence",
	Long: `Without filters, list everyone who sent a message. With --sender or
--date, list the matching messages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := root.GetContainer()
		if c == nil {
			return fmt.Errorf("application container not initialized")
		}
		return Run(c, opts, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVar(&opts.Sender, "sender", "", "Only messages whose sender contains this name")
	Cmd.Flags().StringVar(&opts.Date, "date", "", "Only messages sent on this day")
	Cmd.Flags().BoolVar(&opts.YAML, "yaml", false, "Print matching messages in full as YAML")
}

// Run loads the correspondence source and writes the selection to out.
func Run(c *container.Container, o Options, out io.Writer) error {
	eng := c.GetEngine()
	records, err := eng.LoadCorrespondence(eng.Sources().Correspondence)
	if err != nil {
		return err
	}

	if o.Sender == "" && o.Date == "" && !o.YAML {
		for _, name := range mailparser.Participants(records) {
			if _, err := fmt.Fprintln(out, name); err != nil {
				return err
			}
		}
		return nil
	}

	if o.Sender != "" {
		records = mailparser.BySender(records, o.Sender)
	}
	if o.Date != "" {
		records = mailparser.OnDate(records, o.Date)
	}

	if o.YAML {
		if records == nil {
			records = []models.CorrespondenceRecord{}
		}
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("error encoding correspondence: %w", err)
		}
		return enc.Close()
	}

	for _, r := range records {
		if _, err := fmt.Fprintf(out, "%s | %s -> %s | %s\n", r.Date, r.Sender, r.Recipient, r.Subject); err != nil {
			return err
		}
	}
	return nil
}
