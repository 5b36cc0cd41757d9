package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/models"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// Format is an output format supported by Generator.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Section selects which findings a report output contains.
type Section string

const (
	SectionAll        Section = "all"
	SectionDirect     Section = "direct"
	SectionContextual Section = "contextual"
)

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// ParseSection validates a section name, case-insensitively. Empty means all.
func ParseSection(s string) (Section, error) {
	switch sec := Section(strings.ToLower(strings.TrimSpace(s))); sec {
	case "":
		return SectionAll, nil
	case SectionAll, SectionDirect, SectionContextual:
		return sec, nil
	default:
		return "", fmt.Errorf("unsupported report section: %s", s)
	}
}

// FindingCSVRow is one finding flattened for CSV export. Kind is "direct" or
// "contextual"; list fields are joined with " | ".
type FindingCSVRow struct {
	Kind            string `csv:"kind"`
	TransactionRef  string `csv:"transaction_ref"`
	Date            string `csv:"date"`
	Actor           string `csv:"actor"`
	Description     string `csv:"description"`
	Category        string `csv:"category"`
	Amount          string `csv:"amount"`
	Codes           string `csv:"codes"`
	Reasons         string `csv:"reasons"`
	Rule            string `csv:"rule"`
	EvidenceDate    string `csv:"evidence_date"`
	EvidenceSubject string `csv:"evidence_subject"`
	EvidenceExcerpt string `csv:"evidence_excerpt"`
}

const listSeparator = " | "

// Generator renders audit reports in the supported formats.
type Generator struct {
	logger    logging.Logger
	delimiter rune
}

// NewGenerator creates a Generator. A zero delimiter means ',' for CSV output.
func NewGenerator(logger logging.Logger, delimiter rune) *Generator {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Generator{
		logger:    logging.OrDefault(logger).WithField("component", "ReportGenerator"),
		delimiter: delimiter,
	}
}

// Generate renders the selected section of r in format.
func (g *Generator) Generate(r *models.AuditReport, format Format, section Section) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot generate a report from nil")
	}
	selected := Select(r, section)

	switch format {
	case FormatText, "":
		return []byte(g.generateText(selected, section)), nil
	case FormatJSON:
		return g.generateJSON(selected)
	case FormatYAML:
		return g.generateYAML(selected)
	case FormatCSV:
		return g.generateCSV(selected)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// Select returns a shallow copy of r holding only the findings of section.
func Select(r *models.AuditReport, section Section) *models.AuditReport {
	out := *r
	switch section {
	case SectionDirect:
		out.ContextualFindings = []models.ContextualFinding{}
	case SectionContextual:
		out.DirectFindings = []models.DirectFinding{}
	}
	return &out
}

func (g *Generator) generateText(r *models.AuditReport, section Section) string {
	switch section {
	case SectionDirect:
		return RenderDirect(r.DirectFindings) + "\n"
	case SectionContextual:
		return RenderContextual(r.ContextualFindings) + "\n"
	default:
		return RenderFull(r) + "\n"
	}
}

func (g *Generator) generateJSON(r *models.AuditReport) ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(r *models.AuditReport) ([]byte, error) {
	out, err := yaml.Marshal(r)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

func (g *Generator) generateCSV(r *models.AuditReport) ([]byte, error) {
	rows := FlattenFindings(r)

	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	csvWriter.Comma = g.delimiter

	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV report: %w", err)
	}

	g.logger.Debug("Rendered CSV report", logging.F(logging.FieldCount, len(rows)))
	return buf.Bytes(), nil
}

// FlattenFindings converts every finding of r to a CSV row, direct findings first.
func FlattenFindings(r *models.AuditReport) []FindingCSVRow {
	rows := make([]FindingCSVRow, 0, len(r.DirectFindings)+len(r.ContextualFindings))
	for _, f := range r.DirectFindings {
		rows = append(rows, FindingCSVRow{
			Kind:           string(SectionDirect),
			TransactionRef: f.TransactionRef,
			Date:           f.Date,
			Actor:          f.Actor,
			Description:    f.Description,
			Category:       f.Category,
			Amount:         f.Amount.StringFixed(2),
			Codes:          strings.Join(f.Codes, listSeparator),
			Reasons:        strings.Join(f.Reasons, listSeparator),
		})
	}
	for _, f := range r.ContextualFindings {
		rows = append(rows, FindingCSVRow{
			Kind:            string(SectionContextual),
			TransactionRef:  f.TransactionID,
			Date:            f.Date,
			Actor:           f.Actor,
			Description:     f.Description,
			Category:        f.Category,
			Amount:          f.Amount.StringFixed(2),
			Reasons:         f.Reason,
			Rule:            f.Rule,
			EvidenceDate:    f.EvidenceDate,
			EvidenceSubject: f.EvidenceSubject,
			EvidenceExcerpt: f.EvidenceExcerpt,
		})
	}
	return rows
}
