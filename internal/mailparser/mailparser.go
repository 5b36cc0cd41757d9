// Package mailparser loads the correspondence corpus: plain text message
// blocks separated by a line of 79 hyphens, each block carrying labelled
// header lines followed by a message body.
package mailparser

import (
	"io"
	"strings"

	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/models"
	"fjacquet/ledger-audit/internal/parser"
)

// SourceKind names the correspondence source in logs and errors.
const SourceKind = "correspondence"

// Separator is the literal line that delimits message blocks.
var Separator = strings.Repeat("-", 79)

// FieldLabel is a recognized header label.
type FieldLabel int

const (
	LabelUnknown FieldLabel = iota
	LabelSender
	LabelRecipient
	LabelDate
	LabelSubject
	LabelBody
)

// labelNames maps lowercased label spellings to their FieldLabel.
var labelNames = map[string]FieldLabel{
	"de":       LabelSender,
	"from":     LabelSender,
	"para":     LabelRecipient,
	"to":       LabelRecipient,
	"data":     LabelDate,
	"date":     LabelDate,
	"assunto":  LabelSubject,
	"subject":  LabelSubject,
	"mensagem": LabelBody,
	"message":  LabelBody,
}

// bodyMarkers are the literal body labels, searched case-sensitively as they
// appear in the source.
var bodyMarkers = []string{"Mensagem:", "Message:"}

// String returns the canonical label name.
func (l FieldLabel) String() string {
	switch l {
	case LabelSender:
		return "sender"
	case LabelRecipient:
		return "recipient"
	case LabelDate:
		return "date"
	case LabelSubject:
		return "subject"
	case LabelBody:
		return "body"
	default:
		return "unknown"
	}
}

// ParseLabel splits a header line into its label and value. Lines without a
// recognized "label:" prefix return LabelUnknown.
func ParseLabel(line string) (FieldLabel, string) {
	name, value, found := strings.Cut(line, ":")
	if !found {
		return LabelUnknown, ""
	}
	label, ok := labelNames[strings.ToLower(name)]
	if !ok {
		return LabelUnknown, ""
	}
	return label, strings.TrimSpace(value)
}

// Parser reads correspondence blocks into records.
type Parser struct {
	parser.BaseParser
}

// NewParser creates a correspondence parser.
func NewParser(logger logging.Logger) *Parser {
	return &Parser{BaseParser: parser.NewBaseParser(logger)}
}

// ParseFile loads the correspondence at path. A missing file yields no records.
func (p *Parser) ParseFile(path string) ([]models.CorrespondenceRecord, error) {
	return parser.ParseFile[models.CorrespondenceRecord](p, SourceKind, path, p.GetLogger())
}

// Parse splits r into blocks and extracts one record per non-blank block.
func (p *Parser) Parse(r io.Reader) ([]models.CorrespondenceRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var records []models.CorrespondenceRecord
	for _, block := range strings.Split(string(data), Separator) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		record := ParseBlock(block)
		if record.Sender == "" && record.Subject == "" && record.Body == "" {
			p.GetLogger().Debug("Correspondence block has no recognized fields",
				logging.F("block_index", len(records)))
		}
		records = append(records, record)
	}
	return records, nil
}

// ParseBlock extracts the header fields and body of one trimmed block.
// The first occurrence of each label wins; missing fields stay empty.
func ParseBlock(block string) models.CorrespondenceRecord {
	record := models.CorrespondenceRecord{
		Body:          extractBody(block),
		RawLowercased: strings.ToLower(block),
	}

	seen := make(map[FieldLabel]bool, 4)
	for _, line := range strings.Split(block, "\n") {
		label, value := ParseLabel(strings.TrimRight(line, "\r"))
		if label == LabelUnknown || label == LabelBody || seen[label] {
			continue
		}
		seen[label] = true
		switch label {
		case LabelSender:
			record.Sender = value
		case LabelRecipient:
			record.Recipient = value
		case LabelDate:
			record.Date = value
		case LabelSubject:
			record.Subject = value
		}
	}
	return record
}

// extractBody returns everything after the earliest body marker, trimmed.
func extractBody(block string) string {
	at, width := -1, 0
	for _, marker := range bodyMarkers {
		if i := strings.Index(block, marker); i >= 0 && (at < 0 || i < at) {
			at, width = i, len(marker)
		}
	}
	if at < 0 {
		return ""
	}
	return strings.TrimSpace(block[at+width:])
}
