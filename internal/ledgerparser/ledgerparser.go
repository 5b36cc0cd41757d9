// Package ledgerparser loads the transaction ledger: a delimited file with a
// header row naming the id, date, actor, description, category and amount
// columns.
package ledgerparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/models"
	"fjacquet/ledger-audit/internal/parser"
	"fjacquet/ledger-audit/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// SourceKind names the transaction source in logs and errors.
const SourceKind = "transactions"

// LedgerCSVRow represents a single row of the ledger.
// Headers are lowercased before matching, so tags list every accepted alias.
type LedgerCSVRow struct {
	ID          string `csv:"id,id_transacao,transaction_id"`
	Date        string `csv:"date,data"`
	Actor       string `csv:"actor,employee,funcionario"`
	Description string `csv:"description,descricao"`
	Category    string `csv:"category,categoria"`
	Amount      string `csv:"amount,valor"`
}

// Parser reads ledger rows into transactions.
type Parser struct {
	parser.BaseParser
	delimiter rune
}

// NewParser creates a ledger parser. A zero delimiter means ','.
func NewParser(delimiter rune, logger logging.Logger) *Parser {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Parser{
		BaseParser: parser.NewBaseParser(logger),
		delimiter:  delimiter,
	}
}

// ParseFile loads the ledger at path. A missing file yields no transactions.
func (p *Parser) ParseFile(path string) ([]models.Transaction, error) {
	return parser.ParseFile[models.Transaction](p, SourceKind, path, p.GetLogger())
}

// Parse reads ledger rows from r in source order. Unparsable or negative
// amounts become zero; they never fail the load.
func (p *Parser) Parse(r io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows []LedgerCSVRow
	if err := gocsv.UnmarshalCSV(&headerNormalizer{reader: reader}, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("error parsing ledger CSV: %w", err)
	}

	transactions := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, p.convertRow(row))
	}
	return transactions, nil
}

func (p *Parser) convertRow(row LedgerCSVRow) models.Transaction {
	return models.Transaction{
		ID:          strings.TrimSpace(row.ID),
		Date:        strings.TrimSpace(row.Date),
		Actor:       strings.TrimSpace(row.Actor),
		Description: strings.TrimSpace(row.Description),
		Category:    strings.TrimSpace(row.Category),
		Amount:      p.coerceAmount(row),
	}
}

func (p *Parser) coerceAmount(row LedgerCSVRow) decimal.Decimal {
	amount, err := models.ParseAmount(row.Amount)
	if err != nil {
		perr := &parsererror.ParseError{Parser: SourceKind, Field: "amount", Value: row.Amount, Err: err}
		p.GetLogger().Debug("Amount coerced to zero",
			logging.F(logging.FieldTransactionID, row.ID),
			logging.F(logging.FieldError, perr.Error()))
		return decimal.Zero
	}
	return amount
}

// headerNormalizer lowercases and trims the header row, dropping a UTF-8 BOM,
// so column aliases match regardless of their spelling in the source.
type headerNormalizer struct {
	reader     *csv.Reader
	headerSeen bool
}

func (h *headerNormalizer) Read() ([]string, error) {
	record, err := h.reader.Read()
	if err != nil {
		return nil, err
	}
	if !h.headerSeen {
		h.headerSeen = true
		record = normalizeHeader(record)
	}
	return record, nil
}

func (h *headerNormalizer) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := h.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\uFEFF")
		}
		out[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return out
}
