package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DirectFinding is a policy breach evident from a transaction's own fields.
// Structuring findings aggregate several transactions: TransactionRef then
// holds the comma-joined ids. Reasons carry the policy messages; Codes carry
// the matching stable reason codes, both deduplicated and sorted.
type DirectFinding struct {
	TransactionRef string          `json:"transaction_ref" yaml:"transaction_ref"`
	Date           string          `json:"date" yaml:"date"`
	Actor          string          `json:"actor" yaml:"actor"`
	Description    string          `json:"description" yaml:"description"`
	Category       string          `json:"category" yaml:"category"`
	Amount         decimal.Decimal `json:"amount" yaml:"amount"`
	Reasons        []string        `json:"reasons" yaml:"reasons"`
	Codes          []string        `json:"codes" yaml:"codes"`
}

// HasCode reports whether the finding carries the given reason code.
func (f DirectFinding) HasCode(code string) bool {
	for _, c := range f.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// ContextualFinding pairs a transaction with correspondence that corroborates a breach.
type ContextualFinding struct {
	TransactionID   string          `json:"transaction_id" yaml:"transaction_id"`
	Date            string          `json:"date" yaml:"date"`
	Actor           string          `json:"actor" yaml:"actor"`
	Description     string          `json:"description" yaml:"description"`
	Category        string          `json:"category" yaml:"category"`
	Amount          decimal.Decimal `json:"amount" yaml:"amount"`
	Rule            string          `json:"rule" yaml:"rule"`
	Reason          string          `json:"reason" yaml:"reason"`
	EvidenceExcerpt string          `json:"evidence_excerpt" yaml:"evidence_excerpt"`
	EvidenceSubject string          `json:"evidence_subject" yaml:"evidence_subject"`
	EvidenceDate    string          `json:"evidence_date" yaml:"evidence_date"`
}

// NormalizeReasons deduplicates reasons and sorts them lexicographically.
func NormalizeReasons(reasons []string) []string {
	if len(reasons) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(reasons))
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// CountReasons returns the total number of reasons across findings.
func CountReasons(findings []DirectFinding) int {
	total := 0
	for _, f := range findings {
		total += len(f.Reasons)
	}
	return total
}
