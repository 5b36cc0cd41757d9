package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditReport is built fresh for every audit run and never persisted by the engine.
type AuditReport struct {
	RunID               string              `json:"run_id" yaml:"run_id"`
	GeneratedAt         time.Time           `json:"generated_at" yaml:"generated_at"`
	PolicySource        string              `json:"policy_source" yaml:"policy_source"`
	TransactionCount    int                 `json:"transaction_count" yaml:"transaction_count"`
	CorrespondenceCount int                 `json:"correspondence_count" yaml:"correspondence_count"`
	DirectFindings      []DirectFinding     `json:"direct_findings" yaml:"direct_findings"`
	ContextualFindings  []ContextualFinding `json:"contextual_findings" yaml:"contextual_findings"`
}

// SameFindings reports whether two reports hold identical finding sequences,
// ignoring run metadata.
func (r *AuditReport) SameFindings(other *AuditReport) bool {
	if r == nil || other == nil {
		return r == other
	}
	if len(r.DirectFindings) != len(other.DirectFindings) ||
		len(r.ContextualFindings) != len(other.ContextualFindings) {
		return false
	}
	for i := range r.DirectFindings {
		if !sameDirect(r.DirectFindings[i], other.DirectFindings[i]) {
			return false
		}
	}
	for i := range r.ContextualFindings {
		a, b := r.ContextualFindings[i], other.ContextualFindings[i]
		if !a.Amount.Equal(b.Amount) {
			return false
		}
		a.Amount, b.Amount = decimal.Zero, decimal.Zero
		if a != b {
			return false
		}
	}
	return true
}

func sameDirect(a, b DirectFinding) bool {
	if a.TransactionRef != b.TransactionRef || a.Date != b.Date || a.Actor != b.Actor ||
		a.Description != b.Description || a.Category != b.Category || !a.Amount.Equal(b.Amount) {
		return false
	}
	return sameStrings(a.Reasons, b.Reasons) && sameStrings(a.Codes, b.Codes)
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
