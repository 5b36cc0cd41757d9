// Package detector evaluates transactions and correspondence against the
// compliance ruleset. Direct checks look at one transaction at a time, the
// structuring pass aggregates same-day spending per actor, and the
// contextual pass correlates transactions with keyword evidence found in
// correspondence.
//
// All evaluation is pure: inputs are never mutated and the output order is
// fully determined by the input order.
package detector

import (
	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/models"
	"fjacquet/ledger-audit/internal/rules"
)

// Detector runs the direct, structuring and contextual passes for one ruleset.
// It holds no mutable state and is safe for concurrent use.
type Detector struct {
	rules  *rules.Ruleset
	checks []Check
	logger logging.Logger
}

// New creates a Detector for rs with the default checks. rs must already be
// normalized; a nil rs means rules.Default().
func New(rs *rules.Ruleset, logger logging.Logger) *Detector {
	if rs == nil {
		rs = rules.Default()
		rs.Normalize()
	}
	return &Detector{
		rules:  rs,
		checks: DefaultChecks(rs),
		logger: logging.OrDefault(logger),
	}
}

// Rules returns the ruleset the detector evaluates.
func (d *Detector) Rules() *rules.Ruleset {
	return d.rules
}

// EvaluateDirect runs the direct checks and the structuring pass with rs.
func EvaluateDirect(txs []models.Transaction, rs *rules.Ruleset) []models.DirectFinding {
	return New(rs, nil).EvaluateDirect(txs)
}

// DetectStructuring runs only the structuring pass with rs.
func DetectStructuring(txs []models.Transaction, rs *rules.Ruleset) []models.DirectFinding {
	return New(rs, nil).DetectStructuring(txs)
}

// EvaluateContextual runs the correlation pass with rs.
func EvaluateContextual(records []models.CorrespondenceRecord, txs []models.Transaction, rs *rules.Ruleset) []models.ContextualFinding {
	return New(rs, nil).EvaluateContextual(records, txs)
}
