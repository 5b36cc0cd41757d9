// Package report assembles audit findings into a report and renders it for
// people (text) and machines (JSON, YAML, CSV).
package report

import (
	"fjacquet/ledger-audit/internal/models"
)

// Assemble builds a report from the two finding sequences. The sequences are
// kept in the order given; nil sequences become empty ones.
func Assemble(direct []models.DirectFinding, contextual []models.ContextualFinding, policySource string) *models.AuditReport {
	if direct == nil {
		direct = []models.DirectFinding{}
	}
	if contextual == nil {
		contextual = []models.ContextualFinding{}
	}
	return &models.AuditReport{
		PolicySource:       policySource,
		DirectFindings:     direct,
		ContextualFindings: contextual,
	}
}
