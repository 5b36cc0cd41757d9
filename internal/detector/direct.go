package detector

import (
	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/models"
)

// EvaluateDirect returns one finding per transaction that fired at least one
// check, in load order, followed by the structuring findings.
func (d *Detector) EvaluateDirect(txs []models.Transaction) []models.DirectFinding {
	findings := d.EvaluateTransactions(txs)
	return append(findings, d.DetectStructuring(txs)...)
}

// EvaluateTransactions runs the per-transaction checks only.
func (d *Detector) EvaluateTransactions(txs []models.Transaction) []models.DirectFinding {
	findings := make([]models.DirectFinding, 0)
	for _, tx := range txs {
		reasons := d.evaluate(NewSubject(tx))
		if len(reasons) == 0 {
			continue
		}
		findings = append(findings, newDirectFinding(tx, reasons))
	}
	return findings
}

func (d *Detector) evaluate(s Subject) []Reason {
	var reasons []Reason
	for _, check := range d.checks {
		fired := check.Evaluate(s)
		for _, r := range fired {
			d.logger.WithFields(
				logging.F("check", check.Name()),
				logging.F(logging.FieldTransactionID, s.Tx.ID),
				logging.F(logging.FieldReason, r.Code),
			).Debug("Direct check fired")
		}
		reasons = append(reasons, fired...)
	}
	return reasons
}

func newDirectFinding(tx models.Transaction, reasons []Reason) models.DirectFinding {
	messages := make([]string, 0, len(reasons))
	codes := make([]string, 0, len(reasons))
	for _, r := range reasons {
		messages = append(messages, r.Message)
		codes = append(codes, r.Code)
	}
	return models.DirectFinding{
		TransactionRef: tx.ID,
		Date:           tx.Date,
		Actor:          tx.Actor,
		Description:    tx.Description,
		Category:       tx.Category,
		Amount:         tx.Amount,
		Reasons:        models.NormalizeReasons(messages),
		Codes:          models.NormalizeReasons(codes),
	}
}
