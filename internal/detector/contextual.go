package detector

import (
	"strings"

	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/models"
)

// EvaluateContextual correlates correspondence with transactions. For each
// record and each correlation rule whose correspondence keywords all appear
// in the record, every transaction whose description contains any of the
// rule's transaction keywords yields one finding. Nothing is deduplicated:
// each (record, rule, transaction) triple is independent evidence.
func (d *Detector) EvaluateContextual(records []models.CorrespondenceRecord, txs []models.Transaction) []models.ContextualFinding {
	descriptions := make([]string, len(txs))
	for i, tx := range txs {
		descriptions[i] = tx.LowerDescription()
	}

	findings := make([]models.ContextualFinding, 0)
	for _, record := range records {
		content := record.RawLowercased
		if content == "" {
			content = strings.ToLower(record.Body)
		}
		for _, rule := range d.rules.CorrelationRules {
			if !containsAll(content, rule.EmailKeywords) {
				continue
			}
			excerpt := record.Excerpt(d.rules.ExcerptLength)
			for i, tx := range txs {
				if !containsAny(descriptions[i], rule.TransactionKeywords) {
					continue
				}

				d.logger.WithFields(
					logging.F(logging.FieldRule, rule.Name),
					logging.F(logging.FieldTransactionID, tx.ID),
					logging.F("subject", record.Subject),
				).Debug("Correspondence corroborates transaction")

				findings = append(findings, models.ContextualFinding{
					TransactionID:   tx.ID,
					Date:            tx.Date,
					Actor:           tx.Actor,
					Description:     tx.Description,
					Category:        tx.Category,
					Amount:          tx.Amount,
					Rule:            rule.Name,
					Reason:          rule.Reason,
					EvidenceExcerpt: excerpt,
					EvidenceSubject: record.Subject,
					EvidenceDate:    record.Date,
				})
			}
		}
	}
	return findings
}
