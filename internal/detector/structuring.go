package detector

import (
	"strings"

	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/models"
	"fjacquet/ledger-audit/internal/rules"

	"github.com/shopspring/decimal"
)

type groupKey struct {
	actor string
	date  string
}

// DetectStructuring groups transactions by (actor, date) and flags groups of
// two or more whose total exceeds the structuring threshold while every
// member stays below it. Findings follow the first appearance of each group.
func (d *Detector) DetectStructuring(txs []models.Transaction) []models.DirectFinding {
	var order []groupKey
	groups := make(map[groupKey][]models.Transaction)
	for _, tx := range txs {
		key := groupKey{actor: tx.Actor, date: tx.Date}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	threshold := d.rules.Thresholds.Structuring
	findings := make([]models.DirectFinding, 0)
	for _, key := range order {
		members := groups[key]
		if len(members) < 2 {
			continue
		}

		total, largest := decimal.Zero, decimal.Zero
		ids := make([]string, 0, len(members))
		for _, tx := range members {
			total = total.Add(tx.Amount)
			if tx.Amount.GreaterThan(largest) {
				largest = tx.Amount
			}
			ids = append(ids, tx.ID)
		}
		if !total.GreaterThan(threshold) || !largest.LessThan(threshold) {
			continue
		}

		d.logger.WithFields(
			logging.F(logging.FieldActor, key.actor),
			logging.F("date", key.date),
			logging.F(logging.FieldCount, len(members)),
			logging.F("total", total.StringFixed(2)),
		).Debug("Possible structuring detected")

		findings = append(findings, models.DirectFinding{
			TransactionRef: strings.Join(ids, ", "),
			Date:           key.date,
			Actor:          key.actor,
			Description:    d.rules.Messages.StructuringDescription,
			Category:       d.rules.Messages.StructuringCategory,
			Amount:         total.Round(2),
			Reasons:        []string{d.rules.Messages.Structuring},
			Codes:          []string{rules.CodeStructuring},
		})
	}
	return findings
}
