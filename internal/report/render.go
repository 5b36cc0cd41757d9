package report

import (
	"fmt"
	"strings"

	"fjacquet/ledger-audit/internal/models"
)

// Fixed sentences rendered when a section has no findings.
const (
	NoDirectFindings     = "Nenhuma quebra direta encontrada nas transações."
	NoContextualFindings = "Nenhuma quebra com contexto de e-mail detectada."
)

var sectionRule = strings.Repeat("-", 40)

// RenderDirect renders direct findings as a count header followed by one
// block per finding, in the order given.
func RenderDirect(findings []models.DirectFinding) string {
	if len(findings) == 0 {
		return NoDirectFindings
	}

	lines := []string{
		fmt.Sprintf("Quebras diretas: %d transações, %d violações de regra.", len(findings), models.CountReasons(findings)),
		sectionRule,
	}
	for _, f := range findings {
		lines = append(lines,
			headline(f.TransactionRef, f.Date, f.Actor, f.Amount.StringFixed(2)),
			"  Descrição: "+f.Description,
			"  Violações:",
		)
		for _, reason := range f.Reasons {
			lines = append(lines, "    • "+reason)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// RenderContextual renders contextual findings with their justification and
// the quoted correspondence excerpt.
func RenderContextual(findings []models.ContextualFinding) string {
	if len(findings) == 0 {
		return NoContextualFindings
	}

	lines := []string{
		fmt.Sprintf("Quebras de compliance com contexto de e-mail: %d transações com evidência.", len(findings)),
		sectionRule,
	}
	for _, f := range findings {
		lines = append(lines,
			headline(f.TransactionID, f.Date, f.Actor, f.Amount.StringFixed(2)),
			"  Descrição: "+f.Description,
			"  Motivo: "+f.Reason,
			fmt.Sprintf("  Evidência (%s - %s):", f.EvidenceDate, f.EvidenceSubject),
			fmt.Sprintf("    \"%s\"", f.EvidenceExcerpt),
			"",
		)
	}
	return strings.Join(lines, "\n")
}

// RenderFull renders both sections separated by a blank line.
func RenderFull(r *models.AuditReport) string {
	if r == nil {
		return RenderDirect(nil) + "\n\n" + RenderContextual(nil)
	}
	return RenderDirect(r.DirectFindings) + "\n\n" + RenderContextual(r.ContextualFindings)
}

func headline(ref, date, actor, amount string) string {
	return fmt.Sprintf("- %s | %s | %s | $%s", ref, date, actor, amount)
}
