package mailparser

import (
	"sort"
	"strings"

	"fjacquet/ledger-audit/internal/dateutils"
	"fjacquet/ledger-audit/internal/models"
)

// Participants returns the distinct non-empty senders, sorted.
func Participants(records []models.CorrespondenceRecord) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range records {
		name := strings.TrimSpace(r.Sender)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// BySender returns the records whose sender contains name, ignoring case.
func BySender(records []models.CorrespondenceRecord, name string) []models.CorrespondenceRecord {
	needle := strings.ToLower(strings.TrimSpace(name))
	var out []models.CorrespondenceRecord
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Sender), needle) {
			out = append(out, r)
		}
	}
	return out
}

// OnDate returns the records sent on the same calendar day as date.
// Records whose date cannot be parsed never match.
func OnDate(records []models.CorrespondenceRecord, date string) []models.CorrespondenceRecord {
	var out []models.CorrespondenceRecord
	for _, r := range records {
		if dateutils.SameDay(r.Date, date) {
			out = append(out, r)
		}
	}
	return out
}
