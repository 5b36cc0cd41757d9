package detector

import (
	"strings"

	"fjacquet/ledger-audit/internal/models"
	"fjacquet/ledger-audit/internal/rules"
)

// Reason is one fired policy clause: a stable code plus the message shown
// to auditors.
type Reason struct {
	Code    string
	Message string
}

// Subject is a transaction with its lowercased matching fields precomputed.
type Subject struct {
	Tx          models.Transaction
	Description string
	Category    string
}

// NewSubject lowercases the fields checks match against.
func NewSubject(tx models.Transaction) Subject {
	return Subject{
		Tx:          tx,
		Description: tx.LowerDescription(),
		Category:    tx.LowerCategory(),
	}
}

// Check is one direct-violation predicate over a single transaction.
// Every check is evaluated independently; a transaction accumulates the
// reasons of all checks that fire.
type Check interface {
	// Evaluate returns the reasons this check raises for s, or nil.
	Evaluate(s Subject) []Reason

	// Name returns the name of this check for logging and debugging purposes.
	Name() string
}

// DefaultChecks builds the direct-violation checks for rs, in reporting order.
func DefaultChecks(rs *rules.Ruleset) []Check {
	return []Check{
		amountTierCheck{rs: rs},
		miscCapCheck{rs: rs},
		restrictedVenueCheck{rs: rs},
		itValidationCheck{rs: rs},
		blacklistCheck{rs: rs},
	}
}

// amountTierCheck raises the purchase-order reason above the purchase order
// threshold and the manager-approval reason between the two tiers. The tiers
// never overlap.
type amountTierCheck struct{ rs *rules.Ruleset }

func (c amountTierCheck) Name() string { return "amount-tier" }

func (c amountTierCheck) Evaluate(s Subject) []Reason {
	th := c.rs.Thresholds
	switch {
	case s.Tx.Amount.GreaterThan(th.PurchaseOrder):
		return []Reason{{Code: rules.CodePurchaseOrder, Message: c.rs.Messages.PurchaseOrder}}
	case s.Tx.Amount.GreaterThan(th.ManagerApproval):
		return []Reason{{Code: rules.CodeManagerApproval, Message: c.rs.Messages.ManagerApproval}}
	}
	return nil
}

type miscCapCheck struct{ rs *rules.Ruleset }

func (c miscCapCheck) Name() string { return "misc-cap" }

func (c miscCapCheck) Evaluate(s Subject) []Reason {
	if s.Category == c.rs.MiscCategory && s.Tx.Amount.GreaterThan(c.rs.Thresholds.MiscCap) {
		return []Reason{{Code: rules.CodeMiscCap, Message: c.rs.Messages.MiscCap}}
	}
	return nil
}

type restrictedVenueCheck struct{ rs *rules.Ruleset }

func (c restrictedVenueCheck) Name() string { return "restricted-venue" }

func (c restrictedVenueCheck) Evaluate(s Subject) []Reason {
	var out []Reason
	for _, v := range c.rs.RestrictedVenues {
		if strings.Contains(s.Description, v.Keyword) {
			out = append(out, Reason{Code: rules.CodeRestrictedVenue, Message: v.Message})
		}
	}
	return out
}

type itValidationCheck struct{ rs *rules.Ruleset }

func (c itValidationCheck) Name() string { return "it-validation" }

func (c itValidationCheck) Evaluate(s Subject) []Reason {
	isIT := s.Category == c.rs.ITCategory || containsAny(s.Description, c.rs.ITMarkers)
	if isIT && s.Tx.Amount.GreaterThan(c.rs.Thresholds.ITValidation) {
		return []Reason{{Code: rules.CodeITValidation, Message: c.rs.Messages.ITValidation}}
	}
	return nil
}

// blacklistCheck raises one reason per keyword group with a match.
type blacklistCheck struct{ rs *rules.Ruleset }

func (c blacklistCheck) Name() string { return "blacklist" }

func (c blacklistCheck) Evaluate(s Subject) []Reason {
	var out []Reason
	for _, g := range c.rs.Blacklist {
		if containsAny(s.Description, g.Keywords) {
			out = append(out, Reason{Code: g.BlacklistCode(), Message: c.rs.BlacklistMessage(g)})
		}
	}
	return out
}

// containsAny reports whether text contains any of the keywords.
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// containsAll reports whether text contains every keyword.
func containsAll(text string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(text, k) {
			return false
		}
	}
	return true
}
