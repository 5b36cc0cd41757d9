// Package rules holds the policy configuration evaluated by the detectors:
// amount thresholds, restricted venues, blacklisted keyword groups and the
// correlation rules pairing correspondence evidence with transactions.
package rules

import (
	"fmt"
	"strings"

	"fjacquet/ledger-audit/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Reason codes identify the policy clause behind a direct finding.
const (
	CodePurchaseOrder     = "requires-purchase-order"
	CodeManagerApproval   = "requires-manager-approval"
	CodeMiscCap           = "misc-category-cap-exceeded"
	CodeRestrictedVenue   = "restricted-venue"
	CodeITValidation      = "it-purchase-requires-validation"
	CodeStructuring       = "possible-structuring-to-evade-approval-threshold"
	CodeBlacklistedPrefix = "blacklisted:"
)

// DefaultExcerptLength is the maximum number of body runes quoted as evidence.
const DefaultExcerptLength = 320

// Thresholds are the amount limits of the expense policy.
type Thresholds struct {
	// PurchaseOrder: amounts strictly above require an approved purchase order.
	PurchaseOrder decimal.Decimal
	// ManagerApproval: amounts strictly above (and up to PurchaseOrder) need manager approval.
	ManagerApproval decimal.Decimal
	// MiscCap: the misc category may not be used above this amount.
	MiscCap decimal.Decimal
	// ITValidation: IT purchases above this amount need validation.
	ITValidation decimal.Decimal
	// Structuring: same-day totals above this amount are suspicious when every
	// member stays below it.
	Structuring decimal.Decimal
}

// Messages are the human-readable texts attached to direct findings.
type Messages struct {
	PurchaseOrder   string
	ManagerApproval string
	MiscCap         string
	ITValidation    string
	Structuring     string
	// Blacklisted is a fmt format receiving the group label.
	Blacklisted string
	// StructuringDescription and StructuringCategory fill the synthetic finding.
	StructuringDescription string
	StructuringCategory    string
}

// RestrictedVenue is an establishment whose expenses are never reimbursable.
type RestrictedVenue struct {
	Keyword string
	Message string
}

// BlacklistGroup is a set of prohibited keywords sharing a policy clause.
type BlacklistGroup struct {
	Code     string
	Label    string
	Keywords []string
}

// CorrelationRule pairs correspondence keywords (all required) with
// transaction keywords (any matches) and the justification reported.
type CorrelationRule struct {
	Name                string
	EmailKeywords       []string
	TransactionKeywords []string
	Reason              string
}

// Ruleset is the complete configuration of a detection run. A Ruleset is
// read-only once handed to the engine.
type Ruleset struct {
	Thresholds       Thresholds
	Messages         Messages
	MiscCategory     string
	ITCategory       string
	ITMarkers        []string
	RestrictedVenues []RestrictedVenue
	Blacklist        []BlacklistGroup
	CorrelationRules []CorrelationRule
	ExcerptLength    int
}

// Default returns the built-in expense policy.
func Default() *Ruleset {
	return &Ruleset{
		Thresholds: Thresholds{
			PurchaseOrder:   decimal.NewFromInt(500),
			ManagerApproval: decimal.NewFromInt(50),
			MiscCap:         decimal.NewFromInt(5),
			ITValidation:    decimal.NewFromInt(100),
			Structuring:     decimal.NewFromInt(500),
		},
		Messages: Messages{
			PurchaseOrder:          "Valor acima de US$500 sem evidência de PO aprovado (Seção 1.3).",
			ManagerApproval:        "Despesa intermediária requer aprovação prévia de gestão (Seção 1.2) — verifique documentação.",
			MiscCap:                "Categoria 'Diversos' não pode ser usada para valores acima de US$5 (Seção 2).",
			ITValidation:           "Compras de TI acima de US$100 exigem validação do RH/NY (Seção 2.3).",
			Structuring:            "Estruturação suspeita para evitar aprovação de grandes despesas (Seção 1.3).",
			Blacklisted:            "Item proibido ou conflito de interesse (%s).",
			StructuringDescription: "Múltiplas transações no mesmo dia somando > US$500.",
			StructuringCategory:    "Múltiplas",
		},
		MiscCategory: "diversos",
		ITCategory:   "ti",
		ITMarkers:    []string{"servidor", "licença"},
		RestrictedVenues: []RestrictedVenue{
			{Keyword: "hooters", Message: "Hooters é local restrito e não reembolsável (Seção 2.1)."},
		},
		Blacklist: []BlacklistGroup{
			{
				Code:     "prohibited-entertainment",
				Label:    "Entretenimento inadequado (itens proibidos)",
				Keywords: []string{"mágica", "ilusionismo", "algemas", "karaok", "discoteca", "strip"},
			},
			{
				Code:     "prohibited-weapons",
				Label:    "Armamento/itens táticos proibidos",
				Keywords: []string{"katana", "arma", "ninja", "nunchaku", "spray de pimenta"},
			},
			{
				Code:     "conflict-of-interest",
				Label:    "Conflito de interesses / negócios paralelos",
				Keywords: []string{"wuphf", "dunder infinity", "serenity", "vela", "startup", "tech solutions", "sparkl"},
			},
		},
		CorrelationRules: []CorrelationRule{
			{
				Name:                "surveillance_spend",
				EmailKeywords:       []string{"walkie", "binóculo", "camuflagem"},
				TransactionKeywords: []string{"walkie", "binóculo", "vigilância"},
				Reason:              "Compra de equipamentos de espionagem para vigiar Toby, não é gasto de negócio.",
			},
			{
				Name:                "wuphf_servers",
				EmailKeywords:       []string{"wuphf", "tech solutions", "servidor"},
				TransactionKeywords: []string{"tech solutions", "servidor", "wuphf"},
				Reason:              "Uso de verba corporativa para startup pessoal (Seção 3.3a) e valor acima de US$500 exige PO (Seção 1.3).",
			},
			{
				Name:                "magic_disguised",
				EmailKeywords:       []string{"mágica", "algemas", "ilusionismo"},
				TransactionKeywords: []string{"mágica", "ilusionismo", "algemas"},
				Reason:              "Itens de entretenimento proibidos camuflados como treinamento (violação de itens proibidos).",
			},
			{
				Name:                "wcs_receipt",
				EmailKeywords:       []string{"wcs supplies", "49.50", "recibo"},
				TransactionKeywords: []string{"wcs supplies", "cola"},
				Reason:              "Despesa propositalmente abaixo de US$50 para fugir de comprovação (Seção 1.1/controle de recibos).",
			},
			{
				Name:                "helicopter_spy",
				EmailKeywords:       []string{"helicópteros", "controle remoto", "pilotagem"},
				TransactionKeywords: []string{"helicóptero", "controle remoto", "pilotagem"},
				Reason:              "Brinquedo comprado para espionagem, não é despesa de negócio (itens proibidos).",
			},
		},
		ExcerptLength: DefaultExcerptLength,
	}
}

// BlacklistCode returns the reason code for a blacklist group.
func (g BlacklistGroup) BlacklistCode() string {
	return CodeBlacklistedPrefix + g.Code
}

// BlacklistMessage renders the reason text for a blacklist group.
func (r *Ruleset) BlacklistMessage(g BlacklistGroup) string {
	return fmt.Sprintf(r.Messages.Blacklisted, g.Label)
}

// Normalize lowercases every keyword and category so detectors can match
// against lowercased text. Empty keywords are dropped.
func (r *Ruleset) Normalize() {
	r.MiscCategory = lowerTrim(r.MiscCategory)
	r.ITCategory = lowerTrim(r.ITCategory)
	r.ITMarkers = lowerAll(r.ITMarkers)
	for i := range r.RestrictedVenues {
		r.RestrictedVenues[i].Keyword = lowerTrim(r.RestrictedVenues[i].Keyword)
	}
	for i := range r.Blacklist {
		r.Blacklist[i].Keywords = lowerAll(r.Blacklist[i].Keywords)
	}
	for i := range r.CorrelationRules {
		r.CorrelationRules[i].EmailKeywords = lowerAll(r.CorrelationRules[i].EmailKeywords)
		r.CorrelationRules[i].TransactionKeywords = lowerAll(r.CorrelationRules[i].TransactionKeywords)
	}
}

// Validate checks the ruleset for entries that could never match or would
// match everything.
func (r *Ruleset) Validate(source string) error {
	invalid := func(field, reason string, err error) error {
		return &parsererror.ValidationError{Source: source, Field: field, Reason: reason, Err: err}
	}

	th := r.Thresholds
	for name, v := range map[string]decimal.Decimal{
		"purchase_order":   th.PurchaseOrder,
		"manager_approval": th.ManagerApproval,
		"misc_cap":         th.MiscCap,
		"it_validation":    th.ITValidation,
		"structuring":      th.Structuring,
	} {
		if v.IsNegative() {
			return invalid("thresholds."+name, "threshold must not be negative", nil)
		}
	}
	if th.ManagerApproval.GreaterThan(th.PurchaseOrder) {
		return invalid("thresholds.manager_approval", "must not exceed purchase_order", nil)
	}
	if r.ExcerptLength <= 0 {
		return invalid("excerpt_length", "must be positive", nil)
	}
	if !strings.Contains(r.Messages.Blacklisted, "%s") {
		return invalid("messages.blacklisted", "must contain %s for the group label", nil)
	}
	for i, v := range r.RestrictedVenues {
		if v.Keyword == "" {
			return invalid(fmt.Sprintf("restricted_venues[%d]", i), "keyword is empty", parsererror.ErrEmptyKeywords)
		}
	}

	codes := make(map[string]struct{}, len(r.Blacklist))
	for i, g := range r.Blacklist {
		field := fmt.Sprintf("blacklist[%d]", i)
		if g.Code == "" || g.Label == "" {
			return invalid(field, "code and label are required", nil)
		}
		if _, dup := codes[g.Code]; dup {
			return invalid(field, "duplicate code "+g.Code, nil)
		}
		codes[g.Code] = struct{}{}
		if len(g.Keywords) == 0 {
			return invalid(field, "no keywords", parsererror.ErrEmptyKeywords)
		}
	}

	names := make(map[string]struct{}, len(r.CorrelationRules))
	for i, cr := range r.CorrelationRules {
		field := fmt.Sprintf("correlation_rules[%d]", i)
		if cr.Name == "" {
			return invalid(field, "name is required", nil)
		}
		if _, dup := names[cr.Name]; dup {
			return invalid(field, "duplicate rule name "+cr.Name, nil)
		}
		names[cr.Name] = struct{}{}
		if len(cr.EmailKeywords) == 0 {
			return invalid(field, "no email keywords", parsererror.ErrEmptyKeywords)
		}
		if len(cr.TransactionKeywords) == 0 {
			return invalid(field, "no transaction keywords", parsererror.ErrEmptyKeywords)
		}
		if strings.TrimSpace(cr.Reason) == "" {
			return invalid(field, "reason is required", nil)
		}
	}
	return nil
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if k := lowerTrim(s); k != "" {
			out = append(out, k)
		}
	}
	return out
}
