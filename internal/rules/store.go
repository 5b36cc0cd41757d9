package rules

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/parsererror"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// fileRuleset mirrors the YAML layout. Absent sections keep their defaults.
type fileRuleset struct {
	Thresholds       *fileThresholds   `yaml:"thresholds,omitempty"`
	Messages         *fileMessages     `yaml:"messages,omitempty"`
	MiscCategory     *string           `yaml:"misc_category,omitempty"`
	ITCategory       *string           `yaml:"it_category,omitempty"`
	ITMarkers        []string          `yaml:"it_markers,omitempty"`
	RestrictedVenues []fileVenue       `yaml:"restricted_venues,omitempty"`
	Blacklist        []fileBlacklist   `yaml:"blacklist,omitempty"`
	CorrelationRules []fileCorrelation `yaml:"correlation_rules,omitempty"`
	ExcerptLength    *int              `yaml:"excerpt_length,omitempty"`
}

type fileThresholds struct {
	PurchaseOrder   *string `yaml:"purchase_order"`
	ManagerApproval *string `yaml:"manager_approval"`
	MiscCap         *string `yaml:"misc_cap"`
	ITValidation    *string `yaml:"it_validation"`
	Structuring     *string `yaml:"structuring"`
}

type fileMessages struct {
	PurchaseOrder          *string `yaml:"purchase_order"`
	ManagerApproval        *string `yaml:"manager_approval"`
	MiscCap                *string `yaml:"misc_cap"`
	ITValidation           *string `yaml:"it_validation"`
	Structuring            *string `yaml:"structuring"`
	Blacklisted            *string `yaml:"blacklisted"`
	StructuringDescription *string `yaml:"structuring_description"`
	StructuringCategory    *string `yaml:"structuring_category"`
}

type fileVenue struct {
	Keyword string `yaml:"keyword"`
	Message string `yaml:"message"`
}

type fileBlacklist struct {
	Code     string   `yaml:"code"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

type fileCorrelation struct {
	Name                string   `yaml:"name"`
	EmailKeywords       []string `yaml:"email_keywords"`
	TransactionKeywords []string `yaml:"transaction_keywords"`
	Reason              string   `yaml:"reason"`
}

// Load reads a YAML rules file on top of the built-in defaults.
// An empty path or a missing file yields Default(); the result is normalized
// and validated.
func Load(path string, logger logging.Logger) (*Ruleset, error) {
	logger = logging.OrDefault(logger)
	rs := Default()

	if path == "" {
		logger.Debug("No rules file configured, using built-in policy")
		rs.Normalize()
		return rs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Rules file not found, using built-in policy",
				logging.F(logging.FieldFile, path))
			rs.Normalize()
			return rs, nil
		}
		return nil, &parsererror.SourceError{Kind: "rules", Path: path, Err: err}
	}

	if err := Apply(rs, data, path); err != nil {
		return nil, err
	}
	rs.Normalize()
	if err := rs.Validate(path); err != nil {
		return nil, err
	}

	logger.Info("Loaded rules file",
		logging.F(logging.FieldFile, path),
		logging.F("blacklist_groups", len(rs.Blacklist)),
		logging.F("correlation_rules", len(rs.CorrelationRules)))
	return rs, nil
}

// Apply overlays YAML data onto rs. Provided list sections replace the
// defaults wholesale; provided scalars replace single values.
func Apply(rs *Ruleset, data []byte, source string) error {
	var f fileRuleset
	if err := yaml.Unmarshal(data, &f); err != nil {
		return &parsererror.ValidationError{Source: source, Reason: "malformed YAML", Err: err}
	}

	if t := f.Thresholds; t != nil {
		for _, item := range []struct {
			name string
			raw  *string
			dst  *decimal.Decimal
		}{
			{"purchase_order", t.PurchaseOrder, &rs.Thresholds.PurchaseOrder},
			{"manager_approval", t.ManagerApproval, &rs.Thresholds.ManagerApproval},
			{"misc_cap", t.MiscCap, &rs.Thresholds.MiscCap},
			{"it_validation", t.ITValidation, &rs.Thresholds.ITValidation},
			{"structuring", t.Structuring, &rs.Thresholds.Structuring},
		} {
			if item.raw == nil {
				continue
			}
			v, err := decimal.NewFromString(*item.raw)
			if err != nil {
				return &parsererror.ValidationError{
					Source: source, Field: "thresholds." + item.name, Reason: "not a decimal", Err: err,
				}
			}
			*item.dst = v
		}
	}

	if m := f.Messages; m != nil {
		setString(&rs.Messages.PurchaseOrder, m.PurchaseOrder)
		setString(&rs.Messages.ManagerApproval, m.ManagerApproval)
		setString(&rs.Messages.MiscCap, m.MiscCap)
		setString(&rs.Messages.ITValidation, m.ITValidation)
		setString(&rs.Messages.Structuring, m.Structuring)
		setString(&rs.Messages.Blacklisted, m.Blacklisted)
		setString(&rs.Messages.StructuringDescription, m.StructuringDescription)
		setString(&rs.Messages.StructuringCategory, m.StructuringCategory)
	}

	setString(&rs.MiscCategory, f.MiscCategory)
	setString(&rs.ITCategory, f.ITCategory)
	if f.ITMarkers != nil {
		rs.ITMarkers = f.ITMarkers
	}
	if f.RestrictedVenues != nil {
		rs.RestrictedVenues = make([]RestrictedVenue, 0, len(f.RestrictedVenues))
		for _, v := range f.RestrictedVenues {
			rs.RestrictedVenues = append(rs.RestrictedVenues, RestrictedVenue(v))
		}
	}
	if f.Blacklist != nil {
		rs.Blacklist = make([]BlacklistGroup, 0, len(f.Blacklist))
		for _, g := range f.Blacklist {
			rs.Blacklist = append(rs.Blacklist, BlacklistGroup(g))
		}
	}
	if f.CorrelationRules != nil {
		rs.CorrelationRules = make([]CorrelationRule, 0, len(f.CorrelationRules))
		for _, cr := range f.CorrelationRules {
			rs.CorrelationRules = append(rs.CorrelationRules, CorrelationRule(cr))
		}
	}
	if f.ExcerptLength != nil {
		rs.ExcerptLength = *f.ExcerptLength
	}
	return nil
}

// Marshal renders rs in the rules-file YAML layout, so the effective policy
// can be dumped, edited and loaded back.
func Marshal(rs *Ruleset) ([]byte, error) {
	str := func(s string) *string { return &s }
	dec := func(d decimal.Decimal) *string { return str(d.String()) }

	var f fileRuleset
	f.Thresholds = &fileThresholds{
		PurchaseOrder:   dec(rs.Thresholds.PurchaseOrder),
		ManagerApproval: dec(rs.Thresholds.ManagerApproval),
		MiscCap:         dec(rs.Thresholds.MiscCap),
		ITValidation:    dec(rs.Thresholds.ITValidation),
		Structuring:     dec(rs.Thresholds.Structuring),
	}
	f.Messages = &fileMessages{
		PurchaseOrder:          str(rs.Messages.PurchaseOrder),
		ManagerApproval:        str(rs.Messages.ManagerApproval),
		MiscCap:                str(rs.Messages.MiscCap),
		ITValidation:           str(rs.Messages.ITValidation),
		Structuring:            str(rs.Messages.Structuring),
		Blacklisted:            str(rs.Messages.Blacklisted),
		StructuringDescription: str(rs.Messages.StructuringDescription),
		StructuringCategory:    str(rs.Messages.StructuringCategory),
	}
	f.MiscCategory = str(rs.MiscCategory)
	f.ITCategory = str(rs.ITCategory)
	f.ITMarkers = rs.ITMarkers
	for _, v := range rs.RestrictedVenues {
		f.RestrictedVenues = append(f.RestrictedVenues, fileVenue(v))
	}
	for _, g := range rs.Blacklist {
		f.Blacklist = append(f.Blacklist, fileBlacklist(g))
	}
	for _, cr := range rs.CorrelationRules {
		f.CorrelationRules = append(f.CorrelationRules, fileCorrelation(cr))
	}
	f.ExcerptLength = &rs.ExcerptLength

	out, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("error marshaling rules: %w", err)
	}
	return out, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
