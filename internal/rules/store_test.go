package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	rs, err := Load("", logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, Default().CorrelationRules, rs.CorrelationRules)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	logger := logging.NewMockLogger()
	rs, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), logger)
	require.NoError(t, err)
	assert.Len(t, rs.Blacklist, 3)
	assert.True(t, logger.HasEntry("WARN", "Rules file not found, using built-in policy"))
}

func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	writeFile(t, path, `thresholds:
  purchase_order: 1000
  misc_cap: "7.50"
restricted_venues:
  - keyword: "Dave & Busters"
    message: "Restricted venue."
correlation_rules:
  - name: drone
    email_keywords: ["Drone", "segredo"]
    transaction_keywords: ["drone"]
    reason: "Drone para espionagem."
`)

	rs, err := Load(path, logging.NewMockLogger())
	require.NoError(t, err)

	assert.True(t, rs.Thresholds.PurchaseOrder.Equal(decimal.NewFromInt(1000)))
	assert.True(t, rs.Thresholds.MiscCap.Equal(decimal.RequireFromString("7.5")))
	assert.True(t, rs.Thresholds.ManagerApproval.Equal(decimal.NewFromInt(50)), "untouched threshold keeps its default")
	assert.Equal(t, []RestrictedVenue{{Keyword: "dave & busters", Message: "Restricted venue."}}, rs.RestrictedVenues)
	require.Len(t, rs.CorrelationRules, 1)
	assert.Equal(t, []string{"drone", "segredo"}, rs.CorrelationRules[0].EmailKeywords)
	assert.Len(t, rs.Blacklist, 3, "absent section keeps defaults")
	assert.Equal(t, Default().Messages, rs.Messages)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantField string
	}{
		{name: "malformed yaml", content: "thresholds: [unclosed"},
		{name: "bad decimal", content: "thresholds:\n  structuring: lots\n", wantField: "thresholds.structuring"},
		{name: "invalid rule", content: "excerpt_length: -3\n", wantField: "excerpt_length"},
		{
			name:      "rule with only blank keywords",
			content:   "correlation_rules:\n  - name: x\n    email_keywords: [\"  \"]\n    transaction_keywords: [y]\n    reason: z\n",
			wantField: "correlation_rules[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rules.yaml")
			writeFile(t, path, tt.content)

			_, err := Load(path, logging.NewMockLogger())
			require.Error(t, err)
			var verr *parsererror.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, path, verr.Source)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestLoad_UnreadablePath(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir, logging.NewMockLogger())
	require.Error(t, err)
	var serr *parsererror.SourceError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "rules", serr.Kind)
}

func TestMarshal_RoundTrip(t *testing.T) {
	original := Default()
	original.Thresholds.ITValidation = decimal.RequireFromString("250.25")
	original.ExcerptLength = 120
	original.Blacklist = original.Blacklist[:1]

	data, err := Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), "correlation_rules:")

	loaded := Default()
	require.NoError(t, Apply(loaded, data, "roundtrip"))

	assert.True(t, loaded.Thresholds.ITValidation.Equal(original.Thresholds.ITValidation))
	assert.Equal(t, 120, loaded.ExcerptLength)
	assert.Equal(t, original.Blacklist, loaded.Blacklist)
	assert.Equal(t, original.CorrelationRules, loaded.CorrelationRules)
	assert.Equal(t, original.Messages, loaded.Messages)
	assert.Equal(t, original.RestrictedVenues, loaded.RestrictedVenues)
}
