package ledgerparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/ledger-audit/internal/logging"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const portugueseLedger = `id_transacao,data,funcionario,descricao,categoria,valor
T001,2008-01-10,Michael Scott,Jantar no Hooters,Refeição,87.30
T002,2008-01-11,Dwight Schrute,Katana decorativa,Diversos,abc
T003,2008-01-11,Ryan Howard,"Servidores WUPHF, Tech Solutions",TI,1200.00
`

func TestParse_PortugueseHeaders(t *testing.T) {
	p := NewParser(',', logging.NewMockLogger())

	txs, err := p.Parse(strings.NewReader(portugueseLedger))
	require.NoError(t, err)
	require.Len(t, txs, 3)

	assert.Equal(t, "T001", txs[0].ID)
	assert.Equal(t, "2008-01-10", txs[0].Date)
	assert.Equal(t, "Michael Scott", txs[0].Actor)
	assert.Equal(t, "Jantar no Hooters", txs[0].Description)
	assert.Equal(t, "Refeição", txs[0].Category)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("87.30")))

	assert.Equal(t, "Servidores WUPHF, Tech Solutions", txs[2].Description)
	assert.True(t, txs[2].Amount.Equal(decimal.NewFromInt(1200)))
}

func TestParse_AmountCoercion(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   string
	}{
		{"plain", "12.5", "12.5"},
		{"padded", " 7 ", "7"},
		{"non numeric", "abc", "0"},
		{"empty", "", "0"},
		{"negative", "-40", "0"},
		{"decimal comma", "12,50", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewMockLogger()
			p := NewParser(';', logger)
			input := "id;date;actor;description;category;amount\nX1;2024-01-01;A;D;C;" + tt.amount + "\n"

			txs, err := p.Parse(strings.NewReader(input))
			require.NoError(t, err)
			require.Len(t, txs, 1)
			assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString(tt.want)),
				"got %s want %s", txs[0].Amount, tt.want)
			if tt.want == "0" {
				assert.True(t, logger.HasEntry("DEBUG", "Amount coerced to zero"))
			}
		})
	}
}

func TestParse_HeaderAliasesMatchRegardlessOfCase(t *testing.T) {
	english := "\uFEFFTransaction_ID, Date ,Employee,Description,CATEGORY,Amount\nT9,2024-03-01,Pam,Hooters,Misc,10\n"
	portuguese := "id_transacao,data,funcionario,descricao,categoria,valor\nT9,2024-03-01,Pam,Hooters,Misc,10\n"

	p := NewParser(0, nil)
	a, err := p.Parse(strings.NewReader(english))
	require.NoError(t, err)
	b, err := p.Parse(strings.NewReader(portuguese))
	require.NoError(t, err)

	assert.Equal(t, b, a)
	require.Len(t, a, 1)
	assert.Equal(t, "Pam", a[0].Actor)
}

func TestParse_EmptyInputs(t *testing.T) {
	p := NewParser(',', nil)

	txs, err := p.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, txs)

	txs, err = p.Parse(strings.NewReader("id,date,actor,description,category,amount\n"))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestParse_PreservesSourceOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,date,actor,description,category,amount\n")
	ids := []string{"Z", "A", "M", "B"}
	for _, id := range ids {
		b.WriteString(id + ",2024-01-01,X,desc,cat,1\n")
	}

	txs, err := NewParser(',', nil).Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	got := make([]string, 0, len(txs))
	for _, tx := range txs {
		got = append(got, tx.ID)
	}
	assert.Equal(t, ids, got)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transacoes.csv")
	require.NoError(t, os.WriteFile(path, []byte(portugueseLedger), 0600))

	p := NewParser(',', logging.NewMockLogger())

	txs, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, txs, 3)

	txs, err = p.ParseFile(filepath.Join(dir, "missing.csv"))
	require.NoError(t, err)
	assert.Empty(t, txs)
}
