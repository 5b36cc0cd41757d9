package root_test

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-audit/cmd/root"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "ledger-audit", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "audit expense ledgers")
	assert.True(t, root.Cmd.SilenceUsage)
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()
	root.Init()

	tests := []struct {
		name      string
		shorthand string
	}{
		{name: "config", shorthand: "c"},
		{name: "log-level"},
		{name: "log-format"},
		{name: "transactions", shorthand: "t"},
		{name: "correspondence", shorthand: "m"},
		{name: "policy", shorthand: "p"},
		{name: "rules", shorthand: "r"},
		{name: "csv-delimiter"},
		{name: "sequential"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.shorthand, f.Shorthand)
		})
	}
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestSetup_AppliesConfigAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	configContent := `
log:
  level: "warn"
sources:
  policy: "from-config.txt"
csv:
  delimiter: ";"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(configContent), 0600))

	root.Init()
	ledger := filepath.Join(dir, "ledger.csv")
	require.NoError(t, root.Cmd.ParseFlags([]string{
		"--transactions", ledger,
		"--log-level", "debug",
		"--sequential",
	}))

	require.NoError(t, root.Setup(root.Cmd))

	cfg := root.GetConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, ledger, cfg.Sources.Transactions)
	assert.Equal(t, "from-config.txt", cfg.Sources.Policy)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Audit.Parallel)

	c := root.GetContainer()
	require.NotNil(t, c)
	assert.Equal(t, ledger, c.GetEngine().Sources().Transactions)
	assert.Equal(t, logrus.DebugLevel, root.Log.GetLevel())
	assert.NotNil(t, root.GetLogrusAdapter())

	require.NoError(t, root.Cmd.ParseFlags([]string{"--csv-delimiter", "::"}))
	err := root.Setup(root.Cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CSV delimiter must be a single character")
}
