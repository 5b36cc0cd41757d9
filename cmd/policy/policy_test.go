package policy

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ledger-audit/internal/config"
	"fjacquet/ledger-audit/internal/container"
	"fjacquet/ledger-audit/internal/logging"
	"fjacquet/ledger-audit/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T, policyPath string) (*container.Container, *logging.MockLogger) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Sources.Policy = policyPath
	cfg.CSV.Delimiter = ","
	cfg.Audit.ExcerptLength = 320

	logger := logging.NewMockLogger()
	c, err := container.NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)
	return c, logger
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "politica.txt")
	require.NoError(t, os.WriteFile(path, []byte("Política de despesas\nSeção 1.3"), 0600))

	c, _ := newContainer(t, path)
	var out bytes.Buffer
	require.NoError(t, Run(c, &out))
	assert.Equal(t, "Política de despesas\nSeção 1.3\n", out.String())
}

func TestRun_MissingPolicy(t *testing.T) {
	c, logger := newContainer(t, filepath.Join(t.TempDir(), "absent.txt"))
	var out bytes.Buffer

	require.NoError(t, Run(c, &out))
	assert.Empty(t, out.String())
	assert.True(t, logger.HasEntry("WARN", "Policy text is empty"))
}

func TestRun_UnreadablePolicy(t *testing.T) {
	c, _ := newContainer(t, t.TempDir())
	var out bytes.Buffer

	err := Run(c, &out)
	require.Error(t, err)
	var serr *parsererror.SourceError
	assert.ErrorAs(t, err, &serr)
}
