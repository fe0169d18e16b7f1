package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"github.com/systmms/vaultkv/internal/config"
	"github.com/systmms/vaultkv/internal/logging"
)

// newTestConfig writes a minimal config file and an in-memory fixture, and
// returns a Config pointed at both.
func newTestConfig(t *testing.T, fixture string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	configPath := filepath.Join(dir, "vaultkv.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: 0\n"), 0o600))

	cfg := &config.Config{
		Path:   configPath,
		Logger: logging.New(false, true),
	}
	if fixture != "" {
		fixturePath := filepath.Join(dir, "fixture.yaml")
		require.NoError(t, os.WriteFile(fixturePath, []byte(fixture), 0o600))
		cfg.MemFixture = fixturePath
	}
	return cfg
}

// captureOutput captures stdout while the command runs.
func captureOutput(t *testing.T, cmd *cobra.Command, args []string) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	cmd.SetArgs(args)
	err := cmd.Execute()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)

	if err != nil {
		t.Logf("Command output before error: %s", buf.String())
		require.NoError(t, err)
	}
	return buf.String()
}
