package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsvault/nsvault/internal/config"
	"github.com/nsvault/nsvault/internal/output"
	vaulterrors "github.com/nsvault/nsvault/pkg/errors"
)

var errTestRandom = vaulterrors.New("TEST_ERROR", "some random error") //nolint:err113 // test sentinel

// saveGlobals snapshots and restores the package-level CLI state so tests
// can mutate it freely.
func saveGlobals(t *testing.T) {
	t.Helper()

	origCfg, origLogger, origFormatter, origCmdCtx := cfg, logger, formatter, cmdCtx
	origHome, origOutput, origVerbose := homeDir, outputFormat, verbose

	t.Cleanup(func() {
		cfg, logger, formatter, cmdCtx = origCfg, origLogger, origFormatter, origCmdCtx
		homeDir, outputFormat, verbose = origHome, origOutput, origVerbose
	})
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{
			name: "all fields set",
			info: BuildInfo{Version: "v1.2.3", Commit: "abc1234567", Date: "2024-01-15"},
			want: "v1.2.3 (commit: abc1234, built: 2024-01-15)",
		},
		{
			name: "empty fields default",
			info: BuildInfo{},
			want: "dev (commit: unknown, built: unknown)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatVersion(tt.info))
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, vaulterrors.ExitSuccess},
		{"database not found", vaulterrors.ErrDatabaseNotFound, vaulterrors.ExitNotFound},
		{"invalid password", vaulterrors.ErrInvalidPassword, vaulterrors.ExitAuth},
		{"locked", vaulterrors.ErrLocked, vaulterrors.ExitAuth},
		{"item not found", vaulterrors.ErrItemNotFound, vaulterrors.ExitNotFound},
		{"invalid operation", vaulterrors.ErrInvalidOperation, vaulterrors.ExitInput},
		{"random error", errTestRandom, vaulterrors.ExitGeneral},
		{"wrapped", vaulterrors.Wrap(vaulterrors.ErrLocked, "wrapped"), vaulterrors.ExitAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestGlobalGetters(t *testing.T) {
	saveGlobals(t)

	cfg = config.Defaults()
	logger = config.NullLogger()
	formatter = output.NewFormatter(output.FormatText, nil)
	cmdCtx = NewCommandContext(cfg, logger, formatter)

	assert.Same(t, cfg, Config())
	assert.Same(t, logger, Logger())
	assert.Same(t, formatter, Formatter())
	assert.Same(t, cmdCtx, Context())
}

func TestCleanup_NilLogger(t *testing.T) {
	saveGlobals(t)
	logger = nil
	assert.NotPanics(t, cleanup)
}

func TestCleanup_WithLogger(t *testing.T) {
	saveGlobals(t)
	logger = config.NullLogger()
	assert.NotPanics(t, cleanup)
}

func TestFormatErr_NilFormatter(t *testing.T) {
	saveGlobals(t)
	formatter = nil
	assert.NotPanics(t, func() { formatErr(errTestRandom) })
}

func TestFormatErr_WithFormatter(t *testing.T) {
	saveGlobals(t)
	formatter = output.NewFormatter(output.FormatText, &bytes.Buffer{})
	assert.NotPanics(t, func() { formatErr(errTestRandom) })
}

func TestFormatErr_JSONFormat(t *testing.T) {
	saveGlobals(t)
	formatter = output.NewFormatter(output.FormatJSON, &bytes.Buffer{})
	assert.NotPanics(t, func() { formatErr(errTestRandom) })
}

func TestInitGlobals_DefaultConfig(t *testing.T) {
	saveGlobals(t)
	homeDir = t.TempDir()

	require.NoError(t, initGlobals(rootCmd))
	assert.Equal(t, homeDir, cfg.Home)
}

func TestInitGlobals_CustomHome(t *testing.T) {
	saveGlobals(t)
	dir := filepath.Join(t.TempDir(), "custom")
	homeDir = dir

	require.NoError(t, initGlobals(rootCmd))
	assert.Equal(t, dir, cfg.Home)
}

func TestInitGlobals_VerboseFlag(t *testing.T) {
	saveGlobals(t)
	homeDir = t.TempDir()
	verbose = true

	require.NoError(t, initGlobals(rootCmd))
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestInitGlobals_OutputFormatFlag(t *testing.T) {
	saveGlobals(t)
	homeDir = t.TempDir()
	outputFormat = "json"

	require.NoError(t, initGlobals(rootCmd))
	assert.Equal(t, output.FormatJSON, formatter.Format())
}

func TestInitGlobals_WithExistingConfig(t *testing.T) {
	saveGlobals(t)
	dir := t.TempDir()
	homeDir = dir

	existing := config.Defaults()
	existing.Language = "de"
	require.NoError(t, config.Save(existing, config.Path(dir)))

	require.NoError(t, initGlobals(rootCmd))
	assert.Equal(t, "de", cfg.Language)
}

func TestCleanup_LoggerCloseError(t *testing.T) {
	saveGlobals(t)

	dir := t.TempDir()
	l, err := config.NewLogger(config.LogLevelDebug, filepath.Join(dir, "nsvault.log"))
	require.NoError(t, err)
	logger = l
	require.NoError(t, logger.Close())

	// Closing twice is a no-op on most platforms; cleanup must not panic.
	assert.NotPanics(t, cleanup)
}

func TestExecute_VersionFlag(t *testing.T) {
	saveGlobals(t)
	homeDir = t.TempDir()

	os.Args = []string{"nsvault", "version"}
	err := Execute(BuildInfo{Version: "v1.0.0-test", Commit: "abc", Date: "2026-01-01"})
	require.NoError(t, err)
}
