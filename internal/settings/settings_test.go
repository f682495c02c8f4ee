package settings

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	s := Default()

	err := s.ApplyEnv(envMap(map[string]string{
		EnvPatterns:  "./examples/shop, ./internal/...",
		EnvManifests: "a.yaml,,b.yaml,a.yaml",
		EnvFormat:    "YAML",
		EnvLogLevel:  "debug",
		EnvStrict:    "true",
		EnvCacheSize: "16",
		EnvTrace:     "1",
		EnvDir:       " ",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"./examples/shop", "./internal/..."}, s.Patterns)
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, s.Manifests)
	assert.Equal(t, FormatYAML, s.Format)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
	assert.True(t, s.Strict)
	assert.Equal(t, 16, s.CacheSize)
	assert.True(t, s.Trace)
	assert.Empty(t, s.Dir)
}

func TestApplyEnv_Errors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvLogLevel, "verbose"},
		{EnvStrict, "maybe"},
		{EnvCacheSize, "many"},
		{EnvTrace, "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := Default()
			err := s.ApplyEnv(envMap(map[string]string{tt.key: tt.value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Manifests = []string{"mixins.yaml"}
	require.NoError(t, valid.Validate())

	noInput := Default()
	assert.ErrorIs(t, noInput.Validate(), ErrNoInput)

	badFormat := valid
	badFormat.Format = "xml"
	assert.ErrorIs(t, badFormat.Validate(), ErrUnknownFormat)

	badCache := valid
	badCache.CacheSize = 0
	assert.Error(t, badCache.Validate())
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("trace")
	assert.ErrorIs(t, err, ErrUnknownLogLevel)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MIXIN_FORMAT=dump\nMIXIN_MANIFESTS=lib.yaml\n"), 0o644))

	// godotenv does not override variables that are already set.
	t.Setenv(EnvFormat, "")
	require.NoError(t, os.Unsetenv(EnvFormat))
	t.Setenv(EnvManifests, "set.yaml")

	s, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, FormatDump, s.Format)
	assert.Equal(t, []string{"set.yaml"}, s.Manifests)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, FormatText, s.Format)
}
