package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DEFAULT_APP_CONFIG, *cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DNT_ENV", "dev")
	t.Setenv("DNT_LOG_LEVEL", "debug")
	t.Setenv("DNT_STORE_PATH", filepath.Join(dir, "dnt.db"))
	t.Setenv("DNT_STORE_TIMEOUT", "250ms")
	t.Setenv("DNT_RULES_DIR", dir)
	t.Setenv("DNT_INFER_ROW_CLICKS", "false")
	t.Setenv("DNT_CLASSIFY_CACHE_SIZE", "0")
	t.Setenv("DNT_LABEL", " [dnt test] ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, filepath.Join(dir, "dnt.db"), cfg.StorePath)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, dir, cfg.RulesDir)
	assert.False(t, cfg.InferRowClicks)
	assert.Equal(t, 0, cfg.ClassifyCacheSize)
	assert.Equal(t, "[dnt test]", cfg.Label)
}

func TestLoad_File(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"yaml", "dnt.yaml", "env: dev\nlog_level: warn\nclassify_cache_size: 64\n"},
		{"json", "dnt.json", `{"env": "dev", "log_level": "warn", "classify_cache_size": 64}`},
		{"toml", "dnt.toml", "env = \"dev\"\nlog_level = \"warn\"\nclassify_cache_size = 64\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			t.Setenv(FileEnv, path)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, "dev", cfg.Env)
			assert.Equal(t, "warn", cfg.LogLevel)
			assert.Equal(t, 64, cfg.ClassifyCacheSize)
			assert.Equal(t, DEFAULT_APP_CONFIG.Label, cfg.Label)
		})
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dnt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o644))
	t.Setenv(FileEnv, path)
	t.Setenv("DNT_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_FileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Setenv(FileEnv, filepath.Join(dir, "dnt.ini"))
	_, err := Load()
	assert.ErrorContains(t, err, "unsupported config file type")

	t.Setenv(FileEnv, filepath.Join(dir, "missing.yaml"))
	_, err = Load()
	assert.ErrorContains(t, err, "error loading config file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"env", "DNT_ENV", "staging"},
		{"log level", "DNT_LOG_LEVEL", "trace"},
		{"timeout", "DNT_STORE_TIMEOUT", "-1s"},
		{"timeout not a duration", "DNT_STORE_TIMEOUT", "soon"},
		{"rules dir", "DNT_RULES_DIR", "/nonexistent/dnt/rules"},
		{"cache size", "DNT_CLASSIFY_CACHE_SIZE", "-1"},
		{"empty label", "DNT_LABEL", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_LoaderFailures(t *testing.T) {
	mocked := errors.New("mocked error")

	orig := defaultLoader
	defaultLoader = func(*koanf.Koanf) error { return mocked }
	_, err := Load()
	defaultLoader = orig
	assert.ErrorIs(t, err, mocked)

	origEnv := envLoader
	envLoader = func(*koanf.Koanf) error { return mocked }
	_, err = Load()
	envLoader = origEnv
	assert.ErrorIs(t, err, mocked)

	origReg := registerValidation
	registerValidation = func(*validator.Validate) error { return mocked }
	_, err = Load()
	registerValidation = origReg
	assert.ErrorIs(t, err, mocked)
}

func TestValidLabel(t *testing.T) {
	validate := validator.New()
	require.NoError(t, validate.RegisterValidation("label", validLabel))

	type S struct {
		Label string `validate:"label"`
	}
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"[discourse-new-tab]", true},
		{"dnt", true},
		{"", false},
		{"two\nlines", false},
		{"\t", false},
	} {
		err := validate.Struct(S{Label: tc.in})
		assert.Equal(t, tc.want, err == nil, tc.in)
	}
}
