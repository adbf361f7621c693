package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Parallel()

	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.ScriptExtensions, cfg.ScriptExtensions)
	assert.Equal(t, def.MarkupExtensions, cfg.MarkupExtensions)
	assert.Empty(t, cfg.Exclude)
	assert.Equal(t, def.MaxFileSize, cfg.MaxFileSize)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFromProjectRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `markupExtensions: [".html", ".twig"]
exclude:
  - spec/fixtures/
maxFileSize: 2048
logLevel: debug
`)

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{".html", ".twig"}, cfg.MarkupExtensions)
	assert.Equal(t, []string{".js", ".ts"}, cfg.ScriptExtensions)
	assert.Equal(t, []string{"spec/fixtures/"}, cfg.Exclude)
	assert.Equal(t, 2048, cfg.MaxFileSize)
	assert.Equal(t, "debug", cfg.LogLevel)

	opts := cfg.DiscoverOptions()
	assert.Equal(t, cfg.Exclude, opts.Exclude)
	assert.Equal(t, cfg.MarkupExtensions, opts.MarkupExtensions)
}

func TestLoadExplicitPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: error\n"), 0o644))

	cfg, err := Load(t.TempDir(), path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)

	_, err = Load(dir, filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "logLevel: debug\n")

	t.Setenv("STIMREF_LOG_LEVEL", "error")
	t.Setenv("STIMREF_MAX_FILE_SIZE", "4096")
	t.Setenv("STIMREF_EXCLUDE", "tmp/,spec/")

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 4096, cfg.MaxFileSize)
	assert.Equal(t, []string{"tmp/", "spec/"}, cfg.Exclude)
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"extension without dot", "scriptExtensions: [js]\n", "scriptExtensions"},
		{"markup extension without dot", "markupExtensions: [html]\n", "markupExtensions"},
		{"zero file size", "maxFileSize: 0\n", "maxFileSize"},
		{"unknown level", "logLevel: loud\n", "logLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := Load(dir, "")
			var cerr *Error
			require.True(t, errors.As(err, &cerr), "got %v", err)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "logLevel: [unterminated\n")

	_, err := Load(dir, "")
	assert.Error(t, err)
}
