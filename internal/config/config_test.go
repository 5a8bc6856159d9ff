package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsontype/internal/errors"
	"github.com/mcncl/jsontype/internal/models"
)

// writeConfig writes content to a temporary config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	_ = tmpFile.Close()
	return tmpFile.Name()
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.Empty(t, cfg.TypeName)
	assert.False(t, cfg.Layout.Multiline)
	assert.Equal(t, 2, cfg.Layout.IndentSize)
	assert.False(t, cfg.Inference.ThrowOnUnknown)
	assert.False(t, cfg.Inference.UseLiteralTypes)
	assert.Equal(t, 0, cfg.Inference.MaxDepth)
	assert.False(t, cfg.Naming.PascalCaseTypeName)
	assert.False(t, cfg.Output.Export)
	assert.Equal(t, models.FormatAuto, cfg.InputFormat())
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, models.DefaultOptions(), cfg.Options())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
type_name: "api_response"
inference:
  throw_on_unknown: true
  use_literal_types: true
  max_depth: 16
layout:
  multiline: true
  indent_size: 4
naming:
  pascal_case_type_name: true
output:
  file_header: "Code generated by jsontype. DO NOT EDIT."
  export: true
  semicolon: true
input:
  format: yaml
dev:
  debug: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "api_response", cfg.TypeName)
	assert.Equal(t, "ApiResponse", cfg.ResolvedTypeName())
	assert.Equal(t, models.FormatYAML, cfg.InputFormat())
	assert.True(t, cfg.Dev.Debug)

	opts := cfg.Options()
	assert.Equal(t, models.Options{
		ThrowOnUnknown:  true,
		IndentSize:      4,
		Multiline:       true,
		TypeName:        "ApiResponse",
		UseLiteralTypes: true,
		MaxDepth:        16,
	}, opts)

	fopts := cfg.FormatterOptions()
	assert.True(t, fopts.Export)
	assert.True(t, fopts.Semicolon)
	assert.Equal(t, "Code generated by jsontype. DO NOT EDIT.", fopts.FileHeader)
}

func TestConfig_LoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, "layout:\n  multiline: true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Layout.Multiline)
	assert.Equal(t, 2, cfg.Layout.IndentSize)
	assert.Equal(t, models.FormatAuto, cfg.InputFormat())
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "layout: [unclosed\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		sentinel error
	}{
		{"negative indent", func(c *Config) { c.Layout.IndentSize = -1 }, errors.ErrInvalidIndentation},
		{"type name with space", func(c *Config) { c.TypeName = "User Profile" }, errors.ErrInvalidTypeName},
		{"type name with digit first", func(c *Config) { c.TypeName = "1User" }, errors.ErrInvalidTypeName},
		{"export without name", func(c *Config) { c.Output.Export = true }, errors.ErrExportWithoutName},
		{"unknown format", func(c *Config) { c.Input.Format = "xml" }, errors.ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.sentinel), "got %v", err)
		})
	}

	t.Run("negative max depth", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Inference.MaxDepth = -2
		assert.Error(t, cfg.Validate())
	})

	t.Run("pascal case repairs a type name", func(t *testing.T) {
		cfg := NewConfig()
		cfg.TypeName = "user profile"
		cfg.Naming.PascalCaseTypeName = true
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, "UserProfile", cfg.ResolvedTypeName())
	})

	t.Run("dollar and underscore are allowed", func(t *testing.T) {
		cfg := NewConfig()
		cfg.TypeName = "$_Root1"
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	nestedDir := filepath.Join(tmpDir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nestedDir, 0755))

	configPath := filepath.Join(tmpDir, ".jsontype.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("layout:\n  multiline: true\n"), 0644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	err = os.Chdir(nestedDir)
	require.NoError(t, err)

	found := FindConfigFile()
	// Resolve symlinks, the temp dir may live behind one
	expected, _ := filepath.EvalSymlinks(configPath)
	actual, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, expected, actual)
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	tmpDir := t.TempDir()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()

	err = os.Chdir(tmpDir)
	require.NoError(t, err)

	assert.Empty(t, FindConfigFile())
}

func TestOverrides_Apply(t *testing.T) {
	base := NewConfig()
	base.TypeName = "FromFile"
	base.Layout.IndentSize = 4
	base.Inference.MaxDepth = 8

	t.Run("no overrides keep the config", func(t *testing.T) {
		cfg := *base
		NoOverrides().Apply(&cfg)
		assert.Equal(t, *base, cfg)
	})

	t.Run("set overrides win", func(t *testing.T) {
		cfg := *base
		Overrides{
			TypeName:   "FromCLI",
			Format:     "toml",
			Multiline:  true,
			Literal:    true,
			Strict:     true,
			Semicolon:  true,
			IndentSize: 0,
			MaxDepth:   0,
		}.Apply(&cfg)

		assert.Equal(t, "FromCLI", cfg.TypeName)
		assert.Equal(t, models.FormatTOML, cfg.InputFormat())
		assert.True(t, cfg.Layout.Multiline)
		assert.True(t, cfg.Inference.UseLiteralTypes)
		assert.True(t, cfg.Inference.ThrowOnUnknown)
		assert.True(t, cfg.Output.Semicolon)
		assert.Equal(t, 0, cfg.Layout.IndentSize)
		assert.Equal(t, 0, cfg.Inference.MaxDepth)
	})

	t.Run("auto format keeps the configured one", func(t *testing.T) {
		cfg := *base
		cfg.Input.Format = "yaml"
		o := NoOverrides()
		o.Format = "auto"
		o.Apply(&cfg)
		assert.Equal(t, models.FormatYAML, cfg.InputFormat())
	})
}

func TestLoadConfigWithCLI(t *testing.T) {
	path := writeConfig(t, `
type_name: Response
layout:
  multiline: true
  indent_size: 4
`)

	o := NoOverrides()
	o.TypeName = "Result"
	cfg, err := LoadConfigWithCLI(path, o)
	require.NoError(t, err)

	// CLI > config file > defaults
	assert.Equal(t, "Result", cfg.TypeName)
	assert.True(t, cfg.Layout.Multiline)
	assert.Equal(t, 4, cfg.Layout.IndentSize)
	assert.Equal(t, models.FormatAuto, cfg.InputFormat())
}

func TestLoadConfigWithCLI_FlagsCompleteTheFile(t *testing.T) {
	path := writeConfig(t, "output:\n  export: true\n")

	_, err := LoadConfig(path)
	assert.True(t, stderrors.Is(err, errors.ErrExportWithoutName))

	o := NoOverrides()
	o.TypeName = "User"
	cfg, err := LoadConfigWithCLI(path, o)
	require.NoError(t, err)
	assert.True(t, cfg.Output.Export)
	assert.Equal(t, "User", cfg.ResolvedTypeName())

	_, err = LoadConfigWithCLI(path, NoOverrides())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrExportWithoutName))
	assert.Equal(t, "Configuration error: invalid options", errors.UserFriendlyError(err))
}

func TestLoadConfigWithCLI_NoFile(t *testing.T) {
	cfg, err := LoadConfigWithCLI("", NoOverrides())
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
}

func TestLoadConfigWithCLI_Errors(t *testing.T) {
	_, err := LoadConfigWithCLI("/nonexistent/config.yml", NoOverrides())
	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrorTypeConfig, appErr.Type)

	o := NoOverrides()
	o.Export = true
	_, err = LoadConfigWithCLI("", o)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrExportWithoutName))
	assert.Equal(t, "Configuration error: invalid options", errors.UserFriendlyError(err))
}
