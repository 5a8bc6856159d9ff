package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsontype/internal/errors"
	"github.com/mcncl/jsontype/internal/formatter"
	"github.com/mcncl/jsontype/internal/models"
)

// identifierRegex matches names usable after the "type" keyword.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Config represents the complete configuration for jsontype
type Config struct {
	TypeName  string          `yaml:"type_name"`
	Inference InferenceConfig `yaml:"inference"`
	Layout    LayoutConfig    `yaml:"layout"`
	Naming    NamingConfig    `yaml:"naming"`
	Output    OutputConfig    `yaml:"output"`
	Input     InputConfig     `yaml:"input"`
	Dev       DevConfig       `yaml:"dev"`
}

// InferenceConfig controls how values map to types
type InferenceConfig struct {
	ThrowOnUnknown  bool `yaml:"throw_on_unknown"`
	UseLiteralTypes bool `yaml:"use_literal_types"`
	MaxDepth        int  `yaml:"max_depth"`
}

// LayoutConfig controls how types are laid out
type LayoutConfig struct {
	Multiline  bool `yaml:"multiline"`
	IndentSize int  `yaml:"indent_size"`
}

// NamingConfig controls the declared type name
type NamingConfig struct {
	PascalCaseTypeName bool `yaml:"pascal_case_type_name"`
}

// OutputConfig controls the final output text
type OutputConfig struct {
	FileHeader string `yaml:"file_header"`
	Export     bool   `yaml:"export"`
	Semicolon  bool   `yaml:"semicolon"`
}

// InputConfig controls how input is read
type InputConfig struct {
	Format string `yaml:"format"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			Multiline:  false,
			IndentSize: models.DefaultIndentSize,
		},
		Naming: NamingConfig{
			PascalCaseTypeName: false,
		},
		Input: InputConfig{
			Format: string(models.FormatAuto),
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// readConfig decodes a YAML file over the defaults without validating it.
func readConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsontype.yml", ".jsontype.yaml", "jsontype.yml", "jsontype.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks values that cannot be rendered
func (c *Config) Validate() error {
	if c.Layout.IndentSize < 0 {
		return errors.ErrInvalidIndentation
	}
	if c.Inference.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.Inference.MaxDepth)
	}
	if name := c.ResolvedTypeName(); name != "" && !identifierRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", errors.ErrInvalidTypeName, name)
	}
	if c.Output.Export && c.TypeName == "" {
		return errors.ErrExportWithoutName
	}
	switch models.Format(c.Input.Format) {
	case models.FormatAuto, models.FormatJSON, models.FormatYAML, models.FormatTOML, "":
	default:
		return fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, c.Input.Format)
	}
	return nil
}

// ResolvedTypeName returns the type name after naming rules are applied
func (c *Config) ResolvedTypeName() string {
	if c.TypeName == "" {
		return ""
	}
	if c.Naming.PascalCaseTypeName {
		return strcase.ToCamel(c.TypeName)
	}
	return c.TypeName
}

// InputFormat returns the configured input format
func (c *Config) InputFormat() models.Format {
	if c.Input.Format == "" {
		return models.FormatAuto
	}
	return models.Format(c.Input.Format)
}

// Options returns the inference options described by the config
func (c *Config) Options() models.Options {
	return models.Options{
		ThrowOnUnknown:  c.Inference.ThrowOnUnknown,
		IndentSize:      c.Layout.IndentSize,
		Multiline:       c.Layout.Multiline,
		TypeName:        c.ResolvedTypeName(),
		UseLiteralTypes: c.Inference.UseLiteralTypes,
		MaxDepth:        c.Inference.MaxDepth,
	}
}

// FormatterOptions returns the output shaping options described by the config
func (c *Config) FormatterOptions() formatter.Options {
	return formatter.Options{
		FileHeader: c.Output.FileHeader,
		Export:     c.Output.Export,
		Semicolon:  c.Output.Semicolon,
	}
}

// Overrides holds values given on the command line. Zero values mean the
// flag was not given; IndentSize and MaxDepth use -1 for that.
type Overrides struct {
	TypeName   string
	Format     string
	Multiline  bool
	Literal    bool
	Strict     bool
	Export     bool
	Semicolon  bool
	Debug      bool
	IndentSize int
	MaxDepth   int
}

// NoOverrides returns Overrides that leave a config untouched
func NoOverrides() Overrides {
	return Overrides{IndentSize: -1, MaxDepth: -1}
}

// Apply copies the set overrides into c
func (o Overrides) Apply(c *Config) {
	if o.TypeName != "" {
		c.TypeName = o.TypeName
	}
	if o.Format != "" && o.Format != string(models.FormatAuto) {
		c.Input.Format = o.Format
	}
	// Boolean flags can only switch features on
	if o.Multiline {
		c.Layout.Multiline = true
	}
	if o.Literal {
		c.Inference.UseLiteralTypes = true
	}
	if o.Strict {
		c.Inference.ThrowOnUnknown = true
	}
	if o.Export {
		c.Output.Export = true
	}
	if o.Semicolon {
		c.Output.Semicolon = true
	}
	if o.Debug {
		c.Dev.Debug = true
	}
	if o.IndentSize >= 0 {
		c.Layout.IndentSize = o.IndentSize
	}
	if o.MaxDepth >= 0 {
		c.Inference.MaxDepth = o.MaxDepth
	}
}

// LoadConfigWithCLI loads config with CLI argument precedence. The file is
// validated only after the overrides are applied, so a flag may complete it.
func LoadConfigWithCLI(configPath string, overrides Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := readConfig(configPath)
		if err != nil {
			return nil, errors.NewConfigError(fmt.Sprintf("failed to load '%s'", configPath), err)
		}
		cfg = fileConfig
	}

	overrides.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid options", err)
	}
	return cfg, nil
}
