package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/mcncl/jsontype/internal/analyzer"
	"github.com/mcncl/jsontype/internal/config"
	"github.com/mcncl/jsontype/internal/errors"
	"github.com/mcncl/jsontype/internal/formatter"
	"github.com/mcncl/jsontype/internal/generator"
	"github.com/mcncl/jsontype/internal/models"
	"github.com/mcncl/jsontype/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input file (JSON, YAML or TOML). If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Format      string `help:"Input format (auto, json, yaml, toml). Auto uses the file extension, or tries JSON then YAML on stdin." short:"F" enum:"auto,json,yaml,toml" default:"auto"`
	TypeName    string `help:"Wrap the result in a type declaration with this name." short:"n"`
	Multiline   bool   `help:"Put every object property on its own line." short:"m"`
	Indent      int    `help:"Spaces per nesting level in multiline output. Negative keeps the configured value (2 by default)." default:"-1"`
	Literal     bool   `help:"Render strings, numbers and booleans as literal types." short:"l"`
	Strict      bool   `help:"Fail on values without a JSON type instead of using 'any'."`
	MaxDepth    int    `help:"Fail on input nested deeper than this many levels (0 means unlimited). Negative keeps the configured value." default:"-1"`
	Export      bool   `help:"Prefix the type declaration with 'export'." short:"e"`
	Semicolon   bool   `help:"Terminate the output with a semicolon."`
	Config      string `help:"Path to a config file. Defaults to the nearest .jsontype.yml." short:"c" type:"path"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *log.Logger
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	cliParser := kong.Must(&CLI,
		kong.Name("jsontype"),
		kong.Description("Infer a TypeScript-style type signature from a JSON, YAML or TOML document"),
		kong.UsageOnError(),
	)

	// No arguments means interactive mode
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	if _, err := cliParser.Parse(os.Args[1:]); err != nil {
		// kong.UsageOnError() has already shown the usage
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("jsontype version %s\n", Version)
		return
	}

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, cliOverrides())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, cfg.Dev.Debug)
	if configPath != "" {
		logger.Debug("loaded config", "path", configPath)
	}

	err = run(&Context{Debug: cfg.Dev.Debug, Config: cfg, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		if cfg.Dev.Debug {
			logger.Debug("run failed", "err", err)
		}
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsontype --help\n")
		os.Exit(1)
	}
}

// cliOverrides collects the flags that take precedence over the config file
func cliOverrides() config.Overrides {
	return config.Overrides{
		TypeName:   CLI.TypeName,
		Format:     CLI.Format,
		Multiline:  CLI.Multiline,
		Literal:    CLI.Literal,
		Strict:     CLI.Strict,
		Export:     CLI.Export,
		Semicolon:  CLI.Semicolon,
		Debug:      CLI.Debug,
		IndentSize: CLI.Indent,
		MaxDepth:   CLI.MaxDepth,
	}
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := ctx.Logger
	if logger == nil {
		logger = newLogger(io.Discard, ctx.Debug)
	}

	// 1. Parse the input document
	st := startStage(logger, "parsed input")
	doc, err := parseInput(cfg.InputFormat())
	if err != nil {
		return err
	}
	st.done("format", doc.Format, "root", doc.Root.Kind())

	// 2. Infer the type
	opts := cfg.Options()
	st = startStage(logger, "inferred type")
	expr, err := analyzer.NewAnalyzerWithOptions(opts).Analyze(doc.Root)
	if err != nil {
		return errors.NewInferenceError("failed to infer type", err)
	}
	st.done("multiline", opts.Multiline, "literal", opts.UseLiteralTypes)

	// 3. Render it
	code := generator.NewGeneratorWithOptions(opts).Declare(expr)

	// 4. Shape the output
	code, err = formatter.NewFormatterWithOptions(cfg.FormatterOptions()).Format(code)
	if err != nil {
		return errors.NewFormatError("failed to format output", err)
	}

	// 5. Output the result
	return writeOutput(code)
}

// parseInput reads the document from file or stdin
func parseInput(format models.Format) (models.Document, error) {
	if CLI.Input != "" {
		return parser.ParseFileFormat(CLI.Input, format)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if CLI.Interactive {
			return readInteractiveInput(format)
		}
		return models.Document{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return models.Document{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseFormat(bytes.NewReader(data), format)
}

// writeOutput writes the result to file or stdout
func writeOutput(code string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(code), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Type written to %s\n", CLI.Output)
		return nil
	}

	if _, err := fmt.Print(code); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets the user paste a document and signal completion
// with Ctrl+D (EOF)
func readInteractiveInput(format models.Format) (models.Document, error) {
	fmt.Fprintln(os.Stderr, "jsontype Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON, YAML or TOML below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var builder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		builder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Document{}, errors.NewInputError("error reading input", err)
		}
	}

	input := builder.String()
	if strings.TrimSpace(input) == "" {
		return models.Document{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing input...")
	return parser.ParseStringFormat(input, format)
}
