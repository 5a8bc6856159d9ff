package formatter

import (
	"strings"

	"github.com/mcncl/jsontype/internal/errors"
)

// declarationPrefix starts every rendered type declaration.
const declarationPrefix = "type "

// Options controls the final shape of the output text
type Options struct {
	// FileHeader is written as line comments above the output.
	FileHeader string
	// Export prefixes a type declaration with "export ".
	Export bool
	// Semicolon terminates the output with ";".
	Semicolon bool
}

// Formatter prepares rendered types for writing
type Formatter struct {
	opts Options
}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// NewFormatterWithOptions creates a new Formatter with custom options
func NewFormatterWithOptions(opts Options) *Formatter {
	return &Formatter{opts: opts}
}

// Format applies the header, export keyword and terminator to code and ends
// it with exactly one newline.
func (f *Formatter) Format(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", nil
	}

	if f.opts.Export {
		if !strings.HasPrefix(code, declarationPrefix) {
			return "", errors.ErrExportWithoutName
		}
		code = "export " + code
	}

	if f.opts.Semicolon && !strings.HasSuffix(code, ";") {
		code += ";"
	}

	var sb strings.Builder
	if header := f.formatHeader(); header != "" {
		sb.WriteString(header)
		sb.WriteString("\n\n")
	}
	sb.WriteString(code)
	sb.WriteByte('\n')
	return sb.String(), nil
}

// formatHeader turns the configured header into line comments. Lines that
// already are comments are kept as they are.
func (f *Formatter) formatHeader() string {
	header := strings.TrimSpace(f.opts.FileHeader)
	if header == "" {
		return ""
	}

	lines := strings.Split(header, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		switch {
		case strings.HasPrefix(strings.TrimSpace(line), "//"):
			lines[i] = strings.TrimSpace(line)
		case line == "":
			lines[i] = "//"
		default:
			lines[i] = "// " + line
		}
	}
	return strings.Join(lines, "\n")
}
