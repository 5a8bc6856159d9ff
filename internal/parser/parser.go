package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	stderrors "errors" // Standard errors package

	gojson "github.com/goccy/go-json"

	"github.com/mcncl/jsontype/internal/errors" // Custom errors package
	"github.com/mcncl/jsontype/internal/models"
)

// Parse reads a single JSON value from reader, keeping object keys in
// document order.
func Parse(reader io.Reader) (models.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read input", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	decoder := gojson.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Keep the number text as written

	root, err := decodeValue(decoder)
	if err != nil {
		return models.Document{}, jsonError(err)
	}

	// Anything but EOF after the first value is either a second value or garbage.
	if _, err := decoder.Token(); err == nil {
		return models.Document{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return models.Document{}, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
	}

	// Decoder.Token does not check the commas and colons between tokens.
	if !gojson.Valid(data) {
		return models.Document{}, malformedJSON(data)
	}

	return models.Document{Root: root, Format: models.FormatJSON}, nil
}

// jsonError maps a decoder failure onto a parsing error.
func jsonError(err error) error {
	var syntaxError *gojson.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d", syntaxError.Offset),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) || stderrors.Is(err, io.EOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return errors.NewParsingError("failed to decode JSON", fmt.Errorf("%w: %v", errors.ErrInvalidJSON, err))
}

// malformedJSON reports input that tokenizes but is not valid JSON, with the
// offset of the first error when the decoder can name one.
func malformedJSON(data []byte) error {
	var v any
	if err := gojson.Unmarshal(data, &v); err != nil {
		return jsonError(err)
	}
	return errors.NewParsingError("malformed JSON", errors.ErrInvalidJSON)
}

func decodeValue(decoder *gojson.Decoder) (models.Value, error) {
	tok, err := decoder.Token()
	if err != nil {
		return models.Value{}, err
	}
	return decodeToken(decoder, tok)
}

func decodeToken(decoder *gojson.Decoder, tok any) (models.Value, error) {
	switch v := tok.(type) {
	case gojson.Delim:
		switch v {
		case '{':
			return decodeObject(decoder)
		case '[':
			return decodeArray(decoder)
		}
		return models.Value{}, errors.NewParsingError(fmt.Sprintf("unexpected delimiter %q", rune(v)), errors.ErrInvalidJSON)
	case string:
		return models.NewString(v), nil
	case gojson.Number:
		return models.NewNumber(string(v)), nil
	case float64:
		return models.NewFloat(v), nil
	case bool:
		return models.NewBool(v), nil
	case nil:
		return models.NewNull(), nil
	}
	return models.Value{}, errors.NewParsingError(fmt.Sprintf("unexpected JSON token %v", tok), errors.ErrInvalidJSON)
}

func decodeObject(decoder *gojson.Decoder) (models.Value, error) {
	b := models.NewDictBuilder(0)
	for decoder.More() {
		keyTok, err := decoder.Token()
		if err != nil {
			return models.Value{}, unexpectedEOF(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return models.Value{}, errors.NewParsingError(fmt.Sprintf("object key must be a string, got %v", keyTok), errors.ErrInvalidJSON)
		}
		val, err := decodeValue(decoder)
		if err != nil {
			return models.Value{}, unexpectedEOF(err)
		}
		b.Set(key, val)
	}
	if _, err := decoder.Token(); err != nil { // closing '}'
		return models.Value{}, unexpectedEOF(err)
	}
	return b.Build(), nil
}

func decodeArray(decoder *gojson.Decoder) (models.Value, error) {
	items := make([]models.Value, 0)
	for decoder.More() {
		val, err := decodeValue(decoder)
		if err != nil {
			return models.Value{}, unexpectedEOF(err)
		}
		items = append(items, val)
	}
	if _, err := decoder.Token(); err != nil { // closing ']'
		return models.Value{}, unexpectedEOF(err)
	}
	return models.NewList(items...), nil
}

// unexpectedEOF turns an EOF inside a container into a truncation error so
// it is not mistaken for empty input.
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// ParseFormat parses a document of the given format. FormatAuto tries JSON
// first and falls back to YAML.
func ParseFormat(reader io.Reader, format models.Format) (models.Document, error) {
	switch format {
	case models.FormatJSON:
		return Parse(reader)
	case models.FormatYAML:
		return ParseYAML(reader)
	case models.FormatTOML:
		return ParseTOML(reader)
	case models.FormatAuto, "":
		return parseAuto(reader)
	}
	return models.Document{}, errors.NewInputError(fmt.Sprintf("unknown format '%s'", format), errors.ErrUnsupportedFormat)
}

func parseAuto(reader io.Reader) (models.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read input", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	doc, jsonErr := Parse(bytes.NewReader(data))
	if jsonErr == nil {
		return doc, nil
	}
	// Input that looks like JSON gets the JSON diagnostic.
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return models.Document{}, jsonErr
	}
	doc, yamlErr := ParseYAML(bytes.NewReader(data))
	if yamlErr != nil {
		return models.Document{}, yamlErr
	}
	return doc, nil
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Document, error) {
	return ParseStringFormat(jsonString, models.FormatJSON)
}

// ParseStringFormat parses a document of the given format from a string.
func ParseStringFormat(input string, format models.Format) (models.Document, error) {
	if strings.TrimSpace(input) == "" {
		return models.Document{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseFormat(strings.NewReader(input), format)
}

// DetectFormat picks a format from a file extension.
func DetectFormat(path string) models.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return models.FormatJSON
	case ".yaml", ".yml":
		return models.FormatYAML
	case ".toml":
		return models.FormatTOML
	}
	return models.FormatAuto
}

// ParseFile parses a document from a file path, choosing the format from its extension.
func ParseFile(filePath string) (models.Document, error) {
	return ParseFileFormat(filePath, models.FormatAuto)
}

// ParseFileFormat parses a document from a file path. FormatAuto detects the
// format from the file extension.
func ParseFileFormat(filePath string, format models.Format) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	if format == models.FormatAuto || format == "" {
		format = DetectFormat(filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return ParseFormat(file, format)
}
