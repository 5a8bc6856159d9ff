package parser

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	stderrors "errors"

	"github.com/BurntSushi/toml"

	"github.com/mcncl/jsontype/internal/errors"
	"github.com/mcncl/jsontype/internal/models"
)

// keySep joins TOML key paths into map keys.
const keySep = "\x00"

// ParseTOML reads a TOML document from reader. Table keys keep the order in
// which they are defined; date-times become strings.
func ParseTOML(reader io.Reader) (models.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read input", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	var raw map[string]any
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		var parseErr toml.ParseError
		if stderrors.As(err, &parseErr) {
			return models.Document{}, errors.NewParsingError(
				fmt.Sprintf("TOML syntax error at line %d: %s", parseErr.Position.Line, parseErr.Message),
				errors.ErrInvalidTOML,
			)
		}
		return models.Document{}, errors.NewParsingError("failed to decode TOML", fmt.Errorf("%w: %v", errors.ErrInvalidTOML, err))
	}

	order := make(map[string]int)
	for i, key := range meta.Keys() {
		path := strings.Join(key, keySep)
		if _, ok := order[path]; !ok {
			order[path] = i
		}
	}

	c := tomlConverter{order: order}
	return models.Document{Root: c.convert(raw, ""), Format: models.FormatTOML}, nil
}

type tomlConverter struct {
	order map[string]int
}

// convert walks a decoded TOML value. path is the key path of v; elements of
// arrays share the path of the array, matching MetaData.Keys.
func (c tomlConverter) convert(v any, path string) models.Value {
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.SliceStable(keys, func(i, j int) bool {
			oi, oj := c.position(path, keys[i]), c.position(path, keys[j])
			if oi != oj {
				return oi < oj
			}
			return keys[i] < keys[j]
		})
		b := models.NewDictBuilder(len(keys))
		for _, k := range keys {
			b.Set(k, c.convert(x[k], join(path, k)))
		}
		return b.Build()
	case []map[string]any:
		items := make([]models.Value, len(x))
		for i, table := range x {
			items[i] = c.convert(table, path)
		}
		return models.NewList(items...)
	case []any:
		items := make([]models.Value, len(x))
		for i, item := range x {
			items[i] = c.convert(item, path)
		}
		return models.NewList(items...)
	case string:
		return models.NewString(x)
	case bool:
		return models.NewBool(x)
	case int64:
		return models.NewInt(x)
	case float64:
		return models.NewFloat(x)
	case time.Time:
		return models.NewString(formatTOMLTime(x))
	case nil:
		return models.NewNull()
	}
	return models.NewString(fmt.Sprint(v))
}

func (c tomlConverter) position(path, key string) int {
	if i, ok := c.order[join(path, key)]; ok {
		return i
	}
	return math.MaxInt
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + keySep + key
}

// Zone names the TOML decoder gives to local date-times.
const (
	zoneLocalDatetime = "datetime-local"
	zoneLocalDate     = "date-local"
	zoneLocalTime     = "time-local"
)

// formatTOMLTime renders local dates and times without a zone, like the
// document spelled them.
func formatTOMLTime(t time.Time) string {
	switch t.Location().String() {
	case zoneLocalDate:
		return t.Format("2006-01-02")
	case zoneLocalTime:
		return t.Format("15:04:05.999999999")
	case zoneLocalDatetime:
		return t.Format("2006-01-02T15:04:05.999999999")
	}
	return t.Format(time.RFC3339Nano)
}
