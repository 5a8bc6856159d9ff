package parser

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	stderrors "errors"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsontype/internal/errors"
	"github.com/mcncl/jsontype/internal/models"
)

// mergeTag marks a "<<" merge key.
const mergeTag = "!!merge"

// ParseYAML reads a single YAML document from reader. Mapping order is kept
// and scalars are typed by their resolved tag.
func ParseYAML(reader io.Reader) (models.Document, error) {
	decoder := yaml.NewDecoder(reader)

	var root yaml.Node
	if err := decoder.Decode(&root); err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.Document{}, errors.NewParsingError(
			fmt.Sprintf("YAML syntax error: %v", err),
			errors.ErrInvalidYAML,
		)
	}

	var next yaml.Node
	if err := decoder.Decode(&next); err == nil {
		return models.Document{}, errors.NewParsingError("multiple YAML documents found", errors.ErrMultipleDocuments)
	} else if !stderrors.Is(err, io.EOF) {
		return models.Document{}, errors.NewParsingError(
			fmt.Sprintf("YAML syntax error: %v", err),
			errors.ErrInvalidYAML,
		)
	}

	value, err := nodeToValue(&root)
	if err != nil {
		return models.Document{}, err
	}
	return models.Document{Root: value, Format: models.FormatYAML}, nil
}

func nodeToValue(n *yaml.Node) (models.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return models.NewNull(), nil
		}
		return nodeToValue(n.Content[0])
	case yaml.MappingNode:
		b := models.NewDictBuilder(len(n.Content) / 2)
		if err := appendMapping(b, n); err != nil {
			return models.Value{}, err
		}
		return b.Build(), nil
	case yaml.SequenceNode:
		items := make([]models.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeToValue(c)
			if err != nil {
				return models.Value{}, err
			}
			items = append(items, v)
		}
		return models.NewList(items...), nil
	case yaml.AliasNode:
		if n.Alias == nil {
			return models.NewNull(), nil
		}
		return nodeToValue(n.Alias)
	case yaml.ScalarNode:
		return scalarToValue(n), nil
	}
	return models.Value{}, errors.NewParsingError(
		fmt.Sprintf("unsupported YAML node at line %d", n.Line),
		errors.ErrInvalidYAML,
	)
}

// appendMapping copies the pairs of a mapping node into b, expanding merge keys.
func appendMapping(b *models.DictBuilder, n *yaml.Node) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.ShortTag() == mergeTag {
			if err := mergeInto(b, v); err != nil {
				return err
			}
			continue
		}
		val, err := nodeToValue(v)
		if err != nil {
			return err
		}
		b.Set(k.Value, val)
	}
	return nil
}

// mergeInto copies the keys of a merged mapping that b does not hold yet.
// Keys written in the mapping itself take precedence wherever they appear, and
// in a sequence of merges the first mapping to name a key wins.
func mergeInto(b *models.DictBuilder, n *yaml.Node) error {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias != nil {
			return mergeInto(b, n.Alias)
		}
		return nil
	case yaml.MappingNode:
		merged := models.NewDictBuilder(len(n.Content) / 2)
		if err := appendMapping(merged, n); err != nil {
			return err
		}
		for _, f := range merged.Build().Fields() {
			if !b.Has(f.Key) {
				b.Set(f.Key, f.Value)
			}
		}
		return nil
	case yaml.SequenceNode:
		for _, c := range n.Content {
			if err := mergeInto(b, c); err != nil {
				return err
			}
		}
		return nil
	}
	return errors.NewParsingError(
		fmt.Sprintf("merge key at line %d must refer to a mapping", n.Line),
		errors.ErrInvalidYAML,
	)
}

func scalarToValue(n *yaml.Node) models.Value {
	switch n.ShortTag() {
	case "!!null":
		return models.NewNull()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return models.NewBool(b)
		}
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return models.NewInt(i)
		}
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return models.NewFloat(f)
		}
	case "!!float":
		switch strings.ToLower(n.Value) {
		case ".inf", "+.inf":
			return models.NewFloat(math.Inf(1))
		case "-.inf":
			return models.NewFloat(math.Inf(-1))
		case ".nan":
			return models.NewFloat(math.NaN())
		}
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return models.NewFloat(f)
		}
	}
	// !!str, !!timestamp, !!binary and custom tags keep their text.
	return models.NewString(n.Value)
}
