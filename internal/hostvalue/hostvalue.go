// Package hostvalue converts arbitrary Go values into the models.Value tree.
//
// This is the only place where a value without a JSON shape can enter the
// program: functions, channels, complex numbers and unsafe pointers become
// models.Unknown values carrying their Go type name, and the analyzer decides
// whether they render as "any" or fail.
package hostvalue

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mcncl/jsontype/internal/errors"
	"github.com/mcncl/jsontype/internal/models"
)

// UndefinedType is the type of Undefined.
type UndefinedType struct{}

// Undefined stands for an absent value, which has no native Go spelling.
var Undefined = UndefinedType{}

var (
	valueType         = reflect.TypeOf(models.Value{})
	timeType          = reflect.TypeOf(time.Time{})
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// FromAny converts v into a value tree. Maps are emitted with their keys
// sorted, structs in field declaration order using their json tags. Map keys
// are named the way encoding/json names them, and a map whose key type
// encoding/json rejects becomes Unknown.
// A value that refers to itself yields errors.ErrCyclicValue.
func FromAny(v any) (models.Value, error) {
	c := &converter{visiting: make(map[visit]struct{})}
	return c.convert(reflect.ValueOf(v))
}

// visit identifies a reference-typed value currently on the conversion stack.
type visit struct {
	ptr uintptr
	len int
	typ reflect.Type
}

type converter struct {
	visiting map[visit]struct{}
}

func (c *converter) convert(rv reflect.Value) (models.Value, error) {
	if !rv.IsValid() {
		return models.NewNull(), nil
	}

	if rv.CanInterface() {
		switch x := rv.Interface().(type) {
		case models.Value:
			return x, nil
		case UndefinedType:
			return models.NewUndefined(), nil
		case json.Number:
			return models.NewNumber(x.String()), nil
		case time.Time:
			return models.NewString(x.Format(time.RFC3339Nano)), nil
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return models.NewBool(rv.Bool()), nil
	case reflect.String:
		return models.NewString(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return models.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return models.NewUint(rv.Uint()), nil
	case reflect.Float32:
		return models.NewFloat(float64(float32(rv.Float()))), nil
	case reflect.Float64:
		return models.NewFloat(rv.Float()), nil
	case reflect.Interface:
		if rv.IsNil() {
			return models.NewNull(), nil
		}
		return c.convert(rv.Elem())
	case reflect.Pointer:
		if rv.IsNil() {
			return models.NewNull(), nil
		}
		return c.guard(rv, func() (models.Value, error) { return c.convert(rv.Elem()) })
	case reflect.Slice:
		if rv.IsNil() {
			return models.NewNull(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return models.NewString(base64.StdEncoding.EncodeToString(rv.Bytes())), nil
		}
		return c.guard(rv, func() (models.Value, error) { return c.convertList(rv) })
	case reflect.Array:
		return c.convertList(rv)
	case reflect.Map:
		if rv.IsNil() {
			return models.NewNull(), nil
		}
		if !objectKey(rv.Type().Key()) {
			return models.NewUnknown(rv.Type().String()), nil
		}
		return c.guard(rv, func() (models.Value, error) { return c.convertMap(rv) })
	case reflect.Struct:
		return c.convertStruct(rv)
	default:
		// Func, Chan, Complex64, Complex128, UnsafePointer.
		return models.NewUnknown(typeName(rv.Type())), nil
	}
}

// guard fails when rv is already being converted further up the stack.
func (c *converter) guard(rv reflect.Value, fn func() (models.Value, error)) (models.Value, error) {
	key := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		// Sub-slices share a backing array without being cycles.
		key.len = rv.Len()
	}
	if _, ok := c.visiting[key]; ok {
		return models.Value{}, errors.ErrCyclicValue
	}
	c.visiting[key] = struct{}{}
	defer delete(c.visiting, key)
	return fn()
}

func (c *converter) convertList(rv reflect.Value) (models.Value, error) {
	items := make([]models.Value, rv.Len())
	for i := range items {
		item, err := c.convert(rv.Index(i))
		if err != nil {
			return models.Value{}, err
		}
		items[i] = item
	}
	return models.NewList(items...), nil
}

func (c *converter) convertMap(rv reflect.Value) (models.Value, error) {
	type entry struct {
		name string
		key  reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		name, err := keyName(k)
		if err != nil {
			return models.Value{}, err
		}
		entries = append(entries, entry{name: name, key: k})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	b := models.NewDictBuilder(len(entries))
	for _, e := range entries {
		v, err := c.convert(rv.MapIndex(e.key))
		if err != nil {
			return models.Value{}, err
		}
		b.Set(e.name, v)
	}
	return b.Build(), nil
}

// objectKey reports whether maps keyed by t encode as objects.
func objectKey(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return t.Implements(textMarshalerType)
}

// keyName returns the property name of a map key, resolved in the same order
// as encoding/json: string kinds, then MarshalText, then integers.
func keyName(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if k.Type().Implements(textMarshalerType) && k.CanInterface() {
		if k.Kind() == reflect.Pointer && k.IsNil() {
			return "", nil
		}
		text, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", errors.NewInferenceError(fmt.Sprintf("failed to encode map key of type %s", k.Type()), err)
		}
		return string(text), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", errors.NewInferenceError(fmt.Sprintf("unsupported map key type %s", k.Type()), nil)
}

func (c *converter) convertStruct(rv reflect.Value) (models.Value, error) {
	t := rv.Type()
	b := models.NewDictBuilder(t.NumField())
	if err := c.appendFields(b, rv); err != nil {
		return models.Value{}, err
	}
	return b.Build(), nil
}

// appendFields adds the exported fields of the struct rv to b, flattening
// untagged embedded structs the way encoding/json does.
func (c *converter) appendFields(b *models.DictBuilder, rv reflect.Value) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, omitEmpty, skip := parseTag(sf)
		if skip {
			continue
		}
		fv := rv.Field(i)

		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				if fv.IsNil() {
					continue
				}
				fv = fv.Elem()
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && ft != timeType && ft != valueType {
				if err := c.appendFields(b, fv); err != nil {
					return err
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		v, err := c.convert(fv)
		if err != nil {
			return err
		}
		b.Set(name, v)
	}
	return nil
}

// parseTag reads the json tag of a struct field.
func parseTag(sf reflect.StructField) (name string, omitEmpty, skip bool) {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return "", false, false
	}
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" || opt == "omitzero" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// typeName names the kind of an unsupported value, e.g. "function" or "chan".
func typeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Func:
		return "function"
	case reflect.Chan:
		return "chan"
	case reflect.Complex64, reflect.Complex128:
		return "complex"
	case reflect.UnsafePointer:
		return "unsafe.Pointer"
	}
	return t.String()
}
