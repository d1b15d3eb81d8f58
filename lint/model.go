package lint

import (
	"fmt"
	"strconv"

	schematools "github.com/speakeasy-api/jsonschema-tools"
	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Kind is the shape of a Schema.
type Kind int

const (
	// KindEmpty accepts anything: the schema has metadata only.
	KindEmpty Kind = iota
	KindBoolean
	KindString
	KindInteger
	KindNumber
	KindArray
	KindObject
	KindRef
	KindEnum
	KindConst
	KindOneOf
)

var typeNames = map[string]Kind{
	"boolean": KindBoolean,
	"string":  KindString,
	"integer": KindInteger,
	"number":  KindNumber,
	"array":   KindArray,
	"object":  KindObject,
}

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindRef:
		return "$ref"
	case KindEnum:
		return "enum"
	case KindConst:
		return "const"
	case KindOneOf:
		return "oneOf"
	}
	for name, kind := range typeNames {
		if kind == k {
			return name
		}
	}
	return "unknown"
}

// Metadata holds the annotation keywords any schema may carry.
type Metadata struct {
	ID          string
	Title       string
	Description string
	Comment     string
	Examples    schematools.Array
}

// Schema is one schema of the supported dialect. Only the fields of its Kind
// are set.
type Schema struct {
	Metadata Metadata
	Kind     Kind

	Pattern string // string

	// Minimum and Maximum hold the literal text for integer and number
	// schemas, empty when absent.
	Minimum schematools.Number
	Maximum schematools.Number

	Items  *Schema     // array
	Object *ObjectType // object

	Ref   schematools.Reference
	Enum  []string
	Const schematools.Value
	OneOf []*Schema
}

// ObjectType is the body of a "type": "object" schema.
type ObjectType struct {
	// AdditionalProperties is true unless the schema says false.
	AdditionalProperties bool
	Properties           *sequencedmap.Map[string, *Schema]
	Required             []string
}

// File is a schema document: an optional root schema plus its definitions.
type File struct {
	Metadata    Metadata
	Schema      *Schema
	Definitions *sequencedmap.Map[string, *Schema]
}

// ObjectAt is an object schema found in a File, with its logical path: the
// definition name, then property names, "array" for array items and
// "oneOf[i]" for alternatives.
type ObjectAt struct {
	Path   []string
	Object *ObjectType
}

// ModelError is returned by DecodeFile for a document outside the supported
// dialect.
type ModelError struct {
	Path   schematools.Path
	Reason string
}

func (e *ModelError) Error() string {
	if len(e.Path) == 0 {
		return "schema model: " + e.Reason
	}
	return fmt.Sprintf("schema model at %s: %s", e.Path, e.Reason)
}

var metadataKeys = map[string]bool{
	schematools.IDKey: true,
	titleKey:          true,
	descriptionKey:    true,
	commentKey:        true,
	examplesKey:       true,
}

// keywords allowed next to "type" for each named kind.
var kindKeywords = map[Kind]map[string]bool{
	KindBoolean: {},
	KindString:  {"pattern": true},
	KindInteger: {"minimum": true, "maximum": true},
	KindNumber:  {"minimum": true, "maximum": true},
	KindArray:   {"items": true},
	KindObject:  {additionalPropertiesKey: true, schematools.PropertiesKey: true, requiredKey: true},
}

var variantKeys = []string{schematools.RefKey, "enum", "const", "oneOf"}

// DecodeFile reads doc into the schema model. Keywords outside the dialect
// are errors, except "$schema" at the root.
func DecodeFile(doc schematools.Value) (*File, error) {
	obj, ok := schematools.AsObject(doc)
	if !ok {
		return nil, &ModelError{Reason: "document is not an object"}
	}
	f := &File{}

	body := schematools.NewObject()
	for k, v := range obj.All() {
		switch k {
		case "$schema":
			if _, ok := v.(schematools.String); !ok {
				return nil, &ModelError{Path: schematools.Path{}.Push(schematools.KeySegment(k)), Reason: "expected a string"}
			}
		case schematools.DefsKey:
			defs, err := decodeDefinitions(v, schematools.Path{}.Push(schematools.KeySegment(k)))
			if err != nil {
				return nil, err
			}
			f.Definitions = defs
		default:
			body.Set(k, v)
		}
	}

	s, err := decodeSchema(body, nil)
	if err != nil {
		return nil, err
	}
	f.Metadata = s.Metadata
	if s.Kind != KindEmpty {
		f.Schema = s
	}
	return f, nil
}

func decodeDefinitions(v schematools.Value, path schematools.Path) (*sequencedmap.Map[string, *Schema], error) {
	obj, ok := schematools.AsObject(v)
	if !ok {
		return nil, &ModelError{Path: path, Reason: "expected an object"}
	}
	defs := sequencedmap.New[string, *Schema]()
	for k, child := range obj.All() {
		s, err := decodeSchema(child, path.Push(schematools.KeySegment(k)))
		if err != nil {
			return nil, err
		}
		defs.Set(k, s)
	}
	return defs, nil
}

func decodeSchema(v schematools.Value, path schematools.Path) (*Schema, error) {
	obj, ok := schematools.AsObject(v)
	if !ok {
		return nil, &ModelError{Path: path, Reason: "schema is not an object"}
	}
	s := &Schema{}
	if err := decodeMetadata(obj, path, &s.Metadata); err != nil {
		return nil, err
	}

	if t, ok := obj.Get(typeKey); ok {
		return s, decodeNamed(obj, t, path, s)
	}

	var variant string
	for _, k := range variantKeys {
		if obj.Has(k) {
			if variant != "" {
				return nil, &ModelError{Path: path, Reason: fmt.Sprintf("both %s and %s", variant, k)}
			}
			variant = k
		}
	}
	allowed := map[string]bool{}
	if variant != "" {
		allowed[variant] = true
	}
	if err := checkKeys(obj, path, allowed); err != nil {
		return nil, err
	}
	if variant == "" {
		s.Kind = KindEmpty
		return s, nil
	}

	val, _ := obj.Get(variant)
	at := path.Push(schematools.KeySegment(variant))
	switch variant {
	case schematools.RefKey:
		str, ok := val.(schematools.String)
		if !ok {
			return nil, &ModelError{Path: at, Reason: "expected a string"}
		}
		ref, err := schematools.ParseReference(string(str))
		if err != nil {
			return nil, &ModelError{Path: at, Reason: err.Error()}
		}
		s.Kind, s.Ref = KindRef, ref
	case "enum":
		values, err := stringArray(val, at)
		if err != nil {
			return nil, err
		}
		s.Kind, s.Enum = KindEnum, values
	case "const":
		s.Kind, s.Const = KindConst, val
	case "oneOf":
		arr, ok := val.(schematools.Array)
		if !ok {
			return nil, &ModelError{Path: at, Reason: "expected an array"}
		}
		s.Kind = KindOneOf
		for i, child := range arr {
			alt, err := decodeSchema(child, at.Push(schematools.IndexSegment(i)))
			if err != nil {
				return nil, err
			}
			s.OneOf = append(s.OneOf, alt)
		}
	}
	return s, nil
}

func decodeNamed(obj *schematools.Object, t schematools.Value, path schematools.Path, s *Schema) error {
	name, ok := t.(schematools.String)
	if !ok {
		return &ModelError{Path: path.Push(schematools.KeySegment(typeKey)), Reason: "expected a string"}
	}
	kind, ok := typeNames[string(name)]
	if !ok {
		return &ModelError{Path: path.Push(schematools.KeySegment(typeKey)), Reason: fmt.Sprintf("unsupported type %q", name)}
	}
	allowed := map[string]bool{typeKey: true}
	for k := range kindKeywords[kind] {
		allowed[k] = true
	}
	if err := checkKeys(obj, path, allowed); err != nil {
		return err
	}
	s.Kind = kind

	field := func(k string) (schematools.Value, schematools.Path, bool) {
		v, ok := obj.Get(k)
		return v, path.Push(schematools.KeySegment(k)), ok
	}

	switch kind {
	case KindString:
		if v, at, ok := field("pattern"); ok {
			str, ok := v.(schematools.String)
			if !ok {
				return &ModelError{Path: at, Reason: "expected a string"}
			}
			s.Pattern = string(str)
		}
	case KindInteger, KindNumber:
		for _, k := range []string{"minimum", "maximum"} {
			v, at, ok := field(k)
			if !ok {
				continue
			}
			n, ok := v.(schematools.Number)
			if !ok {
				return &ModelError{Path: at, Reason: "expected a number"}
			}
			if kind == KindInteger {
				if _, err := strconv.ParseInt(string(n), 10, 64); err != nil {
					return &ModelError{Path: at, Reason: "expected an integer"}
				}
			}
			if k == "minimum" {
				s.Minimum = n
			} else {
				s.Maximum = n
			}
		}
	case KindArray:
		v, at, ok := field("items")
		if !ok {
			return &ModelError{Path: path, Reason: "array without items"}
		}
		items, err := decodeSchema(v, at)
		if err != nil {
			return err
		}
		s.Items = items
	case KindObject:
		o, err := decodeObject(obj, path)
		if err != nil {
			return err
		}
		s.Object = o
	}
	return nil
}

func decodeObject(obj *schematools.Object, path schematools.Path) (*ObjectType, error) {
	o := &ObjectType{
		AdditionalProperties: true,
		Properties:           sequencedmap.New[string, *Schema](),
	}
	if v, ok := obj.Get(additionalPropertiesKey); ok {
		b, ok := v.(schematools.Bool)
		if !ok {
			return nil, &ModelError{Path: path.Push(schematools.KeySegment(additionalPropertiesKey)), Reason: "expected a boolean"}
		}
		o.AdditionalProperties = bool(b)
	}
	if v, ok := obj.Get(schematools.PropertiesKey); ok {
		at := path.Push(schematools.KeySegment(schematools.PropertiesKey))
		props, ok := schematools.AsObject(v)
		if !ok {
			return nil, &ModelError{Path: at, Reason: "expected an object"}
		}
		for name, child := range props.All() {
			s, err := decodeSchema(child, at.Push(schematools.KeySegment(name)))
			if err != nil {
				return nil, err
			}
			o.Properties.Set(name, s)
		}
	}
	if v, ok := obj.Get(requiredKey); ok {
		required, err := stringArray(v, path.Push(schematools.KeySegment(requiredKey)))
		if err != nil {
			return nil, err
		}
		o.Required = required
	}
	return o, nil
}

func decodeMetadata(obj *schematools.Object, path schematools.Path, m *Metadata) error {
	for k, v := range obj.All() {
		if !metadataKeys[k] {
			continue
		}
		at := path.Push(schematools.KeySegment(k))
		if k == examplesKey {
			arr, ok := v.(schematools.Array)
			if !ok {
				return &ModelError{Path: at, Reason: "expected an array"}
			}
			m.Examples = arr
			continue
		}
		str, ok := v.(schematools.String)
		if !ok {
			return &ModelError{Path: at, Reason: "expected a string"}
		}
		switch k {
		case schematools.IDKey:
			m.ID = string(str)
		case titleKey:
			m.Title = string(str)
		case descriptionKey:
			m.Description = string(str)
		case commentKey:
			m.Comment = string(str)
		}
	}
	return nil
}

func checkKeys(obj *schematools.Object, path schematools.Path, allowed map[string]bool) error {
	for k := range obj.All() {
		if !metadataKeys[k] && !allowed[k] {
			return &ModelError{Path: path, Reason: fmt.Sprintf("unsupported keyword %q", k)}
		}
	}
	return nil
}

func stringArray(v schematools.Value, path schematools.Path) ([]string, error) {
	arr, ok := v.(schematools.Array)
	if !ok {
		return nil, &ModelError{Path: path, Reason: "expected an array of strings"}
	}
	out := make([]string, 0, len(arr))
	for i, item := range arr {
		str, ok := item.(schematools.String)
		if !ok {
			return nil, &ModelError{Path: path.Push(schematools.IndexSegment(i)), Reason: "expected a string"}
		}
		out = append(out, string(str))
	}
	return out, nil
}

// Objects returns every object schema reachable from the root schema and the
// definitions, root first, in document order.
func (f *File) Objects() []ObjectAt {
	var out []ObjectAt
	if f.Schema != nil {
		out = collectObjects(f.Schema, nil, out)
	}
	if f.Definitions != nil {
		for name, s := range f.Definitions.All() {
			out = collectObjects(s, []string{name}, out)
		}
	}
	return out
}

func collectObjects(s *Schema, path []string, acc []ObjectAt) []ObjectAt {
	switch s.Kind {
	case KindArray:
		acc = collectObjects(s.Items, extend(path, "array"), acc)
	case KindObject:
		acc = append(acc, ObjectAt{Path: path, Object: s.Object})
		for name, prop := range s.Object.Properties.All() {
			acc = collectObjects(prop, extend(path, name), acc)
		}
	case KindOneOf:
		for i, alt := range s.OneOf {
			acc = collectObjects(alt, extend(path, fmt.Sprintf("oneOf[%d]", i)), acc)
		}
	}
	return acc
}

func extend(path []string, step string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, step)
}
