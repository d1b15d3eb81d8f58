// Package lint checks JSON Schema documents against authoring conventions:
// keyword order, closed objects, required properties and the order of the
// required list.
package lint

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	schematools "github.com/speakeasy-api/jsonschema-tools"
)

// Issue is a single convention violation.
type Issue interface {
	// Rule is a short stable name for the check that failed.
	Rule() string
	// Location is where the issue was found. The empty string is the root.
	Location() string
	Message() string
}

// KeyOrderIssue reports the first out-of-order key pair of an object.
type KeyOrderIssue struct {
	Path          schematools.Path
	First, Second string
}

func (KeyOrderIssue) Rule() string       { return "key-order" }
func (i KeyOrderIssue) Location() string { return i.Path.String() }
func (i KeyOrderIssue) Message() string {
	return fmt.Sprintf("%q should come after %q", i.First, i.Second)
}

// ModelIssue reports a document the object checks could not read.
type ModelIssue struct {
	Err *ModelError
}

func (ModelIssue) Rule() string       { return "model" }
func (i ModelIssue) Location() string { return i.Err.Path.String() }
func (i ModelIssue) Message() string  { return i.Err.Reason }

// UnrestrictedPropertiesIssue reports an object schema that allows
// additional properties.
type UnrestrictedPropertiesIssue struct {
	Path []string
}

func (UnrestrictedPropertiesIssue) Rule() string       { return "unrestricted-properties" }
func (i UnrestrictedPropertiesIssue) Location() string { return modelLocation(i.Path) }
func (UnrestrictedPropertiesIssue) Message() string {
	return additionalPropertiesKey + " is not false"
}

// OptionalFieldIssue reports a property missing from required.
type OptionalFieldIssue struct {
	Path  []string
	Field string
}

func (OptionalFieldIssue) Rule() string       { return "optional-field" }
func (i OptionalFieldIssue) Location() string { return modelLocation(i.Path) }
func (i OptionalFieldIssue) Message() string {
	return fmt.Sprintf("property %q is not required", i.Field)
}

// MisorderedRequiredIssue reports a required list that does not follow the
// order of properties.
type MisorderedRequiredIssue struct {
	Path []string
}

func (MisorderedRequiredIssue) Rule() string       { return "misordered-required" }
func (i MisorderedRequiredIssue) Location() string { return modelLocation(i.Path) }
func (MisorderedRequiredIssue) Message() string {
	return requiredKey + " does not follow the order of " + schematools.PropertiesKey
}

func modelLocation(path []string) string {
	if len(path) == 0 {
		return ""
	}
	return "." + strings.Join(path, ".")
}

// Lint runs every check on doc. Key order issues come first, in document
// order, followed by the object issues. When doc cannot be read as a schema
// file a single ModelIssue replaces the object issues.
func Lint(doc schematools.Value) []Issue {
	var issues []Issue
	for _, i := range CheckKeyOrder(doc) {
		issues = append(issues, i)
	}

	f, err := DecodeFile(doc)
	if err != nil {
		var me *ModelError
		if !errors.As(err, &me) {
			me = &ModelError{Reason: err.Error()}
		}
		return append(issues, ModelIssue{Err: me})
	}
	for _, o := range f.Objects() {
		issues = append(issues, checkObject(o)...)
	}
	return issues
}

func checkObject(o ObjectAt) []Issue {
	var issues []Issue
	obj := o.Object
	if obj.AdditionalProperties {
		issues = append(issues, UnrestrictedPropertiesIssue{Path: o.Path})
	}

	var inOrder []string
	for name := range obj.Properties.All() {
		if slices.Contains(obj.Required, name) {
			inOrder = append(inOrder, name)
		} else {
			issues = append(issues, OptionalFieldIssue{Path: o.Path, Field: name})
		}
	}
	if !slices.Equal(inOrder, obj.Required) {
		issues = append(issues, MisorderedRequiredIssue{Path: o.Path})
	}
	return issues
}
