package schematools

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is; every typed error below matches exactly one.
var (
	ErrMissingID           = errors.New("missing schema ID")
	ErrInvalidID           = errors.New("invalid sub-schema ID")
	ErrInvalidReference    = errors.New("invalid reference")
	ErrMissingDefs         = errors.New("missing " + DefsKey + " in base schema")
	ErrDuplicateDefinition = errors.New("duplicate definition")
)

// ReferenceErrorReason says why a reference string was rejected.
type ReferenceErrorReason int

const (
	// UnsupportedScheme: the reference does not start with '/' or '#'.
	UnsupportedScheme ReferenceErrorReason = iota
	// UnsupportedQuery: the reference contains a '?' query component.
	UnsupportedQuery
	// InvalidStructure: the reference does not fit the path+fragment grammar.
	InvalidStructure
)

func (r ReferenceErrorReason) String() string {
	switch r {
	case UnsupportedScheme:
		return "unsupported scheme"
	case UnsupportedQuery:
		return "unsupported query"
	case InvalidStructure:
		return "invalid structure"
	default:
		return "unknown"
	}
}

// ReferenceError indicates a $ref value outside the supported grammar.
type ReferenceError struct {
	Reason ReferenceErrorReason
	Value  string
	// Path is the location of the $ref field, when known.
	Path string
}

func (e *ReferenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid reference %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid reference %q at %s: %s", e.Value, e.Path, e.Reason)
}

func (e *ReferenceError) Is(target error) bool { return target == ErrInvalidReference }

// MissingIDError indicates a sub-schema without a string $id.
type MissingIDError struct {
	Document Value
}

func (e *MissingIDError) Error() string {
	return "missing schema ID: sub-schema has no string " + IDKey
}

func (e *MissingIDError) Is(target error) bool { return target == ErrMissingID }

// InvalidIDError indicates a sub-schema $id that is not a bare path, or a
// reference to a document no sub-schema supplies.
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid sub-schema ID %q", e.ID)
}

func (e *InvalidIDError) Is(target error) bool { return target == ErrInvalidID }

// MissingDefsError indicates a base schema without a $defs object.
type MissingDefsError struct {
	Document Value
}

func (e *MissingDefsError) Error() string {
	return ErrMissingDefs.Error()
}

func (e *MissingDefsError) Is(target error) bool { return target == ErrMissingDefs }

// DuplicateDefinitionError indicates two different definitions merged under
// the same $defs key.
type DuplicateDefinitionError struct {
	Key string
	// ID is the $id of the sub-schema whose insertion collided.
	ID string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("duplicate definition %q from %s", e.Key, e.ID)
}

func (e *DuplicateDefinitionError) Is(target error) bool { return target == ErrDuplicateDefinition }
