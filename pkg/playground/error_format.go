package playground

import (
	"errors"
	"fmt"
	"strings"

	schematools "github.com/speakeasy-api/jsonschema-tools"
)

// ComposeError carries a composition failure; its message is the
// user-facing text of FormatComposeError.
type ComposeError struct {
	Err error
}

func (e *ComposeError) Error() string { return FormatComposeError(e.Err) }
func (e *ComposeError) Unwrap() error { return e.Err }

// FormatComposeError turns a composition error into a user-facing message.
func FormatComposeError(err error) string {
	if err == nil {
		return ""
	}
	msg, loc, hint := classifyAndHint(err)

	var b strings.Builder
	b.WriteString("Composition failed.\n")
	fmt.Fprintf(&b, "- %s\n", msg)
	if loc != "" {
		fmt.Fprintf(&b, "  Location: %s\n", loc)
	}
	if hint != "" {
		fmt.Fprintf(&b, "  How to fix: %s\n", hint)
	}
	fmt.Fprintf(&b, "  Details: %s\n", err)
	return b.String()
}

func classifyAndHint(err error) (msg, loc, hint string) {
	var (
		refErr  *schematools.ReferenceError
		idErr   *schematools.InvalidIDError
		dupErr  *schematools.DuplicateDefinitionError
		missing *schematools.MissingIDError
		noDefs  *schematools.MissingDefsError
	)
	switch {
	case errors.As(err, &refErr):
		msg = fmt.Sprintf("Unsupported reference %q (%s).", refErr.Value, refErr.Reason)
		loc = refErr.Path
		hint = `Use "/path/name", "#/$defs/name" or "/path/name#/$defs/name". URLs, relative paths and queries are not supported.`
	case errors.As(err, &idErr):
		msg = fmt.Sprintf("No referenced schema provides %q.", idErr.ID)
		hint = `Add the schema whose "$id" matches the reference, and make sure every "$id" is a bare path such as "/schemas/name".`
	case errors.As(err, &dupErr):
		msg = fmt.Sprintf("Two schemas define %q differently.", dupErr.Key)
		hint = "Give one of the schemas a prefix, or disable strict mode to let the later definition win."
	case errors.As(err, &missing):
		msg = `A referenced schema has no "$id".`
		hint = `Add a string "$id" such as "/schemas/name" to every referenced schema.`
	case errors.As(err, &noDefs):
		msg = `The base schema has no "$defs" object.`
		hint = `Add "$defs": {} to the base schema.`
	default:
		msg = "Composition error."
	}
	return msg, loc, hint
}
