package schematools

import (
	"regexp"
	"strings"
)

// Reserved keys recognised by the walker and the composer.
const (
	IDKey         = "$id"
	DefsKey       = "$defs"
	RefKey        = "$ref"
	PropertiesKey = "properties"
)

// segment matches one identifier-like path or fragment component.
const segment = `[\p{L}\p{M}\p{Nd}\p{Pc}]+`

var referencePattern = regexp.MustCompile(
	`^(?:((?:/` + segment + `)*)/(` + segment + `))?(?:#/\$defs/(` + segment + `))?$`,
)

// Reference is a parsed $ref value. Its implementations are PathOnly,
// FragmentOnly and Both.
type Reference interface {
	// String serializes the reference; it is the inverse of ParseReference.
	String() string
	isReference()
}

// PathOnly identifies a whole document, e.g. "/schemas/bar".
type PathOnly struct {
	PathPrefix []string
	PathName   string
}

// FragmentOnly points into the current document's $defs, e.g. "#/$defs/x".
type FragmentOnly struct {
	FragmentName string
}

// Both points into another document's $defs, e.g. "/schemas/bar#/$defs/x".
type Both struct {
	PathPrefix   []string
	PathName     string
	FragmentName string
}

func (PathOnly) isReference()     {}
func (FragmentOnly) isReference() {}
func (Both) isReference()         {}

func (r PathOnly) String() string {
	return joinPath(r.PathPrefix, r.PathName)
}

func (r FragmentOnly) String() string {
	return "#/" + DefsKey + "/" + r.FragmentName
}

func (r Both) String() string {
	return joinPath(r.PathPrefix, r.PathName) + "#/" + DefsKey + "/" + r.FragmentName
}

func joinPath(prefix []string, name string) string {
	var b strings.Builder
	for _, part := range prefix {
		b.WriteByte('/')
		b.WriteString(part)
	}
	b.WriteByte('/')
	b.WriteString(name)
	return b.String()
}

// ParseReference parses s according to the local path+fragment grammar:
//
//	[/seg]*/name          PathOnly
//	#/$defs/name          FragmentOnly
//	[/seg]*/name#/$defs/x Both
//
// Anything else fails with a *ReferenceError.
func ParseReference(s string) (Reference, error) {
	if !strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "#") {
		return nil, &ReferenceError{Reason: UnsupportedScheme, Value: s}
	}
	if strings.Contains(s, "?") {
		return nil, &ReferenceError{Reason: UnsupportedQuery, Value: s}
	}

	m := referencePattern.FindStringSubmatchIndex(s)
	if m == nil {
		return nil, &ReferenceError{Reason: InvalidStructure, Value: s}
	}
	group := func(i int) (string, bool) {
		start, end := m[2*i], m[2*i+1]
		if start < 0 {
			return "", false
		}
		return s[start:end], true
	}
	prefixText, _ := group(1)
	pathName, hasPath := group(2)
	fragmentName, hasFragment := group(3)

	switch {
	case hasPath && hasFragment:
		return Both{PathPrefix: splitPrefix(prefixText), PathName: pathName, FragmentName: fragmentName}, nil
	case hasPath:
		return PathOnly{PathPrefix: splitPrefix(prefixText), PathName: pathName}, nil
	case hasFragment:
		return FragmentOnly{FragmentName: fragmentName}, nil
	default:
		return nil, &ReferenceError{Reason: InvalidStructure, Value: s}
	}
}

func splitPrefix(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "/")[1:]
}

// ReferencePath returns the path-only identifier of r, i.e. the $id of the
// document r points into. Fragment-only references have none.
func ReferencePath(r Reference) (string, bool) {
	switch x := r.(type) {
	case PathOnly:
		return x.String(), true
	case Both:
		return PathOnly{PathPrefix: x.PathPrefix, PathName: x.PathName}.String(), true
	case FragmentOnly:
		return "", false
	default:
		panic("schematools: unknown reference type")
	}
}

// ReferenceName returns the name r qualifies: the document name for PathOnly
// and the definition name otherwise.
func ReferenceName(r Reference) string {
	switch x := r.(type) {
	case PathOnly:
		return x.PathName
	case Both:
		return x.FragmentName
	case FragmentOnly:
		return x.FragmentName
	default:
		panic("schematools: unknown reference type")
	}
}
