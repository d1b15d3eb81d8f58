package schematools

import (
	"strconv"
	"strings"
)

// PathSegment is one step from a node to a child: an object key or an array
// index.
type PathSegment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySegment returns the step into the object field key.
func KeySegment(key string) PathSegment {
	return PathSegment{Key: key}
}

// IndexSegment returns the step into array element i.
func IndexSegment(i int) PathSegment {
	return PathSegment{Index: i, IsIndex: true}
}

// Path locates a node relative to the document root. The zero value is the
// root.
type Path []PathSegment

// Push returns a new path extended by seg. The receiver is not modified, so
// sibling paths never share a backing array.
func (p Path) Push(seg PathSegment) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// Len returns the number of steps.
func (p Path) Len() int {
	return len(p)
}

// Last returns the final step, if any.
func (p Path) Last() (PathSegment, bool) {
	if len(p) == 0 {
		return PathSegment{}, false
	}
	return p[len(p)-1], true
}

// freeKeyed lists the keywords whose object value maps caller-chosen names to
// schemas.
var freeKeyed = map[string]struct{}{
	PropertiesKey:       {},
	DefsKey:             {},
	"patternProperties": {},
	"dependentSchemas":  {},
}

// HasFreeKeys reports whether the object at p has caller-chosen keys (a
// properties map or a $defs map, for instance) rather than schema keywords.
// Only a keyword of a fixed-keyed object opens a free-keyed map, so the schema
// of a property that happens to be named "properties" is still fixed-keyed.
func (p Path) HasFreeKeys() bool {
	free := false
	for _, seg := range p {
		if seg.IsIndex || free {
			free = false
			continue
		}
		_, free = freeKeyed[seg.Key]
	}
	return free
}

// String renders the path as ".key[0].other"; the root renders as "".
func (p Path) String() string {
	var b strings.Builder
	for _, seg := range p {
		if seg.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
			continue
		}
		b.WriteByte('.')
		b.WriteString(seg.Key)
	}
	return b.String()
}
