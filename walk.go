package schematools

import "errors"

// Node is a value together with its location in the document.
type Node struct {
	Path  Path
	Value Value
}

// ErrSkipChildren may be returned by a WalkFunc to prune the subtree below the
// current node without stopping the walk.
var ErrSkipChildren = errors.New("skip children")

// WalkFunc is called for every node visited by Walk.
type WalkFunc func(path Path, v Value) error

// Walk visits v and every value below it depth-first in preorder: a node is
// visited before its children, array elements in index order, object fields
// in insertion order. A non-nil error other than ErrSkipChildren stops the
// walk and is returned.
func Walk(v Value, visit WalkFunc) error {
	return walk(v, nil, visit)
}

func walk(v Value, path Path, visit WalkFunc) error {
	if err := visit(path, v); err != nil {
		if errors.Is(err, ErrSkipChildren) {
			return nil
		}
		return err
	}
	switch x := v.(type) {
	case Array:
		for i, child := range x {
			if err := walk(child, path.Push(IndexSegment(i)), visit); err != nil {
				return err
			}
		}
	case *Object:
		for k, child := range x.All() {
			if err := walk(child, path.Push(KeySegment(k)), visit); err != nil {
				return err
			}
		}
	}
	return nil
}

// Nodes collects every node of v with its path, in Walk order.
func Nodes(v Value) []Node {
	var out []Node
	_ = Walk(v, func(path Path, v Value) error {
		out = append(out, Node{Path: path, Value: v})
		return nil
	})
	return out
}

// RewriteFunc maps a reference to its replacement. A nil Reference leaves the
// field as it is.
type RewriteFunc func(ref Reference) (Reference, error)

// RewriteReferences finds every $ref string in v, parses it and replaces it
// with the serialized result of transform. Objects with free keys (properties
// and $defs maps) are not inspected for $ref, since a key there names a
// property or definition.
//
// v is mutated in place and may be left partially rewritten when an error is
// returned; callers wanting all-or-nothing semantics should pass a Clone.
func RewriteReferences(v Value, transform RewriteFunc) error {
	return rewrite(v, nil, transform)
}

func rewrite(v Value, path Path, transform RewriteFunc) error {
	switch x := v.(type) {
	case Array:
		for i, child := range x {
			if err := rewrite(child, path.Push(IndexSegment(i)), transform); err != nil {
				return err
			}
		}
	case *Object:
		if !path.HasFreeKeys() {
			if err := rewriteField(x, path, transform); err != nil {
				return err
			}
		}
		for k, child := range x.All() {
			if err := rewrite(child, path.Push(KeySegment(k)), transform); err != nil {
				return err
			}
		}
	}
	return nil
}

func rewriteField(obj *Object, path Path, transform RewriteFunc) error {
	raw, ok := obj.Get(RefKey)
	if !ok {
		return nil
	}
	s, ok := raw.(String)
	if !ok {
		return nil
	}
	ref, err := ParseReference(string(s))
	if err != nil {
		var refErr *ReferenceError
		if errors.As(err, &refErr) {
			refErr.Path = path.Push(KeySegment(RefKey)).String()
		}
		return err
	}
	next, err := transform(ref)
	if err != nil {
		return err
	}
	if next != nil {
		obj.Set(RefKey, String(next.String()))
	}
	return nil
}
