package schematools

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNodesPreorder(t *testing.T) {
	doc := mustDecode(t, `{"b": [1, {"c": true}], "a": "x"}`)

	var got []string
	for _, n := range Nodes(doc) {
		got = append(got, n.Path.String())
	}
	want := []string{"", ".b", ".b[0]", ".b[1]", ".b[1].c", ".a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("visit order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkSkipChildrenAndStop(t *testing.T) {
	doc := mustDecode(t, `{"skip": {"inner": 1}, "keep": {"inner": 2}}`)

	var visited []string
	err := Walk(doc, func(path Path, v Value) error {
		visited = append(visited, path.String())
		if path.String() == ".skip" {
			return ErrSkipChildren
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	want := []string{"", ".skip", ".keep", ".keep.inner"}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Fatalf("visit mismatch (-want +got):\n%s", diff)
	}

	stop := errors.New("stop")
	if err := Walk(doc, func(Path, Value) error { return stop }); !errors.Is(err, stop) {
		t.Fatalf("expected stop error, got %v", err)
	}
}

func TestRewriteReferences(t *testing.T) {
	doc := mustDecode(t, `{
		"$ref": "/top",
		"properties": {
			"a": {"$ref": "#/$defs/a", "description": "kept"},
			"b": {"items": [{"$ref": "/schemas/b"}, {"type": "string"}]}
		}
	}`)

	var seen []string
	err := RewriteReferences(doc, func(ref Reference) (Reference, error) {
		seen = append(seen, ref.String())
		if f, ok := ref.(FragmentOnly); ok {
			return FragmentOnly{FragmentName: "renamed_" + f.FragmentName}, nil
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("RewriteReferences: %v", err)
	}
	if diff := cmp.Diff([]string{"/top", "#/$defs/a", "/schemas/b"}, seen); diff != "" {
		t.Fatalf("visited references mismatch (-want +got):\n%s", diff)
	}
	assertJSON(t, doc, `{
		"$ref": "/top",
		"properties": {
			"a": {"$ref": "#/$defs/renamed_a", "description": "kept"},
			"b": {"items": [{"$ref": "/schemas/b"}, {"type": "string"}]}
		}
	}`)
}

func TestRewriteReferencesIgnoresFreeKeysAndNonStrings(t *testing.T) {
	doc := mustDecode(t, `{
		"$defs": {"$ref": "not a reference"},
		"properties": {"$ref": {"type": "string"}},
		"items": {"$ref": 42}
	}`)

	calls := 0
	err := RewriteReferences(doc, func(Reference) (Reference, error) {
		calls++
		return nil, nil
	})
	if err != nil {
		t.Fatalf("RewriteReferences: %v", err)
	}
	if calls != 0 {
		t.Fatalf("transform called %d times, want 0", calls)
	}
}

func TestRewriteReferencesInvalid(t *testing.T) {
	doc := mustDecode(t, `{"properties": {"a": {"$ref": "https://example.com/a.json"}}}`)

	err := RewriteReferences(doc, func(Reference) (Reference, error) { return nil, nil })
	var refErr *ReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected *ReferenceError, got %v", err)
	}
	if refErr.Reason != UnsupportedScheme {
		t.Fatalf("reason = %v, want %v", refErr.Reason, UnsupportedScheme)
	}
	if refErr.Path != ".properties.a.$ref" {
		t.Fatalf("path = %q", refErr.Path)
	}
}

func TestRewriteReferencesTransformError(t *testing.T) {
	doc := mustDecode(t, `[{"$ref": "/a"}, {"$ref": "/b"}]`)
	boom := errors.New("boom")

	calls := 0
	err := RewriteReferences(doc, func(Reference) (Reference, error) {
		calls++
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("walk continued after error: %d calls", calls)
	}
}
