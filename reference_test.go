package schematools

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func referencePairs() []struct {
	input string
	ref   Reference
} {
	return []struct {
		input string
		ref   Reference
	}{
		{"/foo/bar/baz#/$defs/qux", Both{PathPrefix: []string{"foo", "bar"}, PathName: "baz", FragmentName: "qux"}},
		{"/foo/bar/baz", PathOnly{PathPrefix: []string{"foo", "bar"}, PathName: "baz"}},
		{"#/$defs/qux", FragmentOnly{FragmentName: "qux"}},
		{"/baz", PathOnly{PathName: "baz"}},
		{"/baz#/$defs/q_1", Both{PathName: "baz", FragmentName: "q_1"}},
		{"/schémas/straße", PathOnly{PathPrefix: []string{"schémas"}, PathName: "straße"}},
	}
}

func TestParseReference(t *testing.T) {
	for _, tt := range referencePairs() {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReference(tt.input)
			if err != nil {
				t.Fatalf("ParseReference(%q): %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.ref, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("reference mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReferenceString(t *testing.T) {
	for _, tt := range referencePairs() {
		if got := tt.ref.String(); got != tt.input {
			t.Errorf("String() = %q, want %q", got, tt.input)
		}
	}
}

func TestReferenceRoundTrip(t *testing.T) {
	inputs := []string{
		"/a",
		"/a/b/c/d/e",
		"#/$defs/x",
		"/a#/$defs/x",
		"/A_1/b2/C3#/$defs/D_4",
		"/x/y/z#/$defs/Zz",
	}
	for _, s := range inputs {
		ref, err := ParseReference(s)
		if err != nil {
			t.Fatalf("ParseReference(%q): %v", s, err)
		}
		if got := ref.String(); got != s {
			t.Errorf("round trip of %q produced %q", s, got)
		}
	}
}

func TestParseReferenceRejects(t *testing.T) {
	tests := []struct {
		input  string
		reason ReferenceErrorReason
	}{
		{"", UnsupportedScheme},
		{"http://example.com/schema", UnsupportedScheme},
		{"schemas/bar", UnsupportedScheme},
		{"urn:x", UnsupportedScheme},
		{"/schemas/bar?x=1", UnsupportedQuery},
		{"#/$defs/x?y", UnsupportedQuery},
		{"/", InvalidStructure},
		{"#", InvalidStructure},
		{"/a/", InvalidStructure},
		{"//a", InvalidStructure},
		{"/a-b", InvalidStructure},
		{"/a b", InvalidStructure},
		{"#/definitions/x", InvalidStructure},
		{"#/$defs/x/y", InvalidStructure},
		{"#/$defs/", InvalidStructure},
		{"/a#", InvalidStructure},
		{"/a#/$defs/", InvalidStructure},
		{"/a#/$defs/b#/$defs/c", InvalidStructure},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseReference(tt.input)
			var refErr *ReferenceError
			if !errors.As(err, &refErr) {
				t.Fatalf("expected *ReferenceError, got %v", err)
			}
			if refErr.Reason != tt.reason {
				t.Fatalf("reason = %v, want %v", refErr.Reason, tt.reason)
			}
			if refErr.Value != tt.input {
				t.Fatalf("value = %q, want %q", refErr.Value, tt.input)
			}
			if !errors.Is(err, ErrInvalidReference) {
				t.Fatalf("expected errors.Is(err, ErrInvalidReference)")
			}
		})
	}
}

func TestReferencePathAndName(t *testing.T) {
	tests := []struct {
		input    string
		path     string
		hasPath  bool
		wantName string
	}{
		{"/schemas/bar", "/schemas/bar", true, "bar"},
		{"/schemas/qux#/$defs/oof", "/schemas/qux", true, "oof"},
		{"#/$defs/oof", "", false, "oof"},
	}
	for _, tt := range tests {
		ref, err := ParseReference(tt.input)
		if err != nil {
			t.Fatalf("ParseReference(%q): %v", tt.input, err)
		}
		path, ok := ReferencePath(ref)
		if ok != tt.hasPath || path != tt.path {
			t.Errorf("ReferencePath(%q) = %q, %v; want %q, %v", tt.input, path, ok, tt.path, tt.hasPath)
		}
		if name := ReferenceName(ref); name != tt.wantName {
			t.Errorf("ReferenceName(%q) = %q, want %q", tt.input, name, tt.wantName)
		}
	}
}
