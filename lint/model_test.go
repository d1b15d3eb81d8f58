package lint

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	schematools "github.com/speakeasy-api/jsonschema-tools"
)

func TestDecodeFile(t *testing.T) {
	f, err := DecodeFile(mustDecode(t, `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$id": "/schemas/root",
		"title": "Root",
		"$defs": {
			"count": {"type": "integer", "minimum": 0, "maximum": 10},
			"ratio": {"type": "number", "minimum": 0.5},
			"color": {"enum": ["red", "green"]},
			"fixed": {"const": {"a": 1}},
			"link": {"$ref": "/schemas/other#/$defs/x"},
			"any": {"description": "anything"}
		}
	}`))
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if f.Schema != nil {
		t.Fatalf("expected no root schema, got kind %v", f.Schema.Kind)
	}
	if f.Metadata.ID != "/schemas/root" || f.Metadata.Title != "Root" {
		t.Fatalf("metadata = %+v", f.Metadata)
	}

	kinds := map[string]Kind{}
	var names []string
	for name, s := range f.Definitions.All() {
		names = append(names, name)
		kinds[name] = s.Kind
	}
	if diff := cmp.Diff([]string{"count", "ratio", "color", "fixed", "link", "any"}, names); diff != "" {
		t.Fatalf("definition order mismatch (-want +got):\n%s", diff)
	}
	wantKinds := map[string]Kind{
		"count": KindInteger, "ratio": KindNumber, "color": KindEnum,
		"fixed": KindConst, "link": KindRef, "any": KindEmpty,
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}

	ratio, _ := f.Definitions.Get("ratio")
	if ratio.Minimum != "0.5" || ratio.Maximum != "" {
		t.Fatalf("ratio bounds = %q, %q", ratio.Minimum, ratio.Maximum)
	}
	link, _ := f.Definitions.Get("link")
	if name := schematools.ReferenceName(link.Ref); name != "x" {
		t.Fatalf("link reference name = %q", name)
	}
	anyDef, _ := f.Definitions.Get("any")
	if anyDef.Metadata.Description != "anything" {
		t.Fatalf("description = %q", anyDef.Metadata.Description)
	}
}

func TestDecodeFileRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{"not an object", `[]`, ""},
		{"unsupported keyword", `{"type": "string", "format": "x"}`, ""},
		{"unsupported type", `{"$defs": {"a": {"type": "null"}}}`, ".$defs.a.type"},
		{"fractional integer bound", `{"type": "integer", "minimum": 1.5}`, ".minimum"},
		{"array without items", `{"type": "object", "properties": {"l": {"type": "array"}}}`, ".properties.l"},
		{"conflicting variants", `{"$ref": "/a", "enum": ["x"]}`, ""},
		{"non-string enum", `{"enum": ["a", 1]}`, ".enum[1]"},
		{"invalid reference", `{"$defs": {"a": {"$ref": "http://x"}}}`, ".$defs.a.$ref"},
		{"non-boolean additionalProperties", `{"type": "object", "additionalProperties": {}}`, ".additionalProperties"},
		{"non-string title", `{"title": 1}`, ".title"},
		{"defs not an object", `{"$defs": []}`, ".$defs"},
		{"oneOf branch", `{"oneOf": [{"type": "string"}, 3]}`, ".oneOf[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFile(mustDecode(t, tt.doc))
			var me *ModelError
			if !errors.As(err, &me) {
				t.Fatalf("expected *ModelError, got %v", err)
			}
			if got := me.Path.String(); got != tt.path {
				t.Fatalf("error path = %q, want %q (%v)", got, tt.path, err)
			}
		})
	}
}

func TestFileObjects(t *testing.T) {
	f, err := DecodeFile(mustDecode(t, `{
		"type": "object",
		"properties": {
			"list": {"type": "array", "items": {"type": "array", "items": {"type": "object"}}},
			"choice": {"oneOf": [{"type": "string"}, {"type": "object", "properties": {"n": {"type": "object"}}}]}
		},
		"$defs": {"d": {"type": "object"}, "e": {"type": "string"}}
	}`))
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}

	var paths [][]string
	for _, o := range f.Objects() {
		paths = append(paths, o.Path)
	}
	want := [][]string{
		nil,
		{"list", "array", "array"},
		{"choice", "oneOf[1]"},
		{"choice", "oneOf[1]", "n"},
		{"d"},
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("object paths mismatch (-want +got):\n%s", diff)
	}
}
