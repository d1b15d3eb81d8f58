package schematools

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeJSONPreservesOrderAndNumbers(t *testing.T) {
	in := `{"z":1.0,"a":-0,"m":1e10,"n":12345678901234567890,"s":"<a & b>","e":{},"l":[]}`
	v := mustDecode(t, in)

	obj, ok := AsObject(v)
	if !ok {
		t.Fatalf("expected object, got %T", v)
	}
	if diff := cmp.Diff([]string{"z", "a", "m", "n", "s", "e", "l"}, obj.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	if got := strings.TrimSpace(mustEncode(t, v)); got != in {
		t.Fatalf("re-encoded document differs:\n got %s\nwant %s", got, in)
	}
}

func TestDecodeJSONRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"duplicate key", `{"a": 1, "a": 2}`},
		{"trailing data", `{"a": 1} {"b": 2}`},
		{"truncated", `{"a": [1, 2`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeJSON([]byte(tt.input)); err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
		})
	}
}

func TestEncodeJSONIndent(t *testing.T) {
	v := mustDecode(t, `{"b":1,"a":[true,null,"x"],"c":{}}`)

	var buf bytes.Buffer
	if err := EncodeJSON(&buf, v, "  "); err != nil {
		t.Fatalf("EncodeJSON: %v", err)
	}
	want := `{
  "b": 1,
  "a": [
    true,
    null,
    "x"
  ],
  "c": {}
}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeYAML(t *testing.T) {
	in := `
$id: /schemas/bar
type: object
count: 0x1f
ratio: 1.50
flag: yes-not-a-bool
enabled: true
nothing: null
anchor: &a
  k: v
alias: *a
list:
  - "123"
  - 4
`
	v, err := DecodeYAML([]byte(in))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	assertJSON(t, v, `{
		"$id": "/schemas/bar",
		"type": "object",
		"count": 31,
		"ratio": 1.50,
		"flag": "yes-not-a-bool",
		"enabled": true,
		"nothing": null,
		"anchor": {"k": "v"},
		"alias": {"k": "v"},
		"list": ["123", 4]
	}`)
}

func TestDecodeYAMLRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"duplicate key", "a: 1\na: 2\n"},
		{"non-scalar key", "? [a, b]\n: 1\n"},
		{"infinity", "a: .inf\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeYAML([]byte(tt.input)); err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
		})
	}
}

func TestEncodeYAMLRoundTrip(t *testing.T) {
	v := mustDecode(t, `{"b":1,"a":"x","n":"123","t":"true","f":1.5,"l":[true,null,{"k":[]}],"o":{}}`)

	var buf bytes.Buffer
	if err := EncodeYAML(&buf, v, 2); err != nil {
		t.Fatalf("EncodeYAML: %v", err)
	}
	back, err := DecodeYAML(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeYAML: %v\n%s", err, buf.String())
	}
	if !Equal(v, back) {
		t.Fatalf("YAML round trip changed the document:\n%s", buf.String())
	}
	if !strings.HasPrefix(buf.String(), "b: 1\na: x\n") {
		t.Fatalf("unexpected YAML layout:\n%s", buf.String())
	}
}

func TestDecodeSniffsFormat(t *testing.T) {
	fromJSON, err := Decode([]byte("  \n{\"a\": [1]}"))
	if err != nil {
		t.Fatalf("Decode JSON: %v", err)
	}
	fromYAML, err := Decode([]byte("a:\n  - 1\n"))
	if err != nil {
		t.Fatalf("Decode YAML: %v", err)
	}
	if !Equal(fromJSON, fromYAML) {
		t.Fatalf("JSON and YAML decodes differ: %s vs %s", mustEncode(t, fromJSON), mustEncode(t, fromYAML))
	}
}
