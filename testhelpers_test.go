package schematools

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustDecode(t *testing.T, s string) Value {
	t.Helper()
	v, err := DecodeJSON([]byte(s))
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func mustEncode(t *testing.T, v Value) string {
	t.Helper()
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, v, ""); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.String()
}

// assertJSON compares got with the JSON text want, including key order.
func assertJSON(t *testing.T, got Value, want string) {
	t.Helper()
	if diff := cmp.Diff(mustEncode(t, mustDecode(t, want)), mustEncode(t, got)); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}
