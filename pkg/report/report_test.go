package report

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	schematools "github.com/speakeasy-api/jsonschema-tools"
	"github.com/speakeasy-api/jsonschema-tools/lint"
)

func TestPrinterIssuesAligned(t *testing.T) {
	issues := []lint.Issue{
		lint.KeyOrderIssue{First: "type", Second: "$id"},
		lint.OptionalFieldIssue{Path: []string{"名前"}, Field: "x"},
		lint.UnrestrictedPropertiesIssue{Path: []string{"tags", "array"}},
	}

	var buf bytes.Buffer
	if err := New(&buf, false).Issues(issues); err != nil {
		t.Fatalf("Issues: %v", err)
	}
	want := "" +
		".            key-order                \"type\" should come after \"$id\"\n" +
		".名前        optional-field           property \"x\" is not required\n" +
		".tags.array  unrestricted-properties  additionalProperties is not false\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrinterColor(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true)
	if err := p.Issues([]lint.Issue{lint.MisorderedRequiredIssue{Path: []string{"a"}}}); err != nil {
		t.Fatalf("Issues: %v", err)
	}
	want := "\x1b[36m.a\x1b[0m  \x1b[33mmisordered-required\x1b[0m  required does not follow the order of properties\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrinterSummaryAndError(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false)
	_ = p.Summary(0)
	_ = p.Summary(1)
	_ = p.Summary(3)
	p.Error("jsonschema-tools", &schematools.InvalidIDError{ID: "/a/b/c"})
	p.Error("jsonschema-tools", errors.New("plain"))

	want := "1 issue\n3 issues\n" +
		"jsonschema-tools: error: invalid sub-schema ID \"/a/b/c\"\n" +
		"jsonschema-tools: error: plain\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestColorMode(t *testing.T) {
	tests := []struct {
		in   string
		want ColorMode
	}{
		{"", ColorAuto},
		{"auto", ColorAuto},
		{"ALWAYS", ColorAlways},
		{"never", ColorNever},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseColorMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseColorMode("sometimes"); err == nil {
		t.Errorf("expected error for unknown mode")
	}

	t.Setenv("NO_COLOR", "")
	var buf bytes.Buffer
	if ColorAuto.Enabled(&buf) {
		t.Errorf("auto colored a buffer")
	}
	if !ColorAlways.Enabled(&buf) || ColorNever.Enabled(&buf) {
		t.Errorf("explicit modes ignored")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	if ColorAuto.Enabled(f) {
		t.Errorf("auto colored a regular file")
	}
}
