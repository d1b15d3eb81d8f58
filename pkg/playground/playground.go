// Package playground provides string-in, string-out entry points for
// composing and linting schemas, shared by the WASM build and its tests.
package playground

import (
	"bytes"
	"encoding/json"
	"fmt"

	schematools "github.com/speakeasy-api/jsonschema-tools"
	"github.com/speakeasy-api/jsonschema-tools/lint"
)

// ComposeRequest is the input of Compose. Schemas are JSON or YAML text.
type ComposeRequest struct {
	Schema     string            `json:"schema"`
	Referenced []ReferencedInput `json:"referenced"`
	Strict     bool              `json:"strict"`
}

// ReferencedInput is one referenced schema of a ComposeRequest.
type ReferencedInput struct {
	Prefix string `json:"prefix,omitempty"`
	Schema string `json:"schema"`
}

// LintResult is one lint issue as returned by Lint.
type LintResult struct {
	Rule     string `json:"rule"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

// ComposeJSON decodes a ComposeRequest from JSON and runs Compose.
func ComposeJSON(requestJSON string) (string, error) {
	var req ComposeRequest
	if err := json.Unmarshal([]byte(requestJSON), &req); err != nil {
		return "", fmt.Errorf("failed to parse compose request: %w", err)
	}
	return Compose(req)
}

// Compose merges the referenced schemas into the base schema and returns the
// result as indented JSON.
func Compose(req ComposeRequest) (string, error) {
	base, err := schematools.Decode([]byte(req.Schema))
	if err != nil {
		return "", fmt.Errorf("failed to parse base schema: %w", err)
	}
	subs := make([]schematools.SubSchema, 0, len(req.Referenced))
	for i, r := range req.Referenced {
		doc, err := schematools.Decode([]byte(r.Schema))
		if err != nil {
			return "", fmt.Errorf("failed to parse referenced schema %d: %w", i, err)
		}
		subs = append(subs, schematools.SubSchema{Prefix: r.Prefix, Document: doc})
	}

	opts := schematools.DefaultComposeOptions()
	opts.StrictDefinitions = req.Strict
	composed, err := schematools.Compose(base, subs, opts)
	if err != nil {
		return "", &ComposeError{Err: err}
	}

	var buf bytes.Buffer
	if err := schematools.EncodeJSON(&buf, composed, "  "); err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return buf.String(), nil
}

// Lint checks schemaText and returns its issues as a JSON array.
func Lint(schemaText string) (string, error) {
	doc, err := schematools.Decode([]byte(schemaText))
	if err != nil {
		return "", fmt.Errorf("failed to parse schema: %w", err)
	}
	results := []LintResult{}
	for _, i := range lint.Lint(doc) {
		results = append(results, LintResult{Rule: i.Rule(), Location: i.Location(), Message: i.Message()})
	}
	out, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to marshal lint results: %w", err)
	}
	return string(out), nil
}
