// Package report renders lint results and errors for a terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/speakeasy-api/jsonschema-tools/lint"
)

// Printer writes reports to an output stream.
type Printer struct {
	w     io.Writer
	color bool
}

// New returns a Printer writing to w, colored when color is set.
func New(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

// Issues writes one line per issue, with the location and rule columns
// padded to a common display width.
func (p *Printer) Issues(issues []lint.Issue) error {
	var locWidth, ruleWidth int
	for _, i := range issues {
		locWidth = max(locWidth, runewidth.StringWidth(location(i)))
		ruleWidth = max(ruleWidth, runewidth.StringWidth(i.Rule()))
	}

	var b strings.Builder
	for _, i := range issues {
		b.WriteString(paint(p.color, locationColor, runewidth.FillRight(location(i), locWidth)))
		b.WriteString("  ")
		b.WriteString(paint(p.color, ruleColor, runewidth.FillRight(i.Rule(), ruleWidth)))
		b.WriteString("  ")
		b.WriteString(i.Message())
		b.WriteByte('\n')
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Summary writes the issue count, or nothing when there are no issues.
func (p *Printer) Summary(n int) error {
	if n == 0 {
		return nil
	}
	noun := "issues"
	if n == 1 {
		noun = "issue"
	}
	_, err := fmt.Fprintln(p.w, paint(p.color, summaryColor, fmt.Sprintf("%d %s", n, noun)))
	return err
}

// Error writes err prefixed with the program name.
func (p *Printer) Error(prog string, err error) {
	fmt.Fprintf(p.w, "%s: %s %s\n", prog, paint(p.color, errorColor, "error:"), err)
}

func location(i lint.Issue) string {
	if loc := i.Location(); loc != "" {
		return loc
	}
	return "."
}
