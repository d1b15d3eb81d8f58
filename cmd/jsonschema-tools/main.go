// Command jsonschema-tools composes and lints JSON Schema documents.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	schematools "github.com/speakeasy-api/jsonschema-tools"
	"github.com/speakeasy-api/jsonschema-tools/internal/config"
	"github.com/speakeasy-api/jsonschema-tools/lint"
	"github.com/speakeasy-api/jsonschema-tools/pkg/loader"
	"github.com/speakeasy-api/jsonschema-tools/pkg/logging"
	"github.com/speakeasy-api/jsonschema-tools/pkg/report"
)

const prog = "jsonschema-tools"

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

type env struct {
	cfg    config.Config
	stdout io.Writer
	stderr io.Writer
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		_ = writef(stderr, "%s: %v\n", prog, err)
		return 2
	}
	e := &env{cfg: cfg, stdout: stdout, stderr: stderr}

	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(stderr)
	e.cfg.RegisterFlags(fs)
	fs.Usage = func() {
		_ = writef(stderr, "Usage: %s [flags] <command> [command flags]\n\n", prog)
		_ = writeln(stderr, "Commands:")
		_ = writeln(stderr, "  compose   merge referenced schemas into the $defs of a base schema")
		_ = writeln(stderr, "  lint      report authoring convention violations")
		_ = writeln(stderr)
		_ = writeln(stderr, "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		_ = writeln(stderr, "error: a command is required")
		fs.Usage()
		return 2
	}
	switch rest[0] {
	case "compose":
		return e.compose(rest[1:])
	case "lint":
		return e.lint(rest[1:])
	default:
		_ = writef(stderr, "error: unknown command %q\n", rest[0])
		fs.Usage()
		return 2
	}
}

// subSchemaFlag collects -referenced and -prefixed values in command-line
// order.
type subSchemaFlag struct {
	specs    *[]subSchemaSpec
	prefixed bool
}

type subSchemaSpec struct {
	prefix string
	path   string
}

func (f subSchemaFlag) String() string {
	if f.specs == nil {
		return ""
	}
	var parts []string
	for _, s := range *f.specs {
		if f.prefixed && s.prefix != "" {
			parts = append(parts, s.prefix+"="+s.path)
		} else if !f.prefixed && s.prefix == "" {
			parts = append(parts, s.path)
		}
	}
	return strings.Join(parts, ",")
}

func (f subSchemaFlag) Set(value string) error {
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		spec := subSchemaSpec{path: item}
		if f.prefixed {
			prefix, path, ok := strings.Cut(item, "=")
			if !ok || prefix == "" || path == "" {
				return fmt.Errorf("expected prefix=path, got %q", item)
			}
			spec = subSchemaSpec{prefix: prefix, path: path}
		}
		*f.specs = append(*f.specs, spec)
	}
	return nil
}

func (e *env) compose(args []string) int {
	fs := flag.NewFlagSet(prog+" compose", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	e.cfg.RegisterFlags(fs)
	schemaPath := fs.String("schema", "", "path to the base schema")
	var specs []subSchemaSpec
	fs.Var(subSchemaFlag{specs: &specs}, "referenced", "referenced schema paths, comma separated or repeated")
	fs.Var(subSchemaFlag{specs: &specs, prefixed: true}, "prefixed", "referenced schema whose definitions get a prefix, as prefix=path")
	strict := fs.Bool("strict", false, "fail when two schemas define the same $defs key differently")
	format := fs.String("format", "json", "output format: json or yaml")
	indent := fs.Int("indent", 2, "indentation width, 0 for compact JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *schemaPath == "" {
		_ = writeln(e.stderr, "error: -schema is required")
		fs.Usage()
		return 2
	}
	if *format != "json" && *format != "yaml" {
		_ = writef(e.stderr, "error: unknown format %q\n", *format)
		return 2
	}

	log := e.cfg.Logger(e.stderr)
	ld, err := e.loader(log)
	if err != nil {
		return e.fail(err)
	}
	base, err := ld.Load(*schemaPath)
	if err != nil {
		return e.fail(err)
	}
	subs := make([]schematools.SubSchema, 0, len(specs))
	for _, s := range specs {
		doc, err := ld.Load(s.path)
		if err != nil {
			return e.fail(err)
		}
		subs = append(subs, schematools.SubSchema{Prefix: s.prefix, Document: doc})
	}

	opts := schematools.DefaultComposeOptions()
	opts.StrictDefinitions = *strict
	opts.Logger = log
	composed, err := schematools.Compose(base, subs, opts)
	if err != nil {
		return e.fail(fmt.Errorf("failed to compose %s: %w", *schemaPath, err))
	}
	log.Infof("composed %s with %d referenced schemas", *schemaPath, len(subs))

	if *format == "yaml" {
		err = schematools.EncodeYAML(e.stdout, composed, *indent)
	} else {
		err = schematools.EncodeJSON(e.stdout, composed, strings.Repeat(" ", max(*indent, 0)))
	}
	if err != nil {
		return e.fail(fmt.Errorf("failed to write output: %w", err))
	}
	return 0
}

func (e *env) lint(args []string) int {
	fs := flag.NewFlagSet(prog+" lint", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	e.cfg.RegisterFlags(fs)
	schemaPath := fs.String("schema", "", "path to the schema to lint")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *schemaPath == "" {
		_ = writeln(e.stderr, "error: -schema is required")
		fs.Usage()
		return 2
	}

	log := e.cfg.Logger(e.stderr)
	ld, err := e.loader(log)
	if err != nil {
		return e.fail(err)
	}
	doc, err := ld.Load(*schemaPath)
	if err != nil {
		return e.fail(err)
	}

	issues := lint.Lint(doc)
	log.Debugf("linted %s: %d issues", *schemaPath, len(issues))
	out := report.New(e.stdout, e.cfg.Color.Enabled(e.stdout))
	if err := errors.Join(out.Issues(issues), out.Summary(len(issues))); err != nil {
		return e.fail(fmt.Errorf("failed to write output: %w", err))
	}
	if len(issues) > 0 {
		return 1
	}
	return 0
}

func (e *env) loader(log logging.Logger) (*loader.Loader, error) {
	return loader.New(loader.Options{CacheSize: e.cfg.CacheSize, Logger: log})
}

func (e *env) fail(err error) int {
	report.New(e.stderr, e.cfg.Color.Enabled(e.stderr)).Error(prog, err)
	return 1
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
