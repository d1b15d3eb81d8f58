// Package schematools composes JSON Schema documents that are authored as a
// set of interlinked files.
//
// Documents are held as Value trees whose objects keep their key order, so a
// document that passes through Compose is written back exactly as it was
// except for the references that were rewritten.
//
// # References
//
// Only local references are supported:
//
//	/schemas/bar                 a whole document, by its $id
//	#/$defs/baz                  a definition in the current document
//	/schemas/bar#/$defs/baz      a definition in another document
//
// # Composition
//
//	base, _ := schematools.DecodeJSON(baseBytes)
//	bar, _ := schematools.DecodeJSON(barBytes)
//	out, err := schematools.Compose(base, []schematools.SubSchema{{Document: bar}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = schematools.EncodeJSON(os.Stdout, out, "  ")
//
// Every sub-schema is folded into the base's $defs and every reference to it
// becomes "#/$defs/<prefix><name>". Errors are typed (*MissingIDError,
// *InvalidIDError, *ReferenceError, *MissingDefsError,
// *DuplicateDefinitionError) and match the Err* sentinels with errors.Is.
//
// # Concurrency
//
// Compose never mutates its arguments and is safe for concurrent use.
// RewriteReferences mutates the tree it is given.
package schematools
