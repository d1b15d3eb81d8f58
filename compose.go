package schematools

import (
	"github.com/speakeasy-api/jsonschema-tools/pkg/logging"
)

// SubSchema is a document merged into the base by Compose.
type SubSchema struct {
	// Prefix is prepended to every $defs key the document contributes. It
	// may be empty.
	Prefix   string
	Document Value
}

// ComposeOptions configures Compose.
type ComposeOptions struct {
	// StrictDefinitions makes a $defs key collision between two different
	// definitions fail with *DuplicateDefinitionError. Without it the later
	// definition replaces the earlier one in place.
	StrictDefinitions bool

	// Logger receives debug traces of registrations and insertions. Nil
	// disables logging.
	Logger logging.Logger
}

// DefaultComposeOptions returns the default configuration for Compose.
func DefaultComposeOptions() ComposeOptions {
	return ComposeOptions{
		StrictDefinitions: false,
		Logger:            logging.Nop(),
	}
}

// Compose merges subs into base and returns a self-contained document in
// which every cross-document reference has become a local "#/$defs/..."
// reference.
//
// For each sub-schema, in order, its $id is registered together with its
// prefix, its own fragment-only references are qualified with that $id, its
// top-level schema (if it has keywords beyond $id and $defs) is added to the
// base $defs under prefix+name, and each of its own $defs entries under
// prefix+key. Finally every path reference in the result is resolved through
// the registered ids.
//
// Neither base nor any sub-schema document is modified, whether or not an
// error is returned.
func Compose(base Value, subs []SubSchema, opts ...ComposeOptions) (Value, error) {
	opt := DefaultComposeOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.Logger == nil {
		opt.Logger = logging.Nop()
	}

	result := Clone(base)
	defs, ok := definitions(result)
	if !ok {
		return nil, &MissingDefsError{Document: base}
	}

	c := &composer{
		defs:     defs,
		registry: make(map[string]string, len(subs)),
		opts:     opt,
		log:      opt.Logger,
	}
	for _, sub := range subs {
		if err := c.merge(sub); err != nil {
			return nil, err
		}
	}

	if err := RewriteReferences(result, c.localize); err != nil {
		return nil, err
	}
	return result, nil
}

type composer struct {
	defs *Object
	// registry maps a sub-schema $id to its prefix.
	registry map[string]string
	opts     ComposeOptions
	log      logging.Logger
}

func (c *composer) merge(sub SubSchema) error {
	id, ok := documentID(sub.Document)
	if !ok {
		return &MissingIDError{Document: sub.Document}
	}
	ref, err := ParseReference(id)
	if err != nil {
		return &InvalidIDError{ID: id}
	}
	self, ok := ref.(PathOnly)
	if !ok {
		return &InvalidIDError{ID: id}
	}

	if previous, seen := c.registry[id]; seen && previous != sub.Prefix {
		c.log.Warnf("sub-schema %s registered again; references now resolve with prefix %q instead of %q", id, sub.Prefix, previous)
	}
	c.registry[id] = sub.Prefix
	log := c.log.With(map[string]any{"id": id, "prefix": sub.Prefix})
	log.Debugf("registered sub-schema")

	doc := Clone(sub.Document)
	err = RewriteReferences(doc, func(r Reference) (Reference, error) {
		switch x := r.(type) {
		case FragmentOnly:
			return Both{PathPrefix: self.PathPrefix, PathName: self.PathName, FragmentName: x.FragmentName}, nil
		case PathOnly, Both:
			return nil, nil
		default:
			panic("schematools: unknown reference type")
		}
	})
	if err != nil {
		return err
	}

	obj, _ := AsObject(doc)
	if top, ok := topLevelDefinition(obj); ok {
		if err := c.insert(log, sub.Prefix+self.PathName, top, id); err != nil {
			return err
		}
	}
	if v, ok := obj.Get(DefsKey); ok {
		if own, ok := AsObject(v); ok {
			for key, def := range own.All() {
				if err := c.insert(log, sub.Prefix+key, def, id); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *composer) insert(log logging.Logger, key string, def Value, id string) error {
	if existing, ok := c.defs.Get(key); ok {
		if c.opts.StrictDefinitions && Fingerprint(existing) != Fingerprint(def) {
			return &DuplicateDefinitionError{Key: key, ID: id}
		}
		log.Debugf("replacing definition %s", key)
	} else {
		log.Debugf("adding definition %s", key)
	}
	c.defs.Set(key, def)
	return nil
}

// localize turns a path reference into a reference to the merged $defs entry
// of the document it names.
func (c *composer) localize(r Reference) (Reference, error) {
	id, ok := ReferencePath(r)
	if !ok {
		return nil, nil
	}
	prefix, ok := c.registry[id]
	if !ok {
		return nil, &InvalidIDError{ID: r.String()}
	}
	return FragmentOnly{FragmentName: prefix + ReferenceName(r)}, nil
}

func definitions(v Value) (*Object, bool) {
	root, ok := AsObject(v)
	if !ok {
		return nil, false
	}
	defs, ok := root.Get(DefsKey)
	if !ok {
		return nil, false
	}
	return AsObject(defs)
}

func documentID(v Value) (string, bool) {
	obj, ok := AsObject(v)
	if !ok {
		return "", false
	}
	id, ok := obj.Get(IDKey)
	if !ok {
		return "", false
	}
	s, ok := id.(String)
	return string(s), ok
}

// topLevelDefinition returns obj without its $defs when obj carries schema
// keywords of its own.
func topLevelDefinition(obj *Object) (*Object, bool) {
	for key := range obj.All() {
		if key == IDKey || key == DefsKey {
			continue
		}
		out := NewObject()
		for k, v := range obj.All() {
			if k != DefsKey {
				out.Set(k, v)
			}
		}
		return out, true
	}
	return nil, false
}
