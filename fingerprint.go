package schematools

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
)

// Fingerprint returns a deterministic hex digest of v. Object key order does
// not contribute, so two trees that differ only in field order share a
// fingerprint; Equal is the order-sensitive comparison.
func Fingerprint(v Value) string {
	h := sha256.New()
	canonicalize(h, v)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Each value is written as a one-byte tag followed by length-prefixed
// content, which keeps the encoding unambiguous without escaping.
func canonicalize(w io.Writer, v Value) {
	switch x := v.(type) {
	case *Object:
		keys := x.Keys()
		sort.Strings(keys)
		writeTag(w, 'o', len(keys))
		for _, k := range keys {
			writeString(w, k)
			child, _ := x.Get(k)
			canonicalize(w, child)
		}
	case Array:
		writeTag(w, 'a', len(x))
		for _, child := range x {
			canonicalize(w, child)
		}
	case String:
		_, _ = w.Write([]byte{'s'})
		writeString(w, string(x))
	case Number:
		_, _ = w.Write([]byte{'n'})
		writeString(w, string(x))
	case Bool:
		if x {
			_, _ = w.Write([]byte{'t'})
		} else {
			_, _ = w.Write([]byte{'f'})
		}
	default:
		_, _ = w.Write([]byte{'z'})
	}
}

func writeTag(w io.Writer, tag byte, n int) {
	var buf [9]byte
	buf[0] = tag
	binary.BigEndian.PutUint64(buf[1:], uint64(n))
	_, _ = w.Write(buf[:])
}

func writeString(w io.Writer, s string) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
	_, _ = w.Write(buf[:])
	_, _ = w.Write([]byte(s))
}
