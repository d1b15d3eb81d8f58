package lint

import (
	schematools "github.com/speakeasy-api/jsonschema-tools"
)

const (
	titleKey                = "title"
	descriptionKey          = "description"
	commentKey              = "$comment"
	typeKey                 = "type"
	additionalPropertiesKey = "additionalProperties"
	requiredKey             = "required"
	examplesKey             = "examples"
)

// keyRank orders the keys the convention knows about. Every other key ranks
// between required and examples, and two such keys are never out of order.
var keyRank = map[string]int{
	schematools.IDKey:         0,
	titleKey:                  1,
	descriptionKey:            2,
	commentKey:                3,
	typeKey:                   4,
	additionalPropertiesKey:   5,
	schematools.PropertiesKey: 6,
	requiredKey:               7,
	examplesKey:               9,
}

const unrankedKey = 8

func rank(key string) int {
	if r, ok := keyRank[key]; ok {
		return r
	}
	return unrankedKey
}

// misordered reports whether a may not precede b.
func misordered(a, b string) bool {
	ra, rb := rank(a), rank(b)
	if ra == unrankedKey && rb == unrankedKey {
		return false
	}
	return ra >= rb
}

// CheckKeyOrder returns one issue per object whose keys break the
// conventional order, naming the first offending adjacent pair. Objects with
// caller-chosen keys, such as the properties map, are not checked.
func CheckKeyOrder(doc schematools.Value) []KeyOrderIssue {
	var issues []KeyOrderIssue
	_ = schematools.Walk(doc, func(path schematools.Path, v schematools.Value) error {
		obj, ok := schematools.AsObject(v)
		if !ok || path.HasFreeKeys() {
			return nil
		}
		keys := obj.Keys()
		for i := 1; i < len(keys); i++ {
			if misordered(keys[i-1], keys[i]) {
				issues = append(issues, KeyOrderIssue{Path: path, First: keys[i-1], Second: keys[i]})
				break
			}
		}
		return nil
	})
	return issues
}
