package errbag

import (
	"sort"
	"strings"
)

const fieldPrefix = "fields."

// Bag maps field names to ordered validation messages. A nil Bag behaves as
// an empty one for reads.
type Bag map[string][]string

// Field returns the messages recorded for name, nil when the field is clean.
func (b Bag) Field(name string) []string {
	if len(b) == 0 {
		return nil
	}
	return b[name]
}

// Has reports whether name carries at least one message.
func (b Bag) Has(name string) bool {
	return len(b.Field(name)) > 0
}

// Any reports whether the bag carries messages for any field.
func (b Bag) Any() bool {
	for _, messages := range b {
		if len(messages) > 0 {
			return true
		}
	}
	return false
}

// Clone returns an independently mutable copy of the bag.
func (b Bag) Clone() Bag {
	out := make(Bag, len(b))
	for name, messages := range b {
		copied := make([]string, len(messages))
		copy(copied, messages)
		out[name] = copied
	}
	return out
}

// Compact returns a copy with empty message lists removed, so stored bags
// never carry a field without at least one message.
func (b Bag) Compact() Bag {
	out := make(Bag, len(b))
	for name, messages := range b {
		if len(messages) == 0 {
			continue
		}
		copied := make([]string, len(messages))
		copy(copied, messages)
		out[name] = copied
	}
	return out
}

// Normalize converts an arbitrary parsed response body into the canonical
// error bag. When the body nests an "errors" object that object is the
// source; otherwise the body itself is. Keys lose a leading "fields." prefix,
// non-array values yield an empty message list, non-string array elements are
// dropped, and keys that collapse to the same field name have their messages
// concatenated (in sorted source-key order, for determinism). Normalize never
// panics and always returns a well-formed, possibly empty, bag.
func Normalize(body any) Bag {
	source, ok := body.(map[string]any)
	if !ok {
		return Bag{}
	}
	if nested, ok := source["errors"].(map[string]any); ok {
		source = nested
	}

	keys := make([]string, 0, len(source))
	for key := range source {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	bag := make(Bag, len(keys))
	for _, key := range keys {
		name := strings.TrimPrefix(key, fieldPrefix)
		bag[name] = append(bag[name], stringMessages(source[key])...)
		if bag[name] == nil {
			bag[name] = []string{}
		}
	}
	return bag
}

func stringMessages(value any) []string {
	switch list := value.(type) {
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	default:
		return nil
	}
}

// Message extracts a top-level human-readable "message" string from a parsed
// response body, or "" when none is present.
func Message(body any) string {
	obj, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := obj["message"].(string)
	return msg
}
