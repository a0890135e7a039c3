// File: conftree/tree.go
package conftree

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// Tree is a hierarchical string key-value store. Leaf values and subtrees
// live in separate namespaces per node, addressed by dotted paths such as
// "server.listen.port". A segment can name a value or a subtree, never both;
// operations that would need it to be both fail with ErrCollision at the
// first offending segment.
//
// Keys keep their first-insertion order at every level, which fixes the
// order of Report, Pretty and the key listings. A Tree is not safe for
// concurrent use; it is meant to be filled during startup and read by a
// single logical owner.
type Tree struct {
	prefix    string
	values    map[string]string
	subs      map[string]*Tree
	valueKeys []string
	subKeys   []string
}

// New returns an empty root tree. The zero value is also usable.
func New() *Tree {
	return &Tree{}
}

// Path returns the full dotted path of this node, "" for the root.
func (t *Tree) Path() string {
	return strings.TrimSuffix(t.prefix, ".")
}

// HasKey reports whether a value is stored under the dotted key. A missing
// intermediate subtree makes the answer false, unless that segment exists as
// a value, which is a collision error. A subtree named like the final
// segment also makes the answer false: this is an existence test, not a
// resolution.
func (t *Tree) HasKey(key string) (bool, error) {
	head, rest, dotted := strings.Cut(key, ".")
	if dotted {
		if _, isValue := t.values[head]; isValue {
			return false, t.collisionErr(head)
		}
		sub, ok := t.subs[head]
		if !ok {
			return false, nil
		}
		return sub.HasKey(rest)
	}
	_, ok := t.values[key]
	return ok, nil
}

// HasSub reports whether a subtree exists under the dotted key, with the
// same descent rules as HasKey.
func (t *Tree) HasSub(key string) (bool, error) {
	head, rest, dotted := strings.Cut(key, ".")
	if dotted {
		if _, isValue := t.values[head]; isValue {
			return false, t.collisionErr(head)
		}
		sub, ok := t.subs[head]
		if !ok {
			return false, nil
		}
		return sub.HasSub(rest)
	}
	_, ok := t.subs[key]
	return ok, nil
}

// Get returns the raw string stored under the dotted key. A missing key
// yields ErrNotFound naming the key and the node prefix; asking for a key
// that names a subtree, or descending through a segment that names a value,
// yields ErrCollision.
func (t *Tree) Get(key string) (string, error) {
	head, rest, dotted := strings.Cut(key, ".")
	if dotted {
		if _, isValue := t.values[head]; isValue {
			return "", t.collisionErr(head)
		}
		sub, ok := t.subs[head]
		if !ok {
			return "", fmt.Errorf("key %q (prefix %q): %w", key, t.prefix, ErrNotFound)
		}
		return sub.Get(rest)
	}
	if v, ok := t.values[key]; ok {
		return v, nil
	}
	if _, isSub := t.subs[key]; isSub {
		return "", t.collisionErr(key)
	}
	return "", fmt.Errorf("key %q (prefix %q): %w", key, t.prefix, ErrNotFound)
}

// Set stores value under the dotted key, creating intermediate subtrees as
// needed. Re-setting an existing key overwrites in place without changing
// its position in the key order.
func (t *Tree) Set(key, value string) error {
	head, rest, dotted := strings.Cut(key, ".")
	if dotted {
		sub, err := t.child(head)
		if err != nil {
			return err
		}
		return sub.Set(rest, value)
	}
	if _, isSub := t.subs[key]; isSub {
		return t.collisionErr(key)
	}
	if _, ok := t.values[key]; !ok {
		if t.values == nil {
			t.values = make(map[string]string)
		}
		t.valueKeys = append(t.valueKeys, key)
	}
	t.values[key] = value
	return nil
}

// Sub returns the subtree under the dotted key, creating missing subtrees
// along the way.
func (t *Tree) Sub(key string) (*Tree, error) {
	head, rest, dotted := strings.Cut(key, ".")
	sub, err := t.child(head)
	if err != nil {
		return nil, err
	}
	if !dotted {
		return sub, nil
	}
	return sub.Sub(rest)
}

// SubTree returns the subtree under the dotted key without creating
// anything. When a segment is missing at any depth, failIfMissing selects
// between ErrNotFound and a fresh detached empty tree.
func (t *Tree) SubTree(key string, failIfMissing bool) (*Tree, error) {
	head, rest, dotted := strings.Cut(key, ".")
	if _, isValue := t.values[head]; isValue {
		return nil, t.collisionErr(head)
	}
	sub, ok := t.subs[head]
	if !ok {
		if failIfMissing {
			return nil, fmt.Errorf("subtree %q (prefix %q): %w", head, t.prefix, ErrNotFound)
		}
		return New(), nil
	}
	if !dotted {
		return sub, nil
	}
	return sub.SubTree(rest, failIfMissing)
}

// ValueKeys returns the value keys of this node in first-insertion order.
func (t *Tree) ValueKeys() []string {
	return slices.Clone(t.valueKeys)
}

// SubKeys returns the subtree keys of this node in first-insertion order.
func (t *Tree) SubKeys() []string {
	return slices.Clone(t.subKeys)
}

// Report writes the tree in its own INI form: key = "value" lines for this
// node, then a [ full.dotted.path ] header and contents for every subtree,
// in first-insertion order. The output parses back into an equal tree.
func (t *Tree) Report(w io.Writer) error {
	for _, k := range t.valueKeys {
		if _, err := fmt.Fprintf(w, "%s = \"%s\"\n", k, t.values[k]); err != nil {
			return err
		}
	}
	for _, k := range t.subKeys {
		sub := t.subs[k]
		if _, err := fmt.Fprintf(w, "[ %s ]\n", sub.Path()); err != nil {
			return err
		}
		if err := sub.Report(w); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy sharing no state with the original. Prefixes
// and key order are preserved.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		prefix:    t.prefix,
		valueKeys: slices.Clone(t.valueKeys),
		subKeys:   slices.Clone(t.subKeys),
	}
	if t.values != nil {
		c.values = make(map[string]string, len(t.values))
		for k, v := range t.values {
			c.values[k] = v
		}
	}
	if t.subs != nil {
		c.subs = make(map[string]*Tree, len(t.subs))
		for k, sub := range t.subs {
			c.subs[k] = sub.Clone()
		}
	}
	return c
}

// toMap renders the node as nested maps with string leaves. The namespaces
// cannot clash by the exclusivity invariant.
func (t *Tree) toMap() map[string]any {
	m := make(map[string]any, len(t.values)+len(t.subs))
	for k, v := range t.values {
		m[k] = v
	}
	for k, sub := range t.subs {
		m[k] = sub.toMap()
	}
	return m
}

// child returns the direct subtree named seg, creating it on first access.
func (t *Tree) child(seg string) (*Tree, error) {
	if _, isValue := t.values[seg]; isValue {
		return nil, t.collisionErr(seg)
	}
	sub, ok := t.subs[seg]
	if !ok {
		sub = &Tree{prefix: t.prefix + seg + "."}
		if t.subs == nil {
			t.subs = make(map[string]*Tree)
		}
		t.subs[seg] = sub
		t.subKeys = append(t.subKeys, seg)
	}
	return sub, nil
}

func (t *Tree) collisionErr(seg string) error {
	return fmt.Errorf("key %q (prefix %q): %w", seg, t.prefix, ErrCollision)
}
