package value

import "strings"

// Tree is a nested mapping of string path segments to Values, as queried
// by the expression evaluator. The root is always a Mapping.
type Tree struct {
	root *Mapping
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{root: NewMapping()}
}

// Root returns the tree's root mapping.
func (t *Tree) Root() *Mapping { return t.root }

// Insert sets a leaf at path, creating intermediate mappings as needed.
func (t *Tree) Insert(path []string, v Value) {
	insertInto(t.root, path, v)
}

func insertInto(m *Mapping, path []string, v Value) {
	if len(path) == 0 {
		return
	}
	if len(path) == 1 {
		m.Set(path[0], v)
		return
	}
	head, rest := path[0], path[1:]
	existing, ok := m.Get(head)
	var nested *Mapping
	if ok {
		nested, ok = existing.(*Mapping)
	}
	if !ok {
		nested = NewMapping()
		m.Set(head, nested)
	}
	insertInto(nested, rest, v)
}

// InsertPrefix overlays entries at a path prefix, e.g. inserting a whole
// env map under ["env"].
func (t *Tree) InsertPrefix(prefix []string, entries map[string]Value) {
	for k, v := range entries {
		full := make([]string, 0, len(prefix)+1)
		full = append(full, prefix...)
		full = append(full, k)
		t.Insert(full, v)
	}
}

// Extend deep-merges other into t; later insertions win per leaf. t is
// mutated in place; callers that need copy-on-extend semantics should
// Clone first.
func (t *Tree) Extend(other *Tree) {
	extendMapping(t.root, other.root)
}

func extendMapping(dst, src *Mapping) {
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		if srcNested, ok := v.(*Mapping); ok {
			existing, ok := dst.Get(k)
			var dstNested *Mapping
			if ok {
				dstNested, ok = existing.(*Mapping)
			}
			if !ok {
				dstNested = NewMapping()
				dst.Set(k, dstNested)
			}
			extendMapping(dstNested, srcNested)
			continue
		}
		dst.Set(k, v)
	}
}

// Clone returns a deep copy of t, for copy-on-extend semantics between
// sibling steps.
func (t *Tree) Clone() *Tree {
	return &Tree{root: t.root.Clone()}
}

// Get looks up a dotted path. A trailing "*" segment collects the leaves
// of the mapping at that point into an Array, in insertion order. Missing
// intermediate or trailing keys return (Null{}, false) without error.
func (t *Tree) Get(path []string) (Value, bool) {
	return getFrom(t.root, path)
}

func getFrom(m *Mapping, path []string) (Value, bool) {
	if len(path) == 0 {
		return m, true
	}
	head := path[0]
	if head == "*" {
		arr := make(Array, 0, m.Len())
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			arr = append(arr, v)
		}
		return arr, true
	}
	v, ok := m.Get(head)
	if !ok {
		return Null{}, false
	}
	if len(path) == 1 {
		return v, true
	}
	nested, ok := v.(*Mapping)
	if !ok {
		return Null{}, false
	}
	return getFrom(nested, path[1:])
}

// ParsePath splits a dot-separated lookup path, e.g. "matrix.a" ->
// ["matrix", "a"].
func ParsePath(dotted string) []string {
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}
