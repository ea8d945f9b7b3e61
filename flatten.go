package docvalidate

import "strconv"

// FlatItem is one leaf of a flattened document.
type FlatItem struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// Flatten maps every leaf of n to its text. Object members extend the path
// with ".key" (just "key" at the root), array items with "[i]"; containers
// themselves are never entries. A nil node flattens to an empty map.
func Flatten(n *Node) map[string]string {
	out := make(map[string]string)
	walkLeaves("", n, func(p, v string) { out[p] = v })
	return out
}

// FlattenOrdered returns the entries of Flatten in document order.
func FlattenOrdered(n *Node) []FlatItem {
	var out []FlatItem
	walkLeaves("", n, func(p, v string) { out = append(out, FlatItem{Path: p, Value: v}) })
	return out
}

func walkLeaves(path string, n *Node, emit func(path, value string)) {
	if n == nil {
		return
	}
	if n.IsScalar() {
		emit(path, n.Text)
		return
	}
	switch n.Kind {
	case KindObject:
		for _, f := range n.Fields {
			p := f.Key
			if path != "" {
				p = path + "." + f.Key
			}
			walkLeaves(p, f.Value, emit)
		}
	case KindArray:
		for i, it := range n.Items {
			walkLeaves(path+"["+strconv.Itoa(i)+"]", it, emit)
		}
	}
}

// pointerOrRoot renders the empty JSON Pointer as "/".
func pointerOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
