package docvalidate

import "encoding/json"

// Kind identifies the variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Field is one member of an object node.
type Field struct {
	Key   string
	Value *Node
}

// Node is a parsed document value. Objects keep their members in document
// order. Scalars keep their canonical text: numbers as written (or normalized
// for YAML), booleans as true/false, null as "null".
//
// A nil *Node stands for a document without any content.
type Node struct {
	Kind   Kind
	Text   string
	Fields []Field
	Items  []*Node
}

// IsScalar reports whether n is a leaf value.
func (n *Node) IsScalar() bool {
	return n != nil && n.Kind != KindObject && n.Kind != KindArray
}

// Get returns the value of an object member.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != KindObject {
		return nil, false
	}
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Len returns the number of members or items; 0 for scalars.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindObject:
		return len(n.Fields)
	case KindArray:
		return len(n.Items)
	default:
		return 0
	}
}

// Interface converts n into JSON-like Go values: map[string]any, []any,
// json.Number, string, bool and nil.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindObject:
		m := make(map[string]any, len(n.Fields))
		for _, f := range n.Fields {
			m[f.Key] = f.Value.Interface()
		}
		return m
	case KindArray:
		arr := make([]any, len(n.Items))
		for i, it := range n.Items {
			arr[i] = it.Interface()
		}
		return arr
	case KindNumber:
		return json.Number(n.Text)
	case KindBool:
		return n.Text == "true"
	case KindString:
		return n.Text
	default:
		return nil
	}
}

// objectBuilder accumulates members, optionally letting a repeated key
// overwrite the earlier value in place.
type objectBuilder struct {
	fields []Field
	index  map[string]int
}

func (b *objectBuilder) set(key string, v *Node) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[key]; ok {
		b.fields[i].Value = v
		return
	}
	b.index[key] = len(b.fields)
	b.fields = append(b.fields, Field{Key: key, Value: v})
}

func (b *objectBuilder) node() *Node {
	return &Node{Kind: KindObject, Fields: b.fields}
}
