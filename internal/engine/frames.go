package engine

// Framer tracks container nesting for JSON tokenizers that only report
// delimiters and raw values, so string tokens can be classified as object keys
// or values.
type Framer struct {
	stack []frame
}

type frame struct {
	object       bool
	expectingKey bool
}

// Open pushes a container.
func (f *Framer) Open(object bool) {
	f.stack = append(f.stack, frame{object: object, expectingKey: object})
}

// Close pops a container and marks it as a completed value of its parent.
func (f *Framer) Close() {
	if n := len(f.stack); n > 0 {
		f.stack = f.stack[:n-1]
	}
	f.Value()
}

// StringKind returns KindKey when a string token sits in key position.
func (f *Framer) StringKind() Kind {
	if n := len(f.stack); n > 0 {
		top := &f.stack[n-1]
		if top.object && top.expectingKey {
			top.expectingKey = false
			return KindKey
		}
	}
	f.Value()
	return KindString
}

// Value records that a value completed in the current container.
func (f *Framer) Value() {
	if n := len(f.stack); n > 0 {
		top := &f.stack[n-1]
		if top.object && !top.expectingKey {
			top.expectingKey = true
		}
	}
}
