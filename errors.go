package docvalidate

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeParseError      = "parse_error"
	CodeDuplicateKey    = "duplicate_key"
	CodeMaxDepth        = "max_depth"
	CodeEmptyDocument   = "empty_document"
	CodeSchemaViolation = "schema_violation"
	CodeSchemaFault     = "schema_fault"
	CodeIOError         = "io_error"
)

var (
	// ErrRemoteRef is returned when a schema reference would need anything
	// other than the local schema bundle to resolve.
	ErrRemoteRef = errors.New("remote schema references are not allowed")
	// ErrUnresolvedRef is returned when a local reference has no target.
	ErrUnresolvedRef = errors.New("unresolved schema reference")
	// ErrEmptySchema is returned when schema bytes contain no document.
	ErrEmptySchema = errors.New("schema document is empty")
)

// Issue represents a single diagnostic attached to a Result.
type Issue struct {
	Path    string // JSON Pointer of the offending value, "/" for the root.
	Code    string // One of the codes listed above.
	Message string
	Keyword string // Schema keyword location for schema_violation.
}

// Issues is a collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// ParseError reports a document that could not be decoded.
type ParseError struct {
	Name   string
	Code   string // CodeParseError, CodeDuplicateKey or CodeMaxDepth.
	Path   string // JSON Pointer when known.
	Line   int    // 1-based; 0 when unknown.
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: %v", e.Line, e.Column, e.Err)
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// DuplicateKeyError reports a key repeated within one mapping. Positions are
// zero when the decoder does not track them.
type DuplicateKeyError struct {
	Key       string
	Path      string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	if e.FirstLine > 0 {
		return fmt.Sprintf("duplicate key %q (first defined at line %d, column %d)", e.Key, e.FirstLine, e.FirstCol)
	}
	return fmt.Sprintf("duplicate key %q at %s", e.Key, e.Path)
}

// SchemaError reports a schema that cannot be compiled. It is returned from
// construction and is not recoverable by retrying.
type SchemaError struct {
	Name string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: %v", e.Name, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// AsParseError extracts a *ParseError using errors.As.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
