package engine

import (
	"strconv"
	"strings"
)

// Enforcement wrapper for TokenSource applying duplicate key detection and
// max depth checks in a streaming fashion.

// Issue codes produced by the enforcement wrapper.
const (
	CodeDuplicateKey = "duplicate_key"
	CodeMaxDepth     = "max_depth"
)

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	DetectDuplicates bool
	MaxDepth         int // 0 = unlimited
}

// Enabled reports whether wrapping would change anything.
func (o EnforceOptions) Enabled() bool { return o.DetectDuplicates || o.MaxDepth > 0 }

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type dupFrame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	nextIndex    int
	pendingKey   string
}

// Issue is a lightweight enforcement finding.
type Issue struct {
	Code    string
	Path    string // JSON Pointer, "/" for the root
	Key     string // offending key for duplicate_key
	Message string
	Offset  int64
}

// IssueError is a lightweight error carrying an Issue.
type IssueError struct{ Issue }

func (e *IssueError) Error() string { return e.Issue.Message }

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy and maximum nesting depth.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

// WrapIfNeeded returns inner untouched when opt enforces nothing.
func WrapIfNeeded(inner TokenSource, opt EnforceOptions) TokenSource {
	if !opt.Enabled() {
		return inner
	}
	return WrapWithEnforcement(inner, opt)
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []dupFrame
	depth int
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	path := e.currentPathForToken(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		f := dupFrame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f = dupFrame{kind: kindObject, keys: make(map[string]struct{}), expectingKey: true, path: path}
		}
		e.stack = append(e.stack, f)
		e.depth++
		if e.opt.MaxDepth > 0 && e.depth > e.opt.MaxDepth {
			return Token{}, &IssueError{Issue{
				Code:    CodeMaxDepth,
				Path:    normalizeIssuePath(path),
				Message: "max depth " + strconv.Itoa(e.opt.MaxDepth) + " exceeded at " + normalizeIssuePath(path),
				Offset:  tok.Offset,
			}}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		if e.depth > 0 {
			e.depth--
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				if e.opt.DetectDuplicates {
					if _, ok := top.keys[tok.String]; ok {
						return Token{}, &IssueError{Issue{
							Code:    CodeDuplicateKey,
							Path:    normalizeIssuePath(path),
							Key:     tok.String,
							Message: "duplicate key '" + tok.String + "' at " + normalizeIssuePath(path),
							Offset:  tok.Offset,
						}}
					}
				}
				top.keys[tok.String] = struct{}{}
				top.expectingKey = false
				top.pendingKey = tok.String
			}
		}
	case KindString, KindNumber, KindBool, KindNull:
		e.valueDone()
	}

	return tok, nil
}

// valueDone flips the enclosing object back to expecting a key.
func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

func (e *enforcingTokenSource) currentPathForToken(tok Token) string {
	if len(e.stack) == 0 {
		return ""
	}

	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindKey:
		return joinJSONPointer(top.path, tok.String)
	case KindBeginObject, KindBeginArray, KindString, KindNumber, KindBool, KindNull:
		if top.kind == kindArray {
			p := joinJSONPointer(top.path, strconv.Itoa(top.nextIndex))
			top.nextIndex++
			return p
		}
		if !top.expectingKey {
			return joinJSONPointer(top.path, top.pendingKey)
		}
		return top.path
	default:
		return top.path
	}
}

func normalizeIssuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// EscapePointerToken escapes a single JSON Pointer reference token.
func EscapePointerToken(s string) string {
	return jsonPointerEscaper.Replace(s)
}

func joinJSONPointer(base, token string) string {
	return base + "/" + EscapePointerToken(token)
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }
