// Package jsonc relaxes JSON input before it reaches a strict decoder.
//
// Comments and trailing commas are overwritten with spaces rather than
// removed, so byte offsets reported by the decoder still point into the
// original input.
package jsonc

import "bytes"

// Options selects which extensions are tolerated.
type Options struct {
	AllowComments      bool // "//" line and "/* */" block comments
	AllowTrailingComma bool // "[1,2,]" and {"a":1,}
}

// SyntaxError reports an extension used while it is disabled, or a malformed
// comment.
type SyntaxError struct {
	Msg    string
	Offset int64
	Line   int
	Column int
}

func (e *SyntaxError) Error() string { return e.Msg }

// Normalize returns data with tolerated extensions blanked out and reports
// the first disabled extension it meets, so strictness does not depend on
// which decoder reads the result.
func Normalize(data []byte, opt Options) ([]byte, error) {
	out := bytes.Clone(data)
	inString := false
	var prev byte // last significant byte outside strings and comments
	for i := 0; i < len(out); i++ {
		c := out[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
				prev = '"'
			}
			continue
		}
		switch c {
		case ' ', '\t', '\n', '\r':
		case '"':
			inString = true
		case '/':
			if i+1 >= len(out) || (out[i+1] != '/' && out[i+1] != '*') {
				continue
			}
			if !opt.AllowComments {
				return nil, newSyntaxError(data, i, "comments are not allowed")
			}
			end, err := commentEnd(data, i)
			if err != nil {
				return nil, err
			}
			blank(out[i:end])
			i = end - 1
		case ',':
			j, err := skipInsignificant(data, i+1, opt.AllowComments)
			if err != nil {
				return nil, err
			}
			if j < len(data) && (data[j] == '}' || data[j] == ']') {
				if !opt.AllowTrailingComma {
					return nil, newSyntaxError(data, i, "trailing comma is not allowed")
				}
				// A trailing comma must follow a value.
				switch prev {
				case 0, '[', '{', ',', ':':
					return nil, newSyntaxError(data, i, "comma without a preceding value")
				}
				out[i] = ' '
			}
			prev = c
		default:
			prev = c
		}
	}
	return out, nil
}

// commentEnd returns the offset just past the comment starting at i.
func commentEnd(data []byte, i int) (int, error) {
	if data[i+1] == '/' {
		if n := bytes.IndexByte(data[i+2:], '\n'); n >= 0 {
			return i + 2 + n, nil
		}
		return len(data), nil
	}
	n := bytes.Index(data[i+2:], []byte("*/"))
	if n < 0 {
		return 0, newSyntaxError(data, i, "unterminated block comment")
	}
	return i + 2 + n + 2, nil
}

func skipInsignificant(data []byte, i int, comments bool) (int, error) {
	for i < len(data) {
		switch data[i] {
		case ' ', '\t', '\n', '\r':
			i++
		case '/':
			if !comments || i+1 >= len(data) || (data[i+1] != '/' && data[i+1] != '*') {
				return i, nil
			}
			end, err := commentEnd(data, i)
			if err != nil {
				return 0, err
			}
			i = end
		default:
			return i, nil
		}
	}
	return i, nil
}

// blank overwrites everything but line breaks with spaces.
func blank(b []byte) {
	for i, c := range b {
		if c != '\n' && c != '\r' {
			b[i] = ' '
		}
	}
}

func newSyntaxError(data []byte, off int, msg string) *SyntaxError {
	line, col := Position(data, int64(off))
	return &SyntaxError{Msg: msg, Offset: int64(off), Line: line, Column: col}
}

// Position converts a byte offset into a 1-based line and column.
func Position(data []byte, off int64) (line, col int) {
	if off < 0 {
		off = 0
	}
	if off > int64(len(data)) {
		off = int64(len(data))
	}
	prefix := data[:off]
	line = bytes.Count(prefix, []byte{'\n'}) + 1
	col = int(off) - (bytes.LastIndexByte(prefix, '\n') + 1) + 1
	return line, col
}
