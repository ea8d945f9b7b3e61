package engine

import (
	"errors"
	"io"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "begin_object"
	case KindEndObject:
		return "end_object"
	case KindBeginArray:
		return "begin_array"
	case KindEndArray:
		return "end_array"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string // kept as text, never converted
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrTrailingData is returned by ExpectEOF when input continues after the
// top-level value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// ExpectEOF consumes one more token and reports an error unless the source is
// exhausted.
func ExpectEOF(src TokenSource) error {
	_, err := src.NextToken()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	return ErrTrailingData
}
