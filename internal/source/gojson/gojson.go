// Package gojson adapts goccy/go-json to engine.TokenSource.
//
// go-json's Decoder.Token does not enforce the JSON grammar between tokens, so
// the whole input is syntax-checked before the first token is handed out.
package gojson

import (
	"bytes"
	"errors"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/docvalidate/internal/engine"
)

// Name identifies the driver in logs and reports.
const Name = "go-json"

type source struct {
	data    []byte
	dec     *j.Decoder
	frames  eng.Framer
	checked bool
	err     error
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource {
	dec := j.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return &source{data: b, dec: dec}
}

// Check reports the syntax error of data, if any.
func Check(data []byte) error {
	if j.Valid(data) {
		return nil
	}
	var v any
	if err := j.Unmarshal(data, &v); err != nil {
		return err
	}
	return errInvalid
}

var errInvalid = errors.New("invalid JSON")

func (s *source) NextToken() (eng.Token, error) {
	if !s.checked {
		s.checked = true
		s.err = Check(s.data)
	}
	if s.err != nil {
		return eng.Token{}, s.err
	}
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.frames.Open(true)
			return eng.Token{Kind: eng.KindBeginObject, Offset: -1}, nil
		case '[':
			s.frames.Open(false)
			return eng.Token{Kind: eng.KindBeginArray, Offset: -1}, nil
		case '}':
			s.frames.Close()
			return eng.Token{Kind: eng.KindEndObject, Offset: -1}, nil
		case ']':
			s.frames.Close()
			return eng.Token{Kind: eng.KindEndArray, Offset: -1}, nil
		}
	case string:
		return eng.Token{Kind: s.frames.StringKind(), String: v, Offset: -1}, nil
	case bool:
		s.frames.Value()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.frames.Value()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.frames.Value()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	}
	s.frames.Value()
	return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
}

func (s *source) Location() int64 { return -1 }
