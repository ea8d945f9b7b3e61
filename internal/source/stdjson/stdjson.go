// Package stdjson adapts encoding/json's streaming decoder to engine.TokenSource.
package stdjson

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	eng "github.com/reoring/docvalidate/internal/engine"
)

// Name identifies the driver in logs and reports.
const Name = "encoding/json"

type jsonSource struct {
	dec        *json.Decoder
	frames     eng.Framer
	lastOffset int64
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON.
func NewReader(r io.Reader) eng.TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec, lastOffset: -1}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.frames.Open(true)
			return eng.Token{Kind: eng.KindBeginObject, Offset: s.lastOffset}, nil
		case '[':
			s.frames.Open(false)
			return eng.Token{Kind: eng.KindBeginArray, Offset: s.lastOffset}, nil
		case '}':
			s.frames.Close()
			return eng.Token{Kind: eng.KindEndObject, Offset: s.lastOffset}, nil
		case ']':
			s.frames.Close()
			return eng.Token{Kind: eng.KindEndArray, Offset: s.lastOffset}, nil
		}
	case string:
		return eng.Token{Kind: s.frames.StringKind(), String: v, Offset: s.lastOffset}, nil
	case bool:
		s.frames.Value()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: s.lastOffset}, nil
	case json.Number:
		s.frames.Value()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: s.lastOffset}, nil
	case float64:
		s.frames.Value()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: s.lastOffset}, nil
	}
	s.frames.Value()
	return eng.Token{Kind: eng.KindNull, Offset: s.lastOffset}, nil
}

func (s *jsonSource) Location() int64 { return s.lastOffset }
