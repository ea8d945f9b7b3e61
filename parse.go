package docvalidate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	gjson "github.com/goccy/go-json"

	eng "github.com/reoring/docvalidate/internal/engine"
	"github.com/reoring/docvalidate/internal/jsonc"
	"github.com/reoring/docvalidate/internal/source/gojson"
	"github.com/reoring/docvalidate/internal/source/stdjson"
)

// Dialect is the syntax a document is decoded with.
type Dialect int

const (
	DialectJSON Dialect = iota
	DialectYAML
)

func (d Dialect) String() string {
	if d == DialectYAML {
		return "yaml"
	}
	return "json"
}

// DialectFor picks YAML for .yml/.yaml names (any case) and JSON otherwise.
func DialectFor(name string) Dialect {
	switch strings.ToLower(path.Ext(name)) {
	case ".yml", ".yaml":
		return DialectYAML
	default:
		return DialectJSON
	}
}

// Parse decodes data into a Node using the dialect chosen from name. Input
// without any content yields (nil, nil). Failures are *ParseError.
func Parse(data []byte, name string, opt ParseOptions) (*Node, error) {
	var (
		n   *Node
		err error
	)
	if DialectFor(name) == DialectYAML {
		n, err = parseYAML(data, opt)
	} else {
		n, err = parseJSON(data, opt)
	}
	if err != nil {
		return nil, toParseError(name, data, err)
	}
	return n, nil
}

func parseJSON(data []byte, opt ParseOptions) (*Node, error) {
	norm, err := jsonc.Normalize(data, jsonc.Options{
		AllowComments:      opt.AllowComments,
		AllowTrailingComma: opt.AllowTrailingComma,
	})
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(norm)) == 0 {
		return nil, nil
	}
	src := eng.WrapIfNeeded(newJSONSource(opt.JSONDriver, norm), eng.EnforceOptions{
		DetectDuplicates: opt.DetectDuplicateKeys,
		MaxDepth:         opt.MaxDepth,
	})
	tok, err := src.NextToken()
	if err != nil {
		return nil, err
	}
	n, err := decodeNode(src, tok)
	if err != nil {
		return nil, err
	}
	if err := eng.ExpectEOF(src); err != nil {
		return nil, err
	}
	return n, nil
}

func newJSONSource(d JSONDriver, data []byte) eng.TokenSource {
	if d == DriverStdlib {
		return stdjson.NewBytes(data)
	}
	return gojson.NewBytes(data)
}

func decodeNode(src eng.TokenSource, tok eng.Token) (*Node, error) {
	switch tok.Kind {
	case eng.KindBeginObject:
		return decodeObject(src)
	case eng.KindBeginArray:
		return decodeArray(src)
	case eng.KindString:
		return &Node{Kind: KindString, Text: tok.String}, nil
	case eng.KindNumber:
		return &Node{Kind: KindNumber, Text: tok.Number}, nil
	case eng.KindBool:
		return &Node{Kind: KindBool, Text: strconv.FormatBool(tok.Bool)}, nil
	case eng.KindNull:
		return &Node{Kind: KindNull, Text: "null"}, nil
	default:
		return nil, fmt.Errorf("unexpected %s token", tok.Kind)
	}
}

func decodeObject(src eng.TokenSource) (*Node, error) {
	var b objectBuilder
	for {
		tok, err := nextToken(src)
		if err != nil {
			return nil, err
		}
		if tok.Kind == eng.KindEndObject {
			return b.node(), nil
		}
		if tok.Kind != eng.KindKey {
			return nil, fmt.Errorf("unexpected %s token, expecting object key", tok.Kind)
		}
		vt, err := nextToken(src)
		if err != nil {
			return nil, err
		}
		v, err := decodeNode(src, vt)
		if err != nil {
			return nil, err
		}
		b.set(tok.String, v)
	}
}

func decodeArray(src eng.TokenSource) (*Node, error) {
	n := &Node{Kind: KindArray}
	for {
		tok, err := nextToken(src)
		if err != nil {
			return nil, err
		}
		if tok.Kind == eng.KindEndArray {
			return n, nil
		}
		v, err := decodeNode(src, tok)
		if err != nil {
			return nil, err
		}
		n.Items = append(n.Items, v)
	}
}

// nextToken reads inside a container, where EOF is always premature.
func nextToken(src eng.TokenSource) (eng.Token, error) {
	tok, err := src.NextToken()
	if errors.Is(err, io.EOF) {
		return tok, io.ErrUnexpectedEOF
	}
	return tok, err
}

func toParseError(name string, data []byte, err error) *ParseError {
	pe := &ParseError{Name: name, Code: CodeParseError, Err: err}

	var (
		ie  *eng.IssueError
		se  *jsonc.SyntaxError
		jse *json.SyntaxError
		gse *gjson.SyntaxError
		dke *DuplicateKeyError
		de  *depthError
	)
	switch {
	case errors.As(err, &ie):
		pe.Path = ie.Path
		if ie.Offset >= 0 {
			pe.Line, pe.Column = jsonc.Position(data, ie.Offset)
		}
		switch ie.Code {
		case eng.CodeDuplicateKey:
			pe.Code = CodeDuplicateKey
			pe.Err = &DuplicateKeyError{Key: ie.Key, Path: ie.Path}
		case eng.CodeMaxDepth:
			pe.Code = CodeMaxDepth
		}
	case errors.As(err, &se):
		pe.Line, pe.Column = se.Line, se.Column
	case errors.As(err, &jse):
		pe.Line, pe.Column = jsonc.Position(data, jse.Offset)
	case errors.As(err, &gse):
		pe.Line, pe.Column = jsonc.Position(data, gse.Offset)
	case errors.As(err, &dke):
		pe.Code = CodeDuplicateKey
		pe.Path = dke.Path
		pe.Line, pe.Column = dke.Line, dke.Col
	case errors.As(err, &de):
		pe.Code = CodeMaxDepth
		pe.Path = de.path
		pe.Line, pe.Column = de.line, de.col
	}
	return pe
}
