package docvalidate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/docvalidate/internal/engine"
)

// parseYAML decodes the first document of a YAML stream through yaml.Node so
// that key order and positions survive and duplicate keys can be detected.
func parseYAML(data []byte, opt ParseOptions) (*Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	doc := root.Content[0]
	// A bare "---" yields an implicit null; treat it as no content.
	if doc.Kind == yaml.ScalarNode && doc.Tag == "!!null" && doc.Value == "" {
		return nil, nil
	}
	c := &yamlConverter{opt: opt, expanding: map[*yaml.Node]bool{}}
	return c.convert(doc, "", 1)
}

type depthError struct {
	path      string
	line, col int
	max       int
}

func (e *depthError) Error() string {
	return fmt.Sprintf("max depth %d exceeded at %s", e.max, pointerOrRoot(e.path))
}

// yamlConverter turns a yaml.Node tree into a Node tree. Aliases are
// expanded in place, bounded the same way yaml.v3 bounds decoding into Go
// values: an anchor may not contain itself, and the share of nodes produced
// by alias expansion may not exceed allowedAliasRatio.
type yamlConverter struct {
	opt ParseOptions

	expanding  map[*yaml.Node]bool
	aliasDepth int
	decoded    int
	aliased    int
}

const (
	aliasRatioRangeLow  = 400000
	aliasRatioRangeHigh = 4000000
	aliasRatioRange     = float64(aliasRatioRangeHigh - aliasRatioRangeLow)
)

// allowedAliasRatio mirrors yaml.v3: small documents may consist almost
// entirely of aliased nodes, large ones progressively less.
func allowedAliasRatio(decoded int) float64 {
	switch {
	case decoded <= aliasRatioRangeLow:
		return 0.99
	case decoded >= aliasRatioRangeHigh:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(decoded-aliasRatioRangeLow)/aliasRatioRange)
	}
}

func (c *yamlConverter) convert(n *yaml.Node, ptr string, depth int) (*Node, error) {
	c.decoded++
	if c.aliasDepth > 0 {
		c.aliased++
	}
	if c.aliased > 100 && c.decoded > 1000 && float64(c.aliased)/float64(c.decoded) > allowedAliasRatio(c.decoded) {
		return nil, fmt.Errorf("line %d: document contains excessive aliasing", n.Line)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return &Node{Kind: KindNull, Text: "null"}, nil
		}
		return c.convert(n.Content[0], ptr, depth)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown alias %q", n.Line, n.Value)
		}
		if c.expanding[n.Alias] {
			return nil, fmt.Errorf("line %d: anchor %q value contains itself", n.Line, n.Value)
		}
		c.expanding[n.Alias] = true
		c.aliasDepth++
		v, err := c.convert(n.Alias, ptr, depth)
		c.aliasDepth--
		delete(c.expanding, n.Alias)
		return v, err
	case yaml.MappingNode:
		if err := c.checkDepth(n, ptr, depth); err != nil {
			return nil, err
		}
		var b objectBuilder
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
			}
			key := k.Value
			kptr := ptr + "/" + eng.EscapePointerToken(key)
			if pos, dup := first[key]; dup && c.opt.DetectDuplicateKeys {
				return nil, &DuplicateKeyError{Key: key, Path: kptr, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[key] = [2]int{k.Line, k.Column}
			val, err := c.convert(v, kptr, depth+1)
			if err != nil {
				return nil, err
			}
			b.set(key, val)
		}
		return b.node(), nil
	case yaml.SequenceNode:
		if err := c.checkDepth(n, ptr, depth); err != nil {
			return nil, err
		}
		arr := &Node{Kind: KindArray, Items: make([]*Node, 0, len(n.Content))}
		for i, it := range n.Content {
			v, err := c.convert(it, ptr+"/"+strconv.Itoa(i), depth+1)
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return yamlScalar(n), nil
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}

func (c *yamlConverter) checkDepth(n *yaml.Node, ptr string, depth int) error {
	if c.opt.MaxDepth > 0 && depth > c.opt.MaxDepth {
		return &depthError{path: ptr, line: n.Line, col: n.Column, max: c.opt.MaxDepth}
	}
	return nil
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// yamlScalar canonicalises a resolved YAML scalar. Numbers already written as
// JSON numbers keep their text; other spellings (hex, octal, underscores,
// leading "+") are rewritten. Non-finite floats have no JSON form and stay
// strings.
func yamlScalar(n *yaml.Node) *Node {
	switch n.ShortTag() {
	case "!!null":
		return &Node{Kind: KindNull, Text: "null"}
	case "!!bool":
		if b, err := strconv.ParseBool(n.Value); err == nil {
			return &Node{Kind: KindBool, Text: strconv.FormatBool(b)}
		}
		return &Node{Kind: KindBool, Text: strings.ToLower(n.Value)}
	case "!!int":
		if jsonNumber.MatchString(n.Value) {
			return &Node{Kind: KindNumber, Text: n.Value}
		}
		if i, ok := new(big.Int).SetString(strings.TrimPrefix(n.Value, "+"), 0); ok {
			return &Node{Kind: KindNumber, Text: i.String()}
		}
	case "!!float":
		if jsonNumber.MatchString(n.Value) {
			return &Node{Kind: KindNumber, Text: n.Value}
		}
		if f, err := strconv.ParseFloat(strings.ReplaceAll(n.Value, "_", ""), 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return &Node{Kind: KindNumber, Text: strconv.FormatFloat(f, 'g', -1, 64)}
		}
	}
	return &Node{Kind: KindString, Text: n.Value}
}
