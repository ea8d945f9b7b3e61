package docvalidate

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaOptions controls schema compilation.
type SchemaOptions struct {
	Draft     string
	FS        fs.FS             // resolves classpath: references
	Resources map[string][]byte // extra documents keyed by URL
}

// Schema is a compiled JSON Schema. It is immutable and safe for concurrent
// use. A nil *Schema accepts every document.
type Schema struct {
	name     string
	url      string
	validate func(v any) error // (*jsonschema.Schema).Validate
}

// Name returns the name the schema was compiled under.
func (s *Schema) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// URL returns the base URL the schema was registered with.
func (s *Schema) URL() string {
	if s == nil {
		return ""
	}
	return s.url
}

// CompileSchema compiles a JSON (or, by extension, YAML) schema document.
// Empty data yields (nil, nil). Every reference must resolve from the schema
// itself, from opt.Resources or from opt.FS; nothing is fetched remotely.
func CompileSchema(name string, data []byte, opt SchemaOptions) (*Schema, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if name == "" {
		name = "schema.json"
	}
	draft, err := draftFor(opt.Draft)
	if err != nil {
		return nil, &SchemaError{Name: name, Err: err}
	}

	local := make(map[string]bool, len(opt.Resources))
	for u := range opt.Resources {
		local[stripFragment(u)] = true
	}
	loader := refLoader{fsys: opt.FS, local: local}

	c := jsonschema.NewCompiler()
	c.Draft = draft
	c.LoadURL = loader.load

	for u, raw := range opt.Resources {
		doc, err := loader.resource(u, raw)
		if err != nil {
			return nil, &SchemaError{Name: name, Err: err}
		}
		if err := c.AddResource(u, bytes.NewReader(doc)); err != nil {
			return nil, &SchemaError{Name: name, Err: err}
		}
	}

	url := classpathScheme + ":///" + path.Base(name)
	doc, err := loader.resource(name, data)
	if err != nil {
		return nil, &SchemaError{Name: name, Err: err}
	}
	if err := c.AddResource(url, bytes.NewReader(doc)); err != nil {
		return nil, &SchemaError{Name: name, Err: err}
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, &SchemaError{Name: name, Err: err}
	}
	return &Schema{name: name, url: url, validate: compiled.Validate}, nil
}

// MustCompileSchema is like CompileSchema but panics on error.
func MustCompileSchema(name string, data []byte, opt SchemaOptions) *Schema {
	s, err := CompileSchema(name, data, opt)
	if err != nil {
		panic(err)
	}
	return s
}

func draftFor(v string) (*jsonschema.Draft, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(v)), "draft-") {
	case "", "4", "04":
		return jsonschema.Draft4, nil
	case "6", "06":
		return jsonschema.Draft6, nil
	case "7", "07":
		return jsonschema.Draft7, nil
	case "2019-09", "2019":
		return jsonschema.Draft2019, nil
	case "2020-12", "2020":
		return jsonschema.Draft2020, nil
	default:
		return nil, fmt.Errorf("unsupported JSON Schema draft %q", v)
	}
}

// Validate checks n against the schema. Content violations come back as
// Issues, one per leaf cause in the order the validator reports them. Any
// other error is an internal fault of the validation step.
func (s *Schema) Validate(n *Node) (Issues, error) {
	if s == nil {
		return nil, nil
	}
	err := s.validate(n.Interface())
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, err
	}
	iss := leafIssues(ve, nil)
	if len(iss) == 0 {
		iss = Issues{{Path: pointerOrRoot(ve.InstanceLocation), Code: CodeSchemaViolation, Message: ve.Message, Keyword: ve.KeywordLocation}}
	}
	return iss, nil
}

func leafIssues(ve *jsonschema.ValidationError, out Issues) Issues {
	if len(ve.Causes) == 0 {
		return append(out, Issue{
			Path:    pointerOrRoot(ve.InstanceLocation),
			Code:    CodeSchemaViolation,
			Message: ve.Message,
			Keyword: ve.KeywordLocation,
		})
	}
	for _, c := range ve.Causes {
		out = leafIssues(c, out)
	}
	return out
}
