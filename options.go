package docvalidate

import (
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/reoring/docvalidate/internal/source/gojson"
	"github.com/reoring/docvalidate/internal/source/stdjson"
)

// JSONDriver selects the tokenizer used for JSON documents.
type JSONDriver int

const (
	DriverGoJSON JSONDriver = iota // github.com/goccy/go-json
	DriverStdlib                   // encoding/json
)

func (d JSONDriver) String() string {
	switch d {
	case DriverStdlib:
		return stdjson.Name
	default:
		return gojson.Name
	}
}

// ParseJSONDriver maps a driver name as accepted on the command line.
func ParseJSONDriver(s string) (JSONDriver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", gojson.Name, "gojson":
		return DriverGoJSON, nil
	case stdjson.Name, "stdlib", "std":
		return DriverStdlib, nil
	default:
		return 0, fmt.Errorf("unknown JSON driver %q", s)
	}
}

// ParseOptions controls decoder strictness.
type ParseOptions struct {
	DetectDuplicateKeys bool // reject repeated keys within one object
	AllowComments       bool // JSON only: "//" and "/* */"
	AllowTrailingComma  bool // JSON only; YAML flow collections accept them natively
	MaxDepth            int  // 0 = unlimited
	JSONDriver          JSONDriver
}

// DefaultParseOptions returns the strict defaults.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{DetectDuplicateKeys: true}
}

// Options holds the configuration captured by New.
type Options struct {
	ParseOptions

	// AllowEmptyFile accepts zero-length input (and content-free documents)
	// without error.
	AllowEmptyFile bool

	// SchemaName is used as the schema's base URL and in error messages. Its
	// extension picks the schema dialect (YAML or JSON).
	SchemaName string
	// Schema holds the schema document; nil disables schema validation.
	Schema []byte
	// Draft is the JSON Schema draft used when the schema has no $schema.
	Draft string
	// SchemaFS resolves classpath: references.
	SchemaFS fs.FS
	// Resources are additional schema documents keyed by URL.
	Resources map[string][]byte

	Logger *slog.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		ParseOptions: DefaultParseOptions(),
		SchemaName:   "schema.json",
		Draft:        "4",
	}
}

// Option configures a Validator.
type Option func(*Options)

// WithOptions replaces the whole configuration.
func WithOptions(o Options) Option {
	return func(dst *Options) { *dst = o }
}

// WithSchema sets the schema document. name selects the dialect and becomes
// the base URL for relative references.
func WithSchema(name string, data []byte) Option {
	return func(o *Options) {
		if name != "" {
			o.SchemaName = name
		}
		o.Schema = data
	}
}

// WithSchemaFS sets the bundle used for classpath: references.
func WithSchemaFS(fsys fs.FS) Option {
	return func(o *Options) { o.SchemaFS = fsys }
}

// WithSchemaResource registers an extra schema document under url.
func WithSchemaResource(url string, data []byte) Option {
	return func(o *Options) {
		if o.Resources == nil {
			o.Resources = make(map[string][]byte)
		}
		o.Resources[url] = data
	}
}

// WithDraft selects the default JSON Schema draft ("4", "6", "7", "2019-09", "2020-12").
func WithDraft(d string) Option {
	return func(o *Options) { o.Draft = d }
}

// WithEmptyFileAllowed toggles acceptance of empty documents.
func WithEmptyFileAllowed(allow bool) Option {
	return func(o *Options) { o.AllowEmptyFile = allow }
}

// WithDuplicateKeyDetection toggles rejection of repeated object keys.
func WithDuplicateKeyDetection(detect bool) Option {
	return func(o *Options) { o.DetectDuplicateKeys = detect }
}

// WithComments toggles comments in JSON documents.
func WithComments(allow bool) Option {
	return func(o *Options) { o.AllowComments = allow }
}

// WithTrailingComma toggles trailing commas in JSON documents.
func WithTrailingComma(allow bool) Option {
	return func(o *Options) { o.AllowTrailingComma = allow }
}

// WithJSONDriver selects the JSON tokenizer.
func WithJSONDriver(d JSONDriver) Option {
	return func(o *Options) { o.JSONDriver = d }
}

// WithMaxDepth bounds document nesting; 0 disables the check.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}
