package docvalidate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/reoring/docvalidate/internal/ctxlog"
)

// Validator parses documents, checks them against an optional schema and
// flattens them. Its state is fixed by New, so one Validator may serve
// concurrent Validate calls.
type Validator struct {
	opts   Options
	schema *Schema
	log    *slog.Logger
}

// New builds a Validator. An invalid schema is a construction error
// (*SchemaError); there is no partially working Validator.
func New(opts ...Option) (*Validator, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	schema, err := CompileSchema(o.SchemaName, o.Schema, SchemaOptions{
		Draft:     o.Draft,
		FS:        o.SchemaFS,
		Resources: o.Resources,
	})
	if err != nil {
		return nil, err
	}
	v := &Validator{opts: o, schema: schema, log: o.Logger}
	ctxlog.FromContext(context.Background(), v.log).Debug("validator ready",
		"schema", schema.URL(),
		"driver", o.JSONDriver.String(),
		"allowEmptyFile", o.AllowEmptyFile,
		"detectDuplicateKeys", o.DetectDuplicateKeys,
	)
	return v, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Validator {
	v, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Schema returns the compiled schema, nil when none was configured.
func (v *Validator) Schema() *Schema { return v.schema }

// Options returns a copy of the configuration.
func (v *Validator) Options() Options { return v.opts }

// Validate checks one document. It never panics; every failure ends up in
// the returned Result.
func (v *Validator) Validate(ctx context.Context, name string, data []byte) *Result {
	log := ctxlog.FromContext(ctx, v.log).With("document", name)
	res := newResult(name)

	if v.opts.AllowEmptyFile && len(data) == 0 {
		log.Debug("empty document accepted")
		return res
	}

	doc, err := Parse(data, name, v.opts.ParseOptions)
	if err != nil {
		code, path := CodeParseError, ""
		if pe, ok := AsParseError(err); ok {
			code, path = pe.Code, pe.Path
		}
		res.addf(code, pointerOrRoot(path), "Error while parsing file %s: %v", name, err)
		res.encounteredError()
		log.Debug("parse failed", "error", err)
		return res
	}
	if doc == nil {
		if !v.opts.AllowEmptyFile {
			res.addf(CodeEmptyDocument, "/", "Empty file is not valid: %s", name)
			res.encounteredError()
		}
		return res
	}

	v.validateAgainstSchema(log, doc, res)
	res.FlatOrder = FlattenOrdered(doc)
	for _, it := range res.FlatOrder {
		res.FlatItems[it.Path] = it.Value
	}
	log.Debug("document validated", "hasError", res.HasError(), "messages", len(res.Messages), "items", len(res.FlatItems))
	return res
}

func (v *Validator) validateAgainstSchema(log *slog.Logger, doc *Node, res *Result) {
	if v.schema == nil {
		return
	}
	iss, err := v.safeValidate(doc)
	if err != nil {
		res.addIssue(Issue{Path: "/", Code: CodeSchemaFault, Message: err.Error()}, err.Error())
		res.encounteredError()
		log.Warn("schema validation fault", "error", err)
		return
	}
	if len(iss) > 0 {
		res.encounteredError()
	}
	for _, it := range iss {
		res.addIssue(it, fmt.Sprintf("%s: %s (%s)", it.Path, it.Message, it.Keyword))
	}
}

// safeValidate turns a panic inside the schema library into a fault.
func (v *Validator) safeValidate(doc *Node) (iss Issues, err error) {
	defer func() {
		if p := recover(); p != nil {
			iss, err = nil, fmt.Errorf("schema validation panicked: %v", p)
		}
	}()
	return v.schema.Validate(doc)
}

// ValidateReader reads r fully and validates the content.
func (v *Validator) ValidateReader(ctx context.Context, name string, r io.Reader) *Result {
	data, err := io.ReadAll(r)
	if err != nil {
		return v.ioFailure(ctx, name, err)
	}
	return v.Validate(ctx, name, data)
}

// ValidateFile validates the file at path. The file is closed before
// ValidateFile returns, whatever the outcome.
func (v *Validator) ValidateFile(ctx context.Context, path string) *Result {
	f, err := os.Open(path)
	if err != nil {
		return v.ioFailure(ctx, path, err)
	}
	defer f.Close()

	if v.opts.AllowEmptyFile {
		if st, err := f.Stat(); err == nil && st.Size() == 0 {
			return newResult(path)
		}
	}
	return v.ValidateReader(ctx, path, f)
}

func (v *Validator) ioFailure(ctx context.Context, name string, err error) *Result {
	res := newResult(name)
	res.addf(CodeIOError, "/", "Error while parsing file %s: %v", name, err)
	res.encounteredError()
	ctxlog.FromContext(ctx, v.log).Debug("read failed", "document", name, "error", err)
	return res
}

// IsSchemaError reports whether err is a schema construction failure.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
