package docvalidate

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

const personSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string"},
    "age": {"type": "integer", "minimum": 0}
  }
}`

func keywords(iss Issues) []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Keyword
	}
	return out
}

func hasKeywordSuffix(iss Issues, suffix string) bool {
	for _, it := range iss {
		if strings.HasSuffix(it.Keyword, suffix) {
			return true
		}
	}
	return false
}

func TestCompileSchema_EmptyMeansNoSchema(t *testing.T) {
	for _, in := range [][]byte{nil, {}, []byte("  \n")} {
		s, err := CompileSchema("s.json", in, SchemaOptions{})
		if err != nil || s != nil {
			t.Fatalf("CompileSchema(%q) = %v, %v; want nil, nil", in, s, err)
		}
	}
	var s *Schema
	iss, err := s.Validate(mustParse(t, "d.json", `{"anything": 1}`))
	if err != nil || len(iss) != 0 {
		t.Fatalf("nil schema must accept everything, got %v %v", iss, err)
	}
}

func TestSchema_ValidateViolations(t *testing.T) {
	s := MustCompileSchema("person.json", []byte(personSchema), SchemaOptions{})
	iss, err := s.Validate(mustParse(t, "d.json", `{"age": -1}`))
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	if len(iss) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(iss), keywords(iss))
	}
	if !hasKeywordSuffix(iss, "/required") || !hasKeywordSuffix(iss, "/properties/age/minimum") {
		t.Fatalf("unexpected keywords: %v", keywords(iss))
	}
	for _, it := range iss {
		if it.Code != CodeSchemaViolation || it.Message == "" {
			t.Fatalf("unexpected issue: %+v", it)
		}
		if strings.HasSuffix(it.Keyword, "/minimum") && it.Path != "/age" {
			t.Fatalf("unexpected path for minimum: %q", it.Path)
		}
	}
}

func TestSchema_ValidateConforming(t *testing.T) {
	s := MustCompileSchema("person.json", []byte(personSchema), SchemaOptions{})
	iss, err := s.Validate(mustParse(t, "d.yaml", "name: Ada\nage: 36\n"))
	if err != nil || len(iss) != 0 {
		t.Fatalf("expected no issues, got %v %v", iss, err)
	}
}

func TestCompileSchema_YAMLSchema(t *testing.T) {
	s, err := CompileSchema("s.yaml", []byte("type: object\nrequired: [id]\n"), SchemaOptions{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	iss, _ := s.Validate(mustParse(t, "d.json", `{}`))
	if len(iss) != 1 || !strings.HasSuffix(iss[0].Keyword, "/required") {
		t.Fatalf("unexpected issues: %v", iss)
	}
}

func TestCompileSchema_Malformed(t *testing.T) {
	cases := map[string]string{
		"syntax":        `{"type": `,
		"metaschema":    `{"type": 12}`,
		"duplicate key": `{"type": "object", "type": "string"}`,
		"bad local ref": `{"$ref": "#/definitions/missing"}`,
	}
	for name, in := range cases {
		_, err := CompileSchema("s.json", []byte(in), SchemaOptions{})
		var se *SchemaError
		if !errors.As(err, &se) {
			t.Fatalf("%s: expected SchemaError, got %T %v", name, err, err)
		}
		if se.Name != "s.json" {
			t.Fatalf("%s: unexpected name %q", name, se.Name)
		}
	}
}

func TestCompileSchema_RejectsRemoteRefs(t *testing.T) {
	for _, ref := range []string{
		"https://example.com/schemas/x.json",
		"http://example.com/x.json#/definitions/a",
		"file:///etc/schema.json",
		"//example.com/x.json",
	} {
		in := `{"properties": {"a": {"$ref": "` + ref + `"}}}`
		_, err := CompileSchema("s.json", []byte(in), SchemaOptions{})
		if !errors.Is(err, ErrRemoteRef) {
			t.Fatalf("%s: expected ErrRemoteRef, got %v", ref, err)
		}
	}
}

func TestCompileSchema_InlineRefs(t *testing.T) {
	in := `{
	  "definitions": {"pos": {"type": "integer", "minimum": 1}},
	  "properties": {"n": {"$ref": "#/definitions/pos"}}
	}`
	s := MustCompileSchema("s.json", []byte(in), SchemaOptions{})
	iss, _ := s.Validate(mustParse(t, "d.json", `{"n": 0}`))
	if len(iss) != 1 || !strings.HasSuffix(iss[0].Keyword, "/minimum") {
		t.Fatalf("unexpected issues: %v", keywords(iss))
	}
}

func TestCompileSchema_ClasspathBundle(t *testing.T) {
	bundle := fstest.MapFS{
		"defs.json":        {Data: []byte(`{"definitions": {"pos": {"type": "integer", "minimum": 1}}}`)},
		"common/name.yaml": {Data: []byte("type: string\nminLength: 2\n")},
	}
	in := `{
	  "properties": {
	    "n": {"$ref": "defs.json#/definitions/pos"},
	    "name": {"$ref": "classpath:/common/name.yaml"}
	  }
	}`
	s, err := CompileSchema("root.json", []byte(in), SchemaOptions{FS: bundle})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	iss, _ := s.Validate(mustParse(t, "d.json", `{"n": 0, "name": "x"}`))
	if len(iss) != 2 {
		t.Fatalf("expected 2 issues, got %v", keywords(iss))
	}
	iss, _ = s.Validate(mustParse(t, "d.json", `{"n": 3, "name": "xy"}`))
	if len(iss) != 0 {
		t.Fatalf("expected no issues, got %v", keywords(iss))
	}
}

func TestCompileSchema_MissingBundleEntry(t *testing.T) {
	in := `{"properties": {"n": {"$ref": "nope.json"}}}`
	_, err := CompileSchema("root.json", []byte(in), SchemaOptions{FS: fstest.MapFS{}})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestCompileSchema_RegisteredResource(t *testing.T) {
	in := `{"properties": {"id": {"$ref": "https://schemas.example.com/id.json"}}}`
	opt := SchemaOptions{Resources: map[string][]byte{
		"https://schemas.example.com/id.json": []byte(`{"type": "string", "pattern": "^u_"}`),
	}}
	s, err := CompileSchema("root.json", []byte(in), opt)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if iss, _ := s.Validate(mustParse(t, "d.json", `{"id": "x"}`)); len(iss) != 1 {
		t.Fatalf("expected pattern violation, got %v", keywords(iss))
	}
}

func TestCompileSchema_Drafts(t *testing.T) {
	// draft-04 treats exclusiveMinimum as a boolean modifier, draft-06+ as a number.
	if _, err := CompileSchema("s.json", []byte(`{"minimum": 1, "exclusiveMinimum": true}`), SchemaOptions{Draft: "4"}); err != nil {
		t.Fatalf("draft 4: unexpected err: %v", err)
	}
	if _, err := CompileSchema("s.json", []byte(`{"exclusiveMinimum": 1}`), SchemaOptions{Draft: "2020-12"}); err != nil {
		t.Fatalf("draft 2020-12: unexpected err: %v", err)
	}
	if _, err := CompileSchema("s.json", []byte(`{}`), SchemaOptions{Draft: "3"}); err == nil {
		t.Fatalf("expected unsupported draft error")
	}
	s := MustCompileSchema("s.json", []byte(`{"$schema": "http://json-schema.org/draft-07/schema#", "const": 1}`), SchemaOptions{})
	if iss, _ := s.Validate(mustParse(t, "d.json", `2`)); len(iss) != 1 {
		t.Fatalf("expected const violation under draft-07, got %v", keywords(iss))
	}
}
