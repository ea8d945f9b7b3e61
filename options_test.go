package docvalidate

import (
	"testing"
	"testing/fstest"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.AllowEmptyFile || !o.DetectDuplicateKeys || o.AllowComments || o.AllowTrailingComma {
		t.Fatalf("unexpected defaults: %+v", o)
	}
	if o.Schema != nil || o.JSONDriver != DriverGoJSON || o.Draft != "4" {
		t.Fatalf("unexpected defaults: %+v", o)
	}
}

func TestOptions_Apply(t *testing.T) {
	bundle := fstest.MapFS{}
	v := newValidator(t,
		WithSchema("s.yaml", []byte("type: object\n")),
		WithSchemaFS(bundle),
		WithSchemaResource("https://x/a.json", []byte(`{}`)),
		WithDraft("7"),
		WithEmptyFileAllowed(true),
		WithDuplicateKeyDetection(false),
		WithComments(true),
		WithTrailingComma(true),
		WithJSONDriver(DriverStdlib),
		WithMaxDepth(8),
	)
	o := v.Options()
	if !o.AllowEmptyFile || o.DetectDuplicateKeys || !o.AllowComments || !o.AllowTrailingComma {
		t.Fatalf("toggles not applied: %+v", o)
	}
	if o.SchemaName != "s.yaml" || o.Draft != "7" || o.JSONDriver != DriverStdlib || o.MaxDepth != 8 {
		t.Fatalf("settings not applied: %+v", o)
	}
	if len(o.Resources) != 1 {
		t.Fatalf("resource not registered: %v", o.Resources)
	}
	if v.Schema().URL() != "classpath:///s.yaml" {
		t.Fatalf("unexpected schema url %q", v.Schema().URL())
	}
}

func TestParseJSONDriver(t *testing.T) {
	cases := map[string]JSONDriver{
		"":              DriverGoJSON,
		"go-json":       DriverGoJSON,
		"encoding/json": DriverStdlib,
		"STDLIB":        DriverStdlib,
	}
	for in, want := range cases {
		got, err := ParseJSONDriver(in)
		if err != nil || got != want {
			t.Fatalf("ParseJSONDriver(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseJSONDriver("sonic"); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
