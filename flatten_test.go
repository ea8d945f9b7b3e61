package docvalidate

import (
	"reflect"
	"testing"
)

func mustParse(t *testing.T, name, in string) *Node {
	t.Helper()
	n, err := Parse([]byte(in), name, DefaultParseOptions())
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	return n
}

func TestFlatten_Paths(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want map[string]string
	}{
		{"nested object", `{"a": {"b": 1}}`, map[string]string{"a.b": "1"}},
		{"array", `{"a": [10, 20]}`, map[string]string{"a[0]": "10", "a[1]": "20"}},
		{"empty object", `{}`, map[string]string{}},
		{"empty containers", `{"a": [], "b": {}}`, map[string]string{}},
		{"root array", `[1, [2, {"x": "y"}]]`, map[string]string{"[0]": "1", "[1][0]": "2", "[1][1].x": "y"}},
		{"root scalar", `"hello"`, map[string]string{"": "hello"}},
		{"scalars", `{"s": "t", "n": -1.5e3, "b": false, "z": null}`, map[string]string{"s": "t", "n": "-1.5e3", "b": "false", "z": "null"}},
		{"dotted keys", `{"a.b": {"c": 1}}`, map[string]string{"a.b.c": "1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Flatten(mustParse(t, "doc.json", tc.in))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Flatten(%s) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFlatten_Nil(t *testing.T) {
	if got := Flatten(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestFlatten_YAMLMatchesJSON(t *testing.T) {
	j := Flatten(mustParse(t, "doc.json", `{"spec": {"ports": [{"port": 80}, {"port": 443}], "name": "web"}}`))
	y := Flatten(mustParse(t, "doc.yaml", "spec:\n  ports:\n    - port: 80\n    - port: 443\n  name: web\n"))
	if !reflect.DeepEqual(j, y) {
		t.Fatalf("json %v != yaml %v", j, y)
	}
}

func TestFlattenOrdered_DocumentOrder(t *testing.T) {
	items := FlattenOrdered(mustParse(t, "doc.json", `{"z": 1, "a": [true, {"m": "x"}], "b": null}`))
	want := []FlatItem{
		{"z", "1"},
		{"a[0]", "true"},
		{"a[1].m", "x"},
		{"b", "null"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("got %v, want %v", items, want)
	}
}

func TestFlatten_LeafCountMatchesPaths(t *testing.T) {
	n := mustParse(t, "doc.json", `{"a": {"b": [1, 2, 3], "c": "d"}, "e": [[true], [false]]}`)
	flat := Flatten(n)
	ordered := FlattenOrdered(n)
	if len(flat) != len(ordered) || len(flat) != 6 {
		t.Fatalf("expected 6 distinct leaves, got map=%d ordered=%d", len(flat), len(ordered))
	}
	for _, it := range ordered {
		if flat[it.Path] != it.Value {
			t.Fatalf("mismatch at %s: %q vs %q", it.Path, flat[it.Path], it.Value)
		}
	}
}
