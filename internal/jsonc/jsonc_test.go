package jsonc

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNormalize_Table(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		opt     Options
		wantErr string
	}{
		{name: "plain", in: `{"a":[1,2]}`},
		{name: "line comment allowed", in: "{\"a\":1 // note\n}", opt: Options{AllowComments: true}},
		{name: "block comment allowed", in: `{/* c */"a":1}`, opt: Options{AllowComments: true}},
		{name: "comment rejected", in: "{\"a\":1 // note\n}", wantErr: "comments are not allowed"},
		{name: "unterminated block", in: `{"a":1 /* x`, opt: Options{AllowComments: true}, wantErr: "unterminated block comment"},
		{name: "trailing comma object", in: `{"a":1,}`, opt: Options{AllowTrailingComma: true}},
		{name: "trailing comma array", in: `[1,2 , ]`, opt: Options{AllowTrailingComma: true}},
		{name: "trailing comma rejected", in: `[1,2,]`, wantErr: "trailing comma is not allowed"},
		{name: "trailing comma before comment", in: "[1, // last\n]", opt: Options{AllowComments: true, AllowTrailingComma: true}},
		{name: "empty array with comma", in: `[,]`, opt: Options{AllowTrailingComma: true}, wantErr: "comma without a preceding value"},
		{name: "empty object with comma", in: `{,}`, opt: Options{AllowTrailingComma: true}, wantErr: "comma without a preceding value"},
		{name: "nested empty array with comma", in: `{"a":[,]}`, opt: Options{AllowTrailingComma: true}, wantErr: "comma without a preceding value"},
		{name: "double comma", in: `[1,,]`, opt: Options{AllowTrailingComma: true}, wantErr: "comma without a preceding value"},
		{name: "comma after colon", in: `{"a":,}`, opt: Options{AllowTrailingComma: true}, wantErr: "comma without a preceding value"},
		{name: "comma after comment only", in: "[/* x */,]", opt: Options{AllowComments: true, AllowTrailingComma: true}, wantErr: "comma without a preceding value"},
		{name: "trailing comma after string", in: `["a",]`, opt: Options{AllowTrailingComma: true}},
		{name: "trailing comma after nested", in: `{"a":[1],"b":{},}`, opt: Options{AllowTrailingComma: true}},
		{name: "slashes in strings", in: `{"url":"http://x/*y*/","c":"a,]"}`},
		{name: "escaped quote", in: `{"q":"say \"//hi\""}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Normalize([]byte(tc.in), tc.opt)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected error %q, got %v", tc.wantErr, err)
				}
				var se *SyntaxError
				if !errors.As(err, &se) || se.Line < 1 || se.Column < 1 {
					t.Fatalf("expected positioned SyntaxError, got %T %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(out) != len(tc.in) {
				t.Fatalf("length changed: %d -> %d", len(tc.in), len(out))
			}
			if !json.Valid(out) {
				t.Fatalf("normalized output is not JSON: %q", out)
			}
		})
	}
}

func TestNormalize_KeepsStringContent(t *testing.T) {
	in := `{"url":"http://x/*y*/"}`
	out, err := Normalize([]byte(in), Options{AllowComments: true, AllowTrailingComma: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if string(out) != in {
		t.Fatalf("string content modified: %q", out)
	}
}

func TestNormalize_PreservesLineBreaks(t *testing.T) {
	in := "{/* a\nb */\"k\":1}"
	out, err := Normalize([]byte(in), Options{AllowComments: true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if strings.Count(string(out), "\n") != 1 {
		t.Fatalf("line break lost: %q", out)
	}
}

func TestPosition(t *testing.T) {
	data := []byte("ab\ncde\nf")
	cases := []struct {
		off       int64
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{5, 2, 3},
		{7, 3, 1},
		{-4, 1, 1},
		{100, 3, 2},
	}
	for _, tc := range cases {
		l, c := Position(data, tc.off)
		if l != tc.line || c != tc.col {
			t.Fatalf("Position(%d) = %d:%d, want %d:%d", tc.off, l, c, tc.line, tc.col)
		}
	}
}
