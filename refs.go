package docvalidate

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"
)

// classpathScheme names schemas resolved from the local bundle.
const classpathScheme = "classpath"

// refLoader resolves reference targets the compiler has not seen yet. Only
// the local bundle is consulted; every other scheme is refused so that
// compilation never touches the network or the wider file system.
type refLoader struct {
	fsys  fs.FS
	local map[string]bool // URLs registered as extra resources
}

// resource parses a schema document with strict settings, rejects remote
// references and re-encodes it as plain JSON for the compiler.
func (l refLoader) resource(name string, data []byte) ([]byte, error) {
	n, err := Parse(data, name, DefaultParseOptions())
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, ErrEmptySchema
	}
	doc := n.Interface()
	if err := l.checkRefs(doc, ""); err != nil {
		return nil, err
	}
	return gojson.Marshal(doc)
}

func (l refLoader) load(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnresolvedRef, s, err)
	}
	if u.Scheme != classpathScheme || u.Host != "" {
		return nil, fmt.Errorf("%w: %s", ErrRemoteRef, s)
	}
	if l.fsys == nil {
		return nil, fmt.Errorf("%w: %s (no schema bundle configured)", ErrUnresolvedRef, s)
	}
	p := strings.TrimPrefix(u.Path, "/")
	if u.Opaque != "" {
		p = strings.TrimPrefix(u.Opaque, "/")
	}
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnresolvedRef, s, err)
	}
	doc, err := l.resource(p, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s, err)
	}
	return io.NopCloser(bytes.NewReader(doc)), nil
}

// checkRefs walks a decoded schema and rejects $ref values that name a
// remote scheme. Relative and fragment-only references are left to the
// compiler, which resolves them through refLoader.
func (l refLoader) checkRefs(v any, ptr string) error {
	switch t := v.(type) {
	case map[string]any:
		if ref, ok := t["$ref"].(string); ok {
			if err := l.checkRef(ref); err != nil {
				return fmt.Errorf("%s/$ref: %w", ptr, err)
			}
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := l.checkRefs(t[k], ptr+"/"+k); err != nil {
				return err
			}
		}
	case []any:
		for i, it := range t {
			if err := l.checkRefs(it, fmt.Sprintf("%s/%d", ptr, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l refLoader) checkRef(ref string) error {
	u, err := url.Parse(ref)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnresolvedRef, ref, err)
	}
	switch {
	case l.local[stripFragment(ref)]:
		return nil
	case u.Host != "":
		return fmt.Errorf("%w: %s", ErrRemoteRef, ref)
	case u.Scheme == "", u.Scheme == classpathScheme:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrRemoteRef, ref)
	}
}

func stripFragment(u string) string {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i]
	}
	return u
}
