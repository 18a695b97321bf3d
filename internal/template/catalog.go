package template

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
)

// FallbackKey names the template used when nothing else matches.
const FallbackKey = "generic"

//go:embed templates/*.json
var builtinFS embed.FS

var builtins = mustLoadBuiltins()

func mustLoadBuiltins() map[string]*Template {
	out, err := loadBuiltins()
	if err != nil {
		panic(err)
	}
	return out
}

func loadBuiltins() (map[string]*Template, error) {
	entries, err := builtinFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Template, len(entries))
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("templates", e.Name()))
		if err != nil {
			return nil, err
		}
		t, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		if errs := Validate(t); len(errs) > 0 {
			return nil, fmt.Errorf("%s: %w", e.Name(), errors.Join(errs...))
		}
		out[t.Key] = t
	}
	if _, ok := out[FallbackKey]; !ok {
		return nil, fmt.Errorf("builtin template %q missing", FallbackKey)
	}
	return out, nil
}

// Get returns a copy of the builtin template for key.
func Get(key string) (*Template, bool) {
	t, ok := builtins[key]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Lookup returns the template for key, or the fallback template when key is
// unknown. It never returns nil.
func Lookup(key string) *Template {
	if t, ok := builtins[key]; ok {
		return t.Clone()
	}
	return builtins[FallbackKey].Clone()
}

// Keys lists builtin template keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(builtins))
	for k := range builtins {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns copies of the builtin templates ordered by key.
func All() []*Template {
	keys := Keys()
	out := make([]*Template, len(keys))
	for i, k := range keys {
		out[i] = builtins[k].Clone()
	}
	return out
}
