// Package yamlfile loads recipes written in YAML (and therefore JSON).
package yamlfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/devicefarm/internal/config"
	"github.com/specialistvlad/devicefarm/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

var _ config.Loader = (*Loader)(nil)

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML recipe loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the file at path.
func (l *Loader) Load(ctx context.Context, path string) (any, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML recipe %s: %w", path, err)
	}
	return l.Parse(ctx, src, path)
}

// Parse decodes a single YAML document.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (any, error) {
	var out any
	dec := yaml.NewDecoder(bytes.NewReader(src))
	if err := dec.Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("YAML recipe %s is empty", filename)
		}
		return nil, fmt.Errorf("failed to parse YAML recipe %s: %w", filename, err)
	}
	out, err := normalize(out)
	if err != nil {
		return nil, fmt.Errorf("YAML recipe %s: %w", filename, err)
	}
	ctxlog.FromContext(ctx).Debug("YAML recipe parsed.", "file", filename)
	return out, nil
}

// normalize converts any mapping with non-string keys so that every mapping
// in the result is a map[string]any.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, el := range t {
			n, err := normalize(el)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, el := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			n, err := normalize(el)
			if err != nil {
				return nil, err
			}
			out[ks] = n
		}
		return out, nil
	case []any:
		for i, el := range t {
			n, err := normalize(el)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	default:
		return v, nil
	}
}
