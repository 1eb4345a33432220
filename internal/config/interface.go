package config

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// ErrUnsupportedFormat is returned for a recipe file whose extension has no Loader.
var ErrUnsupportedFormat = errors.New("unsupported recipe format")

// Loader is the interface for a format-specific recipe loader.
type Loader interface {
	// Load reads the recipe at path and returns it as nested []any and
	// map[string]any values with string, float64/int, and bool leaves.
	Load(ctx context.Context, path string) (any, error)
}

// Mux dispatches to a Loader by lower-cased file extension, including the dot.
type Mux map[string]Loader

// Load implements Loader.
func (m Mux) Load(ctx context.Context, path string) (any, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := m[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, path, strings.Join(m.Extensions(), ", "))
	}
	return l.Load(ctx, path)
}

// Extensions lists the handled extensions in sorted order.
func (m Mux) Extensions() []string {
	return slices.Sorted(maps.Keys(m))
}
