// Package credentials assembles the farm client configuration from the
// environment, an optional credentials file and recipe overrides.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
	"gopkg.in/yaml.v3"
)

// Recognized keys, identical in every source.
const (
	KeyURL      = "TESTDROID_URL"
	KeyUsername = "TESTDROID_USERNAME"
	KeyPassword = "TESTDROID_PASSWORD"
	KeyAPIKey   = "TESTDROID_APIKEY"
)

var keys = []string{KeyURL, KeyUsername, KeyPassword, KeyAPIKey}

// Error is a credential problem. It is always fatal.
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("credentials (%s): %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Sources lists where credentials come from, lowest precedence first.
type Sources struct {
	// LookupEnv reads the environment. Nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// File is an optional YAML or TOML credentials file.
	File string
	// Overrides are TESTDROID_* keys taken from the recipe directive.
	Overrides map[string]string
}

// Load merges the sources and validates the result.
func Load(src Sources) (*testdroid.Config, error) {
	lookup := src.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	values := make(map[string]string)
	for _, k := range keys {
		if v, ok := lookup(k); ok && v != "" {
			values[k] = v
		}
	}

	if src.File != "" {
		fromFile, err := ReadFile(src.File)
		if err != nil {
			return nil, err
		}
		merge(values, fromFile)
	}
	merge(values, src.Overrides)

	cfg := &testdroid.Config{
		URL:      values[KeyURL],
		Username: values[KeyUsername],
		Password: values[KeyPassword],
		APIKey:   values[KeyAPIKey],
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Source: "merged", Err: err}
	}
	return cfg, nil
}

func merge(dst, src map[string]string) {
	for k, v := range src {
		if v != "" {
			dst[k] = v
		}
	}
}

// ReadFile reads a credentials file. TOML files hold the keys at the top
// level; YAML files hold a mapping or a list of single-key mappings.
func ReadFile(path string) (map[string]string, error) {
	var raw any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var m map[string]any
		if _, err := toml.DecodeFile(path, &m); err != nil {
			return nil, &Error{Source: path, Err: err}
		}
		raw = m
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Source: path, Err: err}
		}
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return nil, &Error{Source: path, Err: err}
		}
	default:
		return nil, &Error{Source: path, Err: errors.New("credentials file must be .toml, .yaml or .yml")}
	}

	out := make(map[string]string)
	if err := flatten(raw, out); err != nil {
		return nil, &Error{Source: path, Err: err}
	}
	return out, nil
}

func flatten(v any, out map[string]string) error {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		for k, val := range t {
			if !isKnown(k) {
				return fmt.Errorf("unknown key %q", k)
			}
			out[k] = fmt.Sprint(val)
		}
		return nil
	case []any:
		for _, el := range t {
			if err := flatten(el, out); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("expected a mapping or a list of mappings, got %T", v)
	}
}

func isKnown(k string) bool {
	for _, known := range keys {
		if k == known {
			return true
		}
	}
	return false
}
