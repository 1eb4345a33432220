// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FindFilesByExtension recursively searches root for files whose lower-cased
// extension is one of exts. Paths are returned in lexical order.
func FindFilesByExtension(root string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		panic("at least one extension is required")
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && slices.Contains(exts, strings.ToLower(filepath.Ext(d.Name()))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// ResolveSingle returns path unchanged when it is a file. When it is a
// directory, it returns the one file below it with a matching extension and
// fails if there are none or several.
func ResolveSingle(path string, exts ...string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return path, nil
	}

	files, err := FindFilesByExtension(path, exts...)
	if err != nil {
		return "", err
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("no file with extension %s found in %s", strings.Join(exts, ", "), path)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("found %d candidate files in %s, expected one: %s", len(files), path, strings.Join(files, ", "))
	}
}
