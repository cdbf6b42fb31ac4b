// Package filex contains small helpers for working with local image files.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Size returns the byte size of the file at path.
func Size(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return fi.Size(), nil
}

// SplitName splits a file name into its base name and extension (without
// the dot). Files without an extension get an empty ext.
func SplitName(path string) (name, ext string) {
	base := filepath.Base(path)
	e := filepath.Ext(base)
	name = strings.TrimSuffix(base, e)
	ext = strings.TrimPrefix(e, ".")
	return name, ext
}
