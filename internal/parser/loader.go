package parser

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Loader reads the Makefiles a parse needs and locates included files.
type Loader interface {
	// Load returns the contents of the named file.
	Load(name string) (string, error)
	// Resolve returns the path of name as included from the file from.
	// Relative names are taken relative to the directory of from; an empty
	// from means the top-level file.
	Resolve(from, name string) string
}

// OSLoader reads files from the operating system.
type OSLoader struct{}

// Load implements Loader.
func (OSLoader) Load(name string) (string, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Resolve implements Loader.
func (OSLoader) Resolve(from, name string) string {
	if from == "" || filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(filepath.Dir(from), name)
}

// FSLoader reads files from an fs.FS using slash-separated paths.
type FSLoader struct {
	FS fs.FS
}

// Load implements Loader.
func (l FSLoader) Load(name string) (string, error) {
	data, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Resolve implements Loader. Absolute names are taken relative to the root
// of the file system.
func (FSLoader) Resolve(from, name string) string {
	if from == "" || path.IsAbs(name) {
		return path.Clean(strings.TrimPrefix(name, "/"))
	}
	return path.Join(path.Dir(from), name)
}
