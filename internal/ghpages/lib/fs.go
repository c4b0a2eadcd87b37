package lib

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
)

// ReadBlob reads a file under baseDir and returns its content base64 encoded,
// ready to be sent as a blob. relPath may use either separator.
func ReadBlob(baseDir, relPath string) (encoded string, raw []byte, err error) {
	raw, err = os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(relPath)))
	if err != nil {
		return "", nil, err
	}
	return base64.StdEncoding.EncodeToString(raw), raw, nil
}

// NormalizePrefix turns a destination directory into a tree path prefix:
// empty stays empty, anything else ends in exactly one "/".
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.ReplaceAll(prefix, "\\", "/"), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// TreePath converts a path relative to the base directory into the path it
// will have in the destination tree.
func TreePath(prefix, relPath string) string {
	return prefix + strings.ReplaceAll(filepath.ToSlash(relPath), "\\", "/")
}
