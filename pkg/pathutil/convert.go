// Package pathutil converts between the path forms that cross phpwatch's
// boundaries: absolute paths reported by the analyzer, file:// URIs from
// LSP-style reports, and the project-root-relative forward-slash paths
// that ignore rules are matched against.
package pathutil

import (
	"net/url"
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.php", "/home/user/project") → "src/main.php"
//   - ToRelative("/other/location/file.php", "/home/user/project") → "/other/location/file.php" (outside root)
//   - ToRelative("src/main.php", "/home/user/project") → "src/main.php" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Conversion failed (e.g., different drives on Windows) - return absolute
		return absPath
	}

	// A ".." prefix means the file is outside the root; the absolute
	// path is clearer in that case.
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return relPath
}

// NormalizeSlash converts a platform path to the forward-slash form used
// by ignore-rule matching. Backslashes become slashes and any leading
// "./" runs are stripped.
func NormalizeSlash(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return path
}

// FromFileURI converts a file:// URI to a filesystem path. Non-URI input
// is returned unchanged so callers can feed it plain paths too.
//
// Examples:
//   - "file:///project/src/main.php" → "/project/src/main.php"
//   - "file:///C:/project/main.php" → "C:/project/main.php"
//   - "src/main.php" → "src/main.php"
func FromFileURI(uri string) string {
	const scheme = "file://"
	if !strings.HasPrefix(uri, scheme) {
		return uri
	}

	path := uri[len(scheme):]
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}

	// Windows URIs carry the drive letter after the root slash:
	// file:///C:/project → C:/project.
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}

	return path
}
