package ignore

import (
	"strings"

	"github.com/phpwatch/phpwatch/pkg/pathutil"
)

// NormalizePath converts a candidate path to the canonical form rules
// are matched against: forward slashes only, no "./" prefix, no leading
// or trailing slash. Making the path relative to the project root is
// the caller's job (pathutil.ToRelative).
func NormalizePath(path string) string {
	path = pathutil.NormalizeSlash(path)
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	return path
}
