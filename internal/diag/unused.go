package diag

import "strings"

// The literal message shapes intelephense emits for unused symbols.
// The symbol name is the quoted token between prefix and suffix.
var unusedShapes = []struct {
	prefix string
	suffix string
}{
	{"Variable '", "' is declared but not used."},
	{"Method '", "' is declared but never used."},
	{"Function '", "' is declared but never used."},
}

// ParseUnusedSymbol extracts the symbol name from an unused-symbol
// diagnostic message. Returns false for any other message shape or when
// the quoted name is empty.
func ParseUnusedSymbol(message string) (string, bool) {
	for _, shape := range unusedShapes {
		if !strings.HasPrefix(message, shape.prefix) || !strings.HasSuffix(message, shape.suffix) {
			continue
		}
		name := message[len(shape.prefix) : len(message)-len(shape.suffix)]
		if name == "" {
			return "", false
		}
		return name, true
	}
	return "", false
}

// ShouldSuppressUnused reports whether an unused-symbol diagnostic for
// the given declared name should be dropped. The convention is a
// leading underscore; PHP variable names carry a "$" sigil which is
// stripped before the check. An empty or unextractable name is never
// suppressed — fail open and show the diagnostic. The rule does not
// distinguish symbol kind.
func ShouldSuppressUnused(symbolName string, underscoreIgnore bool) bool {
	if !underscoreIgnore {
		return false
	}
	name := strings.TrimPrefix(symbolName, "$")
	return strings.HasPrefix(name, "_")
}
