package diag

import (
	"strings"

	"github.com/phpwatch/phpwatch/internal/ignore"
	"github.com/phpwatch/phpwatch/pkg/pathutil"
)

// Filter returns the diagnostics that survive the ignore rules and the
// underscore suppression rule, in input order. The transformation is
// pure: no I/O, nothing held across calls, same inputs produce the same
// output. Filtering an already-filtered sequence is a no-op.
func Filter(diags []Diagnostic, set *ignore.RuleSet, underscoreIgnore bool, projectRoot string) []Diagnostic {
	if len(diags) == 0 {
		return diags
	}

	retained := make([]Diagnostic, 0, len(diags))
	for _, d := range diags {
		if Decide(d, set, underscoreIgnore, projectRoot).Retain {
			retained = append(retained, d)
		}
	}
	return retained
}

// Decide evaluates one diagnostic against both suppression rules.
// Path-based ignoring is checked first: it is the cheap short-circuit
// and takes precedence, so a path-ignored unused diagnostic reports
// ReasonPathIgnored.
func Decide(d Diagnostic, set *ignore.RuleSet, underscoreIgnore bool, projectRoot string) FilterDecision {
	if relPath, inRoot := relativeTo(d.FilePath, projectRoot); inRoot && set.MatchesAny(relPath) {
		return FilterDecision{Retain: false, Reason: ReasonPathIgnored}
	}

	if name, ok := unusedSymbol(d); ok && ShouldSuppressUnused(name, underscoreIgnore) {
		return FilterDecision{Retain: false, Reason: ReasonUnderscoreSymbol}
	}

	return FilterDecision{Retain: true, Reason: ReasonNone}
}

// relativeTo resolves a diagnostic path against the project root. The
// platform-aware conversion runs first; the textual fallback covers
// paths the host filepath package cannot resolve, such as Windows drive
// paths in a report processed on another OS. A path that stays absolute
// after both is outside the root: it reports inRoot false and must not
// be matched against the ignore rules, otherwise "/vendor/lib.php"
// would be suppressed by a "vendor/**" rule that was written for the
// project's own vendor directory.
func relativeTo(filePath, projectRoot string) (relPath string, inRoot bool) {
	rel := pathutil.NormalizeSlash(pathutil.ToRelative(filePath, projectRoot))
	if root := strings.TrimSuffix(pathutil.NormalizeSlash(projectRoot), "/"); root != "" {
		if trimmed, ok := strings.CutPrefix(rel, root+"/"); ok {
			rel = trimmed
		}
	}
	if strings.HasPrefix(rel, "/") || isDrivePath(rel) {
		return rel, false
	}
	return rel, true
}

// isDrivePath reports whether a slash-normalized path starts with a
// Windows drive designator such as "C:/".
func isDrivePath(path string) bool {
	return len(path) >= 2 && path[1] == ':' &&
		(path[0] >= 'a' && path[0] <= 'z' || path[0] >= 'A' && path[0] <= 'Z')
}

// unusedSymbol resolves the declared name for an unused-symbol
// diagnostic. The message shape decides whether the rule applies at
// all; a producer-supplied Symbol field wins over message extraction.
func unusedSymbol(d Diagnostic) (string, bool) {
	name, ok := ParseUnusedSymbol(d.Message)
	if !ok {
		return "", false
	}
	if d.Symbol != "" {
		return d.Symbol, true
	}
	return name, true
}
