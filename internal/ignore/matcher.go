package ignore

import "strings"

// RuleSet is an ordered collection of compiled rules for one project
// root. A path matches the set iff it matches at least one rule; there
// is no precedence among rules. Immutable once compiled — reloads build
// a fresh set and replace the reference.
type RuleSet struct {
	rules []*Rule
	// Skipped holds the source text of patterns that failed to compile.
	Skipped []string
}

// CompileSet compiles every pattern, skipping the ones that fail.
// Compilation errors come back alongside the (still usable) set so the
// caller can log them; a broken pattern is never fatal to the rest.
func CompileSet(patterns []string) (*RuleSet, []error) {
	set := &RuleSet{}
	var errs []error

	for _, pattern := range patterns {
		rule, err := Compile(pattern)
		if err != nil {
			set.Skipped = append(set.Skipped, pattern)
			errs = append(errs, err)
			continue
		}
		set.rules = append(set.rules, rule)
	}

	return set, errs
}

// Rules returns the compiled rules in pattern order.
func (s *RuleSet) Rules() []*Rule {
	if s == nil {
		return nil
	}
	return s.rules
}

// Len reports the number of usable compiled rules.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// MatchesAny reports whether any rule in the set matches the path.
// A nil or empty set matches nothing.
func (s *RuleSet) MatchesAny(relPath string) bool {
	if s == nil || len(s.rules) == 0 {
		return false
	}

	parts := splitPath(relPath)
	for _, rule := range s.rules {
		if rule.match(parts) {
			return true
		}
	}
	return false
}

// Matches tests the rule against a single project-relative path. The
// path is normalized first (backslashes, "./" prefixes, trailing slash).
func (r *Rule) Matches(relPath string) bool {
	return r.match(splitPath(relPath))
}

// match walks pattern and path segments together. A panic inside the
// walk must not take down a whole filter pass, so it degrades to "no
// match" — an extra diagnostic beats silently hiding the batch.
func (r *Rule) match(parts []string) (matched bool) {
	defer func() {
		if recover() != nil {
			matched = false
		}
	}()

	if len(r.segments) == 0 {
		return false
	}
	return matchSegments(r.segments, parts)
}

// matchSegments implements recursive-wildcard backtracking: a "**"
// segment tries the pattern remainder against every suffix of the
// remaining path segments, including the empty suffix. Without a "**"
// the segment counts must line up exactly, which is what anchors
// root-level patterns like "*.php" to root-level files.
func matchSegments(segs []segment, parts []string) bool {
	if len(segs) == 0 {
		return len(parts) == 0
	}

	seg := segs[0]
	if seg.doubleStar {
		for i := 0; i <= len(parts); i++ {
			if matchSegments(segs[1:], parts[i:]) {
				return true
			}
		}
		return false
	}

	if len(parts) == 0 {
		return false
	}
	if !matchTokens(seg.tokens, []rune(parts[0])) {
		return false
	}
	return matchSegments(segs[1:], parts[1:])
}

// splitPath normalizes a candidate path and splits it into segments.
// "." and the empty path split to no segments.
func splitPath(relPath string) []string {
	path := NormalizePath(relPath)
	if path == "" || path == "." {
		return nil
	}

	raw := strings.Split(path, "/")
	parts := raw[:0]
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
