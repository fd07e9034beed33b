// Package ignore compiles glob ignore patterns and matches project
// relative file paths against them.
//
// Patterns are forward-slash separated and relative to the project root.
// A segment equal to "**" matches zero or more whole path segments, so
// "vendor/**" covers vendor itself and everything beneath it. Within a
// segment "*" matches any run of characters except "/", "?" matches one
// character, and "[abc]" / "[!abc]" match character classes. Matching is
// case-sensitive throughout, including on case-insensitive filesystems;
// callers that want case folding must normalize before matching.
package ignore

import (
	"strings"
	"unicode/utf8"
)

// Rule is one compiled ignore pattern. Immutable once compiled.
type Rule struct {
	// Pattern is the original source text, kept for logs and debug output.
	Pattern string
	// Recursive reports whether the pattern contains a "**" segment.
	Recursive bool

	segments []segment
}

// segment is the compiled form of one slash-separated pattern segment.
// doubleStar segments have no tokens; all others match a single path
// segment token by token.
type segment struct {
	doubleStar bool
	tokens     []token
}

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokStar
	tokQuestion
	tokClass
)

type token struct {
	kind    tokenKind
	literal rune
	class   []rune
	negated bool
}

// Compile translates a glob pattern into a Rule. The empty pattern and
// patterns that reduce to no segments compile to a rule that matches
// nothing. The only failure mode is an unterminated bracket class,
// reported as an *InvalidPatternError.
func Compile(pattern string) (*Rule, error) {
	normalized, stripped := normalizePattern(pattern)

	rule := &Rule{Pattern: pattern}
	if normalized == "" {
		return rule, nil
	}

	// Offsets are reported against the original pattern text, so start
	// past whatever the normalization removed from the front.
	offset := stripped
	for _, raw := range strings.Split(normalized, "/") {
		if raw == "" {
			// Doubled slashes contribute no segment.
			offset++
			continue
		}
		if raw == "**" {
			rule.Recursive = true
			rule.segments = append(rule.segments, segment{doubleStar: true})
			offset += len(raw) + 1
			continue
		}
		tokens, errOffset, reason := compileSegment(raw)
		if reason != "" {
			return nil, &InvalidPatternError{
				Pattern: pattern,
				Offset:  offset + errOffset,
				Reason:  reason,
			}
		}
		rule.segments = append(rule.segments, segment{tokens: tokens})
		offset += len(raw) + 1
	}

	return rule, nil
}

// normalizePattern strips the decorations that do not affect meaning:
// leading "./" runs, a leading slash, and a trailing slash. It also
// returns how many leading bytes were removed.
func normalizePattern(pattern string) (string, int) {
	trimmed := pattern
	for strings.HasPrefix(trimmed, "./") {
		trimmed = trimmed[2:]
	}
	trimmed = strings.TrimPrefix(trimmed, "/")
	stripped := len(pattern) - len(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "/")
	return trimmed, stripped
}

// compileSegment tokenizes one non-"**" segment. A "**" appearing inside
// a longer segment (e.g. "a/**b") is not a recursive wildcard; each "*"
// is compiled as an ordinary star, which collapses to single-star
// behavior within the segment. Returns a non-empty reason string and the
// offset within the segment on failure.
func compileSegment(seg string) ([]token, int, string) {
	var tokens []token

	for i := 0; i < len(seg); {
		switch seg[i] {
		case '*':
			// Adjacent stars are redundant within a segment.
			if len(tokens) == 0 || tokens[len(tokens)-1].kind != tokStar {
				tokens = append(tokens, token{kind: tokStar})
			}
			i++
		case '?':
			tokens = append(tokens, token{kind: tokQuestion})
			i++
		case '[':
			end := strings.IndexByte(seg[i+1:], ']')
			if end < 0 {
				return nil, i, "unterminated bracket class"
			}
			body := seg[i+1 : i+1+end]
			negated := false
			if strings.HasPrefix(body, "!") {
				negated = true
				body = body[1:]
			}
			tokens = append(tokens, token{
				kind:    tokClass,
				class:   []rune(body),
				negated: negated,
			})
			i += end + 2
		default:
			r, size := utf8.DecodeRuneInString(seg[i:])
			tokens = append(tokens, token{kind: tokLiteral, literal: r})
			i += size
		}
	}

	return tokens, 0, ""
}

// matchTokens matches one path segment against a compiled token list
// with single-star backtracking.
func matchTokens(tokens []token, name []rune) bool {
	if len(tokens) == 0 {
		return len(name) == 0
	}

	tok := tokens[0]
	switch tok.kind {
	case tokStar:
		// Try every split point, longest tail first is irrelevant for
		// correctness; empty match first keeps recursion shallow for
		// common "*suffix" patterns.
		for i := 0; i <= len(name); i++ {
			if matchTokens(tokens[1:], name[i:]) {
				return true
			}
		}
		return false
	case tokQuestion:
		if len(name) == 0 {
			return false
		}
		return matchTokens(tokens[1:], name[1:])
	case tokClass:
		if len(name) == 0 {
			return false
		}
		if !matchClass(tok, name[0]) {
			return false
		}
		return matchTokens(tokens[1:], name[1:])
	default:
		if len(name) == 0 || name[0] != tok.literal {
			return false
		}
		return matchTokens(tokens[1:], name[1:])
	}
}

func matchClass(tok token, r rune) bool {
	listed := false
	for _, c := range tok.class {
		if c == r {
			listed = true
			break
		}
	}
	if tok.negated {
		return !listed
	}
	return listed
}
