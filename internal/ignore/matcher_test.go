package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, pattern string) *Rule {
	t.Helper()
	rule, err := Compile(pattern)
	require.NoError(t, err)
	return rule
}

func TestRule_Matches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		// Recursive subtree patterns.
		{"subtree matches root dir itself", "vendor/**", "vendor", true},
		{"subtree matches direct child", "vendor/**", "vendor/lib.php", true},
		{"subtree matches deep child", "vendor/**", "vendor/a/b/c.php", true},
		{"subtree is segment-wise, not prefix-wise", "vendor/**", "src/vendor.php", false},
		{"subtree does not match sibling prefix", "vendor/**", "vendors/lib.php", false},

		// Root-only anchoring: no "**" means exact segment counts.
		{"root glob matches root file", "*.php", "file.php", true},
		{"root glob does not match nested file", "*.php", "src/file.php", false},
		{"root glob wrong extension", "*.php", "file.txt", false},

		// Leading "**/" lifts the anchoring.
		{"any-depth glob at root", "**/*.php", "file.php", true},
		{"any-depth glob one deep", "**/*.php", "src/file.php", true},
		{"any-depth glob three deep", "**/*.php", "a/b/c.php", true},
		{"any-depth glob wrong extension", "**/*.php", "file.txt", false},

		// Double star in the middle.
		{"middle double star empty", "src/**/gen.php", "src/gen.php", true},
		{"middle double star one", "src/**/gen.php", "src/a/gen.php", true},
		{"middle double star many", "src/**/gen.php", "src/a/b/gen.php", true},
		{"middle double star wrong tail", "src/**/gen.php", "src/a/other.php", false},

		// Question mark.
		{"question matches one char", "file?.php", "file1.php", true},
		{"question needs exactly one", "file?.php", "file.php", false},
		{"question does not cross separator", "a?b", "a/b", false},

		// Character classes, case-sensitive.
		{"class upper variant", "src/[Ll]egacy/**", "src/Legacy/old.php", true},
		{"class lower variant", "src/[Ll]egacy/**", "src/legacy/old.php", true},
		{"class is case sensitive", "src/[Ll]egacy/**", "src/LEGACY/old.php", false},
		{"negated class rejects listed", "[!a]bc.php", "abc.php", false},
		{"negated class accepts others", "[!a]bc.php", "xbc.php", true},

		// Plain literal patterns.
		{"exact path", "src/app.php", "src/app.php", true},
		{"exact path case sensitive", "src/app.php", "src/App.php", false},
		{"segment count mismatch", "src/app.php", "src/sub/app.php", false},

		// Candidate normalization.
		{"backslash candidate", "vendor/**", "vendor\\lib.php", true},
		{"dot-slash candidate", "*.php", "./file.php", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := mustCompile(t, tt.pattern)
			assert.Equal(t, tt.want, rule.Matches(tt.path),
				"pattern %q vs path %q", tt.pattern, tt.path)
		})
	}
}

func TestCompileSet_SkipsInvalidPatterns(t *testing.T) {
	set, errs := CompileSet([]string{"vendor/**", "src/[Broken", "*.generated.php"})

	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidPattern)
	assert.Equal(t, []string{"src/[Broken"}, set.Skipped)

	// The surviving rules still work.
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.MatchesAny("vendor/lib.php"))
	assert.True(t, set.MatchesAny("api.generated.php"))
	assert.False(t, set.MatchesAny("src/app.php"))
}

func TestRuleSet_MatchesAny(t *testing.T) {
	set, errs := CompileSet([]string{"vendor/**", "tests/fixtures/**"})
	require.Empty(t, errs)

	// Logical OR across rules, no precedence.
	assert.True(t, set.MatchesAny("vendor/autoload.php"))
	assert.True(t, set.MatchesAny("tests/fixtures/bad.php"))
	assert.False(t, set.MatchesAny("tests/unit/good_test.php"))
	assert.False(t, set.MatchesAny("src/app.php"))
}

func TestRuleSet_NilAndEmpty(t *testing.T) {
	var nilSet *RuleSet
	assert.False(t, nilSet.MatchesAny("anything.php"))
	assert.Equal(t, 0, nilSet.Len())

	empty, errs := CompileSet(nil)
	require.Empty(t, errs)
	assert.False(t, empty.MatchesAny("anything.php"))
}

func TestRuleSet_EmptyPath(t *testing.T) {
	set, errs := CompileSet([]string{"**", "vendor/**"})
	require.Empty(t, errs)

	// "." normalizes to no segments; only a bare "**" can match that.
	assert.True(t, mustCompile(t, "**").Matches("."))
	assert.False(t, mustCompile(t, "vendor/**").Matches("."))
	assert.True(t, set.MatchesAny("."))
}
