package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phpwatch/phpwatch/internal/ignore"
)

func compileSet(t *testing.T, patterns ...string) *ignore.RuleSet {
	t.Helper()
	set, errs := ignore.CompileSet(patterns)
	require.Empty(t, errs)
	return set
}

func TestFilter_PathIgnoring(t *testing.T) {
	set := compileSet(t, "tests/fixtures/**", "vendor/**")
	diags := []Diagnostic{
		{FilePath: "/project/tests/fixtures/bad.php", Severity: SeverityError, Message: "Syntax error"},
		{FilePath: "/project/src/app.php", Severity: SeverityError, Message: "Undefined method 'run'."},
		{FilePath: "/project/vendor/lib/helper.php", Severity: SeverityWarning, Message: "Deprecated"},
	}

	got := Filter(diags, set, true, "/project")

	require.Len(t, got, 1)
	assert.Equal(t, "/project/src/app.php", got[0].FilePath)
}

func TestFilter_RelativePaths(t *testing.T) {
	set := compileSet(t, "vendor/**")
	diags := []Diagnostic{
		{FilePath: "vendor/lib.php", Message: "Error"},
		{FilePath: "./src/app.php", Message: "Error"},
		{FilePath: "src\\windows.php", Message: "Error"},
	}

	got := Filter(diags, set, true, "/project")

	require.Len(t, got, 2)
	assert.Equal(t, "./src/app.php", got[0].FilePath, "diagnostics are returned unmodified")
	assert.Equal(t, "src\\windows.php", got[1].FilePath)
}

func TestFilter_PathsOutsideRootAreRetained(t *testing.T) {
	// An absolute path that is not under the project root never becomes
	// relative, so the ignore rules must not apply: a "vendor/**" rule
	// targets the project's vendor directory, not /vendor on the host.
	set := compileSet(t, "vendor/**")
	diags := []Diagnostic{
		{FilePath: "/vendor/lib.php", Message: "Error"},
		{FilePath: "/other/vendor/lib.php", Message: "Error"},
		{FilePath: "D:/elsewhere/vendor/lib.php", Message: "Error"},
		{FilePath: "/project/vendor/lib.php", Message: "Error"},
	}

	got := Filter(diags, set, true, "/project")

	require.Len(t, got, 3)
	assert.Equal(t, "/vendor/lib.php", got[0].FilePath)
	assert.Equal(t, "/other/vendor/lib.php", got[1].FilePath)
	assert.Equal(t, "D:/elsewhere/vendor/lib.php", got[2].FilePath)
}

func TestFilter_UnderscoreSuppression(t *testing.T) {
	diags := []Diagnostic{
		{FilePath: "src/a.php", Message: "Variable '$_unused' is declared but not used."},
		{FilePath: "src/a.php", Message: "Variable '$used' is declared but not used."},
		{FilePath: "src/b.php", Message: "Method '_private' is declared but never used."},
		{FilePath: "src/b.php", Message: "Function 'render' is declared but never used."},
	}

	enabled := Filter(diags, nil, true, "/project")
	require.Len(t, enabled, 2)
	assert.Contains(t, enabled[0].Message, "$used")
	assert.Contains(t, enabled[1].Message, "render")

	// --no-ignore-unused-underscore retains everything.
	disabled := Filter(diags, nil, false, "/project")
	assert.Equal(t, diags, disabled)
}

func TestFilter_OrderPreservedAndIdempotent(t *testing.T) {
	set := compileSet(t, "generated/**")
	diags := []Diagnostic{
		{FilePath: "src/z.php", Line: 3, Message: "third"},
		{FilePath: "generated/api.php", Message: "dropped"},
		{FilePath: "src/a.php", Line: 1, Message: "first"},
		{FilePath: "src/a.php", Line: 2, Message: "Variable '$_tmp' is declared but not used."},
		{FilePath: "src/m.php", Line: 9, Message: "second"},
	}

	once := Filter(diags, set, true, "/project")
	require.Len(t, once, 3)
	assert.Equal(t, "third", once[0].Message)
	assert.Equal(t, "first", once[1].Message)
	assert.Equal(t, "second", once[2].Message)

	twice := Filter(once, set, true, "/project")
	assert.Equal(t, once, twice)
}

func TestDecide_Reasons(t *testing.T) {
	set := compileSet(t, "vendor/**")

	tests := []struct {
		name   string
		d      Diagnostic
		retain bool
		reason DropReason
	}{
		{
			name:   "path ignored",
			d:      Diagnostic{FilePath: "vendor/lib.php", Message: "Error"},
			retain: false,
			reason: ReasonPathIgnored,
		},
		{
			name:   "path wins over underscore",
			d:      Diagnostic{FilePath: "vendor/lib.php", Message: "Variable '$_x' is declared but not used."},
			retain: false,
			reason: ReasonPathIgnored,
		},
		{
			name:   "underscore symbol",
			d:      Diagnostic{FilePath: "src/a.php", Message: "Variable '$_x' is declared but not used."},
			retain: false,
			reason: ReasonUnderscoreSymbol,
		},
		{
			name:   "retained",
			d:      Diagnostic{FilePath: "src/a.php", Message: "Undefined variable '$y'."},
			retain: true,
			reason: ReasonNone,
		},
		{
			name:   "producer symbol field wins over message token",
			d:      Diagnostic{FilePath: "src/a.php", Symbol: "$visible", Message: "Variable '$_x' is declared but not used."},
			retain: true,
			reason: ReasonNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Decide(tt.d, set, true, "/project")
			assert.Equal(t, tt.retain, decision.Retain)
			assert.Equal(t, tt.reason, decision.Reason)
		})
	}
}

func TestFilter_EmptyInput(t *testing.T) {
	set := compileSet(t, "vendor/**")
	assert.Empty(t, Filter(nil, set, true, "/project"))
	assert.Empty(t, Filter([]Diagnostic{}, set, true, "/project"))
}
