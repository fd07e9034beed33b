// Package diag defines the diagnostic model and the filter pipeline
// that decides which analyzer diagnostics reach the user.
package diag

// Severity values follow the LSP convention used by intelephense.
const (
	SeverityError   = 1
	SeverityWarning = 2
	SeverityInfo    = 3
	SeverityHint    = 4
)

// Diagnostic is one item produced by the external analyzer. The filter
// pipeline only reads diagnostics; it never mutates them.
type Diagnostic struct {
	// FilePath is absolute or project-relative.
	FilePath string `json:"file_path"`
	Severity int    `json:"severity,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Message  string `json:"message"`
	// Symbol is the declared name an unused-symbol diagnostic refers
	// to. Usually absent; the filter falls back to extracting it from
	// the message.
	Symbol string `json:"symbol,omitempty"`
}

// DropReason explains why a diagnostic was suppressed.
type DropReason string

const (
	ReasonNone             DropReason = "none"
	ReasonPathIgnored      DropReason = "path-ignored"
	ReasonUnderscoreSymbol DropReason = "underscore-symbol"
)

// FilterDecision is the per-diagnostic outcome of the pipeline. It is
// ephemeral — exposed for tests and tool responses, never stored.
type FilterDecision struct {
	Retain bool
	Reason DropReason
}
