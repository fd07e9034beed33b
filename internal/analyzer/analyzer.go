// Package analyzer is the boundary to the external PHP language
// server. phpwatch does not analyze PHP itself; it consumes diagnostic
// reports produced by an intelephense bridge and only decides what to
// surface.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"

	"github.com/phpwatch/phpwatch/internal/diag"
	"github.com/phpwatch/phpwatch/pkg/pathutil"
)

// Report is the JSON document the bridge emits: file URI (or plain
// path) mapped to the diagnostics reported for that file.
type Report map[string][]ReportDiagnostic

// ReportDiagnostic is one entry in a report, LSP-flavored.
type ReportDiagnostic struct {
	Severity int    `json:"severity,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Message  string `json:"message"`
	Symbol   string `json:"symbol,omitempty"`
}

// Source produces raw diagnostics for a project root. Implementations
// must be safe for concurrent use.
type Source interface {
	Diagnostics(ctx context.Context, projectRoot string) ([]diag.Diagnostic, error)
}

// DecodeReport parses a report and flattens it into a diagnostic
// sequence. JSON objects carry no order, so files are sorted by URI to
// keep the output deterministic; within a file the report order is
// preserved. Unlike config loading, a broken report is a real error —
// the analyzer is a collaborator, not user input.
func DecodeReport(r io.Reader) ([]diag.Diagnostic, error) {
	var report Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode analyzer report: %w", err)
	}

	uris := make([]string, 0, len(report))
	for uri := range report {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	var diags []diag.Diagnostic
	for _, uri := range uris {
		path := pathutil.FromFileURI(uri)
		for _, rd := range report[uri] {
			diags = append(diags, diag.Diagnostic{
				FilePath: path,
				Severity: rd.Severity,
				Line:     rd.Line,
				Column:   rd.Column,
				Message:  rd.Message,
				Symbol:   rd.Symbol,
			})
		}
	}
	return diags, nil
}

// ReportSource reads a report from a file, or stdin for "-". Used by
// one-shot CLI runs and tests.
type ReportSource struct {
	Path string
}

func (s *ReportSource) Diagnostics(ctx context.Context, projectRoot string) ([]diag.Diagnostic, error) {
	if s.Path == "" || s.Path == "-" {
		return DecodeReport(os.Stdin)
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open analyzer report: %w", err)
	}
	defer f.Close()
	return DecodeReport(f)
}

// CommandSource runs an external analyzer command with the project root
// as its final argument and decodes the report from its stdout.
type CommandSource struct {
	// Command is the argv of the bridge, e.g.
	// []string{"intelephense-diagnostics", "--format", "json"}.
	Command []string
}

func (s *CommandSource) Diagnostics(ctx context.Context, projectRoot string) ([]diag.Diagnostic, error) {
	if len(s.Command) == 0 {
		return nil, fmt.Errorf("analyzer command not configured")
	}

	args := append(append([]string(nil), s.Command[1:]...), projectRoot)
	cmd := exec.CommandContext(ctx, s.Command[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("analyzer %s failed: %w (stderr: %s)",
			s.Command[0], err, bytes.TrimSpace(stderr.Bytes()))
	}
	return DecodeReport(&stdout)
}

// StaticSource returns a fixed diagnostic sequence. Test double.
type StaticSource struct {
	Diags []diag.Diagnostic
	Err   error
}

func (s *StaticSource) Diagnostics(ctx context.Context, projectRoot string) ([]diag.Diagnostic, error) {
	return s.Diags, s.Err
}
