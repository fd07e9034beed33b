package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/phpwatch/phpwatch/internal/diag"
	"github.com/phpwatch/phpwatch/internal/version"
)

// projectParams is the shared parameter shape for root-scoped tools.
type projectParams struct {
	ProjectPath string `json:"project_path"`
}

func (s *Server) resolveRoot(p projectParams) (string, error) {
	if p.ProjectPath != "" {
		return p.ProjectPath, nil
	}
	if s.defaultRoot != "" {
		return s.defaultRoot, nil
	}
	return "", fmt.Errorf("project_path is required (no default root configured)")
}

// diagnosticsResponse is the get_diagnostics result payload. The
// retained sequence is a strict, order-preserving subset of the
// analyzer's output.
type diagnosticsResponse struct {
	ProjectPath         string            `json:"project_path"`
	Total               int               `json:"total"`
	Retained            int               `json:"retained"`
	DroppedByPath       int               `json:"dropped_by_path"`
	DroppedByUnderscore int               `json:"dropped_by_underscore"`
	Diagnostics         []diag.Diagnostic `json:"diagnostics"`
}

func (s *Server) handleGetDiagnostics(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params projectParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("get_diagnostics", fmt.Errorf("invalid parameters: %w", err))
	}

	root, err := s.resolveRoot(params)
	if err != nil {
		return createErrorResponse("get_diagnostics", err)
	}

	proj := s.store.Get(root)

	raw, err := s.source.Diagnostics(ctx, root)
	if err != nil {
		s.logger.Errorf("analyzer failed for %s: %v", root, err)
		return createErrorResponse("get_diagnostics", err)
	}

	resp := diagnosticsResponse{
		ProjectPath: root,
		Total:       len(raw),
		Diagnostics: make([]diag.Diagnostic, 0, len(raw)),
	}
	for _, d := range raw {
		decision := diag.Decide(d, proj.Rules, s.underscoreIgnore, root)
		switch {
		case decision.Retain:
			resp.Diagnostics = append(resp.Diagnostics, d)
		case decision.Reason == diag.ReasonPathIgnored:
			resp.DroppedByPath++
		case decision.Reason == diag.ReasonUnderscoreSymbol:
			resp.DroppedByUnderscore++
		}
	}
	resp.Retained = len(resp.Diagnostics)

	s.logger.Printf("get_diagnostics %s: %d raw, %d retained (%d path-ignored, %d underscore)",
		root, resp.Total, resp.Retained, resp.DroppedByPath, resp.DroppedByUnderscore)
	return createJSONResponse(resp)
}

func (s *Server) handleReloadConfig(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params projectParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("reload_config", fmt.Errorf("invalid parameters: %w", err))
	}

	root, err := s.resolveRoot(params)
	if err != nil {
		return createErrorResponse("reload_config", err)
	}

	proj := s.store.Reload(root)
	s.logger.Printf("reload_config %s: %d patterns, %d skipped", root, proj.Rules.Len(), len(proj.Rules.Skipped))

	return createJSONResponse(map[string]interface{}{
		"project_path":     root,
		"patterns":         proj.Rules.Len(),
		"skipped_patterns": proj.Rules.Skipped,
		"loaded_at":        proj.LoadedAt,
	})
}

func (s *Server) handleInfo(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return createJSONResponse(map[string]interface{}{
		"server_name":    "phpwatch-mcp-server",
		"server_version": version.FullInfo(),
		"go_version":     runtime.Version(),
		"platform":       runtime.GOOS + "/" + runtime.GOARCH,
		"capabilities": []string{
			"stdio_transport",
			"glob_ignore_rules",
			"underscore_unused_suppression",
			"config_hot_reload",
		},
	})
}
