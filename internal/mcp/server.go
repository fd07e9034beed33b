// Package mcp exposes filtered PHP diagnostics over the Model Context
// Protocol. The server owns the per-root config store and the analyzer
// source; every tool call is stateless beyond that cache, so any number
// of concurrent get_diagnostics calls for different projects are safe.
package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/phpwatch/phpwatch/internal/analyzer"
	"github.com/phpwatch/phpwatch/internal/config"
	"github.com/phpwatch/phpwatch/internal/version"
)

// Server wires the config store, the analyzer boundary, and the MCP
// transport together.
type Server struct {
	server *mcp.Server
	store  *config.Store
	source analyzer.Source
	logger *DiagnosticLogger

	// underscoreIgnore is the process-wide startup toggle for the
	// underscore suppression rule, threaded into every filter call.
	underscoreIgnore bool

	// defaultRoot is used when a tool call omits project_path.
	defaultRoot string
}

// Options configures a Server.
type Options struct {
	Store            *config.Store
	Source           analyzer.Source
	Logger           *DiagnosticLogger
	UnderscoreIgnore bool
	DefaultRoot      string
}

// NewServer creates the MCP server and registers its tools.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = NewDiagnosticLogger(true)
	}

	store := opts.Store
	if store == nil {
		store = config.NewStore(logger.Printf)
	}

	s := &Server{
		store:            store,
		source:           opts.Source,
		logger:           logger,
		underscoreIgnore: opts.UnderscoreIgnore,
		defaultRoot:      opts.DefaultRoot,
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "phpwatch-mcp-server",
		Version: version.Info(),
	}, nil)
	s.registerTools()

	logger.Printf("MCP server initialized (underscore ignore: %v, default root: %s)",
		opts.UnderscoreIgnore, opts.DefaultRoot)
	return s
}

// Store exposes the config store so the surrounding process can attach
// the config watcher.
func (s *Server) Store() *config.Store {
	return s.store
}

func (s *Server) registerTools() {
	projectPathSchema := &jsonschema.Schema{
		Type:        "string",
		Description: "Project root directory. Defaults to the root the server was started with.",
	}

	s.server.AddTool(&mcp.Tool{
		Name:        "get_diagnostics",
		Description: "Get PHP diagnostics for a project with ignore rules applied. Paths matching intelephense.json ignore globs and unused-symbol reports for underscore-prefixed names are suppressed.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"project_path": projectPathSchema,
			},
		},
	}, s.handleGetDiagnostics)

	s.server.AddTool(&mcp.Tool{
		Name:        "reload_config",
		Description: "Re-read intelephense.json for a project and rebuild its ignore rules. Reports the compiled pattern count and any skipped patterns.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"project_path": projectPathSchema,
			},
		},
	}, s.handleReloadConfig)

	s.server.AddTool(&mcp.Tool{
		Name:        "info",
		Description: "Get server name, version, and capabilities.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleInfo)
}

// Run serves MCP over stdio until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
