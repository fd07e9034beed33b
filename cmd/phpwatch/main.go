package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/phpwatch/phpwatch/internal/analyzer"
	"github.com/phpwatch/phpwatch/internal/config"
	"github.com/phpwatch/phpwatch/internal/diag"
	phpmcp "github.com/phpwatch/phpwatch/internal/mcp"
	"github.com/phpwatch/phpwatch/internal/version"
	"github.com/phpwatch/phpwatch/internal/watcher"
)

func main() {
	app := &cli.App{
		Name:    "phpwatch",
		Usage:   "filtered PHP diagnostics from intelephense, over MCP or the command line",
		Version: version.FullInfo(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "project",
				Usage: "project root directory (defaults to the current directory)",
			},
			&cli.BoolFlag{
				Name:  "no-ignore-unused-underscore",
				Usage: "surface unused-symbol diagnostics even for underscore-prefixed names",
			},
			&cli.StringSliceFlag{
				Name:  "analyzer",
				Usage: "analyzer bridge command producing a JSON diagnostics report on stdout",
				Value: cli.NewStringSlice("intelephense-diagnostics"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the MCP server on stdio",
				Action: serveCommand,
			},
			{
				Name:  "check",
				Usage: "filter an analyzer report once and print what remains",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "report",
						Usage: "analyzer report file, or - for stdin",
						Value: "-",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "machine-readable output",
					},
				},
				Action: checkCommand,
			},
			{
				Name:   "patterns",
				Usage:  "print the compiled ignore rules for the project",
				Action: patternsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// projectRoot resolves the --project flag with a cwd fallback.
func projectRoot(c *cli.Context) (string, error) {
	if root := c.String("project"); root != "" {
		return root, nil
	}
	return os.Getwd()
}

func underscoreIgnore(c *cli.Context) bool {
	return !c.Bool("no-ignore-unused-underscore")
}

func serveCommand(c *cli.Context) error {
	root, err := projectRoot(c)
	if err != nil {
		return err
	}

	logger := phpmcp.NewDiagnosticLogger(true)
	defer logger.Close()

	store := config.NewStore(logger.Printf)
	store.Get(root)

	server := phpmcp.NewServer(phpmcp.Options{
		Store:            store,
		Source:           &analyzer.CommandSource{Command: c.StringSlice("analyzer")},
		Logger:           logger,
		UnderscoreIgnore: underscoreIgnore(c),
		DefaultRoot:      root,
	})

	// Config hot reload is best effort: if the watcher cannot start,
	// serve without it rather than refusing to run.
	if w, err := watcher.New(store, watcher.DefaultDebounce, logger.Printf); err != nil {
		logger.Errorf("config watcher unavailable: %v", err)
	} else {
		defer w.Stop()
		if err := w.Watch(root); err != nil {
			logger.Errorf("cannot watch %s: %v", root, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func checkCommand(c *cli.Context) error {
	root, err := projectRoot(c)
	if err != nil {
		return err
	}

	logger := phpmcp.NewDiagnosticLogger(false)
	store := config.NewStore(logger.Printf)
	proj := store.Get(root)

	source := &analyzer.ReportSource{Path: c.String("report")}
	raw, err := source.Diagnostics(c.Context, root)
	if err != nil {
		return err
	}

	retained := diag.Filter(raw, proj.Rules, underscoreIgnore(c), root)

	if c.Bool("json") {
		out, err := json.MarshalIndent(map[string]interface{}{
			"total":       len(raw),
			"retained":    len(retained),
			"diagnostics": retained,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	} else {
		printDiagnostics(retained, len(raw))
	}

	if len(retained) > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func printDiagnostics(diags []diag.Diagnostic, total int) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}

	severityLabel := map[int]string{
		diag.SeverityError:   color.RedString("error"),
		diag.SeverityWarning: color.YellowString("warning"),
		diag.SeverityInfo:    color.CyanString("info"),
		diag.SeverityHint:    color.HiBlackString("hint"),
	}

	for _, d := range diags {
		label, ok := severityLabel[d.Severity]
		if !ok {
			label = "diagnostic"
		}
		fmt.Printf("%s:%d:%d: %s: %s\n", d.FilePath, d.Line, d.Column, label, d.Message)
	}

	suppressed := total - len(diags)
	fmt.Printf("%d diagnostics, %d suppressed\n", len(diags), suppressed)
}

func patternsCommand(c *cli.Context) error {
	root, err := projectRoot(c)
	if err != nil {
		return err
	}

	logger := phpmcp.NewDiagnosticLogger(false)
	store := config.NewStore(logger.Printf)
	proj := store.Get(root)

	for _, rule := range proj.Rules.Rules() {
		marker := " "
		if rule.Recursive {
			marker = "R"
		}
		fmt.Printf("%s %s\n", marker, rule.Pattern)
	}
	for _, skipped := range proj.Rules.Skipped {
		fmt.Printf("! %s (skipped: invalid pattern)\n", skipped)
	}
	if proj.Rules.Len() == 0 && len(proj.Rules.Skipped) == 0 {
		fmt.Println("no ignore patterns configured")
	}
	return nil
}
