// Package config loads per-project intelephense.json files and caches
// the compiled ignore rules per project root.
//
// Config errors never propagate: a missing, unreadable, or malformed
// file degrades to the empty ignore set with a logged warning, so a
// broken config can never crash or block the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the config file looked up at each project root.
const FileName = "intelephense.json"

// ProjectConfig is the validated in-memory form of intelephense.json.
type ProjectConfig struct {
	// Root is the project root the config was loaded for.
	Root string
	// Ignore holds the glob patterns from the "ignore" key, already
	// reduced to the string entries. Empty on any load failure.
	Ignore []string
}

// Default returns the empty-ignore config for a root.
func Default(root string) *ProjectConfig {
	return &ProjectConfig{Root: root}
}

// Load reads intelephense.json at the project root. It never fails the
// caller: every problem resolves to the default config plus warnings
// describing the file path and failure reason.
func Load(root string) (*ProjectConfig, []string) {
	res := load(root)
	return res.cfg, res.warnings
}

// loadResult carries the raw file bytes alongside the parsed config so
// the store can fingerprint content without a second read.
type loadResult struct {
	cfg      *ProjectConfig
	warnings []string
	raw      []byte
}

func load(root string) loadResult {
	path := filepath.Join(root, FileName)
	res := loadResult{cfg: Default(root)}

	info, err := os.Stat(path)
	if err != nil {
		// Absent config is the common case, not a problem.
		if !os.IsNotExist(err) {
			res.warnings = append(res.warnings, fmt.Sprintf("could not stat %s: %v", path, err))
		}
		return res
	}
	if info.IsDir() {
		res.warnings = append(res.warnings, fmt.Sprintf("%s is a directory, expected a JSON file", path))
		return res
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.warnings = append(res.warnings, fmt.Sprintf("could not read %s: %v", path, err))
		return res
	}
	res.raw = data

	ignore, warnings := parseIgnore(data, path)
	res.cfg.Ignore = ignore
	res.warnings = append(res.warnings, warnings...)
	return res
}

// parseIgnore validates the document shape. A missing "ignore" key is
// an empty list. A wrong-typed "ignore" invalidates the list as a
// whole; a valid array drops only its non-string members. Every
// degradation produces a warning naming what failed.
func parseIgnore(data []byte, path string) ([]string, []string) {
	var doc struct {
		Ignore json.RawMessage `json:"ignore"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, []string{fmt.Sprintf("invalid JSON in %s: %v", path, err)}
	}
	if doc.Ignore == nil {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(doc.Ignore, &entries); err != nil {
		return nil, []string{fmt.Sprintf("%s: field \"ignore\" must be an array of strings", path)}
	}

	var patterns []string
	var warnings []string
	for i, entry := range entries {
		var pattern string
		if err := json.Unmarshal(entry, &pattern); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: ignore[%d] is not a string, skipped", path, i))
			continue
		}
		patterns = append(patterns, pattern)
	}
	return patterns, warnings
}
