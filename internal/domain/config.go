package domain

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Default layout of an agent tree.
const (
	DefaultAgentsDir   = ".opencode/agents"
	DefaultIndexDoc    = ".opencode/AGENTS_INDEX.md"
	DefaultFallbackDoc = "AGENTS.md"
)

// DefaultReferenceDocs are the documents scanned for dead agent references.
// The index is one of them.
var DefaultReferenceDocs = []string{
	"AGENTS.md",
	".opencode/AGENTS_INDEX.md",
	".opencode/plugins/README.md",
}

// AuditConfig describes where agents and their overview documents live,
// relative to the audit root. Loaded from .agentaudit.yaml.
type AuditConfig struct {
	AgentsDir     string   `yaml:"agents_dir"     json:"agents_dir,omitempty"`
	IndexDoc      string   `yaml:"index_doc"      json:"index_doc,omitempty"`
	FallbackDoc   string   `yaml:"fallback_doc"   json:"fallback_doc,omitempty"`
	ReferenceDocs []string `yaml:"reference_docs" json:"reference_docs,omitempty"`
}

// DefaultAuditConfig returns the layout used when no config file exists.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{
		AgentsDir:     DefaultAgentsDir,
		IndexDoc:      DefaultIndexDoc,
		FallbackDoc:   DefaultFallbackDoc,
		ReferenceDocs: append([]string(nil), DefaultReferenceDocs...),
	}
}

// Merge overlays explicit (non-zero) values of override on c.
func (c AuditConfig) Merge(override AuditConfig) AuditConfig {
	result := c
	if override.AgentsDir != "" {
		result.AgentsDir = override.AgentsDir
	}
	if override.IndexDoc != "" {
		result.IndexDoc = override.IndexDoc
	}
	if override.FallbackDoc != "" {
		result.FallbackDoc = override.FallbackDoc
	}
	// Explicit reference docs replace the defaults entirely.
	if len(override.ReferenceDocs) > 0 {
		result.ReferenceDocs = append([]string(nil), override.ReferenceDocs...)
	}
	return result
}

// Validate rejects absolute paths and paths escaping the audit root.
// Empty fields are allowed; they mean "use the default".
func (c AuditConfig) Validate() error {
	if err := validateRelPath("agents_dir", c.AgentsDir); err != nil {
		return err
	}
	if err := validateRelPath("index_doc", c.IndexDoc); err != nil {
		return err
	}
	if err := validateRelPath("fallback_doc", c.FallbackDoc); err != nil {
		return err
	}
	for i, doc := range c.ReferenceDocs {
		if strings.TrimSpace(doc) == "" {
			return fmt.Errorf("reference_docs[%d] must not be empty", i)
		}
		if err := validateRelPath(fmt.Sprintf("reference_docs[%d]", i), doc); err != nil {
			return err
		}
	}
	return nil
}

// DocCount is the number of distinct auxiliary documents a run checks:
// the reference documents plus the inventory index.
func (c AuditConfig) DocCount() int {
	seen := make(map[string]bool)
	for _, doc := range c.ReferenceDocs {
		seen[path.Clean(doc)] = true
	}
	if c.IndexDoc != "" {
		seen[path.Clean(c.IndexDoc)] = true
	}
	return len(seen)
}

func validateRelPath(field, p string) error {
	if p == "" {
		return nil
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return fmt.Errorf("%s must be relative to the audit root (got %q)", field, p)
	}
	clean := path.Clean(filepath.ToSlash(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%s escapes the audit root (got %q)", field, p)
	}
	return nil
}
