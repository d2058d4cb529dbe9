package domain

import "context"

// AgentScanner enumerates agent definition files under agentsDir.
// Paths are root-relative, slash-separated and sorted.
type AgentScanner interface {
	Scan(root, agentsDir string) ([]string, error)
}

// DocumentReader reads a file relative to the audit root. A missing file
// yields an error matching fs.ErrNotExist.
type DocumentReader interface {
	ReadFile(root, relPath string) ([]byte, error)
	// Exists reports whether relPath can be stat'ed below root.
	Exists(root, relPath string) bool
}

// ConfigLoader loads the audit layout for a root directory.
type ConfigLoader interface {
	Load(root string) (AuditConfig, error)
}

// TaskRunner invokes the external td program.
type TaskRunner interface {
	Available(ctx context.Context) bool
	Run(ctx context.Context, args []string) (string, error)
}

// WorktreeLocator finds the version-control working tree containing path.
type WorktreeLocator interface {
	WorktreeRoot(path string) (string, error)
}
